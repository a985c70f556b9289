package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/contacts-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		Algorithm:                   "HS256",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 7 * 24 * 60,
	}
}

func newTestJWTService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	impl.timeFunc = func() time.Time { return now }
	return impl
}

func TestNewJWTServiceRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.JWTSecret = "short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)

	cfg = testAuthConfig()
	cfg.Algorithm = "RS256"
	_, err = NewJWTService(cfg)
	assert.ErrorContains(t, err, "unsupported signing algorithm")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, now)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "a@x.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, now.Add(60*time.Minute), claims.ExpiresAt)
	assert.Equal(t, now, claims.IssuedAt)
	assert.Equal(t, time.UTC, claims.ExpiresAt.Location())
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenLifetime(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, now)
	ctx := context.Background()

	token, err := svc.GenerateRefreshToken(ctx, "a@x.com")
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return now.Add(6 * 24 * time.Hour) }
	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour), claims.ExpiresAt)

	svc.timeFunc = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	_, err = svc.ValidateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, now)
	ctx := context.Background()

	access, err := svc.GenerateToken(ctx, "a@x.com")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, "a@x.com")
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "anothersecretkeythatis32charslong!!"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)
	foreign, err := other.GenerateToken(ctx, "a@x.com")
	require.NoError(t, err)

	hs512Cfg := testAuthConfig()
	hs512Cfg.Algorithm = "HS512"
	hs512, err := NewJWTService(hs512Cfg)
	require.NoError(t, err)
	wrongAlg, err := hs512.GenerateToken(ctx, "a@x.com")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		TokenType:        TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"malformed", "not.a.jwt", ErrInvalidToken},
		{"empty", "", ErrInvalidToken},
		{"bad signature", foreign, ErrInvalidToken},
		{"unexpected algorithm", wrongAlg, ErrInvalidToken},
		{"refresh used as access", refresh, ErrWrongTokenType},
		{"missing subject", noSubject, ErrMissingSubject},
		{"missing expiry", noExpiry, ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(ctx, tc.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestAccessTokenExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, now)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "a@x.com")
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return now.Add(61 * time.Minute) }
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
