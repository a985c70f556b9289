// Package middleware provides the HTTP middleware wrapped around the API
// routes: tracing, authentication, rate limiting and request metrics.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/auth"
)

// UserResolver turns an access token into its user. Errors wrapping
// auth.ErrInvalidToken are reported as 401, anything else as 500.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware requires a valid bearer token on every request.
type AuthMiddleware struct {
	users UserResolver
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

// Authenticate resolves the bearer token and stores the user in the context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, r, "Not authenticated", nil)
			return
		}

		user, err := m.users.CurrentUser(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrExpiredToken):
			unauthorized(w, r, "Token expired", err)
			return
		case errors.Is(err, auth.ErrInvalidToken):
			unauthorized(w, r, "Could not validate credentials", err)
			return
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), user)))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err)
}
