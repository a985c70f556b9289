package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	register     func(ctx context.Context, email, password string) (*domain.User, error)
	login        func(ctx context.Context, email, password string) (*auth.TokenPair, error)
	refresh      func(ctx context.Context, token string) (*auth.TokenPair, error)
	verify       func(ctx context.Context, token string) error
	uploadAvatar func(ctx context.Context, user *domain.User, data []byte, contentType string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.register(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*auth.TokenPair, error) {
	return s.refresh(ctx, token)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.verify(ctx, token)
}

func (s *stubAuthService) UploadAvatar(
	ctx context.Context,
	user *domain.User,
	data []byte,
	contentType string,
) (string, error) {
	return s.uploadAvatar(ctx, user, data, contentType)
}

func (s *stubAuthService) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, auth.ErrInvalidToken
}

type stubContactService struct {
	list     func(ctx context.Context, owner uuid.UUID, skip, limit int) ([]*domain.Contact, error)
	create   func(ctx context.Context, owner uuid.UUID, f domain.ContactFields) (*domain.Contact, error)
	get      func(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	update   func(ctx context.Context, id, owner uuid.UUID, f domain.ContactFields) (*domain.Contact, error)
	delete   func(ctx context.Context, id, owner uuid.UUID) (*domain.Contact, error)
	search   func(ctx context.Context, owner uuid.UUID, q string) ([]*domain.Contact, error)
	upcoming func(ctx context.Context, owner uuid.UUID) ([]*domain.Contact, error)
}

func (s *stubContactService) List(ctx context.Context, owner uuid.UUID, skip, limit int) ([]*domain.Contact, error) {
	return s.list(ctx, owner, skip, limit)
}

func (s *stubContactService) Create(
	ctx context.Context,
	owner uuid.UUID,
	f domain.ContactFields,
) (*domain.Contact, error) {
	return s.create(ctx, owner, f)
}

func (s *stubContactService) Get(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return s.get(ctx, id)
}

func (s *stubContactService) Update(
	ctx context.Context,
	id, owner uuid.UUID,
	f domain.ContactFields,
) (*domain.Contact, error) {
	return s.update(ctx, id, owner, f)
}

func (s *stubContactService) Delete(ctx context.Context, id, owner uuid.UUID) (*domain.Contact, error) {
	return s.delete(ctx, id, owner)
}

func (s *stubContactService) Search(ctx context.Context, owner uuid.UUID, q string) ([]*domain.Contact, error) {
	return s.search(ctx, owner, q)
}

func (s *stubContactService) UpcomingBirthdays(ctx context.Context, owner uuid.UUID) ([]*domain.Contact, error) {
	return s.upcoming(ctx, owner)
}

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "a@x.com"}
}

// serve runs h with user, if any, already authenticated.
func serve(h http.Handler, req *http.Request, user *domain.User) *httptest.ResponseRecorder {
	if user != nil {
		req = req.WithContext(shared.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func requireErrorBody(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.JSONEq(t, `{"error":"`+message+`"}`, rec.Body.String())
}
