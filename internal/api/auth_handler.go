package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/contacts-api/internal/api/shared"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/service/auth"
)

// AuthService is the account workflow surface used by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	UploadAvatar(ctx context.Context, user *domain.User, data []byte, contentType string) (string, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// DefaultMaxUploadBytes bounds avatar uploads when no limit is configured.
const DefaultMaxUploadBytes = 5 << 20

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	service        AuthService
	maxUploadBytes int64
}

// NewAuthHandler creates an AuthHandler. A non-positive maxUploadBytes
// selects DefaultMaxUploadBytes.
func NewAuthHandler(service AuthService, maxUploadBytes int64) *AuthHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &AuthHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, newUserResponse(user))
}

// Login handles POST /auth/login. Credentials arrive as form fields.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		HandleAPIError(w, r, domain.NewValidationError("body", "invalid form data", err), "")
		return
	}
	req := LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	pair, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTokenResponse(pair))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTokenResponse(pair))
}

// Me handles GET /auth/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// VerifyEmail handles GET /auth/verify?token=.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		HandleAPIError(w, r, domain.NewValidationError("token", "is required", nil), "")
		return
	}

	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Email verified successfully"})
}

// UploadAvatar handles POST /auth/upload-avatar with a multipart "file" part.
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		msg := "is required"
		if errors.As(err, &tooLarge) {
			msg = "is too large"
		}
		HandleAPIError(w, r, domain.NewValidationError("file", msg, err), "")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Warn("failed to close upload", slog.String("error", cerr.Error()))
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("file", "could not be read", err), "")
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		HandleAPIError(w, r, domain.NewValidationError("file", "must be an image", nil), "")
		return
	}
	log.Debug("avatar received",
		slog.String("filename", header.Filename),
		slog.String("content_type", contentType),
		slog.Int("size", len(data)))

	avatarURL, err := h.service.UploadAvatar(r.Context(), user, data, contentType)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AvatarResponse{AvatarURL: avatarURL})
}
