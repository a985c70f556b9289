package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/service/auth"
)

// RegisterRequest is the body of POST /auth/register. bcrypt only uses the
// first 72 bytes of a password, hence the upper bound.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest holds the form fields of POST /auth/login. The username
// field carries the account email.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	AvatarURL  *string   `json:"avatar_url"`
}

func newUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{ID: u.ID, Email: u.Email, IsVerified: u.IsVerified}
	if u.AvatarURL != "" {
		avatar := u.AvatarURL
		resp.AvatarURL = &avatar
	}
	return resp
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(p *auth.TokenPair) TokenResponse {
	return TokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, TokenType: p.TokenType}
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// AvatarResponse is returned by POST /auth/upload-avatar.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// ContactRequest is the body of POST /contacts and PUT /contacts/{id}.
// Updates replace every field.
type ContactRequest struct {
	FirstName      string  `json:"first_name"      validate:"required,max=255"`
	LastName       string  `json:"last_name"       validate:"required,max=255"`
	Email          string  `json:"email"           validate:"required,email"`
	PhoneNumber    string  `json:"phone_number"    validate:"required,max=50"`
	Birthday       string  `json:"birthday"        validate:"required,datetime=2006-01-02"`
	AdditionalInfo *string `json:"additional_info"`
}

// Fields converts a validated request into domain fields.
func (r ContactRequest) Fields() (domain.ContactFields, error) {
	birthday, err := time.Parse(domain.BirthdayLayout, r.Birthday)
	if err != nil {
		return domain.ContactFields{}, domain.NewValidationError("birthday", "must be a date in YYYY-MM-DD format", nil)
	}
	return domain.ContactFields{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		Birthday:       birthday,
		AdditionalInfo: r.AdditionalInfo,
	}, nil
}

// ContactResponse is the public view of a contact.
type ContactResponse struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       string    `json:"birthday"`
	AdditionalInfo *string   `json:"additional_info"`
}

func newContactResponse(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday.Format(domain.BirthdayLayout),
		AdditionalInfo: c.AdditionalInfo,
	}
}

func newContactListResponse(contacts []*domain.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, newContactResponse(c))
	}
	return out
}
