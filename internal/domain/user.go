package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// User is a registered account. Email is unique across users and matched
// case-sensitively. HashedPassword is never exposed outside the service layer.
type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	IsVerified     bool
	AvatarURL      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates an unverified user with a fresh ID.
// The caller supplies an already hashed password.
func NewUser(email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the invariants every persisted user must satisfy.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "hash cannot be empty", nil)
	}
	return nil
}

// ValidateEmail reports whether email is a syntactically valid address.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	return nil
}
