package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
)

// UserStore defines the persistence operations on users.
type UserStore interface {
	// Create inserts a new user.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if no user has the ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail performs a case-sensitive lookup.
	// Returns ErrUserNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// MarkVerified sets is_verified. Verifying an already verified user is a no-op.
	// Returns ErrUserNotFound if no user has the ID.
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// UpdateAvatarURL overwrites the stored avatar URL.
	// Returns ErrUserNotFound if no user has the ID.
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error

	// WithTx returns a store bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
