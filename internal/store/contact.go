package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
)

// ContactStore defines the persistence operations on contacts.
// Every listing is ordered by insertion time, then ID.
type ContactStore interface {
	// Create inserts a new contact.
	// Returns ErrContactEmailExists if another contact already has the email.
	Create(ctx context.Context, contact *domain.Contact) error

	// GetByID returns the contact regardless of owner, or ErrContactNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)

	// ListByOwner returns up to limit of the owner's contacts, skipping the first skip.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*domain.Contact, error)

	// Update replaces the editable fields of a contact owned by contact.OwnerID.
	// Returns ErrContactNotFound if the contact is missing or owned by someone else.
	Update(ctx context.Context, contact *domain.Contact) error

	// Delete removes a contact owned by ownerID and returns its last state.
	// Returns ErrContactNotFound if the contact is missing or owned by someone else.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error)

	// Search returns the owner's contacts whose first name, last name, or email
	// contains query as a case-sensitive substring. An empty query matches all.
	Search(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Contact, error)

	// ListByBirthdayDays returns the owner's contacts whose birthday falls on any
	// of the given month/day pairs, regardless of birth year.
	ListByBirthdayDays(ctx context.Context, ownerID uuid.UUID, days []domain.MonthDay) ([]*domain.Contact, error)

	// WithTx returns a store bound to the given transaction.
	WithTx(tx *sql.Tx) ContactStore
}
