package contact

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/store"
)

// Paging bounds for List.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Service implements the contact operations on top of a ContactStore.
type Service struct {
	tx       store.TxManager
	contacts store.ContactStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a contact service.
func NewService(tx store.TxManager, contacts store.ContactStore, logger *slog.Logger) (*Service, error) {
	if tx == nil {
		return nil, errors.New("tx manager cannot be nil")
	}
	if contacts == nil {
		return nil, errors.New("contact store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tx:       tx,
		contacts: contacts,
		logger:   logger.With(slog.String("component", "contact_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// List returns a page of the owner's contacts in insertion order.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]*domain.Contact, error) {
	if skip < 0 {
		return nil, domain.NewValidationError("skip", "must be zero or greater", nil)
	}
	if limit < 1 || limit > MaxLimit {
		return nil, domain.NewValidationError("limit", "must be between 1 and 100", nil)
	}

	var out []*domain.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		out, err = s.contacts.WithTx(tx).ListByOwner(ctx, ownerID, skip, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a contact for the owner.
// Returns store.ErrContactEmailExists if the email is already in use.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, fields domain.ContactFields) (*domain.Contact, error) {
	c, err := domain.NewContact(ownerID, fields)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.contacts.WithTx(tx).Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("contact created",
		slog.String("contact_id", c.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return c, nil
}

// Get returns a contact by ID without checking ownership. Callers that serve
// a particular user must compare OwnerID themselves.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var c *domain.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		c, err = s.contacts.WithTx(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces every editable field of the owner's contact.
func (s *Service) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	fields domain.ContactFields,
) (*domain.Contact, error) {
	c := &domain.Contact{ID: id, OwnerID: ownerID}
	if err := c.Apply(fields); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.contacts.WithTx(tx).Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the owner's contact and returns its last state.
func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error) {
	var c *domain.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		c, err = s.contacts.WithTx(tx).Delete(ctx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("contact deleted",
		slog.String("contact_id", id.String()),
		slog.String("owner_id", ownerID.String()))
	return c, nil
}

// Search returns the owner's contacts whose first name, last name or email
// contains query. Matching is literal and case-sensitive.
func (s *Service) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]*domain.Contact, error) {
	var out []*domain.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		out, err = s.contacts.WithTx(tx).Search(ctx, ownerID, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday anniversary
// falls between today and a week from today, inclusive.
func (s *Service) UpcomingBirthdays(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error) {
	days := domain.BirthdayWindow(s.now(), domain.UpcomingBirthdayDays)

	var out []*domain.Contact
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		out, err = s.contacts.WithTx(tx).ListByBirthdayDays(ctx, ownerID, days)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
