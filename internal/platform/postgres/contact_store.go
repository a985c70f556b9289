package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/store"
)

const contactColumns = `id, owner_id, first_name, last_name, email, phone_number, birthday, additional_info, created_at`

const contactOrder = ` ORDER BY created_at, id`

// PostgresContactStore implements store.ContactStore on PostgreSQL.
type PostgresContactStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContactStore creates a contact store over a connection or transaction.
// If logger is nil, the default logger is used.
func NewPostgresContactStore(db store.DBTX, logger *slog.Logger) *PostgresContactStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresContactStore{
		db:     db,
		logger: logger.With(slog.String("component", "contact_store")),
	}
}

var _ store.ContactStore = (*PostgresContactStore)(nil)

// WithTx implements store.ContactStore.
func (s *PostgresContactStore) WithTx(tx *sql.Tx) store.ContactStore {
	return &PostgresContactStore{db: tx, logger: s.logger}
}

// Create implements store.ContactStore.
func (s *PostgresContactStore) Create(ctx context.Context, c *domain.Contact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contacts (id, owner_id, first_name, last_name, email, phone_number, birthday, additional_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		c.ID, c.OwnerID, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.Birthday, c.AdditionalInfo,
	).Scan(&c.CreatedAt)
	if err != nil {
		return s.writeError(log, "create", c.ID, err)
	}

	log.Debug("contact created",
		slog.String("contact_id", c.ID.String()),
		slog.String("owner_id", c.OwnerID.String()))
	return nil
}

// GetByID implements store.ContactStore.
func (s *PostgresContactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err != nil {
		return nil, s.readError(ctx, err)
	}
	return c, nil
}

// ListByOwner implements store.ContactStore.
func (s *PostgresContactStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	skip, limit int,
) ([]*domain.Contact, error) {
	return s.query(ctx, `SELECT `+contactColumns+` FROM contacts
		WHERE owner_id = $1`+contactOrder+` LIMIT $2 OFFSET $3`,
		ownerID, limit, skip)
}

// Update implements store.ContactStore. Ownership is part of the WHERE
// clause, so a foreign contact behaves exactly like a missing one.
func (s *PostgresContactStore) Update(ctx context.Context, c *domain.Contact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := c.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone_number = $6,
		    birthday = $7, additional_info = $8
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at`,
		c.ID, c.OwnerID, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.Birthday, c.AdditionalInfo,
	).Scan(&c.CreatedAt)
	if err != nil {
		return s.writeError(log, "update", c.ID, err)
	}
	return nil
}

// Delete implements store.ContactStore.
func (s *PostgresContactStore) Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Contact, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM contacts
		WHERE id = $1 AND owner_id = $2
		RETURNING `+contactColumns, id, ownerID)
	c, err := scanContact(row)
	if err != nil {
		return nil, s.readError(ctx, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("contact deleted",
		slog.String("contact_id", id.String()))
	return c, nil
}

// Search implements store.ContactStore. strpos matches the query literally,
// so % and _ carry no special meaning.
func (s *PostgresContactStore) Search(
	ctx context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Contact, error) {
	return s.query(ctx, `SELECT `+contactColumns+` FROM contacts
		WHERE owner_id = $1
		  AND (strpos(first_name, $2) > 0 OR strpos(last_name, $2) > 0 OR strpos(email, $2) > 0)`+
		contactOrder, ownerID, query)
}

// ListByBirthdayDays implements store.ContactStore.
func (s *PostgresContactStore) ListByBirthdayDays(
	ctx context.Context,
	ownerID uuid.UUID,
	days []domain.MonthDay,
) ([]*domain.Contact, error) {
	if len(days) == 0 {
		return []*domain.Contact{}, nil
	}

	args := make([]any, 0, len(days)+1)
	args = append(args, ownerID)
	placeholders := make([]string, len(days))
	for i, d := range days {
		args = append(args, d.String())
		placeholders[i] = fmt.Sprintf("$%d", i+2)
	}

	return s.query(ctx, `SELECT `+contactColumns+` FROM contacts
		WHERE owner_id = $1
		  AND to_char(birthday, 'MM-DD') IN (`+strings.Join(placeholders, ", ")+`)`+
		contactOrder, args...)
}

func (s *PostgresContactStore) query(ctx context.Context, query string, args ...any) ([]*domain.Contact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query contacts", slog.String("error", err.Error()))
		return nil, MapError(err, store.ErrContactNotFound, nil)
	}
	defer func() { _ = rows.Close() }()

	contacts := []*domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			log.Error("failed to scan contact", slog.String("error", err.Error()))
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate contacts", slog.String("error", err.Error()))
		return nil, err
	}
	return contacts, nil
}

func (s *PostgresContactStore) readError(ctx context.Context, err error) error {
	mapped := MapError(err, store.ErrContactNotFound, nil)
	if !errors.Is(mapped, store.ErrNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load contact",
			slog.String("error", err.Error()))
	}
	return mapped
}

func (s *PostgresContactStore) writeError(log *slog.Logger, op string, id uuid.UUID, err error) error {
	mapped := MapError(err, store.ErrContactNotFound, store.ErrContactEmailExists)
	if errors.Is(mapped, store.ErrNotFound) || errors.Is(mapped, store.ErrDuplicate) {
		log.Debug("contact write rejected",
			slog.String("operation", op),
			slog.String("contact_id", id.String()),
			slog.String("reason", mapped.Error()))
	} else {
		log.Error("contact write failed",
			slog.String("operation", op),
			slog.String("contact_id", id.String()),
			slog.String("error", err.Error()))
	}
	return mapped
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var (
		c    domain.Contact
		info sql.NullString
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.Birthday, &info, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if info.Valid {
		c.AdditionalInfo = &info.String
	}
	return &c, nil
}
