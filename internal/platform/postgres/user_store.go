package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/logger"
	"github.com/phrazzld/contacts-api/internal/store"
)

const userColumns = `id, email, hashed_password, is_verified, avatar_url, created_at, updated_at`

// PostgresUserStore implements store.UserStore on PostgreSQL.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store over a connection or transaction.
// If logger is nil, the default logger is used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, hashed_password, is_verified, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.HashedPassword, user.IsVerified,
		nullString(user.AvatarURL), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err, store.ErrUserNotFound, store.ErrEmailExists)
		if IsUniqueViolation(err) {
			log.Debug("user email already registered", slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.scanUser(ctx, row)
}

// GetByEmail implements store.UserStore.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return s.scanUser(ctx, row)
}

// MarkVerified implements store.UserStore.
func (s *PostgresUserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return s.execUpdate(ctx, "mark verified", `
		UPDATE users SET is_verified = TRUE, updated_at = $2
		WHERE id = $1`, id, time.Now().UTC())
}

// UpdateAvatarURL implements store.UserStore.
func (s *PostgresUserStore) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	return s.execUpdate(ctx, "update avatar", `
		UPDATE users SET avatar_url = $2, updated_at = $3
		WHERE id = $1`, id, nullString(avatarURL), time.Now().UTC())
}

func (s *PostgresUserStore) execUpdate(ctx context.Context, op, query string, args ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("user update failed", slog.String("operation", op), slog.String("error", err.Error()))
		return MapError(err, store.ErrUserNotFound, store.ErrEmailExists)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	var (
		user   domain.User
		avatar sql.NullString
	)
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &user.IsVerified,
		&avatar, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		mapped := MapError(err, store.ErrUserNotFound, nil)
		if !errors.Is(mapped, store.ErrNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load user",
				slog.String("error", err.Error()))
		}
		return nil, mapped
	}
	user.AvatarURL = avatar.String
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
