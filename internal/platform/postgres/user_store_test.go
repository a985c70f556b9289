package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "email", "hashed_password", "is_verified", "avatar_url", "created_at", "updated_at"}

func TestPostgresUserStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	user, err := domain.NewUser("a@x.com", "hash")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, "a@x.com", "hash", false, nil, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), user))
}

func TestPostgresUserStore_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	user, err := domain.NewUser("a@x.com", "hash")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	err = s.Create(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestPostgresUserStore_CreateInvalid(t *testing.T) {
	db, _ := newMock(t)
	s := NewPostgresUserStore(db, nil)

	err := s.Create(context.Background(), &domain.User{ID: uuid.New(), Email: "nope", HashedPassword: "h"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPostgresUserStore_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	mock.ExpectQuery("SELECT .+ FROM users WHERE email").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), "a@x.com", "hash", true, "https://img/a.png", now, now))

	user, err := s.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.True(t, user.IsVerified)
	assert.Equal(t, "https://img/a.png", user.AvatarURL)
}

func TestPostgresUserStore_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	user, err := s.GetByID(context.Background(), uuid.New())
	assert.Nil(t, user)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPostgresUserStore_GetByIDNullAvatar(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), "a@x.com", "hash", false, nil, now, now))

	user, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, user.AvatarURL)
}

func TestPostgresUserStore_MarkVerified(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs(id, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.MarkVerified(context.Background(), id))

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.MarkVerified(context.Background(), uuid.New()), store.ErrUserNotFound)
}

func TestPostgresUserStore_UpdateAvatarURL(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET avatar_url").
		WithArgs(id, "https://img/new.png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.UpdateAvatarURL(context.Background(), id, "https://img/new.png"))
}

func TestPostgresUserStore_WithTx(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET is_verified").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).MarkVerified(ctx, uuid.New())
	})
	assert.NoError(t, err)
}
