package postgres

import (
	"context"
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

var contactRowColumns = []string{
	"id", "owner_id", "first_name", "last_name", "email",
	"phone_number", "birthday", "additional_info", "created_at",
}

func testContact(t *testing.T, owner uuid.UUID) *domain.Contact {
	t.Helper()
	c, err := domain.NewContact(owner, domain.ContactFields{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "ann@x.com",
		PhoneNumber: "555",
		Birthday:    time.Date(1990, time.June, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return c
}

func contactRow(rows *sqlmock.Rows, c *domain.Contact) *sqlmock.Rows {
	var info any
	if c.AdditionalInfo != nil {
		info = *c.AdditionalInfo
	}
	return rows.AddRow(c.ID.String(), c.OwnerID.String(), c.FirstName, c.LastName, c.Email,
		c.PhoneNumber, c.Birthday, info, c.CreatedAt)
}

func TestPostgresContactStore_Create(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	c := testContact(t, uuid.New())
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO contacts").
		WithArgs(c.ID, c.OwnerID, "Ann", "Lee", "ann@x.com", "555", c.Birthday, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	require.NoError(t, s.Create(context.Background(), c))
	assert.Equal(t, created, c.CreatedAt)
}

func TestPostgresContactStore_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)

	mock.ExpectQuery("INSERT INTO contacts").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "contacts_email_key"})

	err := s.Create(context.Background(), testContact(t, uuid.New()))
	assert.ErrorIs(t, err, store.ErrContactEmailExists)
}

func TestPostgresContactStore_GetByID(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	c := testContact(t, uuid.New())
	info := "colleague"
	c.AdditionalInfo = &info

	mock.ExpectQuery("SELECT .+ FROM contacts WHERE id").
		WithArgs(c.ID).
		WillReturnRows(contactRow(sqlmock.NewRows(contactRowColumns), c))

	got, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.OwnerID, got.OwnerID)
	require.NotNil(t, got.AdditionalInfo)
	assert.Equal(t, "colleague", *got.AdditionalInfo)
}

func TestPostgresContactStore_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)

	mock.ExpectQuery("SELECT .+ FROM contacts WHERE id").
		WillReturnRows(sqlmock.NewRows(contactRowColumns))

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrContactNotFound)
}

func TestPostgresContactStore_ListByOwner(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	owner := uuid.New()
	a, b := testContact(t, owner), testContact(t, owner)

	rows := sqlmock.NewRows(contactRowColumns)
	contactRow(rows, a)
	contactRow(rows, b)
	mock.ExpectQuery(`WHERE owner_id = \$1 ORDER BY created_at, id LIMIT \$2 OFFSET \$3`).
		WithArgs(owner, 10, 0).
		WillReturnRows(rows)

	got, err := s.ListByOwner(context.Background(), owner, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
}

func TestPostgresContactStore_ListByOwnerEmpty(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)

	mock.ExpectQuery("SELECT .+ FROM contacts").
		WillReturnRows(sqlmock.NewRows(contactRowColumns))

	got, err := s.ListByOwner(context.Background(), uuid.New(), 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresContactStore_UpdateScopesByOwner(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	c := testContact(t, uuid.New())

	mock.ExpectQuery(`UPDATE contacts .+ WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(c.ID, c.OwnerID, "Ann", "Lee", "ann@x.com", "555", c.Birthday, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(c.CreatedAt))
	assert.NoError(t, s.Update(context.Background(), c))

	mock.ExpectQuery("UPDATE contacts").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))
	assert.ErrorIs(t, s.Update(context.Background(), c), store.ErrContactNotFound)
}

func TestPostgresContactStore_Delete(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	c := testContact(t, uuid.New())

	mock.ExpectQuery(`DELETE FROM contacts\s+WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(c.ID, c.OwnerID).
		WillReturnRows(contactRow(sqlmock.NewRows(contactRowColumns), c))

	got, err := s.Delete(context.Background(), c.ID, c.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, c.Email, got.Email)

	mock.ExpectQuery("DELETE FROM contacts").
		WillReturnRows(sqlmock.NewRows(contactRowColumns))
	_, err = s.Delete(context.Background(), c.ID, uuid.New())
	assert.ErrorIs(t, err, store.ErrContactNotFound)
}

func TestPostgresContactStore_Search(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	owner := uuid.New()

	mock.ExpectQuery(`strpos\(first_name, \$2\) > 0 OR strpos\(last_name, \$2\) > 0 OR strpos\(email, \$2\) > 0`).
		WithArgs(owner, "An").
		WillReturnRows(contactRow(sqlmock.NewRows(contactRowColumns), testContact(t, owner)))

	got, err := s.Search(context.Background(), owner, "An")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPostgresContactStore_ListByBirthdayDays(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresContactStore(db, nil)
	owner := uuid.New()
	days := []domain.MonthDay{{Month: time.December, Day: 31}, {Month: time.January, Day: 1}}

	mock.ExpectQuery(`to_char\(birthday, 'MM-DD'\) IN \(\$2, \$3\)`).
		WithArgs(owner, "12-31", "01-01").
		WillReturnRows(sqlmock.NewRows(contactRowColumns))

	got, err := s.ListByBirthdayDays(context.Background(), owner, days)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.ListByBirthdayDays(context.Background(), owner, nil)
	require.NoError(t, err)
	assert.Empty(t, got, "no days means no query")
}
