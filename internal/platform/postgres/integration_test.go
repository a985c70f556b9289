//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/platform/postgres"
	"github.com/phrazzld/contacts-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("contacts_test"),
		tcpostgres.WithUsername("contacts"),
		tcpostgres.WithPassword("contacts"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic("failed to start postgres container: " + err.Error())
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		panic("failed to get connection string: " + err.Error())
	}

	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		panic("failed to open database: " + err.Error())
	}

	if err := postgres.EnsureSchema(ctx, testDB, nil); err != nil {
		_ = testDB.Close()
		_ = container.Terminate(ctx)
		panic("failed to apply schema: " + err.Error())
	}

	code := m.Run()

	_ = testDB.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, ctx context.Context, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "hash")
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresUserStore(testDB, nil).Create(ctx, user))
	return user
}

func createContact(t *testing.T, ctx context.Context, owner uuid.UUID, first, email string, birthday time.Time) *domain.Contact {
	t.Helper()
	c, err := domain.NewContact(owner, domain.ContactFields{
		FirstName:   first,
		LastName:    "Tester",
		Email:       email,
		PhoneNumber: "555",
		Birthday:    birthday,
	})
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresContactStore(testDB, nil).Create(ctx, c))
	return c
}

func TestUserStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := postgres.NewPostgresUserStore(testDB, nil)
	email := uuid.NewString() + "@x.com"

	user := createUser(t, ctx, email)

	dup, err := domain.NewUser(email, "hash")
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)

	require.NoError(t, users.MarkVerified(ctx, user.ID))
	require.NoError(t, users.MarkVerified(ctx, user.ID), "verification is idempotent")
	require.NoError(t, users.UpdateAvatarURL(ctx, user.ID, "https://img/a.png"))

	got, err := users.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Equal(t, "https://img/a.png", got.AvatarURL)
}

func TestContactStoreOwnershipAndQueries(t *testing.T) {
	ctx := context.Background()
	contacts := postgres.NewPostgresContactStore(testDB, nil)

	alice := createUser(t, ctx, uuid.NewString()+"@x.com")
	bob := createUser(t, ctx, uuid.NewString()+"@x.com")

	today := time.Now().UTC()
	ann := createContact(t, ctx, alice.ID, "Ann", uuid.NewString()+"@x.com", today.AddDate(-30, 0, 2))
	createContact(t, ctx, alice.ID, "Zed", uuid.NewString()+"@x.com", today.AddDate(-30, 0, 40))
	createContact(t, ctx, bob.ID, "Ann", uuid.NewString()+"@x.com", today.AddDate(-20, 0, 1))

	list, err := contacts.ListByOwner(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ann.ID, list[0].ID, "insertion order")

	found, err := contacts.Search(ctx, alice.ID, "An")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := contacts.Search(ctx, alice.ID, "an")
	require.NoError(t, err)
	assert.Empty(t, none, "search is case-sensitive")

	all, err := contacts.Search(ctx, alice.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2, "empty query matches every owned contact")
	assert.Equal(t, ann.ID, all[0].ID)

	wild, err := contacts.Search(ctx, alice.ID, "%")
	require.NoError(t, err)
	assert.Empty(t, wild, "LIKE wildcards are matched literally")

	upcoming, err := contacts.ListByBirthdayDays(ctx, alice.ID,
		domain.BirthdayWindow(today, domain.UpcomingBirthdayDays))
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, ann.ID, upcoming[0].ID)

	foreign := *ann
	foreign.OwnerID = bob.ID
	assert.ErrorIs(t, contacts.Update(ctx, &foreign), store.ErrContactNotFound)

	_, err = contacts.Delete(ctx, ann.ID, bob.ID)
	assert.ErrorIs(t, err, store.ErrContactNotFound)

	deleted, err := contacts.Delete(ctx, ann.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ann.Email, deleted.Email)

	_, err = contacts.GetByID(ctx, ann.ID)
	assert.ErrorIs(t, err, store.ErrContactNotFound)
}
