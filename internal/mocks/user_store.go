package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/store"
)

// MockUserStore implements store.UserStore in memory.
type MockUserStore struct {
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	CreateError     error
	GetByEmailError error
	UpdateError     error

	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

// NewMockUserStore creates an empty store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[uuid.UUID]domain.User)}
}

var _ store.UserStore = (*MockUserStore)(nil)

// WithTx implements store.UserStore by returning the same store.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// MarkVerified implements store.UserStore.
func (m *MockUserStore) MarkVerified(_ context.Context, id uuid.UUID) error {
	return m.update(id, func(u *domain.User) { u.IsVerified = true })
}

// UpdateAvatarURL implements store.UserStore.
func (m *MockUserStore) UpdateAvatarURL(_ context.Context, id uuid.UUID, avatarURL string) error {
	return m.update(id, func(u *domain.User) { u.AvatarURL = avatarURL })
}

func (m *MockUserStore) update(id uuid.UUID, apply func(*domain.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	apply(&u)
	m.users[id] = u
	return nil
}

// Len returns the number of stored users.
func (m *MockUserStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
