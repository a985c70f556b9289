package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/contacts-api/internal/domain"
	"github.com/phrazzld/contacts-api/internal/store"
)

// MockContactStore implements store.ContactStore in memory, preserving
// insertion order.
type MockContactStore struct {
	// Err, when set, is returned from every call.
	Err error

	mu       sync.Mutex
	contacts []domain.Contact
}

// NewMockContactStore creates an empty store.
func NewMockContactStore() *MockContactStore {
	return &MockContactStore{}
}

var _ store.ContactStore = (*MockContactStore)(nil)

// WithTx implements store.ContactStore by returning the same store.
func (m *MockContactStore) WithTx(*sql.Tx) store.ContactStore {
	return m
}

// Create implements store.ContactStore.
func (m *MockContactStore) Create(_ context.Context, c *domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.emailTaken(c.Email, c.ID) {
		return store.ErrContactEmailExists
	}
	m.contacts = append(m.contacts, *c)
	return nil
}

// GetByID implements store.ContactStore.
func (m *MockContactStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if i := m.index(id, uuid.Nil); i >= 0 {
		c := m.contacts[i]
		return &c, nil
	}
	return nil, store.ErrContactNotFound
}

// ListByOwner implements store.ContactStore.
func (m *MockContactStore) ListByOwner(
	_ context.Context,
	ownerID uuid.UUID,
	skip, limit int,
) ([]*domain.Contact, error) {
	all, err := m.filter(ownerID, func(*domain.Contact) bool { return true })
	if err != nil {
		return nil, err
	}
	if skip >= len(all) {
		return []*domain.Contact{}, nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// Update implements store.ContactStore.
func (m *MockContactStore) Update(_ context.Context, c *domain.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	i := m.index(c.ID, c.OwnerID)
	if i < 0 {
		return store.ErrContactNotFound
	}
	if m.emailTaken(c.Email, c.ID) {
		return store.ErrContactEmailExists
	}
	c.CreatedAt = m.contacts[i].CreatedAt
	m.contacts[i] = *c
	return nil
}

// Delete implements store.ContactStore.
func (m *MockContactStore) Delete(_ context.Context, id, ownerID uuid.UUID) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	i := m.index(id, ownerID)
	if i < 0 {
		return nil, store.ErrContactNotFound
	}
	c := m.contacts[i]
	m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
	return &c, nil
}

// Search implements store.ContactStore.
func (m *MockContactStore) Search(
	_ context.Context,
	ownerID uuid.UUID,
	query string,
) ([]*domain.Contact, error) {
	return m.filter(ownerID, func(c *domain.Contact) bool {
		return strings.Contains(c.FirstName, query) ||
			strings.Contains(c.LastName, query) ||
			strings.Contains(c.Email, query)
	})
}

// ListByBirthdayDays implements store.ContactStore.
func (m *MockContactStore) ListByBirthdayDays(
	_ context.Context,
	ownerID uuid.UUID,
	days []domain.MonthDay,
) ([]*domain.Contact, error) {
	return m.filter(ownerID, func(c *domain.Contact) bool {
		for _, d := range days {
			if c.Birthday.Month() == d.Month && c.Birthday.Day() == d.Day {
				return true
			}
		}
		return false
	})
}

func (m *MockContactStore) filter(ownerID uuid.UUID, keep func(*domain.Contact) bool) ([]*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	out := []*domain.Contact{}
	for i := range m.contacts {
		c := m.contacts[i]
		if c.OwnerID == ownerID && keep(&c) {
			out = append(out, &c)
		}
	}
	return out, nil
}

// index finds a contact by id, optionally requiring ownerID. Callers hold mu.
func (m *MockContactStore) index(id, ownerID uuid.UUID) int {
	for i, c := range m.contacts {
		if c.ID == id && (ownerID == uuid.Nil || c.OwnerID == ownerID) {
			return i
		}
	}
	return -1
}

// emailTaken reports whether a contact other than id uses email. Callers hold mu.
func (m *MockContactStore) emailTaken(email string, id uuid.UUID) bool {
	for _, c := range m.contacts {
		if c.Email == email && c.ID != id {
			return true
		}
	}
	return false
}
