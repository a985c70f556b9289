package domain

import (
	"time"

	"github.com/google/uuid"
)

// BirthdayLayout is the calendar date format used for birthdays on the wire.
const BirthdayLayout = time.DateOnly

// ContactFields are the user-editable attributes of a contact.
// Updates replace all of them at once.
type ContactFields struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo *string
}

// Contact is an address book entry belonging to exactly one user.
type Contact struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	ContactFields
	CreatedAt time.Time
}

// NewContact creates a contact owned by ownerID with a fresh ID.
func NewContact(ownerID uuid.UUID, fields ContactFields) (*Contact, error) {
	c := &Contact{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		ContactFields: fields.normalized(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the invariants every persisted contact must satisfy.
func (c *Contact) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "cannot be empty", ErrInvalidID)
	}
	return c.ContactFields.Validate()
}

// Validate checks that every required field is present.
func (f ContactFields) Validate() error {
	switch {
	case f.FirstName == "":
		return NewValidationError("first_name", "cannot be empty", nil)
	case f.LastName == "":
		return NewValidationError("last_name", "cannot be empty", nil)
	case f.PhoneNumber == "":
		return NewValidationError("phone_number", "cannot be empty", nil)
	case f.Birthday.IsZero():
		return NewValidationError("birthday", "cannot be empty", nil)
	}
	return ValidateEmail(f.Email)
}

// normalized strips the time of day from the birthday.
func (f ContactFields) normalized() ContactFields {
	if !f.Birthday.IsZero() {
		y, m, d := f.Birthday.Date()
		f.Birthday = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return f
}

// Apply replaces every editable field of c with fields.
func (c *Contact) Apply(fields ContactFields) error {
	fields = fields.normalized()
	if err := fields.Validate(); err != nil {
		return err
	}
	c.ContactFields = fields
	return nil
}
