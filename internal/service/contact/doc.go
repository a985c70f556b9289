// Package contact implements the owner-scoped address book operations.
//
// Every operation except Get takes the acting user's ID and never touches
// another user's rows: updates and deletes are issued with both the contact
// ID and the owner ID, so a missing contact and a foreign contact produce the
// same store.ErrContactNotFound.
package contact
