// Package mocks provides shared test doubles for the store interfaces and the
// external collaborators used by the services.
//
// The stores are in-memory and safe for concurrent use, so they can back a
// full router under httptest. Each exposes function fields and error fields
// for overriding individual calls:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailError = errors.New("connection reset")
package mocks
