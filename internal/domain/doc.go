// Package domain defines the core entities of the contacts service, users and
// the contacts they own, together with their validation rules and the errors
// those rules produce. It has no knowledge of storage or transport.
package domain
