// Package service holds the application use cases. The auth and contact
// subpackages orchestrate domain entities and store interfaces; this package
// carries the errors they share. Services return errors and never choose
// transport status codes; the API layer does that mapping.
package service
