// Package store defines the persistence interfaces used by the services and
// the errors implementations translate storage failures into. Concrete
// implementations live under internal/platform.
package store
