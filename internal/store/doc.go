// Package store defines the persistence interfaces for the application's
// entities along with the errors shared by every implementation. Concrete
// PostgreSQL implementations live in internal/platform/postgres.
package store
