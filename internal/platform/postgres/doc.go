// Package postgres provides PostgreSQL-backed implementations of the store
// interfaces using database/sql with the pgx stdlib driver.
package postgres
