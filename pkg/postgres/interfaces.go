// Package postgres wraps the archive database used for long term
// reading retention.
package postgres

import (
	"context"
	"database/sql"
)

// Client is the archive database interface. The in-memory fake used in
// tests implements the same surface.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect() error

	// Exec runs a statement that returns no rows, such as DDL or
	// single-row inserts
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row

	// Transaction runs fn inside a transaction, rolling back when fn
	// returns an error
	Transaction(ctx context.Context, fn func(*sql.Tx) error) error

	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}
