package repository

import (
	"context"
)

// Statement is a parameterized write submitted as part of a batch.
// Queries use ? placeholders; stores rebind them for their driver.
type Statement struct {
	Query string
	Args  []interface{}
}

// NewStatement creates a statement from a query and its arguments
func NewStatement(query string, args ...interface{}) Statement {
	return Statement{Query: query, Args: args}
}

// Store is the storage collaborator consumed by the services.
// Every failure it returns wraps domain.ErrStorage.
type Store interface {
	// Get scans a single row into dest and reports whether a row was found
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error)

	// Select scans all matching rows into dest, a pointer to a slice
	Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// Count runs a query returning a single integer column
	Count(ctx context.Context, query string, args ...interface{}) (int64, error)

	// ExecBatch applies all statements atomically: either every statement
	// is committed or none is
	ExecBatch(ctx context.Context, statements []Statement) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the store and releases resources
	Close() error
}
