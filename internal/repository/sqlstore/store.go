package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store implements repository.Store on top of sqlx
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// New wraps an already opened and migrated database
func New(db *sqlx.DB, log *zap.Logger) *Store {
	return &Store{
		db:  db,
		log: log,
	}
}

// DB returns the underlying sqlx.DB instance
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Get scans a single row into dest
func (s *Store) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := s.db.GetContext(ctx, dest, s.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewStorageError("get", err)
	}
	return true, nil
}

// Select scans all matching rows into dest
func (s *Store) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...); err != nil {
		return domain.NewStorageError("select", err)
	}
	return nil
}

// Count runs a query returning a single integer
func (s *Store) Count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(query), args...); err != nil {
		return 0, domain.NewStorageError("count", err)
	}
	return count, nil
}

// ExecBatch runs all statements inside one transaction
func (s *Store) ExecBatch(ctx context.Context, statements []repository.Statement) error {
	if len(statements) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("begin batch", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Error("Failed to roll back batch", zap.Error(err))
		}
	}()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(stmt.Query), stmt.Args...); err != nil {
			return domain.NewStorageError("exec batch", fmt.Errorf("statement %d of %d: %w", i+1, len(statements), err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("commit batch", err)
	}

	return nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return domain.NewStorageError("ping", s.db.PingContext(ctx))
}

// Close closes the database connection
func (s *Store) Close() error {
	s.log.Info("Closing database connection")
	if err := s.db.Close(); err != nil {
		s.log.Error("Error closing database connection", zap.Error(err))
		return err
	}
	return nil
}
