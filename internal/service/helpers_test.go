package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/repository"
	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
)

// 2024-03-15 12:00:00 UTC
const testNow int64 = 1710504000

func fixedClock() time.Time {
	return time.Unix(testNow, 0)
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

// newTestStore creates a migrated in-memory SQLite store
func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), config.Database{
		Driver: sqlstore.DriverSQLite,
		DSN:    ":memory:",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRecorder(store repository.Store) *Recorder {
	r := NewRecorder(store, zap.NewNop())
	r.now = fixedClock
	return r
}

// MockStore is a mock implementation of repository.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	called := m.Called(ctx, dest, query, args)
	return called.Bool(0), called.Error(1)
}

func (m *MockStore) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	called := m.Called(ctx, dest, query, args)
	return called.Error(0)
}

func (m *MockStore) Count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	called := m.Called(ctx, query, args)
	return called.Get(0).(int64), called.Error(1)
}

func (m *MockStore) ExecBatch(ctx context.Context, statements []repository.Statement) error {
	called := m.Called(ctx, statements)
	return called.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	called := m.Called(ctx)
	return called.Error(0)
}

func (m *MockStore) Close() error {
	called := m.Called()
	return called.Error(0)
}

// countRows counts rows of a table for an app
func countRows(t *testing.T, store *sqlstore.Store, table, appID string) int64 {
	t.Helper()
	count, err := store.Count(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE app_id = ?", appID)
	require.NoError(t, err)
	return count
}
