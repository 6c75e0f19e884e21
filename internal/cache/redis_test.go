package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

// setupDashboardCache starts a miniredis instance and a cache bound to it
func setupDashboardCache(t *testing.T) (*DashboardCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewDashboardCache(client, 30*time.Second, zap.NewNop()), mr
}

func testDashboard() *service.Dashboard {
	return &service.Dashboard{
		AppSummary: service.AppSummary{
			AppID:       "app1",
			EventCount:  12,
			StatCount:   3,
			LastEventAt: 1710504000,
			Categories:  map[string]int64{"revenue": 999},
		},
		Last24h:     service.WindowTotals{EventCount: 4, ValueTotal: 1002},
		TopEvents7d: []service.EventTypeCount{{EventType: "purchase", Count: 4}},
		GeneratedAt: 1710504000,
	}
}

func TestDashboardCache_Miss(t *testing.T) {
	cache, _ := setupDashboardCache(t)

	dashboard, found, err := cache.GetDashboard(context.Background(), "app1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dashboard)
}

func TestDashboardCache_SetAndGet(t *testing.T) {
	cache, mr := setupDashboardCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetDashboard(ctx, testDashboard()))
	assert.True(t, mr.Exists("appstats:dashboard:app1"))
	assert.Equal(t, 30*time.Second, mr.TTL("appstats:dashboard:app1"))

	dashboard, found, err := cache.GetDashboard(ctx, "app1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testDashboard(), dashboard)
}

func TestDashboardCache_Expiry(t *testing.T) {
	cache, mr := setupDashboardCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetDashboard(ctx, testDashboard()))
	mr.FastForward(31 * time.Second)

	_, found, err := cache.GetDashboard(ctx, "app1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDashboardCache_CorruptEntryIsMiss(t *testing.T) {
	cache, mr := setupDashboardCache(t)

	require.NoError(t, mr.Set("appstats:dashboard:app1", "{not json"))

	_, found, err := cache.GetDashboard(context.Background(), "app1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDashboardCache_ServerDown(t *testing.T) {
	cache, mr := setupDashboardCache(t)
	mr.Close()

	_, _, err := cache.GetDashboard(context.Background(), "app1")
	assert.Error(t, err)

	assert.Error(t, cache.SetDashboard(context.Background(), testDashboard()))
	assert.Error(t, cache.Ping(context.Background()))
}

func TestNewClient_ConnectionFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewClient(context.Background(), config.Redis{Addr: addr})
	assert.Error(t, err)
}
