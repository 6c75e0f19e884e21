package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

const dashboardKeyPrefix = "appstats:dashboard:"

// DashboardCache stores composed dashboards in Redis with a TTL
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewClient connects to Redis and verifies the connection
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewDashboardCache creates a new Redis-backed dashboard cache
func NewDashboardCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *DashboardCache {
	return &DashboardCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// GetDashboard returns the cached dashboard of an app, if present
func (c *DashboardCache) GetDashboard(ctx context.Context, appID string) (*service.Dashboard, bool, error) {
	data, err := c.client.Get(ctx, dashboardKey(appID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get dashboard from redis: app_id=%s: %w", appID, err)
	}

	var dashboard service.Dashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		// A corrupt entry behaves like a miss and is replaced on the next write
		c.log.Warn("Discarding undecodable dashboard", zap.Error(err), zap.String("app_id", appID))
		return nil, false, nil
	}

	return &dashboard, true, nil
}

// SetDashboard stores a dashboard until the TTL expires
func (c *DashboardCache) SetDashboard(ctx context.Context, dashboard *service.Dashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard: app_id=%s: %w", dashboard.AppID, err)
	}

	if err := c.client.Set(ctx, dashboardKey(dashboard.AppID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save dashboard to redis: app_id=%s: %w", dashboard.AppID, err)
	}

	return nil
}

// Ping checks Redis connectivity
func (c *DashboardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func dashboardKey(appID string) string {
	return dashboardKeyPrefix + appID
}
