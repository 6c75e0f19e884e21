package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/metrics"
	"github.com/BarkinBalci/app-stats-service/internal/queue"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the collaborators served over HTTP. Publisher is
// optional; without it asynchronous ingestion answers 503.
type Services struct {
	Recorder   service.EventRecorder
	Stats      service.StatsReader
	Timeseries service.TimeseriesQuerier
	Apps       service.AppLister
	Publisher  queue.QueuePublisher
	Health     Pinger
}

type Handler struct {
	recorder   service.EventRecorder
	stats      service.StatsReader
	timeseries service.TimeseriesQuerier
	apps       service.AppLister
	publisher  queue.QueuePublisher
	health     Pinger
	apiKey     string
	router     *gin.Engine
	log        *zap.Logger
}

// NewHandler creates the HTTP handler. An empty apiKey disables authentication.
func NewHandler(services Services, apiKey string, log *zap.Logger) *Handler {
	h := &Handler{
		recorder:   services.Recorder,
		stats:      services.Stats,
		timeseries: services.Timeseries,
		apps:       services.Apps,
		publisher:  services.Publisher,
		health:     services.Health,
		apiKey:     apiKey,
		router:     gin.Default(),
		log:        log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.Use(h.requestID(), h.observe())

	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apps := h.router.Group("/apps", h.authenticate())
	apps.GET("", h.listApps)
	apps.GET("/:app_id/summary", h.getSummary)
	apps.GET("/:app_id/dashboard", h.getDashboard)

	apps.POST("/:app_id/events", h.recordEvent)
	apps.POST("/:app_id/events/batch", h.recordBatch)
	apps.POST("/:app_id/events/async", h.publishBatch)

	apps.GET("/:app_id/stats", h.listStats)
	apps.GET("/:app_id/stats/categories", h.getCategories)
	apps.GET("/:app_id/stats/top", h.getTopMetrics)
	apps.GET("/:app_id/timeseries", h.getTimeseries)
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.health.Ping(ctx); err != nil {
			h.log.Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
