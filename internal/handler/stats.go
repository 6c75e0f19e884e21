package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/dto"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

// listStats handles GET /apps/:app_id/stats
func (h *Handler) listStats(c *gin.Context) {
	appID := c.Param("app_id")

	var req dto.ListStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid stats request")
		return
	}

	result, err := h.stats.ListStats(c.Request.Context(), appID,
		service.StatsFilter{Prefix: req.Prefix, Category: req.Category},
		service.Page{Limit: req.Limit, Offset: req.Offset},
		service.StatsFormat(req.Format))
	if err != nil {
		h.serviceError(c, err, "Failed to list stats", zap.String("app_id", appID))
		return
	}

	if result.Format == service.FormatSimple {
		c.JSON(http.StatusOK, dto.SimpleStatsResponse{
			AppID: appID,
			Stats: result.Simple,
		})
		return
	}

	response := dto.DetailedStatsResponse{
		AppID: appID,
		Stats: toStatDetails(result.Detailed),
	}
	if result.Pagination != nil {
		response.Pagination = &dto.Pagination{
			Total:  result.Pagination.Total,
			Limit:  result.Pagination.Limit,
			Offset: result.Pagination.Offset,
		}
	}

	c.JSON(http.StatusOK, response)
}

// getCategories handles GET /apps/:app_id/stats/categories
func (h *Handler) getCategories(c *gin.Context) {
	appID := c.Param("app_id")

	categories, err := h.stats.GroupByCategory(c.Request.Context(), appID)
	if err != nil {
		h.serviceError(c, err, "Failed to group stats by category", zap.String("app_id", appID))
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{
		AppID:      appID,
		Categories: categories,
	})
}

// getTopMetrics handles GET /apps/:app_id/stats/top
func (h *Handler) getTopMetrics(c *gin.Context) {
	appID := c.Param("app_id")

	var req dto.TopMetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid top metrics request")
		return
	}

	top, err := h.stats.TopMetrics(c.Request.Context(), appID, service.TopQuery{
		Category: req.Category,
		Limit:    req.Limit,
		Sort:     req.Sort,
	})
	if err != nil {
		h.serviceError(c, err, "Failed to get top metrics", zap.String("app_id", appID))
		return
	}

	c.JSON(http.StatusOK, dto.TopMetricsResponse{
		AppID:   appID,
		Sort:    strings.ToLower(req.Sort),
		Metrics: toStatDetails(top),
	})
}

// getTimeseries handles GET /apps/:app_id/timeseries
func (h *Handler) getTimeseries(c *gin.Context) {
	appID := c.Param("app_id")

	var req dto.TimeseriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid timeseries request")
		return
	}

	query := service.SeriesQuery{
		AppID:   appID,
		Period:  req.Period,
		From:    req.From,
		To:      req.To,
		Country: req.Country,
		Limit:   req.Limit,
	}

	if req.Metrics == "" {
		if req.Metric == "" {
			h.serviceError(c, domain.NewValidationError("metric", "metric or metrics is required"), "Invalid timeseries request")
			return
		}
		query.Metrics = []string{req.Metric}

		series, err := h.timeseries.Query(c.Request.Context(), query)
		if err != nil {
			h.serviceError(c, err, "Failed to query timeseries",
				zap.String("app_id", appID),
				zap.String("metric", req.Metric))
			return
		}
		c.JSON(http.StatusOK, series)
		return
	}

	query.Metrics = splitMetrics(req.Metrics)
	table, err := h.timeseries.QueryMulti(c.Request.Context(), query)
	if err != nil {
		h.serviceError(c, err, "Failed to query timeseries",
			zap.String("app_id", appID),
			zap.Strings("metrics", query.Metrics))
		return
	}
	c.JSON(http.StatusOK, table)
}

func splitMetrics(raw string) []string {
	parts := strings.Split(raw, ",")
	metrics := make([]string, len(parts))
	for i, part := range parts {
		metrics[i] = strings.TrimSpace(part)
	}
	return metrics
}

func toStatDetails(stats []domain.Stat) []dto.StatDetail {
	details := make([]dto.StatDetail, len(stats))
	for i, stat := range stats {
		details[i] = dto.StatDetail{
			Metric:      stat.Metric,
			Value:       stat.Value,
			Category:    stat.CategoryOrDefault(),
			LastUpdated: stat.LastUpdated,
		}
	}
	return details
}
