package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/dto"
)

// listApps handles GET /apps
func (h *Handler) listApps(c *gin.Context) {
	var req dto.ListAppsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err, "Invalid apps request")
		return
	}

	if req.WithStats {
		summaries, err := h.apps.ListAppSummaries(c.Request.Context())
		if err != nil {
			h.serviceError(c, err, "Failed to list app summaries")
			return
		}
		c.JSON(http.StatusOK, gin.H{"apps": summaries})
		return
	}

	apps, err := h.apps.ListApps(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "Failed to list apps")
		return
	}

	c.JSON(http.StatusOK, dto.AppsResponse{Apps: apps})
}

// getSummary handles GET /apps/:app_id/summary
func (h *Handler) getSummary(c *gin.Context) {
	appID := c.Param("app_id")

	summary, err := h.apps.Summary(c.Request.Context(), appID)
	if err != nil {
		h.serviceError(c, err, "Failed to get app summary", zap.String("app_id", appID))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getDashboard handles GET /apps/:app_id/dashboard
func (h *Handler) getDashboard(c *gin.Context) {
	appID := c.Param("app_id")

	dashboard, err := h.apps.Dashboard(c.Request.Context(), appID)
	if err != nil {
		h.serviceError(c, err, "Failed to get app dashboard", zap.String("app_id", appID))
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
