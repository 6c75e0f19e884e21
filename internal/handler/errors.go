package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/dto"
)

// bindError answers a request that failed to bind
func (h *Handler) bindError(c *gin.Context, err error, msg string) {
	h.log.Warn(msg,
		zap.Error(err),
		zap.String("request_id", c.GetString(requestIDKey)))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// serviceError maps a service error onto a status code. Storage and
// unexpected errors are logged and answered with an opaque message.
func (h *Handler) serviceError(c *gin.Context, err error, msg string, fields ...zap.Field) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrCapacity):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error:   "capacity_error",
			Message: err.Error(),
		})
	default:
		fields = append(fields,
			zap.Error(err),
			zap.String("request_id", c.GetString(requestIDKey)))
		h.log.Error(msg, fields...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
	}
}
