package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/common/logging"
)

// HealthHandler handles health check requests
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.health_check")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)
	span.SetTag("health.status", "healthy")

	logging.LogWithTrace(ctx, logger, "handler", "Health check endpoint called", nil)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Service is healthy",
	})
}
