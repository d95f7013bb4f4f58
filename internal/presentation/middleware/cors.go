package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// EchoCORSMiddleware creates a CORS middleware with Datadog tracing
func EchoCORSMiddleware() echo.MiddlewareFunc {
	corsHandler := echomiddleware.CORSWithConfig(echomiddleware.DefaultCORSConfig)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.cors")
			defer span.Finish()

			c.SetRequest(c.Request().WithContext(ctx))

			return corsHandler(next)(c)
		}
	}
}
