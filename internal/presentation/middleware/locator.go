package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
)

// EchoRepoLocatorMiddleware sets repository locator in context for Echo
func EchoRepoLocatorMiddleware(locator *appcontext.RepoLocator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := appcontext.SetRepoLocator(c.Request().Context(), locator)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// EchoLoggerMiddleware sets the process logger in context for Echo
func EchoLoggerMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := appcontext.SetLogger(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
