package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/auth"
	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/presentation/interface-adapter/response"
)

// EchoAuthMiddleware verifies the Bearer token and puts the authenticated
// user claims in the request context. Requests without a valid token get
// a 401 problem response.
func EchoAuthMiddleware(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.auth")
			defer span.Finish()

			c.SetRequest(c.Request().WithContext(ctx))

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				span.SetTag("auth.result", "missing_token")
				problem := response.NewUnauthorizedProblem(
					"Authentication required",
					c.Request().URL.Path,
				).WithTrace(ctx)
				return c.JSON(http.StatusUnauthorized, problem)
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				span.SetTag("auth.result", "invalid_token")
				logger := appcontext.GetLogger(ctx)
				logging.LogErrorWithTraceNotNotify(ctx, logger, "middleware", "Token verification failed", err, nil)
				problem := response.NewUnauthorizedProblem(
					"Invalid or expired token",
					c.Request().URL.Path,
				).WithTrace(ctx)
				return c.JSON(http.StatusUnauthorized, problem)
			}

			span.SetTag("auth.result", "ok")
			span.SetTag("user.id", claims.UserID)

			ctx = appcontext.SetUserClaims(ctx, &appcontext.UserClaims{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
