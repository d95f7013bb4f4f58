package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/presentation/interface-adapter/response"
)

// EchoRecoveryMiddleware recovers from panics and logs them with trace information
func EchoRecoveryMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "middleware.recovery")
			defer span.Finish()

			c.SetRequest(c.Request().WithContext(ctx))

			// Extract trace info BEFORE any panic can occur
			var traceID, spanID string
			if span != nil {
				spanContext := span.Context()
				traceID = strconv.FormatUint(spanContext.TraceID(), 10)
				spanID = strconv.FormatUint(spanContext.SpanID(), 10)
			}

			defer func() {
				if err := recover(); err != nil {
					logger := appcontext.GetLogger(c.Request().Context())

					stackTrace := string(debug.Stack())
					panicErr := fmt.Errorf("panic recovered: %v", err)

					logFields := logrus.Fields{
						"panic.value":       err,
						"panic.stack_trace": stackTrace,
						"http.method":       c.Request().Method,
						"http.url":          c.Request().URL.Path,
					}
					if traceID != "" && spanID != "" {
						logFields["dd.trace_id"] = traceID
						logFields["dd.span_id"] = spanID
					}

					logging.LogErrorWithTrace(c.Request().Context(), logger, "middleware", "Panic recovered", panicErr, logFields)

					if span, ok := tracer.SpanFromContext(c.Request().Context()); ok {
						span.SetTag("error", true)
						span.SetTag("error.type", "panic")
						span.SetTag("error.msg", fmt.Sprintf("%v", err))
						span.SetTag("error.stack", stackTrace)
						span.SetTag("error.notify", true)
					}

					problem := response.NewInternalErrorProblem(
						"An unexpected error occurred",
						c.Request().URL.Path,
						true,
					)
					c.JSON(http.StatusInternalServerError, problem)
				}
			}()

			return next(c)
		}
	}
}
