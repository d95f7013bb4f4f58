package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/presentation/interface-adapter/response"
	"github.com/coursehub/coursehub-api/internal/usecase"
)

// CheckoutHandler handles quote requests
type CheckoutHandler struct{}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

// QuoteRequest represents the request body for a checkout quote
type QuoteRequest struct {
	CourseID       string   `json:"courseId"`
	Quantity       int      `json:"quantity"`
	CouponPct      float64  `json:"couponPct"`
	CouponMaxValue *float64 `json:"couponMaxValue"`
}

// GetQuote handles POST /api/checkout/quote
func (h *CheckoutHandler) GetQuote(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.get_quote")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	locator := appcontext.GetRepoLocator(ctx)
	if locator == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "repository locator not configured")
	}
	interactor := &usecase.CheckoutUseCase{
		Logger:  logger,
		RCourse: locator.CourseRepo,
	}

	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to decode request body", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("course.id", req.CourseID)
	span.SetTag("quote.quantity", req.Quantity)

	quote, err := interactor.GetQuote(ctx, usecase.QuoteParams{
		CourseID:       req.CourseID,
		Quantity:       req.Quantity,
		CouponPct:      req.CouponPct,
		CouponMaxValue: req.CouponMaxValue,
	})
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to compute quote", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("quote.total", quote.Total)

	logging.LogWithTrace(ctx, logger, "handler", "Quote computed successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    quote,
	})
}
