package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/pricing"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

// CheckoutUseCase quotes checkout totals for a cart of course seats.
type CheckoutUseCase struct {
	Logger  *logrus.Logger
	RCourse port.CourseRepository
}

// QuoteParams is a quote request: a course, a seat count, and an optional
// coupon layered on top of the bulk tiers.
type QuoteParams struct {
	CourseID       string
	Quantity       int
	CouponPct      float64
	CouponMaxValue *float64
}

// Quote is the priced result.
type Quote struct {
	CourseID  string  `json:"courseId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
	Total     float64 `json:"total"`
}

// GetQuote prices quantity seats of a course. Bulk tiers apply first; a
// coupon, if present, then discounts the tiered total.
func (uc *CheckoutUseCase) GetQuote(ctx context.Context, params QuoteParams) (*Quote, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.get_quote")
	defer span.Finish()

	span.SetTag("course.id", params.CourseID)
	span.SetTag("quote.quantity", params.Quantity)

	if params.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", domain.ErrValidation)
	}

	course, err := uc.RCourse.FindByID(ctx, params.CourseID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	tiered := pricing.Policy{Kind: pricing.TieredBulk}
	total, err := tiered.Total(course.Price, params.Quantity)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	if params.CouponPct > 0 {
		coupon := pricing.Policy{
			Kind:        pricing.CappedCoupon,
			Pct:         params.CouponPct,
			MaxDiscount: params.CouponMaxValue,
		}
		total, err = coupon.Total(total, 1)
		if err != nil {
			if errors.Is(err, pricing.ErrDiscountRange) {
				return nil, fmt.Errorf("%s: %w", err, domain.ErrValidation)
			}
			span.SetTag("error", true)
			span.SetTag("error.msg", err.Error())
			return nil, err
		}
	}

	quote := &Quote{
		CourseID:  course.ID,
		Quantity:  params.Quantity,
		UnitPrice: course.Price,
		Subtotal:  math.Round(course.Price*float64(params.Quantity)*100) / 100,
		Total:     math.Round(total*100) / 100,
	}

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Quote computed", logrus.Fields{
		"course.id":   course.ID,
		"quote.total": quote.Total,
	})

	return quote, nil
}
