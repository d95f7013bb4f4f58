package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/coursehub/coursehub-api/internal/domain"
)

func newCheckoutFixture() (*CheckoutUseCase, *fakeCourseRepo) {
	courses := newFakeCourseRepo()
	courses.courses["course-1"] = &domain.Course{
		ID:    "course-1",
		Title: "Go Basics",
		Price: 100,
	}
	return &CheckoutUseCase{Logger: testLogger(), RCourse: courses}, courses
}

func TestGetQuoteTiers(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     float64
	}{
		{"single seat", 1, 100},
		{"two seats", 2, 200},
		{"three seats tier", 3, 270},
		{"six seats tier", 6, 480},
	}

	uc, _ := newCheckoutFixture()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := uc.GetQuote(context.Background(), QuoteParams{
				CourseID: "course-1",
				Quantity: tt.quantity,
			})
			if err != nil {
				t.Fatal(err)
			}
			if quote.Total != tt.want {
				t.Errorf("Total = %v, want %v", quote.Total, tt.want)
			}
			if quote.Subtotal != 100*float64(tt.quantity) {
				t.Errorf("Subtotal = %v", quote.Subtotal)
			}
		})
	}
}

func TestGetQuoteCouponOnTopOfTiers(t *testing.T) {
	uc, _ := newCheckoutFixture()

	// 3 seats: 300 -> 270 after the tier, then 10% coupon -> 243.
	quote, err := uc.GetQuote(context.Background(), QuoteParams{
		CourseID:  "course-1",
		Quantity:  3,
		CouponPct: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if quote.Total != 243 {
		t.Errorf("Total = %v, want 243", quote.Total)
	}
}

func TestGetQuoteCouponCap(t *testing.T) {
	uc, _ := newCheckoutFixture()

	maxValue := 10.0
	// 2 seats: 200, 50% coupon would be 100 off but caps at 10.
	quote, err := uc.GetQuote(context.Background(), QuoteParams{
		CourseID:       "course-1",
		Quantity:       2,
		CouponPct:      50,
		CouponMaxValue: &maxValue,
	})
	if err != nil {
		t.Fatal(err)
	}
	if quote.Total != 190 {
		t.Errorf("Total = %v, want 190", quote.Total)
	}
}

func TestGetQuoteValidation(t *testing.T) {
	uc, _ := newCheckoutFixture()

	_, err := uc.GetQuote(context.Background(), QuoteParams{CourseID: "course-1", Quantity: 0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("quantity 0: err = %v, want ErrValidation", err)
	}

	_, err = uc.GetQuote(context.Background(), QuoteParams{CourseID: "course-1", Quantity: 1, CouponPct: 120})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("coupon 120%%: err = %v, want ErrValidation", err)
	}

	_, err = uc.GetQuote(context.Background(), QuoteParams{CourseID: "missing", Quantity: 1})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown course: err = %v, want ErrNotFound", err)
	}
}
