package pricing

import (
	"errors"
	"testing"
)

func TestFlatTotal(t *testing.T) {
	policy := Policy{Kind: Flat}

	got, err := policy.Total(49.5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := 148.5; got != want {
		t.Errorf("Total = %v, want %v", got, want)
	}
}

func TestTieredBulkTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     float64
	}{
		{"below first tier", 0, 0},
		{"single unit no discount", 1, 100},
		{"two units no discount", 2, 200},
		{"three units hit 10 percent", 3, 270},
		{"five units still 10 percent", 5, 450},
		{"six units hit 20 percent", 6, 480},
		{"ten units still 20 percent", 10, 800},
	}

	policy := Policy{Kind: TieredBulk}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := policy.Total(100, tt.quantity)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Total(100, %d) = %v, want %v", tt.quantity, got, tt.want)
			}
		})
	}
}

func TestTieredBulkCustomTiers(t *testing.T) {
	policy := Policy{
		Kind: TieredBulk,
		Tiers: []Tier{
			{MinQuantity: 10, DiscountPct: 50},
			{MinQuantity: 1, DiscountPct: 0},
		},
	}

	got, err := policy.Total(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if want := 50.0; got != want {
		t.Errorf("Total = %v, want %v", got, want)
	}
}

func TestFixedSubscriptionTotal(t *testing.T) {
	policy := Policy{Kind: FixedSubscription, Fixed: 29.99}

	got, err := policy.Total(500, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != 29.99 {
		t.Errorf("Total = %v, want fixed 29.99 regardless of price and quantity", got)
	}
}

func TestCappedCouponTotal(t *testing.T) {
	maxDiscount := 15.0

	tests := []struct {
		name   string
		policy Policy
		want   float64
	}{
		{"uncapped percentage", Policy{Kind: CappedCoupon, Pct: 25}, 75},
		{"cap binds", Policy{Kind: CappedCoupon, Pct: 25, MaxDiscount: &maxDiscount}, 85},
		{"cap above discount is inert", Policy{Kind: CappedCoupon, Pct: 10, MaxDiscount: &maxDiscount}, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.Total(100, 1)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Total = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCouponRejectsOutOfRangePct(t *testing.T) {
	for _, pct := range []float64{-1, 101} {
		policy := Policy{Kind: CappedCoupon, Pct: pct}
		if _, err := policy.Total(100, 1); !errors.Is(err, ErrDiscountRange) {
			t.Errorf("Pct %v: err = %v, want ErrDiscountRange", pct, err)
		}
	}
}

func TestUnknownPolicyKind(t *testing.T) {
	policy := Policy{Kind: "raffle"}
	if _, err := policy.Total(100, 1); err == nil {
		t.Error("expected error for unknown policy kind")
	}
}

func TestDisplayPriceStacksMultiplicatively(t *testing.T) {
	// Two 20% layers leave 64% of the original, not 60%.
	got, err := DisplayPrice(100, 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if want := 64.0; got != want {
		t.Errorf("DisplayPrice = %v, want %v", got, want)
	}
}

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		discounts []float64
		want      float64
	}{
		{"no layers", 80, nil, 80},
		{"single layer", 100, []float64{25}, 75},
		{"zero layer is inert", 100, []float64{0}, 100},
		{"full discount", 100, []float64{100}, 0},
		{"three layers", 200, []float64{50, 50, 50}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DisplayPrice(tt.price, tt.discounts...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DisplayPrice = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisplayPriceRejectsOutOfRange(t *testing.T) {
	for _, pct := range []float64{-0.1, 100.1} {
		if _, err := DisplayPrice(100, 20, pct); !errors.Is(err, ErrDiscountRange) {
			t.Errorf("discount %v: err = %v, want ErrDiscountRange", pct, err)
		}
	}
}
