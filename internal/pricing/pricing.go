// Package pricing computes checkout totals and displayed prices. Policies
// are tagged variants dispatched through a single switch rather than a type
// hierarchy; each variant is a pure computation over base price and
// quantity.
package pricing

import (
	"errors"
	"fmt"
)

// ErrDiscountRange marks a discount outside [0,100]. Out-of-range discounts
// are a caller error and are rejected, never clamped.
var ErrDiscountRange = errors.New("discount must be between 0 and 100")

// Kind selects a pricing policy variant.
type Kind string

const (
	// Flat charges basePrice per unit.
	Flat Kind = "flat"
	// TieredBulk discounts the subtotal by the quantity tier reached.
	TieredBulk Kind = "tiered-bulk"
	// FixedSubscription charges a constant regardless of price or quantity.
	FixedSubscription Kind = "fixed-subscription"
	// CappedCoupon discounts the subtotal by a percentage, optionally capped
	// at a maximum amount.
	CappedCoupon Kind = "capped-coupon"
)

// Tier is one row of the bulk-discount table.
type Tier struct {
	MinQuantity int
	DiscountPct float64
}

// DefaultTiers is the bulk table, sorted by descending MinQuantity: 20% off
// at 6+, 10% off at 3+, none below.
var DefaultTiers = []Tier{
	{MinQuantity: 6, DiscountPct: 20},
	{MinQuantity: 3, DiscountPct: 10},
	{MinQuantity: 1, DiscountPct: 0},
}

// Policy is a pricing policy: a kind plus its variant-specific data.
type Policy struct {
	Kind Kind

	// Tiers applies to TieredBulk; nil selects DefaultTiers.
	Tiers []Tier

	// Fixed is the constant total for FixedSubscription.
	Fixed float64

	// Pct and MaxDiscount apply to CappedCoupon. MaxDiscount nil means
	// uncapped.
	Pct         float64
	MaxDiscount *float64
}

// Total computes the checkout total for quantity units at basePrice.
func (p Policy) Total(basePrice float64, quantity int) (float64, error) {
	subtotal := basePrice * float64(quantity)

	switch p.Kind {
	case Flat:
		return subtotal, nil

	case TieredBulk:
		tiers := p.Tiers
		if tiers == nil {
			tiers = DefaultTiers
		}
		pct := 0.0
		for _, tier := range tiers {
			if quantity >= tier.MinQuantity {
				pct = tier.DiscountPct
				break
			}
		}
		if pct < 0 || pct > 100 {
			return 0, ErrDiscountRange
		}
		return subtotal - subtotal*pct/100, nil

	case FixedSubscription:
		return p.Fixed, nil

	case CappedCoupon:
		if p.Pct < 0 || p.Pct > 100 {
			return 0, ErrDiscountRange
		}
		discount := subtotal * p.Pct / 100
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
		return subtotal - discount, nil

	default:
		return 0, fmt.Errorf("unknown pricing policy %q", p.Kind)
	}
}

// DisplayPrice applies discount layers to price. Layers stack
// multiplicatively: each one discounts the already-discounted price, so
// 20% then 20% yields 64% of the original, not 60%. Any layer outside
// [0,100] rejects the whole computation.
func DisplayPrice(price float64, discounts ...float64) (float64, error) {
	for _, pct := range discounts {
		if pct < 0 || pct > 100 {
			return 0, ErrDiscountRange
		}
		price = price - price*pct/100
	}
	return price, nil
}
