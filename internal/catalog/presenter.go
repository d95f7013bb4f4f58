package catalog

import (
	"fmt"
	"math"
	"time"

	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/pricing"
)

// CourseView is the presentation shape of a course: the record plus the
// layered display price, badges and decorated description.
type CourseView struct {
	*domain.Course
	DisplayPrice float64  `json:"displayPrice"`
	Badges       []string `json:"badges,omitempty"`
	DisplayText  string   `json:"displayText"`
	AvgRating    float64  `json:"avgRating,omitempty"`
}

// Modifier is one presentation layer: an optional badge, an optional
// description transform, and an optional extra discount percentage applied
// on top of the layers before it.
type Modifier struct {
	Badge    string
	Describe func(string) string
	Discount float64
}

// Present folds modifiers over course, in order. The course's own discount
// is the first price layer; each modifier's discount then applies to the
// already-discounted price. A modifier with an out-of-range discount fails
// the whole presentation.
func Present(course *domain.Course, modifiers ...Modifier) (CourseView, error) {
	discounts := []float64{course.Discount}
	badges := []string{}
	text := course.Description

	for _, modifier := range modifiers {
		if modifier.Discount != 0 {
			discounts = append(discounts, modifier.Discount)
		}
		if modifier.Badge != "" {
			badges = append(badges, modifier.Badge)
		}
		if modifier.Describe != nil {
			text = modifier.Describe(text)
		}
	}

	price, err := pricing.DisplayPrice(course.Price, discounts...)
	if err != nil {
		return CourseView{}, err
	}

	return CourseView{
		Course:       course,
		DisplayPrice: math.Round(price*100) / 100,
		Badges:       badges,
		DisplayText:  text,
	}, nil
}

// FeaturedModifier marks a course as featured.
func FeaturedModifier() Modifier {
	return Modifier{
		Badge: "Featured",
		Describe: func(text string) string {
			return "FEATURED: " + text
		},
	}
}

// DiscountModifier layers an extra percentage off, e.g. a flash sale.
func DiscountModifier(pct float64) Modifier {
	return Modifier{
		Badge:    fmt.Sprintf("%g%% OFF", pct),
		Discount: pct,
		Describe: func(text string) string {
			return fmt.Sprintf("%s Extra %g%% OFF!", text, pct)
		},
	}
}

// BestsellerModifier marks a course by enrollment count.
func BestsellerModifier(enrollments int) Modifier {
	return Modifier{
		Badge: "Bestseller",
		Describe: func(text string) string {
			return fmt.Sprintf("BESTSELLER (%d students): %s", enrollments, text)
		},
	}
}

// NewCourseModifier highlights a recently added course.
func NewCourseModifier() Modifier {
	return Modifier{
		Badge: "New",
		Describe: func(text string) string {
			return "NEW: " + text
		},
	}
}

// LimitedTimeModifier adds urgency with the days remaining until expiry.
func LimitedTimeModifier(expiry time.Time) Modifier {
	return Modifier{
		Badge: "Limited Time",
		Describe: func(text string) string {
			daysLeft := int(math.Ceil(time.Until(expiry).Hours() / 24))
			return fmt.Sprintf("%d DAYS LEFT: %s", daysLeft, text)
		},
	}
}
