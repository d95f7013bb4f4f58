// Package catalog holds the course-side domain services: validated course
// construction and the presentation layering applied to listings and
// detail pages.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// NewCourseParams is the input for course creation.
type NewCourseParams struct {
	Title        string
	Description  string
	Price        float64
	Discount     float64
	Level        domain.Level
	Language     string
	Thumbnail    string
	IsFeatured   bool
	InstructorID string
	CategoryID   string
}

var defaultThumbnails = map[string]string{
	"video":    "https://images.unsplash.com/photo-1516321318423-f06f85e504b3",
	"featured": "https://images.unsplash.com/photo-1522202176988-66273c2fd55f",
	"free":     "https://images.unsplash.com/photo-1501504905252-473c47e087f8",
	"discount": "https://images.unsplash.com/photo-1553877522-43269d4ea984",
}

// NewCourse validates params and builds a publishable course record with a
// generated slug and ID. Validation failures wrap domain.ErrValidation.
func NewCourse(params NewCourseParams) (*domain.Course, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	language := params.Language
	if language == "" {
		language = "ENGLISH"
	}

	thumbnail := params.Thumbnail
	if thumbnail == "" {
		switch {
		case params.Price == 0:
			thumbnail = defaultThumbnails["free"]
		case params.IsFeatured:
			thumbnail = defaultThumbnails["featured"]
		case params.Discount > 0:
			thumbnail = defaultThumbnails["discount"]
		default:
			thumbnail = defaultThumbnails["video"]
		}
	}

	level := params.Level
	if params.Price == 0 && level == "" {
		level = domain.LevelBeginner
	}

	return &domain.Course{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(params.Title),
		Slug:         Slugify(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Price:        params.Price,
		Discount:     params.Discount,
		Level:        level,
		Language:     language,
		Thumbnail:    thumbnail,
		IsPublished:  true,
		IsFeatured:   params.IsFeatured,
		InstructorID: params.InstructorID,
		CategoryID:   params.CategoryID,
		CreatedAt:    time.Now(),
	}, nil
}

// CourseUpdate carries the mutable course fields. Nil fields keep their
// current value; the slug is never rewritten.
type CourseUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Discount    *float64
	Level       *domain.Level
	Thumbnail   *string
	IsPublished *bool
	IsFeatured  *bool
}

// ApplyUpdate validates the set fields and copies them onto course.
// The rules match NewCourse; failures wrap domain.ErrValidation and
// leave the course untouched.
func ApplyUpdate(course *domain.Course, update CourseUpdate) error {
	if update.Title != nil && len(strings.TrimSpace(*update.Title)) < 5 {
		return fmt.Errorf("course title must be at least 5 characters: %w", domain.ErrValidation)
	}
	if update.Description != nil && len(strings.TrimSpace(*update.Description)) < 20 {
		return fmt.Errorf("course description must be at least 20 characters: %w", domain.ErrValidation)
	}
	if update.Price != nil && *update.Price < 0 {
		return fmt.Errorf("course price cannot be negative: %w", domain.ErrValidation)
	}
	if update.Discount != nil && (*update.Discount < 0 || *update.Discount > 100) {
		return fmt.Errorf("discount must be between 0 and 100: %w", domain.ErrValidation)
	}

	if update.Title != nil {
		course.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		course.Description = strings.TrimSpace(*update.Description)
	}
	if update.Price != nil {
		course.Price = *update.Price
	}
	if update.Discount != nil {
		course.Discount = *update.Discount
	}
	if update.Level != nil {
		course.Level = *update.Level
	}
	if update.Thumbnail != nil {
		course.Thumbnail = *update.Thumbnail
	}
	if update.IsPublished != nil {
		course.IsPublished = *update.IsPublished
	}
	if update.IsFeatured != nil {
		course.IsFeatured = *update.IsFeatured
	}
	return nil
}

func validate(params NewCourseParams) error {
	title := strings.TrimSpace(params.Title)
	if len(title) < 5 {
		return fmt.Errorf("course title must be at least 5 characters: %w", domain.ErrValidation)
	}
	if len(strings.TrimSpace(params.Description)) < 20 {
		return fmt.Errorf("course description must be at least 20 characters: %w", domain.ErrValidation)
	}
	if params.Price < 0 {
		return fmt.Errorf("course price cannot be negative: %w", domain.ErrValidation)
	}
	if params.Discount < 0 || params.Discount > 100 {
		return fmt.Errorf("discount must be between 0 and 100: %w", domain.ErrValidation)
	}
	if params.InstructorID == "" {
		return fmt.Errorf("instructor ID is required: %w", domain.ErrValidation)
	}
	if params.CategoryID == "" {
		return fmt.Errorf("category ID is required: %w", domain.ErrValidation)
	}
	return nil
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify turns a title into a URL-friendly slug with a timestamp suffix
// for uniqueness: "Learn Go" -> "learn-go-1712345678901".
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}
