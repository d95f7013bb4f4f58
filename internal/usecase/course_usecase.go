package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/catalog"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

const (
	defaultCacheTTL  = 300 * time.Second
	featuredCacheTTL = 600 * time.Second

	featuredCacheKey = "courses:featured"
	featuredLimit    = 6
)

// CourseUseCase implements the catalog read side and the enrollment,
// review and lesson-progress write side.
type CourseUseCase struct {
	Logger      *logrus.Logger
	RCourse     port.CourseRepository
	REnrollment port.EnrollmentRepository
	RReview     port.ReviewRepository
	RCategory   port.CategoryRepository
	RCache      port.CacheRepository
	Bus         port.EventBus

	// CacheTTL overrides the default lifetime of list and detail entries.
	// The featured set keeps its own longer TTL.
	CacheTTL time.Duration
}

func (uc *CourseUseCase) cacheTTL() time.Duration {
	if uc.CacheTTL > 0 {
		return uc.CacheTTL
	}
	return defaultCacheTTL
}

// ListCourses returns a filtered course page, cache-aside keyed on the
// full query signature.
func (uc *CourseUseCase) ListCourses(ctx context.Context, filter domain.CourseFilter) ([]*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.list_courses")
	defer span.Finish()

	filter = filter.Normalize()
	key := filter.CacheKey()
	span.SetTag("cache.key", key)

	if v, ok := uc.RCache.Get(ctx, key); ok {
		if courses, ok := v.([]*domain.Course); ok {
			return courses, nil
		}
	}

	courses, err := uc.RCourse.FindAll(ctx, filter)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to list courses", err, nil)
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	uc.RCache.Set(ctx, key, courses, uc.cacheTTL())
	return courses, nil
}

// FeaturedCourses returns the featured set decorated for display.
func (uc *CourseUseCase) FeaturedCourses(ctx context.Context) ([]catalog.CourseView, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.featured_courses")
	defer span.Finish()

	if v, ok := uc.RCache.Get(ctx, featuredCacheKey); ok {
		if views, ok := v.([]catalog.CourseView); ok {
			return views, nil
		}
	}

	courses, err := uc.RCourse.FindFeatured(ctx, featuredLimit)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to load featured courses", err, nil)
		return nil, fmt.Errorf("failed to load featured courses: %w", err)
	}

	views := make([]catalog.CourseView, 0, len(courses))
	for _, course := range courses {
		view, err := catalog.Present(course, catalog.FeaturedModifier())
		if err != nil {
			span.SetTag("error", true)
			span.SetTag("error.msg", err.Error())
			logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to present featured course", err, logrus.Fields{
				"course.id": course.ID,
			})
			return nil, err
		}
		views = append(views, view)
	}

	uc.RCache.Set(ctx, featuredCacheKey, views, featuredCacheTTL)
	return views, nil
}

// GetCourseBySlug returns one course decorated for its detail page,
// including the live average rating.
func (uc *CourseUseCase) GetCourseBySlug(ctx context.Context, slug string) (*catalog.CourseView, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.get_course")
	defer span.Finish()

	span.SetTag("course.slug", slug)
	key := "course:" + slug

	if v, ok := uc.RCache.Get(ctx, key); ok {
		if view, ok := v.(*catalog.CourseView); ok {
			return view, nil
		}
	}

	course, err := uc.RCourse.FindBySlug(ctx, slug)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	rating, err := uc.RCourse.AverageRating(ctx, course.ID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to compute average rating", err, nil)
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}

	var mods []catalog.Modifier
	if course.IsFeatured {
		mods = append(mods, catalog.FeaturedModifier())
	}
	view, err := catalog.Present(course, mods...)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}
	view.AvgRating = rating

	uc.RCache.Set(ctx, key, &view, uc.cacheTTL())
	return &view, nil
}

// CreateCourse builds and persists a course. Only instructors and admins
// may create courses.
func (uc *CourseUseCase) CreateCourse(ctx context.Context, role domain.Role, params catalog.NewCourseParams) (*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.create_course")
	defer span.Finish()

	if role != domain.RoleInstructor && role != domain.RoleAdmin {
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Course creation forbidden", domain.ErrForbidden, logrus.Fields{
			"user.role": role,
		})
		return nil, fmt.Errorf("only instructors can create courses: %w", domain.ErrForbidden)
	}

	course, err := catalog.NewCourse(params)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Course input rejected", err, nil)
		return nil, err
	}

	if err := uc.RCourse.Create(ctx, course); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to create course", err, nil)
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	span.SetTag("course.id", course.ID)
	uc.RCache.DeletePattern(ctx, "courses:*")

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Course created", logrus.Fields{
		"course.id":   course.ID,
		"course.slug": course.Slug,
	})

	return course, nil
}

// UpdateCourse applies a partial edit to a course owned by the caller.
// Admins may edit any course. An edit touches every cached surface, so
// the whole cache is dropped.
func (uc *CourseUseCase) UpdateCourse(ctx context.Context, userID string, role domain.Role, courseID string, update catalog.CourseUpdate) (*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.update_course")
	defer span.Finish()

	span.SetTag("course.id", courseID)

	course, err := uc.RCourse.FindByID(ctx, courseID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	if course.InstructorID != userID && role != domain.RoleAdmin {
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Course edit forbidden", domain.ErrForbidden, logrus.Fields{
			"user.id":   userID,
			"course.id": courseID,
		})
		return nil, fmt.Errorf("only the course instructor can edit it: %w", domain.ErrForbidden)
	}

	if err := catalog.ApplyUpdate(course, update); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Course edit rejected", err, nil)
		return nil, err
	}

	if err := uc.RCourse.Update(ctx, course); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to update course", err, nil)
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	uc.RCache.Clear(ctx)

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Course updated", logrus.Fields{
		"course.id":   course.ID,
		"course.slug": course.Slug,
	})

	return course, nil
}

// Enroll enrolls a user into a course, announces it on the bus and
// invalidates the course listings.
func (uc *CourseUseCase) Enroll(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.enroll")
	defer span.Finish()

	span.SetTag("user.id", userID)
	span.SetTag("course.id", courseID)

	if _, err := uc.REnrollment.FindByUserAndCourse(ctx, userID, courseID); err == nil {
		logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Already enrolled", domain.ErrConflict, nil)
		return nil, fmt.Errorf("already enrolled in this course: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	course, err := uc.RCourse.FindByID(ctx, courseID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	enrollment := &domain.Enrollment{
		ID:         uuid.NewString(),
		UserID:     userID,
		CourseID:   courseID,
		Progress:   0,
		EnrolledAt: time.Now(),
	}
	if err := uc.REnrollment.Create(ctx, enrollment); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("already enrolled in this course: %w", domain.ErrConflict)
		}
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to create enrollment", err, nil)
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	uc.Bus.Publish(ctx, domain.EventCourseEnrolled, domain.CourseEnrolledPayload{
		UserID:     userID,
		CourseID:   courseID,
		CourseName: course.Title,
	})
	uc.RCache.DeletePattern(ctx, "courses:*")

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "User enrolled", logrus.Fields{
		"user.id":   userID,
		"course.id": courseID,
	})

	return enrollment, nil
}

// CreateReview records a review for a course the user is enrolled in,
// announces it and invalidates the course detail pages.
func (uc *CourseUseCase) CreateReview(ctx context.Context, userID, courseID string, rating int, comment string) (*domain.Review, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.create_review")
	defer span.Finish()

	span.SetTag("user.id", userID)
	span.SetTag("course.id", courseID)
	span.SetTag("review.rating", rating)

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrValidation)
	}

	if _, err := uc.REnrollment.FindByUserAndCourse(ctx, userID, courseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logging.LogErrorWithTraceNotNotify(ctx, uc.Logger, "usecase", "Review rejected, user not enrolled", err, nil)
			return nil, fmt.Errorf("must be enrolled to review: %w", domain.ErrForbidden)
		}
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := uc.RReview.Create(ctx, review); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to create review", err, nil)
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	uc.Bus.Publish(ctx, domain.EventReviewCreated, domain.ReviewCreatedPayload{
		CourseID: courseID,
		Rating:   rating,
		Comment:  comment,
	})
	uc.RCache.DeletePattern(ctx, "course:*")

	logging.LogWithTrace(ctx, uc.Logger, "usecase", "Review created", logrus.Fields{
		"course.id":     courseID,
		"review.rating": rating,
	})

	return review, nil
}

// CompleteLesson advances the user's progress in the lesson's course.
// Progress is the percentage of the course's lessons completed; reaching
// 100 also announces course completion.
func (uc *CourseUseCase) CompleteLesson(ctx context.Context, userID, lessonID string, completedLessons int) (*domain.Enrollment, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.complete_lesson")
	defer span.Finish()

	span.SetTag("user.id", userID)
	span.SetTag("lesson.id", lessonID)

	lesson, err := uc.RCourse.FindLessonByID(ctx, lessonID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	enrollment, err := uc.REnrollment.FindByUserAndCourse(ctx, userID, lesson.CourseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("not enrolled in this course: %w", domain.ErrForbidden)
		}
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	total, err := uc.RCourse.CountLessons(ctx, lesson.CourseID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	progress := 100
	if total > 0 {
		progress = completedLessons * 100 / total
		if progress > 100 {
			progress = 100
		}
	}

	if err := uc.REnrollment.UpdateProgress(ctx, enrollment.ID, progress); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to update progress", err, nil)
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	enrollment.Progress = progress
	span.SetTag("enrollment.progress", progress)

	uc.Bus.Publish(ctx, domain.EventLessonCompleted, domain.LessonCompletedPayload{
		UserID:   userID,
		LessonID: lessonID,
		Progress: progress,
	})
	if progress >= 100 {
		uc.Bus.Publish(ctx, domain.EventCourseCompleted, domain.CourseCompletedPayload{
			UserID:   userID,
			CourseID: lesson.CourseID,
		})
	}

	return enrollment, nil
}

// ListReviews returns a course's reviews, newest first.
func (uc *CourseUseCase) ListReviews(ctx context.Context, courseID string) ([]*domain.Review, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.list_reviews")
	defer span.Finish()

	span.SetTag("course.id", courseID)

	if _, err := uc.RCourse.FindByID(ctx, courseID); err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		return nil, err
	}

	reviews, err := uc.RReview.FindByCourse(ctx, courseID)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to list reviews", err, nil)
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListCategories returns all categories with their course counts.
func (uc *CourseUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "usecase.list_categories")
	defer span.Finish()

	categories, err := uc.RCategory.FindAll(ctx)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		logging.LogErrorWithTrace(ctx, uc.Logger, "usecase", "Failed to list categories", err, nil)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
