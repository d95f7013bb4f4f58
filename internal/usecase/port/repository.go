package port

import (
	"context"
	"time"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// UserRepository is a port for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CourseRepository is a port for course persistence
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Course, error)
	FindAll(ctx context.Context, filter domain.CourseFilter) ([]*domain.Course, error)
	FindFeatured(ctx context.Context, limit int) ([]*domain.Course, error)
	AverageRating(ctx context.Context, courseID string) (float64, error)
	CountLessons(ctx context.Context, courseID string) (int, error)
	FindLessonByID(ctx context.Context, id string) (*domain.Lesson, error)
}

// EnrollmentRepository is a port for enrollment persistence
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error)
	UpdateProgress(ctx context.Context, id string, progress int) error
}

// ReviewRepository is a port for review persistence
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByCourse(ctx context.Context, courseID string) ([]*domain.Review, error)
}

// CategoryRepository is a port for category persistence
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*domain.Category, error)
}

// CacheRepository is a port for the cache layer. Implementations are
// best-effort: operations never fail a request, and Get reports plain
// absence for misses, expired entries and a disabled cache alike.
type CacheRepository interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Get(ctx context.Context, key string) (any, bool)
	Delete(ctx context.Context, key string)
	DeletePattern(ctx context.Context, pattern string)
	Clear(ctx context.Context)
}

// EventHandler is a subscriber callback. A returned error is logged by the
// bus and never reaches the publisher.
type EventHandler func(ctx context.Context, payload any) error

// EventBus is a port for the in-process notification bus.
type EventBus interface {
	Subscribe(event string, handler EventHandler) (unsubscribe func())
	Publish(ctx context.Context, event string, payload any)
	UnsubscribeAll(event string)
	SubscriberCount(event string) int
}
