package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	created []*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return fmt.Errorf("duplicate email: %w", domain.ErrConflict)
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	r.created = append(r.created, user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

type fakeCourseRepo struct {
	courses     map[string]*domain.Course
	lessons     map[string]*domain.Lesson
	lessonCount int
	avgRating   float64
	findAllHits int
	featured    []*domain.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: make(map[string]*domain.Course),
		lessons: make(map[string]*domain.Lesson),
	}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *domain.Course) error {
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error {
	if _, ok := r.courses[course.ID]; !ok {
		return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
	}
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	if course, ok := r.courses[id]; ok {
		return course, nil
	}
	return nil, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
}

func (r *fakeCourseRepo) FindBySlug(_ context.Context, slug string) (*domain.Course, error) {
	for _, course := range r.courses {
		if course.Slug == slug {
			return course, nil
		}
	}
	return nil, fmt.Errorf("course %s: %w", slug, domain.ErrNotFound)
}

func (r *fakeCourseRepo) FindAll(_ context.Context, _ domain.CourseFilter) ([]*domain.Course, error) {
	r.findAllHits++
	all := make([]*domain.Course, 0, len(r.courses))
	for _, course := range r.courses {
		all = append(all, course)
	}
	return all, nil
}

func (r *fakeCourseRepo) FindFeatured(_ context.Context, _ int) ([]*domain.Course, error) {
	return r.featured, nil
}

func (r *fakeCourseRepo) AverageRating(_ context.Context, _ string) (float64, error) {
	return r.avgRating, nil
}

func (r *fakeCourseRepo) CountLessons(_ context.Context, _ string) (int, error) {
	return r.lessonCount, nil
}

func (r *fakeCourseRepo) FindLessonByID(_ context.Context, id string) (*domain.Lesson, error) {
	if lesson, ok := r.lessons[id]; ok {
		return lesson, nil
	}
	return nil, fmt.Errorf("lesson %s: %w", id, domain.ErrNotFound)
}

type fakeEnrollmentRepo struct {
	enrollments map[string]*domain.Enrollment // keyed user|course
	progress    map[string]int                // keyed enrollment ID
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		enrollments: make(map[string]*domain.Enrollment),
		progress:    make(map[string]int),
	}
}

func enrollmentKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, enrollment *domain.Enrollment) error {
	key := enrollmentKey(enrollment.UserID, enrollment.CourseID)
	if _, ok := r.enrollments[key]; ok {
		return fmt.Errorf("duplicate enrollment: %w", domain.ErrConflict)
	}
	r.enrollments[key] = enrollment
	return nil
}

func (r *fakeEnrollmentRepo) FindByUserAndCourse(_ context.Context, userID, courseID string) (*domain.Enrollment, error) {
	if enrollment, ok := r.enrollments[enrollmentKey(userID, courseID)]; ok {
		return enrollment, nil
	}
	return nil, fmt.Errorf("enrollment: %w", domain.ErrNotFound)
}

func (r *fakeEnrollmentRepo) FindByUser(_ context.Context, userID string) ([]*domain.Enrollment, error) {
	var out []*domain.Enrollment
	for _, enrollment := range r.enrollments {
		if enrollment.UserID == userID {
			out = append(out, enrollment)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) UpdateProgress(_ context.Context, id string, progress int) error {
	r.progress[id] = progress
	return nil
}

type fakeReviewRepo struct {
	created []*domain.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.created = append(r.created, review)
	return nil
}

func (r *fakeReviewRepo) FindByCourse(_ context.Context, courseID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, review := range r.created {
		if review.CourseID == courseID {
			out = append(out, review)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories []*domain.Category
}

func (r *fakeCategoryRepo) FindAll(_ context.Context) ([]*domain.Category, error) {
	return r.categories, nil
}
