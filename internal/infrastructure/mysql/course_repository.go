package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/domain"
)

const courseColumns = "id, title, slug, description, price, discount, level, language, thumbnail, is_published, is_featured, instructor_id, category_id, created_at"

// CourseRepository implements port.CourseRepository for MySQL
type CourseRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *sql.DB, logger *logrus.Logger) *CourseRepository {
	return &CourseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new course. A duplicate slug surfaces as ErrConflict.
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.create_course")
	defer span.Finish()

	query := "INSERT INTO courses (" + courseColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	logQuery(ctx, r.logger, query, logrus.Fields{
		"course.title": course.Title,
		"course.slug":  course.Slug,
	})

	_, err := r.db.ExecContext(ctx, query,
		course.ID, course.Title, course.Slug, course.Description, course.Price, course.Discount,
		course.Level, course.Language, course.Thumbnail, course.IsPublished, course.IsFeatured,
		course.InstructorID, course.CategoryID, course.CreatedAt)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return wrapWriteError("insert course", err)
	}

	return nil
}

// Update rewrites the mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.update_course")
	defer span.Finish()

	query := "UPDATE courses SET title = ?, description = ?, price = ?, discount = ?, level = ?, thumbnail = ?, is_published = ?, is_featured = ? WHERE id = ?"

	logQuery(ctx, r.logger, query, logrus.Fields{"course.id": course.ID})

	result, err := r.db.ExecContext(ctx, query,
		course.Title, course.Description, course.Price, course.Discount,
		course.Level, course.Thumbnail, course.IsPublished, course.IsFeatured, course.ID)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return wrapWriteError("update course", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("course %s: %w", course.ID, domain.ErrNotFound)
	}
	return nil
}

// FindByID finds a course by ID
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_course_by_id")
	defer span.Finish()

	query := "SELECT " + courseColumns + " FROM courses WHERE id = ?"
	logQuery(ctx, r.logger, query, logrus.Fields{"course.id": id})

	return r.scanCourse(ctx, query, id)
}

// FindBySlug finds a course by slug
func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_course_by_slug")
	defer span.Finish()

	query := "SELECT " + courseColumns + " FROM courses WHERE slug = ?"
	logQuery(ctx, r.logger, query, logrus.Fields{"course.slug": slug})

	return r.scanCourse(ctx, query, slug)
}

// FindAll lists published courses with filters, sort and pagination.
func (r *CourseRepository) FindAll(ctx context.Context, filter domain.CourseFilter) ([]*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_all_courses")
	defer span.Finish()

	filter = filter.Normalize()

	query := "SELECT " + courseColumns + " FROM courses WHERE is_published = TRUE"
	args := []any{}

	if filter.Category != "" {
		query += " AND category_id = ?"
		args = append(args, filter.Category)
	}
	if filter.Level != "" {
		query += " AND level = ?"
		args = append(args, filter.Level)
	}
	if filter.Search != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}

	switch filter.Sort {
	case domain.SortPopular:
		query += " ORDER BY (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = courses.id) DESC"
	case domain.SortPriceLow:
		query += " ORDER BY price ASC"
	case domain.SortPriceHigh:
		query += " ORDER BY price DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	query += " LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset())

	logQuery(ctx, r.logger, query, logrus.Fields{
		"filter.search": filter.Search,
		"filter.sort":   filter.Sort,
		"filter.page":   filter.Page,
	})

	return r.scanCourses(ctx, query, args...)
}

// FindFeatured lists published featured courses.
func (r *CourseRepository) FindFeatured(ctx context.Context, limit int) ([]*domain.Course, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_featured_courses")
	defer span.Finish()

	query := "SELECT " + courseColumns + " FROM courses WHERE is_published = TRUE AND is_featured = TRUE LIMIT ?"
	logQuery(ctx, r.logger, query, nil)

	return r.scanCourses(ctx, query, limit)
}

// AverageRating computes the mean review rating for a course, 0 when the
// course has no reviews.
func (r *CourseRepository) AverageRating(ctx context.Context, courseID string) (float64, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.course_average_rating")
	defer span.Finish()

	query := "SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE course_id = ?"
	logQuery(ctx, r.logger, query, logrus.Fields{"course.id": courseID})

	var avg float64
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&avg); err != nil {
		logQueryError(ctx, r.logger, query, err)
		return 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return avg, nil
}

// CountLessons reports how many lessons a course has.
func (r *CourseRepository) CountLessons(ctx context.Context, courseID string) (int, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.count_lessons")
	defer span.Finish()

	query := "SELECT COUNT(*) FROM lessons WHERE course_id = ?"
	logQuery(ctx, r.logger, query, logrus.Fields{"course.id": courseID})

	var count int
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		logQueryError(ctx, r.logger, query, err)
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

// FindLessonByID finds a lesson by ID
func (r *CourseRepository) FindLessonByID(ctx context.Context, id string) (*domain.Lesson, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_lesson_by_id")
	defer span.Finish()

	query := "SELECT id, course_id, title, `order`, duration FROM lessons WHERE id = ?"
	logQuery(ctx, r.logger, query, logrus.Fields{"lesson.id": id})

	var lesson domain.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.Order, &lesson.Duration)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lesson: %w", domain.ErrNotFound)
	}
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}
	return &lesson, nil
}

func (r *CourseRepository) scanCourse(ctx context.Context, query string, arg any) (*domain.Course, error) {
	var course domain.Course
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&course.ID, &course.Title, &course.Slug, &course.Description, &course.Price, &course.Discount,
		&course.Level, &course.Language, &course.Thumbnail, &course.IsPublished, &course.IsFeatured,
		&course.InstructorID, &course.CategoryID, &course.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course: %w", domain.ErrNotFound)
	}
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query course: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) scanCourses(ctx context.Context, query string, args ...any) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(
			&course.ID, &course.Title, &course.Slug, &course.Description, &course.Price, &course.Discount,
			&course.Level, &course.Language, &course.Thumbnail, &course.IsPublished, &course.IsFeatured,
			&course.InstructorID, &course.CategoryID, &course.CreatedAt,
		); err != nil {
			continue
		}
		courses = append(courses, &course)
	}

	return courses, nil
}
