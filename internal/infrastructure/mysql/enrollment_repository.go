package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// EnrollmentRepository implements port.EnrollmentRepository for MySQL
type EnrollmentRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *sql.DB, logger *logrus.Logger) *EnrollmentRepository {
	return &EnrollmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new enrollment. The (user_id, course_id) unique key makes
// a duplicate enrollment surface as ErrConflict.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.create_enrollment")
	defer span.Finish()

	query := "INSERT INTO enrollments (id, user_id, course_id, progress, enrolled_at) VALUES (?, ?, ?, ?, ?)"

	logQuery(ctx, r.logger, query, logrus.Fields{
		"user.id":   enrollment.UserID,
		"course.id": enrollment.CourseID,
	})

	_, err := r.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.UserID, enrollment.CourseID, enrollment.Progress, enrollment.EnrolledAt)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return wrapWriteError("insert enrollment", err)
	}

	return nil
}

// FindByUserAndCourse finds an enrollment by the (user, course) pair.
func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_enrollment")
	defer span.Finish()

	query := "SELECT id, user_id, course_id, progress, enrolled_at FROM enrollments WHERE user_id = ? AND course_id = ?"

	logQuery(ctx, r.logger, query, logrus.Fields{
		"user.id":   userID,
		"course.id": courseID,
	})

	var enrollment domain.Enrollment
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&enrollment.ID, &enrollment.UserID, &enrollment.CourseID, &enrollment.Progress, &enrollment.EnrolledAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("enrollment: %w", domain.ErrNotFound)
	}
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query enrollment: %w", err)
	}
	return &enrollment, nil
}

// FindByUser lists a user's enrollments, newest first.
func (r *EnrollmentRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_enrollments_by_user")
	defer span.Finish()

	query := "SELECT id, user_id, course_id, progress, enrolled_at FROM enrollments WHERE user_id = ? ORDER BY enrolled_at DESC"

	logQuery(ctx, r.logger, query, logrus.Fields{"user.id": userID})

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		var enrollment domain.Enrollment
		if err := rows.Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseID,
			&enrollment.Progress, &enrollment.EnrolledAt); err != nil {
			continue
		}
		enrollments = append(enrollments, &enrollment)
	}

	return enrollments, nil
}

// UpdateProgress sets the progress percentage of an enrollment.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.update_enrollment_progress")
	defer span.Finish()

	query := "UPDATE enrollments SET progress = ? WHERE id = ?"

	logQuery(ctx, r.logger, query, logrus.Fields{
		"enrollment.id":       id,
		"enrollment.progress": progress,
	})

	result, err := r.db.ExecContext(ctx, query, progress, id)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return wrapWriteError("update enrollment progress", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("enrollment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
