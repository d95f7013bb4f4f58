package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// ReviewRepository implements port.ReviewRepository for MySQL
type ReviewRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *sql.DB, logger *logrus.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new review
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.create_review")
	defer span.Finish()

	query := "INSERT INTO reviews (id, user_id, course_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)"

	logQuery(ctx, r.logger, query, logrus.Fields{
		"course.id":     review.CourseID,
		"review.rating": review.Rating,
	})

	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.UserID, review.CourseID, review.Rating, review.Comment, review.CreatedAt)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return wrapWriteError("insert review", err)
	}

	return nil
}

// FindByCourse lists a course's reviews, newest first.
func (r *ReviewRepository) FindByCourse(ctx context.Context, courseID string) ([]*domain.Review, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_reviews_by_course")
	defer span.Finish()

	query := "SELECT id, user_id, course_id, rating, comment, created_at FROM reviews WHERE course_id = ? ORDER BY created_at DESC"

	logQuery(ctx, r.logger, query, logrus.Fields{"course.id": courseID})

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.UserID, &review.CourseID,
			&review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			continue
		}
		reviews = append(reviews, &review)
	}

	return reviews, nil
}
