package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// CategoryRepository implements port.CategoryRepository for MySQL
type CategoryRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *sql.DB, logger *logrus.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// FindAll lists every category with its published course count.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_all_categories")
	defer span.Finish()

	query := `SELECT c.id, c.name, c.slug,
		(SELECT COUNT(*) FROM courses WHERE category_id = c.id AND is_published = TRUE)
		FROM categories c ORDER BY c.name ASC`

	logQuery(ctx, r.logger, query, nil)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CourseCount); err != nil {
			continue
		}
		categories = append(categories, &category)
	}

	return categories, nil
}
