package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/domain"
)

// UserRepository implements port.UserRepository for MySQL
type UserRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user. A duplicate email surfaces as ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.create_user")
	defer span.Finish()

	query := "INSERT INTO users (id, email, password, name, role, avatar, bio, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	logQuery(ctx, r.logger, query, logrus.Fields{
		"user.email": user.Email,
		"user.role":  user.Role,
	})

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Password, user.Name, user.Role, user.Avatar, user.Bio, user.CreatedAt)
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return wrapWriteError("insert user", err)
	}

	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_user_by_id")
	defer span.Finish()

	query := "SELECT id, email, password, name, role, avatar, bio, created_at FROM users WHERE id = ?"

	logQuery(ctx, r.logger, query, logrus.Fields{"user.id": id})

	return r.scanUser(ctx, query, id)
}

// FindByEmail finds a user by email. Lookups match the normalized
// (lowercased, trimmed) form the account layer stores.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	span, ctx := tracer.StartSpanFromContext(ctx, "mysql.find_user_by_email")
	defer span.Finish()

	query := "SELECT id, email, password, name, role, avatar, bio, created_at FROM users WHERE email = ?"

	logQuery(ctx, r.logger, query, nil)

	return r.scanUser(ctx, query, email)
}

func (r *UserRepository) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var bio sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Name,
		&user.Role,
		&user.Avatar,
		&bio,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		logQueryError(ctx, r.logger, query, err)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.Bio = bio.String
	return &user, nil
}
