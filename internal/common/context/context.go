package context

import (
	"context"
	"time"

	"github.com/coursehub/coursehub-api/internal/auth"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	loggerKey      contextKey = "logger"
	repoLocatorKey contextKey = "repo_locator"
	userClaimsKey  contextKey = "user_claims"
)

// RepoLocator holds all repositories plus the process-wide cache and bus.
// Constructed once at startup and threaded through request contexts; there
// is exactly one instance per process.
type RepoLocator struct {
	UserRepo       port.UserRepository
	CourseRepo     port.CourseRepository
	EnrollmentRepo port.EnrollmentRepository
	ReviewRepo     port.ReviewRepository
	CategoryRepo   port.CategoryRepository
	Cache          port.CacheRepository
	Bus            port.EventBus
	Tokens         *auth.TokenService

	// CacheTTL is the configured default entry lifetime; endpoints with
	// their own TTL override it.
	CacheTTL time.Duration
}

// UserClaims is the authenticated identity extracted from a request token.
type UserClaims struct {
	ID    string
	Email string
	Role  string
}

// SetLogger sets logger in context
func SetLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger retrieves logger from context
func GetLogger(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Logger); ok {
		return logger
	}
	return logrus.New() // fallback
}

// SetRepoLocator sets repository locator in context
func SetRepoLocator(ctx context.Context, locator *RepoLocator) context.Context {
	return context.WithValue(ctx, repoLocatorKey, locator)
}

// GetRepoLocator retrieves repository locator from context
func GetRepoLocator(ctx context.Context) *RepoLocator {
	if locator, ok := ctx.Value(repoLocatorKey).(*RepoLocator); ok {
		return locator
	}
	return nil
}

// SetUserClaims sets the authenticated user in context
func SetUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// GetUserClaims retrieves the authenticated user from context, nil when the
// request carried no valid token.
func GetUserClaims(ctx context.Context) *UserClaims {
	if claims, ok := ctx.Value(userClaimsKey).(*UserClaims); ok {
		return claims
	}
	return nil
}
