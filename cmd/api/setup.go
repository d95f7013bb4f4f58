package main

import (
	"database/sql"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/auth"
	"github.com/coursehub/coursehub-api/internal/common/config"
	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/eventbus"
	"github.com/coursehub/coursehub-api/internal/infrastructure/memcache"
	"github.com/coursehub/coursehub-api/internal/infrastructure/mysql"
	infraredis "github.com/coursehub/coursehub-api/internal/infrastructure/redis"
	"github.com/coursehub/coursehub-api/internal/infrastructure/tracing"
	"github.com/coursehub/coursehub-api/internal/presentation/router"
	"github.com/coursehub/coursehub-api/internal/subscriber"
	"github.com/coursehub/coursehub-api/internal/usecase/port"
)

const tokenTTL = 24 * time.Hour

// SetupRepositories creates the repositories, cache, bus and token service
// and wires the event subscribers.
func SetupRepositories(cfg config.Config, db *sql.DB, redisClient goredis.UniversalClient, logger *logrus.Logger, statsdClient statsd.ClientInterface) (*appcontext.RepoLocator, *auth.TokenService) {
	var cacheBase port.CacheRepository
	if cfg.CacheBackend == config.CacheBackendRedis && redisClient != nil {
		cacheBase = infraredis.New(redisClient, logger)
	} else {
		cacheBase = memcache.New(cfg.CacheEnabled)
	}
	cache := tracing.NewCacheStoreTracer(cacheBase, statsdClient)

	bus := eventbus.New(logger, statsdClient)
	subscriber.NewEnrollmentSubscriber(logger, statsdClient).Register(bus)
	subscriber.NewReviewSubscriber(logger, statsdClient).Register(bus)

	locator := &appcontext.RepoLocator{
		UserRepo:       mysql.NewUserRepository(db, logger),
		CourseRepo:     mysql.NewCourseRepository(db, logger),
		EnrollmentRepo: mysql.NewEnrollmentRepository(db, logger),
		ReviewRepo:     mysql.NewReviewRepository(db, logger),
		CategoryRepo:   mysql.NewCategoryRepository(db, logger),
		Cache:          cache,
		Bus:            bus,
		CacheTTL:       cfg.CacheTTL,
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, tokenTTL)
	locator.Tokens = tokens
	return locator, tokens
}

// SetupRouter creates and configures the application router with all handlers
func SetupRouter(logger *logrus.Logger, repoLocator *appcontext.RepoLocator, tokens *auth.TokenService) *echo.Echo {
	return router.Setup(logger, repoLocator, tokens)
}
