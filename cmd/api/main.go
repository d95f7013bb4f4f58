package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/DataDog/datadog-go/v5/statsd"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
	redistrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/redis/go-redis.v9"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"github.com/coursehub/coursehub-api/internal/common/config"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
}

func main() {
	cfg := config.Load()

	// Start Datadog tracer. Spans opened down the stack (handler, usecase,
	// repository, cache) report to the agent once finished.
	tracer.Start(
		tracer.WithEnv(cfg.DDEnv),
		tracer.WithService(cfg.DDService),
		tracer.WithServiceVersion(cfg.DDVersion),
		tracer.WithLogStartup(true),
	)
	defer tracer.Stop()

	err := profiler.Start(
		profiler.WithService(cfg.DDService),
		profiler.WithEnv(cfg.DDEnv),
		profiler.WithVersion(cfg.DDVersion),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	)
	if err != nil {
		logger.WithError(err).Warn("Failed to start profiler")
	}
	defer profiler.Stop()

	statsdClient, err := statsd.New(fmt.Sprintf("%s:%s", cfg.DDAgentHost, "8125"),
		statsd.WithTags([]string{
			"env:" + cfg.DDEnv,
			"service:" + cfg.DDService,
		}),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize StatsD client")
		os.Exit(1)
	}
	defer statsdClient.Close()

	db, err := sqltrace.Open("mysql", cfg.MySQLDSN(), sqltrace.WithServiceName("mysql"))
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MySQL")
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.WithError(err).Error("Failed to ping MySQL")
		os.Exit(1)
	}
	logger.Info("Successfully connected to MySQL")

	// The Redis client is only dialed when the redis cache backend is
	// selected; the default backend is the in-process store.
	var redisClient redis.UniversalClient
	if cfg.CacheBackend == config.CacheBackendRedis {
		redisClient = redistrace.NewClient(&redis.Options{
			Addr: cfg.RedisAddr(),
		}, redistrace.WithServiceName("redis"))

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		logger.Info("Successfully connected to Redis")
	}

	repoLocator, tokens := SetupRepositories(cfg, db, redisClient, logger, statsdClient)
	e := SetupRouter(logger, repoLocator, tokens)

	logger.WithField("port", cfg.Port).Info("Starting server")
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("Server failed to start")
		os.Exit(1)
	}
}
