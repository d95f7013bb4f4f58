package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backends selectable via CACHE_BACKEND.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port string

	MySQLUser     string
	MySQLPassword string
	MySQLHost     string
	MySQLPort     string
	MySQLDatabase string

	RedisHost string
	RedisPort string

	CacheBackend string
	CacheEnabled bool
	CacheTTL     time.Duration

	JWTSecret string

	DDEnv       string
	DDService   string
	DDVersion   string
	DDAgentHost string
}

// Load reads configuration from the environment. Missing values fall back
// to development defaults.
func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		MySQLUser:     getenv("MYSQL_USER", "coursehub"),
		MySQLPassword: getenv("MYSQL_PASSWORD", "coursehub"),
		MySQLHost:     getenv("MYSQL_HOST", "localhost"),
		MySQLPort:     getenv("MYSQL_PORT", "3306"),
		MySQLDatabase: getenv("MYSQL_DATABASE", "coursehub"),

		RedisHost: getenv("REDIS_HOST", "localhost"),
		RedisPort: getenv("REDIS_PORT", "6379"),

		CacheBackend: getenv("CACHE_BACKEND", CacheBackendMemory),
		CacheEnabled: os.Getenv("CACHE_ENABLED") != "false",
		CacheTTL:     time.Duration(getenvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		JWTSecret: getenv("JWT_SECRET", "your-secret-key"),

		DDEnv:       os.Getenv("DD_ENV"),
		DDService:   getenv("DD_SERVICE", "coursehub-api"),
		DDVersion:   os.Getenv("DD_VERSION"),
		DDAgentHost: getenv("DD_AGENT_HOST", "localhost"),
	}
}

// MySQLDSN builds the driver DSN.
func (c Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

// RedisAddr builds the Redis host:port address.
func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
