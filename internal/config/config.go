package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App       AppConfig
	Gateway   GatewayConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Cache     CacheConfig
	Session   SessionConfig
	Dashboard DashboardConfig
	Scheduler SchedulerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// GatewayConfig points at the remote analysis service.
type GatewayConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN keeps preferences
// and the audit journal in memory.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// AuthConfig defines operator authentication parameters.
type AuthConfig struct {
	Enabled               bool
	JWTSecret             string
	AccessTokenTTLMinutes int
	OperatorUsername      string
	OperatorPasswordHash  string
	BcryptCost            int
}

// CacheConfig controls how long auxiliary catalog reads are cached.
type CacheConfig struct {
	CatalogTTLSeconds int
}

// SessionConfig bounds the lifetime of idle triage sessions.
type SessionConfig struct {
	MaxIdleMinutes int
}

// DashboardConfig holds dashboard defaults.
type DashboardConfig struct {
	DefaultPeriodDays int
	HistoryPageSize   int
	PeriodChoices     []int
}

// SchedulerConfig holds cron specs for background jobs. Empty specs disable the job.
type SchedulerConfig struct {
	SessionSweepSpec string
	CatalogWarmSpec  string
	StatusProbeSpec  string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	choices, err := parseIntList(getEnv("DASHBOARD_PERIOD_CHOICES", "1,7,30,90"))
	if err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_PERIOD_CHOICES: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "triage-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 45),
		},
		Gateway: GatewayConfig{
			BaseURL:        strings.TrimRight(getEnv("TRIAGE_API_URL", "http://localhost:8001"), "/"),
			TimeoutSeconds: getEnvAsInt("TRIAGE_API_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 5)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Auth: AuthConfig{
			Enabled:               getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			OperatorUsername:      getEnv("AUTH_OPERATOR_USERNAME", "operador"),
			OperatorPasswordHash:  os.Getenv("AUTH_OPERATOR_PASSWORD_HASH"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Cache: CacheConfig{
			CatalogTTLSeconds: getEnvAsInt("CACHE_CATALOG_TTL_SECONDS", 300),
		},
		Session: SessionConfig{
			MaxIdleMinutes: getEnvAsInt("SESSION_MAX_IDLE_MINUTES", 60),
		},
		Dashboard: DashboardConfig{
			DefaultPeriodDays: getEnvAsInt("DASHBOARD_DEFAULT_PERIOD_DAYS", 7),
			HistoryPageSize:   getEnvAsInt("DASHBOARD_HISTORY_PAGE_SIZE", 10),
			PeriodChoices:     choices,
		},
		Scheduler: SchedulerConfig{
			SessionSweepSpec: getEnv("SCHEDULE_SESSION_SWEEP", "@every 5m"),
			CatalogWarmSpec:  getEnv("SCHEDULE_CATALOG_WARM", "@every 10m"),
			StatusProbeSpec:  getEnv("SCHEDULE_STATUS_PROBE", "@every 1m"),
		},
	}

	if cfg.Auth.Enabled && cfg.Auth.OperatorPasswordHash == "" {
		return nil, fmt.Errorf("AUTH_OPERATOR_PASSWORD_HASH is required when AUTH_ENABLED=true")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the transport timeout for calls to the analysis service.
func (g GatewayConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CatalogTTL returns how long catalog reads stay cached.
func (c CacheConfig) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLSeconds) * time.Second
}

// MaxIdle returns how long an untouched session survives.
func (s SessionConfig) MaxIdle() time.Duration {
	return time.Duration(s.MaxIdleMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntList(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
