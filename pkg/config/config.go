package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds the HS256 secret used to verify bearer tokens.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes timetable generation and its background workers.
type SchedulerConfig struct {
	SessionsPerWeek  int
	MaxDailySessions int
	MaxAttempts      int
	RandomSeed       int64
	LeaseTTL         time.Duration
	JobWorkers       int
	JobQueueSize     int
	JobResultTTL     time.Duration
}

// RateLimitConfig limits generation requests per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// ExportConfig bounds timetable exports.
type ExportConfig struct {
	MaxRows int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		SessionsPerWeek:  v.GetInt("SCHEDULER_SESSIONS_PER_WEEK"),
		MaxDailySessions: v.GetInt("SCHEDULER_MAX_DAILY_SESSIONS"),
		MaxAttempts:      v.GetInt("SCHEDULER_MAX_ATTEMPTS"),
		RandomSeed:       v.GetInt64("SCHEDULER_RANDOM_SEED"),
		LeaseTTL:         parseDuration(v.GetString("SCHEDULER_LEASE_TTL"), 5*time.Minute),
		JobWorkers:       v.GetInt("SCHEDULER_JOB_WORKERS"),
		JobQueueSize:     v.GetInt("SCHEDULER_JOB_QUEUE_SIZE"),
		JobResultTTL:     parseDuration(v.GetString("SCHEDULER_JOB_RESULT_TTL"), 24*time.Hour),
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
		Burst:             v.GetInt("RATE_LIMIT_BURST"),
	}

	cfg.Export = ExportConfig{MaxRows: v.GetInt("EXPORT_MAX_ROWS")}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env == EnvProduction && (c.JWT.Secret == "" || c.JWT.Secret == "dev_secret") {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Scheduler.MaxAttempts <= 0 {
		return fmt.Errorf("SCHEDULER_MAX_ATTEMPTS must be positive")
	}
	if c.Scheduler.SessionsPerWeek <= 0 || c.Scheduler.MaxDailySessions <= 0 {
		return fmt.Errorf("scheduler session defaults must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sma_timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_SESSIONS_PER_WEEK", 2)
	v.SetDefault("SCHEDULER_MAX_DAILY_SESSIONS", 4)
	v.SetDefault("SCHEDULER_MAX_ATTEMPTS", 50)
	v.SetDefault("SCHEDULER_RANDOM_SEED", 0)
	v.SetDefault("SCHEDULER_LEASE_TTL", "5m")
	v.SetDefault("SCHEDULER_JOB_WORKERS", 2)
	v.SetDefault("SCHEDULER_JOB_QUEUE_SIZE", 16)
	v.SetDefault("SCHEDULER_JOB_RESULT_TTL", "24h")

	v.SetDefault("RATE_LIMIT_RPS", 1)
	v.SetDefault("RATE_LIMIT_BURST", 3)

	v.SetDefault("EXPORT_MAX_ROWS", 20000)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
