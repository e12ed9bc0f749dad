package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	JWTSecret string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
	FromName     string
	AppURL       string

	LogLevel  string
	LogFormat string

	Queue    QueueConfig    `yaml:"queue"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

type QueueConfig struct {
	Workers        int           `yaml:"workers"`
	Size           int           `yaml:"size"`
	MaxAttempts    int           `yaml:"max_attempts"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	Backoff        time.Duration `yaml:"backoff"`
}

type ScheduleConfig struct {
	Pending   string        `yaml:"pending"`
	Digest    string        `yaml:"digest"`
	Reminders string        `yaml:"reminders"`
	LockTTL   time.Duration `yaml:"lock_ttl"`
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "quickform-emails"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
		FromName:     getEnv("FROM_NAME", "QuickForm"),
		AppURL:       getEnv("APP_URL", "http://localhost:5173"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Queue: QueueConfig{
			Workers:        getIntEnv("QUEUE_WORKERS", 4),
			Size:           getIntEnv("QUEUE_SIZE", 256),
			MaxAttempts:    getIntEnv("QUEUE_MAX_ATTEMPTS", 3),
			AttemptTimeout: getDurationEnv("QUEUE_ATTEMPT_TIMEOUT", 30*time.Second),
			Backoff:        getDurationEnv("QUEUE_BACKOFF", 2*time.Second),
		},
		Schedule: ScheduleConfig{
			Pending:   getEnv("SCHEDULE_PENDING", "@hourly"),
			Digest:    getEnv("SCHEDULE_DIGEST", "0 9 * * *"),
			Reminders: getEnv("SCHEDULE_REMINDERS", "0 10 * * *"),
			LockTTL:   getDurationEnv("JOB_LOCK_TTL", time.Hour),
		},
	}
}

// LoadFile overlays queue and schedule settings from a YAML file. Fields left
// empty in the file keep their environment values.
func (c *Config) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay struct {
		Queue    QueueConfig    `yaml:"queue"`
		Schedule ScheduleConfig `yaml:"schedule"`
	}
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	c.Queue.merge(overlay.Queue)
	c.Schedule.merge(overlay.Schedule)
	return nil
}

func (q *QueueConfig) merge(o QueueConfig) {
	if o.Workers > 0 {
		q.Workers = o.Workers
	}
	if o.Size > 0 {
		q.Size = o.Size
	}
	if o.MaxAttempts > 0 {
		q.MaxAttempts = o.MaxAttempts
	}
	if o.AttemptTimeout > 0 {
		q.AttemptTimeout = o.AttemptTimeout
	}
	if o.Backoff > 0 {
		q.Backoff = o.Backoff
	}
}

func (s *ScheduleConfig) merge(o ScheduleConfig) {
	if o.Pending != "" {
		s.Pending = o.Pending
	}
	if o.Digest != "" {
		s.Digest = o.Digest
	}
	if o.Reminders != "" {
		s.Reminders = o.Reminders
	}
	if o.LockTTL > 0 {
		s.LockTTL = o.LockTTL
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
