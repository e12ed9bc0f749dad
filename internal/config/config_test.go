package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUEUE_WORKERS", "")
	t.Setenv("SCHEDULE_DIGEST", "")
	t.Setenv("REDIS_URL", "")

	cfg := Load()

	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Queue.AttemptTimeout)
	assert.Equal(t, "@hourly", cfg.Schedule.Pending)
	assert.Equal(t, "0 9 * * *", cfg.Schedule.Digest)
	assert.Equal(t, "0 10 * * *", cfg.Schedule.Reminders)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUEUE_WORKERS", "8")
	t.Setenv("QUEUE_BACKOFF", "500ms")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, 8, cfg.Queue.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Queue.Backoff)
	assert.True(t, cfg.MinIOUseSSL)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("QUEUE_SIZE", "lots")

	cfg := Load()

	assert.Equal(t, 256, cfg.Queue.Size)
}

func TestLoadFile_OverlaysNonEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quickform.yaml")
	content := "queue:\n  workers: 2\n  attempt_timeout: 10s\nschedule:\n  digest: \"30 8 * * *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Load()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, 2, cfg.Queue.Workers)
	assert.Equal(t, 10*time.Second, cfg.Queue.AttemptTimeout)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, "30 8 * * *", cfg.Schedule.Digest)
	assert.Equal(t, "@hourly", cfg.Schedule.Pending)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := Load()
	err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log := NewLogger(&Config{LogLevel: "debug", LogFormat: "json"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = NewLogger(&Config{LogLevel: "nonsense", Environment: "development"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log = NewLogger(&Config{Environment: "production"})
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
