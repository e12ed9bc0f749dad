package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dennisohere/quickform/internal/config"
	"github.com/dennisohere/quickform/internal/repository"
	"github.com/dennisohere/quickform/internal/service"
)

type runtime struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *sqlx.DB
	redis    *redis.Client
	repos    *repository.Repositories
	services *service.Services
}

// bootstrap connects to every backing store and builds the services. Redis
// and MinIO are optional; without them the unread cache is skipped, job
// locks are process-local and emails are not archived.
func bootstrap(ctx context.Context, path string) (*runtime, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	log := config.NewLogger(cfg)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log, db: db}

	rt.redis = connectRedis(ctx, cfg, log)

	minioClient, err := config.NewMinIOClient(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Warn("failed to connect to MinIO, sent emails will not be archived")
		minioClient = nil
	}

	rt.repos = repository.NewRepositories(db)
	rt.services, err = service.NewServices(rt.repos, rt.redis, minioClient, cfg, log)
	if err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg *config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, unread counts are not cached and job locks are local")
		return nil
	}

	client, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("failed to connect to Redis, unread counts are not cached and job locks are local")
		return nil
	}
	return client
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		_ = rt.db.Close()
	}
}
