package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sip/internal/config"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/redis"
	"github.com/MrSnakeDoc/sip/internal/store"
	filestore "github.com/MrSnakeDoc/sip/internal/store/file"
	pgstore "github.com/MrSnakeDoc/sip/internal/store/postgres"
	redisstore "github.com/MrSnakeDoc/sip/internal/store/redis"
)

// storage is the opened KV substrate plus whatever must be closed on shutdown.
type storage struct {
	kv          store.KV
	redisClient *goredis.Client
	pg          *pgstore.DB
}

func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("memory backend selected, state is lost on restart")
		return &storage{kv: store.NewMemoryKV()}, nil

	case config.BackendFile:
		fs, err := filestore.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info("file backend ready", logger.String("dir", cfg.DataDir))
		return &storage{kv: fs}, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return &storage{kv: redisstore.NewStore(client), redisClient: client}, nil

	case config.BackendPostgres:
		db, err := pgstore.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		kv := pgstore.NewStore(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("postgres backend ready")
		return &storage{kv: kv, pg: db}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (s *storage) close(log logger.Logger) {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Warnf("failed to close redis: %v", err)
		} else {
			log.Info("✅ Redis closed cleanly")
		}
	}
	if s.pg != nil {
		s.pg.Close()
		log.Info("✅ Postgres pool closed")
	}
}
