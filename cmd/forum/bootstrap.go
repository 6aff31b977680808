package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"lottery-forum/internal/core/cache"
	"lottery-forum/internal/core/config"
	"lottery-forum/internal/core/database"
	"lottery-forum/internal/session"
)

func openDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}
	return db, nil
}

// openCache returns nil when no redis address is configured.
func openCache(ctx context.Context, cfg config.Redis, l *zap.Logger) (*cache.Cache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	c := cache.New(cfg.Addr, cfg.Password, cfg.DB)
	c.Prefix = "forum:"
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	l.Info("redis connected", zap.String("addr", cfg.Addr))
	return c, nil
}

func buildSlots(cfg config.Session, c *cache.Cache, fallbackTTL time.Duration) (session.Slots, error) {
	switch cfg.Backend {
	case "", "memory":
		return session.NewMemorySlots(), nil
	case "file":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("session.dir is required for the file backend")
		}
		return session.FileSlots{Dir: cfg.Dir}, nil
	case "redis":
		if c == nil {
			return nil, fmt.Errorf("session backend redis needs redis.addr")
		}
		ttl := time.Duration(cfg.TTLMin) * time.Minute
		if ttl <= 0 {
			ttl = fallbackTTL
		}
		return session.RedisSlots{Cache: c, TTL: ttl}, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// humanURL turns a listen address into something clickable in the logs.
func humanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}
