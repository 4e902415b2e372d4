// Package cache holds rendered pages for a short time. Backends are an
// in-process go-cache map and Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Shkitskiy94/hw05-final/config"

	log "github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}

var defaultStore Store

// Init picks Redis when REDIS_URL is configured, memory otherwise.
func Init() error {
	if config.REDIS_URL == "" {
		defaultStore = NewMemoryStore()
		log.Info("Using in-memory page cache")
		return nil
	}
	store, err := NewRedisStore(config.REDIS_URL, "yatube:")
	if err != nil {
		return err
	}
	defaultStore = store
	log.Info("Using Redis page cache")
	return nil
}

func Default() Store {
	if defaultStore == nil {
		defaultStore = NewMemoryStore()
	}
	return defaultStore
}
