package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = time.Minute

type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	val, found := s.cache.Get(key)
	if !found {
		return nil, ErrCacheMiss
	}
	b, ok := val.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.cache.Flush()
	return nil
}
