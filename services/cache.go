package services

import (
	"context"
	"time"
)

// Cache is the part of utils/cache.RedisCache the services rely on. A nil
// Cache disables caching and view de-duplication.
type Cache interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}
