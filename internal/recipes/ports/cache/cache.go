// Package cache описывает порт кэша.
package cache

import (
	"context"
	"time"
)

// Cache - хранилище строковых значений с временем жизни.
// Get возвращает пустую строку без ошибки, если ключа нет.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
