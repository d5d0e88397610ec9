package domain

import (
	"context"
	"strconv"
)

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeyUser(email string) string  { return "user:" + email }
func CacheKeyItemMeta(id ItemID) string { return "itemmeta:" + strconv.FormatInt(id, 10) }

// Простой k/v интерфейс. Реализация — Redis.
// Get возвращает (nil, nil) при промахе.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	Ping(context.Context) error
	Close()
}
