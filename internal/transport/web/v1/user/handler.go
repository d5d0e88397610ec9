// Package user — регистрация и выборка пользователей.
// Ключи шифрования приходят уже завёрнутыми на клиенте,
// сервер их только хранит и раздаёт.
package user

import (
	"log"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

type Handler struct {
	Log   *log.Logger
	Users domain.UsersRepo
	Cache domain.Cache
	TTL   int // секунды жизни кеша "пользователь по email"
}

func New(l *log.Logger, users domain.UsersRepo, cache domain.Cache, ttl int) *Handler {
	return &Handler{Log: l, Users: users, Cache: cache, TTL: ttl}
}
