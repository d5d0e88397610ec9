// Package item — загрузка, метаданные и потоковая отдача шифртекста.
// Контент сервер не расшифровывает: принимает и отдаёт байты как есть.
package item

import (
	"log"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

// maxUploadBytes — потолок multipart-формы при загрузке/обновлении
const maxUploadBytes = 64 << 20

type Handler struct {
	Log       *log.Logger
	Items     domain.ItemsRepo
	Cache     domain.Cache
	TTL       int // секунды жизни кеша меты айтема
	ViewChunk int // размер буфера при потоковой отдаче
}

func New(l *log.Logger, items domain.ItemsRepo, cache domain.Cache, ttl, viewChunk int) *Handler {
	if viewChunk <= 0 {
		viewChunk = 64 << 10
	}
	return &Handler{Log: l, Items: items, Cache: cache, TTL: ttl, ViewChunk: viewChunk}
}
