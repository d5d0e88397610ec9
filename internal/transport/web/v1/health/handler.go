// Package health — liveness/readiness пробы.
package health

import (
	"context"
	"log"
	"net/http"

	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Pinger — то, что умеет ответить на пинг (БД, кеш)
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Log   *log.Logger
	DB    Pinger
	Cache Pinger
}

func New(l *log.Logger, db, cache Pinger) *Handler {
	return &Handler{Log: l, DB: db, Cache: cache}
}

// Liveness godoc
// @Summary  Процесс жив
// @Tags     health
// @Produce  json
// @Success  200 {object} domain.APIEnvelope
// @Router   /v1/healthz [get]
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	v1.WriteOKResponse(w, r, map[string]string{"status": "ok"})
}

// Readiness godoc
// @Summary  Зависимости доступны (postgres, redis)
// @Tags     health
// @Produce  json
// @Success  200 {object} domain.APIEnvelope
// @Failure  500 {object} domain.APIEnvelope
// @Router   /v1/readyz [get]
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.DB.Ping(ctx); err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			v1.WriteDomainError(w, r, err)
			return
		}
	}
	v1.WriteOKResponse(w, r, map[string]string{"status": "ready"})
}
