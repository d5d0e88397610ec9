// Package web — HTTP-сервер и маршрутизация v1 API.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/thearchitector/zero-knowledge-poc/internal/config"
	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/group"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/health"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/item"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/sharing"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/user"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	log  *log.Logger
	http *http.Server
}

func New(logger *log.Logger, cfg *config.Config, rep Repos, cache domain.Cache, db pinger) *Server {
	hh := health.New(logger, db, cache)
	uh := user.New(logger, rep.Users, cache, cfg.CacheTTLSeconds)
	gh := group.New(logger, rep.Groups)
	ih := item.New(logger, rep.Items, cache, cfg.CacheTTLSeconds, cfg.ViewChunkBytes)
	sh := sharing.New(logger, rep.Sharings)

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(hh, uh, gh, ih, sh, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		// WriteTimeout не ставим: отдача контента потоковая и может
		// занимать дольше любого разумного фиксированного лимита
		IdleTimeout: 120 * time.Second,
	}

	return &Server{log: logger, http: srv}
}

// Run блокируется до ошибки листенера
func (s *Server) Run() error {
	s.log.Printf("lvl=info msg=%q addr=%s", "http server started", s.http.Addr)
	err := s.http.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler отдаёт корневой http.Handler (используется в httptest)
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
