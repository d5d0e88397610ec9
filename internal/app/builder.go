// Package app — сборка зависимостей и жизненный цикл сервиса.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/thearchitector/zero-knowledge-poc/internal/config"
	redisx "github.com/thearchitector/zero-knowledge-poc/internal/infra/cache/redis"
	"github.com/thearchitector/zero-knowledge-poc/internal/infra/database/postgres"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web"
)

type App struct {
	log    *log.Logger
	server *web.Server
	repo   *postgres.PGRepo
	cache  *redisx.Cache
}

// Build собирает граф зависимостей: конфиг -> postgres (+миграции) ->
// bootstrap World-группы -> redis -> http-сервер.
func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)
	cfgLog := log.New(os.Stdout, "[app][config] ", log.LstdFlags)
	pgLog := log.New(os.Stdout, "[app][postgres] ", log.LstdFlags)
	redisLog := log.New(os.Stdout, "[app][redis] ", log.LstdFlags)
	webLog := log.New(os.Stdout, "[app][web] ", log.LstdFlags)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfgLog.Printf("config loaded:%s", cfg)

	repo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme, cfg.ViewChunkBytes)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	// World-группа обязана существовать до приёма трафика
	if err := repo.EnsureWorldGroup(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensure world group: %w", err)
	}

	cache := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := cache.Ping(ctx); err != nil {
		cache.Close()
		repo.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	rep := web.Repos{Users: repo, Groups: repo, Items: repo, Sharings: repo}
	server := web.New(webLog, cfg, rep, cache, repo)

	return &App{log: base, server: server, repo: repo, cache: cache}, nil
}

// Run блокируется до отмены контекста или ошибки сервера
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.server.Run() }()

	select {
	case <-ctx.Done():
		a.log.Println("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			a.close()
			return fmt.Errorf("http server: %w", err)
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shCtx); err != nil {
		a.log.Printf("server shutdown error: %v", err)
	}

	a.close()
	a.log.Println("stopped")
	return nil
}

func (a *App) close() {
	a.cache.Close()
	a.repo.Close()
}
