package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/auth"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/config"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/handler"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/logger"
	redisrepo "github.com/freeeve/polite-betrayal/adjudicator/internal/repository/redis"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/service"
	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("Config load failed")
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Dev: cfg.Dev})
	log.Info().
		Str("port", cfg.Port).
		Bool("cache", cfg.RedisURL != "").
		Bool("auth", !cfg.AuthDisabled).
		Int("batchWorkers", cfg.BatchWorkers).
		Msg("Config loaded")

	// Result cache (optional)
	var cache service.ResultCache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()

		rc, err := redisrepo.NewResultCache(redisClient, cfg.CacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Result cache setup failed")
		}
		defer rc.Close()
		cache = rc
	}

	// Auth
	var jwtMgr *auth.JWTManager
	if !cfg.AuthDisabled {
		jwtMgr = auth.NewJWTManager(cfg.JWTSecret)
	}

	// Services
	wsHub := handler.NewHub()
	svc := service.NewAdjudicationService(diplomacy.Vanilla(), cache, cfg.BatchWorkers)
	svc.SetBroadcaster(wsHub)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, svc, wsHub, jwtMgr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
