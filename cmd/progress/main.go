package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang-medicalbackend/config"
	"golang-medicalbackend/database"
	"golang-medicalbackend/logger"
	"golang-medicalbackend/retry"
	"golang-medicalbackend/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("progress service failed")
	}
}

// run returns only after every resource it opened has been released.
func run() error {
	cfg, err := config.Load(5000)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init("progress", cfg.Log.Env, cfg.Log.Level)
	if cfg.Log.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := database.OpenPostgres(ctx, &cfg.Database, retry.Fixed(5, 5*time.Second), log.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := pg.Close(); err != nil {
			log.Error().Err(err).Msg("error closing PostgreSQL pool")
		}
	}()

	if err := pg.EnsureProgressTable(ctx); err != nil {
		return err
	}

	router := routes.NewEngine(cfg.CORS.AllowedOrigins, log.Logger)
	routes.ProgressRoutes(router.Group("/api"), database.NewProgressStore(pg), pg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("progress service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("progress service stopped")
	return nil
}
