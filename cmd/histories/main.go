package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-medicalbackend/config"
	"golang-medicalbackend/database"
	"golang-medicalbackend/logger"
	"golang-medicalbackend/routes"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(8000)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init("histories", cfg.Log.Env, cfg.Log.Level)
	if cfg.Log.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := database.NewManager(cfg.Mongo, database.WithLogger(log.Logger))
	if state := manager.Connect(ctx); state != database.Connected {
		if ctx.Err() != nil {
			log.Info().Msg("interrupted while connecting, exiting")
			return
		}
		log.Warn().Err(manager.LastError()).Msg("serving without a database, storage requests will return 503")
	}

	router := routes.NewEngine(cfg.CORS.AllowedOrigins, log.Logger)
	routes.HistoryRoutes(router.Group("/"), database.NewHistoryStore(manager), manager)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("histories service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	if err := manager.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error closing MongoDB connection")
	}

	log.Info().Msg("histories service stopped")
}
