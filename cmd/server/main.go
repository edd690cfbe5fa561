package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitwise/fitness-client/internal/api"
	"fitwise/fitness-client/internal/app"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/logger"

	"github.com/gin-gonic/gin"
)

// @title FitWise Client API
// @version 1.0
// @description Local API of the FitWise client core: session, authorization gate, DB manager cache and backend relay.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Default().Error("Could not load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	logger.SetDefault(log)
	log.Info("Starting FitWise client server...", "storage", cfg.Storage.Driver, "backend", cfg.Remote.BaseURL)

	// --- Core ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	core, err := app.New(startCtx, cfg, log)
	cancelStart()
	if err != nil {
		log.Error("Could not initialize core", "err", err)
		os.Exit(1)
	}
	defer func() {
		log.Info("Closing storage...")
		if err := core.Close(); err != nil {
			log.Error("Failed to close storage", "err", err)
		}
	}()
	if notice := core.DBManager.Notice(); notice != "" {
		log.Info(notice)
	}

	// --- Initialize Gin Engine ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))

	// --- Setup Routes ---
	api.SetupRoutes(router, core.Auth, core.Member, core.Admin, core.DBManager)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // Plan generation can be slow
		IdleTimeout:  120 * time.Second,
	}

	log.Info("Server starting", "addr", cfg.Server.Address)

	// --- Graceful Shutdown ---
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("ListenAndServe failed", "err", err)
		return
	}
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "err", err)
	}

	log.Info("Server exiting.")
}
