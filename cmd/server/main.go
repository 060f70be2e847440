package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/caption"
	"github.com/memelabs/meme-market/internal/config"
	"github.com/memelabs/meme-market/internal/database"
	"github.com/memelabs/meme-market/internal/handlers"
	"github.com/memelabs/meme-market/internal/service"
	"github.com/memelabs/meme-market/internal/websocket"
)

func main() {
	zlog, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	cfg := config.Load()
	logger.Infow("starting meme market", "addr", cfg.ServerAddr)

	// Record store.
	store, err := database.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer store.Close()

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.InitSchema(initCtx); err != nil {
		cancel()
		logger.Fatalw("failed to initialize schema", "error", err)
	}
	cancel()

	// Caption generator. Without an API key every meme gets fallback text.
	var gen caption.Generator
	if cfg.LLMAPIKey == "" {
		logger.Infow("caption generation disabled, using fallback text")
		gen = caption.Disabled()
	} else {
		llm, err := caption.NewLLMGenerator(context.Background(), caption.Config{
			Provider: cfg.LLMProvider,
			APIKey:   cfg.LLMAPIKey,
			BaseURL:  cfg.LLMBaseURL,
			Model:    cfg.LLMModel,
		})
		if err != nil {
			logger.Fatalw("failed to create caption generator", "error", err)
		}
		gen = llm
		logger.Infow("caption generation enabled", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
	}

	// One hub per process; every publisher shares it.
	hub := websocket.NewHub(logger)
	go hub.Run()

	memeSvc := service.NewMemeService(store, gen, logger)
	voteSvc := service.NewVotingService(store, hub, logger)
	bidSvc := service.NewBiddingService(store, hub, logger)

	wsHandler := websocket.NewHandler(hub, cfg.AllowedOrigins, logger)
	handler := handlers.NewHandler(memeSvc, voteSvc, bidSvc, wsHandler, logger)
	router := handler.SetupRoutes(cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infow("listening", "addr", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("forced shutdown", "error", err)
	}

	logger.Infow("stopped")
}
