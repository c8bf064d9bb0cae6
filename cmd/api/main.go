package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	delivery "chainstore/internal/adapter/delivery/http"
	handler "chainstore/internal/adapter/handler/http"
	"chainstore/internal/app"
	"chainstore/internal/config"
	"chainstore/internal/logger"
)

func main() {
	cfgPath := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", *cfgPath, err)
	}

	// --- Logger ---
	zl, err := logger.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("Logger initialized", zap.Any("config", cfg.Logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	zl.Info("Initializing dependencies...", zap.String("storage", cfg.Storage.Backend))
	a, err := app.New(ctx, *cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize chain store", zap.Error(err))
	}
	defer a.Close()

	chainHandler := handler.NewChainHandler(a.Service, zl)

	// --- HTTP Router & Server ---
	r := router.New()
	delivery.RegisterRoutes(r, chainHandler, zl)

	server := &fasthttp.Server{
		Handler: delivery.LoggingMiddleware(r.Handler, zl),
		Name:    cfg.App.Name,
	}

	go func() {
		<-ctx.Done()
		zl.Info("Shutting down HTTP server")
		if err := server.Shutdown(); err != nil {
			zl.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	serverAddr := ":" + cfg.Server.Port
	zl.Info("Starting HTTP server", zap.String("address", serverAddr))
	if err := server.ListenAndServe(serverAddr); err != nil {
		zl.Error("HTTP server stopped", zap.Error(err))
	}
}
