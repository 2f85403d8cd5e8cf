package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/ats-analyzer/internal/config"
	"alfredoptarigan/ats-analyzer/internal/handlers"
	"alfredoptarigan/ats-analyzer/internal/logger"
	"alfredoptarigan/ats-analyzer/internal/services"
)

// multipart framing and the job description field on top of the resume itself
const formOverhead = 1 << 20

func main() {
	// Load configuration
	cfg := config.Load()

	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	if err := cfg.Validate(); err != nil {
		l.Fatal("❌ Invalid configuration", zap.Error(err))
	}
	l.Info("✅ Config loaded successfully",
		zap.String("env", cfg.Server.Env),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("url_fetch_enabled", cfg.Features.URLFetchEnabled),
	)

	ctx := context.Background()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, l)
	if err != nil {
		l.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	l.Info("✅ Gemini AI initialized successfully")

	evaluatorService := services.NewEvaluatorService(geminiService, l)

	// Initialize Handlers
	routes := handlers.Routes{
		Page:    handlers.NewPageHandler(geminiService.Model(), cfg.Features.URLFetchEnabled, cfg.Storage.MaxFileSize),
		Analyze: handlers.NewAnalyzeHandler(evaluatorService, cfg.Storage.MaxFileSize),
		Model:   geminiService.Model(),
	}
	if cfg.Features.URLFetchEnabled {
		routes.Fetch = handlers.NewFetchHandler(services.NewJDFetcher(nil, l))
	}
	l.Info("✅ Handlers initialized")

	app := handlers.NewApp(handlers.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + formOverhead,
		AccessLog:    true,
	})
	handlers.Register(app, routes)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		l.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			l.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	l.Info("🚀 Server starting", zap.String("addr", addr))
	l.Info("📖 Open the analyzer", zap.String("url", "http://localhost"+addr))

	if err := app.Listen(addr); err != nil {
		l.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
