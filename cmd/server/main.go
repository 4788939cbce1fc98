package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"

	fixmateroot "github.com/fixmate/fixmate"
	"github.com/fixmate/fixmate/internal/alerts"
	"github.com/fixmate/fixmate/internal/auth"
	"github.com/fixmate/fixmate/internal/config"
	"github.com/fixmate/fixmate/internal/handler"
	"github.com/fixmate/fixmate/internal/repository"
	"github.com/fixmate/fixmate/internal/server"
	"github.com/fixmate/fixmate/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(fixmateroot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Stores
	profileStore := repository.NewProfileStore(pool)
	resultStore := repository.NewResultStore(pool)
	sessionStore := repository.NewSessionStore(pool)
	usageStore := repository.NewUsageStore(pool)

	// Completion provider
	var llm service.CompletionClient
	switch cfg.CompletionProvider {
	case "gemini":
		llm, err = service.NewGeminiClient(ctx, cfg.GeminiModel)
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
	default:
		llm = service.NewOpenRouterClient(cfg.OpenRouterKey, cfg.OpenRouterModel)
	}
	slog.Info("completion provider ready", "name", llm.Name())

	// Services
	usageService := service.NewUsageService(usageStore, cfg.PromptPrice, cfg.CompletionPrice)
	linkPreview := service.NewLinkPreviewService()
	diagnosisService := service.NewDiagnosisService(llm, sessionStore, resultStore, usageService, linkPreview)
	chatService := service.NewChatService(llm, sessionStore, usageService)
	userContextService := service.NewUserContextService(profileStore)

	// Ops alerts
	var alerter alerts.Notifier = alerts.Nop{}
	if cfg.AlertBotToken != "" && cfg.AlertChatID != 0 {
		b, err := bot.New(cfg.AlertBotToken)
		if err != nil {
			slog.Error("failed to create alert bot", "error", err)
		} else {
			alerter = alerts.NewTelegramNotifier(b, cfg.AlertChatID)
		}
	}

	// Handler and routes
	h := handler.New(handler.Deps{
		Diagnosis:   diagnosisService,
		Chat:        chatService,
		UserContext: userContextService,
		Results:     resultStore,
		Profiles:    profileStore,
		Alerter:     alerter,
	})
	verifier := auth.NewStaticVerifier(cfg.TokenMap())
	srv := server.New(cfg.ListenAddr, server.NewMux(h, verifier))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
