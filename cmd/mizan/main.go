package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/api"
	"github.com/Kerhoff/mizan/internal/auth"
	"github.com/Kerhoff/mizan/internal/config"
	"github.com/Kerhoff/mizan/internal/handlers"
	"github.com/Kerhoff/mizan/internal/llm"
	"github.com/Kerhoff/mizan/internal/metrics"
	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/repository/postgres"
	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
	"github.com/Kerhoff/mizan/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting Mizan...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := config.NewDatabase(ctx, cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Service layer
	llmClient := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel)
	if !llmClient.Configured() {
		l.Warn("LLM_API_URL not set, suggestions will use catalog sampling")
	}

	svc := service.New(db.DB, l, service.Repositories{
		Users:       postgres.NewUserRepository(db.DB),
		Ingredients: postgres.NewIngredientRepository(db.DB),
		Recipes:     postgres.NewRecipeRepository(db.DB),
		Meals:       postgres.NewMealRepository(db.DB),
		Plans:       postgres.NewMealPlanRepository(db.DB),
		Goals:       postgres.NewGoalRepository(db.DB),
		Suggestions: postgres.NewSuggestionRepository(db.DB),
	}, service.Options{
		Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Suggester: llmClient,
		WeekStart: cfg.WeekStart,
	})

	// Telegram bot
	if cfg.TelegramToken != "" {
		startBot(ctx, cfg, svc, l)
	} else {
		l.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	// HTTP API
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go serve(httpServer, "HTTP server", l)

	// Prometheus metrics
	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go serve(metricsServer, "Metrics server", l)

	l.Info("Mizan started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for name, srv := range map[string]*http.Server{"HTTP server": httpServer, "Metrics server": metricsServer} {
		l.Infof("Shutting down %s...", name)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Errorf("%s shutdown error: %v", name, err)
		}
	}

	l.Info("Mizan stopped")
}

func serve(srv *http.Server, name string, l *logrus.Logger) {
	l.Infof("%s listening on %s", name, srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Errorf("%s error: %v", name, err)
	}
}

func startBot(ctx context.Context, cfg *config.Config, svc *service.Service, l *logrus.Logger) {
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Register command handlers
	bot.RegisterCommand("start", handlers.NewStartHandler(l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))
	bot.RegisterCommand("link", handlers.NewLinkHandler(svc, l))

	// Planning handlers
	bot.RegisterCommand("plan", handlers.NewPlanHandler(svc, l))
	bot.RegisterCommand("shopping", handlers.NewShoppingHandler(svc, l))
	bot.RegisterCommand("goal", handlers.NewGoalHandler(svc, l))
	bot.RegisterCommand("suggest", handlers.NewSuggestHandler(svc, l))

	// Daily plan digest
	if cfg.DigestHour >= 0 {
		go svc.StartDigestScheduler(ctx, cfg.DigestHour, func(chatID int64, plan *models.MealPlan) {
			if err := bot.SendMessage(chatID, handlers.FormatDigest(plan)); err != nil {
				l.Errorf("Failed to send digest to chat %d: %v", chatID, err)
			}
		})
	}

	// Start Telegram bot polling
	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()
}
