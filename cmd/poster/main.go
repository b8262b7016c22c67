package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"deal_poster/internal/config"
	"deal_poster/internal/currency"
	"deal_poster/internal/events"
	"deal_poster/internal/fetch"
	"deal_poster/internal/publisher"
	"deal_poster/internal/review"
	"deal_poster/internal/scheduler"
	"deal_poster/internal/service"
	"deal_poster/internal/source/epicfree"
	"deal_poster/internal/source/epicsales"
	"deal_poster/internal/source/gog"
	"deal_poster/internal/source/steam"
	"deal_poster/internal/source/steamsearch"
	"deal_poster/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// The Telegram constructor authenticates the bot, so a bad token
	// aborts here, before any storefront is touched.
	tg, err := publisher.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Error("failed to set up telegram publisher", "error", err)
		os.Exit(1)
	}

	var emitter service.EventEmitter
	if cfg.Events.URL != "" {
		em, err := events.NewEmitter(events.Config{
			URL:        cfg.Events.URL,
			Exchange:   cfg.Events.Exchange,
			RoutingKey: cfg.Events.RoutingKey,
			QueueName:  cfg.Events.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer em.Close()
		emitter = em
	}

	postStore := postgres.NewPostStore(db)

	reviewClient := review.NewClient(review.Config{
		BaseURL: cfg.Sources.Steam.BaseURL,
		Timeout: cfg.Sources.Steam.Timeout,
	}, logger)

	sources := buildSources(cfg, reviewClient, logger)

	converter := currency.New(currency.Config{
		BaseURL:      cfg.Currency.BaseURL,
		FallbackRate: cfg.Currency.FallbackRate,
		Timeout:      cfg.Currency.Timeout,
	}, logger)

	images := fetch.NewImageClient(cfg.Sources.Steam.Timeout)

	pipeline := service.New(
		sources,
		postStore,
		tg,
		images,
		converter,
		emitter,
		logger,
		cfg.Pipeline,
	)

	sched := scheduler.NewScheduler(pipeline, cfg.Schedule.Interval, cfg.Pipeline.RunTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting deal poster",
		"sources", len(sources),
		"interval", cfg.Schedule.Interval,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

// buildSources assembles the adapters in the pipeline's fixed fold order:
// Steam, Epic free, Epic sales, GOG, then the optional HTML fallback.
func buildSources(cfg *config.Config, reviews *review.Client, logger *slog.Logger) []service.Source {
	sources := []service.Source{
		steam.New(steam.Config{
			BaseURL:        cfg.Sources.Steam.BaseURL,
			Country:        cfg.Sources.Steam.Country,
			MinDiscount:    cfg.Sources.Steam.MinDiscount,
			Timeout:        cfg.Sources.Steam.Timeout,
			MaxAttempts:    cfg.Sources.Steam.Retry.MaxAttempts,
			InitialBackoff: cfg.Sources.Steam.Retry.InitialBackoff,
			MaxBackoff:     cfg.Sources.Steam.Retry.MaxBackoff,
		}, logger),
		epicfree.New(epicfree.Config{
			BaseURL:             cfg.Sources.EpicFree.BaseURL,
			Locale:              cfg.Sources.EpicFree.Locale,
			Country:             cfg.Sources.EpicFree.Country,
			Timeout:             cfg.Sources.EpicFree.Timeout,
			GiveawayReviewScore: cfg.Pipeline.GiveawayReviewScore,
		}, logger),
		epicsales.New(epicsales.Config{
			BaseURL:     cfg.Sources.EpicSales.BaseURL,
			StoreID:     cfg.Sources.EpicSales.StoreID,
			MinDiscount: cfg.Sources.EpicSales.MinDiscount,
			MinReviews:  cfg.Sources.EpicSales.MinReviews,
			PageSize:    cfg.Sources.EpicSales.PageSize,
			Timeout:     cfg.Sources.EpicSales.Timeout,
		}, reviews, logger),
		gog.New(gog.Config{
			BaseURL:     cfg.Sources.GOG.BaseURL,
			MinDiscount: cfg.Sources.GOG.MinDiscount,
			MinReviews:  cfg.Sources.GOG.MinReviews,
			Limit:       cfg.Sources.GOG.Limit,
			Timeout:     cfg.Sources.GOG.Timeout,
		}, logger),
	}

	if cfg.Sources.SteamSearch.Enabled {
		sources = append(sources, steamsearch.New(steamsearch.Config{
			BaseURL:     cfg.Sources.SteamSearch.BaseURL,
			MinDiscount: cfg.Sources.SteamSearch.MinDiscount,
			Timeout:     cfg.Sources.SteamSearch.Timeout,
		}, logger))
	}

	return sources
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
