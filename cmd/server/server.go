package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"chathub/internal/config"
	"chathub/internal/domain/conversation"
	"chathub/internal/domain/enrichment"
	"chathub/internal/domain/sessions"
	"chathub/internal/domain/space"
	"chathub/internal/infrastructure/database"
	"chathub/internal/infrastructure/events"
	"chathub/internal/infrastructure/llmprovider"
	"chathub/internal/infrastructure/logger"
	"chathub/internal/infrastructure/observability"
	conversationrepo "chathub/internal/infrastructure/repository/conversation"
	spacerepo "chathub/internal/infrastructure/repository/space"
	"chathub/internal/interfaces/httpserver"
	"chathub/internal/interfaces/httpserver/handlers"
	"chathub/internal/webhook"
)

type Application struct {
	httpServer *httpserver.HttpServer
	bus        *events.Bus
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, bus *events.Bus, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		bus:        bus,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	go func() {
		if err := a.bus.Run(ctx); err != nil {
			a.log.Error().Err(err).Msg("event bus stopped with error")
		}
	}()
	defer func() {
		if err := a.bus.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close event bus")
		}
	}()

	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	messageRepository := conversationrepo.NewMessageRepository(db)
	spaceRepository := spacerepo.NewRepository(db)

	conversationService := conversation.NewService(conversationRepository, messageRepository, log)
	spaceService := space.NewService(spaceRepository, log)

	llmClient := llmprovider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.StreamTimeout)
	completer := llmprovider.NewCompleter(llmClient, cfg.DefaultModel, log)
	enricher := enrichment.NewService(llmClient, cfg.EnrichmentModel, cfg.TitleMaxLength, log)

	bus, err := events.NewBus(log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize event bus")
	}
	notifier := events.NewNotifier(bus)

	webhookService := webhook.NewHTTPService(cfg.WebhookURL, log)
	webhook.Subscribe(bus, webhookService, log)

	sessionManager := sessions.NewManager(
		conversationService,
		spaceService,
		completer,
		enricher,
		notifier,
		cfg.DefaultModel,
		cfg.MaxContextSize,
		log,
	)

	handlerProvider := handlers.NewProvider(sessionManager, conversationService, spaceService, log)
	httpServer := httpserver.New(cfg, log, handlerProvider)
	app := NewApplication(httpServer, bus, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
