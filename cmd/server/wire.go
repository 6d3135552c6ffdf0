//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chathub/internal/config"
	"chathub/internal/domain/chat"
	"chathub/internal/domain/conversation"
	"chathub/internal/domain/enrichment"
	"chathub/internal/domain/llm"
	"chathub/internal/domain/sessions"
	"chathub/internal/domain/space"
	"chathub/internal/infrastructure/database"
	"chathub/internal/infrastructure/events"
	"chathub/internal/infrastructure/llmprovider"
	"chathub/internal/infrastructure/logger"
	conversationrepo "chathub/internal/infrastructure/repository/conversation"
	spacerepo "chathub/internal/infrastructure/repository/space"
	"chathub/internal/interfaces/httpserver"
	"chathub/internal/interfaces/httpserver/handlers"
	"chathub/internal/webhook"
)

var chatSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	conversationrepo.NewMessageRepository,
	wire.Bind(new(conversation.MessageRepository), new(*conversationrepo.MessageRepository)),
	spacerepo.NewRepository,
	wire.Bind(new(space.Repository), new(*spacerepo.Repository)),
	conversation.NewService,
	wire.Bind(new(chat.ConversationStore), new(*conversation.Service)),
	space.NewService,
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newCompleter,
	wire.Bind(new(chat.Completer), new(*llmprovider.Completer)),
	newEnricher,
	wire.Bind(new(chat.Enricher), new(*enrichment.Service)),
	events.NewBus,
	events.NewNotifier,
	wire.Bind(new(chat.Notifier), new(*events.Notifier)),
	newWebhookService,
	wire.Bind(new(webhook.Service), new(*webhook.HTTPService)),
	newSessionManager,
	handlers.NewProvider,
)

// BuildApplication assembles the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		chatSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.ProviderBaseURL, cfg.ProviderAPIKey, cfg.StreamTimeout)
}

func newCompleter(cfg *config.Config, provider llm.Provider, log zerolog.Logger) *llmprovider.Completer {
	return llmprovider.NewCompleter(provider, cfg.DefaultModel, log)
}

func newEnricher(cfg *config.Config, provider llm.Provider, log zerolog.Logger) *enrichment.Service {
	return enrichment.NewService(provider, cfg.EnrichmentModel, cfg.TitleMaxLength, log)
}

func newWebhookService(cfg *config.Config, log zerolog.Logger) *webhook.HTTPService {
	return webhook.NewHTTPService(cfg.WebhookURL, log)
}

func newSessionManager(
	cfg *config.Config,
	conversations *conversation.Service,
	spaces *space.Service,
	completer chat.Completer,
	enricher chat.Enricher,
	notifier chat.Notifier,
	log zerolog.Logger,
) *sessions.Manager {
	return sessions.NewManager(conversations, spaces, completer, enricher, notifier, cfg.DefaultModel, cfg.MaxContextSize, log)
}
