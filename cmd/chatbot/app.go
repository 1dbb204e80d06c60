package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/m2tx/session_chat/assets"
	"github.com/m2tx/session_chat/internal/chat"
	"github.com/m2tx/session_chat/internal/config"
	"github.com/m2tx/session_chat/internal/history"
	"github.com/m2tx/session_chat/internal/llm"
	"github.com/m2tx/session_chat/internal/prompt"
	"github.com/m2tx/session_chat/internal/provider"
	"github.com/m2tx/session_chat/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// app holds what a command needs; close releases it in reverse order.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *history.Store
	pipeline *chat.Pipeline
	closers  []func(context.Context) error
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return cfg, logger, nil
}

// newStoreApp builds an app with a session store but no model client.
func newStoreApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

// newApp builds the full conversation pipeline.
func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	p, err := prompt.Resolve(cfg.SystemPrompt, cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	if p.Model != "" && !rootCmd.PersistentFlags().Changed("model") {
		cfg.Model = p.Model
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	systemInstruction := p.System
	if systemInstruction == "" {
		systemInstruction = assets.SystemInstruction
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	completer, err := provider.New(ctx, cfg.Provider(), apiKey)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	a.pipeline = newPipeline(a.store, completer, cfg, systemInstruction, logger)

	logger.Debug("pipeline ready",
		slog.String("provider", cfg.Provider()),
		slog.String("model", cfg.ModelName()),
		slog.String("history_backend", cfg.HistoryBackend),
	)

	return a, nil
}

func newPipeline(store *history.Store, completer llm.Completer, cfg *config.Config, systemInstruction string, logger *slog.Logger) *chat.Pipeline {
	return chat.New(store, completer, cfg.ModelName(), systemInstruction,
		chat.WithTimeout(cfg.RequestTimeout),
		chat.WithLogger(logger),
	)
}

func (a *app) openStore(ctx context.Context) error {
	if a.cfg.HistoryBackend != config.BackendMongoDB {
		a.store = history.NewMemoryStore()
		return nil
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(a.cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("mongodb connect: %w", err)
	}
	a.closers = append(a.closers, mongoClient.Disconnect)

	if err := mongoClient.Ping(ctx, nil); err != nil {
		a.close(ctx)
		return fmt.Errorf("mongodb ping %s: %w", a.cfg.MongoURI, err)
	}

	database := mongoClient.Database(a.cfg.MongoDB)
	repo := repository.NewMongoSessionRepository(database, a.cfg.MongoCollection)
	a.store = history.NewStore(repo)

	return nil
}

func (a *app) close(ctx context.Context) {
	if a.store != nil {
		a.store.Close()
	}

	// the command context may already be cancelled; disconnect regardless
	ctx = context.WithoutCancel(ctx)
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("close", slog.Any("error", err))
		}
	}
	a.closers = nil
}
