package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talentscout/screener/internal/classify"
	"github.com/talentscout/screener/internal/config"
	"github.com/talentscout/screener/internal/fieldcipher"
	"github.com/talentscout/screener/internal/gemini"
	"github.com/talentscout/screener/internal/httpapi"
	"github.com/talentscout/screener/internal/observability"
	"github.com/talentscout/screener/internal/records"
	"github.com/talentscout/screener/internal/screening"
	"github.com/talentscout/screener/internal/secrets"
)

type BuildResult struct {
	Config     config.Config
	API        *httpapi.Server
	Sessions   *screening.Manager
	Controller *screening.Controller
	Store      records.Store
	Metrics    *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	key, err := secrets.Load(cfg.EncryptionKeyPath)
	if err != nil {
		return nil, fmt.Errorf("encryption key init failed: %w", err)
	}
	cipher, err := fieldcipher.New(key)
	if err != nil {
		return nil, fmt.Errorf("field cipher init failed: %w", err)
	}

	store, err := records.NewStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("record store init failed: %w", err)
	}

	completer, err := gemini.New(ctx, gemini.Config{
		Mode:        cfg.CompleterMode,
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		MaxAttempts: cfg.CompletionMaxAttempts,
		BackoffBase: cfg.CompletionBackoffBase,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("completer init failed: %w", err)
	}

	classifier, err := classify.New(classify.Config{
		Mode:           cfg.ClassifierMode,
		InferenceURL:   cfg.InferenceURL,
		InferenceToken: cfg.InferenceToken,
		SentimentModel: cfg.SentimentModel,
		NERModel:       cfg.NERModel,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	controller := screening.NewController(completer, classifier, cipher, store, metrics, logger)

	sessions := screening.NewManager(screening.SystemPrompt(cfg.ScreeningDomain), cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *screening.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	api := httpapi.New(cfg, sessions, controller, store, metrics, logger)

	cleanup := func() error {
		var errs []string
		if err := store.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	}

	return &BuildResult{
		Config:     cfg,
		API:        api,
		Sessions:   sessions,
		Controller: controller,
		Store:      store,
		Metrics:    metrics,
		Cleanup:    cleanup,
	}, nil
}
