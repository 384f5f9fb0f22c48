// Package app wires configuration, adapters and services into a running
// application. Driving adapters receive the assembled services from here.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/recall/internal/adapters/driven/ai"
	"github.com/custodia-labs/recall/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recall/internal/adapters/driven/metrics"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recall/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/services"
	"github.com/custodia-labs/recall/internal/logger"
	"github.com/custodia-labs/recall/internal/normalisers"
)

// Options controls where state lives and how much is wired.
type Options struct {
	// ConfigDir holds config.toml and prompts/ (default: ~/.recall).
	ConfigDir string

	// DataDir holds the database (default: <ConfigDir>/data).
	DataDir string

	// Ephemeral keeps items in memory only.
	Ephemeral bool

	// SettingsOnly wires the settings service and nothing else, so the
	// settings commands work even when the AI configuration is broken.
	SettingsOnly bool

	// LookupEnv reads environment overrides (default: os.LookupEnv).
	LookupEnv func(string) (string, bool)

	// DisableRateLimit turns provider throttling off.
	DisableRateLimit bool
}

// App holds the wired services.
type App struct {
	Settings        *domain.AppSettings
	SettingsService *services.SettingsService
	IngestService   *services.IngestService
	QueryService    *services.QueryService
	ItemService     *services.ItemService
	AdminService    *services.AdminService
	Files           *normalisers.Registry
	Metrics         *metrics.Recorder
	ConfigPath      string
	Warnings        []string

	store driven.ItemStore
	ai    *ai.InitResult
}

// New builds the application from opts.
func New(opts Options) (*App, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	settingsService := services.NewSettingsService(configStore)
	if opts.LookupEnv != nil {
		settingsService.SetEnvLookup(opts.LookupEnv)
	}

	a := &App{
		SettingsService: settingsService,
		ConfigPath:      configStore.Path(),
	}
	if opts.SettingsOnly {
		return a, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if err := ai.ValidateSettings(settings); err != nil {
		return nil, err
	}
	a.Settings = settings

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	a.Metrics = metrics.New()
	a.ai, err = ai.Init(settings, ai.Options{
		Metrics:          a.Metrics,
		Prompts:          prompts,
		DisableRateLimit: opts.DisableRateLimit,
	})
	if err != nil {
		return nil, err
	}
	a.Warnings = append(a.Warnings, a.ai.Warnings...)
	for _, w := range a.ai.Warnings {
		logger.Warn("%s", w)
	}

	a.store, err = openStore(opts, configDir)
	if err != nil {
		a.ai.Close()
		return nil, err
	}

	ingest, err := services.NewIngestService(a.store, a.ai.EmbeddingService, a.ai.Extractor, settings.Ingest)
	if err != nil {
		a.Close()
		return nil, err
	}
	ingest.SetMetrics(a.Metrics)
	a.IngestService = ingest

	a.QueryService = services.NewQueryService(a.store, a.ai.EmbeddingService, a.ai.LLMService, settings.Query)
	a.QueryService.SetMetrics(a.Metrics)

	a.ItemService = services.NewItemService(a.store)
	a.AdminService = services.NewAdminService(a.store, settings.Admin.APIKey)
	a.Files = normalisers.Default()

	logger.Debug("embedding: %s (%s, %d dims)", settings.Embedding.Provider,
		a.ai.EmbeddingService.ModelName(), a.ai.EmbeddingService.Dimensions())
	if a.ai.LLMService != nil {
		logger.Debug("llm: %s (%s)", settings.LLM.Provider, a.ai.LLMService.ModelName())
	}

	return a, nil
}

func openStore(opts Options, configDir string) (driven.ItemStore, error) {
	if opts.Ephemeral {
		logger.Debug("storage: in-memory")
		return memory.NewItemStore(), nil
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", domain.ErrStorage, err)
	}
	logger.Debug("storage: %s", store.Path())
	return store, nil
}

// Check pings the embedding and LLM providers.
func (a *App) Check(ctx context.Context) error {
	if a.ai == nil {
		return fmt.Errorf("%w: AI services are not initialised", domain.ErrConfiguration)
	}
	return ai.Check(ctx, a.ai)
}

// Close releases every adapter.
func (a *App) Close() error {
	var errs []error
	if a.ai != nil {
		a.ai.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
