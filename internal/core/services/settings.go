package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedBatch      = "embedding.batch_size"
	keyEmbedTimeout    = "embedding.timeout_seconds"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTimeout      = "llm.timeout_seconds"
	keyReaderURL       = "extractor.reader_url"
	keyReaderAPIKey    = "extractor.api_key"
	keyReaderTimeout   = "extractor.timeout_seconds"
	keyChunkSize       = "ingest.chunk_size"
	keyChunkOverlap    = "ingest.chunk_overlap"
	keyMaxChunks       = "ingest.max_chunks"
	keyMinLength       = "ingest.min_length"
	keyTopK            = "query.top_k"
	keyServerListen    = "server.listen"
	keyAdminAPIKey     = "admin.api_key"
	envJinaAPIKey      = "JINA_API_KEY"
	envGroqAPIKey      = "GROQ_API_KEY"
	envOpenAIAPIKey    = "OPENAI_API_KEY"
	envAdminAPIKey     = "ADMIN_API_KEY"
	envListen          = "RECALL_LISTEN"
	secretKeySuffix    = "api_key"
	maskedSecretPrefix = 4
)

// intKeys are stored as integers; every other key is a string.
var intKeys = map[string]bool{
	keyEmbedDims:     true,
	keyEmbedBatch:    true,
	keyEmbedTimeout:  true,
	keyLLMTimeout:    true,
	keyReaderTimeout: true,
	keyChunkSize:     true,
	keyChunkOverlap:  true,
	keyMaxChunks:     true,
	keyMinLength:     true,
	keyTopK:          true,
}

var stringKeys = []string{
	keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
	keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
	keyReaderURL, keyReaderAPIKey, keyServerListen, keyAdminAPIKey,
}

// SettingsService reads settings from a config store and the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup. Used by tests.
func (s *SettingsService) SetEnvLookup(fn func(string) (string, bool)) {
	s.lookupEnv = fn
}

// Get retrieves current application settings.
// Environment variables take precedence over stored values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
			BatchSize:  s.getInt(keyEmbedBatch, defaults.Embedding.BatchSize),
			Timeout:    s.getSeconds(keyEmbedTimeout, defaults.Embedding.Timeout),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Extractor: domain.ExtractorSettings{
			ReaderURL: s.getString(keyReaderURL, defaults.Extractor.ReaderURL),
			APIKey:    s.configStore.GetString(keyReaderAPIKey),
			Timeout:   s.getSeconds(keyReaderTimeout, defaults.Extractor.Timeout),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Ingest.ChunkSize),
			ChunkOverlap: s.getIntAllowZero(keyChunkOverlap, defaults.Ingest.ChunkOverlap),
			MaxChunks:    s.getInt(keyMaxChunks, defaults.Ingest.MaxChunks),
			MinLength:    s.getIntAllowZero(keyMinLength, defaults.Ingest.MinLength),
		},
		Query: domain.QuerySettings{
			TopK: s.getInt(keyTopK, defaults.Query.TopK),
		},
		Server: domain.ServerSettings{
			Listen: s.getString(keyServerListen, defaults.Server.Listen),
		},
		Admin: domain.AdminSettings{
			APIKey: s.configStore.GetString(keyAdminAPIKey),
		},
	}

	s.applyEnv(settings)
	return settings, nil
}

func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if key, ok := s.env(envJinaAPIKey); ok {
		if settings.Embedding.Provider == domain.AIProviderJina {
			settings.Embedding.APIKey = key
		}
		settings.Extractor.APIKey = key
	}
	if key, ok := s.env(envGroqAPIKey); ok && settings.LLM.Provider == domain.AIProviderGroq {
		settings.LLM.APIKey = key
	}
	if key, ok := s.env(envOpenAIAPIKey); ok {
		if settings.Embedding.Provider == domain.AIProviderOpenAI {
			settings.Embedding.APIKey = key
		}
		if settings.LLM.Provider == domain.AIProviderOpenAI {
			settings.LLM.APIKey = key
		}
	}
	if key, ok := s.env(envAdminAPIKey); ok {
		settings.Admin.APIKey = key
	}
	if addr, ok := s.env(envListen); ok {
		settings.Server.Listen = addr
	}
}

func (s *SettingsService) env(name string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Set stores a single configuration key, converting integer keys.
func (s *SettingsService) Set(key, value string) error {
	if !s.known(key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrValidation, key)
	}

	var stored any = value
	if intKeys[key] {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, key)
		}
		stored = n
	}
	if key == keyEmbedProvider || key == keyLLMProvider {
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrValidation, value)
		}
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised configuration key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(stringKeys)+len(intKeys))
	keys = append(keys, stringKeys...)
	for k := range intKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// MaskSecret hides all but the first few characters of secret values.
func MaskSecret(key, value string) string {
	if !strings.HasSuffix(key, secretKeySuffix) || value == "" {
		return value
	}
	if len(value) <= maskedSecretPrefix {
		return strings.Repeat("*", len(value))
	}
	return value[:maskedSecretPrefix] + strings.Repeat("*", len(value)-maskedSecretPrefix)
}

func (s *SettingsService) known(key string) bool {
	if intKeys[key] {
		return true
	}
	for _, k := range stringKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero keeps an explicit 0 but falls back for missing keys.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	secs := s.configStore.GetInt(key)
	if secs <= 0 {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
