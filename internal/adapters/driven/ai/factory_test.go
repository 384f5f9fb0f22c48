package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		wantModel   string
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name:      "jina without key creates service",
			settings:  &domain.EmbeddingSettings{Provider: domain.AIProviderJina},
			wantModel: "jina-embeddings-v3",
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
			wantModel: "text-embedding-3-small",
		},
		{
			name:     "openai without key is unconfigured",
			settings: &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI},
			wantNil:  true,
		},
		{
			name:        "groq provider returns error",
			settings:    &domain.EmbeddingSettings{Provider: domain.AIProviderGroq, APIKey: "gsk"},
			wantErr:     true,
			errContains: "does not provide embeddings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings, Options{DisableRateLimit: true})

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{name: "nil settings", settings: nil, wantNil: true},
		{name: "groq without key", settings: &domain.LLMSettings{Provider: domain.AIProviderGroq}, wantNil: true},
		{
			name:      "groq with key",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderGroq, APIKey: "gsk"},
			wantModel: "llama-3.3-70b-versatile",
		},
		{
			name:      "openai defaults model",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:     "jina cannot chat",
			settings: &domain.LLMSettings{Provider: domain.AIProviderJina, APIKey: "k"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings, Options{})

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateExtractor(t *testing.T) {
	assert.NotNil(t, CreateExtractor(nil, Options{}))
	assert.NotNil(t, CreateExtractor(&domain.ExtractorSettings{ReaderURL: "http://reader.local/"}, Options{}))
}

func TestInit_DefaultsWithoutLLMKey(t *testing.T) {
	settings := domain.DefaultAppSettings()

	result, err := Init(&settings, Options{DisableRateLimit: true})

	require.NoError(t, err)
	defer result.Close()
	assert.NotNil(t, result.EmbeddingService)
	assert.NotNil(t, result.Extractor)
	assert.Nil(t, result.LLMService)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "groq")
}

func TestInit_WithLLMKey(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.LLM.APIKey = "gsk"

	result, err := Init(&settings, Options{})

	require.NoError(t, err)
	assert.NotNil(t, result.LLMService)
	assert.Empty(t, result.Warnings)
}

func TestInit_Errors(t *testing.T) {
	_, err := Init(nil, Options{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Provider = domain.AIProviderOpenAI
	_, err = Init(&settings, Options{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCheck_ReportsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	settings := domain.DefaultAppSettings()
	settings.Embedding.BaseURL = srv.URL
	settings.LLM.APIKey = "gsk"
	settings.LLM.BaseURL = srv.URL
	result, err := Init(&settings, Options{DisableRateLimit: true})
	require.NoError(t, err)
	defer result.Close()

	err = Check(context.Background(), result)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestValidateSettings(t *testing.T) {
	valid := domain.DefaultAppSettings()
	require.NoError(t, ValidateSettings(&valid))

	tests := []struct {
		name   string
		mutate func(s *domain.AppSettings)
		want   string
	}{
		{"bad embedding provider", func(s *domain.AppSettings) { s.Embedding.Provider = domain.AIProviderGroq }, "embedding.provider"},
		{"bad llm provider", func(s *domain.AppSettings) { s.LLM.Provider = "ollama" }, "llm.provider"},
		{"zero dimensions", func(s *domain.AppSettings) { s.Embedding.Dimensions = 0 }, "embedding.dimensions"},
		{"zero batch", func(s *domain.AppSettings) { s.Embedding.BatchSize = 0 }, "embedding.batch_size"},
		{"overlap too big", func(s *domain.AppSettings) { s.Ingest.ChunkOverlap = s.Ingest.ChunkSize }, "chunk_overlap"},
		{"zero chunk size", func(s *domain.AppSettings) { s.Ingest.ChunkSize = 0 }, "chunk_size"},
		{"zero max chunks", func(s *domain.AppSettings) { s.Ingest.MaxChunks = 0 }, "max_chunks"},
		{"negative min length", func(s *domain.AppSettings) { s.Ingest.MinLength = -1 }, "min_length"},
		{"zero top k", func(s *domain.AppSettings) { s.Query.TopK = 0 }, "top_k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultAppSettings()
			tt.mutate(&s)

			err := ValidateSettings(&s)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.Error(t, ValidateSettings(nil))
}
