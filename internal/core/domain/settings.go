package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderJina is the Jina AI cloud API (embeddings and reader).
	AIProviderJina AIProvider = "jina"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible chat).
	AIProviderGroq AIProvider = "groq"

	// AIProviderOpenAI is OpenAI cloud API, or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderJina, AIProviderGroq, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
// Jina accepts anonymous requests at a lower rate limit.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGroq || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderJina:
		return "Jina AI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Dimensions is the vector length requested from the provider.
	Dimensions int

	// BatchSize is the maximum number of texts per provider call.
	BatchSize int

	// Timeout bounds each provider call.
	Timeout time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Timeout bounds each completion.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderJina {
		return false
	}
	return l.APIKey != ""
}

// ExtractorSettings configures URL-to-text extraction.
type ExtractorSettings struct {
	// ReaderURL is the prefix of the reader service; the target URL is appended.
	ReaderURL string

	// APIKey is sent to the reader service when set.
	APIKey string

	// Timeout bounds each fetch.
	Timeout time.Duration
}

// IngestSettings controls chunking and ingestion limits.
type IngestSettings struct {
	// ChunkSize is the window length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by consecutive windows.
	ChunkOverlap int

	// MaxChunks caps the chunks kept per item. Extra chunks are dropped.
	MaxChunks int

	// MinLength is the minimum trimmed content length in characters.
	MinLength int
}

// QuerySettings controls retrieval.
type QuerySettings struct {
	// TopK is the number of chunks passed to the LLM as context.
	TopK int
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	// Listen is the address the HTTP server binds to.
	Listen string
}

// AdminSettings configures privileged operations.
type AdminSettings struct {
	// APIKey gates the reset operation. Empty disables reset.
	APIKey string
}

// AppSettings holds all configurable application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Extractor ExtractorSettings
	Ingest    IngestSettings
	Query     QuerySettings
	Server    ServerSettings
	Admin     AdminSettings
}

// Defaults.
const (
	DefaultChunkSize        = 800
	DefaultChunkOverlap     = 100
	DefaultMaxChunks        = 100
	DefaultMinContentLength = 10
	DefaultTopK             = 10
	DefaultEmbeddingBatch   = 100
	DefaultDimensions       = 768
	DefaultListen           = ":8000"
	DefaultReaderURL        = "https://r.jina.ai/"
	DefaultEmbeddingTimeout = 30 * time.Second
	DefaultExtractorTimeout = 30 * time.Second
	DefaultLLMTimeout       = 60 * time.Second
)

// DefaultAppSettings returns settings matching the hosted defaults:
// Jina embeddings and reader, Groq for answers. API keys are left empty.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderJina,
			Model:      DefaultEmbeddingModels()[AIProviderJina],
			Dimensions: DefaultDimensions,
			BatchSize:  DefaultEmbeddingBatch,
			Timeout:    DefaultEmbeddingTimeout,
		},
		LLM: LLMSettings{
			Provider: AIProviderGroq,
			Model:    DefaultLLMModels()[AIProviderGroq],
			Timeout:  DefaultLLMTimeout,
		},
		Extractor: ExtractorSettings{
			ReaderURL: DefaultReaderURL,
			Timeout:   DefaultExtractorTimeout,
		},
		Ingest: IngestSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			MaxChunks:    DefaultMaxChunks,
			MinLength:    DefaultMinContentLength,
		},
		Query:  QuerySettings{TopK: DefaultTopK},
		Server: ServerSettings{Listen: DefaultListen},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderJina, AIProviderOpenAI}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderGroq, AIProviderOpenAI}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderJina:   "jina-embeddings-v3",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:   "llama-3.3-70b-versatile",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}
