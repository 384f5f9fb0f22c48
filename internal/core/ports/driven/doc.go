// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ItemStore: Item and chunk persistence
//   - EmbeddingService: Generates vector embeddings for chunks and questions
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answers questions. Without it, query fails with a configuration error.
//   - Extractor: Converts URLs to text. Without it, URL ingestion fails with a configuration error.
//   - MetricsRecorder: Pipeline metrics. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
