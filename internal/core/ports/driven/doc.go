// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - PageExtractor: Produces a plain-text stream per document page
//   - EmbeddingService: Turns text into dense vectors
//   - VectorIndex: Approximate nearest-neighbour structure
//   - ArtifactStore: Persists the metadata and manifest of a generation
//   - LLMService: Chat completion for the retrieval-grounded answerer
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
