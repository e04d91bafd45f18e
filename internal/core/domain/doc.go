// Package domain defines the core business entities for corpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded window of normalised text, the unit of retrieval
//   - RetrievedChunk: A chunk joined with its query-time relevance score
//   - IndexManifest: The description of one built vector store generation
//   - ChatTurn: A single message in a retrieval-grounded conversation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
