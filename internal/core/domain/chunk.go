package domain

// Chunk is the atomic unit of retrieval: one contiguous window of
// normalised text extracted from one page of one source document.
// Chunks are created during ingestion and immutable thereafter; a
// rebuild replaces them wholesale.
type Chunk struct {
	// ID is globally unique across the corpus and deterministic for a
	// fixed corpus and chunking parameters: "{doc}_p{page}_c{seq}".
	ID string

	// Content is the whitespace-collapsed, single-line chunk text.
	// Never empty.
	Content string

	// Source is the file name of the originating document.
	Source string

	// Page is the 1-based page number within Source.
	Page int
}

// RetrievedChunk is a query-time result: a chunk joined with the
// relevance of its vector to the query vector.
type RetrievedChunk struct {
	Chunk

	// Score is the normalised relevance in [0, 1], higher is more
	// relevant. Derived from raw angular distance by ScoreFromDistance.
	Score float64
}
