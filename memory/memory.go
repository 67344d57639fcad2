package memory

import "context"

// Embedder converts text to vector embeddings. The same embedder must
// be used for consolidation and retrieval so both paths produce
// comparable vectors under the store's distance metric.
//
// Implementations: mock (testing), onnx (local all-MiniLM-L6-v2),
// ollama (HTTP), cached (ristretto wrapper around any of the above).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Store is the durable vector backend holding episodic records and
// semantic facts in two independent collections.
//
// Implementations: chromem (embedded, persistent). A server-backed
// store can be swapped in behind the same interface.
type Store interface {
	// UpsertEpisode writes a consolidated turn. The record must have
	// its embedding set.
	UpsertEpisode(ctx context.Context, rec *EpisodicRecord) error

	// QueryEpisodes returns up to n episodic texts nearest to the
	// embedding, best match first, restricted to records with
	// importance >= minImportance.
	QueryEpisodes(ctx context.Context, embedding []float32, n int, minImportance float64) ([]string, error)

	// UpsertFact writes a standalone fact. The fact must have its
	// embedding set.
	UpsertFact(ctx context.Context, fact *SemanticFact) error

	// EpisodeCount and FactCount report collection sizes.
	EpisodeCount(ctx context.Context) (int, error)
	FactCount(ctx context.Context) (int, error)

	// ClearEpisodes and ClearFacts drop the respective collection.
	ClearEpisodes(ctx context.Context) error
	ClearFacts(ctx context.Context) error

	// Close releases resources.
	Close() error
}
