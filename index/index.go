package index

import (
	"context"
	"math"
)

const (
	// DefaultThreshold is the minimum cosine similarity a candidate must
	// exceed in the relational and in-memory backends.
	DefaultThreshold = 0.3

	// DefaultTopK bounds every search so downstream prompt size stays
	// independent of corpus size.
	DefaultTopK = 5
)

// Match is an ephemeral search result. Similarity is in cosine range [-1, 1].
type Match struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Similarity float64 `json:"similarity"`
}

type Index interface {
	Search(ctx context.Context, vector []float32, ownerId string, limit int) ([]Match, error)
}

// Upserter is implemented by backends that maintain their own copy of the
// vectors, such as an external vector-search service.
type Upserter interface {
	Upsert(ctx context.Context, id string, vector []float32, ownerId string, title string, summary string) error
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
