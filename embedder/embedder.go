package embedder

import "context"

// DefaultDimensions is the dimensionality every stored or compared vector
// must have. Upstream vectors of a different length are coerced at the
// provider boundary.
const DefaultDimensions = 768

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Coerce forces vec to exactly dim dimensions: longer vectors are truncated
// and shorter ones are right-padded with zeros.
func Coerce(vec []float32, dim int) []float32 {
	if len(vec) == dim {
		return vec
	}

	out := make([]float32, dim)
	copy(out, vec)

	return out
}
