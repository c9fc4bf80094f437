package encoder

import (
	"math"

	"jiraiya/sources/tracing"
)

// Encoder turns text into dense vectors. Queries and documents are embedded
// differently by some models, so both paths are explicit.
type Encoder interface {
	Name() string
	Dimensions() uint64
	EmbedQuery(log *tracing.Logger, text string) ([]float32, error)
	EmbedDocuments(log *tracing.Logger, texts []string) ([][]float32, error)
}

// normalizeVector scales to unit length. A zero norm is treated as one so the
// vector passes through unchanged.
func normalizeVector(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / norm)
	}

	return normalized
}
