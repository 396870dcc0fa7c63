package similarity

import (
	"fmt"
	"math"

	"github.com/poiesic/libris/core"
)

// CosineSimilarity returns dot(a,b) / (|a| |b|).
// Vectors of different length yield core.ErrDimensionMismatch. A zero
// vector yields NaN; callers filter books without embeddings beforehand.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", core.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
