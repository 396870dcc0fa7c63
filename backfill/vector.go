package backfill

import "math"

// NormalizeVector returns v scaled to unit length. A zero vector is returned
// as a new zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	result := make([]float32, len(v))

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return result
	}

	norm := math.Sqrt(sum)
	for i, x := range v {
		result[i] = float32(float64(x) / norm)
	}
	return result
}
