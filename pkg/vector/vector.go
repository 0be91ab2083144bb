// Package vector provides utilities for embedding vectors (fixed-width fitting
// and L2 normalization).
package vector

import (
	"math"
)

// Fit returns v adjusted to exactly dim components: longer vectors are truncated
// from the tail, shorter ones are zero-padded on the right. The fixed width is a
// contract with the similarity procedure's column type and must never vary.
func Fit(v []float32, dim int) []float32 {
	if len(v) == dim {
		return v
	}

	if len(v) > dim {
		return v[:dim]
	}

	out := make([]float32, dim)
	copy(out, v)

	return out
}

// NormalizeL2 scales a vector to unit length so dot-product comparisons behave
// like cosine similarity. It modifies the slice in place to avoid allocations
// during batch reindexing.
func NormalizeL2(v []float32) {
	var sumSquares float64

	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}

	if sumSquares == 0 {
		return
	}

	magnitude := math.Sqrt(sumSquares)

	for i := range v {
		v[i] = float32(float64(v[i]) / magnitude)
	}
}
