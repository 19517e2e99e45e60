package search

import "math"

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for nil, empty, length-mismatched, or zero-norm inputs instead of
// erroring: a missing or malformed embedding degrades to a neutral score.
// The raw value ranges over [-1,1]; the ranking engine floors it at 0 before
// blending so a dissimilar vector can never drag a lexical match below zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
