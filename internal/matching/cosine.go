package matching

import "math"

// minSimilarity is assigned to degenerate vectors so they never blend into
// the ranking of real matches.
const minSimilarity = -1.0

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths, empty vectors, and zero-magnitude vectors all yield
// the minimum similarity.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return minSimilarity
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return minSimilarity
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
