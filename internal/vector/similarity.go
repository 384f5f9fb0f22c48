package vector

import (
	"fmt"
	"math"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// CosineSimilarity returns dot(a, b) / (|a| * |b|), computed in float64.
// It returns 0 when either vector has zero magnitude, and fails with
// domain.ErrDimensionMismatch when the lengths differ.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector: %w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}
	dot, na2, nb2 := accumulate(a, b)
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

func accumulate(a, b []float32) (dot, na2, nb2 float64) {
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	return dot, na2, nb2
}

// cosineWithNorm scores b against a query whose norm is already known.
func cosineWithNorm(query []float32, queryNorm float64, b []float32) (float64, error) {
	if len(query) != len(b) {
		return 0, fmt.Errorf("vector: %w: %d vs %d", domain.ErrDimensionMismatch, len(query), len(b))
	}
	if queryNorm == 0 {
		return 0, nil
	}
	var dot, nb2 float64
	for i := range query {
		vb := float64(b[i])
		dot += float64(query[i]) * vb
		nb2 += vb * vb
	}
	if nb2 == 0 {
		return 0, nil
	}
	return dot / (queryNorm * math.Sqrt(nb2)), nil
}
