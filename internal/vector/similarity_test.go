package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0}
	neg := []float32{-0.3, 1.2, -4.5, 0}

	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", v, v, 1},
		{"opposite", v, neg, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector left", []float32{0, 0, 0, 0}, v, 0},
		{"zero vector right", v, []float32{0, 0, 0, 0}, 0},
		{"empty", []float32{}, []float32{}, 0},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-9)
	assert.Zero(t, Norm(nil))
}
