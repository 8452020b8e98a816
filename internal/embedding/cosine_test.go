package embedding

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{
			name:     "identical direction",
			a:        []float32{1, 2, 3},
			b:        []float32{2, 4, 6},
			expected: 1.0,
		},
		{
			name:     "orthogonal",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite direction",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "dimension mismatch",
			a:        []float32{1, 2},
			b:        []float32{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("Cosine = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	vectors := [][]float32{
		{0.1, -0.4, 0.9, 0.003},
		{5},
		{-1, -1, -1},
	}

	for _, v := range vectors {
		if got := Cosine(v, v); math.Abs(got-1.0) > 1e-6 {
			t.Errorf("Cosine(v, v) = %v, want 1.0 for %v", got, v)
		}
	}
}

func BenchmarkCosine(b *testing.B) {
	a := make([]float32, 768)
	c := make([]float32, 768)
	for i := range a {
		a[i] = float32(i%13) * 0.1
		c[i] = float32(i%7) * 0.2
	}

	for b.Loop() {
		Cosine(a, c)
	}
}
