package partition

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// randomMatrix builds a symmetric 0/1 matrix with the given edge
// probability. Seeded for reproducible benchmarks.
func randomMatrix(n int, p float64, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				m.Set(i, j, 1)
				m.Set(j, i, 1)
			}
		}
	}
	return m
}

func benchBipartition(b *testing.B, n int, p float64) {
	m := randomMatrix(n, p, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Bipartition(m, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBipartitionSparse50(b *testing.B)   { benchBipartition(b, 50, 0.08) }
func BenchmarkBipartitionSparse200(b *testing.B)  { benchBipartition(b, 200, 0.02) }
func BenchmarkBipartitionDense50(b *testing.B)    { benchBipartition(b, 50, 0.4) }
func BenchmarkBipartitionClustered(b *testing.B) {
	// Two dense communities with a few cross links: the shape FM is
	// designed to split well.
	n := 60
	m := mat.NewDense(n, n, nil)
	rng := rand.New(rand.NewSource(2))
	half := n / 2
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sameSide := (i < half) == (j < half)
			p := 0.3
			if !sameSide {
				p = 0.02
			}
			if rng.Float64() < p {
				m.Set(i, j, 1)
				m.Set(j, i, 1)
			}
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Bipartition(m, nil); err != nil {
			b.Fatal(err)
		}
	}
}
