// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// pageRank computes the stationary distribution of the random walk over
// the weighted graph described by m. Rows are normalized to transition
// probabilities; a node with no edges transitions uniformly. Starting
// from the uniform distribution, the power iteration
//
//	v' = (1-d)/n + d·Tᵀv
//
// runs until the L1 change drops below tol or maxIter is reached.
func pageRank(m *mat.Dense, damping, tol float64, maxIter int) []float64 {
	n, _ := m.Dims()
	if n == 0 {
		return nil
	}
	uniform := 1 / float64(n)

	// Row-stochastic transition matrix.
	t := mat.NewDense(n, n, nil)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		mat.Row(row, i, m)
		sum := floats.Sum(row)
		if sum == 0 {
			for j := range row {
				row[j] = uniform
			}
		} else {
			floats.Scale(1/sum, row)
		}
		t.SetRow(i, row)
	}

	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, uniform)
	}

	next := mat.NewVecDense(n, nil)
	base := (1 - damping) * uniform
	for iter := 0; iter < maxIter; iter++ {
		next.MulVec(t.T(), v)
		for i := 0; i < n; i++ {
			next.SetVec(i, base+damping*next.AtVec(i))
		}

		delta := floats.Distance(next.RawVector().Data, v.RawVector().Data, 1)
		v.CopyVec(next)
		if delta < tol {
			break
		}
	}

	return append([]float64(nil), v.RawVector().Data...)
}
