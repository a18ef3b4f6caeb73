package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ConditionNumber of a symmetric matrix from its extreme eigenvalues, only the
// lower triangle is read. Singular or indefinite matrices return +Inf
func (m Matrix) ConditionNumber() float64 {
	ev := m.Eigenvalues()
	if len(ev) == 0 || ev[0] <= 0 {
		return math.Inf(1)
	}
	return ev[len(ev)-1] / ev[0]
}

// Eigenvalues of a symmetric matrix in ascending order, nil if the
// decomposition fails
func (m Matrix) Eigenvalues() []float64 {
	var (
		nr, nc = m.Dims()
		es     mat.EigenSym
	)
	if nr != nc {
		panic("eigenvalues only defined for square matrices")
	}
	S := mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j <= i; j++ {
			S.SetSym(i, j, m.At(i, j))
		}
	}
	if !es.Factorize(S, false) {
		return nil
	}
	return es.Values(nil)
}
