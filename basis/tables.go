package basis

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/quadrature"
	"github.com/notargets/gohho/utils"
)

// ScalarTable holds, for each basis function, its values at the nodes of a
// quadrature rule: T[i][q] = phi_i(x_q)
type ScalarTable [][]float64

// VectorTable is the vector valued analogue of ScalarTable
type VectorTable [][]r3.Vec

func (t ScalarTable) NFunctions() int { return len(t) }
func (t ScalarTable) NNodes() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

func (t VectorTable) NFunctions() int { return len(t) }
func (t VectorTable) NNodes() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// leading resolves the optional count of leading functions to evaluate
func leading(dim int, nO []int) (n int) {
	n = dim
	if len(nO) != 0 {
		n = nO[0]
		if n < 0 || n > dim {
			panic(fmt.Errorf("requested %d functions from a family of dimension %d", n, dim))
		}
	}
	return
}

// FunctionTable evaluates the first n (default all) functions of f at the nodes of r
func FunctionTable(f Family, r quadrature.Rule, nO ...int) (T ScalarTable) {
	n := leading(f.Dimension(), nO)
	T = make(ScalarTable, n)
	for i := 0; i < n; i++ {
		T[i] = make([]float64, r.Len())
		for q, node := range r {
			T[i][q] = f.Function(i, node.X)
		}
	}
	return
}

func GradientTable(f Family, r quadrature.Rule, nO ...int) (T VectorTable) {
	n := leading(f.Dimension(), nO)
	T = make(VectorTable, n)
	for i := 0; i < n; i++ {
		T[i] = make([]r3.Vec, r.Len())
		for q, node := range r {
			T[i][q] = f.Gradient(i, node.X)
		}
	}
	return
}

func FaceCurlTable(f CurlFamily, r quadrature.Rule, nO ...int) (T VectorTable) {
	n := leading(f.Dimension(), nO)
	T = make(VectorTable, n)
	for i := 0; i < n; i++ {
		T[i] = make([]r3.Vec, r.Len())
		for q, node := range r {
			T[i][q] = f.Curl(i, node.X)
		}
	}
	return
}

// DotTable returns T[i][q].v
func DotTable(t VectorTable, v r3.Vec) (D ScalarTable) {
	D = make(ScalarTable, len(t))
	for i, row := range t {
		D[i] = make([]float64, len(row))
		for q, val := range row {
			D[i][q] = r3.Dot(val, v)
		}
	}
	return
}

// CrossTable returns T[i][q] x v
func CrossTable(t VectorTable, v r3.Vec) (C VectorTable) {
	C = make(VectorTable, len(t))
	for i, row := range t {
		C[i] = make([]r3.Vec, len(row))
		for q, val := range row {
			C[i][q] = r3.Cross(val, v)
		}
	}
	return
}

// TransformScalarTable applies a lower triangular change of basis to a table of
// the ancestor family, row i of the result is sum_{j<=i} B_ij T_j. Only the
// rows available in T are produced.
func TransformScalarTable(B utils.Matrix, T ScalarTable) (R ScalarTable) {
	n := checkTransform(B, T.NFunctions())
	R = make(ScalarTable, n)
	for i := 0; i < n; i++ {
		R[i] = make([]float64, T.NNodes())
		for j := 0; j <= i; j++ {
			bij := B.At(i, j)
			if bij == 0 {
				continue
			}
			for q, val := range T[j] {
				R[i][q] += bij * val
			}
		}
	}
	return
}

func TransformVectorTable(B utils.Matrix, T VectorTable) (R VectorTable) {
	n := checkTransform(B, T.NFunctions())
	R = make(VectorTable, n)
	for i := 0; i < n; i++ {
		R[i] = make([]r3.Vec, T.NNodes())
		for j := 0; j <= i; j++ {
			bij := B.At(i, j)
			if bij == 0 {
				continue
			}
			for q, val := range T[j] {
				R[i][q] = r3.Add(R[i][q], r3.Scale(bij, val))
			}
		}
	}
	return
}

func checkTransform(B utils.Matrix, nT int) int {
	nr, nc := B.Dims()
	if nr != nc {
		panic(fmt.Errorf("change of basis must be square, have %d x %d", nr, nc))
	}
	if nT > nr {
		panic(fmt.Errorf("table has %d functions, change of basis has dimension %d", nT, nr))
	}
	return nT
}
