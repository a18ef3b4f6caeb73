package basis

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/quadrature"
	"github.com/notargets/gohho/utils"
)

// Block restricts a Gram matrix to its leading NRows x NCols entries, a zero
// count means the whole family. Sym asserts that the rows are a prefix of the
// column family, only the upper triangle is then computed and mirrored.
type Block struct {
	NRows, NCols int
	Sym          bool
}

// Tensor is a 3x3 weight between vector families
type Tensor [3][3]float64

func IsotropicTensor(a float64) Tensor {
	return Tensor{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

func (w Tensor) Apply(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: w[0][0]*v.X + w[0][1]*v.Y + w[0][2]*v.Z,
		Y: w[1][0]*v.X + w[1][1]*v.Y + w[1][2]*v.Z,
		Z: w[2][0]*v.X + w[2][1]*v.Y + w[2][2]*v.Z,
	}
}

func resolveBlock(n1, n2, nq1, nq2 int, r quadrature.Rule, blockO []Block) (b Block) {
	if (n1 > 0 && nq1 != r.Len()) || (n2 > 0 && nq2 != r.Len()) {
		panic(fmt.Errorf("tables have %d and %d nodes, quadrature rule has %d", nq1, nq2, r.Len()))
	}
	b = Block{NRows: n1, NCols: n2}
	if len(blockO) != 0 {
		b.Sym = blockO[0].Sym
		if blockO[0].NRows != 0 {
			b.NRows = blockO[0].NRows
		}
		if blockO[0].NCols != 0 {
			b.NCols = blockO[0].NCols
		}
	}
	if b.NRows < 0 || b.NRows > n1 || b.NCols < 0 || b.NCols > n2 {
		panic(fmt.Errorf("requested %d x %d Gram matrix from families of dimension %d and %d",
			b.NRows, b.NCols, n1, n2))
	}
	if b.Sym && b.NRows > b.NCols {
		panic(fmt.Errorf("symmetric Gram matrix needs nrows <= ncols, have %d > %d", b.NRows, b.NCols))
	}
	return
}

func assemble(b Block, entry func(i, j int) float64) (M utils.Matrix) {
	M = utils.NewMatrix(b.NRows, b.NCols)
	for i := 0; i < b.NRows; i++ {
		var jcut int
		if b.Sym {
			jcut = i
		}
		for j := 0; j < jcut; j++ {
			M.Set(i, j, M.At(j, i))
		}
		for j := jcut; j < b.NCols; j++ {
			M.Set(i, j, entry(i, j))
		}
	}
	return
}

// GramScalar returns M_ij = sum_q w_q B1_i(x_q) B2_j(x_q)
func GramScalar(B1, B2 ScalarTable, r quadrature.Rule, blockO ...Block) utils.Matrix {
	b := resolveBlock(B1.NFunctions(), B2.NFunctions(), B1.NNodes(), B2.NNodes(), r, blockO)
	return assemble(b, func(i, j int) (sum float64) {
		b1, b2 := B1[i], B2[j]
		for q, node := range r {
			sum += node.W * b1[q] * b2[q]
		}
		return
	})
}

// GramScalarWeighted includes a scalar weight per node, lambda_q, in the sum
func GramScalarWeighted(B1, B2 ScalarTable, r quadrature.Rule, lambda []float64, blockO ...Block) utils.Matrix {
	if len(lambda) != r.Len() {
		panic(fmt.Errorf("have %d weights for %d quadrature nodes", len(lambda), r.Len()))
	}
	b := resolveBlock(B1.NFunctions(), B2.NFunctions(), B1.NNodes(), B2.NNodes(), r, blockO)
	return assemble(b, func(i, j int) (sum float64) {
		b1, b2 := B1[i], B2[j]
		for q, node := range r {
			sum += node.W * lambda[q] * b1[q] * b2[q]
		}
		return
	})
}

// GramVector returns M_ij = sum_q w_q B1_i(x_q).B2_j(x_q)
func GramVector(B1, B2 VectorTable, r quadrature.Rule, blockO ...Block) utils.Matrix {
	b := resolveBlock(B1.NFunctions(), B2.NFunctions(), B1.NNodes(), B2.NNodes(), r, blockO)
	return assemble(b, func(i, j int) (sum float64) {
		b1, b2 := B1[i], B2[j]
		for q, node := range r {
			sum += node.W * r3.Dot(b1[q], b2[q])
		}
		return
	})
}

// GramVectorWeighted returns M_ij = sum_q w_q B1_i(x_q).(Lambda_q B2_j(x_q))
func GramVectorWeighted(B1, B2 VectorTable, r quadrature.Rule, lambda []Tensor, blockO ...Block) utils.Matrix {
	if len(lambda) != r.Len() {
		panic(fmt.Errorf("have %d weights for %d quadrature nodes", len(lambda), r.Len()))
	}
	b := resolveBlock(B1.NFunctions(), B2.NFunctions(), B1.NNodes(), B2.NNodes(), r, blockO)
	return assemble(b, func(i, j int) (sum float64) {
		b1, b2 := B1[i], B2[j]
		for q, node := range r {
			sum += node.W * r3.Dot(b1[q], lambda[q].Apply(b2[q]))
		}
		return
	})
}

// GramVectorScalar pairs a vector family with the scalar family B2 repeated
// in each Cartesian direction: M(i, k*n2+j) = sum_q w_q (B1_i(x_q).e_k) B2_j(x_q)
func GramVectorScalar(B1 VectorTable, B2 ScalarTable, r quadrature.Rule) (M utils.Matrix) {
	var (
		n1, n2 = B1.NFunctions(), B2.NFunctions()
	)
	resolveBlock(n1, n2, B1.NNodes(), B2.NNodes(), r, nil)
	M = utils.NewMatrix(n1, 3*n2)
	for i := 0; i < n1; i++ {
		b1 := B1[i]
		for k := 0; k < 3; k++ {
			for j := 0; j < n2; j++ {
				var (
					b2  = B2[j]
					sum float64
				)
				for q, node := range r {
					sum += node.W * component(b1[q], k) * b2[q]
				}
				M.Set(i, k*n2+j, sum)
			}
		}
	}
	return
}

func component(v r3.Vec, k int) float64 {
	switch k {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
