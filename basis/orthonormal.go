package basis

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/utils"
)

// Orthonormalize factors the Gram matrix of a family with itself, G = L L^T,
// and returns B = L^-1. The family phi_i = sum_{j<=i} B_ij m_j is then
// orthonormal for the inner product that produced G.
func Orthonormalize(G utils.Matrix) (B utils.Matrix, err error) {
	var (
		chol mat.Cholesky
		L    mat.TriDense
		Linv mat.TriDense
	)
	S := symmetric(G)
	n := S.SymmetricDim()
	if ok := chol.Factorize(S); !ok {
		err = errors.Wrapf(ErrNumericalInstability, "Gram matrix of dimension %d is not positive definite", n)
		return
	}
	chol.LTo(&L)
	if err = Linv.InverseTri(&L); err != nil {
		err = errors.Wrapf(ErrNumericalInstability, "inverting Cholesky factor: %v", err)
		return
	}
	B = utils.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			B.Set(i, j, Linv.At(i, j))
		}
	}
	return
}

// CholeskySolve solves M x = b for a symmetric positive definite M
func CholeskySolve(M utils.Matrix, b []float64) (x []float64, err error) {
	var (
		chol mat.Cholesky
		xv   mat.VecDense
	)
	S := symmetric(M)
	n := S.SymmetricDim()
	if len(b) != n {
		panic(fmt.Errorf("right hand side has length %d, matrix has dimension %d", len(b), n))
	}
	if ok := chol.Factorize(S); !ok {
		err = errors.Wrapf(ErrNumericalInstability, "mass matrix of dimension %d is not positive definite", n)
		return
	}
	if err = chol.SolveVecTo(&xv, mat.NewVecDense(n, b)); err != nil {
		err = errors.Wrapf(ErrNumericalInstability, "solving mass matrix system: %v", err)
		return
	}
	x = make([]float64, n)
	copy(x, xv.RawVector().Data)
	return
}

// symmetric copies the upper triangle of a square matrix
func symmetric(G utils.Matrix) (S *mat.SymDense) {
	nr, nc := G.Dims()
	if nr != nc {
		panic(fmt.Errorf("matrix must be square, have %d x %d", nr, nc))
	}
	S = mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for j := i; j < nr; j++ {
			S.SetSym(i, j, G.At(i, j))
		}
	}
	return
}

// Transformed is the family phi_i = sum_{j<=i} B_ij m_j built from an
// ancestor family m and a lower triangular change of basis B
type Transformed struct {
	ancestor Family
	matrix   utils.Matrix
}

var _ CurlFamily = &Transformed{}

func NewTransformed(ancestor Family, B utils.Matrix) *Transformed {
	nr, nc := B.Dims()
	if nr != nc || nc > ancestor.Dimension() {
		panic(fmt.Errorf("change of basis of size %d x %d does not fit a family of dimension %d",
			nr, nc, ancestor.Dimension()))
	}
	return &Transformed{ancestor: ancestor, matrix: B}
}

func (t *Transformed) Matrix() utils.Matrix { return t.matrix }

func (t *Transformed) Dimension() int {
	nr, _ := t.matrix.Dims()
	return nr
}

func (t *Transformed) Function(i int, x r3.Vec) (val float64) {
	checkIndex(i, t.Dimension())
	for j := 0; j <= i; j++ {
		val += t.matrix.At(i, j) * t.ancestor.Function(j, x)
	}
	return
}

func (t *Transformed) Gradient(i int, x r3.Vec) (grad r3.Vec) {
	checkIndex(i, t.Dimension())
	for j := 0; j <= i; j++ {
		grad = r3.Add(grad, r3.Scale(t.matrix.At(i, j), t.ancestor.Gradient(j, x)))
	}
	return
}

// Curl is only available when the ancestor is a face family
func (t *Transformed) Curl(i int, x r3.Vec) (curl r3.Vec) {
	anc, ok := t.ancestor.(CurlFamily)
	if !ok {
		panic(fmt.Errorf("curl requested on a family without curl"))
	}
	checkIndex(i, t.Dimension())
	for j := 0; j <= i; j++ {
		curl = r3.Add(curl, r3.Scale(t.matrix.At(i, j), anc.Curl(j, x)))
	}
	return
}
