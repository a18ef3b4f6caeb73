package quadrature

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohho/utils"
)

// JacobiGQ returns the N+1 Gauss nodes and weights on [-1,1] for the weight
// function (1-x)^alpha (1+x)^beta, exact for polynomials of degree 2N+1.
// Nodes are in ascending order.
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x, w       []float64
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N < 0 {
		panic("JacobiGQ needs N >= 0")
	}
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{gamma0(alpha, beta)}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: -(alpha^2-beta^2)/(h1+2)/h1, only the upper triangle of
	// the symmetric matrix is stored so the diagonal is not doubled later
	d0 = make([]float64, N+1)
	fac = -(alpha*alpha - beta*beta)
	// h1[0] = alpha+beta may vanish, the first entry is taken in closed form
	d0[0] = -(alpha - beta) / (alpha + beta + 2.)
	for i := 1; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}

	// 1st upper diagonal
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)

	VVr = mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	g0 := gamma0(alpha, beta)
	w = make([]float64, len(x))
	for k := range w {
		w[k] = utils.POW(VVr.At(0, k), 2) * g0
	}
	return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
}

// gamma0 is the integral of the Jacobi weight over [-1,1]
func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// collapsed maps Gauss-Jacobi nodes to [0,1] and scales the weights by the
// Jacobian of that map, so that the rule integrates against (1-a)^alpha da
func collapsed(alpha float64, n int) (a, w []float64) {
	X, W := JacobiGQ(alpha, 0, n-1)
	a = make([]float64, n)
	w = make([]float64, n)
	scale := math.Pow(0.5, alpha+1)
	for i := 0; i < n; i++ {
		a[i] = 0.5 * (1 + X.AtVec(i))
		w[i] = scale * W.AtVec(i)
	}
	return
}
