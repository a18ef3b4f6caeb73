package quadrature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/mesh"
	"github.com/notargets/gohho/utils"
)

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func monomial(i, j, k int) func(x r3.Vec) float64 {
	return func(x r3.Vec) float64 {
		return utils.POW(x.X, i) * utils.POW(x.Y, j) * utils.POW(x.Z, k)
	}
}

func TestJacobiGQ(t *testing.T) {
	{ // Gauss-Legendre
		X, W := JacobiGQ(0, 0, 1)
		assert.InDeltaSlice(t, []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)}, X.DataP, 1.e-14)
		assert.InDeltaSlice(t, []float64{1, 1}, W.DataP, 1.e-14)
		X, W = JacobiGQ(0, 0, 2)
		assert.InDeltaSlice(t, []float64{-math.Sqrt(0.6), 0, math.Sqrt(0.6)}, X.DataP, 1.e-14)
		assert.InDeltaSlice(t, []float64{5. / 9., 8. / 9., 5. / 9.}, W.DataP, 1.e-14)
	}
	{ // Gauss-Jacobi, the nodes are the roots of P_2^(alpha,beta)
		X, W := JacobiGQ(1, 0, 1)
		assert.InDeltaSlice(t, []float64{(-0.4 - math.Sqrt(0.96)) / 2, (-0.4 + math.Sqrt(0.96)) / 2}, X.DataP, 1.e-14)
		assert.InDelta(t, 2., W.AtVec(0)+W.AtVec(1), 1.e-14)
		X, _ = JacobiGQ(0, 1, 1)
		assert.InDeltaSlice(t, []float64{(0.4 - math.Sqrt(0.96)) / 2, (0.4 + math.Sqrt(0.96)) / 2}, X.DataP, 1.e-14)
	}
	// Exact for (1-x)^alpha (1+x)^beta x^p with unequal exponents
	for _, ab := range [][2]float64{{1, 0}, {2, 0}, {0, 2}, {2, 1}, {0.5, -0.5}} {
		X, W := JacobiGQ(ab[0], ab[1], 3)
		for p := 0; p <= 7; p++ {
			var sum float64
			for q := 0; q < X.Len(); q++ {
				sum += W.AtVec(q) * utils.POW(X.AtVec(q), p)
			}
			exact := jacobiMoment(ab[0], ab[1], p)
			assert.InDelta(t, exact, sum, 1.e-12, "alpha=%v beta=%v p=%d", ab[0], ab[1], p)
		}
	}
	{ // Single point rules carry the full weight
		X, W := JacobiGQ(2, 0, 0)
		assert.InDelta(t, -0.5, X.AtVec(0), 1.e-14)
		assert.InDelta(t, 8./3., W.AtVec(0), 1.e-14)
	}
	// Exact for (1-x)^alpha x^p, p <= 2N+1
	for _, alpha := range []float64{0, 1, 2} {
		for N := 0; N < 6; N++ {
			X, W := JacobiGQ(alpha, 0, N)
			for p := 0; p <= 2*N+1; p++ {
				var sum float64
				for q := 0; q < X.Len(); q++ {
					sum += W.AtVec(q) * utils.POW(1+X.AtVec(q), p)
				}
				// int_{-1}^{1} (1-x)^a (1+x)^p dx = 2^(a+p+1) a! p! / (a+p+1)!
				a := int(alpha)
				exact := math.Pow(2, float64(a+p+1)) * factorial(a) * factorial(p) / factorial(a+p+1)
				assert.InDelta(t, 1, sum/exact, 1.e-12, "alpha=%v N=%d p=%d", alpha, N, p)
			}
		}
	}
}

func TestReferenceSimplexRules(t *testing.T) {
	var (
		o  = r3.Vec{}
		ex = r3.Vec{X: 1}
		ey = r3.Vec{Y: 1}
		ez = r3.Vec{Z: 1}
	)
	for doe := 0; doe <= 8; doe++ {
		tet := TetrahedronRule(o, ex, ey, ez, doe)
		tri := TriangleRule(o, ex, ey, doe)
		seg := SegmentRule(o, ex, doe)
		for i := 0; i <= doe; i++ {
			assert.InDelta(t, 1/float64(i+1), seg.Integrate(monomial(i, 0, 0)), 1.e-13)
			for j := 0; i+j <= doe; j++ {
				exact := factorial(i) * factorial(j) / factorial(i+j+2)
				assert.InDelta(t, exact, tri.Integrate(monomial(i, j, 0)), 1.e-13)
				for k := 0; i+j+k <= doe; k++ {
					exact = factorial(i) * factorial(j) * factorial(k) / factorial(i+j+k+3)
					assert.InDelta(t, exact, tet.Integrate(monomial(i, j, k)), 1.e-13,
						"doe=%d (%d,%d,%d)", doe, i, j, k)
				}
			}
		}
	}
	// Vertex order does not change the weights' sign
	r := TetrahedronRule(o, ey, ex, ez, 3)
	assert.InDelta(t, 1./6., r.Measure(), 1.e-14)
	for _, n := range r {
		assert.Greater(t, n.W, 0.)
	}
	assert.Equal(t, 1, SegmentRule(o, ex, -1).Len())
}

func TestProviderOnMeshes(t *testing.T) {
	var p RuleProvider = NewProvider()
	{ // A unit cube
		m, err := mesh.NewUnitCubeMesh(mesh.Hex, 1)
		require.NoError(t, err)
		c := m.Cell(0)
		r := p.CellRule(c, 5)
		assert.InDelta(t, 1, r.Measure(), 1.e-14)
		for i := 0; i <= 5; i++ {
			for j := 0; i+j <= 5; j++ {
				for k := 0; i+j+k <= 5; k++ {
					exact := 1 / float64((i+1)*(j+1)*(k+1))
					assert.InDelta(t, exact, r.Integrate(monomial(i, j, k)), 1.e-13)
				}
			}
		}
		for iF := 0; iF < m.NFaces(); iF++ {
			f := m.Face(iF)
			rf := p.FaceRule(f, 4)
			assert.InDelta(t, 1, rf.Measure(), 1.e-14)
			// x^2 y^2 z^2 restricted to the face
			exact := 1.
			xF := f.CenterMass()
			for _, xc := range []float64{xF.X, xF.Y, xF.Z} {
				if math.Abs(xc-0.5) < 1.e-12 {
					exact /= 3
				} else {
					exact *= xc * xc
				}
			}
			assert.InDelta(t, exact, rf.Integrate(monomial(2, 2, 2)), 1.e-13)
		}
		for iE := 0; iE < m.NEdges(); iE++ {
			e := m.Edge(iE)
			re := p.EdgeRule(e, 3)
			assert.InDelta(t, 1, re.Measure(), 1.e-14)
		}
	}
	{ // Tetrahedral cells use their faces directly
		m, err := mesh.NewUnitCubeMesh(mesh.Tet, 1)
		require.NoError(t, err)
		var total float64
		for iT := 0; iT < m.NCells(); iT++ {
			r := p.CellRule(m.Cell(iT), 2)
			assert.Equal(t, 4*8, r.Len())
			total += r.Integrate(monomial(1, 1, 0))
		}
		assert.InDelta(t, 0.25, total, 1.e-14)
	}
	{ // Pyramid
		vertices := []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: .5, Y: .5, Z: 1}}
		m, err := mesh.NewMeshFromElements(vertices, [][]int{{0, 1, 2, 3, 4}}, []mesh.ElementType{mesh.Pyramid})
		require.NoError(t, err)
		r := p.CellRule(m.Cell(0), 2)
		assert.InDelta(t, 1./3., r.Measure(), 1.e-14)
		// int z dV = int_0^1 z (1-z)^2 dz
		assert.InDelta(t, 1./12., r.Integrate(monomial(0, 0, 1)), 1.e-14)
	}
}

// jacobiMoment integrates (1-x)^a (1+x)^b x^p over [-1,1] by expanding
// x^p = (t-1)^p with t = 1+x, each term being a Beta integral
func jacobiMoment(a, b float64, p int) (sum float64) {
	beta := func(u, v float64) float64 {
		lu, _ := math.Lgamma(u)
		lv, _ := math.Lgamma(v)
		luv, _ := math.Lgamma(u + v)
		return math.Exp(lu + lv - luv)
	}
	for k := 0; k <= p; k++ {
		binom := factorial(p) / (factorial(k) * factorial(p-k))
		sign := 1.
		if (p-k)%2 == 1 {
			sign = -1.
		}
		// int_0^2 (2-t)^a t^(b+k) dt = 2^(a+b+k+1) B(a+1, b+k+1)
		sum += sign * binom * math.Pow(2, a+b+float64(k)+1) * beta(a+1, b+float64(k)+1)
	}
	return
}
