package basis

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/mesh"
	"github.com/notargets/gohho/utils"
)

// Family is an ordered finite set of scalar functions attached to a mesh entity
type Family interface {
	Dimension() int
	Function(i int, x r3.Vec) float64
	Gradient(i int, x r3.Vec) r3.Vec
}

// CurlFamily is a face family, Curl(i,x) = Gradient(i,x) x n_F
type CurlFamily interface {
	Family
	Curl(i int, x r3.Vec) r3.Vec
}

var (
	_ Family     = &MonomialCell{}
	_ CurlFamily = &MonomialFace{}
	_ Family     = &MonomialEdge{}
)

// MonomialCell holds the monomials ((x-xT)/hT)^alpha, |alpha| <= degree,
// ordered by increasing total degree
type MonomialCell struct {
	degree int
	xT     r3.Vec
	hT     float64
	powers [][3]int
}

func NewMonomialCell(T *mesh.Cell, degree int) (m *MonomialCell) {
	checkDegree(degree)
	m = &MonomialCell{
		degree: degree,
		xT:     T.CenterMass(),
		hT:     T.Diam(),
		powers: make([][3]int, 0, DimPCell(degree)),
	}
	for l := 0; l <= degree; l++ {
		for i := 0; i <= l; i++ {
			for j := 0; i+j <= l; j++ {
				m.powers = append(m.powers, [3]int{i, j, l - i - j})
			}
		}
	}
	return
}

func (m *MonomialCell) Degree() int    { return m.degree }
func (m *MonomialCell) Dimension() int { return len(m.powers) }

func (m *MonomialCell) Powers(i int) [3]int {
	return m.powers[checkIndex(i, len(m.powers))]
}

func (m *MonomialCell) coordinates(x r3.Vec) r3.Vec {
	return r3.Scale(1/m.hT, r3.Sub(x, m.xT))
}

func (m *MonomialCell) Function(i int, x r3.Vec) float64 {
	var (
		y = m.coordinates(x)
		p = m.Powers(i)
	)
	return utils.POW(y.X, p[0]) * utils.POW(y.Y, p[1]) * utils.POW(y.Z, p[2])
}

func (m *MonomialCell) Gradient(i int, x r3.Vec) (grad r3.Vec) {
	var (
		y          = m.coordinates(x)
		p          = m.Powers(i)
		px, py, pz = utils.POW(y.X, p[0]), utils.POW(y.Y, p[1]), utils.POW(y.Z, p[2])
	)
	if p[0] != 0 {
		grad.X = float64(p[0]) * utils.POW(y.X, p[0]-1) * py * pz
	}
	if p[1] != 0 {
		grad.Y = px * float64(p[1]) * utils.POW(y.Y, p[1]-1) * pz
	}
	if p[2] != 0 {
		grad.Z = px * py * float64(p[2]) * utils.POW(y.Z, p[2]-1)
	}
	return r3.Scale(1/m.hT, grad)
}

// MonomialFace holds the monomials of y = J (x - xF), where the rows of J are
// the tangent of the first face edge and its in-plane normal, both over hF
type MonomialFace struct {
	degree int
	xF     r3.Vec
	hF     float64
	nF     r3.Vec
	jac    [2]r3.Vec
	powers [][2]int
}

func NewMonomialFace(F *mesh.Face, degree int) (m *MonomialFace) {
	checkDegree(degree)
	m = &MonomialFace{
		degree: degree,
		xF:     F.CenterMass(),
		hF:     F.Diam(),
		nF:     F.Normal(),
		powers: make([][2]int, 0, DimPFace(degree)),
	}
	m.jac[0] = r3.Scale(1/m.hF, F.Edge(0).Tangent())
	m.jac[1] = r3.Scale(1/m.hF, F.EdgeNormal(0))
	for l := 0; l <= degree; l++ {
		for i := 0; i <= l; i++ {
			m.powers = append(m.powers, [2]int{i, l - i})
		}
	}
	return
}

func (m *MonomialFace) Degree() int    { return m.degree }
func (m *MonomialFace) Dimension() int { return len(m.powers) }
func (m *MonomialFace) Normal() r3.Vec { return m.nF }

func (m *MonomialFace) Powers(i int) [2]int {
	return m.powers[checkIndex(i, len(m.powers))]
}

func (m *MonomialFace) coordinates(x r3.Vec) (y0, y1 float64) {
	d := r3.Sub(x, m.xF)
	return r3.Dot(m.jac[0], d), r3.Dot(m.jac[1], d)
}

func (m *MonomialFace) Function(i int, x r3.Vec) float64 {
	var (
		y0, y1 = m.coordinates(x)
		p      = m.Powers(i)
	)
	return utils.POW(y0, p[0]) * utils.POW(y1, p[1])
}

func (m *MonomialFace) Gradient(i int, x r3.Vec) r3.Vec {
	var (
		y0, y1 = m.coordinates(x)
		p      = m.Powers(i)
		g0, g1 float64
	)
	if p[0] != 0 {
		g0 = float64(p[0]) * utils.POW(y0, p[0]-1) * utils.POW(y1, p[1])
	}
	if p[1] != 0 {
		g1 = utils.POW(y0, p[0]) * float64(p[1]) * utils.POW(y1, p[1]-1)
	}
	return r3.Add(r3.Scale(g0, m.jac[0]), r3.Scale(g1, m.jac[1]))
}

func (m *MonomialFace) Curl(i int, x r3.Vec) r3.Vec {
	return r3.Cross(m.Gradient(i, x), m.nF)
}

// MonomialEdge holds the powers of (x - xE).tE / hE
type MonomialEdge struct {
	degree int
	xE     r3.Vec
	hE     float64
	tE     r3.Vec
}

func NewMonomialEdge(E *mesh.Edge, degree int) *MonomialEdge {
	checkDegree(degree)
	return &MonomialEdge{
		degree: degree,
		xE:     E.CenterMass(),
		hE:     E.Diam(),
		tE:     E.Tangent(),
	}
}

func (m *MonomialEdge) Degree() int    { return m.degree }
func (m *MonomialEdge) Dimension() int { return DimPEdge(m.degree) }

func (m *MonomialEdge) coordinate(x r3.Vec) float64 {
	return r3.Dot(r3.Sub(x, m.xE), m.tE) / m.hE
}

func (m *MonomialEdge) Function(i int, x r3.Vec) float64 {
	checkIndex(i, m.Dimension())
	return utils.POW(m.coordinate(x), i)
}

func (m *MonomialEdge) Gradient(i int, x r3.Vec) r3.Vec {
	checkIndex(i, m.Dimension())
	if i == 0 {
		return r3.Vec{}
	}
	return r3.Scale(float64(i)*utils.POW(m.coordinate(x), i-1)/m.hE, m.tE)
}

func checkDegree(degree int) {
	if degree < 0 {
		panic(fmt.Errorf("basis degree must be >= 0, have %d", degree))
	}
}

func checkIndex(i, n int) int {
	if i < 0 || i >= n {
		panic(fmt.Errorf("basis function %d out of range [0,%d)", i, n))
	}
	return i
}
