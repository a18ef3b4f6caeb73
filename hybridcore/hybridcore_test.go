package hybridcore

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/basis"
	"github.com/notargets/gohho/mesh"
	"github.com/notargets/gohho/quadrature"
	"github.com/notargets/gohho/utils"
)

func shearedBox(t *testing.T, et mesh.ElementType, n int) *mesh.Mesh {
	m, err := mesh.NewBoxMesh(mesh.BoxOptions{
		Type:  et,
		N:     [3]int{n, n, n},
		Hi:    r3.Vec{X: 1, Y: 1, Z: 1},
		Shear: 0.25,
	})
	require.NoError(t, err)
	return m
}

func hexagonalPrism(t *testing.T) *mesh.Mesh {
	var (
		vertices []r3.Vec
		loops    [][]int
		bottom   []int
		top      []int
	)
	for k := 0; k < 2; k++ {
		for i := 0; i < 6; i++ {
			th := float64(i)*math.Pi/3 + 0.1
			vertices = append(vertices, r3.Vec{X: math.Cos(th), Y: 0.8 * math.Sin(th), Z: 0.7 * float64(k)})
		}
	}
	for i := 0; i < 6; i++ {
		bottom = append(bottom, 5-i)
		top = append(top, 6+i)
		loops = append(loops, []int{i, (i + 1) % 6, 6 + (i+1)%6, 6 + i})
	}
	loops = append(loops, bottom, top)
	m, err := mesh.NewMeshFromPolyhedra(vertices, [][][]int{loops})
	require.NoError(t, err)
	return m
}

func quadratic(x r3.Vec) float64 {
	return 1 + 2*x.X - x.Y + 0.5*x.Z + x.X*x.X - 3*x.Y*x.Z + 0.25*x.Z*x.Z
}

func affine(x r3.Vec) float64 {
	return 0.5 - x.X + 2*x.Y + 3*x.Z
}

func TestDofLayout(t *testing.T) {
	m, err := mesh.NewUnitCubeMesh(mesh.Hex, 2)
	require.NoError(t, err)
	hc, err := New(m, 1, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, hc.K())
	assert.Equal(t, 0, hc.L())
	assert.Equal(t, 0, hc.Ldeg())
	assert.Equal(t, 2, hc.CellDegree())
	assert.Equal(t, 1, hc.NLocalCellDofs())
	assert.Equal(t, 3, hc.NLocalFaceDofs())
	assert.Equal(t, 10, hc.NHighOrderDofs())
	assert.Equal(t, 9, hc.NGradientDofs())
	assert.Equal(t, 8, hc.NTotalCellDofs())
	assert.Equal(t, 108, hc.NTotalFaceDofs())
	assert.Equal(t, 72, hc.NBoundaryFaceDofs())
	assert.Equal(t, 36, hc.NInternalFaceDofs())
	assert.Equal(t, 116, hc.NTotalDofs())
	assert.Equal(t, 3, hc.CellOffset(3))
	assert.Equal(t, 14, hc.FaceOffset(2))
	assert.Panics(t, func() { hc.CellOffset(8) })
	assert.Panics(t, func() { hc.FaceOffset(-1) })

	hc, err = New(m, 2, -1, Options{})
	require.NoError(t, err)
	assert.Equal(t, -1, hc.L())
	assert.Equal(t, 0, hc.Ldeg())
	assert.Equal(t, 1, hc.NLocalCellDofs())
	assert.Equal(t, 3, hc.CellDegree())

	_, err = New(m, -1, 0, Options{})
	assert.Error(t, err)
	_, err = New(m, 0, -2, Options{})
	assert.Error(t, err)
}

func TestRestr(t *testing.T) {
	m := shearedBox(t, mesh.Prism, 2)
	hc, err := New(m, 1, 1, Options{})
	require.NoError(t, err)
	Xh := utils.NewVector(hc.NTotalDofs())
	for i := range Xh.DataP {
		Xh.DataP[i] = float64(i)
	}
	for iT := 0; iT < m.NCells(); iT++ {
		T := m.Cell(iT)
		XT := hc.Restr(Xh, iT)
		require.Equal(t, hc.NLocalCellDofs()+T.NFaces()*hc.NLocalFaceDofs(), XT.Len())
		for i := 0; i < hc.NLocalCellDofs(); i++ {
			assert.Equal(t, float64(hc.CellOffset(iT)+i), XT.AtVec(i))
		}
		for ilF := 0; ilF < T.NFaces(); ilF++ {
			off := hc.FaceOffset(T.Face(ilF).GlobalIndex())
			for i := 0; i < hc.NLocalFaceDofs(); i++ {
				assert.Equal(t, float64(off+i), XT.AtVec(hc.NLocalCellDofs()+ilF*hc.NLocalFaceDofs()+i))
			}
		}
	}
	assert.Panics(t, func() { hc.Restr(utils.NewVector(3), 0) })
}

func TestInterpolationExactness(t *testing.T) {
	meshes := []*mesh.Mesh{
		shearedBox(t, mesh.Tet, 1),
		shearedBox(t, mesh.Hex, 2),
		hexagonalPrism(t),
	}
	for _, m := range meshes {
		for _, choice := range []basis.Choice{basis.Monomial, basis.Orthonormal} {
			hc, err := New(m, 2, 2, Options{Basis: choice, ParallelDegree: 3})
			require.NoError(t, err)
			Xh, err := hc.Interpolate(quadratic, 6)
			require.NoError(t, err)
			for iT := 0; iT < m.NCells(); iT++ {
				T := m.Cell(iT)
				for _, x := range []r3.Vec{
					T.CenterMass(),
					T.Vertex(0).Coords(),
					r3.Add(T.CenterMass(), r3.Vec{X: 0.01, Y: -0.02, Z: 0.03}),
				} {
					assert.InDelta(t, quadratic(x), hc.EvaluateInCell(Xh, iT, x), 1.e-9)
				}
			}
			for iF := 0; iF < m.NFaces(); iF++ {
				F := m.Face(iF)
				for _, x := range []r3.Vec{F.CenterMass(), F.Vertex(1).Coords()} {
					assert.InDelta(t, quadratic(x), hc.EvaluateInFace(Xh, iF, x), 1.e-9)
				}
			}
		}
	}
}

func TestDegenerateCellDegree(t *testing.T) {
	{ // Same constant coefficient on every face
		m := shearedBox(t, mesh.Hex, 2)
		hc, err := New(m, 0, -1, Options{})
		require.NoError(t, err)
		Xh := utils.NewVector(hc.NTotalDofs())
		for iF := 0; iF < m.NFaces(); iF++ {
			Xh.Set(hc.FaceOffset(iF), 2.5)
		}
		require.NoError(t, hc.reconstructDegenerateCells(Xh))
		for iT := 0; iT < m.NCells(); iT++ {
			assert.InDelta(t, 2.5, Xh.AtVec(hc.CellOffset(iT)), 1.e-13)
		}
		// A non finite face unknown fails the reconstruction
		Xh.Set(hc.FaceOffset(0), math.NaN())
		err = hc.reconstructDegenerateCells(Xh)
		require.Error(t, err)
		assert.Equal(t, basis.ErrNumericalInstability, errors.Cause(err))
		_, err = hc.Interpolate(func(x r3.Vec) float64 { return math.Inf(1) }, 2)
		assert.Error(t, err)
	}
	for _, m := range []*mesh.Mesh{shearedBox(t, mesh.Tet, 1), hexagonalPrism(t)} {
		for _, choice := range []basis.Choice{basis.Monomial, basis.Orthonormal} {
			{ // Constants are reproduced
				hc, err := New(m, 0, -1, Options{Basis: choice})
				require.NoError(t, err)
				Xh, err := hc.Interpolate(func(x r3.Vec) float64 { return -1.5 }, 2)
				require.NoError(t, err)
				for iT := 0; iT < m.NCells(); iT++ {
					assert.InDelta(t, -1.5, hc.EvaluateInCell(Xh, iT, m.Cell(iT).CenterMass()), 1.e-12)
				}
			}
			{ // Affine functions are exact at the cell center
				hc, err := New(m, 1, -1, Options{Basis: choice})
				require.NoError(t, err)
				Xh, err := hc.Interpolate(affine, 4)
				require.NoError(t, err)
				for iT := 0; iT < m.NCells(); iT++ {
					xT := m.Cell(iT).CenterMass()
					assert.InDelta(t, affine(xT), hc.EvaluateInCell(Xh, iT, xT), 1.e-11)
				}
			}
		}
	}
}

func TestComputeWeights(t *testing.T) {
	for _, m := range []*mesh.Mesh{shearedBox(t, mesh.Prism, 1), hexagonalPrism(t)} {
		hc, err := New(m, 0, -1, Options{})
		require.NoError(t, err)
		for iT := 0; iT < m.NCells(); iT++ {
			var (
				T   = m.Cell(iT)
				w   = hc.ComputeWeights(iT)
				sum float64
				x   r3.Vec
			)
			require.Equal(t, T.NFaces(), len(w))
			for ilF, wF := range w {
				assert.Greater(t, wF, 0.)
				sum += wF
				x = r3.Add(x, r3.Scale(wF, T.Face(ilF).CenterMass()))
			}
			assert.InDelta(t, 1, sum, 1.e-13)
			assert.InDelta(t, 0, r3.Norm(r3.Sub(x, T.CenterMass())), 1.e-13)
		}
	}
}

func TestNorms(t *testing.T) {
	m, err := mesh.NewUnitCubeMesh(mesh.Tet, 2)
	require.NoError(t, err)
	for _, choice := range []basis.Choice{basis.Monomial, basis.Orthonormal} {
		hc, err := New(m, 0, 0, Options{Basis: choice})
		require.NoError(t, err)
		Xh, err := hc.Interpolate(func(x r3.Vec) float64 { return -3 }, 2)
		require.NoError(t, err)
		assert.InDelta(t, 3, hc.L2Norm(Xh), 1.e-12)
		assert.InDelta(t, 0, hc.H1Norm(Xh), 1.e-12)
		if choice == basis.Monomial {
			assert.InDelta(t, 3, hc.LinfFace(Xh), 1.e-12)
		}

		hc, err = New(m, 1, 1, Options{Basis: choice, ParallelDegree: 4})
		require.NoError(t, err)
		f := func(x r3.Vec) float64 { return x.X + 2*x.Y }
		Xh, err = hc.Interpolate(f, 4)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(8./3.), hc.L2Norm(Xh), 1.e-11)
		assert.InDelta(t, math.Sqrt(5), hc.H1Norm(Xh), 1.e-11)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	m := shearedBox(t, mesh.Hex, 2)
	serial, err := New(m, 1, 1, Options{Basis: basis.Orthonormal})
	require.NoError(t, err)
	parallel, err := New(m, 1, 1, Options{Basis: basis.Orthonormal, ParallelDegree: 5})
	require.NoError(t, err)
	f := func(x r3.Vec) float64 { return math.Sin(x.X) * math.Exp(x.Y-x.Z) }
	Xs, err := serial.Interpolate(f, 6)
	require.NoError(t, err)
	Xp, err := parallel.Interpolate(f, 6)
	require.NoError(t, err)
	assert.Equal(t, Xs.DataP, Xp.DataP)
	assert.InDelta(t, serial.L2Norm(Xs), parallel.L2Norm(Xp), 1.e-14)
	assert.InDelta(t, serial.H1Norm(Xs), parallel.H1Norm(Xp), 1.e-14)
}

func TestVertexValues(t *testing.T) {
	m := shearedBox(t, mesh.Tet, 2)
	hc, err := New(m, 1, 1, Options{})
	require.NoError(t, err)
	Xh, err := hc.Interpolate(affine, 4)
	require.NoError(t, err)
	for _, from := range []Kind{Cell, Face} {
		Vv := hc.VertexValues(Xh, from)
		require.Equal(t, m.NVertices(), Vv.Len())
		for iv := 0; iv < m.NVertices(); iv++ {
			assert.InDelta(t, affine(m.Vertex(iv).Coords()), Vv.AtVec(iv), 1.e-11, from.String())
		}
	}
}

func TestBasisQuad(t *testing.T) {
	m := shearedBox(t, mesh.Prism, 1)
	hc, err := New(m, 2, 1, Options{Basis: basis.Orthonormal})
	require.NoError(t, err)
	T := m.Cell(1)
	r := hc.Quadrature().CellRule(T, 2*hc.CellDegree())
	phi := hc.BasisQuad(Cell, 1, r, hc.CellDegree())
	require.Equal(t, basis.DimPCell(3), phi.NFunctions())
	G := basis.GramScalar(phi, phi, r, basis.Block{Sym: true})
	for i := 0; i < phi.NFunctions(); i++ {
		for j := 0; j < phi.NFunctions(); j++ {
			exact := 0.
			if i == j {
				exact = 1
			}
			assert.InDelta(t, exact, G.At(i, j), 1.e-10)
		}
	}
	// Leading functions are a prefix of the full family
	low := hc.BasisQuad(Cell, 1, r, 1)
	require.Equal(t, 4, low.NFunctions())
	for i := range low {
		assert.InDeltaSlice(t, phi[i], low[i], 1.e-14)
	}
	mono := hc.BasisQuad(Cell, 1, r, 1, Monomials)
	x := r[3].X
	assert.InDelta(t, hc.CellMonomial(1, 2, x), mono[2][3], 1.e-15)
	assert.InDelta(t, hc.CellBasis(1, 2, x), phi[2][3], 1.e-12)

	dphi := hc.GradBasisQuad(1, r, 2)
	require.Equal(t, 10, dphi.NFunctions())
	assert.InDelta(t, 0, r3.Norm(r3.Sub(hc.CellGradient(1, 5, x), dphi[5][3])), 1.e-12)
	assert.Equal(t, r3.Vec{}, hc.CellMonomialGradient(1, 0, x))

	F := m.Face(2)
	rf := hc.Quadrature().FaceRule(F, 4)
	phiF := hc.BasisQuad(Face, 2, rf, 2)
	GF := basis.GramScalar(phiF, phiF, rf, basis.Block{Sym: true})
	assert.InDelta(t, 1, GF.At(4, 4), 1.e-10)
	assert.InDelta(t, 0, GF.At(1, 4), 1.e-10)
	assert.InDelta(t, hc.FaceMonomial(2, 1, rf[0].X), hc.BasisQuad(Face, 2, rf, 2, Monomials)[1][0], 1.e-15)
	curl := hc.CurlBasisQuad(2, rf, 2)
	for i := range curl {
		for q := range curl[i] {
			assert.InDelta(t, 0, r3.Dot(curl[i][q], F.Normal()), 1.e-12)
		}
	}
	assert.InDelta(t, hc.FaceBasis(2, 3, rf[1].X), phiF[3][1], 1.e-12)
	_, c := hc.CellTransform(0).Dims()
	assert.Equal(t, basis.DimPCell(3), c)
	_, c = hc.FaceTransform(0).Dims()
	assert.Equal(t, basis.DimPFace(2), c)

	re := hc.Quadrature().EdgeRule(m.Edge(0), 4)
	phiE, dphiE := hc.EdgeBasisQuad(0, re, 2)
	GE := basis.GramScalar(phiE, phiE, re)
	assert.InDelta(t, m.Edge(0).Measure(), GE.At(0, 0), 1.e-14)
	assert.Equal(t, 3, dphiE.NFunctions())

	assert.Panics(t, func() { hc.BasisQuad(Cell, 1, r, 4) })
	assert.Panics(t, func() { hc.BasisQuad(Face, 2, rf, 3) })
	assert.Panics(t, func() { hc.BasisQuad(Cell, 2, r, 1) })
	assert.Panics(t, func() { hc.GradBasisQuad(0, r, -1) })

	mon, err := New(m, 2, 1, Options{})
	require.NoError(t, err)
	assertIdentity := func(M utils.Matrix) {
		nr, nc := M.Dims()
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if i == j {
					assert.Equal(t, 1., M.At(i, j))
				} else {
					assert.Equal(t, 0., M.At(i, j))
				}
			}
		}
	}
	assertIdentity(mon.CellTransform(1))
	assertIdentity(mon.FaceTransform(3))
}

func TestIntegration(t *testing.T) {
	m, err := mesh.NewUnitCubeMesh(mesh.Hex, 2)
	require.NoError(t, err)
	hc, err := New(m, 1, 1, Options{ParallelDegree: 3})
	require.NoError(t, err)
	assert.InDelta(t, 1./8., hc.IntegrateOverDomain(func(x r3.Vec) float64 { return x.X * x.Y * x.Z }), 1.e-14)
	assert.InDelta(t, 1./8., hc.IntegrateOverCell(0, func(x r3.Vec) float64 { return 1 }), 1.e-14)
	for iF := 0; iF < m.NFaces(); iF++ {
		assert.InDelta(t, 0.25, hc.IntegrateOverFace(iF, func(x r3.Vec) float64 { return 1 }), 1.e-14)
	}
	var nq int
	hc.QuadratureOverCell(3, func(q int, x r3.Vec, w float64) {
		assert.Equal(t, nq, q)
		nq++
	})
	assert.Greater(t, nq, 0)
}

// centerRule puts a single node of unit weight at each center of mass
type centerRule struct{}

func (centerRule) CellRule(c *mesh.Cell, doe int) quadrature.Rule {
	return quadrature.Rule{{X: c.CenterMass(), W: 1}}
}
func (centerRule) FaceRule(f *mesh.Face, doe int) quadrature.Rule {
	return quadrature.Rule{{X: f.CenterMass(), W: 1}}
}
func (centerRule) EdgeRule(e *mesh.Edge, doe int) quadrature.Rule {
	return quadrature.Rule{{X: e.CenterMass(), W: 1}}
}

func TestNumericalInstability(t *testing.T) {
	m := shearedBox(t, mesh.Hex, 1)
	_, err := New(m, 0, 0, Options{Basis: basis.Orthonormal, Quadrature: centerRule{}})
	assert.True(t, errors.Is(err, basis.ErrNumericalInstability))

	hc, err := New(m, 1, 0, Options{Quadrature: centerRule{}})
	require.NoError(t, err)
	_, err = hc.Interpolate(affine, 2)
	assert.True(t, errors.Is(err, basis.ErrNumericalInstability))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	m := shearedBox(t, mesh.Tet, 1)
	_, err := New(m, 1, 0, Options{Logger: utils.NewLoggerTo(&buf, slog.LevelDebug), ParallelDegree: 2})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[gohho] hybrid core ready")
	assert.Contains(t, buf.String(), "cells=6")
	assert.Contains(t, buf.String(), "cell bases built")
}
