package hybridcore

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/basis"
	"github.com/notargets/gohho/utils"
)

// Restr extracts the local unknowns of cell iT, its cell block followed by
// the blocks of its faces in local order
func (hc *HybridCore) Restr(Xh utils.Vector, iT int) (XT utils.Vector) {
	hc.checkDofs(Xh)
	hc.checkCell(iT)
	var (
		T  = hc.mesh.Cell(iT)
		nl = hc.nlocalCellDofs + T.NFaces()*hc.nlocalFaceDofs
	)
	XT = utils.NewVector(nl)
	XT.SetSegment(0, Xh.Segment(hc.CellOffset(iT), hc.nlocalCellDofs))
	for ilF := 0; ilF < T.NFaces(); ilF++ {
		iF := T.Face(ilF).GlobalIndex()
		XT.SetSegment(hc.nlocalCellDofs+ilF*hc.nlocalFaceDofs, Xh.Segment(hc.FaceOffset(iF), hc.nlocalFaceDofs))
	}
	return
}

// EvaluateInCell sums the cell unknowns of iT against the cell basis at x
func (hc *HybridCore) EvaluateInCell(Xh utils.Vector, iT int, x r3.Vec) (val float64) {
	hc.checkDofs(Xh)
	offset := hc.CellOffset(iT)
	for i := 0; i < hc.nlocalCellDofs; i++ {
		val += Xh.AtVec(offset+i) * hc.cellBases[iT].Function(i, x)
	}
	return
}

func (hc *HybridCore) EvaluateInFace(Xh utils.Vector, iF int, x r3.Vec) (val float64) {
	hc.checkDofs(Xh)
	offset := hc.FaceOffset(iF)
	for i := 0; i < hc.nlocalFaceDofs; i++ {
		val += Xh.AtVec(offset+i) * hc.faceBases[iF].Function(i, x)
	}
	return
}

// L2Norm is the L2 norm over the domain of the cell polynomials
func (hc *HybridCore) L2Norm(Xh utils.Vector) float64 {
	hc.checkDofs(Xh)
	sum := hc.cellPM.SumOverBuckets(func(kMin, kMax int) (partial float64) {
		for iT := kMin; iT < kMax; iT++ {
			r := hc.qp.CellRule(hc.mesh.Cell(iT), 2*hc.ldeg+2+hc.offset)
			phi := hc.BasisQuad(Cell, iT, r, hc.ldeg)
			M := basis.GramScalar(phi, phi, r, basis.Block{Sym: true})
			partial += quadraticForm(M, Xh.Segment(hc.CellOffset(iT), hc.nlocalCellDofs))
		}
		return
	})
	return math.Sqrt(sum)
}

// H1Norm is the L2 norm over the domain of the gradients of the cell polynomials
func (hc *HybridCore) H1Norm(Xh utils.Vector) float64 {
	hc.checkDofs(Xh)
	sum := hc.cellPM.SumOverBuckets(func(kMin, kMax int) (partial float64) {
		for iT := kMin; iT < kMax; iT++ {
			r := hc.qp.CellRule(hc.mesh.Cell(iT), 2*hc.ldeg+2+hc.offset)
			dphi := hc.GradBasisQuad(iT, r, hc.ldeg)
			M := basis.GramVector(dphi, dphi, r, basis.Block{Sym: true})
			partial += quadraticForm(M, Xh.Segment(hc.CellOffset(iT), hc.nlocalCellDofs))
		}
		return
	})
	return math.Sqrt(sum)
}

func quadraticForm(M utils.Matrix, c []float64) float64 {
	return floats.Dot(c, M.MulVec(c))
}

// LinfFace is the largest face unknown in absolute value
func (hc *HybridCore) LinfFace(Xh utils.Vector) (val float64) {
	hc.checkDofs(Xh)
	for _, x := range Xh.DataP[hc.ntotalCellDofs:] {
		val = math.Max(val, math.Abs(x))
	}
	return
}

// VertexValues averages, at every mesh vertex, the values at that vertex of
// the cell (or face) polynomials of the entities containing it
func (hc *HybridCore) VertexValues(Xh utils.Vector, from Kind) (Vv utils.Vector) {
	hc.checkDofs(Xh)
	var (
		m         = hc.mesh
		nv        = m.NVertices()
		nEntities int
	)
	switch from {
	case Cell:
		nEntities = m.NCells()
	case Face:
		nEntities = m.NFaces()
	default:
		panic(fmt.Errorf("unknown entity kind %d", from))
	}
	var (
		values    = utils.NewDOK(nv, nEntities)
		incidence = utils.NewDOK(nv, nEntities)
	)
	for iv := 0; iv < nv; iv++ {
		v := m.Vertex(iv)
		if from == Cell {
			for i := 0; i < v.NCells(); i++ {
				iT := v.Cell(i).GlobalIndex()
				values.Set(iv, iT, hc.EvaluateInCell(Xh, iT, v.Coords()))
				incidence.Set(iv, iT, 1)
			}
		} else {
			for i := 0; i < v.NFaces(); i++ {
				iF := v.Face(i).GlobalIndex()
				values.Set(iv, iF, hc.EvaluateInFace(Xh, iF, v.Coords()))
				incidence.Set(iv, iF, 1)
			}
		}
	}
	ones := utils.ConstArray(nEntities, 1)
	sums := values.ToCSR().MulVec(ones)
	counts := incidence.ToCSR().MulVec(ones)
	Vv = utils.NewVector(nv)
	for iv := range sums {
		if counts[iv] > 0 {
			Vv.Set(iv, sums[iv]/counts[iv])
		}
	}
	return
}
