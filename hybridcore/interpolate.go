package hybridcore

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/basis"
	"github.com/notargets/gohho/quadrature"
	"github.com/notargets/gohho/utils"
)

// Interpolate returns the unknowns of the L2 projections of f on every face
// and every cell, computed with rules of exactness doe. When L = -1 the cell
// unknowns are then replaced by the weighted combination of the unknowns of
// their faces.
func (hc *HybridCore) Interpolate(f func(x r3.Vec) float64, doe int) (Xh utils.Vector, err error) {
	Xh = utils.NewVector(hc.ntotalDofs)
	err = hc.facePM.ForEachBucket(func(bn, kMin, kMax int) error {
		for iF := kMin; iF < kMax; iF++ {
			r := hc.qp.FaceRule(hc.mesh.Face(iF), doe)
			phi := hc.BasisQuad(Face, iF, r, hc.k)
			uF, err := project(f, phi, r)
			if err != nil {
				return errors.Wrapf(err, "interpolating on face %d", iF)
			}
			Xh.SetSegment(hc.FaceOffset(iF), uF)
		}
		return nil
	})
	if err != nil {
		return
	}
	err = hc.cellPM.ForEachBucket(func(bn, kMin, kMax int) error {
		for iT := kMin; iT < kMax; iT++ {
			r := hc.qp.CellRule(hc.mesh.Cell(iT), doe)
			phi := hc.BasisQuad(Cell, iT, r, hc.ldeg)
			uT, err := project(f, phi, r)
			if err != nil {
				return errors.Wrapf(err, "interpolating in cell %d", iT)
			}
			Xh.SetSegment(hc.CellOffset(iT), uT)
		}
		return nil
	})
	if err != nil {
		return
	}
	if hc.l == -1 {
		if err = hc.reconstructDegenerateCells(Xh); err != nil {
			return
		}
	}
	hc.logger.Debug("interpolated", "doe", doe, "dofs", hc.ntotalDofs)
	return
}

// project solves M u = b with M the mass matrix of phi and b_i = int f phi_i
func project(f func(x r3.Vec) float64, phi basis.ScalarTable, r quadrature.Rule) (u []float64, err error) {
	var (
		M  = basis.GramScalar(phi, phi, r, basis.Block{Sym: true})
		b  = make([]float64, phi.NFunctions())
		fq = make([]float64, r.Len())
	)
	for q, node := range r {
		fq[q] = f(node.X)
	}
	for i, row := range phi {
		for q, node := range r {
			b[i] += node.W * row[q] * fq[q]
		}
	}
	return basis.CholeskySolve(M, b)
}

// reconstructDegenerateCells overwrites the constant unknown of each cell
// with sum_F w_F (phi_F/phi_T) X_F, using the constant basis functions
// evaluated at the centers of mass
func (hc *HybridCore) reconstructDegenerateCells(Xh utils.Vector) error {
	return hc.cellPM.ForEachBucket(func(bn, kMin, kMax int) error {
		for iT := kMin; iT < kMax; iT++ {
			var (
				T       = hc.mesh.Cell(iT)
				weights = hc.ComputeWeights(iT)
				phiT    = hc.CellBasis(iT, 0, T.CenterMass())
				val     float64
			)
			for ilF := 0; ilF < T.NFaces(); ilF++ {
				F := T.Face(ilF)
				iF := F.GlobalIndex()
				phiF := hc.FaceBasis(iF, 0, F.CenterMass())
				val += weights[ilF] * phiF / phiT * Xh.AtVec(hc.FaceOffset(iF))
			}
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return errors.Wrapf(basis.ErrNumericalInstability,
					"reconstructing the unknown of cell %d", iT)
			}
			Xh.Set(hc.CellOffset(iT), val)
		}
		return nil
	})
}

// ComputeWeights returns, for each face of cell iT, |F| d_TF / (3|T|) where
// d_TF is the distance from the cell center to the plane of the face. The
// weights sum to one and reproduce the cell center from the face centers.
func (hc *HybridCore) ComputeWeights(iT int) (w []float64) {
	hc.checkCell(iT)
	T := hc.mesh.Cell(iT)
	w = make([]float64, T.NFaces())
	for ilF := range w {
		F := T.Face(ilF)
		dTF := r3.Dot(r3.Sub(F.CenterMass(), T.CenterMass()), T.FaceNormal(ilF))
		w[ilF] = F.Measure() * dTF / (3 * T.Measure())
	}
	return
}
