package hybridcore

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// QuadratureOverCell calls fn at every node of a rule of exactness
// 2*Ldeg+2 on cell iT
func (hc *HybridCore) QuadratureOverCell(iT int, fn func(q int, x r3.Vec, w float64)) {
	hc.checkCell(iT)
	r := hc.qp.CellRule(hc.mesh.Cell(iT), 2*hc.ldeg+2+hc.offset)
	for q, node := range r {
		fn(q, node.X, node.W)
	}
}

// QuadratureOverFace calls fn at every node of a rule of exactness 2*K+2 on face iF
func (hc *HybridCore) QuadratureOverFace(iF int, fn func(q int, x r3.Vec, w float64)) {
	hc.checkFace(iF)
	r := hc.qp.FaceRule(hc.mesh.Face(iF), 2*hc.k+2+hc.offset)
	for q, node := range r {
		fn(q, node.X, node.W)
	}
}

// IntegrateOverCell recomputes the quadrature rule on every call
func (hc *HybridCore) IntegrateOverCell(iT int, f func(x r3.Vec) float64) (sum float64) {
	hc.QuadratureOverCell(iT, func(q int, x r3.Vec, w float64) {
		sum += w * f(x)
	})
	return
}

func (hc *HybridCore) IntegrateOverFace(iF int, f func(x r3.Vec) float64) (sum float64) {
	hc.QuadratureOverFace(iF, func(q int, x r3.Vec, w float64) {
		sum += w * f(x)
	})
	return
}

func (hc *HybridCore) IntegrateOverDomain(f func(x r3.Vec) float64) float64 {
	return hc.cellPM.SumOverBuckets(func(kMin, kMax int) (partial float64) {
		for iT := kMin; iT < kMax; iT++ {
			partial += hc.IntegrateOverCell(iT, f)
		}
		return
	})
}
