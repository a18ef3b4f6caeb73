package hybridcore

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/basis"
	"github.com/notargets/gohho/quadrature"
	"github.com/notargets/gohho/utils"
)

// Kind selects cell or face entities
type Kind uint8

const (
	Cell Kind = iota
	Face
)

func (k Kind) String() string {
	if k == Face {
		return "face"
	}
	return "cell"
}

// Which selects the configured basis or the underlying monomials
type Which uint8

const (
	Basis Which = iota
	Monomials
)

func (hc *HybridCore) CellMonomial(iT, i int, x r3.Vec) float64 {
	hc.checkCell(iT)
	return hc.cellMonomials[iT].Function(i, x)
}

func (hc *HybridCore) CellMonomialGradient(iT, i int, x r3.Vec) r3.Vec {
	hc.checkCell(iT)
	return hc.cellMonomials[iT].Gradient(i, x)
}

func (hc *HybridCore) FaceMonomial(iF, i int, x r3.Vec) float64 {
	hc.checkFace(iF)
	return hc.faceMonomials[iF].Function(i, x)
}

func (hc *HybridCore) CellBasis(iT, i int, x r3.Vec) float64 {
	hc.checkCell(iT)
	return hc.cellBases[iT].Function(i, x)
}

func (hc *HybridCore) CellGradient(iT, i int, x r3.Vec) r3.Vec {
	hc.checkCell(iT)
	return hc.cellBases[iT].Gradient(i, x)
}

func (hc *HybridCore) FaceBasis(iF, i int, x r3.Vec) float64 {
	hc.checkFace(iF)
	return hc.faceBases[iF].Function(i, x)
}

// CellFamily is the configured basis of cell iT
func (hc *HybridCore) CellFamily(iT int) basis.Family {
	hc.checkCell(iT)
	return hc.cellBases[iT]
}

// FaceFamily is the configured basis of face iF
func (hc *HybridCore) FaceFamily(iF int) basis.CurlFamily {
	hc.checkFace(iF)
	return hc.faceBases[iF]
}

// CellTransform maps cell monomials to the cell basis, it is the identity
// for monomial bases
func (hc *HybridCore) CellTransform(iT int) utils.Matrix {
	hc.checkCell(iT)
	if hc.choice == basis.Monomial {
		return utils.NewIdentityMatrix(hc.cellMonomials[iT].Dimension())
	}
	return hc.cellTransforms[iT]
}

func (hc *HybridCore) FaceTransform(iF int) utils.Matrix {
	hc.checkFace(iF)
	if hc.choice == basis.Monomial {
		return utils.NewIdentityMatrix(hc.faceMonomials[iF].Dimension())
	}
	return hc.faceTransforms[iF]
}

// nFunctions is the number of basis functions of degree at most degree
func (hc *HybridCore) nFunctions(kind Kind, degree int) int {
	stored := hc.cellDegree
	if kind == Face {
		stored = hc.k
	}
	if degree < 0 || degree > stored {
		panic(fmt.Errorf("%s basis degree %d requested, available degrees are 0 to %d", kind, degree, stored))
	}
	if kind == Face {
		return basis.DimPFace(degree)
	}
	return basis.DimPCell(degree)
}

// BasisQuad evaluates the functions of degree at most degree of cell or
// face i at the nodes of r. The table is meant to be reused for every
// matrix assembled on the same rule.
func (hc *HybridCore) BasisQuad(kind Kind, i int, r quadrature.Rule, degree int, whichO ...Which) basis.ScalarTable {
	var (
		n     = hc.nFunctions(kind, degree)
		which = Basis
		mono  basis.Family
		B     utils.Matrix
	)
	if len(whichO) != 0 {
		which = whichO[0]
	}
	switch kind {
	case Cell:
		hc.checkCell(i)
		mono, B = hc.cellMonomials[i], hc.cellTransforms[i]
	case Face:
		hc.checkFace(i)
		mono, B = hc.faceMonomials[i], hc.faceTransforms[i]
	default:
		panic(fmt.Errorf("unknown entity kind %d", kind))
	}
	phi := basis.FunctionTable(mono, r, n)
	if which == Monomials || hc.choice == basis.Monomial {
		return phi
	}
	return basis.TransformScalarTable(B, phi)
}

// GradBasisQuad evaluates the gradients of the cell functions of degree at
// most degree at the nodes of r
func (hc *HybridCore) GradBasisQuad(iT int, r quadrature.Rule, degree int, whichO ...Which) basis.VectorTable {
	n := hc.nFunctions(Cell, degree)
	hc.checkCell(iT)
	dphi := basis.GradientTable(hc.cellMonomials[iT], r, n)
	if (len(whichO) != 0 && whichO[0] == Monomials) || hc.choice == basis.Monomial {
		return dphi
	}
	return basis.TransformVectorTable(hc.cellTransforms[iT], dphi)
}

// CurlBasisQuad evaluates the tangential curls of the face functions
func (hc *HybridCore) CurlBasisQuad(iF int, r quadrature.Rule, degree int, whichO ...Which) basis.VectorTable {
	n := hc.nFunctions(Face, degree)
	hc.checkFace(iF)
	curl := basis.FaceCurlTable(hc.faceMonomials[iF], r, n)
	if (len(whichO) != 0 && whichO[0] == Monomials) || hc.choice == basis.Monomial {
		return curl
	}
	return basis.TransformVectorTable(hc.faceTransforms[iF], curl)
}

// EdgeBasisQuad evaluates the monomials of degree at most degree of edge iE,
// edges do not carry unknowns so their families are built on demand
func (hc *HybridCore) EdgeBasisQuad(iE int, r quadrature.Rule, degree int) (phi basis.ScalarTable, dphi basis.VectorTable) {
	mono := basis.NewMonomialEdge(hc.mesh.Edge(iE), degree)
	return basis.FunctionTable(mono, r), basis.GradientTable(mono, r)
}
