package hybridcore

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/notargets/gohho/basis"
	"github.com/notargets/gohho/mesh"
	"github.com/notargets/gohho/quadrature"
	"github.com/notargets/gohho/utils"
)

// Options configure a HybridCore, the zero value selects monomial bases, a
// single worker and the default quadrature provider
type Options struct {
	Basis            basis.Choice
	ParallelDegree   int
	QuadratureOffset int // Added to every internally chosen degree of exactness
	Quadrature       quadrature.RuleProvider
	Logger           utils.Logger
}

// HybridCore owns the cell and face bases of a mesh and the layout of the
// hybrid unknowns: all cell blocks come first, ordered by cell, followed by
// all face blocks, ordered by face.
type HybridCore struct {
	mesh   *mesh.Mesh
	k, l   int
	ldeg   int
	choice basis.Choice
	offset int
	qp     quadrature.RuleProvider
	logger utils.Logger
	cellPM *utils.PartitionMap
	facePM *utils.PartitionMap

	nlocalCellDofs    int
	nlocalFaceDofs    int
	nhighorderDofs    int
	ngradientDofs     int
	ntotalCellDofs    int
	ntotalFaceDofs    int
	ninternalFaceDofs int
	nboundaryFaceDofs int
	ntotalDofs        int

	cellDegree     int
	cellMonomials  []*basis.MonomialCell
	faceMonomials  []*basis.MonomialFace
	cellBases      []basis.Family
	faceBases      []basis.CurlFamily
	cellTransforms []utils.Matrix
	faceTransforms []utils.Matrix
}

// New builds the bases of every cell, of degree max(K+1, Ldeg), and of every
// face, of degree K. L = -1 selects the degenerate cell space where cell
// unknowns are reconstructed from face unknowns.
func New(m *mesh.Mesh, K, L int, opts Options) (hc *HybridCore, err error) {
	if K < 0 || L < -1 {
		err = errors.Errorf("invalid degrees K = %d, L = %d, need K >= 0 and L >= -1", K, L)
		return
	}
	start := time.Now()
	ldeg := L
	if ldeg < 0 {
		ldeg = 0
	}
	if opts.Quadrature == nil {
		opts.Quadrature = quadrature.NewProvider()
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	hc = &HybridCore{
		mesh:   m,
		k:      K,
		l:      L,
		ldeg:   ldeg,
		choice: opts.Basis,
		offset: opts.QuadratureOffset,
		qp:     opts.Quadrature,
		logger: opts.Logger,
		cellPM: utils.NewPartitionMap(opts.ParallelDegree, m.NCells()),
		facePM: utils.NewPartitionMap(opts.ParallelDegree, m.NFaces()),

		nlocalCellDofs: basis.DimPCell(ldeg),
		nlocalFaceDofs: basis.DimPFace(K),
		nhighorderDofs: basis.DimPCell(K + 1),
		ngradientDofs:  basis.DimPCell(K+1) - 1,
		cellDegree:     max(K+1, ldeg),
	}
	hc.ntotalCellDofs = m.NCells() * hc.nlocalCellDofs
	hc.ntotalFaceDofs = m.NFaces() * hc.nlocalFaceDofs
	hc.ninternalFaceDofs = m.NInternalFaces() * hc.nlocalFaceDofs
	hc.nboundaryFaceDofs = m.NBoundaryFaces() * hc.nlocalFaceDofs
	hc.ntotalDofs = hc.ntotalCellDofs + hc.ntotalFaceDofs

	if err = hc.createCellBases(); err != nil {
		return nil, err
	}
	if err = hc.createFaceBases(); err != nil {
		return nil, err
	}
	hc.logger.Info("hybrid core ready",
		"cells", m.NCells(), "faces", m.NFaces(), "K", K, "L", L,
		"basis", hc.choice.String(), "dofs", hc.ntotalDofs,
		"workers", hc.cellPM.ParallelDegree, "elapsed", time.Since(start))
	return
}

func (hc *HybridCore) createCellBases() (err error) {
	var (
		nc = hc.mesh.NCells()
	)
	hc.cellMonomials = make([]*basis.MonomialCell, nc)
	hc.cellBases = make([]basis.Family, nc)
	hc.cellTransforms = make([]utils.Matrix, nc)
	err = hc.cellPM.ForEachBucket(func(bn, kMin, kMax int) (err error) {
		var cond float64
		for iT := kMin; iT < kMax; iT++ {
			T := hc.mesh.Cell(iT)
			mono := basis.NewMonomialCell(T, hc.cellDegree)
			hc.cellMonomials[iT] = mono
			if hc.choice == basis.Monomial {
				hc.cellBases[iT] = mono
				continue
			}
			r := hc.qp.CellRule(T, 2*hc.cellDegree+hc.offset)
			phi := basis.FunctionTable(mono, r)
			G := basis.GramScalar(phi, phi, r, basis.Block{Sym: true})
			cond = math.Max(cond, G.ConditionNumber())
			var B utils.Matrix
			if B, err = basis.Orthonormalize(G); err != nil {
				return errors.Wrapf(err, "orthonormalizing basis of cell %d", iT)
			}
			hc.cellTransforms[iT] = B
			hc.cellBases[iT] = basis.NewTransformed(mono, B)
		}
		hc.logger.Debug("cell bases built", "partition", bn, "from", kMin, "to", kMax, "maxGramCond", cond)
		return
	})
	return
}

func (hc *HybridCore) createFaceBases() (err error) {
	var (
		nf = hc.mesh.NFaces()
	)
	hc.faceMonomials = make([]*basis.MonomialFace, nf)
	hc.faceBases = make([]basis.CurlFamily, nf)
	hc.faceTransforms = make([]utils.Matrix, nf)
	err = hc.facePM.ForEachBucket(func(bn, kMin, kMax int) (err error) {
		var cond float64
		for iF := kMin; iF < kMax; iF++ {
			F := hc.mesh.Face(iF)
			mono := basis.NewMonomialFace(F, hc.k)
			hc.faceMonomials[iF] = mono
			if hc.choice == basis.Monomial {
				hc.faceBases[iF] = mono
				continue
			}
			r := hc.qp.FaceRule(F, 2*hc.k+hc.offset)
			phi := basis.FunctionTable(mono, r)
			G := basis.GramScalar(phi, phi, r, basis.Block{Sym: true})
			cond = math.Max(cond, G.ConditionNumber())
			var B utils.Matrix
			if B, err = basis.Orthonormalize(G); err != nil {
				return errors.Wrapf(err, "orthonormalizing basis of face %d", iF)
			}
			hc.faceTransforms[iF] = B
			hc.faceBases[iF] = basis.NewTransformed(mono, B)
		}
		hc.logger.Debug("face bases built", "partition", bn, "from", kMin, "to", kMax, "maxGramCond", cond)
		return
	})
	return
}

func (hc *HybridCore) Mesh() *mesh.Mesh                    { return hc.mesh }
func (hc *HybridCore) Quadrature() quadrature.RuleProvider { return hc.qp }
func (hc *HybridCore) Choice() basis.Choice                { return hc.choice }
func (hc *HybridCore) K() int                              { return hc.k }
func (hc *HybridCore) L() int                              { return hc.l }

// Ldeg is L, or 0 when L = -1
func (hc *HybridCore) Ldeg() int { return hc.ldeg }

// CellDegree is the degree of the stored cell bases, max(K+1, Ldeg)
func (hc *HybridCore) CellDegree() int { return hc.cellDegree }

func (hc *HybridCore) NLocalCellDofs() int    { return hc.nlocalCellDofs }
func (hc *HybridCore) NTotalCellDofs() int    { return hc.ntotalCellDofs }
func (hc *HybridCore) NLocalFaceDofs() int    { return hc.nlocalFaceDofs }
func (hc *HybridCore) NTotalFaceDofs() int    { return hc.ntotalFaceDofs }
func (hc *HybridCore) NInternalFaceDofs() int { return hc.ninternalFaceDofs }
func (hc *HybridCore) NBoundaryFaceDofs() int { return hc.nboundaryFaceDofs }
func (hc *HybridCore) NHighOrderDofs() int    { return hc.nhighorderDofs }
func (hc *HybridCore) NGradientDofs() int     { return hc.ngradientDofs }
func (hc *HybridCore) NTotalDofs() int        { return hc.ntotalDofs }

// CellOffset is the position of the first unknown of cell iT
func (hc *HybridCore) CellOffset(iT int) int {
	hc.checkCell(iT)
	return iT * hc.nlocalCellDofs
}

// FaceOffset is the position of the first unknown of face iF
func (hc *HybridCore) FaceOffset(iF int) int {
	hc.checkFace(iF)
	return hc.ntotalCellDofs + iF*hc.nlocalFaceDofs
}

func (hc *HybridCore) checkCell(iT int) {
	if iT < 0 || iT >= hc.mesh.NCells() {
		panic(fmt.Errorf("cell index %d out of range [0,%d)", iT, hc.mesh.NCells()))
	}
}

func (hc *HybridCore) checkFace(iF int) {
	if iF < 0 || iF >= hc.mesh.NFaces() {
		panic(fmt.Errorf("face index %d out of range [0,%d)", iF, hc.mesh.NFaces()))
	}
}

func (hc *HybridCore) checkDofs(Xh utils.Vector) {
	if Xh.Len() != hc.ntotalDofs {
		panic(fmt.Errorf("vector of unknowns has length %d, expected %d", Xh.Len(), hc.ntotalDofs))
	}
}
