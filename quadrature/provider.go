package quadrature

import (
	"github.com/notargets/gohho/mesh"
)

// RuleProvider maps a mesh entity and a degree of exactness to a rule
type RuleProvider interface {
	CellRule(c *mesh.Cell, doe int) Rule
	FaceRule(f *mesh.Face, doe int) Rule
	EdgeRule(e *mesh.Edge, doe int) Rule
}

// Provider splits cells into tetrahedra (cell center, face center, face edge)
// and faces into triangles (face center, edge). Triangular faces are used as
// is. The rules are exact on cells and faces that are star-shaped with
// respect to their centers of mass.
type Provider struct{}

var _ RuleProvider = Provider{}

func NewProvider() Provider { return Provider{} }

func (Provider) CellRule(c *mesh.Cell, doe int) (r Rule) {
	xT := c.CenterMass()
	for ilF := 0; ilF < c.NFaces(); ilF++ {
		f := c.Face(ilF)
		nv := f.NVertices()
		if nv == 3 {
			r = append(r, TetrahedronRule(xT,
				f.Vertex(0).Coords(), f.Vertex(1).Coords(), f.Vertex(2).Coords(), doe)...)
			continue
		}
		xF := f.CenterMass()
		for i := 0; i < nv; i++ {
			r = append(r, TetrahedronRule(xT, xF,
				f.Vertex(i).Coords(), f.Vertex((i+1)%nv).Coords(), doe)...)
		}
	}
	return
}

func (Provider) FaceRule(f *mesh.Face, doe int) (r Rule) {
	nv := f.NVertices()
	if nv == 3 {
		return TriangleRule(f.Vertex(0).Coords(), f.Vertex(1).Coords(), f.Vertex(2).Coords(), doe)
	}
	xF := f.CenterMass()
	for i := 0; i < nv; i++ {
		r = append(r, TriangleRule(xF, f.Vertex(i).Coords(), f.Vertex((i+1)%nv).Coords(), doe)...)
	}
	return
}

func (Provider) EdgeRule(e *mesh.Edge, doe int) Rule {
	return SegmentRule(e.Vertex(0).Coords(), e.Vertex(1).Coords(), doe)
}
