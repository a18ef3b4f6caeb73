package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/types"
)

// Mesh is an immutable polytopal mesh of the 3D domain. Every sub-entity list
// is ordered by global index.
type Mesh struct {
	vertices []*Vertex
	edges    []*Edge
	faces    []*Face
	cells    []*Cell
	h        float64
}

func (m *Mesh) NVertices() int { return len(m.vertices) }
func (m *Mesh) NEdges() int    { return len(m.edges) }
func (m *Mesh) NFaces() int    { return len(m.faces) }
func (m *Mesh) NCells() int    { return len(m.cells) }

func (m *Mesh) Vertex(i int) *Vertex { return m.vertices[checkGlobal(i, len(m.vertices), "vertex")] }
func (m *Mesh) Edge(i int) *Edge     { return m.edges[checkGlobal(i, len(m.edges), "edge")] }
func (m *Mesh) Face(i int) *Face     { return m.faces[checkGlobal(i, len(m.faces), "face")] }
func (m *Mesh) Cell(i int) *Cell     { return m.cells[checkGlobal(i, len(m.cells), "cell")] }

// H is the largest cell diameter
func (m *Mesh) H() float64 { return m.h }

func (m *Mesh) NBoundaryFaces() (n int) {
	for _, f := range m.faces {
		if f.IsBoundary() {
			n++
		}
	}
	return
}

func (m *Mesh) NInternalFaces() int { return len(m.faces) - m.NBoundaryFaces() }

// Measure is the total volume of the domain
func (m *Mesh) Measure() (vol float64) {
	for _, c := range m.cells {
		vol += c.volume
	}
	return
}

func (m *Mesh) PrintStatistics() string {
	return fmt.Sprintf("Mesh: %d vertices, %d edges, %d faces (%d boundary), %d cells, h = %8.5f",
		m.NVertices(), m.NEdges(), m.NFaces(), m.NBoundaryFaces(), m.NCells(), m.h)
}

// NewMeshFromElements builds the polyhedral cells from element connectivity
// using the face table of each element type
func NewMeshFromElements(vertices []r3.Vec, elements [][]int, elementTypes []ElementType) (m *Mesh, err error) {
	if len(elements) != len(elementTypes) {
		err = fmt.Errorf("have %d elements and %d element types", len(elements), len(elementTypes))
		return
	}
	cellFaces := make([][][]int, len(elements))
	for k, verts := range elements {
		et := elementTypes[k]
		if nn := et.GetNumNodes(); nn == 0 || len(verts) != nn {
			err = fmt.Errorf("element %d of type %s has %d vertices", k, et, len(verts))
			return
		}
		cellFaces[k] = GetElementFaces(et, verts)
	}
	return NewMeshFromPolyhedra(vertices, cellFaces)
}

// NewMeshFromPolyhedra builds a mesh where each cell is given by the vertex
// loops of its planar faces. Cells must be star-shaped with respect to their
// vertex average and faces with respect to theirs.
func NewMeshFromPolyhedra(vertices []r3.Vec, cellFaces [][][]int) (m *Mesh, err error) {
	var (
		faceMap = make(map[types.FaceKey]*Face)
		edgeMap = make(map[types.EdgeKey]*Edge)
	)
	m = &Mesh{
		vertices: make([]*Vertex, len(vertices)),
		cells:    make([]*Cell, len(cellFaces)),
	}
	for i, x := range vertices {
		m.vertices[i] = &Vertex{index: i, coords: x}
	}
	for k, loops := range cellFaces {
		if len(loops) < 4 {
			err = fmt.Errorf("cell %d has %d faces, need at least 4", k, len(loops))
			return nil, err
		}
		cell := &Cell{index: k}
		m.cells[k] = cell
		for lf, loop := range loops {
			if len(loop) < 3 {
				err = fmt.Errorf("face %d of cell %d has %d vertices, need at least 3", lf, k, len(loop))
				return nil, err
			}
			for _, iv := range loop {
				if iv < 0 || iv >= len(vertices) {
					err = fmt.Errorf("face %d of cell %d references vertex %d, have %d vertices",
						lf, k, iv, len(vertices))
					return nil, err
				}
			}
			key := types.NewFaceKey(loop)
			face, exists := faceMap[key]
			if !exists {
				face = &Face{index: len(m.faces)}
				for _, iv := range loop {
					face.vertices = append(face.vertices, m.vertices[iv])
				}
				faceMap[key] = face
				m.faces = append(m.faces, face)
				for i := range loop {
					face.edges = append(face.edges, m.findOrAddEdge(edgeMap, loop[i], loop[(i+1)%len(loop)]))
				}
			} else if len(face.cells) == 2 {
				err = fmt.Errorf("face %v is shared by more than two cells", face.index)
				return nil, err
			}
			face.cells = append(face.cells, cell)
			cell.faces = append(cell.faces, face)
		}
	}
	m.buildIncidence()
	if err = m.computeGeometry(); err != nil {
		return nil, err
	}
	return
}

func (m *Mesh) findOrAddEdge(edgeMap map[types.EdgeKey]*Edge, iv0, iv1 int) (e *Edge) {
	var (
		key    = types.NewEdgeKey([2]int{iv0, iv1})
		exists bool
	)
	if e, exists = edgeMap[key]; exists {
		return
	}
	e = &Edge{
		index:    len(m.edges),
		vertices: [2]*Vertex{m.vertices[iv0], m.vertices[iv1]},
	}
	edgeMap[key] = e
	m.edges = append(m.edges, e)
	return
}

// buildIncidence fills the upward adjacency lists, each in ascending global index
func (m *Mesh) buildIncidence() {
	for _, f := range m.faces {
		for _, e := range f.edges {
			e.faces = append(e.faces, f)
		}
		for _, v := range f.vertices {
			v.faces = append(v.faces, f)
		}
	}
	for _, e := range m.edges {
		for _, v := range e.vertices {
			v.edges = append(v.edges, e)
		}
	}
	for _, c := range m.cells {
		seenV := make(map[*Vertex]bool)
		seenE := make(map[*Edge]bool)
		for _, f := range c.faces {
			for _, v := range f.vertices {
				if !seenV[v] {
					seenV[v] = true
					c.vertices = append(c.vertices, v)
					v.cells = append(v.cells, c)
				}
			}
			for _, e := range f.edges {
				if !seenE[e] {
					seenE[e] = true
					c.edges = append(c.edges, e)
					e.cells = append(e.cells, c)
				}
			}
		}
	}
}

func checkGlobal(i, n int, what string) int {
	if i < 0 || i >= n {
		panic(fmt.Errorf("global %s index %d out of range [0,%d)", what, i, n))
	}
	return i
}
