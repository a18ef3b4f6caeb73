package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

type Vertex struct {
	index  int
	coords r3.Vec
	cells  []*Cell
	faces  []*Face
	edges  []*Edge
}

func (v *Vertex) GlobalIndex() int { return v.index }
func (v *Vertex) Coords() r3.Vec   { return v.coords }
func (v *Vertex) NCells() int      { return len(v.cells) }
func (v *Vertex) Cell(i int) *Cell { return v.cells[checkLocal(i, len(v.cells), "cell")] }
func (v *Vertex) NFaces() int      { return len(v.faces) }
func (v *Vertex) Face(i int) *Face { return v.faces[checkLocal(i, len(v.faces), "face")] }
func (v *Vertex) NEdges() int      { return len(v.edges) }
func (v *Vertex) Edge(i int) *Edge { return v.edges[checkLocal(i, len(v.edges), "edge")] }

// Edge is a straight segment, its tangent points from Vertex(0) to Vertex(1)
type Edge struct {
	index    int
	vertices [2]*Vertex
	faces    []*Face
	cells    []*Cell
	center   r3.Vec
	tangent  r3.Vec
	length   float64
}

func (e *Edge) GlobalIndex() int     { return e.index }
func (e *Edge) Vertex(i int) *Vertex { return e.vertices[checkLocal(i, 2, "vertex")] }
func (e *Edge) CenterMass() r3.Vec   { return e.center }
func (e *Edge) Diam() float64        { return e.length }
func (e *Edge) Measure() float64     { return e.length }
func (e *Edge) Tangent() r3.Vec      { return e.tangent }
func (e *Edge) NFaces() int          { return len(e.faces) }
func (e *Edge) Face(i int) *Face     { return e.faces[checkLocal(i, len(e.faces), "face")] }
func (e *Edge) NCells() int          { return len(e.cells) }
func (e *Edge) Cell(i int) *Cell     { return e.cells[checkLocal(i, len(e.cells), "cell")] }

// Face is a planar polygon. Edge(i) joins Vertex(i) and Vertex(i+1), the
// normal follows the right hand rule on the vertex loop.
type Face struct {
	index       int
	vertices    []*Vertex
	edges       []*Edge
	cells       []*Cell
	center      r3.Vec
	normal      r3.Vec
	area        float64
	diam        float64
	edgeNormals []r3.Vec
}

func (f *Face) GlobalIndex() int     { return f.index }
func (f *Face) NVertices() int       { return len(f.vertices) }
func (f *Face) Vertex(i int) *Vertex { return f.vertices[checkLocal(i, len(f.vertices), "vertex")] }
func (f *Face) NEdges() int          { return len(f.edges) }
func (f *Face) Edge(i int) *Edge     { return f.edges[checkLocal(i, len(f.edges), "edge")] }
func (f *Face) NCells() int          { return len(f.cells) }
func (f *Face) Cell(i int) *Cell     { return f.cells[checkLocal(i, len(f.cells), "cell")] }
func (f *Face) CenterMass() r3.Vec   { return f.center }
func (f *Face) Normal() r3.Vec       { return f.normal }
func (f *Face) Measure() float64     { return f.area }
func (f *Face) Diam() float64        { return f.diam }
func (f *Face) IsBoundary() bool     { return len(f.cells) == 1 }

// EdgeNormal is the unit normal to Edge(i) lying in the plane of the face and
// pointing out of the face
func (f *Face) EdgeNormal(i int) r3.Vec {
	return f.edgeNormals[checkLocal(i, len(f.edgeNormals), "edge")]
}

type Cell struct {
	index       int
	faces       []*Face
	orientation []int
	vertices    []*Vertex
	edges       []*Edge
	center      r3.Vec
	volume      float64
	diam        float64
}

func (c *Cell) GlobalIndex() int     { return c.index }
func (c *Cell) NFaces() int          { return len(c.faces) }
func (c *Cell) Face(i int) *Face     { return c.faces[checkLocal(i, len(c.faces), "face")] }
func (c *Cell) NVertices() int       { return len(c.vertices) }
func (c *Cell) Vertex(i int) *Vertex { return c.vertices[checkLocal(i, len(c.vertices), "vertex")] }
func (c *Cell) NEdges() int          { return len(c.edges) }
func (c *Cell) Edge(i int) *Edge     { return c.edges[checkLocal(i, len(c.edges), "edge")] }
func (c *Cell) CenterMass() r3.Vec   { return c.center }
func (c *Cell) Measure() float64     { return c.volume }
func (c *Cell) Diam() float64        { return c.diam }

// FaceOrientation is +1 when Face(i).Normal() points out of the cell, -1 otherwise
func (c *Cell) FaceOrientation(i int) int {
	return c.orientation[checkLocal(i, len(c.orientation), "face")]
}

// FaceNormal is the unit normal to Face(i) pointing out of the cell
func (c *Cell) FaceNormal(i int) r3.Vec {
	return r3.Scale(float64(c.FaceOrientation(i)), c.faces[i].normal)
}

// LocalFaceIndex returns the position of a face in the cell's face list, or -1
func (c *Cell) LocalFaceIndex(f *Face) int {
	for i, ff := range c.faces {
		if ff == f {
			return i
		}
	}
	return -1
}

func checkLocal(i, n int, what string) int {
	if i < 0 || i >= n {
		panic(fmt.Errorf("local %s index %d out of range [0,%d)", what, i, n))
	}
	return i
}
