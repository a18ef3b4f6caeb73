package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const geomTol = 1.e-14

func (m *Mesh) computeGeometry() (err error) {
	for _, e := range m.edges {
		e.computeGeometry()
		if e.length <= geomTol {
			return fmt.Errorf("edge %d has zero length", e.index)
		}
	}
	for _, f := range m.faces {
		if err = f.computeGeometry(); err != nil {
			return
		}
	}
	for _, c := range m.cells {
		if err = c.computeGeometry(); err != nil {
			return
		}
		m.h = math.Max(m.h, c.diam)
	}
	return
}

func (e *Edge) computeGeometry() {
	var (
		x0, x1 = e.vertices[0].coords, e.vertices[1].coords
		d      = r3.Sub(x1, x0)
	)
	e.length = r3.Norm(d)
	e.center = r3.Scale(0.5, r3.Add(x0, x1))
	if e.length > 0 {
		e.tangent = r3.Scale(1/e.length, d)
	}
}

func (f *Face) computeGeometry() (err error) {
	var (
		nv      = len(f.vertices)
		xbar    = vertexAverage(f.vertices)
		areaVec r3.Vec
		subArea = make([]r3.Vec, nv)
	)
	// Fan of triangles about the vertex average
	for i := 0; i < nv; i++ {
		xa, xb := f.vertices[i].coords, f.vertices[(i+1)%nv].coords
		subArea[i] = r3.Scale(0.5, r3.Cross(r3.Sub(xa, xbar), r3.Sub(xb, xbar)))
		areaVec = r3.Add(areaVec, subArea[i])
	}
	if r3.Norm(areaVec) <= geomTol {
		return fmt.Errorf("face %d is degenerate", f.index)
	}
	f.normal = r3.Unit(areaVec)
	var centroid r3.Vec
	for i := 0; i < nv; i++ {
		xa, xb := f.vertices[i].coords, f.vertices[(i+1)%nv].coords
		a := r3.Dot(subArea[i], f.normal)
		f.area += a
		centroid = r3.Add(centroid, r3.Scale(a/3, r3.Add(xbar, r3.Add(xa, xb))))
	}
	f.center = r3.Scale(1/f.area, centroid)
	f.diam = diameter(f.vertices)
	f.edgeNormals = make([]r3.Vec, len(f.edges))
	for i, e := range f.edges {
		nE := r3.Unit(r3.Cross(e.tangent, f.normal))
		if r3.Dot(r3.Sub(e.center, f.center), nE) < 0 {
			nE = r3.Scale(-1, nE)
		}
		f.edgeNormals[i] = nE
	}
	return
}

func (c *Cell) computeGeometry() (err error) {
	var (
		xbar     = vertexAverage(c.vertices)
		centroid r3.Vec
	)
	c.orientation = make([]int, len(c.faces))
	for i, f := range c.faces {
		if r3.Dot(r3.Sub(f.center, xbar), f.normal) >= 0 {
			c.orientation[i] = 1
		} else {
			c.orientation[i] = -1
		}
		fbar := vertexAverage(f.vertices)
		nv := len(f.vertices)
		for j := 0; j < nv; j++ {
			xa, xb := f.vertices[j].coords, f.vertices[(j+1)%nv].coords
			vol := math.Abs(r3.Dot(r3.Sub(fbar, xbar), r3.Cross(r3.Sub(xa, fbar), r3.Sub(xb, fbar)))) / 6
			c.volume += vol
			centroid = r3.Add(centroid,
				r3.Scale(vol/4, r3.Add(r3.Add(xbar, fbar), r3.Add(xa, xb))))
		}
	}
	if c.volume <= geomTol {
		return fmt.Errorf("cell %d is degenerate", c.index)
	}
	c.center = r3.Scale(1/c.volume, centroid)
	c.diam = diameter(c.vertices)
	return
}

func vertexAverage(vs []*Vertex) (xbar r3.Vec) {
	for _, v := range vs {
		xbar = r3.Add(xbar, v.coords)
	}
	return r3.Scale(1/float64(len(vs)), xbar)
}

func diameter(vs []*Vertex) (d float64) {
	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			d = math.Max(d, r3.Norm(r3.Sub(vs[i].coords, vs[j].coords)))
		}
	}
	return
}
