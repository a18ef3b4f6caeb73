package quadrature

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Node is a quadrature point and its weight
type Node struct {
	X r3.Vec
	W float64
}

// Rule is an ordered sequence of nodes
type Rule []Node

func (r Rule) Len() int { return len(r) }

// Integrate sums w_q f(x_q) in node order
func (r Rule) Integrate(f func(x r3.Vec) float64) (sum float64) {
	for _, n := range r {
		sum += n.W * f(n.X)
	}
	return
}

// Measure is the sum of the weights
func (r Rule) Measure() (sum float64) {
	for _, n := range r {
		sum += n.W
	}
	return
}

// refNode is a node on a reference simplex in barycentric-free coordinates
type refNode struct {
	x [3]float64
	w float64
}

var (
	refLock sync.Mutex
	refTets = make(map[int][]refNode)
	refTris = make(map[int][]refNode)
	refSegs = make(map[int][]refNode)
)

func pointsFor(doe int) int {
	if doe < 0 {
		doe = 0
	}
	return doe/2 + 1
}

// referenceTet is a collapsed coordinate product rule on the simplex
// {x,y,z >= 0, x+y+z <= 1} with weights summing to 1/6
func referenceTet(doe int) []refNode {
	n := pointsFor(doe)
	refLock.Lock()
	defer refLock.Unlock()
	if r, ok := refTets[n]; ok {
		return r
	}
	var (
		a, wa = collapsed(2, n)
		b, wb = collapsed(1, n)
		c, wc = collapsed(0, n)
		r     = make([]refNode, 0, n*n*n)
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				r = append(r, refNode{
					x: [3]float64{
						a[i],
						(1 - a[i]) * b[j],
						(1 - a[i]) * (1 - b[j]) * c[k],
					},
					w: wa[i] * wb[j] * wc[k],
				})
			}
		}
	}
	refTets[n] = r
	return r
}

// referenceTri is the rule on {x,y >= 0, x+y <= 1} with weights summing to 1/2
func referenceTri(doe int) []refNode {
	n := pointsFor(doe)
	refLock.Lock()
	defer refLock.Unlock()
	if r, ok := refTris[n]; ok {
		return r
	}
	var (
		a, wa = collapsed(1, n)
		b, wb = collapsed(0, n)
		r     = make([]refNode, 0, n*n)
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r = append(r, refNode{
				x: [3]float64{a[i], (1 - a[i]) * b[j], 0},
				w: wa[i] * wb[j],
			})
		}
	}
	refTris[n] = r
	return r
}

// referenceSegment is Gauss-Legendre on [0,1]
func referenceSegment(doe int) []refNode {
	n := pointsFor(doe)
	refLock.Lock()
	defer refLock.Unlock()
	if r, ok := refSegs[n]; ok {
		return r
	}
	a, wa := collapsed(0, n)
	r := make([]refNode, n)
	for i := 0; i < n; i++ {
		r[i] = refNode{x: [3]float64{a[i], 0, 0}, w: wa[i]}
	}
	refSegs[n] = r
	return r
}

// TetrahedronRule is exact for polynomials of degree doe on the tetrahedron
// v0 v1 v2 v3, the vertex order does not matter
func TetrahedronRule(v0, v1, v2, v3 r3.Vec, doe int) (r Rule) {
	var (
		e1, e2, e3 = r3.Sub(v1, v0), r3.Sub(v2, v0), r3.Sub(v3, v0)
		jac        = math.Abs(r3.Dot(e1, r3.Cross(e2, e3)))
		ref        = referenceTet(doe)
	)
	r = make(Rule, len(ref))
	for q, rn := range ref {
		x := r3.Add(v0, r3.Add(r3.Scale(rn.x[0], e1), r3.Add(r3.Scale(rn.x[1], e2), r3.Scale(rn.x[2], e3))))
		r[q] = Node{X: x, W: rn.w * jac}
	}
	return
}

// TriangleRule is exact for polynomials of degree doe on the triangle v0 v1 v2
func TriangleRule(v0, v1, v2 r3.Vec, doe int) (r Rule) {
	var (
		e1, e2 = r3.Sub(v1, v0), r3.Sub(v2, v0)
		jac    = r3.Norm(r3.Cross(e1, e2))
		ref    = referenceTri(doe)
	)
	r = make(Rule, len(ref))
	for q, rn := range ref {
		x := r3.Add(v0, r3.Add(r3.Scale(rn.x[0], e1), r3.Scale(rn.x[1], e2)))
		r[q] = Node{X: x, W: rn.w * jac}
	}
	return
}

// SegmentRule is exact for polynomials of degree doe on the segment [a,b]
func SegmentRule(a, b r3.Vec, doe int) (r Rule) {
	var (
		e   = r3.Sub(b, a)
		jac = r3.Norm(e)
		ref = referenceSegment(doe)
	)
	r = make(Rule, len(ref))
	for q, rn := range ref {
		r[q] = Node{X: r3.Add(a, r3.Scale(rn.x[0], e)), W: rn.w * jac}
	}
	return
}
