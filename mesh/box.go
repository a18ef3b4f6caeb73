package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

type BoxOptions struct {
	Type  ElementType
	N     [3]int // Number of cubes in each direction
	Lo    r3.Vec
	Hi    r3.Vec
	Shear float64 // x += Shear*y, y += Shear*z, applied after scaling to [Lo,Hi]
}

// NewBoxMesh subdivides a box into N[0]xN[1]xN[2] cubes, each cube is either a
// hex, 6 tets sharing the main diagonal, or 2 prisms split along the xy diagonal
func NewBoxMesh(opts BoxOptions) (m *Mesh, err error) {
	var (
		nx, ny, nz = opts.N[0], opts.N[1], opts.N[2]
		lo, hi     = opts.Lo, opts.Hi
		vertices   []r3.Vec
		elements   [][]int
		elTypes    []ElementType
	)
	if nx < 1 || ny < 1 || nz < 1 {
		err = fmt.Errorf("box subdivision must be positive, have %v", opts.N)
		return
	}
	if hi.X <= lo.X || hi.Y <= lo.Y || hi.Z <= lo.Z {
		err = fmt.Errorf("box corners are inverted or flat: lo = %v, hi = %v", lo, hi)
		return
	}
	vIndex := func(i, j, k int) int {
		return i + (nx+1)*(j+(ny+1)*k)
	}
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				x := r3.Vec{
					X: lo.X + (hi.X-lo.X)*float64(i)/float64(nx),
					Y: lo.Y + (hi.Y-lo.Y)*float64(j)/float64(ny),
					Z: lo.Z + (hi.Z-lo.Z)*float64(k)/float64(nz),
				}
				x.X += opts.Shear * x.Y
				x.Y += opts.Shear * x.Z
				vertices = append(vertices, x)
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := [8]int{
					vIndex(i, j, k), vIndex(i+1, j, k), vIndex(i+1, j+1, k), vIndex(i, j+1, k),
					vIndex(i, j, k+1), vIndex(i+1, j, k+1), vIndex(i+1, j+1, k+1), vIndex(i, j+1, k+1),
				}
				switch opts.Type {
				case Hex:
					elements = append(elements, v[:])
					elTypes = append(elTypes, Hex)
				case Tet:
					elements = append(elements,
						[]int{v[0], v[1], v[2], v[6]},
						[]int{v[0], v[2], v[3], v[6]},
						[]int{v[0], v[3], v[7], v[6]},
						[]int{v[0], v[7], v[4], v[6]},
						[]int{v[0], v[4], v[5], v[6]},
						[]int{v[0], v[5], v[1], v[6]},
					)
					for n := 0; n < 6; n++ {
						elTypes = append(elTypes, Tet)
					}
				case Prism:
					elements = append(elements,
						[]int{v[0], v[1], v[2], v[4], v[5], v[6]},
						[]int{v[0], v[2], v[3], v[4], v[6], v[7]},
					)
					elTypes = append(elTypes, Prism, Prism)
				default:
					err = fmt.Errorf("box meshes are not available for element type %s", opts.Type)
					return
				}
			}
		}
	}
	return NewMeshFromElements(vertices, elements, elTypes)
}

// NewUnitCubeMesh is a box mesh of [0,1]^3 with n cubes per direction
func NewUnitCubeMesh(et ElementType, n int) (m *Mesh, err error) {
	return NewBoxMesh(BoxOptions{
		Type: et,
		N:    [3]int{n, n, n},
		Lo:   r3.Vec{},
		Hi:   r3.Vec{X: 1, Y: 1, Z: 1},
	})
}
