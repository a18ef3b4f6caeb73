package mesh

// ElementType selects the face table used to turn element connectivity into
// polyhedral cells
type ElementType int

const (
	Tet ElementType = iota
	Hex
	Prism
	Pyramid
)

func (e ElementType) String() string {
	names := []string{"Tet", "Hex", "Prism", "Pyramid"}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// ParseElementType accepts the lower or mixed case element names
func ParseElementType(name string) (e ElementType, ok bool) {
	switch name {
	case "tet", "Tet", "tetrahedron":
		return Tet, true
	case "hex", "Hex", "hexahedron":
		return Hex, true
	case "prism", "Prism", "wedge":
		return Prism, true
	case "pyramid", "Pyramid":
		return Pyramid, true
	}
	return
}

// GetNumNodes returns the number of corner vertices for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return 0
	}
}

// GetElementFaces returns the faces of an element as vertex loops
func GetElementFaces(elemType ElementType, vertices []int) [][]int {
	v := vertices
	switch elemType {
	case Tet:
		return [][]int{
			{v[0], v[2], v[1]}, // Face 0
			{v[0], v[1], v[3]}, // Face 1
			{v[0], v[3], v[2]}, // Face 2
			{v[1], v[2], v[3]}, // Face 3
		}
	case Hex:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // Face 0 (bottom)
			{v[4], v[5], v[6], v[7]}, // Face 1 (top)
			{v[0], v[1], v[5], v[4]}, // Face 2
			{v[1], v[2], v[6], v[5]}, // Face 3
			{v[2], v[3], v[7], v[6]}, // Face 4
			{v[3], v[0], v[4], v[7]}, // Face 5
		}
	case Prism:
		return [][]int{
			{v[0], v[2], v[1]},       // Face 0 (bottom tri)
			{v[3], v[4], v[5]},       // Face 1 (top tri)
			{v[0], v[1], v[4], v[3]}, // Face 2 (quad)
			{v[1], v[2], v[5], v[4]}, // Face 3 (quad)
			{v[2], v[0], v[3], v[5]}, // Face 4 (quad)
		}
	case Pyramid:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // Face 0 (base quad)
			{v[0], v[1], v[4]},       // Face 1 (tri)
			{v[1], v[2], v[4]},       // Face 2 (tri)
			{v[2], v[3], v[4]},       // Face 3 (tri)
			{v[3], v[0], v[4]},       // Face 4 (tri)
		}
	default:
		return [][]int{}
	}
}
