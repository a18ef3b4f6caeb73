package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/mesh"
)

// Gambit element type codes
const (
	gambitBrick   = 4
	gambitWedge   = 5
	gambitTet     = 6
	gambitPyramid = 7
)

// Gambit orders the corners of quadrilaterals tensor-wise, the mesh face
// tables walk them around the perimeter
var (
	brickOrder   = []int{0, 1, 3, 2, 4, 5, 7, 6}
	pyramidOrder = []int{0, 1, 3, 2, 4}
)

// ReadGambit3d reads the nodes and the volume elements of a Gambit neutral
// file. Material groups and boundary sets are skipped, the boundary is
// recovered from the mesh topology.
func ReadGambit3d(filename string, verbose bool) (m *mesh.Mesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading Gambit Neutral file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		return nil, errors.Wrapf(err, "unable to open file %s", filename)
	}
	defer file.Close()
	return ParseGambit3d(file, verbose)
}

func ParseGambit3d(r io.Reader, verbose bool) (m *mesh.Mesh, err error) {
	var (
		reader   = bufio.NewReader(r)
		vertices []r3.Vec
		elements [][]int
		elTypes  []mesh.ElementType
	)
	// Skip first six lines
	if err = skipLines(6, reader); err != nil {
		return
	}
	Nv, K, Nmats, Nbcs, Nsd, err := ReadHeader(reader)
	if err != nil {
		return
	}
	if verbose {
		fmt.Printf("Nv = %d, K = %d\n", Nv, K)
		fmt.Printf("Nmats = %d, Nbcs = %d\n%d space dimensions\n", Nmats, Nbcs, Nsd)
	}
	if Nsd != 3 {
		return nil, errors.Errorf("need 3 space dimensions, have %d", Nsd)
	}
	if err = skipLines(2, reader); err != nil {
		return
	}
	if vertices, err = Read3DVertices(Nv, reader); err != nil {
		return
	}
	if err = skipLines(2, reader); err != nil {
		return
	}
	if elements, elTypes, err = ReadElements(K, Nv, reader); err != nil {
		return
	}
	if m, err = mesh.NewMeshFromElements(vertices, elements, elTypes); err != nil {
		return nil, errors.Wrap(err, "building mesh from Gambit elements")
	}
	if verbose {
		fmt.Println(m.PrintStatistics())
	}
	return
}

func ReadHeader(reader *bufio.Reader) (Nv, K, Nmats, Nbcs, Nsd int, err error) {
	/*
		Nv      // num nodes in mesh
		K       // num elements
		Nmats   // num material groups
		Nbcs    // num boundary groups
		Nsd;    // num space dimensions
	*/
	var (
		line   string
		n, dum int
	)
	if line, err = getLine(reader); err != nil {
		return
	}
	nargs := 6
	if n, err = fmt.Sscanf(line, "%d %d %d %d %d %d", &Nv, &K, &Nmats, &Nbcs, &Nsd, &dum); err != nil || n < nargs {
		err = errors.Errorf("read fewer than %d dimensions, read %d, line: %s", nargs, n, line)
	}
	return
}

func Read3DVertices(Nv int, reader *bufio.Reader) (V []r3.Vec, err error) {
	var (
		line   string
		n, ind int
		x      r3.Vec
	)
	nargs := 4
	V = make([]r3.Vec, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		if n, err = fmt.Sscanf(line, "%d %f %f %f", &ind, &x.X, &x.Y, &x.Z); err != nil || n < nargs {
			return nil, errors.Errorf("read fewer than required dimensions, read %d, need %d, line: %s", n, nargs, line)
		}
		if ind < 1 || ind > Nv {
			return nil, errors.Errorf("node index %d out of range [1,%d]", ind, Nv)
		}
		V[ind-1] = x
	}
	return
}

// ReadElements reads K element records, each of which may continue on the
// following lines when it has more nodes than fit on one:
//
//	1  6  4      248     247     385     265
//	2  4  8        1       2       3       4       5       6       7
//	               8
func ReadElements(K, Nv int, reader *bufio.Reader) (EToV [][]int, elTypes []mesh.ElementType, err error) {
	var (
		line   string
		fields []string
	)
	EToV = make([][]int, K)
	elTypes = make([]mesh.ElementType, K)
	for i := 0; i < K; i++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		fields = strings.Fields(line)
		if len(fields) < 3 {
			return nil, nil, errors.Errorf("short element record: %s", line)
		}
		var ind, typ, nn int
		if ind, err = strconv.Atoi(fields[0]); err != nil {
			return
		}
		if typ, err = strconv.Atoi(fields[1]); err != nil {
			return
		}
		if nn, err = strconv.Atoi(fields[2]); err != nil {
			return
		}
		if ind < 1 || ind > K {
			return nil, nil, errors.Errorf("element index %d out of range [1,%d]", ind, K)
		}
		nodes := fields[3:]
		for len(nodes) < nn {
			if line, err = getLine(reader); err != nil {
				return
			}
			nodes = append(nodes, strings.Fields(line)...)
		}
		verts := make([]int, nn)
		for j := range verts {
			if verts[j], err = strconv.Atoi(nodes[j]); err != nil {
				return
			}
			if verts[j] < 1 || verts[j] > Nv {
				return nil, nil, errors.Errorf("element %d references node %d out of range", ind, verts[j])
			}
			verts[j]--
		}
		var order []int
		switch typ {
		case gambitTet:
			elTypes[ind-1] = mesh.Tet
		case gambitWedge:
			elTypes[ind-1] = mesh.Prism
		case gambitBrick:
			elTypes[ind-1], order = mesh.Hex, brickOrder
		case gambitPyramid:
			elTypes[ind-1], order = mesh.Pyramid, pyramidOrder
		default:
			return nil, nil, errors.Errorf("element %d has unsupported Gambit type %d", ind, typ)
		}
		if nn != elTypes[ind-1].GetNumNodes() {
			return nil, nil, errors.Errorf("element %d of type %s has %d nodes", ind, elTypes[ind-1], nn)
		}
		if order != nil {
			reordered := make([]int, nn)
			for j, o := range order {
				reordered[j] = verts[o]
			}
			verts = reordered
		}
		EToV[ind-1] = verts
	}
	return
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) != 0 {
			return strings.TrimRight(line, "\r"), nil
		}
		if err == io.EOF {
			err = errors.New("early end of file")
		}
		return
	}
	line = strings.TrimRight(line, "\r\n") // Strip away the newline
	return
}

func skipLines(n int, reader *bufio.Reader) (err error) {
	for i := 0; i < n; i++ {
		if _, err = getLine(reader); err != nil {
			return
		}
	}
	return
}
