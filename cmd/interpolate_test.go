package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/InputParameters"
	"github.com/notargets/gohho/utils"
)

func TestRunInterpolate(t *testing.T) {
	csvFile := filepath.Join(t.TempDir(), "study.csv")
	fileInput := []byte(`
Title: Quadratic exactness
FaceDegree: 2
CellDegree: 2
Basis: ON
TestFunction: quadratic
Mesh:
  Type: hex
  Refinements: [1, 2]
ParallelDegree: 2
`)
	var ip InputParameters.HybridParameters
	require.NoError(t, ip.Parse(fileInput))
	ip.CSVFile = csvFile
	var out bytes.Buffer
	results, err := RunInterpolate(&ip, utils.NewNopLogger(), &out)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.InDelta(t, 0, res.CellL2Error, 1.e-9)
		assert.InDelta(t, 0, res.FaceMaxError, 1.e-9)
	}
	assert.Greater(t, results[0].H, results[1].H)
	assert.Less(t, results[0].NDofs, results[1].NDofs)
	assert.Contains(t, out.String(), "cell L2 err")

	// A second run appends without repeating the header
	_, err = RunInterpolate(&ip, utils.NewNopLogger(), &out)
	require.NoError(t, err)
	f, err := os.Open(csvFile)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "Quadratic exactness", records[1][0])
	assert.Equal(t, "hex", records[4][4])
}

func TestInterpolateConverges(t *testing.T) {
	ip := &InputParameters.HybridParameters{
		Title:          "sin",
		FaceDegree:     1,
		CellDegree:     1,
		Basis:          "Mon",
		TestFunction:   "sinsinsin",
		ParallelDegree: 1,
		Mesh: InputParameters.MeshParameters{
			Type:        "tet",
			Refinements: []int{1, 2},
			Hi:          [3]float64{1, 1, 1},
		},
	}
	var out bytes.Buffer
	results, err := RunInterpolate(ip, utils.NewNopLogger(), &out)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Less(t, results[1].CellL2Error, results[0].CellL2Error)
	assert.Less(t, results[1].FaceMaxError, results[0].FaceMaxError)
}

func TestRunInterpolateErrors(t *testing.T) {
	base := InputParameters.HybridParameters{
		Basis:        "ON",
		TestFunction: "constant",
		Mesh: InputParameters.MeshParameters{
			Type:        "hex",
			Refinements: []int{1},
			Hi:          [3]float64{1, 1, 1},
		},
	}
	var out bytes.Buffer
	bad := base
	bad.Basis = "Legendre"
	_, err := RunInterpolate(&bad, utils.NewNopLogger(), &out)
	assert.Error(t, err)

	bad = base
	bad.Mesh.Type = "octahedron"
	_, err = RunInterpolate(&bad, utils.NewNopLogger(), &out)
	assert.Error(t, err)

	bad = base
	bad.TestFunction = "bessel"
	_, err = RunInterpolate(&bad, utils.NewNopLogger(), &out)
	assert.Error(t, err)

	bad = base
	bad.CellDegree = -2
	_, err = RunInterpolate(&bad, utils.NewNopLogger(), &out)
	assert.Error(t, err)

	bad = base
	bad.Mesh.Refinements = nil
	_, err = RunInterpolate(&bad, utils.NewNopLogger(), &out)
	assert.Error(t, err)
}

func TestTestFunctions(t *testing.T) {
	x := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	f, err := NewTestFunction("sinsinsin", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, f(x), 1.e-14)
	f, err = NewTestFunction("constant", map[string]float64{"a": 3})
	require.NoError(t, err)
	assert.Equal(t, 3., f(x))
	_, err = NewTestFunction("nope", nil)
	assert.Error(t, err)
}

func TestRunInterpolateFromFile(t *testing.T) {
	neutral := `        CONTROL INFO 2.4.6
** GAMBIT NEUTRAL FILE
two tets
PROGRAM:                Gambit     VERSION:  2.4.6
Oct 2026
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         5         2         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.4.6
         1   0.0 0.0 0.0
         2   1.0 0.0 0.0
         3   0.0 1.0 0.0
         4   0.0 0.0 1.0
         5   0.0 0.0 -1.0
ENDOFSECTION
      ELEMENTS/CELLS 2.4.6
       1  6  4        1       2       3       4
       2  6  4        1       3       2       5
ENDOFSECTION
`
	dir := t.TempDir()
	meshFile := filepath.Join(dir, "tets.neu")
	require.NoError(t, os.WriteFile(meshFile, []byte(neutral), 0644))
	ip := &InputParameters.HybridParameters{
		Title:        "file",
		FaceDegree:   1,
		CellDegree:   0,
		Basis:        "ON",
		TestFunction: "affine",
		CSVFile:      filepath.Join(dir, "study.csv"),
		Mesh:         InputParameters.MeshParameters{File: meshFile},
	}
	var out bytes.Buffer
	results, err := RunInterpolate(ip, utils.NewNopLogger(), &out)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].N)
	// Faces carry degree 1, affine data is reproduced exactly there
	assert.InDelta(t, 0, results[0].FaceMaxError, 1.e-10)
	assert.Greater(t, results[0].CellL2Error, 1.e-3)

	f, err := os.Open(ip.CSVFile)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "tets.neu", records[1][4])
}

func TestWithProfile(t *testing.T) {
	failed := errors.New("run failed")
	dir := t.TempDir()
	err := withProfile(true, dir, func() error { return failed })
	assert.Equal(t, failed, err)
	// the profile must be flushed even though the run failed
	info, statErr := os.Stat(filepath.Join(dir, "cpu.pprof"))
	require.NoError(t, statErr)
	assert.True(t, info.Size() > 0)

	off := t.TempDir()
	require.NoError(t, withProfile(false, off, func() error { return nil }))
	_, statErr = os.Stat(filepath.Join(off, "cpu.pprof"))
	assert.True(t, os.IsNotExist(statErr))
}
