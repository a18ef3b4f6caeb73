package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gohho/InputParameters"
	"github.com/notargets/gohho/basis"
	"github.com/notargets/gohho/hybridcore"
	"github.com/notargets/gohho/mesh"
	"github.com/notargets/gohho/readfiles"
	"github.com/notargets/gohho/utils"
)

type InterpolateRun struct {
	ICFile string
	CSV    string
}

// StudyResult holds the errors of the interpolant on one refinement
type StudyResult struct {
	N            int
	H            float64
	NDofs        int
	CellL2Error  float64
	FaceMaxError float64
	L2Norm       float64
	H1Norm       float64
	LinfFace     float64
	Elapsed      time.Duration
}

// InterpolateCmd represents the interpolate command
var InterpolateCmd = &cobra.Command{
	Use:   "interpolate",
	Short: "Interpolate a test function over a sequence of box meshes",
	Long: `Interpolate a test function into the hybrid unknowns of a sequence of
box meshes, reporting the cell and face errors and the discrete norms`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		ir := &InterpolateRun{}
		if ir.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		ir.CSV, _ = cmd.Flags().GetString("csvFile")
		ip := processInput(ir)
		err = withProfile(viper.GetBool("profile"), ".", func() (err error) {
			_, err = RunInterpolate(ip, newLogger(), os.Stdout)
			return
		})
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

// withProfile runs fn under a CPU profile written to dir when enabled. The
// profile is stopped before returning, whatever fn returns.
func withProfile(enabled bool, dir string, fn func() error) error {
	if enabled {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir),
			profile.Quiet, profile.NoShutdownHook).Stop()
	}
	return fn()
}

func processInput(ir *InterpolateRun) (ip *InputParameters.HybridParameters) {
	var (
		err error
	)
	if len(ir.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Test Case"
FaceDegree: 1
CellDegree: 1 # -1 reconstructs cell unknowns from faces
Basis: ON # Can be "Mon"
QuadratureOffset: 0
TestFunction: sinsinsin # constant, affine, quadratic, exp
Mesh:
  Type: tet # Can be hex or prism
  Refinements: [1, 2, 4]
  Lo: [0, 0, 0]
  Hi: [1, 1, 1]
  Shear: 0.
ParallelDegree: 4
CSVFile: study.csv
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(ir.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.HybridParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if len(ir.CSV) != 0 {
		ip.CSVFile = ir.CSV
	}
	if np := viper.GetInt("parallel"); np > 0 {
		ip.ParallelDegree = np
	}
	ip.Print()
	return
}

func init() {
	rootCmd.AddCommand(InterpolateCmd)
	InterpolateCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- FaceDegree, CellDegree\n\t- Mesh refinements")
	InterpolateCmd.Flags().StringP("csvFile", "o", "", "append the results to this CSV file, overrides CSVFile from the input file")
}

// RunInterpolate builds one HybridCore per mesh refinement, interpolates the
// test function and prints a line of errors per refinement to w
func RunInterpolate(ip *InputParameters.HybridParameters, logger utils.Logger, w io.Writer) (results []StudyResult, err error) {
	var (
		choice basis.Choice
		meshes []*mesh.Mesh
		f      func(x r3.Vec) float64
	)
	if choice, err = basis.ParseChoice(string(ip.Basis)); err != nil {
		return
	}
	if f, err = NewTestFunction(ip.TestFunction, ip.Constants); err != nil {
		return
	}
	if meshes, err = buildMeshes(ip); err != nil {
		return
	}
	fmt.Fprintf(w, "%6s %12s %8s %14s %14s %14s %14s %10s\n",
		"N", "h", "dofs", "cell L2 err", "face max err", "L2 norm", "H1 norm", "time")
	for i, m := range meshes {
		var (
			hc *hybridcore.HybridCore
			Xh utils.Vector
			n  = i
		)
		if len(ip.Mesh.File) == 0 {
			n = ip.Mesh.Refinements[i]
		}
		start := time.Now()
		hc, err = hybridcore.New(m, ip.FaceDegree, ip.CellDegree, hybridcore.Options{
			Basis:            choice,
			ParallelDegree:   ip.ParallelDegree,
			QuadratureOffset: ip.QuadratureOffset,
			Logger:           logger,
		})
		if err != nil {
			err = errors.Wrapf(err, "building hybrid core with N = %d", n)
			return
		}
		doe := 2*max(hc.K(), hc.Ldeg()) + 2 + ip.QuadratureOffset
		if Xh, err = hc.Interpolate(f, doe); err != nil {
			err = errors.Wrapf(err, "interpolating with N = %d", n)
			return
		}
		res := StudyResult{
			N:            n,
			H:            m.H(),
			NDofs:        hc.NTotalDofs(),
			CellL2Error:  cellL2Error(hc, Xh, f),
			FaceMaxError: faceMaxError(hc, Xh, f),
			L2Norm:       hc.L2Norm(Xh),
			H1Norm:       hc.H1Norm(Xh),
			LinfFace:     hc.LinfFace(Xh),
			Elapsed:      time.Since(start),
		}
		fmt.Fprintf(w, "%6d %12.5e %8d %14.6e %14.6e %14.6e %14.6e %10v\n",
			res.N, res.H, res.NDofs, res.CellL2Error, res.FaceMaxError, res.L2Norm, res.H1Norm,
			res.Elapsed.Round(time.Millisecond))
		results = append(results, res)
	}
	if len(ip.CSVFile) != 0 {
		if err = appendCSV(ip, results); err != nil {
			return
		}
	}
	return
}

// buildMeshes reads the mesh file when one is given, otherwise builds one box
// mesh per refinement
func buildMeshes(ip *InputParameters.HybridParameters) (meshes []*mesh.Mesh, err error) {
	var (
		m  *mesh.Mesh
		et mesh.ElementType
		ok bool
	)
	if len(ip.Mesh.File) != 0 {
		if m, err = readfiles.ReadGambit3d(ip.Mesh.File, false); err != nil {
			return
		}
		return []*mesh.Mesh{m}, nil
	}
	if et, ok = mesh.ParseElementType(ip.Mesh.Type); !ok {
		err = errors.Errorf("unknown mesh element type %q", ip.Mesh.Type)
		return
	}
	if len(ip.Mesh.Refinements) == 0 {
		err = errors.New("no mesh refinements requested")
		return
	}
	lo, hi := ip.Mesh.Lo, ip.Mesh.Hi
	for _, n := range ip.Mesh.Refinements {
		m, err = mesh.NewBoxMesh(mesh.BoxOptions{
			Type:  et,
			N:     [3]int{n, n, n},
			Lo:    r3.Vec{X: lo[0], Y: lo[1], Z: lo[2]},
			Hi:    r3.Vec{X: hi[0], Y: hi[1], Z: hi[2]},
			Shear: ip.Mesh.Shear,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "building mesh with N = %d", n)
		}
		meshes = append(meshes, m)
	}
	return
}

func cellL2Error(hc *hybridcore.HybridCore, Xh utils.Vector, f func(x r3.Vec) float64) float64 {
	var sum float64
	for iT := 0; iT < hc.Mesh().NCells(); iT++ {
		sum += hc.IntegrateOverCell(iT, func(x r3.Vec) float64 {
			e := hc.EvaluateInCell(Xh, iT, x) - f(x)
			return e * e
		})
	}
	return math.Sqrt(sum)
}

func faceMaxError(hc *hybridcore.HybridCore, Xh utils.Vector, f func(x r3.Vec) float64) (emax float64) {
	for iF := 0; iF < hc.Mesh().NFaces(); iF++ {
		hc.QuadratureOverFace(iF, func(q int, x r3.Vec, w float64) {
			emax = math.Max(emax, math.Abs(hc.EvaluateInFace(Xh, iF, x)-f(x)))
		})
	}
	return
}

var csvHeader = []string{"Title", "K", "L", "Basis", "Type", "N", "h", "Dofs",
	"CellL2Error", "FaceMaxError", "L2Norm", "H1Norm"}

func appendCSV(ip *InputParameters.HybridParameters, results []StudyResult) (err error) {
	var (
		f     *os.File
		fresh bool
	)
	if _, err = os.Stat(ip.CSVFile); os.IsNotExist(err) {
		fresh = true
	}
	if f, err = os.OpenFile(ip.CSVFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
		return errors.Wrapf(err, "opening %s", ip.CSVFile)
	}
	defer f.Close()
	cw := csv.NewWriter(f)
	if fresh {
		if err = cw.Write(csvHeader); err != nil {
			return
		}
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'e', 10, 64) }
	meshLabel := ip.Mesh.Type
	if len(ip.Mesh.File) != 0 {
		meshLabel = filepath.Base(ip.Mesh.File)
	}
	for _, res := range results {
		rec := []string{ip.Title, strconv.Itoa(ip.FaceDegree), strconv.Itoa(ip.CellDegree),
			string(ip.Basis), meshLabel, strconv.Itoa(res.N), ff(res.H), strconv.Itoa(res.NDofs),
			ff(res.CellL2Error), ff(res.FaceMaxError), ff(res.L2Norm), ff(res.H1Norm)}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}
