package InputParameters

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

type MeshParameters struct {
	File        string     `yaml:"File"`        // Gambit neutral file, replaces the box refinements
	Type        string     `yaml:"Type"`        // tet, hex, prism
	Refinements []int      `yaml:"Refinements"` // Cubes per direction, one run per entry
	Lo          [3]float64 `yaml:"Lo"`
	Hi          [3]float64 `yaml:"Hi"`
	Shear       float64    `yaml:"Shear"`
}

// BasisName selects the cell/face/edge basis family. YAML 1.1 reads an
// unquoted ON as a boolean, which is mapped back to "ON" here.
type BasisName string

func (b *BasisName) UnmarshalJSON(data []byte) (err error) {
	var (
		s  string
		on bool
	)
	if err = json.Unmarshal(data, &s); err == nil {
		*b = BasisName(s)
		return
	}
	if err = json.Unmarshal(data, &on); err != nil {
		return fmt.Errorf("Basis must be Mon or ON, have %s", string(data))
	}
	if !on {
		return fmt.Errorf("Basis must be Mon or ON, have %s", string(data))
	}
	*b = "ON"
	return
}

// Parameters obtained from the YAML input file
type HybridParameters struct {
	Title            string             `yaml:"Title"`
	FaceDegree       int                `yaml:"FaceDegree"`
	CellDegree       int                `yaml:"CellDegree"`
	Basis            BasisName          `yaml:"Basis"` // Mon or ON
	QuadratureOffset int                `yaml:"QuadratureOffset"`
	TestFunction     string             `yaml:"TestFunction"`
	Mesh             MeshParameters     `yaml:"Mesh"`
	ParallelDegree   int                `yaml:"ParallelDegree"`
	CSVFile          string             `yaml:"CSVFile"`
	Constants        map[string]float64 `yaml:"Constants"` // Coefficients passed to the test function
}

func (ip *HybridParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Mesh.Hi == [3]float64{} {
		ip.Mesh.Hi = [3]float64{1, 1, 1}
	}
	if len(ip.Mesh.Type) == 0 {
		ip.Mesh.Type = "hex"
	}
	if len(ip.Basis) == 0 {
		ip.Basis = "ON"
	}
	if ip.ParallelDegree < 1 {
		ip.ParallelDegree = 1
	}
	return
}

func (ip *HybridParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Face Degree\n", ip.FaceDegree)
	fmt.Printf("[%d]\t\t\t\t= Cell Degree\n", ip.CellDegree)
	fmt.Printf("[%s]\t\t\t\t= Basis\n", ip.Basis)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Offset\n", ip.QuadratureOffset)
	fmt.Printf("[%s]\t\t\t= Test Function\n", ip.TestFunction)
	if len(ip.Mesh.File) != 0 {
		fmt.Printf("[%s]\t\t= Mesh File\n", ip.Mesh.File)
	} else {
		fmt.Printf("[%s] %v\t\t= Mesh Refinements\n", ip.Mesh.Type, ip.Mesh.Refinements)
		fmt.Printf("%v -> %v\t= Box\n", ip.Mesh.Lo, ip.Mesh.Hi)
		fmt.Printf("%8.5f\t\t= Shear\n", ip.Mesh.Shear)
	}
	keys := make([]string, len(ip.Constants))
	i := 0
	for k := range ip.Constants {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Constants[%s] = %v\n", key, ip.Constants[key])
	}
}
