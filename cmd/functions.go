package cmd

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// TestFunction builds a scalar field from the Constants of the input file
type TestFunction func(c map[string]float64) func(x r3.Vec) float64

func constant(c map[string]float64, name string, def float64) float64 {
	if v, ok := c[name]; ok {
		return v
	}
	return def
}

var testFunctions = map[string]TestFunction{
	"constant": func(c map[string]float64) func(x r3.Vec) float64 {
		a := constant(c, "a", 1)
		return func(x r3.Vec) float64 { return a }
	},
	"affine": func(c map[string]float64) func(x r3.Vec) float64 {
		a, b := constant(c, "a", 1), constant(c, "b", 1)
		return func(x r3.Vec) float64 { return a + b*(x.X-2*x.Y+3*x.Z) }
	},
	"quadratic": func(c map[string]float64) func(x r3.Vec) float64 {
		a := constant(c, "a", 1)
		return func(x r3.Vec) float64 { return a * (x.X*x.X + x.Y*x.Z - x.Z*x.Z) }
	},
	"sinsinsin": func(c map[string]float64) func(x r3.Vec) float64 {
		k := constant(c, "k", 1) * math.Pi
		return func(x r3.Vec) float64 { return math.Sin(k*x.X) * math.Sin(k*x.Y) * math.Sin(k*x.Z) }
	},
	"exp": func(c map[string]float64) func(x r3.Vec) float64 {
		a := constant(c, "a", 1)
		return func(x r3.Vec) float64 { return math.Exp(a * (x.X + x.Y + x.Z)) }
	},
}

func NewTestFunction(name string, c map[string]float64) (f func(x r3.Vec) float64, err error) {
	tf, ok := testFunctions[name]
	if !ok {
		names := make([]string, 0, len(testFunctions))
		for k := range testFunctions {
			names = append(names, k)
		}
		sort.Strings(names)
		err = fmt.Errorf("unknown test function %q, have %v", name, names)
		return
	}
	return tf(c), nil
}
