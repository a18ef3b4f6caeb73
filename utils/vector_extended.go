package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			panic(fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0])))
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{
		V:     v,
		DataP: v.RawVector().Data,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.DataP[i] }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return len(v.DataP) }

func (v Vector) Set(i int, val float64) Vector { // Changes receiver
	v.DataP[i] = val
	return v
}

func (v Vector) Copy() (R Vector) {
	var (
		data = make([]float64, v.Len())
	)
	copy(data, v.DataP)
	return NewVector(len(data), data)
}

// Segment returns a copy of the n entries starting at offset
func (v Vector) Segment(offset, n int) (seg []float64) {
	if offset < 0 || offset+n > v.Len() {
		panic(fmt.Errorf("segment [%d,%d) out of range for vector of length %d", offset, offset+n, v.Len()))
	}
	seg = make([]float64, n)
	copy(seg, v.DataP[offset:offset+n])
	return
}

// SetSegment overwrites the entries starting at offset
func (v Vector) SetSegment(offset int, seg []float64) Vector { // Changes receiver
	if offset < 0 || offset+len(seg) > v.Len() {
		panic(fmt.Errorf("segment [%d,%d) out of range for vector of length %d", offset, offset+len(seg), v.Len()))
	}
	copy(v.DataP[offset:], seg)
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	floats.Sub(v.DataP, a.DataP)
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	floats.Scale(a, v.DataP)
	return v
}

func (v Vector) Dot(a Vector) float64 { return floats.Dot(v.DataP, a.DataP) }

func (v Vector) Norm() float64 { return floats.Norm(v.DataP, 2) }

func (v Vector) MaxAbs() (max float64) {
	for _, val := range v.DataP {
		if math.Abs(val) > max {
			max = math.Abs(val)
		}
	}
	return
}
