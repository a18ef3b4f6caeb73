//go:build netlib

package utils

/*
#cgo CFLAGS: -march=native -mavx -mavx2
#cgo LDFLAGS: -lopenblas -llapacke -lgfortran -lm -lpthread
#include <cblas.h>
#include <lapacke.h>
*/
import "C"

import (
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Gram products and Cholesky solves route through gonum's blas64, building
// with -tags netlib swaps in OpenBLAS underneath them.
func init() {
	blas64.Use(netblas.Implementation{})
}
