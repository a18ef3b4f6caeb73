package basis

import "errors"

var (
	ErrNumericalInstability = errors.New("gohho: numerical instability, increase the quadrature degree")
	ErrUnknownChoice        = errors.New("gohho: unknown basis choice")
)
