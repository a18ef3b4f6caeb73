package basis

import (
	"strings"

	"github.com/pkg/errors"
)

// Choice selects between the raw monomials and their L2 orthonormalization
type Choice uint8

const (
	Monomial Choice = iota
	Orthonormal
)

func (c Choice) String() string {
	switch c {
	case Monomial:
		return "Mon"
	case Orthonormal:
		return "ON"
	default:
		return "Unknown"
	}
}

func ParseChoice(label string) (c Choice, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "mon", "monomial", "":
		return Monomial, nil
	case "on", "orthonormal":
		return Orthonormal, nil
	}
	err = errors.Wrapf(ErrUnknownChoice, "label %q", label)
	return
}
