package generator

import (
	"errors"
	"fmt"
)

// Generator is an expression that generates a sequence of string values,
// following some distribution(uniform, non-uniform, shuffled deck, etc.)
type Generator interface {
	// NextString generates the next string in the distribution.
	NextString() string
	// LastString returns the previous string generated by the distribution,
	// e.g. the value returned by the last NextString() call.
	LastString() string
}

func NewErrorf(format string, args ...interface{}) error {
	return errors.New(fmt.Sprintf(format, args...))
}
