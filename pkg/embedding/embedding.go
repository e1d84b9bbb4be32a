// Package embedding provides the numeric primitives for speaker
// embeddings: fixed-length vectors, cosine similarity, arithmetic
// mean aggregation, and L2 normalization.
//
// All functions are pure. Vectors are never mutated after creation
// except through the explicit in-place Normalize.
package embedding

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput is the base error for malformed numeric input.
// All validation errors in this package wrap it.
var ErrInvalidInput = errors.New("embedding: invalid input")

var (
	// ErrZeroNorm is returned when a vector has zero L2 norm.
	ErrZeroNorm = fmt.Errorf("%w: zero-norm vector", ErrInvalidInput)

	// ErrDimensionMismatch is returned when two vectors have
	// different lengths.
	ErrDimensionMismatch = fmt.Errorf("%w: dimension mismatch", ErrInvalidInput)

	// ErrEmpty is returned when an operation needs at least one vector.
	ErrEmpty = fmt.Errorf("%w: no vectors", ErrInvalidInput)
)

// Vector is a fixed-length speaker embedding.
type Vector []float64

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Cosine computes the cosine similarity between a and b:
// dot(a, b) / (|a| * |b|), a value in [-1, 1].
//
// It is symmetric within floating-point tolerance. Returns
// ErrDimensionMismatch if the lengths differ and ErrZeroNorm if
// either vector has zero norm.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmpty
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0, ErrZeroNorm
	}
	return floats.Dot(a, b) / (na * nb), nil
}

// Mean computes the arithmetic mean of the given vectors.
// All vectors must share the same dimension. The input order does
// not affect the result beyond floating-point rounding.
func Mean(vs []Vector) (Vector, error) {
	if len(vs) == 0 {
		return nil, ErrEmpty
	}
	dim := len(vs[0])
	acc := make(Vector, dim)
	for _, v := range vs {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v), dim)
		}
		floats.Add(acc, v)
	}
	floats.Scale(1/float64(len(vs)), acc)
	return acc, nil
}

// Normalize scales v to unit L2 norm in place.
// A zero vector is left unchanged and reported via ErrZeroNorm.
func Normalize(v Vector) error {
	n := floats.Norm(v, 2)
	if n == 0 {
		return ErrZeroNorm
	}
	floats.Scale(1/n, v)
	return nil
}
