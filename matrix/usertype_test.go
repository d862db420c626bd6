// Package matrix_test: user-defined types and operators end to end
// through the generic kernel path.
package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

// gauss is a 16-byte user element: a pair of int64 (re, im), after the
// classic Gaussian-integer demo.
func gaussBytes(re, im int64) []byte {
	b := make([]byte, 16)
	core.Int64s(b)[0] = re
	core.Int64s(b)[1] = im
	return b
}

func gaussParts(b []byte) (int64, int64) {
	return core.Int64s(b)[0], core.Int64s(b)[1]
}

func TestUserTypeMatrixMultiply(t *testing.T) {
	t.Parallel()

	gauss, err := core.TypeNew(16, "gauss")
	require.NoError(t, err)

	addOp, err := core.BinaryOpNew(func(z, x, y []byte) {
		xr, xi := gaussParts(x)
		yr, yi := gaussParts(y)
		copy(z, gaussBytes(xr+yr, xi+yi))
	}, gauss, gauss, gauss, "gauss_add")
	require.NoError(t, err)

	mulOp, err := core.BinaryOpNew(func(z, x, y []byte) {
		xr, xi := gaussParts(x)
		yr, yi := gaussParts(y)
		copy(z, gaussBytes(xr*yr-xi*yi, xr*yi+xi*yr))
	}, gauss, gauss, gauss, "gauss_mul")
	require.NoError(t, err)

	monoid, err := core.MonoidNew(addOp, gaussBytes(0, 0))
	require.NoError(t, err)
	ring, err := core.SemiringNew(monoid, mulOp)
	require.NoError(t, err)

	a, err := matrix.New(gauss, 2, 2)
	require.NoError(t, err)
	// [ 1+i   0 ; 0   2 ]
	require.NoError(t, a.SetElement(gaussBytes(1, 1), 0, 0))
	require.NoError(t, a.SetElement(gaussBytes(2, 0), 1, 1))

	c, err := matrix.New(gauss, 2, 2)
	require.NoError(t, err)
	require.NoError(t, matrix.MxM(c, nil, nil, ring, a, a, nil))

	v, ok, err := c.ExtractElement(0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	re, im := gaussParts(v.([]byte))
	require.Equal(t, int64(0), re) // (1+i)² = 2i
	require.Equal(t, int64(2), im)

	v, ok, err = c.ExtractElement(1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	re, im = gaussParts(v.([]byte))
	require.Equal(t, int64(4), re)
	require.Equal(t, int64(0), im)
}

func TestUserTypeRejectsForeignValues(t *testing.T) {
	t.Parallel()

	gauss, err := core.TypeNew(16, "gauss2")
	require.NoError(t, err)
	m, err := matrix.New(gauss, 2, 2)
	require.NoError(t, err)

	require.ErrorIs(t, m.SetElement(int64(3), 0, 0), core.ErrDomainMismatch)
	require.ErrorIs(t, m.SetElement(make([]byte, 8), 0, 0), core.ErrDomainMismatch)

	other, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	require.NoError(t, other.SetElement(int64(1), 0, 0))
	c, err := matrix.New(gauss, 2, 2)
	require.NoError(t, err)

	addOp, err := core.BinaryOpNew(func(z, x, y []byte) { copy(z, x) },
		gauss, gauss, gauss, "keep")
	require.NoError(t, err)
	monoid, err := core.MonoidNew(addOp, make([]byte, 16))
	require.NoError(t, err)
	ring, err := core.SemiringNew(monoid, addOp)
	require.NoError(t, err)

	// A user semiring over an int64 operand is a domain mismatch.
	require.ErrorIs(t, matrix.MxM(c, nil, nil, ring, other, other, nil),
		core.ErrDomainMismatch)
}

func TestUserTypeApplyAndReduce(t *testing.T) {
	t.Parallel()

	gauss, err := core.TypeNew(16, "gauss3")
	require.NoError(t, err)

	conj, err := core.UnaryOpNew(func(z, x []byte) {
		re, im := gaussParts(x)
		copy(z, gaussBytes(re, -im))
	}, gauss, gauss, "conj")
	require.NoError(t, err)

	a, err := matrix.New(gauss, 2, 2)
	require.NoError(t, err)
	require.NoError(t, a.SetElement(gaussBytes(3, 4), 0, 1))

	c, err := matrix.New(gauss, 2, 2)
	require.NoError(t, err)
	require.NoError(t, matrix.Apply(c, nil, nil, conj, a, nil))
	v, ok, err := c.ExtractElement(0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	re, im := gaussParts(v.([]byte))
	require.Equal(t, int64(3), re)
	require.Equal(t, int64(-4), im)

	addOp, err := core.BinaryOpNew(func(z, x, y []byte) {
		xr, xi := gaussParts(x)
		yr, yi := gaussParts(y)
		copy(z, gaussBytes(xr+yr, xi+yi))
	}, gauss, gauss, gauss, "gauss_add")
	require.NoError(t, err)
	monoid, err := core.MonoidNew(addOp, gaussBytes(0, 0))
	require.NoError(t, err)

	require.NoError(t, a.SetElement(gaussBytes(1, 1), 1, 0))
	s, err := matrix.ReduceToScalar(monoid, a, nil)
	require.NoError(t, err)
	re, im = gaussParts(s.Value().([]byte))
	require.Equal(t, int64(4), re)
	require.Equal(t, int64(5), im)
}
