// Package core_test: element type descriptors, views, and the cast
// table.
package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
)

func TestTypeDescriptors(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, core.Bool.Size())
	require.Equal(t, 8, core.Int64.Size())
	require.Equal(t, 8, core.FP64.Size())
	require.Equal(t, core.FP32Code, core.FP32.Code())
	require.True(t, core.Uint16.Builtin())
	require.Equal(t, "int32", core.Int32.String())
}

func TestTypeNewValidation(t *testing.T) {
	t.Parallel()

	_, err := core.TypeNew(0, "zero")
	require.ErrorIs(t, err, core.ErrInvalidValue) // zero size rejected

	_, err = core.TypeNew(16, "")
	require.ErrorIs(t, err, core.ErrInvalidValue) // empty name rejected

	u, err := core.TypeNew(16, "pair")
	require.NoError(t, err)
	require.False(t, u.Builtin())
	require.Equal(t, 16, u.Size())
}

func TestTypeCompatibility(t *testing.T) {
	t.Parallel()

	require.True(t, core.Int8.Compatible(core.FP64))  // built-ins all cast
	require.True(t, core.Bool.Compatible(core.Uint64))

	u1, _ := core.TypeNew(4, "u1")
	u2, _ := core.TypeNew(4, "u2")
	require.True(t, u1.Compatible(u1))  // user type matches itself
	require.False(t, u1.Compatible(u2)) // but not another user type
	require.False(t, u1.Compatible(core.Int32))
}

func TestCastPreservesIntegerPrecision(t *testing.T) {
	t.Parallel()

	// A uint64 above 2^53 must not round-trip through float64.
	src := make([]byte, 8)
	core.Uint64s(src)[0] = math.MaxUint64 - 1
	dst := make([]byte, 8)
	core.Cast(core.Int64, dst, 0, core.Uint64, src, 0)
	require.Equal(t, int64(-2), core.Int64s(dst)[0]) // two's-complement wrap, not rounding
}

func TestCastTruncatesTowardZero(t *testing.T) {
	t.Parallel()

	src := make([]byte, 8)
	core.Float64s(src)[0] = -2.9
	dst := make([]byte, 4)
	core.Cast(core.Int32, dst, 0, core.FP64, src, 0)
	require.Equal(t, int32(-2), core.Int32s(dst)[0])
}

func TestCastBoolSemantics(t *testing.T) {
	t.Parallel()

	src := make([]byte, 8)
	core.Float64s(src)[0] = 0.25
	dst := make([]byte, 1)
	core.Cast(core.Bool, dst, 0, core.FP64, src, 0)
	require.True(t, core.Bools(dst)[0]) // any nonzero is true

	core.Float64s(src)[0] = 0
	core.Cast(core.Bool, dst, 0, core.FP64, src, 0)
	require.False(t, core.Bools(dst)[0])

	bsrc := []byte{1}
	fdst := make([]byte, 8)
	core.Cast(core.FP64, fdst, 0, core.Bool, bsrc, 0)
	require.Equal(t, 1.0, core.Float64s(fdst)[0])
}

func TestCastFuncSameTypeCopies(t *testing.T) {
	t.Parallel()

	fn := core.CastFunc(core.Int16, core.Int16)
	src := make([]byte, 4)
	core.Int16s(src)[1] = -7
	dst := make([]byte, 4)
	fn(dst, 0, src, 1)
	require.Equal(t, int16(-7), core.Int16s(dst)[0])
}

func TestScalarRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := core.ScalarFrom(int32(-5))
	require.NoError(t, err)
	require.Equal(t, core.Int32, s.Type())
	require.Equal(t, int32(-5), s.Value())

	// ScalarOf casts into the requested domain.
	f, err := core.ScalarOf(core.FP64, 3)
	require.NoError(t, err)
	require.Equal(t, 3.0, f.Value())
	require.Equal(t, 3.0, f.Float64())

	_, err = core.ScalarFrom("nope")
	require.ErrorIs(t, err, core.ErrDomainMismatch)
}

func TestScalarUserType(t *testing.T) {
	t.Parallel()

	u, _ := core.TypeNew(4, "quad")
	_, err := core.ScalarOf(u, int64(1))
	require.ErrorIs(t, err, core.ErrDomainMismatch) // user scalars take raw bytes

	s, err := core.ScalarOf(u, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, s.Value())
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	b := make([]byte, 16)
	core.Float64s(b)[0] = 0
	core.Float64s(b)[1] = -0.5
	require.False(t, core.Truthy(core.FP64, b, 0))
	require.True(t, core.Truthy(core.FP64, b, 1))

	u, _ := core.TypeNew(2, "u2")
	require.False(t, core.Truthy(u, []byte{0, 0}, 0))
	require.True(t, core.Truthy(u, []byte{0, 0, 0, 9}, 1))
}
