// Package core_test: monoid and semiring descriptors.
package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
)

func TestMonoidNewValidation(t *testing.T) {
	t.Parallel()

	_, err := core.MonoidNew(nil, 0)
	require.ErrorIs(t, err, core.ErrUninitializedObject)

	// LT has a boolean z over fp64 operands: not a monoid domain.
	_, err = core.MonoidNew(core.LtOp(core.FP64), false)
	require.ErrorIs(t, err, core.ErrDomainMismatch)

	m, err := core.MonoidNew(core.Plus(core.Int64), 0)
	require.NoError(t, err)
	require.Equal(t, core.Int64, m.Type())
	require.Nil(t, m.Terminal())
	require.False(t, m.ShortCircuit())
}

func TestMonoidTerminal(t *testing.T) {
	t.Parallel()

	m := core.MaxMonoid(core.FP64)
	require.True(t, m.ShortCircuit())
	require.Equal(t, math.Inf(-1), core.Float64s(m.Identity())[0])
	require.Equal(t, math.Inf(1), core.Float64s(m.Terminal())[0])

	buf := make([]byte, 16)
	core.Float64s(buf)[0] = 3
	core.Float64s(buf)[1] = math.Inf(1)
	require.False(t, m.TerminalReached(buf, 0))
	require.True(t, m.TerminalReached(buf, 1))
}

func TestIntegerExtremaMonoids(t *testing.T) {
	t.Parallel()

	m := core.MinMonoid(core.Int32)
	require.Equal(t, int32(math.MaxInt32), core.Int32s(m.Identity())[0])
	require.Equal(t, int32(math.MinInt32), core.Int32s(m.Terminal())[0])

	mx := core.MaxMonoid(core.Uint16)
	require.Equal(t, uint16(0), core.Uint16s(mx.Identity())[0])
	require.Equal(t, uint16(math.MaxUint16), core.Uint16s(mx.Terminal())[0])
}

func TestBooleanMonoids(t *testing.T) {
	t.Parallel()

	require.False(t, core.Bools(core.LorMonoid().Identity())[0])
	require.True(t, core.Bools(core.LorMonoid().Terminal())[0])
	require.True(t, core.Bools(core.LandMonoid().Identity())[0])
	require.False(t, core.Bools(core.LandMonoid().Terminal())[0])
	require.Nil(t, core.LxorMonoid().Terminal())

	// Boolean shorthand in the numeric factories.
	require.Equal(t, core.OpLor, core.PlusMonoid(core.Bool).Op().Opcode())
	require.Equal(t, core.OpLand, core.TimesMonoid(core.Bool).Op().Opcode())
}

func TestAnyMonoidShortCircuits(t *testing.T) {
	t.Parallel()

	m := core.AnyMonoid(core.Int64)
	require.True(t, m.ShortCircuit())
	buf := make([]byte, 8)
	core.Int64s(buf)[0] = 42
	require.True(t, m.TerminalReached(buf, 0)) // any value terminates
}

func TestSemiringNewValidation(t *testing.T) {
	t.Parallel()

	_, err := core.SemiringNew(nil, core.Times(core.Int64))
	require.ErrorIs(t, err, core.ErrUninitializedObject)

	// Monoid domain must equal the multiplier's z domain.
	_, err = core.SemiringNew(core.PlusMonoid(core.Int64), core.Times(core.FP64))
	require.ErrorIs(t, err, core.ErrDomainMismatch)

	s, err := core.SemiringNew(core.PlusMonoid(core.Int64), core.Times(core.Int64))
	require.NoError(t, err)
	require.Equal(t, core.Int64, s.ZType())
}

func TestBuiltinSemirings(t *testing.T) {
	t.Parallel()

	require.Equal(t, core.OpPlus, core.PlusTimes(core.FP64).Add().Op().Opcode())
	require.Equal(t, core.OpMin, core.MinPlus(core.FP64).Add().Op().Opcode())
	require.Equal(t, core.OpPair, core.AnyPair(core.Int64).Mult().Opcode())
	require.Equal(t, core.Bool, core.LorLand().ZType())
}
