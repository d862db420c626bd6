// Package matrix_test: apply variants and select.
package matrix_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

func TestApplyUnary(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 3, []tuple{{0, 0, -2}, {1, 2, 3}})
	c, err := matrix.New(core.Int64, 2, 3)
	require.NoError(t, err)
	require.NoError(t, matrix.Apply(c, nil, nil, core.Ainv(core.Int64), a, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 2}, {1, 2, -3}}, tuplesOf(t, c)))
}

func TestApplyIdentityShallowPath(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 3, []tuple{{0, 1, 4}, {2, 2, -7}})
	c, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	require.NoError(t, matrix.Apply(c, nil, nil, core.Identity(core.Int64), a, nil))
	require.Empty(t, cmp.Diff(tuplesOf(t, a), tuplesOf(t, c)))

	// Mutating the copy must not write through to the source.
	require.NoError(t, c.SetElement(int64(99), 0, 1))
	v, _, err := a.ExtractElement(0, 1)
	require.NoError(t, err)
	require.Equal(t, int64(4), v)
}

func TestApplyWithTypecast(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 3}, {1, 1, -4}})
	c, err := matrix.New(core.FP64, 2, 2)
	require.NoError(t, err)
	require.NoError(t, matrix.Apply(c, nil, nil, core.Identity(core.Int64), a, nil))
	v, ok, err := c.ExtractElement(1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, -4.0, v)
}

func TestApplyBound(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 10}, {1, 1, 3}})

	// 1st-bound: z = 100 - a.
	c1, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	hundred, err := core.ScalarFrom(int64(100))
	require.NoError(t, err)
	require.NoError(t, matrix.ApplyBinary1st(c1, nil, nil, core.Minus(core.Int64), hundred, a, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 90}, {1, 1, 97}}, tuplesOf(t, c1)))

	// 2nd-bound: z = a * 3.
	c2, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	three, err := core.ScalarFrom(int64(3))
	require.NoError(t, err)
	require.NoError(t, matrix.ApplyBinary2nd(c2, nil, nil, core.Times(core.Int64), a, three, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 30}, {1, 1, 9}}, tuplesOf(t, c2)))
}

func TestApplyIndexOp(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 3, []tuple{{0, 0, 5}, {1, 2, 5}, {2, 1, 5}})
	c, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	zero, err := core.ScalarFrom(int64(0))
	require.NoError(t, err)
	require.NoError(t, matrix.ApplyIndexOp(c, nil, nil, core.RowIndex(core.Int64), a, zero, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 0}, {1, 2, 1}, {2, 1, 2}}, tuplesOf(t, c)))
}

func TestSelectTril(t *testing.T) {
	t.Parallel()

	var ts []tuple
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			ts = append(ts, tuple{i, j, int64(10*i + j)})
		}
	}
	a := buildInt64(t, 4, 4, ts)
	c, err := matrix.New(core.Int64, 4, 4)
	require.NoError(t, err)
	zero, err := core.ScalarFrom(int64(0))
	require.NoError(t, err)
	require.NoError(t, matrix.Select(c, nil, nil, core.Tril(core.Int64), a, zero, nil))

	got := tuplesOf(t, c)
	require.Len(t, got, 10)
	for _, tp := range got {
		require.LessOrEqual(t, tp.C, tp.R) // lower triangle only
	}
}

func TestSelectValuePredicate(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 3, []tuple{{0, 0, -5}, {1, 1, 0}, {2, 2, 7}, {0, 2, 3}})
	c, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	two, err := core.ScalarFrom(int64(2))
	require.NoError(t, err)
	require.NoError(t, matrix.Select(c, nil, nil, core.ValueGT(core.Int64), a, two, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 2, 3}, {2, 2, 7}}, tuplesOf(t, c)))
}

func TestSelectOffdiagOnIso(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	require.NoError(t, m.Build(
		[]int{0, 1, 2, 0}, []int{0, 1, 2, 2}, []int64{4, 4, 4, 4}, nil))
	require.True(t, m.Iso())

	c, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	zero, err := core.ScalarFrom(int64(0))
	require.NoError(t, err)
	require.NoError(t, matrix.Select(c, nil, nil, core.Offdiag(core.Int64), m, zero, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 2, 4}}, tuplesOf(t, c)))
}

func TestSelectRejectsNonBoolPredicate(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 1}})
	c, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	zero, err := core.ScalarFrom(int64(0))
	require.NoError(t, err)
	require.ErrorIs(t,
		matrix.Select(c, nil, nil, core.RowIndex(core.Int64), a, zero, nil),
		core.ErrDomainMismatch)
}
