// Package matrix_test: the elementwise engine.
package matrix_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

func TestEwiseAddUnion(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 3, []tuple{{0, 0, 1}, {1, 1, 2}, {2, 0, 3}})
	b := buildInt64(t, 3, 3, []tuple{{0, 0, 10}, {2, 2, 5}})
	c, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	require.NoError(t, matrix.EwiseAdd(c, nil, nil, core.Plus(core.Int64), a, b, nil))

	want := []tuple{{0, 0, 11}, {1, 1, 2}, {2, 0, 3}, {2, 2, 5}}
	require.Empty(t, cmp.Diff(want, tuplesOf(t, c))) // lone entries pass through
}

func TestEwiseMultIntersection(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 3, []tuple{{0, 0, 2}, {1, 1, 3}, {2, 0, 4}})
	b := buildInt64(t, 3, 3, []tuple{{0, 0, 10}, {1, 1, -1}, {2, 2, 5}})
	c, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	require.NoError(t, matrix.EwiseMult(c, nil, nil, core.Times(core.Int64), a, b, nil))

	// absent ⊗ present is absent: (2,0) and (2,2) both drop.
	want := []tuple{{0, 0, 20}, {1, 1, -3}}
	require.Empty(t, cmp.Diff(want, tuplesOf(t, c)))
}

func TestEwiseNonCommutativeOrder(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 10}})
	b := buildInt64(t, 2, 2, []tuple{{0, 0, 4}})
	c, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	require.NoError(t, matrix.EwiseMult(c, nil, nil, core.Minus(core.Int64), a, b, nil))
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 6}}, tuplesOf(t, c)))
}

func TestEwiseMuchDenserMerge(t *testing.T) {
	t.Parallel()

	// One column of a is dense (500 entries), b holds 3: the
	// binary-search case must agree with the plain merge semantics.
	var ta []tuple
	for i := 0; i < 500; i++ {
		ta = append(ta, tuple{i, 0, int64(i)})
	}
	a := buildInt64(t, 500, 1, ta)
	b := buildInt64(t, 500, 1, []tuple{{3, 0, 100}, {250, 0, 100}, {499, 0, 100}})
	c, err := matrix.New(core.Int64, 500, 1)
	require.NoError(t, err)
	require.NoError(t, matrix.EwiseMult(c, nil, nil, core.Plus(core.Int64), a, b, nil))

	want := []tuple{{3, 0, 103}, {250, 0, 350}, {499, 0, 599}}
	require.Empty(t, cmp.Diff(want, tuplesOf(t, c)))
}

func TestEwiseAddWithMaskAndAccum(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 1}, {0, 1, 2}, {1, 0, 3}})
	b := buildInt64(t, 2, 2, []tuple{{0, 0, 4}})
	mask := buildInt64(t, 2, 2, []tuple{{0, 0, 1}, {1, 0, 1}})
	c := buildInt64(t, 2, 2, []tuple{{0, 0, 100}, {1, 1, 200}})

	require.NoError(t, matrix.EwiseAdd(c, mask, core.Plus(core.Int64),
		core.Plus(core.Int64), a, b, nil))

	// Masked cells accumulate; (1,1) sits outside the mask and is kept
	// (no replace); (0,1) is masked out.
	want := []tuple{{0, 0, 105}, {1, 0, 3}, {1, 1, 200}}
	require.Empty(t, cmp.Diff(want, tuplesOf(t, c)))
}

func TestEwiseReplaceDropsUnmasked(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 1}, {1, 1, 2}})
	b := buildInt64(t, 2, 2, []tuple{{1, 1, 5}})
	mask := buildInt64(t, 2, 2, []tuple{{1, 1, 1}})
	c := buildInt64(t, 2, 2, []tuple{{0, 1, 9}})

	require.NoError(t, matrix.EwiseAdd(c, mask, nil, core.Plus(core.Int64), a, b,
		core.NewDescriptor(core.WithReplace())))
	require.Empty(t, cmp.Diff([]tuple{{1, 1, 7}}, tuplesOf(t, c)))
}

func TestEwiseTypecast(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 2, []tuple{{0, 0, 3}})
	b := buildInt64(t, 2, 2, []tuple{{0, 0, 2}})
	c, err := matrix.New(core.FP64, 2, 2)
	require.NoError(t, err)

	// int64 inputs through an fp64 operator into an fp64 output.
	require.NoError(t, matrix.EwiseMult(c, nil, nil, core.Div(core.FP64), a, b, nil))
	v, ok, err := c.ExtractElement(0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1.5, v)
}

func TestEwiseTransposedInput(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 3, []tuple{{0, 2, 1}, {1, 0, 2}})
	b := buildInt64(t, 3, 2, []tuple{{2, 0, 10}, {0, 1, 20}})
	c, err := matrix.New(core.Int64, 3, 2)
	require.NoError(t, err)
	require.NoError(t, matrix.EwiseAdd(c, nil, nil, core.Plus(core.Int64), a, b,
		core.NewDescriptor(core.WithTran0())))

	want := []tuple{{0, 1, 22}, {2, 0, 11}}
	require.Empty(t, cmp.Diff(want, tuplesOf(t, c)))
}

func TestEwiseDimensionMismatch(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 2, 3, []tuple{{0, 0, 1}})
	b := buildInt64(t, 3, 2, []tuple{{0, 0, 1}})
	c, err := matrix.New(core.Int64, 2, 3)
	require.NoError(t, err)
	require.ErrorIs(t,
		matrix.EwiseAdd(c, nil, nil, core.Plus(core.Int64), a, b, nil),
		core.ErrDimensionMismatch)
}
