// Package matrix_test: format transitions, the conformer, and the
// format-invariance property.
package matrix_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

func TestFormatInvariance(t *testing.T) {
	t.Parallel()

	base := []tuple{{0, 0, 3}, {1, 2, -1}, {3, 1, 8}, {2, 2, 5}, {0, 3, 2}}
	for _, ctl := range []matrix.Sparsity{matrix.Sparse, matrix.Hypersparse, matrix.Bitmap} {
		m := buildInt64(t, 4, 4, base, matrix.WithSparsityControl(ctl))
		require.Equal(t, ctl, m.FormatNow())
		got := tuplesOf(t, m)
		want := tuplesOf(t, buildInt64(t, 4, 4, base))
		require.Empty(t, cmp.Diff(want, got), "format %s", ctl)
	}
}

func TestConformPicksFullWhenDense(t *testing.T) {
	t.Parallel()

	tuples := make([]tuple, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tuples = append(tuples, tuple{i, j, int64(i + j)})
		}
	}
	m := buildInt64(t, 3, 3, tuples)
	require.Equal(t, matrix.Full, m.FormatNow())

	// Punching a hole demotes out of full.
	require.NoError(t, m.RemoveElement(1, 1))
	require.NotEqual(t, matrix.Full, m.FormatNow())
	n, err := m.NVals()
	require.NoError(t, err)
	require.Equal(t, 8, n)
}

func TestConformHyperSwitch(t *testing.T) {
	t.Parallel()

	// 2 non-empty vectors of 100: far below a 0.5 hyper switch.
	m := buildInt64(t, 100, 100, []tuple{{0, 3, 1}, {5, 90, 2}},
		matrix.WithHyperSwitch(0.5),
		matrix.WithSparsityControl(matrix.Sparse|matrix.Hypersparse))
	require.Equal(t, matrix.Hypersparse, m.FormatNow())

	// With the switch at zero, sparse wins.
	require.NoError(t, m.SetHyperSwitch(0))
	require.Equal(t, matrix.Sparse, m.FormatNow())
}

func TestConformBitmapSwitch(t *testing.T) {
	t.Parallel()

	tuples := make([]tuple, 0, 8)
	for k := 0; k < 8; k++ {
		tuples = append(tuples, tuple{k % 4, k / 4 * 2, int64(k)})
	}
	m := buildInt64(t, 4, 4, tuples,
		matrix.WithBitmapSwitch(0.25),
		matrix.WithSparsityControl(matrix.Sparse|matrix.Bitmap))
	require.Equal(t, matrix.Bitmap, m.FormatNow()) // density 0.5 ≥ 0.25

	require.NoError(t, m.SetBitmapSwitch(0.9))
	require.Equal(t, matrix.Sparse, m.FormatNow())
}

func TestSparsityControlValidation(t *testing.T) {
	t.Parallel()

	m := buildInt64(t, 2, 2, []tuple{{0, 0, 1}})
	require.ErrorIs(t, m.SetSparsityControl(0), core.ErrInvalidValue)
	require.ErrorIs(t, m.SetHyperSwitch(1.5), core.ErrInvalidValue)
	require.ErrorIs(t, m.SetBitmapSwitch(-0.1), core.ErrInvalidValue)
	require.Panics(t, func() { matrix.WithHyperSwitch(2) })
}

func TestBitmapElementOps(t *testing.T) {
	t.Parallel()

	m := buildInt64(t, 3, 3, []tuple{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}},
		matrix.WithSparsityControl(matrix.Bitmap))
	require.Equal(t, matrix.Bitmap, m.FormatNow())

	require.NoError(t, m.SetElement(int64(9), 0, 2))
	require.NoError(t, m.RemoveElement(1, 1))
	got := tuplesOf(t, m)
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 1}, {0, 2, 9}, {2, 2, 3}}, got))
}

func TestRowOrientedRoundTrip(t *testing.T) {
	t.Parallel()

	base := []tuple{{0, 1, 4}, {2, 0, -2}, {1, 2, 6}}
	m := buildInt64(t, 3, 3, base, matrix.ByRow())
	require.False(t, m.ByColumn())
	got := tuplesOf(t, m)
	want := tuplesOf(t, buildInt64(t, 3, 3, base))
	require.Empty(t, cmp.Diff(want, got)) // orientation is storage, not semantics
}
