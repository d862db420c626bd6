// Package matrix_test: container lifecycle, element access, build and
// extract, deferred-work observation.
package matrix_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

// tuple is the test-side view of one entry.
type tuple struct {
	R, C int
	V    int64
}

// tuplesOf extracts and normalizes the entry set of an int64 matrix.
func tuplesOf(t *testing.T, m *matrix.Matrix) []tuple {
	t.Helper()
	rows, cols, vals, err := m.ExtractTuples()
	require.NoError(t, err)
	vs := vals.([]int64)
	out := make([]tuple, len(rows))
	for k := range rows {
		out[k] = tuple{rows[k], cols[k], vs[k]}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].R != out[b].R {
			return out[a].R < out[b].R
		}
		return out[a].C < out[b].C
	})
	return out
}

// buildInt64 constructs a matrix from tuples.
func buildInt64(t *testing.T, nrows, ncols int, tuples []tuple, opts ...matrix.Option) *matrix.Matrix {
	t.Helper()
	m, err := matrix.New(core.Int64, nrows, ncols, opts...)
	require.NoError(t, err)
	rows := make([]int, len(tuples))
	cols := make([]int, len(tuples))
	vals := make([]int64, len(tuples))
	for k, tp := range tuples {
		rows[k], cols[k], vals[k] = tp.R, tp.C, tp.V
	}
	require.NoError(t, m.Build(rows, cols, vals, nil))
	return m
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := matrix.New(nil, 2, 2)
	require.ErrorIs(t, err, core.ErrUninitializedObject)

	_, err = matrix.New(core.FP64, 0, 2)
	require.ErrorIs(t, err, core.ErrInvalidValue)

	m, err := matrix.New(core.FP64, 3, 5)
	require.NoError(t, err)
	require.Equal(t, 3, m.NRows())
	require.Equal(t, 5, m.NCols())
	require.True(t, m.ByColumn())
	n, err := m.NVals()
	require.NoError(t, err)
	require.Zero(t, n)

	r, err := matrix.New(core.FP64, 3, 5, matrix.ByRow())
	require.NoError(t, err)
	require.Equal(t, 3, r.NRows())
	require.Equal(t, 5, r.NCols())
	require.False(t, r.ByColumn())
}

func TestSetExtractRemoveElement(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 4, 4)
	require.NoError(t, err)

	require.ErrorIs(t, m.SetElement(int64(1), 4, 0), core.ErrIndexOutOfBounds)
	require.NoError(t, m.SetElement(int64(7), 1, 2))
	require.NoError(t, m.SetElement(int64(9), 3, 0))
	require.NoError(t, m.SetElement(int64(8), 1, 2)) // overwrite

	v, ok, err := m.ExtractElement(1, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(8), v)

	_, ok, err = m.ExtractElement(0, 0)
	require.NoError(t, err)
	require.False(t, ok) // absence is a value, not an error

	n, err := m.NVals()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, m.RemoveElement(1, 2))
	require.NoError(t, m.RemoveElement(0, 3)) // removing absent is a no-op
	n, err = m.NVals()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, ok, err = m.ExtractElement(1, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetElementTypecasts(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.FP32, 2, 2)
	require.NoError(t, err)
	require.NoError(t, m.SetElement(3, 0, 0)) // int → fp32
	v, ok, err := m.ExtractElement(0, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, float32(3), v)
}

func TestZombiesCountedWithoutWait(t *testing.T) {
	t.Parallel()

	// Pin the sparse family so deletions become zombies.
	tuples := make([]tuple, 0, 16)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			tuples = append(tuples, tuple{i, j, int64(i*4 + j + 1)})
		}
	}
	m := buildInt64(t, 4, 4, tuples, matrix.WithSparsityControl(matrix.Sparse))
	require.Equal(t, matrix.Sparse, m.FormatNow())

	// Delete half the entries: the even columns.
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j += 2 {
			require.NoError(t, m.RemoveElement(i, j))
		}
	}
	n, err := m.NVals()
	require.NoError(t, err)
	require.Equal(t, 8, n) // zombies excluded without assembling

	got := tuplesOf(t, m) // extract forces Wait
	require.Len(t, got, 8)
	for _, tp := range got {
		require.Equal(t, 1, tp.C%2)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)

	err = m.Build([]int{0}, []int{0, 1}, []int64{1, 2}, nil)
	require.ErrorIs(t, err, core.ErrDimensionMismatch)

	err = m.Build([]int{5}, []int{0}, []int64{1}, nil)
	require.ErrorIs(t, err, core.ErrIndexOutOfBounds)

	// Duplicates without a resolver are an error.
	err = m.Build([]int{0, 0}, []int{1, 1}, []int64{1, 2}, nil)
	require.ErrorIs(t, err, core.ErrInvalidValue)

	require.NoError(t, m.SetElement(int64(1), 0, 0))
	err = m.Build([]int{1}, []int{1}, []int64{3}, nil)
	require.ErrorIs(t, err, core.ErrOutputNotEmpty)
}

func TestBuildDupResolver(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	require.NoError(t, m.Build(
		[]int{0, 0, 2, 0}, []int{1, 1, 2, 1},
		[]int64{3, 4, 9, 5}, core.Plus(core.Int64)))

	got := tuplesOf(t, m)
	want := []tuple{{0, 1, 12}, {2, 2, 9}}
	require.Empty(t, cmp.Diff(want, got))
}

func TestBuildCastsValueStream(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Build([]int{0, 1}, []int{0, 1}, []float64{2.9, -1.2}, nil))
	got := tuplesOf(t, m)
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 2}, {1, 1, -1}}, got)) // truncation toward zero
}

func TestIsoBuild(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 3, 3)
	require.NoError(t, err)
	require.NoError(t, m.Build([]int{0, 1, 2}, []int{2, 0, 1}, []int64{5, 5, 5}, nil))
	require.True(t, m.Iso()) // all-equal values collapse

	got := tuplesOf(t, m)
	want := []tuple{{0, 2, 5}, {1, 0, 5}, {2, 1, 5}}
	require.Empty(t, cmp.Diff(want, got))

	// Diverging one cell materializes per-entry values.
	require.NoError(t, m.SetElement(int64(6), 1, 0))
	require.False(t, m.Iso())
	v, ok, err := m.ExtractElement(0, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(5), v)
}

func TestDupClearResize(t *testing.T) {
	t.Parallel()

	m := buildInt64(t, 3, 4, []tuple{{0, 0, 1}, {2, 3, 7}, {1, 2, 4}})
	d, err := m.Dup()
	require.NoError(t, err)
	require.NoError(t, m.Clear())

	n, err := m.NVals()
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, tuplesOf(t, d), 3) // the copy is unaffected

	require.NoError(t, d.Resize(2, 4))
	require.Equal(t, 2, d.NRows())
	got := tuplesOf(t, d)
	require.Empty(t, cmp.Diff([]tuple{{0, 0, 1}, {1, 2, 4}}, got)) // row 2 dropped

	require.NoError(t, d.Resize(5, 5))
	require.Len(t, tuplesOf(t, d), 2) // growth keeps entries
}

func TestFreeMakesInvalid(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 2, 2)
	require.NoError(t, err)
	m.Free()
	m.Free() // idempotent
	require.ErrorIs(t, m.SetElement(int64(1), 0, 0), core.ErrInvalidObject)
	_, err = m.NVals()
	require.ErrorIs(t, err, core.ErrInvalidObject)
}

func TestWaitIdempotent(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 5, 5, matrix.WithSparsityControl(matrix.Sparse))
	require.NoError(t, err)
	for k := 0; k < 5; k++ {
		require.NoError(t, m.SetElement(int64(k+1), 4-k, k))
	}
	require.NoError(t, m.RemoveElement(2, 2))
	before := tuplesOf(t, m)

	require.NoError(t, m.Wait())
	require.NoError(t, m.Wait())
	require.Empty(t, cmp.Diff(before, tuplesOf(t, m)))
}

func TestPendingAccumulatedThroughSetElement(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.Int64, 4, 4, matrix.WithSparsityControl(matrix.Sparse))
	require.NoError(t, err)
	require.NoError(t, m.SetElement(int64(1), 0, 1))
	require.NoError(t, m.SetElement(int64(2), 0, 1)) // second write wins after assembly
	got := tuplesOf(t, m)
	require.Empty(t, cmp.Diff([]tuple{{0, 1, 2}}, got))
}
