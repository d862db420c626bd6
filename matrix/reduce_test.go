// Package matrix_test: monoid reductions.
package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

func TestReduceToScalarSum(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 4, 4, []tuple{{0, 0, 1}, {1, 2, 10}, {3, 3, -4}, {2, 1, 7}})
	s, err := matrix.ReduceToScalar(core.PlusMonoid(core.Int64), a, nil)
	require.NoError(t, err)
	require.Equal(t, int64(14), s.Value())
}

func TestReduceEmptyIsIdentity(t *testing.T) {
	t.Parallel()

	a, err := matrix.New(core.FP64, 3, 3)
	require.NoError(t, err)
	s, err := matrix.ReduceToScalar(core.MaxMonoid(core.FP64), a, nil)
	require.NoError(t, err)
	require.Equal(t, math.Inf(-1), s.Value())
}

func TestReduceTerminalShortCircuit(t *testing.T) {
	t.Parallel()

	// MAX over fp64 terminates at +Inf; the answer must be +Inf no
	// matter where the infinity sits.
	m, err := matrix.New(core.FP64, 50, 50)
	require.NoError(t, err)
	var rows, cols []int
	var vals []float64
	for k := 0; k < 200; k++ {
		rows = append(rows, k%50)
		cols = append(cols, (k*7)%50)
		vals = append(vals, float64(k))
	}
	rows = append(rows, 13)
	cols = append(cols, 13)
	vals = append(vals, math.Inf(1))
	require.NoError(t, m.Build(rows, cols, vals, core.MaxOp(core.FP64)))

	s, err := matrix.ReduceToScalar(core.MaxMonoid(core.FP64), m, nil)
	require.NoError(t, err)
	require.Equal(t, math.Inf(1), s.Value())
}

func TestReducePartitionDeterminism(t *testing.T) {
	t.Parallel()

	a := randomInt64Matrix(t, 60, 200, 21)
	d := core.NewDescriptor(core.WithDescThreads(3))
	s1, err := matrix.ReduceToScalar(core.PlusMonoid(core.Int64), a, d)
	require.NoError(t, err)
	s2, err := matrix.ReduceToScalar(core.PlusMonoid(core.Int64), a, d)
	require.NoError(t, err)
	require.Equal(t, s1.Value(), s2.Value()) // same partition ⇒ same value
}

func TestReduceMatchesFloatsOracle(t *testing.T) {
	t.Parallel()

	m, err := matrix.New(core.FP64, 5, 5)
	require.NoError(t, err)
	vals := []float64{0.5, 1.25, -3, 8, 2.5}
	require.NoError(t, m.Build([]int{0, 1, 2, 3, 4}, []int{1, 2, 3, 4, 0}, vals, nil))
	s, err := matrix.ReduceToScalar(core.PlusMonoid(core.FP64), m, nil)
	require.NoError(t, err)
	require.Equal(t, floats.Sum(vals), s.Value())
}

func TestReduceToVectorRows(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 4, []tuple{{0, 0, 1}, {0, 3, 2}, {2, 1, 5}})
	w, err := matrix.VectorNew(core.Int64, 3)
	require.NoError(t, err)
	require.NoError(t, matrix.ReduceToVector(w, nil, nil, core.PlusMonoid(core.Int64), a, nil))

	idx, vals, err := w.ExtractTuples()
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, idx) // row 1 is empty → absent
	require.Equal(t, []int64{3, 5}, vals.([]int64))
}

func TestReduceToVectorColumns(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 4, []tuple{{0, 0, 1}, {0, 3, 2}, {2, 1, 5}})
	w, err := matrix.VectorNew(core.Int64, 4)
	require.NoError(t, err)
	require.NoError(t, matrix.ReduceToVector(w, nil, nil, core.PlusMonoid(core.Int64), a,
		core.NewDescriptor(core.WithTran0())))

	idx, vals, err := w.ExtractTuples()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 3}, idx)
	require.Equal(t, []int64{1, 5, 2}, vals.([]int64))
}

func TestReduceToVectorMasked(t *testing.T) {
	t.Parallel()

	a := buildInt64(t, 3, 3, []tuple{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}})
	w, err := matrix.VectorNew(core.Int64, 3)
	require.NoError(t, err)
	mask, err := matrix.VectorNew(core.Bool, 3)
	require.NoError(t, err)
	require.NoError(t, mask.SetElement(true, 1))

	require.NoError(t, matrix.ReduceToVector(w, mask, nil, core.PlusMonoid(core.Int64), a,
		core.NewDescriptor(core.WithReplace())))
	idx, vals, err := w.ExtractTuples()
	require.NoError(t, err)
	require.Equal(t, []int{1}, idx)
	require.Equal(t, []int64{2}, vals.([]int64))
}

func TestReduceDomainMismatch(t *testing.T) {
	t.Parallel()

	u, err := core.TypeNew(3, "blob")
	require.NoError(t, err)
	m, err := matrix.New(u, 2, 2)
	require.NoError(t, err)
	_, err = matrix.ReduceToScalar(core.PlusMonoid(core.Int64), m, nil)
	require.ErrorIs(t, err, core.ErrDomainMismatch)
}
