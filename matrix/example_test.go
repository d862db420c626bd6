// Package matrix_test: runnable documentation examples.
package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/graphblas/core"
	"github.com/katalvlaran/graphblas/matrix"
)

// ExampleMxM multiplies a small weighted adjacency matrix with itself
// over the conventional arithmetic semiring, counting two-hop path
// weights.
func ExampleMxM() {
	adj, _ := matrix.New(core.Int64, 3, 3)
	_ = adj.Build(
		[]int{0, 1, 2}, []int{1, 2, 0},
		[]int64{1, 2, 3}, nil)

	twoHop, _ := matrix.New(core.Int64, 3, 3)
	_ = matrix.MxM(twoHop, nil, nil, core.PlusTimes(core.Int64), adj, adj, nil)

	rows, cols, vals, _ := twoHop.ExtractTuples()
	for k := range rows {
		fmt.Printf("(%d,%d)=%d\n", rows[k], cols[k], vals.([]int64)[k])
	}
	// Output:
	// (1,0)=6
	// (2,1)=3
	// (0,2)=2
}
