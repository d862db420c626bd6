// SPDX-License-Identifier: MIT
// Package matrix: the task slicer and the parallel task runner.
//
// The slicer splits a matrix's stored entries into tasks for the worker
// pool: a coarse task owns a contiguous run of whole vectors, a fine
// task owns a contiguous entry slice within a single vector (needed when
// one vector dwarfs the rest). Slicing is deterministic: the same matrix
// and task count always produce the same tasks.

package matrix

import (
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/graphblas/core"
)

// task describes one unit of sliced work over a sparse/hyper matrix.
// kfirst..klast are vector slots; for a fine task (fine == true) both
// name the same vector and pstart/pend bound the owned entry slice.
type task struct {
	kfirst, klast int
	pstart, pend  int
	fine          bool
}

// taskCount picks the target task count for a workload of total entries.
func taskCount(threads, entries int) int {
	n := threads * core.DefaultTasksPerThread
	if n > entries {
		n = entries
	}
	if n < 1 {
		n = 1
	}
	return n
}

// sliceWork splits the entries of a finalized sparse/hyper matrix into
// tasks of at most ceil(total/ntasks) entries each; greedy packing of
// whole vectors can yield more than ntasks tasks.
func sliceWork(m *Matrix, ntasks int) []task {
	nv := m.nvec()
	total := m.entryCount()
	if ntasks < 1 {
		ntasks = 1
	}
	if total == 0 || nv == 0 {
		return []task{{kfirst: 0, klast: nv - 1}}
	}
	chunk := (total + ntasks - 1) / ntasks
	var tasks []task
	k := 0
	for k < nv {
		klen := m.p[k+1] - m.p[k]
		if klen > chunk {
			// One vector dominates: carve it into fine tasks.
			for off := 0; off < klen; off += chunk {
				end := off + chunk
				if end > klen {
					end = klen
				}
				tasks = append(tasks, task{
					kfirst: k, klast: k, fine: true,
					pstart: m.p[k] + off, pend: m.p[k] + end,
				})
			}
			k++
			continue
		}
		// Greedily absorb whole vectors up to the chunk target.
		start := k
		owned := 0
		for k < nv && owned+(m.p[k+1]-m.p[k]) <= chunk {
			owned += m.p[k+1] - m.p[k]
			k++
		}
		if k == start {
			k++ // at least one vector per coarse task
		}
		tasks = append(tasks, task{kfirst: start, klast: k - 1,
			pstart: m.p[start], pend: m.p[k]})
	}
	return tasks
}

// columnSpans folds the slicer's tasks into contiguous vector spans for
// drivers whose unit of work is a whole vector: fine tasks of one
// vector coalesce back into its span, so spans cover [0, nvec) in order.
func columnSpans(m *Matrix, ntasks int) [][2]int {
	var spans [][2]int
	for _, t := range sliceWork(m, ntasks) {
		lo, hi := t.kfirst, t.klast+1
		if hi <= lo {
			continue
		}
		if len(spans) > 0 && spans[len(spans)-1][1] >= lo {
			if hi > spans[len(spans)-1][1] {
				spans[len(spans)-1][1] = hi
			}
			continue
		}
		spans = append(spans, [2]int{lo, hi})
	}
	if len(spans) == 0 && m.nvec() > 0 {
		spans = append(spans, [2]int{0, m.nvec()})
	}
	return spans
}

// splitRange cuts [0, n) into at most parts near-equal contiguous spans.
func splitRange(n, parts int) [][2]int {
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	if n == 0 {
		return nil
	}
	spans := make([][2]int, 0, parts)
	for t := 0; t < parts; t++ {
		lo := t * n / parts
		hi := (t + 1) * n / parts
		if lo < hi {
			spans = append(spans, [2]int{lo, hi})
		}
	}
	return spans
}

// runTasks executes fn over the index range [0, n) split across the
// worker pool. Each worker owns a disjoint span, so writes into
// pre-assigned output slices need no locks.
func runTasks(threads, n int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	spans := splitRange(n, threads)
	if len(spans) == 1 {
		return fn(spans[0][0], spans[0][1])
	}
	var g errgroup.Group
	g.SetLimit(threads)
	for _, span := range spans {
		lo, hi := span[0], span[1]
		g.Go(func() error { return fn(lo, hi) })
	}
	return g.Wait()
}

// callThreads resolves the worker count for one primitive call.
func callThreads(d core.Descriptor) int {
	if d.Threads > 0 {
		return d.Threads
	}
	return core.Threads()
}
