// SPDX-License-Identifier: MIT
// Package matrix: Gustavson saxpy driver.
//
// Per output column j, a dense per-thread workspace of length m, the
// Sauna, accumulates the contributions of A(:,k) scaled by each entry
// B(k,j). A mark array with a generation counter makes clearing the
// Sauna O(entries touched), not O(m), and the arena lives for the whole
// task, never per entry.

package matrix

import "sort"

// sauna is the per-thread Gustavson workspace.
type sauna struct {
	vals []byte // m cells of the monoid domain
	mark []int  // generation tags
	gen  int
	list []int // touched inner indices, unsorted
}

func newSauna(m, zsize int) *sauna {
	return &sauna{
		vals: allocBytes(m * zsize),
		mark: allocInts(m),
		gen:  0,
		list: make([]int, 0, 64),
	}
}

// reset invalidates all cells in O(1).
func (s *sauna) reset() {
	s.gen++
	s.list = s.list[:0]
}

// axbGustavson computes Z = A*B with one Sauna per task. Tasks own
// disjoint column spans of B; their outputs concatenate in column order.
func axbGustavson(kf kernelFactory, a, b *Matrix, threads int) (*Matrix, error) {
	m, n := a.vlen, b.vdim
	z := newCSC(kf().ztype, m, n)
	zsize := z.typ.Size()

	spans := columnSpans(b, taskCount(threads, b.entryCount()))
	type part struct {
		counts []int
		i      []int
		x      []byte
	}
	parts := make([]part, len(spans))

	err := runTasks(threads, len(spans), func(lo, hi int) error {
		for t := lo; t < hi; t++ {
			jlo, jhi := spans[t][0], spans[t][1]
			kern := kf()
			ws := newSauna(m, zsize)
			counts := make([]int, jhi-jlo)
			var ti []int
			var tx []byte
			for j := jlo; j < jhi; j++ {
				ws.reset()
				for q := b.p[j]; q < b.p[j+1]; q++ {
					k := b.i[q]
					for r := a.p[k]; r < a.p[k+1]; r++ {
						i := a.i[r]
						if ws.mark[i] != ws.gen {
							ws.mark[i] = ws.gen
							kern.seed(ws.vals, i)
							ws.list = append(ws.list, i)
						} else if kern.terminal(ws.vals, i) {
							continue
						}
						kern.multAdd(ws.vals, i, a.x, a.xidxRaw(r), b.x, b.xidxRaw(q))
					}
				}
				sort.Ints(ws.list)
				counts[j-jlo] = len(ws.list)
				for _, i := range ws.list {
					ti = append(ti, i)
					tx = append(tx, ws.vals[i*zsize:(i+1)*zsize]...)
				}
			}
			parts[t] = part{counts: counts, i: ti, x: tx}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stitch: cumulative offsets across tasks, then one ordered copy.
	total := 0
	for _, pt := range parts {
		total += len(pt.i)
	}
	z.i = allocInts(total)
	z.x = allocBytes(total * zsize)
	pos := 0
	for t, span := range spans {
		for jj, cnt := range parts[t].counts {
			z.p[span[0]+jj+1] = z.p[span[0]+jj] + cnt
		}
		copy(z.i[pos:], parts[t].i)
		copy(z.x[pos*zsize:], parts[t].x)
		pos += len(parts[t].i)
	}
	return z, nil
}
