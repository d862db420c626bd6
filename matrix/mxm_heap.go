// SPDX-License-Identifier: MIT
// Package matrix: heap saxpy driver.
//
// Per output column j, the driver runs a k-way merge across the columns
// of A selected by B(:,j)'s pattern: a cursor per selected column sits
// in a heap ordered by its current inner index, so each output entry
// costs O(log k) and no dense workspace is needed. Chosen when output
// columns stay sparse enough that a Sauna would mostly hold identity.

package matrix

import "container/heap"

// axbCursor walks one selected column of A, remembering which B entry
// scales it.
type axbCursor struct {
	r, rend int // position in a.i / a.x
	q       int // the B(k,j) entry that selected this column
}

// cursorHeap orders cursors by current inner index; ties by B slot keep
// the merge deterministic.
type cursorHeap struct {
	cur []axbCursor
	ai  []int
}

func (h *cursorHeap) Len() int { return len(h.cur) }
func (h *cursorHeap) Less(x, y int) bool {
	if h.ai[h.cur[x].r] != h.ai[h.cur[y].r] {
		return h.ai[h.cur[x].r] < h.ai[h.cur[y].r]
	}
	return h.cur[x].q < h.cur[y].q
}
func (h *cursorHeap) Swap(x, y int) { h.cur[x], h.cur[y] = h.cur[y], h.cur[x] }
func (h *cursorHeap) Push(v any)    { h.cur = append(h.cur, v.(axbCursor)) }
func (h *cursorHeap) Pop() any {
	v := h.cur[len(h.cur)-1]
	h.cur = h.cur[:len(h.cur)-1]
	return v
}

// axbHeap computes Z = A*B by k-way merge per output column.
func axbHeap(kf kernelFactory, a, b *Matrix, threads int) (*Matrix, error) {
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
			counts := make([]int, jhi-jlo)
			var ti []int
			var tx []byte
			cell := make([]byte, zsize)
			h := &cursorHeap{ai: a.i}
			for j := jlo; j < jhi; j++ {
				h.cur = h.cur[:0]
				for q := b.p[j]; q < b.p[j+1]; q++ {
					k := b.i[q]
					if a.p[k] < a.p[k+1] {
						h.cur = append(h.cur, axbCursor{r: a.p[k], rend: a.p[k+1], q: q})
					}
				}
				heap.Init(h)
				for h.Len() > 0 {
					i := a.i[h.cur[0].r]
					kern.seed(cell, 0)
					// Fold every cursor sitting on row i.
					for h.Len() > 0 && a.i[h.cur[0].r] == i {
						c := h.cur[0]
						if !kern.terminal(cell, 0) {
							kern.multAdd(cell, 0, a.x, a.xidxRaw(c.r), b.x, b.xidxRaw(c.q))
						}
						if c.r+1 < c.rend {
							h.cur[0].r++
							heap.Fix(h, 0)
						} else {
							heap.Pop(h)
						}
					}
					ti = append(ti, i)
					tx = append(tx, cell...)
					counts[j-jlo]++
				}
			}
			parts[t] = part{counts: counts, i: ti, x: tx}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

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
