// SPDX-License-Identifier: MIT
// Package matrix: dot-product driver.
//
// Computes C(i,j) = ⊕_l A(l,i) ⊗ B(l,j) over AT = A', formed once, so
// each output cell is a two-pointer merge of two sorted columns. With a
// non-complemented mask the driver visits only the cells where M(i,j)
// is true, bounding the work by nnz(M); without one it sweeps all of
// m×n and is chosen only when C is small.

package matrix

// axbDot computes Z = A*B cell by cell. When useMask is set, mask is
// finalized, column-oriented sparse, and the only cells probed are its
// true entries (value-tested unless structural).
func axbDot(kf kernelFactory, a, b, mask *Matrix, useMask, structural bool, threads int) (*Matrix, error) {
	m, n := a.vlen, b.vdim
	at, err := transposeArrays(a, nil, nil)
	if err != nil {
		return nil, err
	}
	z := newCSC(kf().ztype, m, n)
	zsize := z.typ.Size()

	spans := splitRange(n, taskCount(threads, n))
	type part struct {
		counts []int
		i      []int
		x      []byte
	}
	parts := make([]part, len(spans))

	err = runTasks(threads, len(spans), func(lo, hi int) error {
		for t := lo; t < hi; t++ {
			jlo, jhi := spans[t][0], spans[t][1]
			kern := kf()
			counts := make([]int, jhi-jlo)
			var ti []int
			var tx []byte
			cell := make([]byte, zsize)
			for j := jlo; j < jhi; j++ {
				dotOne := func(i int) {
					ra, raEnd := at.p[i], at.p[i+1]
					rb, rbEnd := b.p[j], b.p[j+1]
					seeded := false
					for ra < raEnd && rb < rbEnd {
						switch {
						case at.i[ra] < b.i[rb]:
							ra++
						case at.i[ra] > b.i[rb]:
							rb++
						default:
							if !seeded {
								kern.seed(cell, 0)
								seeded = true
							}
							kern.multAdd(cell, 0, at.x, at.xidxRaw(ra), b.x, b.xidxRaw(rb))
							if kern.terminal(cell, 0) {
								ra, rb = raEnd, rbEnd
								break
							}
							ra++
							rb++
						}
					}
					if seeded {
						ti = append(ti, i)
						tx = append(tx, cell...)
						counts[j-jlo]++
					}
				}
				if useMask {
					ms, me, ok := mask.findVec(j)
					if !ok {
						continue
					}
					for q := ms; q < me; q++ {
						if !structural && !maskEntryTrue(mask, q) {
							continue
						}
						dotOne(mask.i[q])
					}
				} else {
					for i := 0; i < m; i++ {
						dotOne(i)
					}
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
