// SPDX-License-Identifier: MIT
// Package matrix: the pending-work resolver.
//
// Wait resolves the three kinds of deferred state in a fixed order:
// zombies first (so the merge bounds below stay correct), then the
// pending-tuple backlog, then jumbled vectors. Afterwards the matrix is
// finalized and reconformed. Wait is idempotent.

package matrix

import "sort"

// Wait assembles pending tuples, removes zombies, and sorts jumbled
// vectors, leaving the matrix finalized.
func (m *Matrix) Wait() error {
	if err := validMatrix(m); err != nil {
		return err
	}
	if m.finalized() {
		return nil
	}
	if m.nzombies > 0 {
		m.compactZombies()
	}
	if m.pend.count() > 0 {
		if err := m.assemblePending(); err != nil {
			return err
		}
	}
	if m.jumbled {
		m.sortVectors()
	}
	return m.conform()
}

// compactZombies rewrites p, i, x skipping bit-inverted slots.
func (m *Matrix) compactZombies() {
	size := m.typ.Size()
	nv := m.nvec()
	q := 0
	src := 0
	for k := 0; k < nv; k++ {
		pend := m.p[k+1]
		m.p[k] = q
		for ; src < pend; src++ {
			if isZombie(m.i[src]) {
				continue
			}
			m.i[q] = m.i[src]
			if !m.iso && q != src {
				copy(m.x[q*size:(q+1)*size], m.x[src*size:(src+1)*size])
			}
			q++
		}
	}
	m.p[nv] = q
	m.i = m.i[:q]
	if !m.iso {
		m.x = m.x[:q*size]
	}
	m.nzombies = 0
}

// assemblePending buckets the backlog by outer index, orders it, reduces
// duplicates under the pending operator (or last write wins), and merges
// the result into the stored vectors.
func (m *Matrix) assemblePending() error {
	pend := m.pend
	m.pend = nil
	size := m.typ.Size()

	// Stable order by (outer, inner) keeps the later duplicate last.
	n := len(pend.inner)
	perm := make([]int, n)
	for k := range perm {
		perm[k] = k
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ka, kb := perm[a], perm[b]
		if pend.outer[ka] != pend.outer[kb] {
			return pend.outer[ka] < pend.outer[kb]
		}
		return pend.inner[ka] < pend.inner[kb]
	})

	// Reduce duplicates in place over the permuted order.
	ti := make([]int, 0, n)
	to := make([]int, 0, n)
	tx := make([]byte, 0, n*size)
	for idx := 0; idx < n; idx++ {
		k := perm[idx]
		last := len(ti) - 1
		if last >= 0 && ti[last] == pend.inner[k] && to[last] == pend.outer[k] {
			cell := tx[last*size : (last+1)*size]
			if pend.op != nil {
				tmp := make([]byte, size)
				pend.op.Call(tmp, cell, pend.vals[k*size:(k+1)*size])
				copy(cell, tmp)
			} else {
				copy(cell, pend.vals[k*size:(k+1)*size])
			}
			continue
		}
		ti = append(ti, pend.inner[k])
		to = append(to, pend.outer[k])
		tx = append(tx, pend.vals[k*size:(k+1)*size]...)
	}

	// The merge below walks sorted vectors; resolve jumbled order first.
	if m.jumbled {
		m.sortVectors()
	}
	s, err := m.toSparse()
	if err != nil {
		return err
	}
	sx := s.expandIso()

	rp := allocInts(m.vdim + 1)
	ri := make([]int, 0, len(sx.i)+len(ti))
	rx := make([]byte, 0, (len(sx.i)+len(ti))*size)
	t := 0
	for j := 0; j < m.vdim; j++ {
		q := sx.p[j]
		qend := sx.p[j+1]
		for q < qend || (t < len(ti) && to[t] == j) {
			takeNew := t < len(ti) && to[t] == j &&
				(q >= qend || ti[t] <= sx.i[q])
			if takeNew {
				if q < qend && sx.i[q] == ti[t] {
					// Entry exists: reduce under the pending operator,
					// or let the insert win.
					cell := make([]byte, size)
					if pend.op != nil {
						pend.op.Call(cell, sx.xcell(q), tx[t*size:(t+1)*size])
					} else {
						copy(cell, tx[t*size:(t+1)*size])
					}
					ri = append(ri, ti[t])
					rx = append(rx, cell...)
					q++
				} else {
					ri = append(ri, ti[t])
					rx = append(rx, tx[t*size:(t+1)*size]...)
				}
				t++
			} else {
				ri = append(ri, sx.i[q])
				rx = append(rx, sx.xcell(q)...)
				q++
			}
		}
		rp[j+1] = len(ri)
	}

	m.format = Sparse
	m.p, m.h, m.i, m.bmap = rp, nil, ri, nil
	m.x = rx
	m.iso = false
	m.bnvals = 0
	m.shallow = false
	return nil
}

// sortVectors restores ascending inner order per vector, carrying values.
func (m *Matrix) sortVectors() {
	size := m.typ.Size()
	nv := m.nvec()
	for k := 0; k < nv; k++ {
		lo, hi := m.p[k], m.p[k+1]
		if hi-lo < 2 || sort.IntsAreSorted(m.i[lo:hi]) {
			continue
		}
		seg := hi - lo
		perm := make([]int, seg)
		for q := range perm {
			perm[q] = lo + q
		}
		sort.SliceStable(perm, func(a, b int) bool { return m.i[perm[a]] < m.i[perm[b]] })
		ni := make([]int, seg)
		var nx []byte
		if !m.iso {
			nx = make([]byte, seg*size)
		}
		for q, src := range perm {
			ni[q] = m.i[src]
			if !m.iso {
				copy(nx[q*size:(q+1)*size], m.x[src*size:(src+1)*size])
			}
		}
		copy(m.i[lo:hi], ni)
		if !m.iso {
			copy(m.x[lo*size:hi*size], nx)
		}
	}
	m.jumbled = false
}
