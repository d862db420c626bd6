// SPDX-License-Identifier: MIT
// Package matrix: single-element access.
//
// SetElement and RemoveElement are the two mutators that create deferred
// work: an insert into a missing slot becomes a pending tuple (assembled
// immediately in blocking mode), a delete of a stored entry becomes a
// zombie. ExtractElement treats absence as a first-class result, not an
// error.

package matrix

import "github.com/katalvlaran/graphblas/core"

// rcToVec maps (row, col) onto (inner, outer) per orientation.
func (m *Matrix) rcToVec(row, col int) (inner, outer int) {
	if m.byCol {
		return row, col
	}
	return col, row
}

// boundsCheck validates a (row, col) pair.
func (m *Matrix) boundsCheck(row, col int) error {
	if row < 0 || row >= m.NRows() || col < 0 || col >= m.NCols() {
		return core.ErrIndexOutOfBounds
	}
	return nil
}

// materializeIso expands the shared value in place so one cell can
// diverge from the rest.
func (m *Matrix) materializeIso() {
	if !m.iso {
		return
	}
	v := m.expandIso()
	m.x = v.x
	m.iso = false
}

// findEntry locates (inner, outer) among stored entries, zombies
// included. Jumbled vectors fall back to a linear scan.
func (m *Matrix) findEntry(inner, outer int) (pos int, found bool) {
	pstart, pend, ok := m.findVec(outer)
	if !ok {
		return 0, false
	}
	if m.jumbled {
		for q := pstart; q < pend; q++ {
			idx := m.i[q]
			if isZombie(idx) {
				idx = unflipIndex(idx)
			}
			if idx == inner {
				return q, true
			}
		}
		return 0, false
	}
	lo, hi := pstart, pend
	for lo < hi {
		mid := (lo + hi) / 2
		idx := m.i[mid]
		if isZombie(idx) {
			idx = unflipIndex(idx)
		}
		if idx < inner {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < pend {
		idx := m.i[lo]
		if isZombie(idx) {
			idx = unflipIndex(idx)
		}
		if idx == inner {
			return lo, true
		}
	}
	return 0, false
}

// SetElement stores value v at (row, col), typecasting into the matrix
// domain. Inserting into a missing slot defers as a pending tuple; in
// blocking mode the backlog is assembled before returning.
func (m *Matrix) SetElement(v any, row, col int) error {
	if err := ready(m); err != nil {
		return err
	}
	if err := m.boundsCheck(row, col); err != nil {
		return err
	}
	s, err := core.ScalarOf(m.typ, v)
	if err != nil {
		return err
	}
	inner, outer := m.rcToVec(row, col)
	size := m.typ.Size()

	switch m.format {
	case Bitmap, Full:
		cell := outer*m.vlen + inner
		m.materializeIso()
		copy(m.x[cell*size:(cell+1)*size], s.Bytes())
		if m.format == Bitmap && m.bmap[cell] == 0 {
			m.bmap[cell] = 1
			m.bnvals++
		}
		return nil
	}

	if pos, found := m.findEntry(inner, outer); found {
		if isZombie(m.i[pos]) {
			m.i[pos] = unflipIndex(m.i[pos])
			m.nzombies--
		}
		m.materializeIso()
		copy(m.x[pos*size:(pos+1)*size], s.Bytes())
		return nil
	}

	if m.pend == nil {
		m.pend = &pendingTuples{}
	}
	m.pend.inner = append(m.pend.inner, inner)
	m.pend.outer = append(m.pend.outer, outer)
	m.pend.vals = append(m.pend.vals, s.Bytes()...)
	if !core.NonBlockingMode() {
		return m.Wait()
	}
	return nil
}

// RemoveElement deletes the entry at (row, col) if present. On the
// sparse family the slot turns into a zombie; repacking waits for Wait.
func (m *Matrix) RemoveElement(row, col int) error {
	if err := ready(m); err != nil {
		return err
	}
	if err := m.boundsCheck(row, col); err != nil {
		return err
	}
	inner, outer := m.rcToVec(row, col)

	switch m.format {
	case Bitmap:
		cell := outer*m.vlen + inner
		if m.bmap[cell] != 0 {
			m.bmap[cell] = 0
			m.bnvals--
		}
		return nil
	case Full:
		// Full cannot express absence: demote to bitmap first.
		if err := m.convertTo(Bitmap); err != nil {
			return err
		}
		return m.RemoveElement(row, col)
	}

	// A backlog may still hold an insert for this slot; assembly may
	// also reconform into the bitmap family, so re-dispatch after it.
	if m.pend.count() > 0 {
		if err := m.Wait(); err != nil {
			return err
		}
		return m.RemoveElement(row, col)
	}
	if pos, found := m.findEntry(inner, outer); found && !isZombie(m.i[pos]) {
		m.i[pos] = flipIndex(m.i[pos])
		m.nzombies++
	}
	return nil
}

// ExtractElement reads the entry at (row, col). The second result is
// false when the cell is absent.
func (m *Matrix) ExtractElement(row, col int) (any, bool, error) {
	if err := ready(m); err != nil {
		return nil, false, err
	}
	if err := m.boundsCheck(row, col); err != nil {
		return nil, false, err
	}
	if m.pend.count() > 0 {
		if err := m.Wait(); err != nil {
			return nil, false, err
		}
	}
	inner, outer := m.rcToVec(row, col)
	size := m.typ.Size()

	switch m.format {
	case Bitmap:
		cell := outer*m.vlen + inner
		if m.bmap[cell] == 0 {
			return nil, false, nil
		}
		return m.cellValue(cell, size), true, nil
	case Full:
		cell := outer*m.vlen + inner
		return m.cellValue(cell, size), true, nil
	}

	pos, found := m.findEntry(inner, outer)
	if !found || isZombie(m.i[pos]) {
		return nil, false, nil
	}
	return m.cellValue(pos, size), true, nil
}

// cellValue unwraps stored element k (iso-aware) into a Go value.
func (m *Matrix) cellValue(k, size int) any {
	cell := m.xcell(k)
	s, err := core.ScalarBytes(m.typ, cell[:size])
	if err != nil {
		return nil
	}
	return s.Value()
}
