// SPDX-License-Identifier: MIT
// Package matrix: format transitions (sparse / hypersparse / bitmap /
// full). Conversions are pure over the logical matrix: they allocate
// fresh pattern arrays and never change the entry set. Value and index
// buffers are shared where the source is not mutated (borrowed-buffer
// model); the borrower is marked shallow.
//
// toBitmap and toFull require a finalized source; toSparse and toHyper
// carry zombies, pending tuples, and the jumbled flag across.

package matrix

import "github.com/katalvlaran/graphblas/core"

// viewOf starts a shallow logical copy of m for a format conversion.
func viewOf(m *Matrix) *Matrix {
	v := &Matrix{}
	*v = *m
	v.shallow = true
	return v
}

// toSparse materializes p, i, x with all vdim vectors present. Deferred
// work carries over untouched: zombie slots and the jumbled flag live in
// i, pending tuples live beside the arrays.
func (m *Matrix) toSparse() (*Matrix, error) {
	size := m.typ.Size()
	v := viewOf(m)
	v.format = Sparse
	switch m.format {
	case Sparse:
		return m, nil
	case Hypersparse:
		p := allocInts(m.vdim + 1)
		k := 0
		for j := 0; j < m.vdim; j++ {
			if k < len(m.h) && m.h[k] == j {
				p[j+1] = p[j] + (m.p[k+1] - m.p[k])
				k++
			} else {
				p[j+1] = p[j]
			}
		}
		v.p, v.h = p, nil
		return v, nil
	case Bitmap:
		p := allocInts(m.vdim + 1)
		ri := allocInts(m.bnvals)
		var rx []byte
		if !m.iso {
			rx = allocBytes(m.bnvals * size)
		}
		q := 0
		for j := 0; j < m.vdim; j++ {
			for ii := 0; ii < m.vlen; ii++ {
				cell := j*m.vlen + ii
				if m.bmap[cell] == 0 {
					continue
				}
				ri[q] = ii
				if !m.iso {
					copy(rx[q*size:], m.x[cell*size:(cell+1)*size])
				}
				q++
			}
			p[j+1] = q
		}
		v.p, v.h, v.i, v.bmap = p, nil, ri, nil
		if !m.iso {
			v.x = rx
			v.shallow = false
		}
		return v, nil
	case Full:
		n := m.vlen * m.vdim
		p := allocInts(m.vdim + 1)
		ri := allocInts(n)
		for j := 0; j < m.vdim; j++ {
			p[j+1] = (j + 1) * m.vlen
			for ii := 0; ii < m.vlen; ii++ {
				ri[j*m.vlen+ii] = ii
			}
		}
		v.p, v.h, v.i = p, nil, ri
		return v, nil
	}
	return nil, core.ErrInvalidObject
}

// toHyper materializes only the non-empty vectors, naming them in h.
func (m *Matrix) toHyper() (*Matrix, error) {
	if m.format == Hypersparse {
		return m, nil
	}
	s, err := m.toSparse()
	if err != nil {
		return nil, err
	}
	nonempty := 0
	for j := 0; j < s.vdim; j++ {
		if s.p[j+1] > s.p[j] {
			nonempty++
		}
	}
	v := viewOf(s)
	v.format = Hypersparse
	h := allocInts(nonempty)
	p := allocInts(nonempty + 1)
	k := 0
	for j := 0; j < s.vdim; j++ {
		if s.p[j+1] > s.p[j] {
			h[k] = j
			p[k+1] = p[k] + (s.p[j+1] - s.p[j])
			k++
		}
	}
	// Entries of empty vectors occupy no slots, so i and x carry over
	// only when the sparse form was already gap-free; it always is.
	v.h, v.p = h, p
	return v, nil
}

// toBitmap scatters into dense presence and value buffers. Requires a
// finalized source: the bitmap family cannot represent deferred work.
func (m *Matrix) toBitmap() (*Matrix, error) {
	if !m.finalized() {
		return nil, core.ErrInvalidObject
	}
	if m.format == Bitmap {
		return m, nil
	}
	size := m.typ.Size()
	n := m.vlen * m.vdim
	if m.format == Full {
		v := viewOf(m)
		v.format = Bitmap
		bm := allocBytes(n)
		for c := range bm {
			bm[c] = 1
		}
		v.bmap = bm
		v.bnvals = n
		return v, nil
	}
	s, err := m.toSparse()
	if err != nil {
		return nil, err
	}
	v := viewOf(s)
	v.format = Bitmap
	v.shallow = false
	v.bmap = allocBytes(n)
	if s.iso {
		v.x = append([]byte(nil), s.x[:size]...)
	} else {
		v.x = allocBytes(n * size)
	}
	v.p, v.h, v.i = nil, nil, nil
	cnt := 0
	for j := 0; j < s.vdim; j++ {
		for q := s.p[j]; q < s.p[j+1]; q++ {
			cell := j*s.vlen + s.i[q]
			v.bmap[cell] = 1
			if !s.iso {
				copy(v.x[cell*size:], s.x[q*size:(q+1)*size])
			}
			cnt++
		}
	}
	v.bnvals = cnt
	return v, nil
}

// toFull drops the presence structure. Allowed only when every cell is
// present and no deferred work exists.
func (m *Matrix) toFull() (*Matrix, error) {
	if !m.finalized() {
		return nil, core.ErrInvalidObject
	}
	n := m.vlen * m.vdim
	if m.entryCount() != n {
		return nil, core.ErrInvalidValue
	}
	if m.format == Full {
		return m, nil
	}
	if m.format == Bitmap {
		v := viewOf(m)
		v.format = Full
		v.bmap = nil
		v.bnvals = 0
		return v, nil
	}
	s, err := m.toSparse()
	if err != nil {
		return nil, err
	}
	size := m.typ.Size()
	v := viewOf(s)
	v.format = Full
	v.p, v.h, v.i = nil, nil, nil
	if s.iso {
		v.x = append([]byte(nil), s.x[:size]...)
	} else {
		// A fully dense sparse matrix is sorted after Wait, so cell q of
		// column j is row q - j*vlen; values need reordering only if the
		// rows were not 0..vlen-1, which sorted-and-dense rules out.
		v.x = append([]byte(nil), s.x...)
		v.shallow = false
	}
	v.bnvals = 0
	return v, nil
}

// convertTo transplants the target format into m in place.
func (m *Matrix) convertTo(f Sparsity) error {
	var v *Matrix
	var err error
	switch f {
	case Sparse:
		v, err = m.toSparse()
	case Hypersparse:
		v, err = m.toHyper()
	case Bitmap:
		v, err = m.toBitmap()
	case Full:
		v, err = m.toFull()
	default:
		return core.ErrInvalidValue
	}
	if err != nil {
		return err
	}
	if v == m {
		return nil
	}
	v.shallow = m.shallow // buffers still owned by whoever owned them
	cfg, valid := m.cfg, m.valid
	*m = *v
	m.cfg, m.valid = cfg, valid
	return nil
}

// expandIso materializes per-entry values for compute paths that index
// the value buffer directly. The pattern stays shared.
func (m *Matrix) expandIso() *Matrix {
	if !m.iso {
		return m
	}
	size := m.typ.Size()
	n := m.entryCount()
	if m.format == Bitmap || m.format == Full {
		n = m.vlen * m.vdim
	}
	v := viewOf(m)
	v.iso = false
	v.x = allocBytes(n * size)
	for k := 0; k < n; k++ {
		copy(v.x[k*size:], m.x[:size])
	}
	return v
}
