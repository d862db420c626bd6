// SPDX-License-Identifier: MIT
// Package matrix: zero-copy import/export of compressed forms.
//
// Import takes ownership of caller arrays after validating the
// compressed-form invariants; no copy is made. Export finalizes,
// normalizes to the requested orientation, hands the arrays out, and
// frees the container: the inverse ownership move.

package matrix

import "github.com/katalvlaran/graphblas/core"

// importCompressed validates and wraps caller arrays. With jumbled set,
// per-vector order is not required and the matrix carries the jumbled
// flag until Wait sorts it.
func importCompressed(t *core.Type, vlen, vdim int, p, idx []int, x []byte, iso, byCol, jumbled bool, opts []Option) (*Matrix, error) {
	if !core.Initialized() {
		return nil, core.ErrEngineNotInit
	}
	if t == nil {
		return nil, core.ErrUninitializedObject
	}
	if vlen <= 0 || vdim <= 0 || p == nil {
		return nil, core.ErrInvalidValue
	}
	if len(p) != vdim+1 || p[0] != 0 || p[vdim] != len(idx) {
		return nil, core.ErrInvalidValue
	}
	for j := 0; j < vdim; j++ {
		if p[j] > p[j+1] {
			return nil, core.ErrInvalidValue
		}
		if jumbled {
			continue
		}
		for q := p[j] + 1; q < p[j+1]; q++ {
			if idx[q-1] >= idx[q] {
				return nil, core.ErrInvalidValue
			}
		}
	}
	for _, i := range idx {
		if i < 0 || i >= vlen {
			return nil, core.ErrIndexOutOfBounds
		}
	}
	want := len(idx) * t.Size()
	if iso {
		want = t.Size()
	}
	if len(x) != want {
		return nil, core.ErrInvalidValue
	}
	cfg := defaultConfig()
	cfg.byCol = byCol
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.byCol = byCol
	m := &Matrix{
		typ: t, vlen: vlen, vdim: vdim, byCol: byCol,
		format: Sparse, p: p, i: idx, x: x, iso: iso,
		jumbled: jumbled, cfg: cfg, valid: true,
	}
	return m, m.conform()
}

// ImportCSC wraps caller-owned CSC arrays: p has ncols+1 offsets, idx
// holds strictly increasing row indices per column, x the values (one
// element when iso).
func ImportCSC(t *core.Type, nrows, ncols int, p, idx []int, x []byte, iso bool, opts ...Option) (*Matrix, error) {
	return importCompressed(t, nrows, ncols, p, idx, x, iso, true, false, opts)
}

// ImportCSCJumbled admits per-column unsorted row indices; the matrix
// carries the jumbled flag until Wait restores order.
func ImportCSCJumbled(t *core.Type, nrows, ncols int, p, idx []int, x []byte, iso bool, opts ...Option) (*Matrix, error) {
	return importCompressed(t, nrows, ncols, p, idx, x, iso, true, true, opts)
}

// ImportCSR wraps caller-owned CSR arrays: p has nrows+1 offsets, idx
// holds strictly increasing column indices per row.
func ImportCSR(t *core.Type, nrows, ncols int, p, idx []int, x []byte, iso bool, opts ...Option) (*Matrix, error) {
	return importCompressed(t, ncols, nrows, p, idx, x, iso, false, false, opts)
}

// exportCompressed finalizes, reorients, and releases the container.
func (m *Matrix) exportCompressed(byCol bool) (vlen, vdim int, p, idx []int, x []byte, iso bool, err error) {
	if err = ready(m); err != nil {
		return
	}
	if err = m.Wait(); err != nil {
		return
	}
	v, err := reorient(m, byCol)
	if err != nil {
		return
	}
	s, err := v.toSparse()
	if err != nil {
		return
	}
	vlen, vdim, iso = s.vlen, s.vdim, s.iso
	p, idx, x = s.p, s.i, s.x
	m.Free()
	return
}

// ExportCSC finalizes the matrix, hands out its CSC arrays, and frees
// the container. The caller owns the returned slices.
func (m *Matrix) ExportCSC() (nrows, ncols int, p, idx []int, x []byte, iso bool, err error) {
	return m.exportCompressed(true)
}

// ExportCSR is ExportCSC's row-oriented sibling.
func (m *Matrix) ExportCSR() (nrows, ncols int, p, idx []int, x []byte, iso bool, err error) {
	vlen, vdim, p, idx, x, iso, err := m.exportCompressed(false)
	return vdim, vlen, p, idx, x, iso, err
}
