// SPDX-License-Identifier: MIT
// Package matrix: dense bridge to gonum.
//
// The bridge hands matrices to dense linear-algebra consumers and back:
// ToDense materializes every cell (absent → 0) into a gonum mat.Dense,
// FromDense ingests one as a full-format fp64 matrix. Tests use the
// bridge as the reference oracle for the multiply engines.

package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/graphblas/core"
)

// ToDense materializes the matrix as a gonum dense matrix of float64,
// casting built-in values; absent cells are zero. User-typed matrices
// are rejected with ErrDomainMismatch.
func (m *Matrix) ToDense() (*mat.Dense, error) {
	if err := ready(m); err != nil {
		return nil, err
	}
	if !m.typ.Builtin() {
		return nil, core.ErrDomainMismatch
	}
	if err := m.Wait(); err != nil {
		return nil, err
	}
	s, err := m.toSparse()
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(m.NRows(), m.NCols(), nil)
	fbuf := make([]byte, 8)
	castF := core.CastFunc(core.FP64, s.typ)
	for j := 0; j < s.vdim; j++ {
		for q := s.p[j]; q < s.p[j+1]; q++ {
			castF(fbuf, 0, s.x, s.xidxRaw(q))
			row, col := s.i[q], j
			if !s.byCol {
				row, col = col, row
			}
			out.Set(row, col, core.Float64s(fbuf)[0])
		}
	}
	return out, nil
}

// FromDense ingests a gonum dense matrix as a full-format fp64 matrix;
// every cell is present, zeros included.
func FromDense(d *mat.Dense, opts ...Option) (*Matrix, error) {
	if d == nil {
		return nil, core.ErrNilPointer
	}
	nr, nc := d.Dims()
	m, err := New(core.FP64, nr, nc, opts...)
	if err != nil {
		return nil, err
	}
	m.format = Full
	m.p, m.h, m.i, m.bmap = nil, nil, nil, nil
	m.bnvals = 0
	m.x = allocBytes(m.vlen * m.vdim * 8)
	vals := core.Float64s(m.x)
	for j := 0; j < m.vdim; j++ {
		for i := 0; i < m.vlen; i++ {
			row, col := i, j
			if !m.byCol {
				row, col = j, i
			}
			vals[j*m.vlen+i] = d.At(row, col)
		}
	}
	return m, m.conform()
}
