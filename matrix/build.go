// SPDX-License-Identifier: MIT
// Package matrix: bulk ingestion and extraction.
//
// Build ingests an (I, J, X) tuple list into an empty matrix, resolving
// duplicates under a caller-supplied binary operator; with no resolver,
// duplicates are an error. All-equal values collapse into an iso matrix.
// ExtractTuples is the inverse observer; it forces Wait.

package matrix

import (
	"bytes"
	"sort"

	"github.com/katalvlaran/graphblas/core"
)

// sliceBytes views a Go slice of supported element values as raw bytes
// of its inferred built-in type. A []byte is raw storage for t itself.
func sliceBytes(t *core.Type, values any) (src []byte, st *core.Type, n int, err error) {
	switch v := values.(type) {
	case []bool:
		b := make([]byte, len(v))
		copy(core.Bools(b), v)
		return b, core.Bool, len(v), nil
	case []int8:
		b := make([]byte, len(v))
		copy(core.Int8s(b), v)
		return b, core.Int8, len(v), nil
	case []int16:
		b := make([]byte, 2*len(v))
		copy(core.Int16s(b), v)
		return b, core.Int16, len(v), nil
	case []int32:
		b := make([]byte, 4*len(v))
		copy(core.Int32s(b), v)
		return b, core.Int32, len(v), nil
	case []int64:
		b := make([]byte, 8*len(v))
		copy(core.Int64s(b), v)
		return b, core.Int64, len(v), nil
	case []int:
		b := make([]byte, 8*len(v))
		dst := core.Int64s(b)
		for k, e := range v {
			dst[k] = int64(e)
		}
		return b, core.Int64, len(v), nil
	case []uint16:
		b := make([]byte, 2*len(v))
		copy(core.Uint16s(b), v)
		return b, core.Uint16, len(v), nil
	case []uint32:
		b := make([]byte, 4*len(v))
		copy(core.Uint32s(b), v)
		return b, core.Uint32, len(v), nil
	case []uint64:
		b := make([]byte, 8*len(v))
		copy(core.Uint64s(b), v)
		return b, core.Uint64, len(v), nil
	case []float32:
		b := make([]byte, 4*len(v))
		copy(core.Float32s(b), v)
		return b, core.FP32, len(v), nil
	case []float64:
		b := make([]byte, 8*len(v))
		copy(core.Float64s(b), v)
		return b, core.FP64, len(v), nil
	case []byte:
		if t.Code() == core.UserCode {
			if len(v)%t.Size() != 0 {
				return nil, nil, 0, core.ErrInvalidValue
			}
			return v, t, len(v) / t.Size(), nil
		}
		return v, core.Uint8, len(v), nil
	}
	return nil, nil, 0, core.ErrDomainMismatch
}

// Build ingests tuples (I[k], J[k], values[k]) into an empty matrix.
//
// Contract:
//   - the matrix holds no entries and no deferred work;
//   - len(I) == len(J) == len(values), all indices in bounds;
//   - dup resolves duplicate coordinates left-to-right; nil dup makes a
//     duplicate an ErrInvalidValue.
func (m *Matrix) Build(rows, cols []int, values any, dup *core.BinaryOp) error {
	if err := ready(m); err != nil {
		return err
	}
	if n, err := m.NVals(); err != nil {
		return err
	} else if n > 0 {
		return core.ErrOutputNotEmpty
	}
	src, st, n, err := sliceBytes(m.typ, values)
	if err != nil {
		return err
	}
	if len(rows) != n || len(cols) != n {
		return core.ErrDimensionMismatch
	}
	if err := typeCompat(m.typ, st); err != nil {
		return err
	}
	if dup != nil {
		if err := typeCompat(dup.XType(), m.typ); err != nil {
			return err
		}
		if err := typeCompat(m.typ, dup.ZType()); err != nil {
			return err
		}
	}
	for k := 0; k < n; k++ {
		if err := m.boundsCheck(rows[k], cols[k]); err != nil {
			return err
		}
	}
	size := m.typ.Size()

	// Cast the value stream into the matrix domain once, up front.
	vals := allocBytes(n * size)
	castFn := core.CastFunc(m.typ, st)
	for k := 0; k < n; k++ {
		castFn(vals, k, src, k)
	}

	// Order tuples by (outer, inner), stably, so the duplicate resolver
	// sees them left-to-right.
	perm := make([]int, n)
	for k := range perm {
		perm[k] = k
	}
	inner := make([]int, n)
	outer := make([]int, n)
	for k := 0; k < n; k++ {
		inner[k], outer[k] = m.rcToVec(rows[k], cols[k])
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ka, kb := perm[a], perm[b]
		if outer[ka] != outer[kb] {
			return outer[ka] < outer[kb]
		}
		return inner[ka] < inner[kb]
	})

	p := allocInts(m.vdim + 1)
	ri := make([]int, 0, n)
	rx := make([]byte, 0, n*size)
	lastOuter := -1
	for idx := 0; idx < n; idx++ {
		k := perm[idx]
		if len(ri) > 0 && outer[k] == lastOuter && ri[len(ri)-1] == inner[k] {
			if dup == nil {
				return core.ErrInvalidValue
			}
			cell := rx[(len(ri)-1)*size : len(ri)*size]
			tmp := make([]byte, size)
			dup.Call(tmp, cell, vals[k*size:(k+1)*size])
			copy(cell, tmp)
			continue
		}
		ri = append(ri, inner[k])
		rx = append(rx, vals[k*size:(k+1)*size]...)
		p[outer[k]+1]++
		lastOuter = outer[k]
	}
	for j := 0; j < m.vdim; j++ {
		p[j+1] += p[j]
	}

	m.format = Sparse
	m.h, m.bmap = nil, nil
	m.p, m.i = p, ri
	m.bnvals = 0
	m.nzombies = 0
	m.jumbled = false
	m.pend = nil

	// Iso detection: a tuple stream of one repeated value stores once.
	iso := len(ri) > 0
	for k := 1; k < len(ri) && iso; k++ {
		iso = bytes.Equal(rx[:size], rx[k*size:(k+1)*size])
	}
	if iso {
		m.iso = true
		m.x = append([]byte(nil), rx[:size]...)
	} else {
		m.iso = false
		m.x = rx
	}
	return m.conform()
}

// ExtractTuples returns the live entries as parallel (rows, cols,
// values) slices, values typed per the matrix domain. Forces Wait.
func (m *Matrix) ExtractTuples() (rows, cols []int, values any, err error) {
	if err := ready(m); err != nil {
		return nil, nil, nil, err
	}
	if err := m.Wait(); err != nil {
		return nil, nil, nil, err
	}
	s, err := m.toSparse()
	if err != nil {
		return nil, nil, nil, err
	}
	n := s.p[s.vdim]
	rows = make([]int, 0, n)
	cols = make([]int, 0, n)
	size := m.typ.Size()
	raw := make([]byte, 0, n*size)
	for j := 0; j < s.vdim; j++ {
		for q := s.p[j]; q < s.p[j+1]; q++ {
			if m.byCol {
				rows = append(rows, s.i[q])
				cols = append(cols, j)
			} else {
				rows = append(rows, j)
				cols = append(cols, s.i[q])
			}
			raw = append(raw, s.xcell(q)...)
		}
	}
	return rows, cols, typedValues(m.typ, raw, n), nil
}

// typedValues converts a raw value stream into the natural Go slice.
func typedValues(t *core.Type, raw []byte, n int) any {
	switch t.Code() {
	case core.BoolCode:
		return append([]bool(nil), core.Bools(raw)[:n]...)
	case core.Int8Code:
		return append([]int8(nil), core.Int8s(raw)[:n]...)
	case core.Int16Code:
		return append([]int16(nil), core.Int16s(raw)[:n]...)
	case core.Int32Code:
		return append([]int32(nil), core.Int32s(raw)[:n]...)
	case core.Int64Code:
		return append([]int64(nil), core.Int64s(raw)[:n]...)
	case core.Uint8Code:
		return append([]byte(nil), raw[:n]...)
	case core.Uint16Code:
		return append([]uint16(nil), core.Uint16s(raw)[:n]...)
	case core.Uint32Code:
		return append([]uint32(nil), core.Uint32s(raw)[:n]...)
	case core.Uint64Code:
		return append([]uint64(nil), core.Uint64s(raw)[:n]...)
	case core.FP32Code:
		return append([]float32(nil), core.Float32s(raw)[:n]...)
	case core.FP64Code:
		return append([]float64(nil), core.Float64s(raw)[:n]...)
	}
	return append([]byte(nil), raw...)
}
