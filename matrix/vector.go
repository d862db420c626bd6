// SPDX-License-Identifier: MIT
// Package matrix: vectors.
//
// A Vector is an n × 1 column-oriented matrix under a thinner surface.
// MxV and VxM delegate to the mxm engine; v'A runs as A'v, so neither
// form materializes a transposed vector.

package matrix

import "github.com/katalvlaran/graphblas/core"

// Vector is a sparse vector of length Size.
type Vector struct {
	m *Matrix
}

// VectorNew constructs an empty vector of length size.
func VectorNew(t *core.Type, size int, opts ...Option) (*Vector, error) {
	opts = append(opts, ByCol())
	m, err := New(t, size, 1, opts...)
	if err != nil {
		return nil, err
	}
	return &Vector{m: m}, nil
}

// AsMatrix exposes the vector as its backing size × 1 matrix.
func (v *Vector) AsMatrix() *Matrix { return v.m }

// Size returns the vector length.
func (v *Vector) Size() int { return v.m.vlen }

// Type returns the element type.
func (v *Vector) Type() *core.Type { return v.m.typ }

// NVals returns the number of live entries (zombies excluded).
func (v *Vector) NVals() (int, error) { return v.m.NVals() }

// SetElement stores value x at index i.
func (v *Vector) SetElement(x any, i int) error { return v.m.SetElement(x, i, 0) }

// RemoveElement deletes the entry at index i if present.
func (v *Vector) RemoveElement(i int) error { return v.m.RemoveElement(i, 0) }

// ExtractElement reads index i; the second result is false when absent.
func (v *Vector) ExtractElement(i int) (any, bool, error) {
	return v.m.ExtractElement(i, 0)
}

// Build ingests (indices, values) into an empty vector.
func (v *Vector) Build(indices []int, values any, dup *core.BinaryOp) error {
	cols := make([]int, len(indices))
	return v.m.Build(indices, cols, values, dup)
}

// ExtractTuples returns the live entries as (indices, values).
func (v *Vector) ExtractTuples() (indices []int, values any, err error) {
	rows, _, values, err := v.m.ExtractTuples()
	return rows, values, err
}

// Dup returns a deep copy.
func (v *Vector) Dup() (*Vector, error) {
	d, err := v.m.Dup()
	if err != nil {
		return nil, err
	}
	return &Vector{m: d}, nil
}

// Clear removes every entry.
func (v *Vector) Clear() error { return v.m.Clear() }

// Free releases the vector.
func (v *Vector) Free() {
	if v != nil {
		v.m.Free()
	}
}

// Wait resolves deferred work.
func (v *Vector) Wait() error { return v.m.Wait() }

// maskOf unwraps an optional vector mask.
func maskOf(v *Vector) *Matrix {
	if v == nil {
		return nil
	}
	return v.m
}

// MxV computes w⟨mask⟩ = accum(w, A ⊗.⊕ u). The descriptor's input-0
// transpose applies to A.
func MxV(w, mask *Vector, accum *core.BinaryOp, s *core.Semiring, a *Matrix, u *Vector, desc *core.Descriptor) error {
	if w == nil || u == nil {
		return core.ErrNilPointer
	}
	d := desc.Get()
	d.Input1Trans = false
	return MxM(w.m, maskOf(mask), accum, s, a, u.m, &d)
}

// VxM computes w⟨mask⟩ = accum(w, u' ⊗.⊕ A), evaluated as A'u. The
// descriptor's input-1 transpose applies to A and cancels the internal
// transpose.
func VxM(w, mask *Vector, accum *core.BinaryOp, s *core.Semiring, u *Vector, a *Matrix, desc *core.Descriptor) error {
	if w == nil || u == nil {
		return core.ErrNilPointer
	}
	d := desc.Get()
	d.Input0Trans = !d.Input1Trans
	d.Input1Trans = false
	return MxM(w.m, maskOf(mask), accum, s, a, u.m, &d)
}
