// SPDX-License-Identifier: MIT
// Package matrix: shared fail-fast validators. Every primitive validates
// its operands up front so no partial writes occur on a rejected call.

package matrix

import "github.com/katalvlaran/graphblas/core"

// validMatrix rejects nil or freed containers.
func validMatrix(m *Matrix) error {
	if m == nil {
		return core.ErrUninitializedObject
	}
	if !m.valid {
		return core.ErrInvalidObject
	}
	return nil
}

// ready rejects calls before Init and invalid operands; optional
// operands pass as nil.
func ready(out *Matrix, ins ...*Matrix) error {
	if !core.Initialized() {
		return core.ErrEngineNotInit
	}
	if err := validMatrix(out); err != nil {
		return err
	}
	for _, in := range ins {
		if in == nil {
			continue
		}
		if err := validMatrix(in); err != nil {
			return err
		}
	}
	return nil
}

// sameShape rejects shape mismatches between c and z candidates.
func sameShape(a, b *Matrix) error {
	if a.NRows() != b.NRows() || a.NCols() != b.NCols() {
		return core.ErrDimensionMismatch
	}
	return nil
}

// maskShape rejects masks whose shape differs from the output.
func maskShape(c, mask *Matrix) error {
	if mask == nil {
		return nil
	}
	return sameShape(c, mask)
}

// typeCompat rejects a value flow between incompatible domains.
func typeCompat(dst, src *core.Type) error {
	if !dst.Compatible(src) {
		return core.ErrDomainMismatch
	}
	return nil
}

// accumCompat validates an optional accumulator against the output type
// and the tentative result type.
func accumCompat(accum *core.BinaryOp, ctype, ztype *core.Type) error {
	if accum == nil {
		return nil
	}
	if err := typeCompat(accum.XType(), ctype); err != nil {
		return err
	}
	if err := typeCompat(accum.YType(), ztype); err != nil {
		return err
	}
	return typeCompat(ctype, accum.ZType())
}
