// SPDX-License-Identifier: MIT
// Package matrix: apply (unary, bound binary, index-unary).
//
// Apply walks the pattern of A and writes z = f(a), or f(x, a),
// f(a, y), f(a, i, j, thunk), into a result sharing A's pattern. When
// the operator is identity-shaped and no typecast is needed, the value
// buffer is shared too (shallow), so the apply costs one pattern borrow.

package matrix

import "github.com/katalvlaran/graphblas/core"

// applyShape reports the identity-shaped cases that allow a shallow
// value borrow.
func applyShape(op *core.UnaryOp, atype *core.Type) bool {
	return op.Opcode() == core.OpIdentity && op.ZType() == atype && op.XType() == atype
}

// applyEval writes the operator result for stored slot q into dst cell
// dk; (row, col) is the entry's logical position.
type applyEval func(dst []byte, dk, q, row, col int)

// applyCompute evaluates the operator over every stored entry of a,
// producing Z with a's (borrowed) pattern. makeEval yields one evaluator
// per task, so scratch buffers never cross goroutines.
func applyCompute(a *Matrix, ztype *core.Type, threads int,
	makeEval func() applyEval) (*Matrix, error) {

	s, err := a.toSparse()
	if err != nil {
		return nil, err
	}
	zsize := ztype.Size()
	nvals := s.p[s.vdim]
	z := viewOf(s)
	z.typ = ztype
	z.iso = false
	z.x = allocBytes(nvals * zsize)
	z.bnvals = 0

	err = runTasks(threads, s.vdim, func(lo, hi int) error {
		eval := makeEval()
		for j := lo; j < hi; j++ {
			for q := s.p[j]; q < s.p[j+1]; q++ {
				row, col := s.i[q], j
				if !s.byCol {
					row, col = col, row
				}
				eval(z.x, q, q, row, col)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return z, nil
}

// applyFront validates and normalizes the shared part of every apply
// variant, handing back the input in c's orientation and sparse form,
// so evaluator slots index the value buffer directly.
func applyFront(c, mask, a *Matrix, accum *core.BinaryOp, ztype *core.Type, desc core.Descriptor) (*Matrix, error) {
	ac, err := logicalInput(a, desc.Input0Trans, c.byCol)
	if err != nil {
		return nil, err
	}
	if c.vlen != ac.vlen || c.vdim != ac.vdim {
		return nil, core.ErrDimensionMismatch
	}
	if err := maskShape(c, mask); err != nil {
		return nil, err
	}
	if err := accumCompat(accum, c.typ, ztype); err != nil {
		return nil, err
	}
	if err := typeCompat(c.typ, ztype); err != nil {
		return nil, err
	}
	return ac.toSparse()
}

// Apply computes C⟨M⟩ = accum(C, f(A)) for a unary f.
func Apply(c, mask *Matrix, accum *core.BinaryOp, op *core.UnaryOp, a *Matrix, desc *core.Descriptor) error {
	if err := ready(c, mask, a); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	d := desc.Get()
	ac, err := applyFront(c, mask, a, accum, op.ZType(), d)
	if err != nil {
		return err
	}
	if err := typeCompat(op.XType(), ac.typ); err != nil {
		return err
	}
	core.Burblef("apply: %s on %dx%d", op.Name(), c.NRows(), c.NCols())

	// Shallow fast path: identity shape, no typecast: borrow values.
	if applyShape(op, ac.typ) {
		s, err := ac.toSparse()
		if err != nil {
			return err
		}
		z := viewOf(s)
		return applyMaskAccum(c, mask, accum, z, d, false)
	}

	castX := core.CastFunc(op.XType(), ac.typ)
	zsize := op.ZType().Size()
	z, err := applyCompute(ac, op.ZType(), callThreads(d), func() applyEval {
		xbuf := make([]byte, op.XType().Size())
		return func(dst []byte, dk, q, _, _ int) {
			castX(xbuf, 0, ac.x, ac.xidxRaw(q))
			op.Call(dst[dk*zsize:], xbuf)
		}
	})
	if err != nil {
		return err
	}
	return applyMaskAccum(c, mask, accum, z, d, false)
}

// ApplyBinary1st computes C⟨M⟩ = accum(C, f(x, A)): the first operand
// of f is bound to the scalar x.
func ApplyBinary1st(c, mask *Matrix, accum, op *core.BinaryOp, x core.Scalar, a *Matrix, desc *core.Descriptor) error {
	if err := ready(c, mask, a); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	if !x.Present() {
		return core.ErrUninitializedObject
	}
	d := desc.Get()
	ac, err := applyFront(c, mask, a, accum, op.ZType(), d)
	if err != nil {
		return err
	}
	if err := typeCompat(op.XType(), x.Type()); err != nil {
		return err
	}
	if err := typeCompat(op.YType(), ac.typ); err != nil {
		return err
	}
	xbound := make([]byte, op.XType().Size())
	core.Cast(op.XType(), xbound, 0, x.Type(), x.Bytes(), 0)
	castY := core.CastFunc(op.YType(), ac.typ)
	zsize := op.ZType().Size()
	z, err := applyCompute(ac, op.ZType(), callThreads(d), func() applyEval {
		ybuf := make([]byte, op.YType().Size())
		return func(dst []byte, dk, q, _, _ int) {
			castY(ybuf, 0, ac.x, ac.xidxRaw(q))
			op.Call(dst[dk*zsize:], xbound, ybuf)
		}
	})
	if err != nil {
		return err
	}
	return applyMaskAccum(c, mask, accum, z, d, false)
}

// ApplyBinary2nd computes C⟨M⟩ = accum(C, f(A, y)): the second operand
// of f is bound to the scalar y.
func ApplyBinary2nd(c, mask *Matrix, accum, op *core.BinaryOp, a *Matrix, y core.Scalar, desc *core.Descriptor) error {
	if err := ready(c, mask, a); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	if !y.Present() {
		return core.ErrUninitializedObject
	}
	d := desc.Get()
	ac, err := applyFront(c, mask, a, accum, op.ZType(), d)
	if err != nil {
		return err
	}
	if err := typeCompat(op.YType(), y.Type()); err != nil {
		return err
	}
	if err := typeCompat(op.XType(), ac.typ); err != nil {
		return err
	}
	ybound := make([]byte, op.YType().Size())
	core.Cast(op.YType(), ybound, 0, y.Type(), y.Bytes(), 0)
	castX := core.CastFunc(op.XType(), ac.typ)
	zsize := op.ZType().Size()
	z, err := applyCompute(ac, op.ZType(), callThreads(d), func() applyEval {
		xbuf := make([]byte, op.XType().Size())
		return func(dst []byte, dk, q, _, _ int) {
			castX(xbuf, 0, ac.x, ac.xidxRaw(q))
			op.Call(dst[dk*zsize:], xbuf, ybound)
		}
	})
	if err != nil {
		return err
	}
	return applyMaskAccum(c, mask, accum, z, d, false)
}

// ApplyIndexOp computes C⟨M⟩ = accum(C, f(A, i, j, thunk)).
func ApplyIndexOp(c, mask *Matrix, accum *core.BinaryOp, op *core.IndexUnaryOp, a *Matrix, thunk core.Scalar, desc *core.Descriptor) error {
	if err := ready(c, mask, a); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	if !thunk.Present() {
		return core.ErrUninitializedObject
	}
	d := desc.Get()
	ac, err := applyFront(c, mask, a, accum, op.ZType(), d)
	if err != nil {
		return err
	}
	if err := typeCompat(op.XType(), ac.typ); err != nil {
		return err
	}
	if err := typeCompat(op.ThunkType(), thunk.Type()); err != nil {
		return err
	}
	tbuf := make([]byte, op.ThunkType().Size())
	core.Cast(op.ThunkType(), tbuf, 0, thunk.Type(), thunk.Bytes(), 0)
	castX := core.CastFunc(op.XType(), ac.typ)
	zsize := op.ZType().Size()
	z, err := applyCompute(ac, op.ZType(), callThreads(d), func() applyEval {
		xbuf := make([]byte, op.XType().Size())
		return func(dst []byte, dk, q, row, col int) {
			castX(xbuf, 0, ac.x, ac.xidxRaw(q))
			op.Call(dst[dk*zsize:], xbuf, row, col, tbuf)
		}
	})
	if err != nil {
		return err
	}
	return applyMaskAccum(c, mask, accum, z, d, false)
}
