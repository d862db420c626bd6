// SPDX-License-Identifier: MIT
// Package matrix: select.
//
// Select keeps the entries of A satisfying an index-unary predicate;
// the same traversal as apply with filtering folded into phase 1.
// Positional predicates (TRIL, DIAG, ROW*, ...) never read values, so
// the filter runs on the pattern alone and values copy through.

package matrix

import "github.com/katalvlaran/graphblas/core"

// Select computes C⟨M⟩ = accum(C, A⟨f(·,i,j,thunk)⟩): entries of A where
// the predicate holds.
func Select(c, mask *Matrix, accum *core.BinaryOp, op *core.IndexUnaryOp, a *Matrix, thunk core.Scalar, desc *core.Descriptor) error {
	if err := ready(c, mask, a); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	if !thunk.Present() {
		return core.ErrUninitializedObject
	}
	if op.ZType() != core.Bool {
		return core.ErrDomainMismatch
	}
	d := desc.Get()
	ac, err := logicalInput(a, d.Input0Trans, c.byCol)
	if err != nil {
		return err
	}
	if c.vlen != ac.vlen || c.vdim != ac.vdim {
		return core.ErrDimensionMismatch
	}
	if err := maskShape(c, mask); err != nil {
		return err
	}
	if err := accumCompat(accum, c.typ, ac.typ); err != nil {
		return err
	}
	if err := typeCompat(c.typ, ac.typ); err != nil {
		return err
	}
	positional := core.IndexOpPositional(op.Opcode())
	if !positional {
		if err := typeCompat(op.XType(), ac.typ); err != nil {
			return err
		}
	}
	if err := typeCompat(op.ThunkType(), thunk.Type()); err != nil {
		return err
	}
	s, err := ac.toSparse()
	if err != nil {
		return err
	}
	tbuf := make([]byte, op.ThunkType().Size())
	core.Cast(op.ThunkType(), tbuf, 0, thunk.Type(), thunk.Bytes(), 0)
	threads := callThreads(d)
	size := s.typ.Size()
	core.Burblef("select: %s on %dx%d", op.Name(), c.NRows(), c.NCols())

	makeTest := func() func(q, j int) bool {
		flag := make([]byte, 1)
		xbuf := make([]byte, op.XType().Size())
		castX := core.CastFunc(op.XType(), s.typ)
		return func(q, j int) bool {
			row, col := s.i[q], j
			if !s.byCol {
				row, col = col, row
			}
			if !positional {
				castX(xbuf, 0, s.x, s.xidxRaw(q))
			}
			op.Call(flag, xbuf, row, col, tbuf)
			return core.Bools(flag)[0]
		}
	}

	// Phase 1: count survivors per vector.
	counts := allocInts(s.vdim)
	err = runTasks(threads, s.vdim, func(lo, hi int) error {
		test := makeTest()
		for j := lo; j < hi; j++ {
			n := 0
			for q := s.p[j]; q < s.p[j+1]; q++ {
				if test(q, j) {
					n++
				}
			}
			counts[j] = n
		}
		return nil
	})
	if err != nil {
		return err
	}

	z := newCSC(s.typ, s.vlen, s.vdim)
	z.byCol = s.byCol
	for j := 0; j < s.vdim; j++ {
		z.p[j+1] = z.p[j] + counts[j]
	}
	total := z.p[s.vdim]
	z.i = allocInts(total)
	if s.iso {
		z.iso = true
		z.x = append([]byte(nil), s.x[:size]...)
	} else {
		z.x = allocBytes(total * size)
	}

	// Phase 2: fill each vector's pre-assigned slice.
	err = runTasks(threads, s.vdim, func(lo, hi int) error {
		test := makeTest()
		for j := lo; j < hi; j++ {
			w := z.p[j]
			for q := s.p[j]; q < s.p[j+1]; q++ {
				if !test(q, j) {
					continue
				}
				z.i[w] = s.i[q]
				if !s.iso {
					copy(z.x[w*size:(w+1)*size], s.x[q*size:(q+1)*size])
				}
				w++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return applyMaskAccum(c, mask, accum, z, d, false)
}
