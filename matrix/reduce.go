// SPDX-License-Identifier: MIT
// Package matrix: monoid reductions.
//
// ReduceToScalar folds every live entry under the monoid with per-task
// partial accumulators combined pairwise in task order afterwards, so a
// given task partition always yields the same value. A terminal monoid
// short-circuits: a task stops the moment its partial absorbs.
// ReduceToVector folds along one dimension (rows by default, columns
// under the input-transpose descriptor) and commits through the masked
// accumulation protocol.

package matrix

import "github.com/katalvlaran/graphblas/core"

// ReduceToScalar folds all entries of a under monoid m. An empty matrix
// reduces to the identity.
func ReduceToScalar(m *core.Monoid, a *Matrix, desc *core.Descriptor) (core.Scalar, error) {
	if !core.Initialized() {
		return core.Scalar{}, core.ErrEngineNotInit
	}
	if m == nil {
		return core.Scalar{}, core.ErrUninitializedObject
	}
	if err := validMatrix(a); err != nil {
		return core.Scalar{}, err
	}
	if err := typeCompat(m.Type(), a.typ); err != nil {
		return core.Scalar{}, err
	}
	if err := a.Wait(); err != nil {
		return core.Scalar{}, err
	}
	s, err := a.toSparse()
	if err != nil {
		return core.Scalar{}, err
	}
	d := desc.Get()
	threads := callThreads(d)
	zsize := m.Type().Size()
	op := m.Op()
	castX := core.CastFunc(m.Type(), s.typ)
	nvals := s.p[s.vdim]
	core.Burblef("reduce: %s over %d entries", m.Name(), nvals)

	spans := splitRange(nvals, taskCount(threads, nvals))
	partials := allocBytes(len(spans) * zsize)
	err = runTasks(threads, len(spans), func(lo, hi int) error {
		xbuf := make([]byte, zsize)
		for t := lo; t < hi; t++ {
			cell := partials[t*zsize : (t+1)*zsize]
			copy(cell, m.Identity())
			for q := spans[t][0]; q < spans[t][1]; q++ {
				castX(xbuf, 0, s.x, s.xidxRaw(q))
				op.Call(cell, cell, xbuf)
				if m.ShortCircuit() && m.TerminalReached(partials, t) {
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return core.Scalar{}, err
	}

	// Pairwise combine in task order: deterministic for a fixed split.
	out := make([]byte, zsize)
	copy(out, m.Identity())
	for t := range spans {
		op.Call(out, out, partials[t*zsize:(t+1)*zsize])
		if m.ShortCircuit() && m.TerminalReached(out, 0) {
			break
		}
	}
	return core.ScalarBytes(m.Type(), out)
}

// ReduceToVector computes w⟨mask⟩ = accum(w, ⊕_j A(i,j)): one fold per
// row, or per column when the descriptor transposes the input.
func ReduceToVector(w, mask *Vector, accum *core.BinaryOp, m *core.Monoid, a *Matrix, desc *core.Descriptor) error {
	if w == nil {
		return core.ErrNilPointer
	}
	var maskM *Matrix
	if mask != nil {
		maskM = mask.m
	}
	if err := ready(w.m, maskM, a); err != nil {
		return err
	}
	if m == nil {
		return core.ErrUninitializedObject
	}
	if err := typeCompat(m.Type(), a.typ); err != nil {
		return err
	}
	if err := accumCompat(accum, w.m.typ, m.Type()); err != nil {
		return err
	}
	if err := typeCompat(w.m.typ, m.Type()); err != nil {
		return err
	}
	d := desc.Get()

	// Vectors are the reduced-along dimension: rows, so row-oriented.
	ar, err := logicalInput(a, d.Input0Trans, false)
	if err != nil {
		return err
	}
	if ar.vdim != w.Size() {
		return core.ErrDimensionMismatch
	}
	s, err := ar.toSparse()
	if err != nil {
		return err
	}
	zsize := m.Type().Size()
	op := m.Op()
	castX := core.CastFunc(m.Type(), s.typ)
	threads := callThreads(d)

	// Phase 1: count non-empty rows; phase 2 folds each row into its
	// pre-assigned slot.
	counts := allocInts(s.vdim)
	err = runTasks(threads, s.vdim, func(lo, hi int) error {
		for j := lo; j < hi; j++ {
			if s.p[j+1] > s.p[j] {
				counts[j] = 1
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	z := newCSC(m.Type(), w.Size(), 1)
	total := 0
	for j := 0; j < s.vdim; j++ {
		total += counts[j]
	}
	z.p[1] = total
	z.i = allocInts(total)
	z.x = allocBytes(total * zsize)
	offsets := allocInts(s.vdim)
	off := 0
	for j := 0; j < s.vdim; j++ {
		offsets[j] = off
		off += counts[j]
	}
	err = runTasks(threads, s.vdim, func(lo, hi int) error {
		xbuf := make([]byte, zsize)
		for j := lo; j < hi; j++ {
			if counts[j] == 0 {
				continue
			}
			slot := offsets[j]
			cell := z.x[slot*zsize : (slot+1)*zsize]
			copy(cell, m.Identity())
			for q := s.p[j]; q < s.p[j+1]; q++ {
				castX(xbuf, 0, s.x, s.xidxRaw(q))
				op.Call(cell, cell, xbuf)
				if m.ShortCircuit() && m.TerminalReached(z.x, slot) {
					break
				}
			}
			z.i[slot] = j
		}
		return nil
	})
	if err != nil {
		return err
	}
	return applyMaskAccum(w.m, maskM, accum, z, d, false)
}
