// SPDX-License-Identifier: MIT
// Package matrix: the elementwise engine.
//
// EwiseAdd merges over the set union of the operand patterns (the
// operator runs only where both are present; a lone entry is typecast
// through), EwiseMult over the set intersection. Both run in two
// phases: phase 1 counts each output vector from the pattern merge,
// a cumulative sum turns counts into offsets, and phase 2 fills each
// task's pre-assigned slice; the barrier between the phases is the
// task-list join.
//
// Per-vector merging picks between a linear two-pointer walk and, for
// intersection with one side much denser, iterating the sparse side
// while binary-searching the dense side. Absence is intersection-strict:
// absent ⊗ absent and absent ⊗ present are both absent.

package matrix

import (
	"sort"

	"github.com/katalvlaran/graphblas/core"
)

// muchDenserRatio gates the binary-search merge case.
const muchDenserRatio = 64

// ewiseMerge walks the pattern merge of one vector pair, reporting each
// output entry: qa/qb are stored-entry slots, valid per the which flag
// (1 = only a, 2 = only b, 3 = both).
func ewiseMerge(a, b *Matrix, j int, union bool, emit func(i, qa, qb int, which uint8)) {
	qa, qaEnd, _ := a.findVec(j)
	qb, qbEnd, _ := b.findVec(j)

	if !union {
		// Intersection with a lopsided pair: probe the dense side.
		na, nb := qaEnd-qa, qbEnd-qb
		if na > muchDenserRatio*nb {
			for ; qb < qbEnd; qb++ {
				i := b.i[qb]
				pos := qa + sort.SearchInts(a.i[qa:qaEnd], i)
				if pos < qaEnd && a.i[pos] == i {
					emit(i, pos, qb, 3)
				}
			}
			return
		}
		if nb > muchDenserRatio*na {
			for ; qa < qaEnd; qa++ {
				i := a.i[qa]
				pos := qb + sort.SearchInts(b.i[qb:qbEnd], i)
				if pos < qbEnd && b.i[pos] == i {
					emit(i, qa, pos, 3)
				}
			}
			return
		}
	}

	for qa < qaEnd && qb < qbEnd {
		switch {
		case a.i[qa] < b.i[qb]:
			if union {
				emit(a.i[qa], qa, 0, 1)
			}
			qa++
		case a.i[qa] > b.i[qb]:
			if union {
				emit(b.i[qb], 0, qb, 2)
			}
			qb++
		default:
			emit(a.i[qa], qa, qb, 3)
			qa++
			qb++
		}
	}
	if union {
		for ; qa < qaEnd; qa++ {
			emit(a.i[qa], qa, 0, 1)
		}
		for ; qb < qbEnd; qb++ {
			emit(b.i[qb], 0, qb, 2)
		}
	}
}

// ewiseCompute builds the tentative result Z for add (union) or mult
// (intersection).
func ewiseCompute(op *core.BinaryOp, a, b *Matrix, union bool, threads int) (*Matrix, error) {
	ztype := op.ZType()
	zsize := ztype.Size()
	z := newCSC(ztype, a.vlen, a.vdim)
	n := a.vdim

	spans := columnSpans(a, taskCount(threads, a.entryCount()+b.entryCount()))

	// Phase 1: count each output vector.
	counts := allocInts(n)
	err := runTasks(threads, len(spans), func(lo, hi int) error {
		for t := lo; t < hi; t++ {
			for j := spans[t][0]; j < spans[t][1]; j++ {
				c := 0
				ewiseMerge(a, b, j, union, func(int, int, int, uint8) { c++ })
				counts[j] = c
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cumulative sum across all tasks' vectors.
	for j := 0; j < n; j++ {
		z.p[j+1] = z.p[j] + counts[j]
	}
	total := z.p[n]
	z.i = allocInts(total)
	z.x = allocBytes(total * zsize)

	// Phase 2: each task fills its pre-assigned slice of Cp.
	castXA := core.CastFunc(op.XType(), a.typ)
	castYB := core.CastFunc(op.YType(), b.typ)
	castZA := core.CastFunc(ztype, a.typ)
	castZB := core.CastFunc(ztype, b.typ)
	err = runTasks(threads, len(spans), func(lo, hi int) error {
		for t := lo; t < hi; t++ {
			xbuf := make([]byte, op.XType().Size())
			ybuf := make([]byte, op.YType().Size())
			for j := spans[t][0]; j < spans[t][1]; j++ {
				q := z.p[j]
				ewiseMerge(a, b, j, union, func(i, qa, qb int, which uint8) {
					z.i[q] = i
					switch which {
					case 3:
						castXA(xbuf, 0, a.x, a.xidxRaw(qa))
						castYB(ybuf, 0, b.x, b.xidxRaw(qb))
						op.Call(z.x[q*zsize:], xbuf, ybuf)
					case 1:
						castZA(z.x, q, a.x, a.xidxRaw(qa))
					default:
						castZB(z.x, q, b.x, b.xidxRaw(qb))
					}
					q++
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return z, nil
}

// ewise is the shared front of EwiseAdd / EwiseMult.
func ewise(c, mask *Matrix, accum, op *core.BinaryOp, a, b *Matrix, desc *core.Descriptor, union bool) error {
	if err := ready(c, mask, a, b); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	d := desc.Get()
	ac, err := logicalInput(a, d.Input0Trans, c.byCol)
	if err != nil {
		return err
	}
	bc, err := logicalInput(b, d.Input1Trans, c.byCol)
	if err != nil {
		return err
	}
	if ac.vlen != bc.vlen || ac.vdim != bc.vdim {
		return core.ErrDimensionMismatch
	}
	if c.vlen != ac.vlen || c.vdim != ac.vdim {
		return core.ErrDimensionMismatch
	}
	if err := typeCompat(op.XType(), ac.typ); err != nil {
		return err
	}
	if err := typeCompat(op.YType(), bc.typ); err != nil {
		return err
	}
	if err := accumCompat(accum, c.typ, op.ZType()); err != nil {
		return err
	}
	if err := typeCompat(c.typ, op.ZType()); err != nil {
		return err
	}
	if ac, err = ac.toSparse(); err != nil {
		return err
	}
	if bc, err = bc.toSparse(); err != nil {
		return err
	}
	threads := callThreads(d)
	kind := "mult"
	if union {
		kind = "add"
	}
	core.Burblef("ewise_%s: %dx%d threads=%d", kind, c.NRows(), c.NCols(), threads)
	z, err := ewiseCompute(op, ac, bc, union, threads)
	if err != nil {
		return err
	}
	z.byCol = c.byCol
	return applyMaskAccum(c, mask, accum, z, d, false)
}

// EwiseAdd computes C⟨M⟩ = accum(C, A ⊕ B) over the pattern union.
func EwiseAdd(c, mask *Matrix, accum, op *core.BinaryOp, a, b *Matrix, desc *core.Descriptor) error {
	return ewise(c, mask, accum, op, a, b, desc, true)
}

// EwiseMult computes C⟨M⟩ = accum(C, A ⊗ B) over the pattern
// intersection.
func EwiseMult(c, mask *Matrix, accum, op *core.BinaryOp, a, b *Matrix, desc *core.Descriptor) error {
	return ewise(c, mask, accum, op, a, b, desc, false)
}
