// SPDX-License-Identifier: MIT
// Package matrix: the matrix-multiply engine.
//
// MxM computes C⟨M⟩ = accum(C, A ⊗.⊕ B) with optional input transposes.
// Inputs are normalized to finalized column-oriented form; the method
// selector then picks one of three strategies by a deterministic cost
// model:
//
//   - dot:        masked-sparse outputs (compute only where M is true)
//     and tiny C;
//   - gustavson:  dense per-thread workspace (the Sauna), best when the
//     expected entries per output column are plentiful;
//   - heap:       k-way merge across the selected columns of A, best
//     when output columns stay sparse.
//
// The flop estimate is Σ over entries B(k,j) of nnz(A(:,k)), the exact
// multiply-add count of the saxpy forms.

package matrix

import "github.com/katalvlaran/graphblas/core"

// newCSC builds an owned, empty, column-oriented sparse container for a
// tentative result.
func newCSC(t *core.Type, vlen, vdim int) *Matrix {
	return &Matrix{
		typ: t, vlen: vlen, vdim: vdim, byCol: true,
		format: Sparse, p: allocInts(vdim + 1),
		cfg: defaultConfig(), valid: true,
	}
}

// flopEstimate counts multiply-adds of the saxpy forms.
func flopEstimate(a, b *Matrix) int64 {
	var flops int64
	for q := 0; q < b.p[b.nvec()]; q++ {
		k := b.i[q]
		ps, pe, ok := a.findVec(k)
		if ok {
			flops += int64(pe - ps)
		}
	}
	return flops
}

// chooseMethod applies the cost model. Ties break toward gustavson, so
// identical inputs always pick the same strategy.
func chooseMethod(d core.Descriptor, mask *Matrix, m, n int, flops int64) core.Method {
	if d.AxBMethod != core.MethodDefault {
		return d.AxBMethod
	}
	if mask != nil && !d.MaskComp {
		if mnz := int64(mask.entryCount()); 4*mnz < flops {
			return core.MethodDot
		}
	}
	if int64(m)*int64(n) <= 64 {
		return core.MethodDot
	}
	if 16*flops >= int64(m)*int64(n) {
		return core.MethodGustavson
	}
	return core.MethodHeap
}

// MxM computes C⟨M⟩ = accum(C, A ⊗.⊕ B) over semiring s.
func MxM(c, mask *Matrix, accum *core.BinaryOp, s *core.Semiring, a, b *Matrix, desc *core.Descriptor) error {
	if err := ready(c, mask, a, b); err != nil {
		return err
	}
	if s == nil {
		return core.ErrUninitializedObject
	}
	d := desc.Get()

	// Output may alias an input; compute into a disjoint Z regardless,
	// so aliasing is safe by construction.
	ac, err := logicalInput(a, d.Input0Trans, true)
	if err != nil {
		return err
	}
	bc, err := logicalInput(b, d.Input1Trans, true)
	if err != nil {
		return err
	}
	if ac, err = ac.toSparse(); err != nil {
		return err
	}
	if bc, err = bc.toSparse(); err != nil {
		return err
	}
	m, k, n := ac.vlen, ac.vdim, bc.vdim
	if bc.vlen != k {
		return core.ErrDimensionMismatch
	}
	if c.NRows() != m || c.NCols() != n {
		return core.ErrDimensionMismatch
	}
	mult := s.Mult()
	aPat, bPat := patternFlags(mult.Opcode())
	if !aPat {
		if err := typeCompat(mult.XType(), ac.typ); err != nil {
			return err
		}
	}
	if !bPat {
		if err := typeCompat(mult.YType(), bc.typ); err != nil {
			return err
		}
	}
	if err := accumCompat(accum, c.typ, s.ZType()); err != nil {
		return err
	}
	if err := typeCompat(c.typ, s.ZType()); err != nil {
		return err
	}

	var mc *Matrix
	if mask != nil {
		if err := maskShape(c, mask); err != nil {
			return err
		}
		if mc, err = logicalInput(mask, false, true); err != nil {
			return err
		}
		if mc, err = mc.toSparse(); err != nil {
			return err
		}
	}

	flops := flopEstimate(ac, bc)
	method := chooseMethod(d, mc, m, n, flops)
	threads := callThreads(d)
	kf := kernelFor(s, ac.typ, bc.typ, false)
	core.Burblef("mxm: %dx%dx%d method=%s flops=%d threads=%d", m, k, n, method, flops, threads)

	var z *Matrix
	maskApplied := false
	switch method {
	case core.MethodDot:
		useMask := mc != nil && !d.MaskComp
		z, err = axbDot(kf, ac, bc, mc, useMask, d.MaskStruct, threads)
		maskApplied = useMask
	case core.MethodHeap:
		z, err = axbHeap(kf, ac, bc, threads)
	default:
		z, err = axbGustavson(kf, ac, bc, threads)
	}
	if err != nil {
		return err
	}
	return applyMaskAccum(c, mask, accum, z, d, maskApplied)
}
