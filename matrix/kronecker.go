// SPDX-License-Identifier: MIT
// Package matrix: Kronecker product.
//
// Z((ia,ib),(ja,jb)) = op(A(ia,ja), B(ib,jb)) with the usual row-major
// index pairing. Output columns partition cleanly by (ja, jb), so tasks
// own contiguous output-column spans and write disjoint slices.

package matrix

import "github.com/katalvlaran/graphblas/core"

// Kronecker computes C⟨M⟩ = accum(C, kron(A, B)) under op.
func Kronecker(c, mask *Matrix, accum, op *core.BinaryOp, a, b *Matrix, desc *core.Descriptor) error {
	if err := ready(c, mask, a, b); err != nil {
		return err
	}
	if op == nil {
		return core.ErrUninitializedObject
	}
	d := desc.Get()
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
	ra, ca := ac.vlen, ac.vdim
	rb, cb := bc.vlen, bc.vdim
	if c.NRows() != ra*rb || c.NCols() != ca*cb {
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
	if err := maskShape(c, mask); err != nil {
		return err
	}

	ztype := op.ZType()
	zsize := ztype.Size()
	z := newCSC(ztype, ra*rb, ca*cb)
	threads := callThreads(d)
	castX := core.CastFunc(op.XType(), ac.typ)
	castY := core.CastFunc(op.YType(), bc.typ)
	core.Burblef("kronecker: (%dx%d) kron (%dx%d)", ra, ca, rb, cb)

	n := ca * cb
	spans := splitRange(n, taskCount(threads, n))
	type part struct {
		counts []int
		i      []int
		x      []byte
	}
	parts := make([]part, len(spans))

	err = runTasks(threads, len(spans), func(lo, hi int) error {
		for t := lo; t < hi; t++ {
			jlo, jhi := spans[t][0], spans[t][1]
			counts := make([]int, jhi-jlo)
			var ti []int
			var tx []byte
			xbuf := make([]byte, op.XType().Size())
			ybuf := make([]byte, op.YType().Size())
			for jc := jlo; jc < jhi; jc++ {
				ja, jb := jc/cb, jc%cb
				for qa := ac.p[ja]; qa < ac.p[ja+1]; qa++ {
					castX(xbuf, 0, ac.x, ac.xidxRaw(qa))
					base := ac.i[qa] * rb
					for qb := bc.p[jb]; qb < bc.p[jb+1]; qb++ {
						castY(ybuf, 0, bc.x, bc.xidxRaw(qb))
						ti = append(ti, base+bc.i[qb])
						tx = append(tx, make([]byte, zsize)...)
						op.Call(tx[(len(ti)-1)*zsize:], xbuf, ybuf)
						counts[jc-jlo]++
					}
				}
			}
			parts[t] = part{counts: counts, i: ti, x: tx}
		}
		return nil
	})
	if err != nil {
		return err
	}

	total := 0
	for _, pt := range parts {
		total += len(pt.i)
	}
	z.i = allocInts(total)
	z.x = allocBytes(total * zsize)
	pos := 0
	for t, span := range spans {
		for jj, cnt := range parts[t].counts {
			z.p[span[0]+jj+1] = z.p[span[0]+jj] + cnt
		}
		copy(z.i[pos:], parts[t].i)
		copy(z.x[pos*zsize:], parts[t].x)
		pos += len(parts[t].i)
	}
	return applyMaskAccum(c, mask, accum, z, d, false)
}
