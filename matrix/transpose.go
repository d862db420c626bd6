// SPDX-License-Identifier: MIT
// Package matrix: physical transpose.
//
// The transpose kernel is a two-pass bucket sort by inner index: pass
// one counts entries per target vector, pass two scatters pattern and
// values. It can fuse a typecast and an optional unary operator; every
// caller passes neither, so apply on a transposed input transposes first
// and evaluates the operator in a separate pass.

package matrix

import "github.com/katalvlaran/graphblas/core"

// relabel flips the orientation flag, which is a zero-cost logical
// transpose: the same arrays read as the transposed matrix. Ownership
// of the arrays follows the source's shallow flag.
func relabel(a *Matrix) *Matrix {
	v := &Matrix{}
	*v = *a
	v.byCol = !a.byCol
	return v
}

// transposeArrays builds the arrays of A' in A's orientation, optionally
// applying op and casting to ztype (nil op keeps values; nil ztype keeps
// the domain). Requires a finalized input.
func transposeArrays(a *Matrix, op *core.UnaryOp, ztype *core.Type) (*Matrix, error) {
	if ztype == nil {
		ztype = a.typ
		if op != nil {
			ztype = op.ZType()
		}
	}
	s, err := a.toSparse()
	if err != nil {
		return nil, err
	}
	nvals := s.p[s.vdim]
	zsize := ztype.Size()

	t := &Matrix{
		typ: ztype, vlen: a.vdim, vdim: a.vlen, byCol: a.byCol,
		format: Sparse, cfg: a.cfg, valid: true,
	}
	t.p = allocInts(t.vdim + 1)
	t.i = allocInts(nvals)

	// Pass 1: bucket counts by inner index.
	for q := 0; q < nvals; q++ {
		t.p[s.i[q]+1]++
	}
	for j := 0; j < t.vdim; j++ {
		t.p[j+1] += t.p[j]
	}

	// Without an op iso survives, a cast converting the one shared value;
	// with an op every entry is computed.
	if s.iso && op == nil {
		t.iso = true
		t.x = make([]byte, zsize)
		core.Cast(ztype, t.x, 0, s.typ, s.x, 0)
	} else {
		t.x = allocBytes(nvals * zsize)
	}

	// Pass 2: scatter entries into their buckets.
	cursor := append([]int(nil), t.p[:t.vdim]...)
	castFn := core.CastFunc(ztype, s.typ)
	var tmp []byte
	if op != nil {
		tmp = make([]byte, a.typ.Size())
	}
	for j := 0; j < s.vdim; j++ {
		for q := s.p[j]; q < s.p[j+1]; q++ {
			dst := cursor[s.i[q]]
			cursor[s.i[q]]++
			t.i[dst] = j
			if t.iso {
				continue
			}
			if op != nil {
				// Apply in the source domain, then cast the result.
				op.Call(tmp, s.xcell(q))
				core.Cast(ztype, t.x, dst, op.ZType(), tmp, 0)
			} else {
				castFn(t.x, dst, s.x, s.xidxRaw(q))
			}
		}
	}
	return t, nil
}

// xidxRaw maps entry q to its value index (0 under iso).
func (m *Matrix) xidxRaw(q int) int {
	if m.iso {
		return 0
	}
	return q
}

// reorient returns a matrix equal to a with the requested orientation,
// physically transposing the arrays when the flags differ.
func reorient(a *Matrix, byCol bool) (*Matrix, error) {
	if a.byCol == byCol {
		return a, nil
	}
	t, err := transposeArrays(a, nil, nil)
	if err != nil {
		return nil, err
	}
	return relabel(t), nil
}

// logicalInput resolves one primitive input: waits, applies the
// descriptor transpose, and lands in the requested orientation.
func logicalInput(a *Matrix, trans, byCol bool) (*Matrix, error) {
	if err := a.Wait(); err != nil {
		return nil, err
	}
	v := a
	if trans {
		v = relabel(a)
	}
	return reorient(v, byCol)
}

// Transpose computes C⟨M⟩ = accum(C, A'), or accum(C, A) when the
// descriptor transposes input 0, which cancels the transpose.
func Transpose(c, mask *Matrix, accum *core.BinaryOp, a *Matrix, desc *core.Descriptor) error {
	if err := ready(c, mask, a); err != nil {
		return err
	}
	d := desc.Get()
	if err := a.Wait(); err != nil {
		return err
	}
	var z *Matrix
	var err error
	if d.Input0Trans {
		// (A')' = A: plain masked copy.
		z, err = reorient(a, c.byCol)
		if err == nil && z == a {
			z, err = a.Dup()
		}
	} else {
		z, err = logicalInput(a, true, c.byCol)
		if err == nil && z.byCol != a.byCol {
			// A relabel alone still reads a's arrays.
			z, err = z.Dup()
		}
	}
	if err != nil {
		return err
	}
	if c.NRows() != z.NRows() || c.NCols() != z.NCols() {
		return core.ErrDimensionMismatch
	}
	if err := accumCompat(accum, c.typ, z.typ); err != nil {
		return err
	}
	if err := typeCompat(c.typ, z.typ); err != nil {
		return err
	}
	core.Burblef("transpose: %dx%d", c.NRows(), c.NCols())
	return applyMaskAccum(c, mask, accum, z, d, false)
}
