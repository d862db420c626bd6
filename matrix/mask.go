// SPDX-License-Identifier: MIT
// Package matrix: the masked accumulation protocol.
//
// Every primitive computes a tentative result Z and commits it here:
//
//	for each cell (i,j):
//	    m = M(i,j) under (struct, comp); absent mask means true
//	    if !m:  replace ? delete C(i,j) : keep C(i,j)
//	    else if accum == nil: C(i,j) := Z(i,j)          (present iff present)
//	    else: both present → accum; only z → cast z; only c → keep
//
// This is the only place a result becomes visible in an output matrix.
// The fast path transplants Z into C outright when no accumulator runs,
// the mask (if any) was already applied while building Z, and replace
// semantics make C's old content irrelevant.

package matrix

import "github.com/katalvlaran/graphblas/core"

// maskWalk iterates one mask vector in ascending inner order, answering
// membership queries for an ascending probe sequence.
type maskWalk struct {
	m          *Matrix
	q, qend    int
	structural bool
}

func newMaskWalk(m *Matrix, j int, structural bool) maskWalk {
	w := maskWalk{m: m, structural: structural}
	if m != nil {
		w.q, w.qend, _ = m.findVec(j)
	}
	return w
}

// at reports the logical mask value at inner index i (pre-complement).
// Probes must arrive in ascending order.
func (w *maskWalk) at(i int) bool {
	if w.m == nil {
		return true
	}
	for w.q < w.qend && w.m.i[w.q] < i {
		w.q++
	}
	if w.q >= w.qend || w.m.i[w.q] != i {
		return false
	}
	if w.structural {
		return true
	}
	return core.Truthy(w.m.typ, w.m.x, w.m.xidxRaw(w.q))
}

// maskEntryTrue reads stored mask entry q as a logical value.
func maskEntryTrue(m *Matrix, q int) bool {
	return core.Truthy(m.typ, m.x, m.xidxRaw(q))
}

// transplant moves z's content into c, casting values when the domains
// differ, then conforms c to its own policy.
func transplant(c, z *Matrix) error {
	if z.byCol != c.byCol {
		t, err := transposeArrays(z, nil, nil)
		if err != nil {
			return err
		}
		z = relabel(t)
	}
	if c.typ != z.typ {
		s, err := z.toSparse()
		if err != nil {
			return err
		}
		size := c.typ.Size()
		n := s.p[s.vdim]
		nx := allocBytes(n * size)
		castFn := core.CastFunc(c.typ, s.typ)
		for q := 0; q < n; q++ {
			castFn(nx, q, s.x, s.xidxRaw(q))
		}
		z = viewOf(s)
		z.typ = c.typ
		z.x = nx
		z.iso = false
		z.shallow = false
	}
	cfg, valid, typ := c.cfg, c.valid, c.typ
	*c = *z
	c.cfg, c.valid, c.typ = cfg, valid, typ
	if c.shallow {
		// The result may not borrow buffers an input still owns.
		c.p = append([]int(nil), c.p...)
		c.h = append([]int(nil), c.h...)
		c.i = append([]int(nil), c.i...)
		c.bmap = append([]byte(nil), c.bmap...)
		c.x = append([]byte(nil), c.x...)
	}
	c.shallow = false
	return c.conform()
}

// applyMaskAccum commits tentative result z into c under mask, accum,
// and the descriptor's replace/comp/struct flags. maskApplied reports
// that z was already restricted to the (non-complemented) mask during
// its construction. z is consumed.
func applyMaskAccum(c, mask *Matrix, accum *core.BinaryOp, z *Matrix, d core.Descriptor, maskApplied bool) error {
	if mask == nil && d.MaskComp {
		// Complement of an absent mask is all-false: the result keeps
		// nothing of z; replace clears c.
		if d.OutputReplace {
			return c.Clear()
		}
		return nil
	}
	if err := maskShape(c, mask); err != nil {
		return err
	}

	// Fast path: c is discarded wholesale and z is the result.
	if accum == nil && (mask == nil || (maskApplied && !d.MaskComp && d.OutputReplace)) {
		if err := transplant(c, z); err != nil {
			return err
		}
		if d.Sort {
			return c.Wait()
		}
		return nil
	}

	if err := c.Wait(); err != nil {
		return err
	}
	var err error
	if mask != nil {
		if mask, err = logicalInput(mask, false, c.byCol); err != nil {
			return err
		}
		if mask, err = mask.toSparse(); err != nil {
			return err
		}
	}
	if z, err = reorient(z, c.byCol); err != nil {
		return err
	}
	if z, err = z.toSparse(); err != nil {
		return err
	}
	cs, err := c.toSparse()
	if err != nil {
		return err
	}

	size := c.typ.Size()
	castZ := core.CastFunc(c.typ, z.typ)

	// Accumulator lanes, resolved once.
	var accX, accY, accZ func(dst []byte, dk int, src []byte, sk int)
	var accBuf, accOut []byte
	if accum != nil {
		accX = core.CastFunc(accum.XType(), c.typ)
		accY = core.CastFunc(accum.YType(), z.typ)
		accZ = core.CastFunc(c.typ, accum.ZType())
		accBuf = make([]byte, accum.XType().Size()+accum.YType().Size())
		accOut = make([]byte, accum.ZType().Size())
	}

	rp := allocInts(c.vdim + 1)
	ri := make([]int, 0, len(cs.i)+len(z.i))
	rx := make([]byte, 0, (len(cs.i)+len(z.i))*size)

	keepC := func(q int) {
		ri = append(ri, cs.i[q])
		cell := make([]byte, size)
		copy(cell, cs.xcell(q))
		rx = append(rx, cell...)
	}
	takeZ := func(q, i int) {
		ri = append(ri, i)
		rx = append(rx, make([]byte, size)...)
		castZ(rx, len(ri)-1, z.x, z.xidxRaw(q))
	}

	for j := 0; j < c.vdim; j++ {
		mw := newMaskWalk(mask, j, d.MaskStruct)
		qc, qcEnd := cs.p[j], cs.p[j+1]
		qz, qzEnd := z.p[j], z.p[j+1]
		for qc < qcEnd || qz < qzEnd {
			var i int
			switch {
			case qc >= qcEnd:
				i = z.i[qz]
			case qz >= qzEnd:
				i = cs.i[qc]
			case cs.i[qc] < z.i[qz]:
				i = cs.i[qc]
			default:
				i = z.i[qz]
			}
			cHere := qc < qcEnd && cs.i[qc] == i
			zHere := qz < qzEnd && z.i[qz] == i
			mval := mw.at(i) != d.MaskComp
			switch {
			case !mval:
				if cHere && !d.OutputReplace {
					keepC(qc)
				}
			case accum == nil:
				if zHere {
					takeZ(qz, i)
				}
			case cHere && zHere:
				accX(accBuf, 0, cs.x, cs.xidxRaw(qc))
				accY(accBuf[accum.XType().Size():], 0, z.x, z.xidxRaw(qz))
				accum.Call(accOut, accBuf[:accum.XType().Size()], accBuf[accum.XType().Size():])
				ri = append(ri, i)
				rx = append(rx, make([]byte, size)...)
				accZ(rx, len(ri)-1, accOut, 0)
			case zHere:
				takeZ(qz, i)
			default:
				keepC(qc)
			}
			if cHere {
				qc++
			}
			if zHere {
				qz++
			}
		}
		rp[j+1] = len(ri)
	}

	c.format = Sparse
	c.p, c.h, c.i, c.bmap = rp, nil, ri, nil
	c.x = rx
	c.iso = false
	c.bnvals = 0
	c.nzombies = 0
	c.jumbled = false
	c.pend = nil
	c.shallow = false
	if err := c.conform(); err != nil {
		return err
	}
	if d.Sort {
		return c.Wait()
	}
	return nil
}
