// SPDX-License-Identifier: MIT
// Package matrix: assign and subassign.
//
// Assign writes a matrix or scalar source into the subregion C(I,J)
// under mask, accumulator, and replace. The two variants differ only in
// the mask's domain: Assign masks (and, with replace, clears) all of C;
// Subassign confines both to the C(I,J) region, with a mask shaped
// |I| × |J|.
//
// Without an accumulator the source pattern overwrites the region's
// pattern: region cells the source misses are deleted. With one, they
// are kept. Index lists must be duplicate-free; a duplicated target is
// resolved last-write-wins.

package matrix

import (
	"sort"

	"github.com/katalvlaran/graphblas/core"
)

// All is the "all indices" list: nil means 0..dim-1 in assign and
// subassign index arguments.
var All []int

// resolveIndices expands an index list against dim, validating bounds.
func resolveIndices(list []int, dim int) ([]int, error) {
	if list == nil {
		out := make([]int, dim)
		for k := range out {
			out[k] = k
		}
		return out, nil
	}
	for _, ix := range list {
		if ix < 0 || ix >= dim {
			return nil, core.ErrIndexOutOfBounds
		}
	}
	return list, nil
}

// maskValueAt reads the logical mask value at (inner, outer) of a
// finalized sparse/hyper mask by binary search.
func maskValueAt(m *Matrix, inner, outer int, structural bool) bool {
	ps, pe, ok := m.findVec(outer)
	if !ok {
		return false
	}
	lo, hi := ps, pe
	for lo < hi {
		mid := (lo + hi) / 2
		if m.i[mid] < inner {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= pe || m.i[lo] != inner {
		return false
	}
	if structural {
		return true
	}
	return maskEntryTrue(m, lo)
}

// assignTuples is the normalized source of one assign call: targets in
// C's (inner, outer) coordinates with values of styp.
type assignTuples struct {
	inner, outer []int
	vals         []byte
	styp         *core.Type
	iso          bool // vals holds one element shared by every tuple
}

func (t *assignTuples) valIdx(k int) int {
	if t.iso {
		return 0
	}
	return k
}

// assignEngine merges the tuple stream into C under mask semantics.
func assignEngine(c, mask *Matrix, accum *core.BinaryOp, tup *assignTuples,
	rows, cols []int, d core.Descriptor, sub bool) error {

	if err := c.Wait(); err != nil {
		return err
	}
	var mc *Matrix
	var err error
	if mask != nil {
		if mc, err = logicalInput(mask, false, c.byCol); err != nil {
			return err
		}
		if mc, err = mc.toSparse(); err != nil {
			return err
		}
	}

	// Region membership: position of each inner/outer index in the
	// lists, -1 outside.
	innerDim, outerDim := c.vlen, c.vdim
	rowPos := make([]int, innerDim)
	colPos := make([]int, outerDim)
	for k := range rowPos {
		rowPos[k] = -1
	}
	for k := range colPos {
		colPos[k] = -1
	}
	innerList, outerList := rows, cols
	if !c.byCol {
		innerList, outerList = cols, rows
	}
	for k, ix := range innerList {
		rowPos[ix] = k
	}
	for k, ix := range outerList {
		colPos[ix] = k
	}

	// Order tuples by (outer, inner); last write wins on duplicates.
	n := len(tup.inner)
	perm := make([]int, n)
	for k := range perm {
		perm[k] = k
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ka, kb := perm[a], perm[b]
		if tup.outer[ka] != tup.outer[kb] {
			return tup.outer[ka] < tup.outer[kb]
		}
		return tup.inner[ka] < tup.inner[kb]
	})

	cs, err := c.toSparse()
	if err != nil {
		return err
	}
	size := c.typ.Size()
	castS := core.CastFunc(c.typ, tup.styp)

	var accX, accY, accZcast func(dst []byte, dk int, src []byte, sk int)
	var xa, ya, za []byte
	if accum != nil {
		accX = core.CastFunc(accum.XType(), c.typ)
		accY = core.CastFunc(accum.YType(), tup.styp)
		accZcast = core.CastFunc(c.typ, accum.ZType())
		xa = make([]byte, accum.XType().Size())
		ya = make([]byte, accum.YType().Size())
		za = make([]byte, accum.ZType().Size())
	}

	// mval resolves the effective mask truth for cell (inner, outer).
	// Subassign reads the mask in region coordinates; outside the region
	// it reports "keep" via the second result.
	mval := func(inner, outer int) (bool, bool) {
		inRegion := rowPos[inner] >= 0 && colPos[outer] >= 0
		if sub && !inRegion {
			return false, false // untouched: mask does not reach here
		}
		v := true
		if mc != nil {
			if sub {
				// rowPos/colPos follow C's inner/outer axes, which are
				// also the inner/outer axes of mc in C's orientation.
				v = maskValueAt(mc, rowPos[inner], colPos[outer], d.MaskStruct)
			} else {
				v = maskValueAt(mc, inner, outer, d.MaskStruct)
			}
		}
		if d.MaskComp {
			v = !v
		}
		return v, true
	}

	rp := allocInts(outerDim + 1)
	ri := make([]int, 0, len(cs.i)+n)
	rx := make([]byte, 0, (len(cs.i)+n)*size)

	emitC := func(q int) {
		ri = append(ri, cs.i[q])
		rx = append(rx, cs.xcell(q)...)
	}
	emitS := func(k, inner int) {
		ri = append(ri, inner)
		rx = append(rx, make([]byte, size)...)
		castS(rx, len(ri)-1, tup.vals, tup.valIdx(k))
	}
	emitAccum := func(q, k, inner int) {
		accX(xa, 0, cs.x, cs.xidxRaw(q))
		accY(ya, 0, tup.vals, tup.valIdx(k))
		accum.Call(za, xa, ya)
		ri = append(ri, inner)
		rx = append(rx, make([]byte, size)...)
		accZcast(rx, len(ri)-1, za, 0)
	}

	t := 0
	for j := 0; j < outerDim; j++ {
		// Skip sorted duplicate runs: keep only the last of each target.
		nextTup := func() (int, bool) {
			for t < n && tup.outer[perm[t]] == j {
				if t+1 < n && tup.outer[perm[t+1]] == j &&
					tup.inner[perm[t+1]] == tup.inner[perm[t]] {
					t++
					continue
				}
				return perm[t], true
			}
			return 0, false
		}
		qc, qcEnd := cs.p[j], cs.p[j+1]
		for {
			k, hasTup := nextTup()
			cHere := qc < qcEnd
			if !hasTup && !cHere {
				break
			}
			var inner int
			switch {
			case !hasTup:
				inner = cs.i[qc]
			case !cHere:
				inner = tup.inner[k]
			case cs.i[qc] <= tup.inner[k]:
				inner = cs.i[qc]
			default:
				inner = tup.inner[k]
			}
			sHere := hasTup && tup.inner[k] == inner
			cAt := cHere && cs.i[qc] == inner
			v, reach := mval(inner, j)
			inRegion := rowPos[inner] >= 0 && colPos[j] >= 0
			switch {
			case !reach:
				// Subassign outside the region: untouched.
				if cAt {
					emitC(qc)
				}
			case !v:
				// Mask false: replace deletes, otherwise keep.
				if cAt && !d.OutputReplace {
					emitC(qc)
				}
			case sHere && cAt:
				if accum != nil {
					emitAccum(qc, k, inner)
				} else {
					emitS(k, inner)
				}
			case sHere:
				emitS(k, inner)
			case cAt && inRegion && accum == nil:
				// Region cell the source misses: overwritten away.
			case cAt:
				emitC(qc)
			}
			if cAt {
				qc++
			}
			if sHere {
				t++
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

// assignFront validates and builds the tuple stream for matrix-source
// assign variants.
func assignFront(c, mask *Matrix, accum *core.BinaryOp, a *Matrix,
	rows, cols []int, desc *core.Descriptor, sub bool) (*assignTuples, []int, []int, core.Descriptor, error) {

	d := desc.Get()
	zero := core.Descriptor{}
	if err := ready(c, mask, a); err != nil {
		return nil, nil, nil, zero, err
	}
	rows2, err := resolveIndices(rows, c.NRows())
	if err != nil {
		return nil, nil, nil, zero, err
	}
	cols2, err := resolveIndices(cols, c.NCols())
	if err != nil {
		return nil, nil, nil, zero, err
	}
	ac, err := logicalInput(a, d.Input0Trans, c.byCol)
	if err != nil {
		return nil, nil, nil, zero, err
	}
	if ac.NRows() != len(rows2) || ac.NCols() != len(cols2) {
		return nil, nil, nil, zero, core.ErrDimensionMismatch
	}
	if err := typeCompat(c.typ, ac.typ); err != nil {
		return nil, nil, nil, zero, err
	}
	if err := accumCompat(accum, c.typ, ac.typ); err != nil {
		return nil, nil, nil, zero, err
	}
	if mask != nil {
		mr, mc2 := len(rows2), len(cols2)
		if !sub {
			mr, mc2 = c.NRows(), c.NCols()
		}
		if mask.NRows() != mr || mask.NCols() != mc2 {
			return nil, nil, nil, zero, core.ErrDimensionMismatch
		}
	}
	s, err := ac.toSparse()
	if err != nil {
		return nil, nil, nil, zero, err
	}
	tup := &assignTuples{styp: s.typ, iso: s.iso}
	size := s.typ.Size()
	if s.iso {
		tup.vals = append([]byte(nil), s.x[:size]...)
	}
	for j := 0; j < s.vdim; j++ {
		for q := s.p[j]; q < s.p[j+1]; q++ {
			row, col := s.i[q], j
			if !s.byCol {
				row, col = col, row
			}
			ti, to := c.rcToVec(rows2[row], cols2[col])
			tup.inner = append(tup.inner, ti)
			tup.outer = append(tup.outer, to)
			if !s.iso {
				tup.vals = append(tup.vals, s.x[q*size:(q+1)*size]...)
			}
		}
	}
	return tup, rows2, cols2, d, nil
}

// Assign computes C⟨M⟩(I,J) = accum(C(I,J), A); the mask spans all of C.
func Assign(c, mask *Matrix, accum *core.BinaryOp, a *Matrix, rows, cols []int, desc *core.Descriptor) error {
	tup, rows2, cols2, d, err := assignFront(c, mask, accum, a, rows, cols, desc, false)
	if err != nil {
		return err
	}
	core.Burblef("assign: %dx%d region into %dx%d", len(rows2), len(cols2), c.NRows(), c.NCols())
	return assignEngine(c, mask, accum, tup, rows2, cols2, d, false)
}

// Subassign computes C(I,J)⟨M⟩ = accum(C(I,J), A); mask and replace are
// confined to the region and M is |I| × |J|.
func Subassign(c, mask *Matrix, accum *core.BinaryOp, a *Matrix, rows, cols []int, desc *core.Descriptor) error {
	tup, rows2, cols2, d, err := assignFront(c, mask, accum, a, rows, cols, desc, true)
	if err != nil {
		return err
	}
	core.Burblef("subassign: %dx%d region into %dx%d", len(rows2), len(cols2), c.NRows(), c.NCols())
	return assignEngine(c, mask, accum, tup, rows2, cols2, d, true)
}

// scalarTuples expands a scalar source over the whole region.
func scalarTuples(c *Matrix, s core.Scalar, rows, cols []int) *assignTuples {
	tup := &assignTuples{styp: s.Type(), iso: true}
	tup.vals = append([]byte(nil), s.Bytes()...)
	for _, cc := range cols {
		for _, rr := range rows {
			ti, to := c.rcToVec(rr, cc)
			tup.inner = append(tup.inner, ti)
			tup.outer = append(tup.outer, to)
		}
	}
	return tup
}

// scalarAssignFront validates the scalar variants.
func scalarAssignFront(c, mask *Matrix, accum *core.BinaryOp, s core.Scalar,
	rows, cols []int, desc *core.Descriptor, sub bool) (*assignTuples, []int, []int, core.Descriptor, error) {

	d := desc.Get()
	zero := core.Descriptor{}
	if err := ready(c, mask); err != nil {
		return nil, nil, nil, zero, err
	}
	if !s.Present() {
		return nil, nil, nil, zero, core.ErrUninitializedObject
	}
	if err := typeCompat(c.typ, s.Type()); err != nil {
		return nil, nil, nil, zero, err
	}
	if err := accumCompat(accum, c.typ, s.Type()); err != nil {
		return nil, nil, nil, zero, err
	}
	rows2, err := resolveIndices(rows, c.NRows())
	if err != nil {
		return nil, nil, nil, zero, err
	}
	cols2, err := resolveIndices(cols, c.NCols())
	if err != nil {
		return nil, nil, nil, zero, err
	}
	if mask != nil {
		mr, mc2 := len(rows2), len(cols2)
		if !sub {
			mr, mc2 = c.NRows(), c.NCols()
		}
		if mask.NRows() != mr || mask.NCols() != mc2 {
			return nil, nil, nil, zero, core.ErrDimensionMismatch
		}
	}
	return scalarTuples(c, s, rows2, cols2), rows2, cols2, d, nil
}

// AssignScalar computes C⟨M⟩(I,J) = accum(C(I,J), s) for a scalar s.
func AssignScalar(c, mask *Matrix, accum *core.BinaryOp, s core.Scalar, rows, cols []int, desc *core.Descriptor) error {
	tup, rows2, cols2, d, err := scalarAssignFront(c, mask, accum, s, rows, cols, desc, false)
	if err != nil {
		return err
	}
	return assignEngine(c, mask, accum, tup, rows2, cols2, d, false)
}

// SubassignScalar computes C(I,J)⟨M⟩ = accum(C(I,J), s) for a scalar s.
func SubassignScalar(c, mask *Matrix, accum *core.BinaryOp, s core.Scalar, rows, cols []int, desc *core.Descriptor) error {
	tup, rows2, cols2, d, err := scalarAssignFront(c, mask, accum, s, rows, cols, desc, true)
	if err != nil {
		return err
	}
	return assignEngine(c, mask, accum, tup, rows2, cols2, d, true)
}
