// SPDX-License-Identifier: MIT
// Package matrix: the sparse matrix container.
//
// Role: container struct, lifecycle (New/Dup/Clear/Resize/Free), shape
// and count observers, and per-matrix format policy accessors. Format
// transitions live in formats.go / conform.go; deferred-work resolution
// lives in wait.go.
//
// Storage model:
//   - sparse:       p[0..nvec], i, x with nvec == vdim
//   - hypersparse:  p[0..nvec], h[0..nvec-1], i, x; only non-empty vectors
//   - bitmap:       bmap (byte per cell), x dense, bnvals present count
//   - full:         x dense, every cell present
//
// Orientation: vectors are columns when byCol (CSC-like), rows otherwise
// (CSR-like). vlen is the length of one vector, vdim the number of
// vectors. Deferred state: zombies (bit-inverted inner indices), pending
// tuples, and the jumbled flag; a matrix with none of the three is
// finalized.

package matrix

import (
	"github.com/katalvlaran/graphblas/core"
)

// Matrix is a vlen × vdim collection of sparse vectors over one element
// type. The zero Matrix is invalid; use New.
type Matrix struct {
	typ        *core.Type
	vlen, vdim int
	byCol      bool
	format     Sparsity

	p    []int  // sparse/hyper offsets, len nvec+1
	h    []int  // hyper outer indices, len nvec
	i    []int  // sparse/hyper inner indices (zombies bit-inverted)
	bmap []byte // bitmap presence, len vlen*vdim
	x    []byte // values; one element when iso

	bnvals int // bitmap: number of set presence bytes

	iso      bool
	nzombies int
	pend     *pendingTuples
	jumbled  bool

	cfg     config
	valid   bool
	shallow bool // value/pattern arrays borrowed from another matrix
}

// pendingTuples is the append-only insert backlog of a matrix.
type pendingTuples struct {
	inner, outer []int
	vals         []byte
	op           *core.BinaryOp // duplicate resolver; nil means last write wins
}

func (p *pendingTuples) count() int {
	if p == nil {
		return 0
	}
	return len(p.inner)
}

// allocBytes allocates a tracked byte buffer.
func allocBytes(n int) []byte {
	core.NoteAlloc(n)
	return make([]byte, n)
}

// allocInts allocates a tracked index buffer.
func allocInts(n int) []int {
	core.NoteAlloc(8 * n)
	return make([]int, n)
}

// newContainer builds an empty matrix in the cheapest allowed format.
func newContainer(t *core.Type, vlen, vdim int, cfg config) *Matrix {
	m := &Matrix{typ: t, vlen: vlen, vdim: vdim, byCol: cfg.byCol, cfg: cfg, valid: true}
	switch {
	case cfg.sparsityControl&Hypersparse != 0:
		m.format = Hypersparse
		m.p = []int{0}
	case cfg.sparsityControl&Sparse != 0:
		m.format = Sparse
		m.p = allocInts(vdim + 1)
	case cfg.sparsityControl&Bitmap != 0:
		m.format = Bitmap
		m.bmap = allocBytes(vlen * vdim)
		m.x = allocBytes(vlen * vdim * t.Size())
	default:
		// Full cannot hold an empty matrix; start bitmap and let conform
		// promote once fully dense.
		m.format = Bitmap
		m.bmap = allocBytes(vlen * vdim)
		m.x = allocBytes(vlen * vdim * t.Size())
	}
	return m
}

// New constructs an empty nrows × ncols matrix of element type t.
//
// Contract: t non-nil, nrows > 0, ncols > 0. The engine must be
// initialized. Options fix orientation and format policy for the matrix
// lifetime (the policy, not the current format, which conform manages).
func New(t *core.Type, nrows, ncols int, opts ...Option) (*Matrix, error) {
	if !core.Initialized() {
		return nil, core.ErrEngineNotInit
	}
	if t == nil {
		return nil, core.ErrUninitializedObject
	}
	if nrows <= 0 || ncols <= 0 {
		return nil, core.ErrInvalidValue
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	vlen, vdim := nrows, ncols
	if !cfg.byCol {
		vlen, vdim = ncols, nrows
	}
	return newContainer(t, vlen, vdim, cfg), nil
}

// Type returns the element type.
func (m *Matrix) Type() *core.Type { return m.typ }

// NRows returns the number of rows.
func (m *Matrix) NRows() int {
	if m.byCol {
		return m.vlen
	}
	return m.vdim
}

// NCols returns the number of columns.
func (m *Matrix) NCols() int {
	if m.byCol {
		return m.vdim
	}
	return m.vlen
}

// ByColumn reports whether the matrix is column-oriented.
func (m *Matrix) ByColumn() bool { return m.byCol }

// FormatNow returns the current storage format.
func (m *Matrix) FormatNow() Sparsity { return m.format }

// Iso reports whether all present entries share one stored value.
func (m *Matrix) Iso() bool { return m.iso }

// SparsityControl returns the allowed-format mask.
func (m *Matrix) SparsityControl() Sparsity { return m.cfg.sparsityControl }

// SetSparsityControl replaces the allowed-format mask and reconforms.
func (m *Matrix) SetSparsityControl(s Sparsity) error {
	if err := validMatrix(m); err != nil {
		return err
	}
	if s&AutoSparsity == 0 {
		return core.ErrInvalidValue
	}
	m.cfg.sparsityControl = s & AutoSparsity
	return m.conform()
}

// HyperSwitch returns the hypersparse threshold.
func (m *Matrix) HyperSwitch() float64 { return m.cfg.hyperSwitch }

// SetHyperSwitch replaces the hypersparse threshold and reconforms.
func (m *Matrix) SetHyperSwitch(f float64) error {
	if err := validMatrix(m); err != nil {
		return err
	}
	if f < 0 || f > 1 {
		return core.ErrInvalidValue
	}
	m.cfg.hyperSwitch = f
	return m.conform()
}

// BitmapSwitch returns the bitmap threshold.
func (m *Matrix) BitmapSwitch() float64 { return m.cfg.bitmapSwitch }

// SetBitmapSwitch replaces the bitmap threshold and reconforms.
func (m *Matrix) SetBitmapSwitch(f float64) error {
	if err := validMatrix(m); err != nil {
		return err
	}
	if f < 0 || f > 1 {
		return core.ErrInvalidValue
	}
	m.cfg.bitmapSwitch = f
	return m.conform()
}

// nvec returns the number of materialized vectors.
func (m *Matrix) nvec() int {
	switch m.format {
	case Hypersparse:
		return len(m.h)
	default:
		return m.vdim
	}
}

// vecOuter maps a materialized vector slot to its outer index.
func (m *Matrix) vecOuter(k int) int {
	if m.format == Hypersparse {
		return m.h[k]
	}
	return k
}

// findVec locates outer index j among materialized vectors; for
// hypersparse it binary searches h. ok is false when the vector is empty
// and not materialized.
func (m *Matrix) findVec(j int) (pstart, pend int, ok bool) {
	switch m.format {
	case Sparse:
		return m.p[j], m.p[j+1], true
	case Hypersparse:
		lo, hi := 0, len(m.h)
		for lo < hi {
			mid := (lo + hi) / 2
			if m.h[mid] < j {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(m.h) && m.h[lo] == j {
			return m.p[lo], m.p[lo+1], true
		}
		return 0, 0, false
	}
	return 0, 0, false
}

// entryCount returns the stored entry count including zombies.
func (m *Matrix) entryCount() int {
	switch m.format {
	case Sparse, Hypersparse:
		return m.p[m.nvec()]
	case Bitmap:
		return m.bnvals
	case Full:
		return m.vlen * m.vdim
	}
	return 0
}

// nvecNonempty counts vectors holding at least one live entry.
func (m *Matrix) nvecNonempty() int {
	switch m.format {
	case Sparse, Hypersparse:
		n := 0
		for k := 0; k < m.nvec(); k++ {
			if m.p[k+1] > m.p[k] {
				n++
			}
		}
		return n
	case Bitmap:
		n := 0
		for j := 0; j < m.vdim; j++ {
			for ii := 0; ii < m.vlen; ii++ {
				if m.bmap[j*m.vlen+ii] != 0 {
					n++
					break
				}
			}
		}
		return n
	case Full:
		return m.vdim
	}
	return 0
}

// finalized reports the absence of deferred work.
func (m *Matrix) finalized() bool {
	return m.nzombies == 0 && m.pend.count() == 0 && !m.jumbled
}

// NVals returns the number of live entries. Zombies are subtracted
// without forcing Wait; a pending-tuple backlog must be assembled first
// (duplicates make its contribution unknowable), so only that case
// resolves deferred work here.
func (m *Matrix) NVals() (int, error) {
	if err := validMatrix(m); err != nil {
		return 0, err
	}
	if m.pend.count() > 0 {
		if err := m.Wait(); err != nil {
			return 0, err
		}
	}
	return m.entryCount() - m.nzombies, nil
}

// Free releases the container. Further use returns
// ErrUninitializedObject. Free is idempotent.
func (m *Matrix) Free() {
	if m == nil || !m.valid {
		return
	}
	if !m.shallow {
		core.NoteFree(len(m.x) + len(m.bmap) + 8*(len(m.p)+len(m.h)+len(m.i)))
	}
	m.valid = false
	m.p, m.h, m.i, m.bmap, m.x = nil, nil, nil, nil, nil
	m.pend = nil
}

// Clear removes every entry, keeping type, shape, and policy.
func (m *Matrix) Clear() error {
	if err := validMatrix(m); err != nil {
		return err
	}
	fresh := newContainer(m.typ, m.vlen, m.vdim, m.cfg)
	*m = *fresh
	return nil
}

// Dup returns a deep copy, including any deferred work.
func (m *Matrix) Dup() (*Matrix, error) {
	if err := validMatrix(m); err != nil {
		return nil, err
	}
	d := &Matrix{}
	*d = *m
	d.shallow = false
	d.p = append([]int(nil), m.p...)
	d.h = append([]int(nil), m.h...)
	d.i = append([]int(nil), m.i...)
	d.bmap = append([]byte(nil), m.bmap...)
	d.x = append([]byte(nil), m.x...)
	if m.pend != nil {
		d.pend = &pendingTuples{
			inner: append([]int(nil), m.pend.inner...),
			outer: append([]int(nil), m.pend.outer...),
			vals:  append([]byte(nil), m.pend.vals...),
			op:    m.pend.op,
		}
	}
	return d, nil
}

// Resize changes the shape to nrows × ncols, dropping entries that fall
// outside the new bounds.
func (m *Matrix) Resize(nrows, ncols int) error {
	if err := validMatrix(m); err != nil {
		return err
	}
	if nrows <= 0 || ncols <= 0 {
		return core.ErrInvalidValue
	}
	if err := m.Wait(); err != nil {
		return err
	}
	nvlen, nvdim := nrows, ncols
	if !m.byCol {
		nvlen, nvdim = ncols, nrows
	}
	if nvlen == m.vlen && nvdim == m.vdim {
		return nil
	}
	s, err := m.toSparse()
	if err != nil {
		return err
	}
	size := m.typ.Size()
	rp := allocInts(nvdim + 1)
	ri := make([]int, 0, len(s.i))
	rx := make([]byte, 0, len(s.i)*size)
	for j := 0; j < min(s.vdim, nvdim); j++ {
		for q := s.p[j]; q < s.p[j+1]; q++ {
			if s.i[q] < nvlen {
				ri = append(ri, s.i[q])
				rx = append(rx, s.xcell(q)...)
			}
		}
		rp[j+1] = len(ri)
	}
	for j := min(s.vdim, nvdim); j < nvdim; j++ {
		rp[j+1] = len(ri)
	}
	m.format = Sparse
	m.vlen, m.vdim = nvlen, nvdim
	m.p, m.h, m.i, m.bmap = rp, nil, ri, nil
	if m.iso {
		m.x = append([]byte(nil), m.x[:size]...)
	} else {
		m.x = rx
	}
	m.bnvals = 0
	return m.conform()
}

// xcell returns the value bytes of stored entry k, honoring iso.
func (m *Matrix) xcell(k int) []byte {
	size := m.typ.Size()
	if m.iso {
		return m.x[:size]
	}
	return m.x[k*size : (k+1)*size]
}

// zombie index encoding: a deleted entry keeps its slot with the inner
// index bit-inverted, so any negative index marks a zombie.

func flipIndex(i int) int   { return ^i }
func unflipIndex(i int) int { return ^i }
func isZombie(i int) bool   { return i < 0 }
