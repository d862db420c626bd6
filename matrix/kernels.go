// SPDX-License-Identifier: MIT
// Package matrix: the kernel registry and the generic fallback.
//
// The registry maps (add opcode, multiply opcode, z code, xy code) to a
// pre-specialized multiply-add inner loop. Before lookup the engine
// applies the two opcode rewrites: flipxy (so z = f(b,a) becomes a
// renamed f(a,b)) and boolean renaming (so one boolean kernel serves
// many named semirings). A lookup miss is the internal ErrNoValue
// status; the caller then builds the generic kernel, which runs the
// same outer structure through function pointers and the cast table.
//
// A generic kernel instance owns scratch buffers, so its factory hands
// every task its own instance; registry kernels hold no scratch and all
// tasks share one instance. The registry itself is immutable after
// package init.

package matrix

import (
	"unsafe"

	"github.com/katalvlaran/graphblas/core"
)

// semiringKernel is the inner-loop bundle every mxm driver runs.
type semiringKernel struct {
	ztype *core.Type

	// multAdd folds a(ai) ⊗ b(bi) into workspace cell w(wi) under the
	// monoid. The workspace cell must have been seeded with identity.
	multAdd func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int)

	// add folds v(vi) into w(wi) under the monoid (partial combine).
	add func(w []byte, wi int, v []byte, vi int)

	identity []byte
	monoid   *core.Monoid

	// aPattern / bPattern report that the multiplier never reads the
	// corresponding operand's values.
	aPattern, bPattern bool
}

// seed writes the monoid identity into workspace cell wi.
func (k *semiringKernel) seed(w []byte, wi int) {
	size := k.ztype.Size()
	copy(w[wi*size:(wi+1)*size], k.identity)
}

// terminal reports whether workspace cell wi reached the monoid's
// absorbing value, allowing the reduction to stop early.
func (k *semiringKernel) terminal(w []byte, wi int) bool {
	return k.monoid.ShortCircuit() && k.monoid.TerminalReached(w, wi)
}

type kernelKey struct {
	add, mult core.Opcode
	zc, xyc   core.Code
}

// kernelFactory yields one kernel instance per task.
type kernelFactory func() *semiringKernel

var registry = map[kernelKey]kernelFactory{}

func slice[T any](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/int(unsafe.Sizeof(*new(T))))
}

// registerArith installs the saxpy kernels of one numeric type: the
// (add, mult) grid the engine pre-instantiates by hand in place of the
// external code-generation step.
func registerArith[T interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}](code core.Code, t *core.Type) {
	fix := func(m *core.Monoid, multAdd func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int),
		aPat, bPat bool) kernelFactory {
		k := &semiringKernel{
			ztype:    t,
			multAdd:  multAdd,
			identity: m.Identity(),
			monoid:   m,
			aPattern: aPat,
			bPattern: bPat,
		}
		op := m.Op()
		k.add = func(w []byte, wi int, v []byte, vi int) {
			size := t.Size()
			op.Call(w[wi*size:], w[wi*size:], v[vi*size:])
		}
		return func() *semiringKernel { return k }
	}

	registry[kernelKey{core.OpPlus, core.OpTimes, code, code}] = fix(
		core.PlusMonoid(t),
		func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int) {
			slice[T](w)[wi] += slice[T](ax)[ai] * slice[T](bx)[bi]
		}, false, false)

	registry[kernelKey{core.OpMin, core.OpPlus, code, code}] = fix(
		core.MinMonoid(t),
		func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int) {
			v := slice[T](ax)[ai] + slice[T](bx)[bi]
			if v < slice[T](w)[wi] {
				slice[T](w)[wi] = v
			}
		}, false, false)

	registry[kernelKey{core.OpMax, core.OpTimes, code, code}] = fix(
		core.MaxMonoid(t),
		func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int) {
			v := slice[T](ax)[ai] * slice[T](bx)[bi]
			if v > slice[T](w)[wi] {
				slice[T](w)[wi] = v
			}
		}, false, false)

	registry[kernelKey{core.OpPlus, core.OpPair, code, code}] = fix(
		core.PlusMonoid(t),
		func(w []byte, wi int, _ []byte, _ int, _ []byte, _ int) {
			slice[T](w)[wi]++
		}, true, true)

	registry[kernelKey{core.OpAny, core.OpPair, code, code}] = fix(
		core.AnyMonoid(t),
		func(w []byte, wi int, _ []byte, _ int, _ []byte, _ int) {
			slice[T](w)[wi] = 1
		}, true, true)
}

func init() {
	registerArith[int32](core.Int32Code, core.Int32)
	registerArith[int64](core.Int64Code, core.Int64)
	registerArith[float32](core.FP32Code, core.FP32)
	registerArith[float64](core.FP64Code, core.FP64)

	// Boolean reachability: LOR_LAND after renaming covers LOR_TIMES,
	// PLUS_MIN over bool, and friends.
	lor := core.LorMonoid()
	bk := &semiringKernel{
		ztype: core.Bool,
		multAdd: func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int) {
			if core.Bools(ax)[ai] && core.Bools(bx)[bi] {
				core.Bools(w)[wi] = true
			}
		},
		identity: lor.Identity(),
		monoid:   lor,
	}
	bk.add = func(w []byte, wi int, v []byte, vi int) {
		if core.Bools(v)[vi] {
			core.Bools(w)[wi] = true
		}
	}
	registry[kernelKey{core.OpLor, core.OpLand, core.BoolCode, core.BoolCode}] =
		func() *semiringKernel { return bk }

	anyPairBool := &semiringKernel{
		ztype: core.Bool,
		multAdd: func(w []byte, wi int, _ []byte, _ int, _ []byte, _ int) {
			core.Bools(w)[wi] = true
		},
		identity: core.AnyMonoid(core.Bool).Identity(),
		monoid:   core.AnyMonoid(core.Bool),
		aPattern: true, bPattern: true,
	}
	anyPairBool.add = bk.add
	registry[kernelKey{core.OpAny, core.OpPair, core.BoolCode, core.BoolCode}] =
		func() *semiringKernel { return anyPairBool }
}

// patternFlags derives the operand-pattern flags of a multiplier opcode
// in unflipped argument order.
func patternFlags(op core.Opcode) (aPat, bPat bool) {
	switch op {
	case core.OpFirst:
		return false, true
	case core.OpSecond, core.OpAny:
		return true, false
	case core.OpPair:
		return true, true
	}
	return false, false
}

// lookupKernel consults the registry. ErrNoValue means "decline; run the
// generic path" and never surfaces to callers.
func lookupKernel(s *core.Semiring, atype, btype *core.Type, flipxy bool) (kernelFactory, error) {
	mult := s.Mult()
	add := s.Add().Op()
	multOp := mult.Opcode()
	addOp := add.Opcode()
	if multOp == core.OpUser || addOp == core.OpUser {
		return nil, core.ErrNoValue
	}
	if flipxy {
		var ok bool
		if multOp, ok = core.FlipOpcode(multOp); !ok {
			return nil, core.ErrNoValue
		}
	}
	aPat, bPat := patternFlags(multOp)
	xy := mult.XType()
	if !xy.Builtin() || !s.ZType().Builtin() {
		return nil, core.ErrNoValue
	}
	if !aPat && atype.Code() != xy.Code() {
		return nil, core.ErrNoValue
	}
	if !bPat && btype.Code() != mult.YType().Code() {
		return nil, core.ErrNoValue
	}
	if xy.Code() == core.BoolCode {
		multOp = core.BooleanRename(multOp)
	}
	if s.ZType().Code() == core.BoolCode {
		addOp = core.BooleanRename(addOp)
	}
	f, ok := registry[kernelKey{addOp, multOp, s.ZType().Code(), xy.Code()}]
	if !ok {
		return nil, core.ErrNoValue
	}
	return f, nil
}

// genericKernel builds the fallback: the same outer structure driven by
// three function-pointer calls per multiply-add (cast a, cast b,
// multiply) plus the monoid add, with scratch buffers per instance.
func genericKernel(s *core.Semiring, atype, btype *core.Type, flipxy bool) kernelFactory {
	mult := s.Mult()
	if flipxy {
		mult = core.FlipBinaryOp(mult)
	}
	aPat, bPat := patternFlags(mult.Opcode())
	addOp := s.Add().Op()
	ztype := s.ZType()
	zsize := ztype.Size()
	monoid := s.Add()

	castA := core.CastFunc(mult.XType(), atype)
	castB := core.CastFunc(mult.YType(), btype)
	castZ := core.CastFunc(ztype, mult.ZType())

	return func() *semiringKernel {
		xbuf := make([]byte, mult.XType().Size())
		ybuf := make([]byte, mult.YType().Size())
		mbuf := make([]byte, mult.ZType().Size())
		zbuf := make([]byte, zsize)
		return &semiringKernel{
			ztype: ztype,
			multAdd: func(w []byte, wi int, ax []byte, ai int, bx []byte, bi int) {
				if !aPat {
					castA(xbuf, 0, ax, ai)
				}
				if !bPat {
					castB(ybuf, 0, bx, bi)
				}
				mult.Call(mbuf, xbuf, ybuf)
				castZ(zbuf, 0, mbuf, 0)
				addOp.Call(w[wi*zsize:], w[wi*zsize:], zbuf)
			},
			add: func(w []byte, wi int, v []byte, vi int) {
				addOp.Call(w[wi*zsize:], w[wi*zsize:], v[vi*zsize:])
			},
			identity: monoid.Identity(),
			monoid:   monoid,
			aPattern: aPat,
			bPattern: bPat,
		}
	}
}

// kernelFor resolves the kernel for C = A ⊗.⊕ B, preferring the
// registry and falling back to the generic path.
func kernelFor(s *core.Semiring, atype, btype *core.Type, flipxy bool) kernelFactory {
	if f, err := lookupKernel(s, atype, btype, flipxy); err == nil {
		core.Burblef("mxm: specialized kernel %s", s.Name())
		return f
	}
	core.Burblef("mxm: generic kernel %s", s.Name())
	return genericKernel(s, atype, btype, flipxy)
}
