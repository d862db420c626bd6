// SPDX-License-Identifier: MIT
// Package core: operator descriptors (unary, binary, index-unary).
//
// Role:
//   - Declare the closed Opcode enumeration plus the single user arm.
//   - Build the element-level functions behind every built-in operator
//     for every built-in type; user operators carry caller functions.
//   - Provide the two opcode rewrites consulted before kernel lookup:
//     boolean renaming (redundant boolean ops collapse) and flipxy
//     (z = f(y,x) expressed by renaming instead of re-threading inputs).
//
// Operator functions work on raw element bytes: each argument slice
// points at the first byte of exactly one element. Descriptors are
// immutable after construction.

package core

import "unsafe"

// Opcode is the closed enumeration of built-in operators. OpUser marks a
// user-defined operator, which always routes to the generic path.
type Opcode uint8

const (
	OpNone Opcode = iota

	// Unary.
	OpIdentity
	OpAinv
	OpMinv
	OpLnot
	OpAbs
	OpOne

	// Binary.
	OpFirst
	OpSecond
	OpPair
	OpAny
	OpPlus
	OpMinus
	OpRminus
	OpTimes
	OpDiv
	OpRdiv
	OpMin
	OpMax
	OpLand
	OpLor
	OpLxor
	OpEq
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
	OpIseq
	OpIsne
	OpIsgt
	OpIslt
	OpIsge
	OpIsle

	// Index-unary.
	OpRowIndex
	OpColIndex
	OpDiagIndex
	OpTril
	OpTriu
	OpDiag
	OpOffdiag
	OpRowLE
	OpRowGT
	OpColLE
	OpColGT
	OpValueEQ
	OpValueNE
	OpValueLT
	OpValueLE
	OpValueGT
	OpValueGE

	OpUser
)

// UnaryFunc computes z = f(x) over raw element bytes.
type UnaryFunc func(z, x []byte)

// BinaryFunc computes z = f(x, y) over raw element bytes.
type BinaryFunc func(z, x, y []byte)

// IndexUnaryFunc computes z = f(x, i, j, thunk) over raw element bytes.
// Positional operators ignore x; value operators ignore (i, j).
type IndexUnaryFunc func(z, x []byte, i, j int, thunk []byte)

// UnaryOp describes z = f(x) with domains (ztype, xtype).
type UnaryOp struct {
	ztype, xtype *Type
	opcode       Opcode
	fn           UnaryFunc
	name         string
}

// BinaryOp describes z = f(x, y) with domains (ztype, xtype, ytype).
type BinaryOp struct {
	ztype, xtype, ytype *Type
	opcode              Opcode
	fn                  BinaryFunc
	name                string
}

// IndexUnaryOp describes z = f(x, i, j, thunk); ttype is the thunk domain.
type IndexUnaryOp struct {
	ztype, xtype, ttype *Type
	opcode              Opcode
	fn                  IndexUnaryFunc
	name                string
}

func (op *UnaryOp) ZType() *Type   { return op.ztype }
func (op *UnaryOp) XType() *Type   { return op.xtype }
func (op *UnaryOp) Opcode() Opcode { return op.opcode }
func (op *UnaryOp) Name() string   { return op.name }

// Call applies the operator to one element.
func (op *UnaryOp) Call(z, x []byte) { op.fn(z, x) }

func (op *BinaryOp) ZType() *Type   { return op.ztype }
func (op *BinaryOp) XType() *Type   { return op.xtype }
func (op *BinaryOp) YType() *Type   { return op.ytype }
func (op *BinaryOp) Opcode() Opcode { return op.opcode }
func (op *BinaryOp) Name() string   { return op.name }

// Call applies the operator to one element pair.
func (op *BinaryOp) Call(z, x, y []byte) { op.fn(z, x, y) }

func (op *IndexUnaryOp) ZType() *Type     { return op.ztype }
func (op *IndexUnaryOp) XType() *Type     { return op.xtype }
func (op *IndexUnaryOp) ThunkType() *Type { return op.ttype }
func (op *IndexUnaryOp) Opcode() Opcode   { return op.opcode }
func (op *IndexUnaryOp) Name() string     { return op.name }

// Call applies the operator to one element at position (i, j).
func (op *IndexUnaryOp) Call(z, x []byte, i, j int, thunk []byte) {
	op.fn(z, x, i, j, thunk)
}

// UnaryOpNew constructs a user-defined unary operator.
func UnaryOpNew(fn UnaryFunc, ztype, xtype *Type, name string) (*UnaryOp, error) {
	if fn == nil {
		return nil, ErrNilPointer
	}
	if ztype == nil || xtype == nil {
		return nil, ErrUninitializedObject
	}
	return &UnaryOp{ztype: ztype, xtype: xtype, opcode: OpUser, fn: fn, name: name}, nil
}

// BinaryOpNew constructs a user-defined binary operator.
func BinaryOpNew(fn BinaryFunc, ztype, xtype, ytype *Type, name string) (*BinaryOp, error) {
	if fn == nil {
		return nil, ErrNilPointer
	}
	if ztype == nil || xtype == nil || ytype == nil {
		return nil, ErrUninitializedObject
	}
	return &BinaryOp{ztype: ztype, xtype: xtype, ytype: ytype, opcode: OpUser, fn: fn, name: name}, nil
}

// IndexUnaryOpNew constructs a user-defined index-unary operator.
func IndexUnaryOpNew(fn IndexUnaryFunc, ztype, xtype, ttype *Type, name string) (*IndexUnaryOp, error) {
	if fn == nil {
		return nil, ErrNilPointer
	}
	if ztype == nil || xtype == nil || ttype == nil {
		return nil, ErrUninitializedObject
	}
	return &IndexUnaryOp{ztype: ztype, xtype: xtype, ttype: ttype, opcode: OpUser, fn: fn, name: name}, nil
}

// Free releases an operator descriptor. Descriptors carry no owned
// resources; Free exists for API symmetry with matrix lifecycles.
func (op *UnaryOp) Free()      {}
func (op *BinaryOp) Free()     {}
func (op *IndexUnaryOp) Free() {}

// ---------- element access helpers ----------

func view[T any](b []byte) *T { return (*T)(unsafe.Pointer(&b[0])) }

type signedInt interface {
	~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

type integer interface {
	signedInt | unsignedInt
}

type float interface {
	~float32 | ~float64
}

type numeric interface {
	integer | float
}

// ---------- built-in binary functions ----------

// numBinaryFn builds the arithmetic family shared by every numeric type.
// Integer division by zero yields zero, keeping primitives total.
func numBinaryFn[T numeric](op Opcode, intDiv bool) BinaryFunc {
	switch op {
	case OpFirst:
		return func(z, x, _ []byte) { *view[T](z) = *view[T](x) }
	case OpSecond, OpAny:
		return func(z, _, y []byte) { *view[T](z) = *view[T](y) }
	case OpPair:
		return func(z, _, _ []byte) { *view[T](z) = 1 }
	case OpPlus:
		return func(z, x, y []byte) { *view[T](z) = *view[T](x) + *view[T](y) }
	case OpMinus:
		return func(z, x, y []byte) { *view[T](z) = *view[T](x) - *view[T](y) }
	case OpRminus:
		return func(z, x, y []byte) { *view[T](z) = *view[T](y) - *view[T](x) }
	case OpTimes:
		return func(z, x, y []byte) { *view[T](z) = *view[T](x) * *view[T](y) }
	case OpDiv:
		if intDiv {
			return func(z, x, y []byte) {
				if *view[T](y) == 0 {
					*view[T](z) = 0
					return
				}
				*view[T](z) = *view[T](x) / *view[T](y)
			}
		}
		return func(z, x, y []byte) { *view[T](z) = *view[T](x) / *view[T](y) }
	case OpRdiv:
		if intDiv {
			return func(z, x, y []byte) {
				if *view[T](x) == 0 {
					*view[T](z) = 0
					return
				}
				*view[T](z) = *view[T](y) / *view[T](x)
			}
		}
		return func(z, x, y []byte) { *view[T](z) = *view[T](y) / *view[T](x) }
	case OpMin:
		return func(z, x, y []byte) {
			if *view[T](y) < *view[T](x) {
				*view[T](z) = *view[T](y)
			} else {
				*view[T](z) = *view[T](x)
			}
		}
	case OpMax:
		return func(z, x, y []byte) {
			if *view[T](y) > *view[T](x) {
				*view[T](z) = *view[T](y)
			} else {
				*view[T](z) = *view[T](x)
			}
		}
	case OpLand:
		return func(z, x, y []byte) {
			if *view[T](x) != 0 && *view[T](y) != 0 {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpLor:
		return func(z, x, y []byte) {
			if *view[T](x) != 0 || *view[T](y) != 0 {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpLxor:
		return func(z, x, y []byte) {
			if (*view[T](x) != 0) != (*view[T](y) != 0) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpIseq:
		return func(z, x, y []byte) {
			if *view[T](x) == *view[T](y) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpIsne:
		return func(z, x, y []byte) {
			if *view[T](x) != *view[T](y) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpIsgt:
		return func(z, x, y []byte) {
			if *view[T](x) > *view[T](y) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpIslt:
		return func(z, x, y []byte) {
			if *view[T](x) < *view[T](y) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpIsge:
		return func(z, x, y []byte) {
			if *view[T](x) >= *view[T](y) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpIsle:
		return func(z, x, y []byte) {
			if *view[T](x) <= *view[T](y) {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	}
	return nil
}

// cmpBinaryFn builds the comparison family: z is always boolean.
func cmpBinaryFn[T numeric](op Opcode) BinaryFunc {
	switch op {
	case OpEq:
		return func(z, x, y []byte) { *view[bool](z) = *view[T](x) == *view[T](y) }
	case OpNe:
		return func(z, x, y []byte) { *view[bool](z) = *view[T](x) != *view[T](y) }
	case OpGt:
		return func(z, x, y []byte) { *view[bool](z) = *view[T](x) > *view[T](y) }
	case OpLt:
		return func(z, x, y []byte) { *view[bool](z) = *view[T](x) < *view[T](y) }
	case OpGe:
		return func(z, x, y []byte) { *view[bool](z) = *view[T](x) >= *view[T](y) }
	case OpLe:
		return func(z, x, y []byte) { *view[bool](z) = *view[T](x) <= *view[T](y) }
	}
	return nil
}

// boolBinaryFn builds the boolean family. Callers rename redundant
// opcodes first (BooleanRename), so only the canonical set appears here.
func boolBinaryFn(op Opcode) BinaryFunc {
	switch op {
	case OpFirst:
		return func(z, x, _ []byte) { *view[bool](z) = *view[bool](x) }
	case OpSecond, OpAny:
		return func(z, _, y []byte) { *view[bool](z) = *view[bool](y) }
	case OpPair:
		return func(z, _, _ []byte) { *view[bool](z) = true }
	case OpLand:
		return func(z, x, y []byte) { *view[bool](z) = *view[bool](x) && *view[bool](y) }
	case OpLor:
		return func(z, x, y []byte) { *view[bool](z) = *view[bool](x) || *view[bool](y) }
	case OpLxor:
		return func(z, x, y []byte) { *view[bool](z) = *view[bool](x) != *view[bool](y) }
	case OpEq:
		return func(z, x, y []byte) { *view[bool](z) = *view[bool](x) == *view[bool](y) }
	case OpGt:
		return func(z, x, y []byte) { *view[bool](z) = *view[bool](x) && !*view[bool](y) }
	case OpLt:
		return func(z, x, y []byte) { *view[bool](z) = !*view[bool](x) && *view[bool](y) }
	case OpGe:
		return func(z, x, y []byte) { *view[bool](z) = *view[bool](x) || !*view[bool](y) }
	case OpLe:
		return func(z, x, y []byte) { *view[bool](z) = !*view[bool](x) || *view[bool](y) }
	}
	return nil
}

func binaryFnFor(op Opcode, t *Type) BinaryFunc {
	if t.code == BoolCode {
		return boolBinaryFn(BooleanRename(op))
	}
	build := func(op Opcode) BinaryFunc {
		switch t.code {
		case Int8Code:
			if fn := cmpBinaryFn[int8](op); fn != nil {
				return fn
			}
			return numBinaryFn[int8](op, true)
		case Int16Code:
			if fn := cmpBinaryFn[int16](op); fn != nil {
				return fn
			}
			return numBinaryFn[int16](op, true)
		case Int32Code:
			if fn := cmpBinaryFn[int32](op); fn != nil {
				return fn
			}
			return numBinaryFn[int32](op, true)
		case Int64Code:
			if fn := cmpBinaryFn[int64](op); fn != nil {
				return fn
			}
			return numBinaryFn[int64](op, true)
		case Uint8Code:
			if fn := cmpBinaryFn[uint8](op); fn != nil {
				return fn
			}
			return numBinaryFn[uint8](op, true)
		case Uint16Code:
			if fn := cmpBinaryFn[uint16](op); fn != nil {
				return fn
			}
			return numBinaryFn[uint16](op, true)
		case Uint32Code:
			if fn := cmpBinaryFn[uint32](op); fn != nil {
				return fn
			}
			return numBinaryFn[uint32](op, true)
		case Uint64Code:
			if fn := cmpBinaryFn[uint64](op); fn != nil {
				return fn
			}
			return numBinaryFn[uint64](op, true)
		case FP32Code:
			if fn := cmpBinaryFn[float32](op); fn != nil {
				return fn
			}
			return numBinaryFn[float32](op, false)
		case FP64Code:
			if fn := cmpBinaryFn[float64](op); fn != nil {
				return fn
			}
			return numBinaryFn[float64](op, false)
		}
		return nil
	}
	return build(op)
}

// opcodeReturnsBool reports whether the binary opcode's z domain is
// boolean regardless of its input domain.
func opcodeReturnsBool(op Opcode) bool {
	switch op {
	case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe:
		return true
	}
	return false
}

// builtinBinary constructs a built-in binary operator over type t.
// Panics on a user type or an opcode/type pair with no built-in form:
// built-in factories are programmer-facing constants, not user input.
func builtinBinary(op Opcode, t *Type, name string) *BinaryOp {
	if t == nil || !t.Builtin() {
		panic("graphblas: built-in operator over non-built-in type")
	}
	fn := binaryFnFor(op, t)
	if fn == nil {
		panic("graphblas: no built-in form for opcode " + name + " over " + t.name)
	}
	ztype := t
	if opcodeReturnsBool(op) {
		ztype = Bool
	}
	return &BinaryOp{ztype: ztype, xtype: t, ytype: t, opcode: op, fn: fn, name: name}
}

// Built-in binary operator factories. The returned descriptors are fresh
// but interchangeable: primitives compare operators by opcode and types,
// never by pointer identity.

func First(t *Type) *BinaryOp  { return builtinBinary(OpFirst, t, "first_"+t.name) }
func Second(t *Type) *BinaryOp { return builtinBinary(OpSecond, t, "second_"+t.name) }
func Pair(t *Type) *BinaryOp   { return builtinBinary(OpPair, t, "pair_"+t.name) }
func Any(t *Type) *BinaryOp    { return builtinBinary(OpAny, t, "any_"+t.name) }
func Plus(t *Type) *BinaryOp   { return builtinBinary(OpPlus, t, "plus_"+t.name) }
func Minus(t *Type) *BinaryOp  { return builtinBinary(OpMinus, t, "minus_"+t.name) }
func Rminus(t *Type) *BinaryOp { return builtinBinary(OpRminus, t, "rminus_"+t.name) }
func Times(t *Type) *BinaryOp  { return builtinBinary(OpTimes, t, "times_"+t.name) }
func Div(t *Type) *BinaryOp    { return builtinBinary(OpDiv, t, "div_"+t.name) }
func Rdiv(t *Type) *BinaryOp   { return builtinBinary(OpRdiv, t, "rdiv_"+t.name) }
func MinOp(t *Type) *BinaryOp  { return builtinBinary(OpMin, t, "min_"+t.name) }
func MaxOp(t *Type) *BinaryOp  { return builtinBinary(OpMax, t, "max_"+t.name) }
func Land(t *Type) *BinaryOp   { return builtinBinary(OpLand, t, "land_"+t.name) }
func Lor(t *Type) *BinaryOp    { return builtinBinary(OpLor, t, "lor_"+t.name) }
func Lxor(t *Type) *BinaryOp   { return builtinBinary(OpLxor, t, "lxor_"+t.name) }
func EqOp(t *Type) *BinaryOp   { return builtinBinary(OpEq, t, "eq_"+t.name) }
func NeOp(t *Type) *BinaryOp   { return builtinBinary(OpNe, t, "ne_"+t.name) }
func GtOp(t *Type) *BinaryOp   { return builtinBinary(OpGt, t, "gt_"+t.name) }
func LtOp(t *Type) *BinaryOp   { return builtinBinary(OpLt, t, "lt_"+t.name) }
func GeOp(t *Type) *BinaryOp   { return builtinBinary(OpGe, t, "ge_"+t.name) }
func LeOp(t *Type) *BinaryOp   { return builtinBinary(OpLe, t, "le_"+t.name) }
func Iseq(t *Type) *BinaryOp   { return builtinBinary(OpIseq, t, "iseq_"+t.name) }
func Isne(t *Type) *BinaryOp   { return builtinBinary(OpIsne, t, "isne_"+t.name) }
func Isgt(t *Type) *BinaryOp   { return builtinBinary(OpIsgt, t, "isgt_"+t.name) }
func Islt(t *Type) *BinaryOp   { return builtinBinary(OpIslt, t, "islt_"+t.name) }
func Isge(t *Type) *BinaryOp   { return builtinBinary(OpIsge, t, "isge_"+t.name) }
func Isle(t *Type) *BinaryOp   { return builtinBinary(OpIsle, t, "isle_"+t.name) }

// ---------- built-in unary functions ----------

func numUnaryFn[T numeric](op Opcode, intMinv bool) UnaryFunc {
	switch op {
	case OpAinv:
		return func(z, x []byte) { *view[T](z) = -*view[T](x) }
	case OpMinv:
		if intMinv {
			return func(z, x []byte) {
				if *view[T](x) == 0 {
					*view[T](z) = 0
					return
				}
				*view[T](z) = 1 / *view[T](x)
			}
		}
		return func(z, x []byte) { *view[T](z) = 1 / *view[T](x) }
	case OpLnot:
		return func(z, x []byte) {
			if *view[T](x) == 0 {
				*view[T](z) = 1
			} else {
				*view[T](z) = 0
			}
		}
	case OpAbs:
		return func(z, x []byte) {
			v := *view[T](x)
			if v < 0 {
				v = -v
			}
			*view[T](z) = v
		}
	case OpOne:
		return func(z, _ []byte) { *view[T](z) = 1 }
	}
	return nil
}

func unaryFnFor(op Opcode, t *Type) UnaryFunc {
	if op == OpIdentity {
		size := t.size
		return func(z, x []byte) { copy(z[:size], x[:size]) }
	}
	if t.code == BoolCode {
		switch op {
		case OpAinv:
			return func(z, x []byte) { *view[bool](z) = *view[bool](x) }
		case OpMinv, OpOne:
			return func(z, _ []byte) { *view[bool](z) = true }
		case OpLnot:
			return func(z, x []byte) { *view[bool](z) = !*view[bool](x) }
		case OpAbs:
			return func(z, x []byte) { *view[bool](z) = *view[bool](x) }
		}
		return nil
	}
	switch t.code {
	case Int8Code:
		return numUnaryFn[int8](op, true)
	case Int16Code:
		return numUnaryFn[int16](op, true)
	case Int32Code:
		return numUnaryFn[int32](op, true)
	case Int64Code:
		return numUnaryFn[int64](op, true)
	case Uint8Code:
		return numUnaryFn[uint8](op, true)
	case Uint16Code:
		return numUnaryFn[uint16](op, true)
	case Uint32Code:
		return numUnaryFn[uint32](op, true)
	case Uint64Code:
		return numUnaryFn[uint64](op, true)
	case FP32Code:
		return numUnaryFn[float32](op, false)
	case FP64Code:
		return numUnaryFn[float64](op, false)
	}
	return nil
}

func builtinUnary(op Opcode, t *Type, name string) *UnaryOp {
	if t == nil || !t.Builtin() {
		panic("graphblas: built-in operator over non-built-in type")
	}
	fn := unaryFnFor(op, t)
	if fn == nil {
		panic("graphblas: no built-in form for opcode " + name + " over " + t.name)
	}
	return &UnaryOp{ztype: t, xtype: t, opcode: op, fn: fn, name: name}
}

// Built-in unary operator factories.

func Identity(t *Type) *UnaryOp { return builtinUnary(OpIdentity, t, "identity_"+t.name) }
func Ainv(t *Type) *UnaryOp     { return builtinUnary(OpAinv, t, "ainv_"+t.name) }
func Minv(t *Type) *UnaryOp     { return builtinUnary(OpMinv, t, "minv_"+t.name) }
func Lnot(t *Type) *UnaryOp     { return builtinUnary(OpLnot, t, "lnot_"+t.name) }
func Abs(t *Type) *UnaryOp      { return builtinUnary(OpAbs, t, "abs_"+t.name) }
func One(t *Type) *UnaryOp      { return builtinUnary(OpOne, t, "one_"+t.name) }

// ---------- built-in index-unary operators ----------

func storeBoolOrFlag(z []byte, v bool) { *view[bool](z) = v }

// positionalFn covers the operators that depend only on (i, j, thunk).
// The thunk is always int64 for positional operators.
func positionalFn(op Opcode) IndexUnaryFunc {
	switch op {
	case OpRowIndex:
		return func(z, _ []byte, i, _ int, thunk []byte) {
			*view[int64](z) = int64(i) + Int64s(thunk)[0]
		}
	case OpColIndex:
		return func(z, _ []byte, _, j int, thunk []byte) {
			*view[int64](z) = int64(j) + Int64s(thunk)[0]
		}
	case OpDiagIndex:
		return func(z, _ []byte, i, j int, thunk []byte) {
			*view[int64](z) = int64(j) - int64(i) + Int64s(thunk)[0]
		}
	case OpTril:
		return func(z, _ []byte, i, j int, thunk []byte) {
			storeBoolOrFlag(z, int64(j)-int64(i) <= Int64s(thunk)[0])
		}
	case OpTriu:
		return func(z, _ []byte, i, j int, thunk []byte) {
			storeBoolOrFlag(z, int64(j)-int64(i) >= Int64s(thunk)[0])
		}
	case OpDiag:
		return func(z, _ []byte, i, j int, thunk []byte) {
			storeBoolOrFlag(z, int64(j)-int64(i) == Int64s(thunk)[0])
		}
	case OpOffdiag:
		return func(z, _ []byte, i, j int, thunk []byte) {
			storeBoolOrFlag(z, int64(j)-int64(i) != Int64s(thunk)[0])
		}
	case OpRowLE:
		return func(z, _ []byte, i, _ int, thunk []byte) {
			storeBoolOrFlag(z, int64(i) <= Int64s(thunk)[0])
		}
	case OpRowGT:
		return func(z, _ []byte, i, _ int, thunk []byte) {
			storeBoolOrFlag(z, int64(i) > Int64s(thunk)[0])
		}
	case OpColLE:
		return func(z, _ []byte, _, j int, thunk []byte) {
			storeBoolOrFlag(z, int64(j) <= Int64s(thunk)[0])
		}
	case OpColGT:
		return func(z, _ []byte, _, j int, thunk []byte) {
			storeBoolOrFlag(z, int64(j) > Int64s(thunk)[0])
		}
	}
	return nil
}

// valueCmpFn covers the value comparison operators; the thunk shares the
// operand type.
func valueCmpFn(op Opcode, t *Type) IndexUnaryFunc {
	var cmp BinaryFunc
	switch op {
	case OpValueEQ:
		cmp = binaryFnFor(OpEq, t)
	case OpValueNE:
		cmp = binaryFnFor(OpNe, t)
	case OpValueLT:
		cmp = binaryFnFor(OpLt, t)
	case OpValueLE:
		cmp = binaryFnFor(OpLe, t)
	case OpValueGT:
		cmp = binaryFnFor(OpGt, t)
	case OpValueGE:
		cmp = binaryFnFor(OpGe, t)
	}
	if cmp == nil {
		return nil
	}
	return func(z, x []byte, _, _ int, thunk []byte) { cmp(z, x, thunk) }
}

// IndexOpPositional reports whether the index-unary opcode ignores the
// element value, so select can run pattern-only.
func IndexOpPositional(op Opcode) bool {
	switch op {
	case OpRowIndex, OpColIndex, OpDiagIndex, OpTril, OpTriu, OpDiag,
		OpOffdiag, OpRowLE, OpRowGT, OpColLE, OpColGT:
		return true
	}
	return false
}

func builtinIndexUnary(op Opcode, t *Type, name string) *IndexUnaryOp {
	if IndexOpPositional(op) {
		ztype := Bool
		if op == OpRowIndex || op == OpColIndex || op == OpDiagIndex {
			ztype = Int64
		}
		return &IndexUnaryOp{ztype: ztype, xtype: t, ttype: Int64, opcode: op,
			fn: positionalFn(op), name: name}
	}
	if t == nil || !t.Builtin() {
		panic("graphblas: built-in operator over non-built-in type")
	}
	fn := valueCmpFn(op, t)
	if fn == nil {
		panic("graphblas: no built-in form for opcode " + name + " over " + t.name)
	}
	return &IndexUnaryOp{ztype: Bool, xtype: t, ttype: t, opcode: op, fn: fn, name: name}
}

// Built-in index-unary operator factories. Positional operators accept
// any operand type (the value is never read).

func RowIndex(t *Type) *IndexUnaryOp  { return builtinIndexUnary(OpRowIndex, t, "rowindex") }
func ColIndex(t *Type) *IndexUnaryOp  { return builtinIndexUnary(OpColIndex, t, "colindex") }
func DiagIndex(t *Type) *IndexUnaryOp { return builtinIndexUnary(OpDiagIndex, t, "diagindex") }
func Tril(t *Type) *IndexUnaryOp      { return builtinIndexUnary(OpTril, t, "tril") }
func Triu(t *Type) *IndexUnaryOp      { return builtinIndexUnary(OpTriu, t, "triu") }
func Diag(t *Type) *IndexUnaryOp      { return builtinIndexUnary(OpDiag, t, "diag") }
func Offdiag(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpOffdiag, t, "offdiag") }
func RowLE(t *Type) *IndexUnaryOp     { return builtinIndexUnary(OpRowLE, t, "rowle") }
func RowGT(t *Type) *IndexUnaryOp     { return builtinIndexUnary(OpRowGT, t, "rowgt") }
func ColLE(t *Type) *IndexUnaryOp     { return builtinIndexUnary(OpColLE, t, "colle") }
func ColGT(t *Type) *IndexUnaryOp     { return builtinIndexUnary(OpColGT, t, "colgt") }
func ValueEQ(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpValueEQ, t, "valueeq_"+t.name) }
func ValueNE(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpValueNE, t, "valuene_"+t.name) }
func ValueLT(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpValueLT, t, "valuelt_"+t.name) }
func ValueLE(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpValueLE, t, "valuele_"+t.name) }
func ValueGT(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpValueGT, t, "valuegt_"+t.name) }
func ValueGE(t *Type) *IndexUnaryOp   { return builtinIndexUnary(OpValueGE, t, "valuege_"+t.name) }

// ---------- opcode rewrites ----------

// BooleanRename collapses redundant boolean binary opcodes onto their
// canonical forms so a single boolean kernel serves many named operators:
//
//	DIV→FIRST, RDIV→SECOND, MIN/TIMES→LAND, MAX/PLUS→LOR,
//	NE/ISNE/MINUS/RMINUS→LXOR, ISEQ→EQ, ISGT→GT, ISLT→LT, ISGE→GE, ISLE→LE.
//
// Opcodes outside the table pass through unchanged.
func BooleanRename(op Opcode) Opcode {
	switch op {
	case OpDiv:
		return OpFirst
	case OpRdiv:
		return OpSecond
	case OpMin, OpTimes:
		return OpLand
	case OpMax, OpPlus:
		return OpLor
	case OpNe, OpIsne, OpMinus, OpRminus:
		return OpLxor
	case OpIseq:
		return OpEq
	case OpIsgt:
		return OpGt
	case OpIslt:
		return OpLt
	case OpIsge:
		return OpGe
	case OpIsle:
		return OpLe
	}
	return op
}

// FlipOpcode rewrites op so that the renamed operator applied to (x, y)
// equals the original applied to (y, x). The second result is false when
// no rename exists (the caller must swap arguments instead).
func FlipOpcode(op Opcode) (Opcode, bool) {
	switch op {
	case OpFirst:
		return OpSecond, true
	case OpSecond:
		return OpFirst, true
	case OpGt:
		return OpLt, true
	case OpLt:
		return OpGt, true
	case OpGe:
		return OpLe, true
	case OpLe:
		return OpGe, true
	case OpIsgt:
		return OpIslt, true
	case OpIslt:
		return OpIsgt, true
	case OpIsge:
		return OpIsle, true
	case OpIsle:
		return OpIsge, true
	case OpMinus:
		return OpRminus, true
	case OpRminus:
		return OpMinus, true
	case OpDiv:
		return OpRdiv, true
	case OpRdiv:
		return OpDiv, true
	case OpPair, OpAny, OpPlus, OpTimes, OpMin, OpMax, OpLand, OpLor,
		OpLxor, OpEq, OpNe, OpIseq, OpIsne:
		// Commutative: unchanged.
		return op, true
	}
	return op, false
}

// FlipBinaryOp returns an operator computing z = f(y, x). Built-in
// flippable opcodes are renamed; everything else wraps the function with
// swapped arguments.
func FlipBinaryOp(op *BinaryOp) *BinaryOp {
	if renamed, ok := FlipOpcode(op.opcode); ok && op.opcode != OpUser {
		if renamed == op.opcode {
			return op
		}
		if op.xtype.Builtin() && op.xtype == op.ytype {
			return builtinBinary(renamed, op.xtype, "flipped_"+op.name)
		}
	}
	fn := op.fn
	return &BinaryOp{
		ztype:  op.ztype,
		xtype:  op.ytype,
		ytype:  op.xtype,
		opcode: OpUser,
		fn:     func(z, x, y []byte) { fn(z, y, x) },
		name:   "flipped_" + op.name,
	}
}
