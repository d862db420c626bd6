// SPDX-License-Identifier: MIT
// Package core: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors shared by the whole
// engine. All operations MUST return these sentinels and tests MUST check
// them via errors.Is. No operation panics on user-triggered conditions;
// panics are reserved for internal invariant violations (ErrPanic marks
// the boundary where one was converted into an error for reporting).

package core

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "graphblas: ..." for consistency and to
// allow easy grepping across logs. DO NOT %w wrap these sentinels when
// returning directly; if context is essential, wrap with
// fmt.Errorf("Op: %w", ErrX) at the outer facade; callers still match
// with errors.Is.

var (
	// ErrOutOfMemory is returned when an allocation request cannot be
	// satisfied. Scoped temporaries are released before it propagates.
	ErrOutOfMemory = errors.New("graphblas: out of memory")

	// ErrInvalidValue indicates an argument value outside its legal range
	// (non-positive dimension, unknown enum value, bad option).
	ErrInvalidValue = errors.New("graphblas: invalid value")

	// ErrInvalidObject indicates an object whose internal invariants are
	// violated (corrupted or freed container).
	ErrInvalidObject = errors.New("graphblas: invalid object")

	// ErrIndexOutOfBounds indicates a row or column index outside the
	// matrix shape, or an index list entry outside the target region.
	ErrIndexOutOfBounds = errors.New("graphblas: index out of bounds")

	// ErrDimensionMismatch indicates operand shapes incompatible with the
	// requested operation.
	ErrDimensionMismatch = errors.New("graphblas: dimension mismatch")

	// ErrDomainMismatch indicates element types incompatible with the
	// operator, monoid, or semiring of the call.
	ErrDomainMismatch = errors.New("graphblas: domain mismatch")

	// ErrUninitializedObject indicates a nil or never-constructed object
	// passed where a constructed one is required.
	ErrUninitializedObject = errors.New("graphblas: uninitialized object")

	// ErrNilPointer indicates a nil output handle or nil required operand.
	ErrNilPointer = errors.New("graphblas: nil pointer")

	// ErrOutputNotEmpty indicates an output that must be empty (Build on a
	// non-empty matrix) still holds entries.
	ErrOutputNotEmpty = errors.New("graphblas: output not empty")

	// ErrEngineNotInit indicates a primitive was called before Init or
	// after Finalize.
	ErrEngineNotInit = errors.New("graphblas: engine not initialized")

	// ErrPanic marks an unrecoverable invariant violation surfaced as an
	// error at the API boundary.
	ErrPanic = errors.New("graphblas: panic")

	// ErrNoValue is the registry-decline status: a kernel lookup miss
	// meaning "decline; run the generic path". It is part of the internal
	// protocol between the method selector and the kernel registry and
	// MUST NOT surface to callers of any primitive.
	ErrNoValue = errors.New("graphblas: no value")
)
