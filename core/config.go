// SPDX-License-Identifier: MIT
// Package core: process init/finalize and the runtime defaults they pin.
//
// Init must be called exactly once before any primitive; Finalize pairs
// with it. Between the two, the pinned configuration (mode, thread count,
// burble writer, allocation hooks) is read-only: per-call overrides
// travel in the Descriptor, never through globals.

package core

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// Mode selects when pending work is resolved.
type Mode uint8

const (
	// Blocking resolves pending work before every primitive returns.
	Blocking Mode = iota

	// NonBlocking defers zombies, pending tuples, and jumbled vectors
	// until an observer forces Wait.
	NonBlocking
)

// Runtime defaults.
const (
	// DefaultTasksPerThread scales the task count handed to the slicer.
	DefaultTasksPerThread = 32
)

// MallocHooks mirrors the allocator seam of the engine: Go owns the
// memory, the hooks observe it. Both are optional.
type MallocHooks struct {
	OnAlloc func(bytes int)
	OnFree  func(bytes int)
}

type runtimeState struct {
	mu          sync.RWMutex
	initialized bool
	mode        Mode
	threads     int
	burble      io.Writer
	hooks       MallocHooks
}

var engine runtimeState

// InitOption configures Init.
type InitOption func(*runtimeState)

// WithThreads pins the process-wide thread count.
// Panics on n < 1 (programmer error).
func WithThreads(n int) InitOption {
	if n < 1 {
		panic("graphblas: thread count must be >= 1")
	}
	return func(s *runtimeState) { s.threads = n }
}

// WithBurble enables the diagnostic log onto w.
func WithBurble(w io.Writer) InitOption {
	return func(s *runtimeState) { s.burble = w }
}

// WithMallocHooks installs allocation observers.
func WithMallocHooks(h MallocHooks) InitOption {
	return func(s *runtimeState) { s.hooks = h }
}

// Init pins the process-wide configuration. It must be paired with
// Finalize; a second Init without Finalize returns ErrInvalidValue.
func Init(mode Mode, opts ...InitOption) error {
	if mode != Blocking && mode != NonBlocking {
		return ErrInvalidValue
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.initialized {
		return ErrInvalidValue
	}
	engine.initialized = true
	engine.mode = mode
	engine.threads = runtime.GOMAXPROCS(0)
	engine.burble = nil
	engine.hooks = MallocHooks{}
	for _, opt := range opts {
		opt(&engine)
	}
	return nil
}

// Finalize releases the process-wide configuration. Calling it without a
// matching Init returns ErrInvalidValue.
func Finalize() error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.initialized {
		return ErrInvalidValue
	}
	engine.initialized = false
	engine.burble = nil
	engine.hooks = MallocHooks{}
	return nil
}

// Initialized reports whether Init has been called and not finalized.
func Initialized() bool {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	return engine.initialized
}

// NonBlockingMode reports whether pending work may be deferred.
func NonBlockingMode() bool {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	return engine.initialized && engine.mode == NonBlocking
}

// Threads returns the pinned thread count (1 when not initialized).
func Threads() int {
	engine.mu.RLock()
	defer engine.mu.RUnlock()
	if !engine.initialized || engine.threads < 1 {
		return 1
	}
	return engine.threads
}

// Burblef appends one line to the diagnostic log when burble is enabled.
// Single writer recommended; the engine emits from the calling goroutine
// only, never from workers.
func Burblef(format string, args ...any) {
	engine.mu.RLock()
	w := engine.burble
	engine.mu.RUnlock()
	if w == nil {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// NoteAlloc reports an array allocation to the malloc hooks.
func NoteAlloc(bytes int) {
	engine.mu.RLock()
	fn := engine.hooks.OnAlloc
	engine.mu.RUnlock()
	if fn != nil && bytes > 0 {
		fn(bytes)
	}
}

// NoteFree reports an array release to the malloc hooks.
func NoteFree(bytes int) {
	engine.mu.RLock()
	fn := engine.hooks.OnFree
	engine.mu.RUnlock()
	if fn != nil && bytes > 0 {
		fn(bytes)
	}
}
