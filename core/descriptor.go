// SPDX-License-Identifier: MIT
// Package core: per-call Descriptor.
//
// A Descriptor is a value-typed bundle of options accepted by every
// primitive: output replace, mask interpretation, input transposes, the
// mxm algorithm hint, forced finalized output, and a per-call thread
// override. A nil *Descriptor means "all defaults".

package core

// Method selects the mxm algorithm. MethodDefault lets the cost model
// decide; the other values force a strategy.
type Method uint8

const (
	MethodDefault Method = iota
	MethodGustavson
	MethodHeap
	MethodDot
)

// String returns the lowercase name of the method.
func (m Method) String() string {
	switch m {
	case MethodGustavson:
		return "gustavson"
	case MethodHeap:
		return "heap"
	case MethodDot:
		return "dot"
	}
	return "default"
}

// Descriptor defaults. The zero Descriptor equals these.
const (
	// DefaultReplace keeps entries of C outside the mask.
	DefaultReplace = false

	// DefaultMaskComp uses the mask as-is (not complemented).
	DefaultMaskComp = false

	// DefaultMaskStruct reads mask values, not just structure.
	DefaultMaskStruct = false

	// DefaultSort leaves outputs possibly jumbled; Sort forces finalized
	// output on every exit.
	DefaultSort = false
)

// Descriptor is the value-typed per-call option record.
type Descriptor struct {
	// OutputReplace clears entries of C where the effective mask is false.
	OutputReplace bool

	// MaskComp complements the logical mask; MaskStruct treats presence
	// as truth regardless of value.
	MaskComp   bool
	MaskStruct bool

	// Input0Trans / Input1Trans transpose the first / second matrix input.
	Input0Trans bool
	Input1Trans bool

	// AxBMethod hints the mxm strategy.
	AxBMethod Method

	// Sort forces the output into finalized (sorted, no pending work) form.
	Sort bool

	// Threads overrides the process-wide thread count for this call;
	// zero keeps the default.
	Threads int
}

// DescOption configures a Descriptor.
type DescOption func(*Descriptor)

// WithReplace sets OutputReplace.
func WithReplace() DescOption { return func(d *Descriptor) { d.OutputReplace = true } }

// WithMaskComp complements the mask.
func WithMaskComp() DescOption { return func(d *Descriptor) { d.MaskComp = true } }

// WithMaskStruct uses only the mask structure.
func WithMaskStruct() DescOption { return func(d *Descriptor) { d.MaskStruct = true } }

// WithTran0 transposes the first input.
func WithTran0() DescOption { return func(d *Descriptor) { d.Input0Trans = true } }

// WithTran1 transposes the second input.
func WithTran1() DescOption { return func(d *Descriptor) { d.Input1Trans = true } }

// WithMethod forces the mxm strategy.
func WithMethod(m Method) DescOption { return func(d *Descriptor) { d.AxBMethod = m } }

// WithSort forces finalized output.
func WithSort() DescOption { return func(d *Descriptor) { d.Sort = true } }

// WithDescThreads overrides the thread count for this call.
// Panics on negative n (programmer error).
func WithDescThreads(n int) DescOption {
	if n < 0 {
		panic("graphblas: negative thread count")
	}
	return func(d *Descriptor) { d.Threads = n }
}

// NewDescriptor constructs a Descriptor with defaults and overrides
// applied left to right.
func NewDescriptor(opts ...DescOption) *Descriptor {
	d := &Descriptor{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Get returns d, or the zero descriptor when d is nil, so primitives can
// read options without nil checks.
func (d *Descriptor) Get() Descriptor {
	if d == nil {
		return Descriptor{}
	}
	return *d
}
