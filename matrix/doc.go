// Package matrix implements the sparse matrix container and every
// primitive of the engine.
//
// A Matrix stores one element type and a vlen × vdim collection of
// sparse vectors in one of four formats (sparse CSC/CSR, hypersparse,
// bitmap, or full) in either orientation. Mutations may leave deferred
// work on the container (zombies, pending tuples, jumbled vectors);
// Wait resolves all three and observers force it as needed.
//
// The primitives (MxM, MxV, VxM, EwiseAdd, EwiseMult, Apply, Select,
// Reduce, Assign, Subassign, Transpose, Kronecker) compute a tentative
// result and funnel it through the masked accumulation protocol, the one
// place where a result becomes visible in an output matrix. The mxm
// engine picks between Gustavson saxpy, heap saxpy, and dot product by a
// deterministic cost model, and consults a kernel registry of
// pre-specialized semiring loops before falling back to the generic
// function-pointer path.
//
// Workloads are split across threads by the task slicer; each task
// writes a pre-assigned disjoint slice of the output, so phases join
// without locks. Errors are the sentinel set of package core, matched
// with errors.Is.
package matrix
