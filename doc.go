// Package graphblas is a sparse linear algebra engine for graphs: it
// represents graphs as sparse matrices and evaluates expressions of the
// form C⟨M⟩ = accum(C, A ⊗.⊕ B): generalized matrix multiply and
// elementwise combine under a mask, parameterized by semirings over
// arbitrary element types.
//
// Everything is organized under two subpackages:
//
//	core/   for element types, operators, monoids, semirings, descriptors,
//	          and process init/teardown
//	matrix/ for the multi-format sparse container (sparse, hypersparse,
//	          bitmap, full), its pending-work model, and every primitive:
//	          MxM, MxV, VxM, EwiseAdd, EwiseMult, Apply, Select, Reduce,
//	          Assign, Subassign, Transpose, Kronecker
//
// Quick example, one step of weighted reachability:
//
//	_ = core.Init(core.NonBlocking)
//	defer core.Finalize()
//
//	adj, _ := matrix.New(core.FP64, n, n)
//	// ... adj.Build(...)
//	next, _ := matrix.VectorNew(core.FP64, n)
//	_ = matrix.MxV(next, visited, nil, core.MinPlus(core.FP64), adj, frontier,
//	        core.NewDescriptor(core.WithMaskComp()))
//
// Primitives are synchronous and internally parallel; one process-wide
// thread default is set at Init and can be overridden per call through
// the descriptor.
package graphblas
