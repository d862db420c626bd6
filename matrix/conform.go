// SPDX-License-Identifier: MIT
// Package matrix: the format conformer. After every mutating primitive
// the engine asks conform to re-select the storage format against the
// matrix's sparsity control and switch thresholds.
//
// Selection rules, in order:
//  1. full:      fully dense, full allowed;
//  2. bitmap:    density ≥ bitmap switch, bitmap allowed;
//  3. hyper:     non-empty-vector fraction ≤ hyper switch, hyper allowed
//                 (or sparse not allowed);
//  4. sparse:    otherwise.
//
// Deferred work (zombies, pending tuples, jumbled) pins the matrix to
// the sparse/hyper family: bitmap and full cannot represent it.

package matrix

import "github.com/katalvlaran/graphblas/core"

func (m *Matrix) conform() error {
	if err := validMatrix(m); err != nil {
		return err
	}
	allowed := m.cfg.sparsityControl
	dense := m.vlen * m.vdim
	nvals := m.entryCount() - m.nzombies

	if m.finalized() {
		if allowed&Full != 0 && nvals == dense {
			return m.convertTo(Full)
		}
		if allowed&Bitmap != 0 && float64(nvals) >= m.cfg.bitmapSwitch*float64(dense) {
			return m.convertTo(Bitmap)
		}
		if allowed&(Hypersparse|Sparse) == 0 {
			// Dense-only control with missing entries: bitmap is the
			// only faithful holder.
			return m.convertTo(Bitmap)
		}
	} else if m.format == Bitmap || m.format == Full {
		// Unreachable by construction: deferred work only accrues on the
		// sparse/hyper family.
		return core.ErrPanic
	}
	hyperOK := allowed&Hypersparse != 0
	sparseOK := allowed&Sparse != 0
	switch {
	case hyperOK && !sparseOK:
		return m.convertTo(Hypersparse)
	case hyperOK && float64(m.nvecNonempty()) <= m.cfg.hyperSwitch*float64(m.vdim):
		return m.convertTo(Hypersparse)
	default:
		// Sparse also holds the transient case of a dense-only control
		// carrying deferred work.
		return m.convertTo(Sparse)
	}
}
