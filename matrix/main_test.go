// Package matrix_test: suite harness. The engine is initialized once in
// non-blocking mode so deferred work (zombies, pending tuples) is
// observable across the tests.
package matrix_test

import (
	"os"
	"testing"

	"github.com/katalvlaran/graphblas/core"
)

func TestMain(m *testing.M) {
	if err := core.Init(core.NonBlocking, core.WithThreads(4)); err != nil {
		panic(err)
	}
	code := m.Run()
	if err := core.Finalize(); err != nil {
		panic(err)
	}
	os.Exit(code)
}
