package main

import (
	"testing"

	"github.com/cjwert/kheap/heap"
	"github.com/cjwert/kheap/internal/layout"
	"github.com/stretchr/testify/require"
)

func Test_StressLoop_Deterministic(t *testing.T) {
	mem := make([]byte, 4*1024*1024)
	h, err := heap.New(mem, 256*layout.PageSize, nil)
	require.NoError(t, err)

	report, err := stressLoop(h, 42, 2000, 4096, true)
	require.NoError(t, err)

	require.Equal(t, int64(42), report.Seed)
	require.Equal(t, 2000, report.Ops)
	require.Positive(t, report.Allocs)
	// Every allocation was drained at the end.
	require.Equal(t, report.Allocs, report.Frees)
	require.Zero(t, report.OutOfIndex)

	// After the drain the heap is whole again.
	require.NoError(t, h.Check())
	require.Equal(t, report.FinalSize, h.Size())
}

func Test_StressLoop_SameSeedSameOutcome(t *testing.T) {
	run := func() *stressReport {
		mem := make([]byte, 4*1024*1024)
		h, err := heap.New(mem, 256*layout.PageSize, nil)
		require.NoError(t, err)
		report, err := stressLoop(h, 7, 1000, 2048, false)
		require.NoError(t, err)
		return report
	}

	a := run()
	b := run()
	a.Elapsed, b.Elapsed = 0, 0
	require.Equal(t, a, b)
}
