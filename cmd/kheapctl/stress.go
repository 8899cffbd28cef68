package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cjwert/kheap/heap"
	"github.com/cjwert/kheap/heap/index"
	"github.com/cjwert/kheap/region"
	"github.com/spf13/cobra"
)

var (
	stressMax     int
	stressInitial int
	stressOps     int
	stressSeed    int64
	stressMaxSize int
	stressVerify  bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressMax, "max", 64*1024*1024, "Region ceiling in bytes")
	cmd.Flags().IntVar(&stressInitial, "initial", 1024*1024, "Initial logical end in bytes")
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of operations to run")
	cmd.Flags().Int64Var(&stressSeed, "seed", 0, "Random seed (0 picks from the clock)")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 8192, "Largest allocation request in bytes")
	cmd.Flags().BoolVar(&stressVerify, "verify", false,
		"Walk the heap and verify invariants after every operation")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized allocation workload",
		Long: `The stress command maps an anonymous region, builds a heap over it, and
runs a randomized mix of plain and page-aligned allocations and frees.
Every payload is scribbled over after allocation. With --verify the full
block walk and index audit runs after every operation instead of only at
the end.

Example:
  kheapctl stress --ops 1000000
  kheapctl stress --ops 50000 --verify --seed 42 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

type stressReport struct {
	Seed    int64         `json:"seed"`
	Ops     int           `json:"ops"`
	Elapsed time.Duration `json:"elapsed_ns"`

	Allocs     int `json:"allocs"`
	Frees      int `json:"frees"`
	OutOfIndex int `json:"out_of_index"`

	FinalSize int        `json:"final_size"`
	Stats     heap.Stats `json:"stats"`
}

func runStress() error {
	seed := stressSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	printVerbose("Mapping %d byte region\n", stressMax)

	r, err := region.Reserve(stressMax)
	if err != nil {
		return fmt.Errorf("failed to map region: %w", err)
	}
	defer r.Close()

	h, err := heap.New(r.Bytes(), stressInitial, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize heap: %w", err)
	}

	start := time.Now()
	report, err := stressLoop(h, seed, stressOps, stressMaxSize, stressVerify)
	if err != nil {
		return err
	}
	report.Elapsed = time.Since(start)

	if jsonOut {
		return printJSON(report)
	}

	printInfo("Stress run complete:\n")
	printInfo("  Seed:      %d\n", report.Seed)
	printInfo("  Ops:       %d in %s\n", report.Ops, report.Elapsed)
	printInfo("  Allocs:    %d (%d splits)\n", report.Allocs, report.Stats.Splits)
	printInfo("  Frees:     %d (%d left, %d right coalesces)\n",
		report.Frees, report.Stats.CoalesceLeft, report.Stats.CoalesceRight)
	printInfo("  Growth:    %d grows, %d shrinks\n",
		report.Stats.GrowCalls, report.Stats.ShrinkCalls)
	printInfo("  Volume:    %d bytes allocated, %d freed\n",
		report.Stats.BytesAllocated, report.Stats.BytesFreed)
	printInfo("  Final:     %d bytes usable\n", report.FinalSize)
	if report.OutOfIndex > 0 {
		printInfo("  Declined:  %d frees hit a full index\n", report.OutOfIndex)
	}

	return nil
}

// stressLoop drives the randomized workload. Allocation failures from
// exhausting the region or the free index are part of the workload, not
// errors; anything else, and any invariant violation, aborts the run.
func stressLoop(h *heap.Heap, seed int64, ops, maxSize int, verify bool) (*stressReport, error) {
	rng := rand.New(rand.NewSource(seed))
	report := &stressReport{Seed: seed, Ops: ops}

	type block struct {
		ref     heap.Ref
		payload []byte
	}
	var live []block

	for i := 0; i < ops; i++ {
		allocate := len(live) == 0 || rng.Intn(3) != 0
		if allocate {
			size := 1 + rng.Intn(maxSize)
			aligned := rng.Intn(8) == 0
			ref, payload, err := h.Alloc(size, aligned)
			if err != nil {
				// Exhaustion is expected under pressure; free something
				// and move on.
				if len(live) == 0 {
					return nil, fmt.Errorf("alloc %d failed on empty heap: %w", size, err)
				}
				allocate = false
			} else {
				for j := range payload {
					payload[j] = byte(ref)
				}
				live = append(live, block{ref: ref, payload: payload})
				report.Allocs++
			}
		}
		if !allocate {
			j := rng.Intn(len(live))
			if err := h.Free(live[j].ref); err != nil {
				// A full index leaves the freed block unindexed, so the
				// run cannot usefully continue past it.
				if errors.Is(err, index.ErrFull) {
					report.OutOfIndex++
					report.Stats = h.Stats()
					report.FinalSize = h.Size()
					return report, nil
				}
				return nil, fmt.Errorf("free %#x failed: %w", live[j].ref, err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			report.Frees++
		}
		if verify {
			if err := h.Check(); err != nil {
				return nil, fmt.Errorf("invariant violation after op %d: %w", i, err)
			}
		}
	}

	for _, b := range live {
		if err := h.Free(b.ref); err != nil {
			if errors.Is(err, index.ErrFull) {
				report.OutOfIndex++
				report.Stats = h.Stats()
				report.FinalSize = h.Size()
				return report, nil
			}
			return nil, fmt.Errorf("drain free %#x failed: %w", b.ref, err)
		}
		report.Frees++
	}

	if err := h.Check(); err != nil {
		return nil, fmt.Errorf("invariant violation after drain: %w", err)
	}

	report.FinalSize = h.Size()
	report.Stats = h.Stats()
	return report, nil
}
