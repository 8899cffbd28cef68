package main

import (
	"fmt"

	"github.com/cjwert/kheap/heap"
	"github.com/cjwert/kheap/internal/layout"
	"github.com/spf13/cobra"
)

var (
	infoMax     int
	infoInitial int
	infoIndex   int
)

func init() {
	cmd := newInfoCmd()
	cmd.Flags().IntVar(&infoMax, "max", 16*1024*1024, "Region ceiling in bytes")
	cmd.Flags().IntVar(&infoInitial, "initial", 1024*1024, "Initial logical end in bytes")
	cmd.Flags().IntVar(&infoIndex, "index-capacity", heap.DefaultConfig.IndexCapacity,
		"Free index capacity in entries")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report layout constants and heap geometry",
		Long: `The info command prints the allocator's block layout constants and the
geometry a heap would have for the given region and index sizes.

Example:
  kheapctl info
  kheapctl info --max 67108864 --initial 4194304 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	return cmd
}

type layoutInfo struct {
	PageSize     int `json:"page_size"`
	HeaderSize   int `json:"header_size"`
	FooterSize   int `json:"footer_size"`
	Overhead     int `json:"overhead"`
	MinBlockSize int `json:"min_block_size"`

	Start int `json:"start"`
	End   int `json:"end"`
	Max   int `json:"max"`
	Size  int `json:"size"`
}

func runInfo() error {
	mem := make([]byte, infoMax)
	h, err := heap.New(mem, infoInitial, &heap.Config{IndexCapacity: infoIndex})
	if err != nil {
		return fmt.Errorf("failed to initialize heap: %w", err)
	}

	info := layoutInfo{
		PageSize:     layout.PageSize,
		HeaderSize:   layout.HeaderSize,
		FooterSize:   layout.FooterSize,
		Overhead:     layout.Overhead,
		MinBlockSize: layout.MinBlockSize,
		Start:        h.Start(),
		End:          h.End(),
		Max:          h.Max(),
		Size:         h.Size(),
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("Block layout:\n")
	printInfo("  Page size:      %d\n", info.PageSize)
	printInfo("  Header size:    %d\n", info.HeaderSize)
	printInfo("  Footer size:    %d\n", info.FooterSize)
	printInfo("  Overhead:       %d\n", info.Overhead)
	printInfo("  Min block size: %d\n", info.MinBlockSize)

	printInfo("\nHeap geometry (%d entry index):\n", infoIndex)
	printInfo("  Start: %#x\n", info.Start)
	printInfo("  End:   %#x\n", info.End)
	printInfo("  Max:   %#x\n", info.Max)
	printInfo("  Size:  %d bytes usable\n", info.Size)

	return nil
}
