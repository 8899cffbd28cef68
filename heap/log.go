package heap

// logging functions

import (
	"github.com/intuitivelabs/slog"

	"github.com/cjwert/kheap/internal/layout"
)

const name = "kheap"

// internal constants
const (
	pWARN = "WARNING: " + name + ": "
	pERR  = "ERROR: " + name + ": "
)

// Log is the generic log
var Log slog.Log = slog.New(slog.LWARN, slog.LlocInfoS, slog.LStdErr)

// WARN is a shorthand for logging a warning message.
func WARN(f string, a ...interface{}) {
	Log.LLog(slog.LWARN, 1, pWARN, f, a...)
}

// ERR is a shorthand for logging an error message.
func ERR(f string, a ...interface{}) {
	Log.LLog(slog.LERR, 1, pERR, f, a...)
}

// DumpStatus writes the heap geometry, counters, and a block-by-block walk
// of the managed range to the log at debug level.
func (h *Heap) DumpStatus() {
	const lev = slog.LDBG
	const prefix = "kheap_status "

	if !Log.L(lev) {
		return
	}
	Log.LLog(lev, 0, prefix, "range start=%#x end=%#x max=%#x\n", h.start, h.end, h.max)
	Log.LLog(lev, 0, prefix, "allocs=%d frees=%d grows=%d shrinks=%d\n",
		h.stats.AllocCalls, h.stats.FreeCalls, h.stats.GrowCalls, h.stats.ShrinkCalls)
	Log.LLog(lev, 0, prefix, "bytes allocated=%d freed=%d splits=%d coalesced=%d/%d\n",
		h.stats.BytesAllocated, h.stats.BytesFreed, h.stats.Splits,
		h.stats.CoalesceLeft, h.stats.CoalesceRight)

	i := 0
	for off := h.start; off < h.end; i++ {
		hdr, ok := layout.ReadHeader(h.mem, off)
		if !ok {
			ERR("status walk stopped: no valid header at %#x\n", off)
			return
		}
		state := "free"
		if hdr.Allocated {
			state = "used"
		}
		Log.LLog(lev, 0, prefix, "  %3d. off=%#x size=%d %s\n", i, off, hdr.Size, state)
		off = hdr.End()
	}
	Log.LLog(lev, 0, prefix, "%d blocks, %d index entries\n", i, h.index.Len())
}
