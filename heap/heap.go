package heap

import (
	"fmt"
	"os"

	"github.com/cjwert/kheap/heap/index"
	"github.com/cjwert/kheap/internal/layout"
)

// Runtime trace flag for allocation logging - controlled by KHEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("KHEAP_LOG_ALLOC") != ""

// Ref is a payload reference: the offset of an allocated block's payload
// within the managed range. The zero Ref is the null reference.
type Ref = uint32

// Config carries heap construction parameters.
type Config struct {
	// IndexCapacity is the number of entries the free index can hold. Its
	// backing storage (4 bytes per entry) is reserved at the front of the
	// managed range, and the usable range starts at the next page boundary
	// past it.
	IndexCapacity int

	// MinSize is the usable length the heap will not contract below when a
	// free reaches the logical end. Zero means the initial usable length.
	// Rounded up to a page multiple.
	MinSize int
}

// DefaultConfig reserves one page of index storage: 1024 entries.
var DefaultConfig = Config{IndexCapacity: 1024}

// Stats holds heap operation counters.
type Stats struct {
	AllocCalls     int
	FreeCalls      int
	GrowCalls      int
	ShrinkCalls    int
	Splits         int
	CoalesceLeft   int
	CoalesceRight  int
	BytesAllocated int64
	BytesFreed     int64
}

// Heap is a boundary-tag allocator over a raw memory range.
//
// The managed range is addressed by offsets: the free index backing
// storage occupies [0, reservation), usable blocks live in [start, end),
// and end may move between start and max. All three are page multiples.
type Heap struct {
	mem   []byte
	index *index.Array

	start int // first usable byte, past the index reservation
	end   int // current logical end
	max   int // hard ceiling, len(mem) rounded down to a page
	min   int // usable length floor for contraction on free

	stats Stats
}

// New initializes a heap over mem with the logical end at initial bytes.
// The leading portion of mem is reserved for the free index; the usable
// range starts at the next page boundary past the reservation and holds a
// single free block spanning it entirely. Misaligned initial or mem
// lengths are rounded down to page multiples; the fractional page is
// wasted, not an error.
func New(mem []byte, initial int, cfg *Config) (*Heap, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	if cfg.IndexCapacity <= 0 {
		return nil, fmt.Errorf("heap: invalid index capacity %d", cfg.IndexCapacity)
	}

	max := layout.PageAlignDown(len(mem))
	end := layout.PageAlignDown(initial)
	if end > max {
		WARN("initial end %d exceeds the %d byte ceiling, clamping\n", initial, max)
		end = max
	}

	reservation := cfg.IndexCapacity * index.EntrySize
	start := layout.PageAlignUp(reservation)
	if start+layout.MinBlockSize > end {
		return nil, fmt.Errorf("%w: %d bytes usable after %d-byte index reservation",
			ErrTooSmall, end-start, reservation)
	}

	min := end - start
	if cfg.MinSize > 0 {
		min = layout.PageAlignUp(cfg.MinSize)
	}

	h := &Heap{
		mem:   mem[:max],
		start: start,
		end:   end,
		max:   max,
		min:   min,
	}
	h.index = index.Place(mem[:reservation], h.sizeLess)

	if err := h.addHole(start, end); err != nil {
		return nil, err
	}
	return h, nil
}

// Start returns the offset of the first usable byte.
func (h *Heap) Start() int { return h.start }

// End returns the current logical end offset.
func (h *Heap) End() int { return h.end }

// Max returns the hard ceiling offset.
func (h *Heap) Max() int { return h.max }

// Size returns the current usable length, end minus start.
func (h *Heap) Size() int { return h.end - h.start }

// Stats returns a copy of the operation counters.
func (h *Heap) Stats() Stats { return h.stats }

// sizeLess orders free index entries by ascending block size.
func (h *Heap) sizeLess(a, b uint32) bool {
	ha, _ := layout.ReadHeader(h.mem, int(a))
	hb, _ := layout.ReadHeader(h.mem, int(b))
	return ha.Size < hb.Size
}

// addHole stamps a free block spanning [start, end) and indexes it.
func (h *Heap) addHole(start, end int) error {
	layout.WriteBlock(h.mem, start, end-start, false)
	return h.indexInsert(uint32(start))
}

// indexInsert inserts a free block reference, surfacing index exhaustion
// as an error rather than dropping the block.
func (h *Heap) indexInsert(ref uint32) error {
	if err := h.index.Insert(ref); err != nil {
		return fmt.Errorf("heap: index free block %#x: %w", ref, err)
	}
	return nil
}
