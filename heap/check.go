package heap

import (
	"fmt"

	"github.com/cjwert/kheap/internal/layout"
)

// Check walks every block in [start, end) and verifies the heap's
// structural invariants:
//
//   - each header's magic validates and its size covers at least its tags
//   - each footer pairs with its header at the declared distance
//   - blocks tile the range exactly, with no gaps or overlap
//   - the set of free blocks equals the free index, with no duplicates
//   - the free index is ordered by ascending size
//
// It returns nil when the heap is consistent, or an error naming the first
// violation found.
func (h *Heap) Check() error {
	freeBlocks := make(map[int]int) // header offset -> size

	off := h.start
	for off < h.end {
		hdr, ok := layout.ReadHeader(h.mem, off)
		if !ok {
			return fmt.Errorf("heap: check: no valid header at %#x", off)
		}
		if hdr.Size < layout.MinBlockSize {
			return fmt.Errorf("heap: check: block at %#x has size %d below minimum", off, hdr.Size)
		}
		if hdr.End() > h.end {
			return fmt.Errorf("heap: check: block at %#x ends at %#x past end %#x", off, hdr.End(), h.end)
		}
		ftr, ok := layout.ReadFooter(h.mem, hdr.FooterOff())
		if !ok {
			return fmt.Errorf("heap: check: no valid footer for block at %#x", off)
		}
		if ftr.Header != off {
			return fmt.Errorf("heap: check: footer at %#x names header %#x, want %#x", ftr.Off, ftr.Header, off)
		}
		if !hdr.Allocated {
			freeBlocks[off] = hdr.Size
		}
		off = hdr.End()
	}

	if n := h.index.Len(); n != len(freeBlocks) {
		return fmt.Errorf("heap: check: %d free blocks but %d index entries", len(freeBlocks), n)
	}

	seen := make(map[uint32]bool, h.index.Len())
	prevSize := 0
	for i := 0; i < h.index.Len(); i++ {
		ref := h.index.At(i)
		if seen[ref] {
			return fmt.Errorf("heap: check: duplicate index entry %#x", ref)
		}
		seen[ref] = true
		size, isFree := freeBlocks[int(ref)]
		if !isFree {
			return fmt.Errorf("heap: check: index entry %#x is not a free block", ref)
		}
		if size < prevSize {
			return fmt.Errorf("heap: check: index out of order at position %d (%d after %d)", i, size, prevSize)
		}
		prevSize = size
	}

	return nil
}
