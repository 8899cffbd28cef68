package heap

import (
	"fmt"
	"os"

	"github.com/cjwert/kheap/heap/index"
	"github.com/cjwert/kheap/internal/layout"
)

// Alloc carves a block with a payload of size bytes out of the heap and
// returns its reference together with the payload slice. With pageAlign
// set, the payload start address is a multiple of the page size.
//
// When no hole fits, the heap grows by the full request (page-rounded) and
// the search retries; each retry strictly lengthens the heap, so the loop
// terminates either with a block or with ErrNoMemory once the maximum
// address blocks further growth. Every failure path leaves the heap
// exactly as it was before the call.
func (h *Heap) Alloc(size int, pageAlign bool) (Ref, []byte, error) {
	if size <= 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	h.stats.AllocCalls++

	need := size + layout.Overhead

	for {
		pos, err := h.findSmallestHole(need, pageAlign)
		if err != nil {
			return 0, nil, err
		}
		if pos >= 0 {
			return h.carve(pos, size, need, pageAlign)
		}
		if err := h.grow(need); err != nil {
			return 0, nil, err
		}
	}
}

// grow lengthens the heap by need bytes and repairs block metadata over
// the newly exposed range. The rightmost free block is extended over it
// when its footer sat exactly at the old end; otherwise the range becomes
// a hole of its own, which takes a spare index slot. Both conditions are
// settled before the end moves so a failure never leaves unindexed memory
// inside the heap.
func (h *Heap) grow(need int) error {
	oldEnd := h.end

	rightmost := -1
	rightmostOff := -1
	for i := 0; i < h.index.Len(); i++ {
		if off := int(h.index.At(i)); off > rightmostOff {
			rightmostOff = off
			rightmost = i
		}
	}

	extend := false
	var hdr layout.Header
	if rightmost >= 0 {
		var ok bool
		hdr, ok = layout.ReadHeader(h.mem, rightmostOff)
		if !ok {
			return fmt.Errorf("%w: index entry %#x has no valid header", ErrIndexCorrupt, rightmostOff)
		}
		extend = hdr.End() == oldEnd
	}
	if !extend && h.index.Len() >= h.index.Cap() {
		return fmt.Errorf("heap: grow needs an index slot for the new hole: %w", index.ErrFull)
	}

	if err := h.Resize(h.Size() + need); err != nil {
		return fmt.Errorf("%w: need %d bytes, %d growable: %w", ErrNoMemory, need, h.max-oldEnd, err)
	}
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[kheap] grow: need=%d end %#x -> %#x\n", need, oldEnd, h.end)
	}

	if extend {
		// Size changes, so the entry's sort position does too:
		// remove and reinsert rather than mutate in place.
		h.index.Remove(rightmost)
		layout.WriteBlock(h.mem, rightmostOff, hdr.Size+(h.end-oldEnd), false)
		return h.indexInsert(uint32(rightmostOff))
	}
	return h.addHole(oldEnd, h.end)
}

// carve allocates out of the free block at index position pos. need is the
// total block size for a payload of size bytes.
func (h *Heap) carve(pos, size, need int, pageAlign bool) (Ref, []byte, error) {
	off := int(h.index.At(pos))
	hdr, ok := layout.ReadHeader(h.mem, off)
	if !ok {
		return 0, nil, fmt.Errorf("%w: index entry %#x has no valid header", ErrIndexCorrupt, off)
	}
	blockSize := hdr.Size

	// A leading fragment lands the payload on a page boundary. Its size
	// differs from the chosen block's, so it goes back in via insert, not
	// in place.
	pad := 0
	if pageAlign && !layout.PageAligned(off+layout.HeaderSize) {
		pad = layout.AlignPad(off)
	}

	// A remainder too small to host its own tags is absorbed into the
	// allocation instead of becoming an unusable sliver. The decision is
	// made on the block left after the alignment split.
	rest := blockSize - pad
	if rest-need < layout.MinBlockSize {
		size += rest - need
		need = rest
	}
	leftover := rest - need

	// Settle the index budget before stamping any tag: the chosen block's
	// removal frees one slot, and each fragment takes one.
	inserts := 0
	if pad > 0 {
		inserts++
	}
	if leftover > 0 {
		inserts++
	}
	if slots := h.index.Cap() - h.index.Len() + 1; inserts > slots {
		return 0, nil, fmt.Errorf("heap: alloc needs %d index slots, %d free: %w",
			inserts, slots, index.ErrFull)
	}

	h.index.Remove(pos)

	if pad > 0 {
		layout.WriteBlock(h.mem, off, pad, false)
		if err := h.indexInsert(uint32(off)); err != nil {
			return 0, nil, err
		}
		off += pad
	}

	layout.WriteBlock(h.mem, off, need, true)
	h.stats.BytesAllocated += int64(need)

	if leftover > 0 {
		h.stats.Splits++
		layout.WriteBlock(h.mem, off+need, leftover, false)
		if err := h.indexInsert(uint32(off + need)); err != nil {
			return 0, nil, err
		}
	}

	payload := h.mem[off+layout.HeaderSize : off+layout.HeaderSize+size]
	return Ref(off + layout.HeaderSize), payload, nil
}
