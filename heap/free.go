package heap

import (
	"fmt"
	"os"

	"github.com/cjwert/kheap/internal/layout"
)

// Free releases the block referenced by ref. The null reference is a
// no-op. A reference whose boundary tags do not validate, whether from a
// foreign pointer, corrupted metadata, or a double free, fails with
// ErrBadRef and leaves the heap untouched.
//
// Adjacent free blocks are coalesced on both sides, and when the merged
// block ends exactly at the logical end the heap contracts, returning the
// tail to the unused range.
func (h *Heap) Free(ref Ref) error {
	if ref == 0 {
		return nil
	}
	h.stats.FreeCalls++

	off := int(ref) - layout.HeaderSize
	hdr, ok := layout.ReadHeader(h.mem, off)
	if !ok || off < h.start || hdr.End() > h.end {
		return fmt.Errorf("%w: no block at %#x", ErrBadRef, off)
	}
	ftr, ok := layout.ReadFooter(h.mem, hdr.FooterOff())
	if !ok || ftr.Header != off {
		return fmt.Errorf("%w: footer mismatch for block at %#x", ErrBadRef, off)
	}
	if !hdr.Allocated {
		return fmt.Errorf("%w: block at %#x is already free", ErrBadRef, off)
	}
	h.stats.BytesFreed += int64(hdr.Size)

	size := hdr.Size
	layout.SetAllocated(h.mem, off, false)

	// Left coalesce: the footer immediately below this header names the
	// left neighbor. Merging changes that block's size, which is its sort
	// key, so it leaves the index here and the merged block is reinserted
	// at the end.
	if off-layout.FooterSize >= h.start {
		if lf, lok := layout.ReadFooter(h.mem, off-layout.FooterSize); lok {
			lh, lhok := layout.ReadHeader(h.mem, lf.Header)
			if lhok && !lh.Allocated && lh.End() == off {
				pos := h.index.Find(uint32(lh.Off))
				if pos < 0 {
					return fmt.Errorf("%w: free block at %#x missing from index", ErrIndexCorrupt, lh.Off)
				}
				h.index.Remove(pos)
				h.stats.CoalesceLeft++
				off = lh.Off
				size += lh.Size
				layout.WriteHeader(h.mem, off, size, false)
				layout.WriteFooter(h.mem, off+size-layout.FooterSize, off)
			}
		}
	}

	// Right coalesce: the header immediately past this block's footer
	// names the right neighbor.
	if rightOff := off + size; rightOff < h.end {
		rh, rok := layout.ReadHeader(h.mem, rightOff)
		if rok && !rh.Allocated && rh.End() <= h.end {
			pos := h.index.Find(uint32(rightOff))
			if pos < 0 {
				return fmt.Errorf("%w: free block at %#x missing from index", ErrIndexCorrupt, rightOff)
			}
			h.index.Remove(pos)
			h.stats.CoalesceRight++
			size += rh.Size
			layout.WriteHeader(h.mem, off, size, false)
			layout.WriteFooter(h.mem, off+size-layout.FooterSize, off)
		}
	}

	// Contract the heap when the merged block reaches the logical end.
	// The new end is page-rounded upward, clamped to the configured usable
	// floor, and never strands a fragment too small to host its own tags.
	if off+size == h.end {
		newEnd := layout.PageAlignUp(off)
		if newEnd < h.start+h.min {
			newEnd = h.start + h.min
		}
		if rem := newEnd - off; rem > 0 && rem < layout.MinBlockSize {
			newEnd += layout.PageSize
		}
		if newEnd < h.end {
			if logAlloc {
				fmt.Fprintf(os.Stderr, "[kheap] contract: end %#x -> %#x\n", h.end, newEnd)
			}
			if err := h.Resize(newEnd - h.start); err != nil {
				return err
			}
			size = newEnd - off
		}
	}

	// A fully reclaimed block has no tags left to index.
	if size == 0 {
		return nil
	}
	layout.WriteBlock(h.mem, off, size, false)
	return h.indexInsert(uint32(off))
}
