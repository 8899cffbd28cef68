package heap

import (
	"fmt"

	"github.com/cjwert/kheap/internal/layout"
)

// Resize grows or contracts the logical end so that the usable length
// becomes newSize, rounded up to a page multiple. Growth past the maximum
// address fails with ErrOutOfBounds and leaves the heap unmodified.
//
// Resize adjusts only the boundary. It does not touch the free index or
// any block whose tags now sit across the moved end; callers that resize
// over live metadata reconcile it themselves, the way Alloc does after a
// grow. Backing pages for the newly exposed range are assumed committed
// by the region provider, and reclamation of pages beyond a lowered end
// is likewise the provider's concern.
func (h *Heap) Resize(newSize int) error {
	newSize = layout.PageAlignUp(newSize)
	current := h.end - h.start

	switch {
	case newSize == current:
		return nil
	case newSize > current:
		if h.start+newSize > h.max {
			return fmt.Errorf("%w: %d > %d", ErrOutOfBounds, h.start+newSize, h.max)
		}
		h.stats.GrowCalls++
	default:
		h.stats.ShrinkCalls++
	}

	h.end = h.start + newSize
	return nil
}
