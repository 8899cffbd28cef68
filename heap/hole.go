package heap

import (
	"fmt"

	"github.com/cjwert/kheap/internal/layout"
)

// findSmallestHole returns the free-index position of the smallest free
// block that can satisfy a total request of need bytes (header and footer
// included), or -1 when none can. An index entry without a valid header
// is an internal-consistency violation and fails with ErrIndexCorrupt.
//
// The index is ordered by ascending size, so the first block that fits is
// the smallest sufficient one. With pageAlign set, each candidate is
// charged the leading pad that would make the payload start page-aligned,
// so the result is smallest-sufficient-after-padding rather than globally
// optimal.
func (h *Heap) findSmallestHole(need int, pageAlign bool) (int, error) {
	for i := 0; i < h.index.Len(); i++ {
		off := int(h.index.At(i))
		hdr, ok := layout.ReadHeader(h.mem, off)
		if !ok {
			return -1, fmt.Errorf("%w: index entry %#x has no valid header", ErrIndexCorrupt, off)
		}
		pad := 0
		if pageAlign {
			pad = layout.AlignPad(off)
		}
		if hdr.Size-pad >= need {
			return i, nil
		}
	}
	return -1, nil
}
