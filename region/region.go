// Package region provides committed memory ranges for the heap to manage.
//
// A Region is the backing provider described by the heap's contract: a
// directly addressable byte range, committed up front, over which the heap
// adjusts only its logical end. On unix platforms the range is an anonymous
// private mapping so untouched pages cost nothing until written; elsewhere
// it degrades to ordinary Go-allocated memory.
package region

import (
	"fmt"

	"github.com/cjwert/kheap/internal/buf"
)

// Region is a committed, directly addressable memory range.
type Region struct {
	data  []byte
	unmap func() error
}

// Reserve commits a range of max bytes and returns it as a Region.
func Reserve(max int) (*Region, error) {
	if max <= 0 {
		return nil, fmt.Errorf("region: invalid size %d", max)
	}
	return reserve(max)
}

// Bytes returns the full committed range.
func (r *Region) Bytes() []byte { return r.data }

// Max returns the size of the committed range.
func (r *Region) Max() int { return len(r.data) }

// Decommit hints to the kernel that [off, off+n) will not be needed and
// its backing pages may be reclaimed. The range is shrunk inward to page
// boundaries; a range smaller than a page is a no-op. The memory stays
// mapped and readable either way, so callers never observe a fault.
func (r *Region) Decommit(off, n int) error {
	if !buf.Has(r.data, off, n) {
		return fmt.Errorf("region: decommit range [%d, %d) out of bounds", off, off+n)
	}
	start := off + (pageSize-off%pageSize)%pageSize
	end := (off + n) - (off+n)%pageSize
	if start >= end {
		return nil
	}
	return decommit(r.data[start:end])
}

// Close releases the mapping. The Region must not be used afterwards.
func (r *Region) Close() error {
	if r.unmap == nil {
		r.data = nil
		return nil
	}
	err := r.unmap()
	r.data = nil
	r.unmap = nil
	return err
}

const pageSize = 4096
