//go:build unix

package region

import (
	"golang.org/x/sys/unix"
)

// reserve maps an anonymous private range. Pages are committed lazily by
// the kernel on first write.
func reserve(max int) (*Region, error) {
	data, err := unix.Mmap(-1, 0, max,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &Region{
		data:  data,
		unmap: func() error { return unix.Munmap(data) },
	}, nil
}

// decommit releases the backing pages of b while keeping the mapping
// intact. b must be page-aligned, which Decommit guarantees.
func decommit(b []byte) error {
	return unix.Madvise(b, unix.MADV_DONTNEED)
}
