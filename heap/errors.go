package heap

import "errors"

var (
	// ErrNoMemory indicates that no hole could satisfy the request and the
	// heap cannot grow far enough within its maximum address.
	ErrNoMemory = errors.New("heap: out of memory")

	// ErrOutOfBounds indicates a resize that would push the logical end
	// past the maximum address.
	ErrOutOfBounds = errors.New("heap: size exceeds maximum address")

	// ErrBadRef indicates a reference whose boundary tags do not validate:
	// a foreign pointer, a corrupted block, or a double free.
	ErrBadRef = errors.New("heap: bad block reference")

	// ErrIndexCorrupt indicates an internal-consistency violation: a block
	// known to be free was not found in the free index.
	ErrIndexCorrupt = errors.New("heap: free index inconsistent")

	// ErrTooSmall indicates a region too small to hold the free index
	// reservation plus at least one minimal block.
	ErrTooSmall = errors.New("heap: region too small")

	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("heap: requested size must be positive")
)
