// Package heap implements a boundary-tag heap allocator over a raw,
// caller-supplied memory range.
//
// # Overview
//
// The heap manages a contiguous byte range handed to it by a backing
// provider (see the region package) and carves it into blocks on request.
// Every block, free or allocated, is bracketed by a header and footer
// (see internal/layout) so that adjacency can be resolved with nothing but
// offset arithmetic. Free blocks are tracked in an index sorted by size
// (see heap/index), making the hole search a first-fit scan over a
// size-ordered list, which is best-fit for unaligned requests.
//
// # Operations
//
//   - New(mem, initial, cfg): initialize a heap over a raw range
//   - Alloc(size, pageAlign): allocate, growing the logical end on demand
//   - Free(ref): release, coalescing with free neighbors and contracting
//     the logical end when the tail becomes free
//   - Resize(newSize): adjust the logical end within the committed range
//   - Check(): verify boundary-tag and free-index invariants
//
// # Growth and contraction
//
// The committed range [0, max) never changes; Alloc and Free only move the
// logical end between the usable start and max. The provider is assumed to
// have committed the whole range up front, so growth is purely a boundary
// adjustment and shrink-side page reclamation is the provider's business.
//
// # Thread safety
//
// A Heap is not safe for concurrent use. Callers must serialize all
// operations externally; no operation blocks or suspends.
package heap
