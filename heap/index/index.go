// Package index provides the free-block index: an array of block offsets
// kept in ascending order by a caller-supplied comparator.
//
// The array's entries live in a caller-supplied byte slice rather than Go
// heap memory. The heap reserves the leading portion of its managed range
// for this storage, so the index occupies the same address space it
// describes, the way a kernel heap places its bookkeeping ahead of the
// data region.
package index

import (
	"errors"
	"sort"

	"github.com/cjwert/kheap/internal/buf"
)

// EntrySize is the storage cost of one index entry.
const EntrySize = 4

// ErrFull indicates the backing storage has no room for another entry.
var ErrFull = errors.New("index: backing storage full")

// Less reports whether the block referenced by a orders before the block
// referenced by b.
type Less func(a, b uint32) bool

// Array is a sorted array of uint32 block offsets over fixed backing
// storage. The zero value is not usable; construct with Place.
type Array struct {
	storage []byte
	less    Less
	n       int
}

// Place lays an empty Array over storage. Trailing bytes that do not fit a
// whole entry are ignored. The comparator supplies the ordering for Insert.
func Place(storage []byte, less Less) *Array {
	usable := len(storage) - len(storage)%EntrySize
	return &Array{storage: storage[:usable], less: less}
}

// Len returns the number of entries.
func (a *Array) Len() int { return a.n }

// Cap returns the maximum number of entries the backing storage can hold.
func (a *Array) Cap() int { return len(a.storage) / EntrySize }

// At returns the entry at position i. i must be in [0, Len()).
func (a *Array) At(i int) uint32 {
	if i < 0 || i >= a.n {
		panic("index: position out of range")
	}
	return buf.U32LE(a.storage[i*EntrySize:])
}

// Insert adds ref at its sorted position, keeping ascending order by the
// comparator. Entries that compare equal keep insertion order.
func (a *Array) Insert(ref uint32) error {
	if a.n >= a.Cap() {
		return ErrFull
	}
	pos := sort.Search(a.n, func(i int) bool {
		return a.less(ref, a.At(i))
	})
	copy(a.storage[(pos+1)*EntrySize:(a.n+1)*EntrySize], a.storage[pos*EntrySize:a.n*EntrySize])
	buf.PutU32LE(a.storage[pos*EntrySize:], ref)
	a.n++
	return nil
}

// Remove deletes the entry at position i. i must be in [0, Len()).
func (a *Array) Remove(i int) {
	if i < 0 || i >= a.n {
		panic("index: position out of range")
	}
	copy(a.storage[i*EntrySize:], a.storage[(i+1)*EntrySize:a.n*EntrySize])
	a.n--
}

// Find returns the position of the entry equal to ref, or -1 when absent.
// The scan is linear: the array is ordered by the comparator, not by
// offset, so equality cannot be bisected.
func (a *Array) Find(ref uint32) int {
	for i := 0; i < a.n; i++ {
		if a.At(i) == ref {
			return i
		}
	}
	return -1
}
