// Package layout defines the boundary-tag block format used by the heap.
//
// Every block, free or allocated, is bracketed by a header at its low
// address and a footer at its high end:
//
//	Offset  Size  Header field
//	0x00    4     Magic sentinel (little-endian)
//	0x04    4     Total block size in bytes, including header and footer
//	0x08    4     Flags. Bit 0 set => allocated
//
//	Offset  Size  Footer field
//	0x00    4     Magic sentinel
//	0x04    4     Offset of the owning header
//
// All block arithmetic in the module goes through this package so the
// pairing invariant (footer at header.Off + header.Size - FooterSize,
// pointing back at header.Off) is auditable in one place.
package layout

import "github.com/cjwert/kheap/internal/buf"

const (
	// Magic is the sentinel stamped into every header and footer. A tag
	// read that does not carry it did not land on a real block boundary.
	Magic uint32 = 0x51EA7B1C

	// PageSize is the allocation granularity of the managed range.
	// End-of-range adjustments and page-aligned payloads are multiples
	// of this.
	PageSize = 4096

	// HeaderSize and FooterSize are the on-memory sizes of the two tags.
	HeaderSize = 12
	FooterSize = 8

	// Overhead is the per-block metadata cost.
	Overhead = HeaderSize + FooterSize

	// MinBlockSize is the smallest region that can host a standalone
	// block: nothing but its own tags.
	MinBlockSize = Overhead
)

// Header field offsets within the tag.
const (
	hdrMagicOff = 0
	hdrSizeOff  = 4
	hdrFlagsOff = 8

	flagAllocated = uint32(1)
)

// Footer field offsets within the tag.
const (
	ftrMagicOff  = 0
	ftrHeaderOff = 4
)

// Header is a decoded view of a block header.
type Header struct {
	Off       int // offset of the header within the managed range
	Size      int // total block size, header and footer included
	Allocated bool
}

// FooterOff returns the offset of the footer paired with h.
func (h Header) FooterOff() int {
	return h.Off + h.Size - FooterSize
}

// End returns the offset one past the block's footer.
func (h Header) End() int {
	return h.Off + h.Size
}

// PayloadOff returns the offset of the block's payload.
func (h Header) PayloadOff() int {
	return h.Off + HeaderSize
}

// Footer is a decoded view of a block footer.
type Footer struct {
	Off    int // offset of the footer within the managed range
	Header int // offset of the owning header
}

// ReadHeader decodes the header at off. ok is false when the tag is out of
// bounds or its magic does not match.
func ReadHeader(b []byte, off int) (Header, bool) {
	tag, inBounds := buf.Slice(b, off, HeaderSize)
	if !inBounds {
		return Header{}, false
	}
	if buf.U32LE(tag[hdrMagicOff:]) != Magic {
		return Header{}, false
	}
	return Header{
		Off:       off,
		Size:      int(buf.U32LE(tag[hdrSizeOff:])),
		Allocated: buf.U32LE(tag[hdrFlagsOff:])&flagAllocated != 0,
	}, true
}

// ReadFooter decodes the footer at off. ok is false when the tag is out of
// bounds or its magic does not match.
func ReadFooter(b []byte, off int) (Footer, bool) {
	tag, inBounds := buf.Slice(b, off, FooterSize)
	if !inBounds {
		return Footer{}, false
	}
	if buf.U32LE(tag[ftrMagicOff:]) != Magic {
		return Footer{}, false
	}
	return Footer{
		Off:    off,
		Header: int(buf.U32LE(tag[ftrHeaderOff:])),
	}, true
}

// WriteHeader stamps a header at off.
func WriteHeader(b []byte, off, size int, allocated bool) {
	tag, inBounds := buf.Slice(b, off, HeaderSize)
	if !inBounds {
		return
	}
	var flags uint32
	if allocated {
		flags = flagAllocated
	}
	buf.PutU32LE(tag[hdrMagicOff:], Magic)
	buf.PutU32LE(tag[hdrSizeOff:], uint32(size))
	buf.PutU32LE(tag[hdrFlagsOff:], flags)
}

// WriteFooter stamps a footer at off pointing back at headerOff.
func WriteFooter(b []byte, off, headerOff int) {
	tag, inBounds := buf.Slice(b, off, FooterSize)
	if !inBounds {
		return
	}
	buf.PutU32LE(tag[ftrMagicOff:], Magic)
	buf.PutU32LE(tag[ftrHeaderOff:], uint32(headerOff))
}

// WriteBlock stamps both tags of a block spanning [off, off+size).
func WriteBlock(b []byte, off, size int, allocated bool) {
	WriteHeader(b, off, size, allocated)
	WriteFooter(b, off+size-FooterSize, off)
}

// SetAllocated rewrites only the allocated flag of the header at off.
func SetAllocated(b []byte, off int, allocated bool) {
	h, ok := ReadHeader(b, off)
	if !ok {
		return
	}
	WriteHeader(b, off, h.Size, allocated)
}

// PageAligned reports whether n is a multiple of PageSize.
func PageAligned(n int) bool {
	return n%PageSize == 0
}

// PageAlignUp rounds n up to the next PageSize multiple.
func PageAlignUp(n int) int {
	if PageAligned(n) {
		return n
	}
	return (n/PageSize + 1) * PageSize
}

// PageAlignDown rounds n down to the previous PageSize multiple.
func PageAlignDown(n int) int {
	return n - n%PageSize
}

// AlignPad returns the size of the leading free block that must be split
// off a block at off so that the payload of an allocation placed after the
// pad starts on a page boundary. It returns 0 when the payload is already
// aligned. A nonzero result is never smaller than MinBlockSize: when the
// natural gap is too small to host the leading block's own tags, the pad
// is pushed out by one further page.
func AlignPad(off int) int {
	payload := off + HeaderSize
	if PageAligned(payload) {
		return 0
	}
	pad := PageAlignUp(payload) - payload
	if pad < MinBlockSize {
		pad += PageSize
	}
	return pad
}
