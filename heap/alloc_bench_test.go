package heap

import (
	"testing"

	"github.com/cjwert/kheap/internal/layout"
)

func BenchmarkAllocFree(b *testing.B) {
	mem := make([]byte, 64*layout.PageSize)
	h, err := New(mem, 64*layout.PageSize, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _, allocErr := h.Alloc(128, false)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := h.Free(ref); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

func BenchmarkAllocFree_PageAligned(b *testing.B) {
	mem := make([]byte, 64*layout.PageSize)
	h, err := New(mem, 64*layout.PageSize, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _, allocErr := h.Alloc(1024, true)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		if freeErr := h.Free(ref); freeErr != nil {
			b.Fatal(freeErr)
		}
	}
}

func BenchmarkChurn(b *testing.B) {
	mem := make([]byte, 256*layout.PageSize)
	h, err := New(mem, 256*layout.PageSize, nil)
	if err != nil {
		b.Fatal(err)
	}

	const window = 64
	refs := make([]Ref, 0, window)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _, allocErr := h.Alloc(64+(i%7)*96, false)
		if allocErr != nil {
			b.Fatal(allocErr)
		}
		refs = append(refs, ref)
		if len(refs) == window {
			for _, r := range refs {
				if freeErr := h.Free(r); freeErr != nil {
					b.Fatal(freeErr)
				}
			}
			refs = refs[:0]
		}
	}
}
