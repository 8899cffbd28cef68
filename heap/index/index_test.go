package index

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// numericLess orders entries by their own value, which is enough to
// exercise the array without block headers behind the references.
func numericLess(a, b uint32) bool { return a < b }

func Test_Place_TruncatesPartialEntry(t *testing.T) {
	a := Place(make([]byte, 4*EntrySize+3), numericLess)
	require.Equal(t, 4, a.Cap())
	require.Equal(t, 0, a.Len())
}

func Test_Insert_KeepsAscendingOrder(t *testing.T) {
	a := Place(make([]byte, 64*EntrySize), numericLess)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 64; i++ {
		require.NoError(t, a.Insert(uint32(rng.Intn(1000))))
	}

	require.Equal(t, 64, a.Len())
	for i := 1; i < a.Len(); i++ {
		require.LessOrEqual(t, a.At(i-1), a.At(i), "order violated at %d", i)
	}
}

func Test_Insert_Full(t *testing.T) {
	a := Place(make([]byte, 2*EntrySize), numericLess)
	require.NoError(t, a.Insert(10))
	require.NoError(t, a.Insert(20))
	require.ErrorIs(t, a.Insert(30), ErrFull)
	require.Equal(t, 2, a.Len())
}

func Test_Remove_ShiftsEntries(t *testing.T) {
	a := Place(make([]byte, 8*EntrySize), numericLess)
	for _, v := range []uint32{40, 10, 30, 20} {
		require.NoError(t, a.Insert(v))
	}

	a.Remove(1) // 20
	require.Equal(t, 3, a.Len())
	require.Equal(t, uint32(10), a.At(0))
	require.Equal(t, uint32(30), a.At(1))
	require.Equal(t, uint32(40), a.At(2))

	a.Remove(2) // 40
	require.Equal(t, 2, a.Len())
	require.Equal(t, uint32(30), a.At(1))
}

func Test_Find_ByReferenceEquality(t *testing.T) {
	// Comparator that sees every entry as equal-sized: Find must still
	// locate entries because it matches by reference, not by order.
	equalLess := func(a, b uint32) bool { return false }
	a := Place(make([]byte, 8*EntrySize), equalLess)

	for _, v := range []uint32{7, 3, 9} {
		require.NoError(t, a.Insert(v))
	}
	require.GreaterOrEqual(t, a.Find(3), 0)
	require.GreaterOrEqual(t, a.Find(9), 0)
	require.Equal(t, -1, a.Find(4))
}

func Test_At_OutOfRangePanics(t *testing.T) {
	a := Place(make([]byte, 4*EntrySize), numericLess)
	require.NoError(t, a.Insert(1))
	require.Panics(t, func() { a.At(1) })
	require.Panics(t, func() { a.Remove(-1) })
}
