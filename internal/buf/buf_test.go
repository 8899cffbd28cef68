package buf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_U32LE_RoundTrip(t *testing.T) {
	b := make([]byte, 8)
	PutU32LE(b[4:], 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), U32LE(b[4:]))
	require.Equal(t, uint32(0), U32LE(b[:0]))
	require.Equal(t, uint32(0), U32LE(b[6:])) // too short

	short := make([]byte, 3)
	PutU32LE(short, 1) // too short: must not write
	require.Equal(t, []byte{0, 0, 0}, short)
}

func Test_Slice_Bounds(t *testing.T) {
	b := make([]byte, 10)

	s, ok := Slice(b, 2, 4)
	require.True(t, ok)
	require.Len(t, s, 4)

	_, ok = Slice(b, 8, 4)
	require.False(t, ok)
	_, ok = Slice(b, -1, 2)
	require.False(t, ok)
	_, ok = Slice(b, 2, -1)
	require.False(t, ok)

	require.True(t, Has(b, 0, 10))
	require.False(t, Has(b, 0, 11))
}

func Test_AddOverflowSafe(t *testing.T) {
	_, ok := AddOverflowSafe(1<<62, 1<<62)
	require.False(t, ok)

	v, ok := AddOverflowSafe(40, 2)
	require.True(t, ok)
	require.Equal(t, 42, v)
}
