package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Reserve_CommitsWritableRange(t *testing.T) {
	r, err := Reserve(8 * pageSize)
	require.NoError(t, err)
	defer r.Close()

	data := r.Bytes()
	require.Len(t, data, 8*pageSize)
	require.Equal(t, 8*pageSize, r.Max())

	// The whole range must be writable and readable.
	data[0] = 0x11
	data[len(data)-1] = 0x22
	require.Equal(t, byte(0x11), data[0])
	require.Equal(t, byte(0x22), data[len(data)-1])
}

func Test_Reserve_InvalidSize(t *testing.T) {
	_, err := Reserve(0)
	require.Error(t, err)
	_, err = Reserve(-1)
	require.Error(t, err)
}

func Test_Decommit(t *testing.T) {
	r, err := Reserve(8 * pageSize)
	require.NoError(t, err)
	defer r.Close()

	data := r.Bytes()
	for i := range data {
		data[i] = 0xFF
	}

	// Whole pages may be reclaimed; the range stays mapped and readable.
	require.NoError(t, r.Decommit(pageSize, 2*pageSize))
	_ = data[pageSize]

	// Sub-page ranges shrink inward to nothing: a no-op.
	require.NoError(t, r.Decommit(100, 200))

	// Out-of-bounds ranges are rejected.
	require.Error(t, r.Decommit(-1, pageSize))
	require.Error(t, r.Decommit(0, len(data)+1))
}

func Test_Close_Idempotent(t *testing.T) {
	r, err := Reserve(pageSize)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	require.Nil(t, r.Bytes())
}
