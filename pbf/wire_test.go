package pbf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZigZag(t *testing.T) {
	tests := []struct {
		n int64
		u uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2147483647, 4294967294},
		{-2147483648, 4294967295},
		{math.MaxInt64, math.MaxUint64 - 1},
		{math.MinInt64, math.MaxUint64},
	}

	for _, tt := range tests {
		require.Equal(t, tt.u, EncodeZigZag(tt.n), "encode %d", tt.n)
		require.Equal(t, tt.n, DecodeZigZag(tt.u), "decode %d", tt.u)
	}
}

func TestVarintSize(t *testing.T) {
	require.Equal(t, 1, VarintSize(0))
	require.Equal(t, 1, VarintSize(127))
	require.Equal(t, 2, VarintSize(128))
	require.Equal(t, 2, VarintSize(16383))
	require.Equal(t, 3, VarintSize(16384))
	require.Equal(t, 10, VarintSize(math.MaxUint64))
}

func TestWireType_String(t *testing.T) {
	require.Equal(t, "varint", WireVarint.String())
	require.Equal(t, "bytes", WireBytes.String())
	require.Equal(t, "wire(7)", WireType(7).String())
}
