package sm2

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	b, err := IntToBytes(big.NewInt(0x0102), 4)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 1, 2}, b)

	b, err = IntToBytes(big.NewInt(0), 0)
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = IntToBytes(big.NewInt(256), 1)
	require.ErrorIs(t, err, ErrValueTooLarge)
	_, err = IntToBytes(big.NewInt(-1), 4)
	require.ErrorIs(t, err, ErrDomain)

	require.Equal(t, int64(0x0102), BytesToInt([]byte{0, 0, 1, 2}).Int64())
	require.Zero(t, BytesToInt(nil).Sign())

	require.Equal(t, []byte{0}, IntBytes(big.NewInt(0)))
	require.Equal(t, []byte{1, 0}, IntBytes(big.NewInt(256)))

	require.Equal(t, []byte{1, 2, 3}, ConcatBytes([]byte{1}, nil, []byte{2, 3}))
	require.Empty(t, ConcatBytes())
	require.Equal(t, "00ff", HexEncode([]byte{0, 0xff}))
}
