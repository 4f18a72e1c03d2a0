package sm2

import (
	"bytes"
	"encoding/hex"
	"hash"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var _ hash.Hash = (*SM3)(nil)

func TestSM3KnownAnswers(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"empty", "", "1ab21d8355cfa17f8e61194831e81a8f22bec8c728fefb747ed035eb5082aa2b"},
		{"abc", "abc", "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0"},
		{"abcd x16", strings.Repeat("abcd", 16), "debe9ff92275b8a138604889c18e5a4d6fdb70e5387e5765293dcba39c0c5732"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := SM3Hash([]byte(tt.msg))
			require.NoError(t, err)
			require.Equal(t, tt.want, hex.EncodeToString(sum))

			h := NewSM3()
			h.Write([]byte(tt.msg))
			require.Equal(t, tt.want, hex.EncodeToString(h.Sum(nil)))
		})
	}
}

func TestSM3Identity(t *testing.T) {
	// e = SM3(ZA || M) of the GB/T 32918 signature example
	za, err := hex.DecodeString(katZA)
	require.NoError(t, err)
	sum, err := SM3Hash(append(za, katMsg...))
	require.NoError(t, err)
	require.Equal(t, strings.ToLower(katE), hex.EncodeToString(sum))
}

func TestSM3Streaming(t *testing.T) {
	msg := make([]byte, 3*SM3BlockSize+17)
	for i := range msg {
		msg[i] = byte(i * 7)
	}
	// lengths around the padding boundary
	for _, n := range []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 128, len(msg)} {
		want, err := SM3Hash(msg[:n])
		require.NoError(t, err)

		for _, chunk := range []int{1, 3, 63, 64, 100} {
			h := NewSM3()
			for off := 0; off < n; off += chunk {
				end := min(off+chunk, n)
				w, err := h.Write(msg[off:end])
				require.NoError(t, err)
				require.Equal(t, end-off, w)
			}
			require.Equal(t, want, h.Sum(nil), "n=%d chunk=%d", n, chunk)
		}
	}
}

func TestSM3State(t *testing.T) {
	h := NewSM3()
	require.Equal(t, SM3Size, h.Size())
	require.Equal(t, SM3BlockSize, h.BlockSize())

	h.Write([]byte("ab"))
	mid := h.Sum(nil)
	// Sum does not change the state
	require.Equal(t, mid, h.Sum(nil))
	h.Write([]byte("c"))
	require.Equal(t, "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0", hex.EncodeToString(h.Sum(nil)))

	prefix := []byte("prefix")
	out := h.Sum(prefix)
	require.True(t, bytes.HasPrefix(out, prefix))
	require.Len(t, out, len(prefix)+SM3Size)

	h.Reset()
	sum, err := h.Checksum()
	require.NoError(t, err)
	require.Equal(t, "1ab21d8355cfa17f8e61194831e81a8f22bec8c728fefb747ed035eb5082aa2b", hex.EncodeToString(sum[:]))
}

func TestSM3LengthLimit(t *testing.T) {
	h := NewSM3()
	h.len = sm3MaxBytes - 1

	n, err := h.Write([]byte{1})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = h.Write([]byte{2})
	require.ErrorIs(t, err, ErrInputTooLarge)
	require.Zero(t, n)

	// the failure sticks until Reset
	_, err = h.Write(nil)
	require.ErrorIs(t, err, ErrInputTooLarge)
	_, err = h.Checksum()
	require.ErrorIs(t, err, ErrInputTooLarge)
	require.Panics(t, func() { h.Sum(nil) })

	h.Reset()
	_, err = h.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0", hex.EncodeToString(h.Sum(nil)))
}
