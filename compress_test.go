package sm2

import (
	"crypto/elliptic"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

func TestModSqrtSmallPrimes(t *testing.T) {
	// covers p ≡ 3, 7 (mod 8), p ≡ 5 (mod 8) and p ≡ 1 (mod 8)
	primes := []int64{3, 7, 11, 19, 23, 13, 29, 37, 53, 17, 41, 73, 89, 97, 113}
	for _, pv := range primes {
		p := big.NewInt(pv)
		for a := int64(0); a < pv; a++ {
			alpha := big.NewInt(a)
			y, err := ModSqrt(alpha, p, nil)
			if a == 0 || big.Jacobi(alpha, p) == 1 {
				require.NoError(t, err, "p=%d a=%d", pv, a)
				require.Equal(t, a, ModSqr(y, p).Int64(), "p=%d a=%d", pv, a)
				require.True(t, inField(y, p))
			} else {
				require.ErrorIs(t, err, ErrNoSquareRoot, "p=%d a=%d", pv, a)
			}
		}
	}
}

func TestModSqrtLargePrimes(t *testing.T) {
	p25519 := new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), big.NewInt(19))
	tests := []struct {
		name string
		p    *big.Int
		mod8 int64
	}{
		{"sample curve", DefaultCurve().P(), 3},
		{"p224", elliptic.P224().Params().P, 1},
		{"p25519", p25519, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.mod8, new(big.Int).Mod(tt.p, big.NewInt(8)).Int64())
			rnd := NewDRBG([]byte(tt.name))
			for i := 0; i < 8; i++ {
				x := randScalar(t, tt.p)
				alpha := ModSqr(x, tt.p)
				y, err := ModSqrt(alpha, tt.p, rnd)
				require.NoError(t, err)
				require.Equal(t, 0, ModSqr(y, tt.p).Cmp(alpha))

				// a residue times a non-residue is a non-residue
				nr := big.NewInt(2)
				for big.Jacobi(nr, tt.p) != -1 {
					nr.Add(nr, bigOne)
				}
				if alpha.Sign() != 0 {
					_, err = ModSqrt(ModMul(alpha, nr, tt.p), tt.p, rnd)
					require.ErrorIs(t, err, ErrNoSquareRoot)
				}
			}
		})
	}
}

func TestModSqrtErrors(t *testing.T) {
	_, err := ModSqrt(big.NewInt(4), big.NewInt(10), nil)
	require.ErrorIs(t, err, ErrDomain)
	_, err = ModSqrt(big.NewInt(1), big.NewInt(2), nil)
	require.ErrorIs(t, err, ErrDomain)

	p := elliptic.P224().Params().P
	_, err = ModSqrt(big.NewInt(4), p, failingSource{})
	require.ErrorIs(t, err, errSourceBroken)
}

func TestLucasRetryExhausted(t *testing.T) {
	// with X = 0 and g = 4 mod 17, V = 0 and U = 1, so every draw is
	// inconclusive
	p := big.NewInt(17)
	g := big.NewInt(4)
	U, V := lucasSequence(big.NewInt(0), g, big.NewInt(9), p)
	require.Equal(t, int64(1), U.Int64())
	require.Equal(t, int64(0), V.Int64())

	_, err := lucasSqrt(g, p, fixedSource{big.NewInt(0)})
	require.ErrorIs(t, err, ErrRetryExhausted)
}

func TestLucasSequence(t *testing.T) {
	// P = 1, Q = -1 gives the Fibonacci and Lucas numbers
	p := big.NewInt(1000003)
	q := ModNeg(bigOne, p)
	fib := []int64{1, 1, 2, 3, 5, 8, 13, 21, 34, 55}
	luc := []int64{1, 3, 4, 7, 11, 18, 29, 47, 76, 123}
	for k := 1; k < len(fib); k++ {
		U, V := lucasSequence(bigOne, q, big.NewInt(int64(k)), p)
		require.Equal(t, fib[k-1], U.Int64(), "U_%d", k)
		require.Equal(t, luc[k-1], V.Int64(), "V_%d", k)
	}
}

func TestDecompress(t *testing.T) {
	c := DefaultCurve()
	g := c.Generator()

	y, err := c.Decompress(g.X(), uint(g.Y().Bit(0)))
	require.NoError(t, err)
	require.Equal(t, 0, y.Cmp(g.Y()))

	y, err = c.Decompress(g.X(), uint(g.Y().Bit(0)^1))
	require.NoError(t, err)
	require.Equal(t, 0, y.Cmp(c.Negate(g).Y()))

	for i := 0; i < 8; i++ {
		p := c.ScalarBaseMult(randScalar(t, c.N()))
		if p.IsInfinity() {
			continue
		}
		q, err := c.DecompressPoint(p.X(), uint(p.Y().Bit(0)))
		require.NoError(t, err)
		require.True(t, q.Equal(p))
	}

	_, err = c.Decompress(g.X(), 2)
	require.ErrorIs(t, err, ErrDomain)
	_, err = c.Decompress(c.P(), 0)
	require.ErrorIs(t, err, ErrDomain)

	// some small abscissa is not on the curve
	found := false
	for x := int64(0); x < 64 && !found; x++ {
		_, err := c.Decompress(big.NewInt(x), 0)
		if err != nil {
			require.ErrorIs(t, err, ErrNoSquareRoot)
			found = true
		}
	}
	require.True(t, found)
}

func TestPointEncoding(t *testing.T) {
	c := DefaultCurve()
	kp := katKeyPair(t)
	pub := kp.Public()

	compressed := c.MarshalCompressed(pub)
	require.Equal(t, "03"+strings.ToLower(katPx), hex.EncodeToString(compressed))
	uncompressed := c.Marshal(pub)
	require.Equal(t, "04"+strings.ToLower(katPx+katPy), hex.EncodeToString(uncompressed))

	for _, enc := range [][]byte{compressed, uncompressed} {
		p, err := c.Unmarshal(enc)
		require.NoError(t, err)
		require.True(t, p.Equal(pub))
	}

	require.Equal(t, []byte{0x00}, c.Marshal(Infinity()))
	require.Equal(t, []byte{0x00}, c.MarshalCompressed(Infinity()))
	o, err := c.Unmarshal([]byte{0x00})
	require.NoError(t, err)
	require.True(t, o.IsInfinity())

	require.Len(t, c.Marshal(c.Generator()), 65)

	bad := map[string][]byte{
		"empty":           nil,
		"wrong prefix":    append([]byte{0x05}, compressed[1:]...),
		"short":           compressed[:32],
		"long":            append(append([]byte(nil), uncompressed...), 0),
		"hybrid prefix":   append([]byte{0x06}, uncompressed[1:]...),
		"x out of range":  append([]byte{0x02}, c.P().FillBytes(make([]byte, 32))...),
		"off curve":       append(append([]byte{0x04}, uncompressed[1:33]...), make([]byte, 32)...),
		"infinity padded": {0x00, 0x00},
	}
	for name, enc := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := c.Unmarshal(enc)
			require.ErrorIs(t, err, ErrInvalidEncoding)
		})
	}
}

func TestUnmarshalAgainstBtcec(t *testing.T) {
	c := secp256k1Curve(t)
	for i := 0; i < 4; i++ {
		priv, err := btcec.NewPrivateKey()
		require.NoError(t, err)
		pub := priv.PubKey()

		p, err := c.Unmarshal(pub.SerializeCompressed())
		require.NoError(t, err)
		require.Equal(t, 0, p.X().Cmp(pub.X()))
		require.Equal(t, 0, p.Y().Cmp(pub.Y()))

		require.Equal(t, pub.SerializeCompressed(), c.MarshalCompressed(p))
		require.Equal(t, pub.SerializeUncompressed(), c.Marshal(p))
	}
}
