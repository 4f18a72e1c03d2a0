package sm2

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// GB/T 32918.2 Appendix A signature example on the sample curve.
const (
	katD  = "128B2FA8BD433C6C068C8D803DFF79792A519A55171B1B650C23661D15897263"
	katPx = "0AE4C7798AA0F119471BEE11825BE46202BB79E2A5844495E97C04FF4DF2548A"
	katPy = "7C0240F88F1CD4E16352A73C17B7F16F07353E53A176D684A9FE0C6BB798E857"
	katK  = "6CB28D99385C175C94F94E934817663FC176D925DD72B727260DBAAE1FB2F96F"
	katZA = "F4A38489E32B45B6F876E3AC2168CA392362DC8F23459C1D1146FC3DBFB7BC9A"
	katE  = "B524F552CD82B8B028476E005C377FB19A87E6FC682D48BB5D42E3D9B9EFFE76"
	katR  = "40F1EC59F793D9F49E09DCEF49130D4194F79FB1EED2CAA55BACDB49C4E755D1"
	katS  = "6FC6DAC32C5D5CF10C77DFB20F7C2EB667A457872FB09EC56327A67EC7DEEBE7"

	katMsg = "message digest"
)

func mustBig(t testing.TB, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, "bad hex %q", s)
	return v
}

func katKeyPair(t testing.TB) *KeyPair {
	t.Helper()
	kp, err := NewKeyPair(DefaultCurve(), mustBig(t, katD))
	require.NoError(t, err)
	return kp
}

// fixedSource always returns the same integer.
type fixedSource struct{ v *big.Int }

func (f fixedSource) RandomInt(int) (*big.Int, error) { return new(big.Int).Set(f.v), nil }

// sequenceSource returns its values in order and then repeats the last one.
type sequenceSource struct {
	vals []*big.Int
	i    int
}

func (s *sequenceSource) RandomInt(int) (*big.Int, error) {
	v := s.vals[s.i]
	if s.i < len(s.vals)-1 {
		s.i++
	}
	return new(big.Int).Set(v), nil
}

var errSourceBroken = errors.New("random source broken")

type failingSource struct{}

func (failingSource) RandomInt(int) (*big.Int, error) { return nil, errSourceBroken }
