package sm2

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointBasics(t *testing.T) {
	c := DefaultCurve()
	g := c.Generator()
	o := Infinity()

	require.True(t, o.IsInfinity())
	require.True(t, Point{}.IsInfinity())
	require.Nil(t, o.X())
	require.Nil(t, o.Y())
	require.Equal(t, "(infinity)", o.String())
	require.True(t, c.IsOnCurve(o))
	require.True(t, o.Equal(Point{}))
	require.False(t, o.Equal(g))
	require.False(t, g.Equal(o))

	x := g.X()
	x.SetInt64(1)
	require.Equal(t, 0, g.X().Cmp(mustBig(t, sampleGx)), "X must return a copy")

	p, err := c.NewPoint(mustBig(t, sampleGx), mustBig(t, sampleGy))
	require.NoError(t, err)
	require.True(t, p.Equal(g))

	_, err = c.NewPoint(mustBig(t, sampleGx), big.NewInt(1))
	require.ErrorIs(t, err, ErrDomain)
	_, err = c.NewPoint(new(big.Int).Add(mustBig(t, sampleGx), c.P()), mustBig(t, sampleGy))
	require.ErrorIs(t, err, ErrDomain)
}

func TestGroupLaws(t *testing.T) {
	c := DefaultCurve()
	g := c.Generator()
	o := Infinity()
	p := c.ScalarBaseMult(big.NewInt(7))
	q := c.ScalarBaseMult(mustBig(t, katK))
	r := c.ScalarBaseMult(mustBig(t, katD))

	t.Run("identity", func(t *testing.T) {
		require.True(t, c.Add(p, o).Equal(p))
		require.True(t, c.Add(o, p).Equal(p))
		require.True(t, c.Add(o, o).IsInfinity())
		require.True(t, c.Double(o).IsInfinity())
		require.True(t, c.Negate(o).IsInfinity())
	})

	t.Run("inverse", func(t *testing.T) {
		require.True(t, c.Add(p, c.Negate(p)).IsInfinity())
		require.True(t, c.Sub(q, q).IsInfinity())
		require.True(t, c.Negate(c.Negate(p)).Equal(p))
		require.True(t, c.IsOnCurve(c.Negate(p)))
	})

	t.Run("doubling", func(t *testing.T) {
		require.True(t, c.Add(p, p).Equal(c.Double(p)))
		require.True(t, c.Double(g).Equal(c.ScalarBaseMult(bigTwo)))
		require.True(t, c.IsOnCurve(c.Double(q)))
	})

	t.Run("commutative", func(t *testing.T) {
		require.True(t, c.Add(p, q).Equal(c.Add(q, p)))
	})

	t.Run("associative", func(t *testing.T) {
		lhs := c.Add(c.Add(p, q), r)
		rhs := c.Add(p, c.Add(q, r))
		require.True(t, lhs.Equal(rhs))
		require.True(t, c.IsOnCurve(lhs))
	})

	t.Run("order", func(t *testing.T) {
		nMinusOne := new(big.Int).Sub(c.N(), bigOne)
		require.True(t, c.ScalarBaseMult(nMinusOne).Equal(c.Negate(g)))
		require.True(t, c.Add(c.ScalarBaseMult(nMinusOne), g).IsInfinity())
	})
}
