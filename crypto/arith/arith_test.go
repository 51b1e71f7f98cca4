package arith

import (
	"errors"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestModMul(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	c.Assert(ModMul(big.NewInt(7), big.NewInt(5), p).Int64(), qt.Equals, int64(12))
	c.Assert(ModMul(big.NewInt(0), big.NewInt(5), p).Int64(), qt.Equals, int64(0))
	c.Assert(ModMul(big.NewInt(22), big.NewInt(22), p).Int64(), qt.Equals, int64(1))
}

func TestModPow(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	c.Assert(ModPow(big.NewInt(2), big.NewInt(11), p).Int64(), qt.Equals, int64(1))
	c.Assert(ModPow(big.NewInt(5), big.NewInt(0), p).Int64(), qt.Equals, int64(1))
	// exponents are applied as stored, not reduced
	c.Assert(ModPow(big.NewInt(2), big.NewInt(34), p).Int64(),
		qt.Equals, ModPow(big.NewInt(2), big.NewInt(12), p).Int64())
}

func TestModInv(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	inv, err := ModInv(big.NewInt(5), p)
	c.Assert(err, qt.IsNil)
	c.Assert(ModMul(big.NewInt(5), inv, p).Int64(), qt.Equals, int64(1))

	// 0 has no inverse
	_, err = ModInv(big.NewInt(0), p)
	c.Assert(errors.Is(err, ErrInvMod), qt.IsTrue)

	// shared factor with a composite modulus
	_, err = ModInv(big.NewInt(6), big.NewInt(15))
	c.Assert(errors.Is(err, ErrInvMod), qt.IsTrue)
}

func TestModDiv(t *testing.T) {
	c := qt.New(t)

	p := big.NewInt(23)
	r, err := ModDiv(big.NewInt(12), big.NewInt(5), p)
	c.Assert(err, qt.IsNil)
	c.Assert(ModMul(r, big.NewInt(5), p).Int64(), qt.Equals, int64(12))

	_, err = ModDiv(big.NewInt(12), big.NewInt(0), p)
	c.Assert(errors.Is(err, ErrDivMod), qt.IsTrue)
}
