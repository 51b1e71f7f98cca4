package elgamal

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/provotum/mixnet-node/crypto/arith"
)

// testParams returns a tiny safe-prime group: p = 23, q = 11, with the
// quadratic residues 4 and 9 as generators.
func testParams() *Params {
	return &Params{
		P: big.NewInt(23),
		G: big.NewInt(4),
		H: big.NewInt(9),
	}
}

func TestParamsCheck(t *testing.T) {
	c := qt.New(t)

	c.Assert(testParams().Check(), qt.IsNil)

	bad := testParams()
	bad.H = bad.G
	c.Assert(bad.Check(), qt.IsNotNil)

	bad = testParams()
	bad.P = big.NewInt(24)
	c.Assert(bad.Check(), qt.IsNotNil)

	bad = testParams()
	bad.G = big.NewInt(5) // not a quadratic residue mod 23
	c.Assert(bad.Check(), qt.IsNotNil)
}

func TestEncryptDecrypt(t *testing.T) {
	c := qt.New(t)

	params := testParams()
	pk, x, err := GenerateKey(params)
	c.Assert(err, qt.IsNil)

	m := big.NewInt(13) // quadratic residue mod 23
	e, _, err := Encrypt(pk, m)
	c.Assert(err, qt.IsNil)

	dec, err := Decrypt(params, x, e)
	c.Assert(err, qt.IsNil)
	c.Assert(dec.Cmp(m), qt.Equals, 0)
}

func TestReEncrypt(t *testing.T) {
	c := qt.New(t)

	params := testParams()
	pk, x, err := GenerateKey(params)
	c.Assert(err, qt.IsNil)

	m := big.NewInt(9)
	e := EncryptWithR(pk, m, big.NewInt(3))
	r, err := RandScalar(params.Q())
	c.Assert(err, qt.IsNil)
	e2 := ReEncrypt(pk, e, r)

	dec, err := Decrypt(params, x, e2)
	c.Assert(err, qt.IsNil)
	c.Assert(dec.Cmp(m), qt.Equals, 0)

	// zero randomness leaves the ciphertext unchanged
	c.Assert(ReEncrypt(pk, e, big.NewInt(0)).Equal(e), qt.IsTrue)
}

func TestPartialDecryption(t *testing.T) {
	c := qt.New(t)

	params := testParams()
	x1 := big.NewInt(3)
	x2 := big.NewInt(7)
	// combined public key for x = x1 + x2
	pk := &PublicKey{
		Params: params,
		H: arith.ModMul(
			arith.ModPow(params.G, x1, params.P),
			arith.ModPow(params.G, x2, params.P),
			params.P),
	}

	m := big.NewInt(16)
	e, _, err := Encrypt(pk, m)
	c.Assert(err, qt.IsNil)

	shares := []*big.Int{
		PartialDecrypt(params, x1, e),
		PartialDecrypt(params, x2, e),
	}
	dec, err := CombineShares(params, e, shares)
	c.Assert(err, qt.IsNil)
	c.Assert(dec.Cmp(m), qt.Equals, 0)
}
