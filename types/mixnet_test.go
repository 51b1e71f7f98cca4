package types

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/provotum/mixnet-node/crypto/elgamal"
)

func TestCipherConversion(t *testing.T) {
	c := qt.New(t)

	e := elgamal.Cipher{A: big.NewInt(4), B: big.NewInt(9)}
	wire := CipherFromCrypto(e)
	c.Assert(wire.Crypto().Equal(e), qt.IsTrue)

	data, err := json.Marshal(wire)
	c.Assert(err, qt.IsNil)
	var back Cipher
	c.Assert(json.Unmarshal(data, &back), qt.IsNil)
	c.Assert(back.Crypto().Equal(e), qt.IsTrue)
}

func TestElectionParams(t *testing.T) {
	c := qt.New(t)

	ep := &ElectionParams{
		ID: 3,
		P:  NewInt(23),
		G:  NewInt(4),
		H:  NewInt(9),
	}
	params := ep.Params()
	c.Assert(params.Check(), qt.IsNil)
	c.Assert(params.Q().Int64(), qt.Equals, int64(11))
}
