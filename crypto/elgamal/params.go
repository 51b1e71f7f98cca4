package elgamal

import (
	"fmt"
	"math/big"

	"github.com/provotum/mixnet-node/crypto/arith"
)

// Params holds the public group parameters for ElGamal over the quadratic
// residue subgroup of Z*_p: a safe prime P, a generator G of the order-q
// subgroup (q = (P-1)/2) and a second independent generator H of the same
// subgroup.
type Params struct {
	P *big.Int
	G *big.Int
	H *big.Int
}

// Q returns the order of the subgroup, (P-1)/2.
func (p *Params) Q() *big.Int {
	q := new(big.Int).Sub(p.P, big.NewInt(1))
	return q.Rsh(q, 1)
}

// IsGroupElement reports whether x is an element of the order-q subgroup,
// i.e. a quadratic residue mod P with x^q = 1.
func (p *Params) IsGroupElement(x *big.Int) bool {
	if x.Sign() <= 0 || x.Cmp(p.P) >= 0 {
		return false
	}
	return arith.ModPow(x, p.Q(), p.P).Cmp(big.NewInt(1)) == 0
}

// Check validates the group parameters: P and Q prime, G != H, and both
// generators members of the order-q subgroup.
func (p *Params) Check() error {
	if p.P == nil || p.G == nil || p.H == nil {
		return fmt.Errorf("incomplete parameters: %w", ErrInvalidParams)
	}
	if !p.P.ProbablyPrime(20) {
		return fmt.Errorf("p is not prime: %w", ErrInvalidParams)
	}
	if !p.Q().ProbablyPrime(20) {
		return fmt.Errorf("p is not a safe prime: %w", ErrInvalidParams)
	}
	if p.G.Cmp(p.H) == 0 {
		return fmt.Errorf("g and h must differ: %w", ErrInvalidParams)
	}
	if !p.IsGroupElement(p.G) {
		return fmt.Errorf("g is not a subgroup member: %w", ErrInvalidParams)
	}
	if !p.IsGroupElement(p.H) {
		return fmt.Errorf("h is not a subgroup member: %w", ErrInvalidParams)
	}
	return nil
}
