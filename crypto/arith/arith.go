// Package arith implements the modular arithmetic primitives used by the
// mixnet crypto layer. All operations work on non-negative arbitrary
// precision integers and take the modulus explicitly; exponents are applied
// as given, callers reduce them into the subgroup order where the protocol
// requires it.
package arith

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvMod is returned when a required modular inverse does not exist.
	ErrInvMod = errors.New("modular inverse does not exist")
	// ErrDivMod is returned when a modular division fails because the
	// divisor has no inverse.
	ErrDivMod = errors.New("modular division is not defined")
)

// ModMul returns (a * b) mod p.
func ModMul(a, b, p *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, p)
}

// ModPow returns a^e mod p. The exponent must be non-negative.
func ModPow(a, e, p *big.Int) *big.Int {
	return new(big.Int).Exp(a, e, p)
}

// ModInv returns the multiplicative inverse of a mod p. It fails with
// ErrInvMod if gcd(a, p) != 1.
func ModInv(a, p *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, p)
	if inv == nil {
		return nil, fmt.Errorf("inverse of %s mod %s: %w", a, p, ErrInvMod)
	}
	return inv, nil
}

// ModDiv returns a * b^-1 mod p. It fails with ErrDivMod if b has no
// inverse mod p.
func ModDiv(a, b, p *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(b, p)
	if inv == nil {
		return nil, fmt.Errorf("division by %s mod %s: %w", b, p, ErrDivMod)
	}
	return ModMul(a, inv, p), nil
}
