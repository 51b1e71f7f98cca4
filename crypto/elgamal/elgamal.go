// Package elgamal implements ElGamal encryption over the quadratic residue
// subgroup of Z*_p for a safe prime p. Ciphertexts use the g-in-a
// convention: a = g^r and b = m * pk^r, so re-encryption multiplies a fresh
// (g^r', pk^r') pair into an existing ciphertext.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/provotum/mixnet-node/crypto/arith"
)

// PublicKey is an ElGamal public key: the group parameters plus the key
// element H = g^x for the (distributed) secret x.
type PublicKey struct {
	Params *Params
	H      *big.Int
}

// Cipher is an ElGamal encryption (a, b) with a = g^r and b = m * pk^r.
type Cipher struct {
	A *big.Int
	B *big.Int
}

// Equal reports whether two ciphertexts hold the same pair of values.
func (c Cipher) Equal(other Cipher) bool {
	return c.A.Cmp(other.A) == 0 && c.B.Cmp(other.B) == 0
}

// RandScalar returns a uniformly random scalar in [0, q).
func RandScalar(q *big.Int) (*big.Int, error) {
	r, err := rand.Int(rand.Reader, q)
	if err != nil {
		return nil, fmt.Errorf("failed to sample scalar: %w", err)
	}
	return r, nil
}

// GenerateKey creates a fresh key pair for the given group parameters.
func GenerateKey(params *Params) (*PublicKey, *big.Int, error) {
	x, err := RandScalar(params.Q())
	if err != nil {
		return nil, nil, err
	}
	if x.Sign() == 0 {
		x = big.NewInt(1)
	}
	pk := &PublicKey{
		Params: params,
		H:      arith.ModPow(params.G, x, params.P),
	}
	return pk, x, nil
}

// Encrypt encrypts the group element m under pk with fresh randomness.
// It returns the ciphertext and the randomness used.
func Encrypt(pk *PublicKey, m *big.Int) (Cipher, *big.Int, error) {
	r, err := RandScalar(pk.Params.Q())
	if err != nil {
		return Cipher{}, nil, err
	}
	return EncryptWithR(pk, m, r), r, nil
}

// EncryptWithR encrypts the group element m under pk using the given
// randomness r.
func EncryptWithR(pk *PublicKey, m, r *big.Int) Cipher {
	p := pk.Params.P
	return Cipher{
		A: arith.ModPow(pk.Params.G, r, p),
		B: arith.ModMul(m, arith.ModPow(pk.H, r, p), p),
	}
}

// ReEncrypt multiplies a fresh encryption of one into e, producing a new
// ciphertext of the same plaintext.
func ReEncrypt(pk *PublicKey, e Cipher, r *big.Int) Cipher {
	p := pk.Params.P
	return Cipher{
		A: arith.ModMul(e.A, arith.ModPow(pk.Params.G, r, p), p),
		B: arith.ModMul(e.B, arith.ModPow(pk.H, r, p), p),
	}
}

// Decrypt recovers the plaintext group element m = b / a^x.
func Decrypt(params *Params, x *big.Int, e Cipher) (*big.Int, error) {
	m, err := arith.ModDiv(e.B, arith.ModPow(e.A, x, params.P), params.P)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return m, nil
}

// PartialDecrypt computes a sealer's decryption share a^x_i for its key
// share x_i. Shares from all sealers combine via CombineShares.
func PartialDecrypt(params *Params, xi *big.Int, e Cipher) *big.Int {
	return arith.ModPow(e.A, xi, params.P)
}

// CombineShares divides b by the product of all decryption shares,
// recovering the plaintext once every sealer has contributed.
func CombineShares(params *Params, e Cipher, shares []*big.Int) (*big.Int, error) {
	prod := big.NewInt(1)
	for _, s := range shares {
		prod = arith.ModMul(prod, s, params.P)
	}
	m, err := arith.ModDiv(e.B, prod, params.P)
	if err != nil {
		return nil, fmt.Errorf("combine shares: %w", err)
	}
	return m, nil
}
