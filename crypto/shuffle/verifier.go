package shuffle

import (
	"fmt"
	"math/big"

	"github.com/provotum/mixnet-node/crypto/arith"
	"github.com/provotum/mixnet-node/crypto/elgamal"
)

// VerifyProof checks the correctness of a shuffle proof (CHVote Algorithm
// 8.51). The public values are the input encryptions e, the shuffled
// encryptions eTilde and the public encryption key pk; id seeds the
// independent generator derivation. It returns true when the recomputed
// Fiat-Shamir challenge matches the one in the transcript, false for a
// sound cryptographic rejection, and an error for a transcript that is
// malformed or arithmetically degenerate.
//
// The call is pure: every intermediate is a function of the inputs and
// nothing is cached between invocations.
func VerifyProof(id uint32, proof *Proof, e, eTilde []elgamal.Cipher, pk *elgamal.PublicKey) (bool, error) {
	if err := checkShapes(proof, e, eTilde); err != nil {
		return false, err
	}

	size := len(e)
	params := pk.Params
	p := params.P
	q := params.Q()

	vecH := Generators(id, p, size)
	vecU := Challenges(size, e, eTilde, proof.CPerm, pk)

	// c_flat = prod(c_i) / prod(h_i) mod p
	prodC := product(proof.CPerm, p)
	prodH := product(vecH, p)
	cFlat, err := arith.ModDiv(prodC, prodH, p)
	if err != nil {
		return false, fmt.Errorf("c_flat: %w", err)
	}

	// u = prod(u_i) mod q
	u := product(vecU, q)

	// c_hat = c_hat_n / h^u mod p
	cHat, err := arith.ModDiv(proof.CChain[size-1], arith.ModPow(params.H, u, p), p)
	if err != nil {
		return false, fmt.Errorf("c_hat: %w", err)
	}

	// c_tilde = prod(c_i^u_i) mod p
	cTilde := powProduct(proof.CPerm, vecU, p)

	// a_tilde and b_tilde batch the components of the input encryptions
	aTilde := big.NewInt(1)
	bTilde := big.NewInt(1)
	for i := range size {
		aTilde = arith.ModMul(aTilde, arith.ModPow(e[i].A, vecU[i], p), p)
		bTilde = arith.ModMul(bTilde, arith.ModPow(e[i].B, vecU[i], p), p)
	}

	t := &Commitments{
		THat: recomputeTHat(params, proof),
	}
	if err := recomputeT(t, params, pk.H, proof, cFlat, cHat, cTilde, aTilde, bTilde, eTilde, vecH); err != nil {
		return false, err
	}

	recomputed := ProofChallenge(e, eTilde, proof.CPerm, proof.CChain, pk, t)
	return recomputed.Cmp(proof.Challenge) == 0, nil
}

// checkShapes enforces the transcript shape invariant before any arithmetic
// runs: all six vectors share the same non-zero length and every scalar
// field is present.
func checkShapes(proof *Proof, e, eTilde []elgamal.Cipher) error {
	size := len(e)
	if size == 0 {
		return fmt.Errorf("empty encryption list: %w", ErrShapeMismatch)
	}
	for _, s := range []*big.Int{proof.Challenge, proof.S1, proof.S2, proof.S3, proof.S4} {
		if s == nil {
			return fmt.Errorf("missing scalar in transcript: %w", ErrShapeMismatch)
		}
	}
	for name, vec := range map[string][]*big.Int{
		"permutation commitments":       proof.CPerm,
		"permutation chain commitments": proof.CChain,
		"s_hat responses":               proof.SHat,
		"s_tilde responses":             proof.STilde,
	} {
		if len(vec) != size {
			return fmt.Errorf("%s: expected %d elements, got %d: %w", name, size, len(vec), ErrShapeMismatch)
		}
		for _, v := range vec {
			if v == nil {
				return fmt.Errorf("%s: missing element: %w", name, ErrShapeMismatch)
			}
		}
	}
	if len(eTilde) != size {
		return fmt.Errorf("shuffled encryptions: expected %d elements, got %d: %w", size, len(eTilde), ErrShapeMismatch)
	}
	for _, lists := range [][]elgamal.Cipher{e, eTilde} {
		for _, enc := range lists {
			if enc.A == nil || enc.B == nil {
				return fmt.Errorf("missing ciphertext component: %w", ErrShapeMismatch)
			}
		}
	}
	return nil
}

// recomputeTHat rebuilds the chain commitments t_hat_i from the transcript:
// t_hat_i = c_hat_i^challenge * g^s_hat_i * c_hat_(i-1)^s_tilde_i mod p,
// with the chain seeded at c_hat_0 = h.
func recomputeTHat(params *elgamal.Params, proof *Proof) []*big.Int {
	g := params.G
	p := params.P

	// extended chain: [h, c_hat_1, ..., c_hat_n]
	ext := make([]*big.Int, 0, len(proof.CChain)+1)
	ext = append(ext, params.H)
	ext = append(ext, proof.CChain...)

	tHat := make([]*big.Int, len(proof.CChain))
	for i := range proof.CChain {
		tHat[i] = arith.ModMul(
			arith.ModMul(
				arith.ModPow(ext[i+1], proof.Challenge, p),
				arith.ModPow(g, proof.SHat[i], p), p),
			arith.ModPow(ext[i], proof.STilde[i], p), p)
	}
	return tHat
}

// recomputeT rebuilds the four scalar commitments from the transcript.
//
// The pairs t4_1/t4_2 swap the roles of g and pk relative to the CHVote
// write-up because encryptions here carry a = g^r rather than a = pk^r;
// see Haenni, Locher, Koenig, Dubuis, "Verifiable Re-Encryption Mixnets".
func recomputeT(t *Commitments, params *elgamal.Params, pk *big.Int, proof *Proof,
	cFlat, cHat, cTilde, aTilde, bTilde *big.Int, eTilde []elgamal.Cipher, vecH []*big.Int,
) error {
	g := params.G
	p := params.P
	c := proof.Challenge

	// t1 = c_flat^c * g^s1 mod p
	t.T1 = arith.ModMul(arith.ModPow(cFlat, c, p), arith.ModPow(g, proof.S1, p), p)

	// t2 = c_hat^c * g^s2 mod p
	t.T2 = arith.ModMul(arith.ModPow(cHat, c, p), arith.ModPow(g, proof.S2, p), p)

	// t3 = c_tilde^c * g^s3 * prod(h_i^s_tilde_i) mod p
	t.T3 = arith.ModMul(
		arith.ModMul(arith.ModPow(cTilde, c, p), arith.ModPow(g, proof.S3, p), p),
		powProduct(vecH, proof.STilde, p), p)

	// g^-s4 = invmod(g^s4)
	gPowMinusS4, err := arith.ModInv(arith.ModPow(g, proof.S4, p), p)
	if err != nil {
		return fmt.Errorf("t4_1: %w", err)
	}
	pkPowMinusS4, err := arith.ModInv(arith.ModPow(pk, proof.S4, p), p)
	if err != nil {
		return fmt.Errorf("t4_2: %w", err)
	}

	// t4_1 = a_tilde^c * g^-s4 * prod(a_tilde_i^s_tilde_i) mod p
	// t4_2 = b_tilde^c * pk^-s4 * prod(b_tilde_i^s_tilde_i) mod p
	prodA := big.NewInt(1)
	prodB := big.NewInt(1)
	for i, enc := range eTilde {
		prodA = arith.ModMul(prodA, arith.ModPow(enc.A, proof.STilde[i], p), p)
		prodB = arith.ModMul(prodB, arith.ModPow(enc.B, proof.STilde[i], p), p)
	}
	t.T41 = arith.ModMul(arith.ModMul(arith.ModPow(aTilde, c, p), gPowMinusS4, p), prodA, p)
	t.T42 = arith.ModMul(arith.ModMul(arith.ModPow(bTilde, c, p), pkPowMinusS4, p), prodB, p)
	return nil
}

// product folds a vector into prod(v_i) mod m.
func product(vs []*big.Int, m *big.Int) *big.Int {
	prod := big.NewInt(1)
	for _, v := range vs {
		prod = arith.ModMul(prod, v, m)
	}
	return prod
}

// powProduct folds two vectors into prod(a_i^b_i) mod p.
func powProduct(as, bs []*big.Int, p *big.Int) *big.Int {
	prod := big.NewInt(1)
	for i := range as {
		prod = arith.ModMul(prod, arith.ModPow(as[i], bs[i], p), p)
	}
	return prod
}
