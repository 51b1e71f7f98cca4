package shuffle

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/provotum/mixnet-node/crypto/arith"
	"github.com/provotum/mixnet-node/crypto/elgamal"
)

// Permutation samples a uniformly random permutation of [0, n) using the
// Fisher-Yates shuffle with crypto/rand.
func Permutation(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i >= 1; i-- {
		r, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("failed to sample permutation: %w", err)
		}
		j := int(r.Int64())
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// Shuffle re-encrypts every ciphertext in e with fresh randomness and
// permutes the list: eTilde[i] = ReEnc(e[perm[i]], rTilde[i]). It returns
// the shuffled list together with the permutation and the re-encryption
// randomness, which the prover needs to generate the shuffle proof.
func Shuffle(e []elgamal.Cipher, pk *elgamal.PublicKey) ([]elgamal.Cipher, []int, []*big.Int, error) {
	perm, err := Permutation(len(e))
	if err != nil {
		return nil, nil, nil, err
	}
	q := pk.Params.Q()
	eTilde := make([]elgamal.Cipher, len(e))
	rTilde := make([]*big.Int, len(e))
	for i := range e {
		if rTilde[i], err = elgamal.RandScalar(q); err != nil {
			return nil, nil, nil, err
		}
		eTilde[i] = elgamal.ReEncrypt(pk, e[perm[i]], rTilde[i])
	}
	return eTilde, perm, rTilde, nil
}

// GenProof generates a shuffle proof (CHVote Algorithm 8.47) for
// eTilde[i] = ReEnc(e[perm[i]], rTilde[i]). The resulting transcript
// verifies under VerifyProof with the same id and public key.
func GenProof(id uint32, e, eTilde []elgamal.Cipher, perm []int, rTilde []*big.Int,
	pk *elgamal.PublicKey,
) (*Proof, error) {
	size := len(e)
	if size == 0 || len(eTilde) != size || len(perm) != size || len(rTilde) != size {
		return nil, fmt.Errorf("prover inputs: %w", ErrShapeMismatch)
	}

	params := pk.Params
	p := params.P
	q := params.Q()
	g := params.G

	vecH := Generators(id, p, size)

	// permutation commitments: c_perm[perm[i]] = g^r_perm[perm[i]] * h_i
	rPerm := make([]*big.Int, size)
	cPerm := make([]*big.Int, size)
	for i := range size {
		r, err := elgamal.RandScalar(q)
		if err != nil {
			return nil, err
		}
		j := perm[i]
		rPerm[j] = r
		cPerm[j] = arith.ModMul(arith.ModPow(g, r, p), vecH[i], p)
	}

	vecU := Challenges(size, e, eTilde, cPerm, pk)

	// permuted challenges u'_i = u_perm[i]
	uPrime := make([]*big.Int, size)
	for i := range size {
		uPrime[i] = vecU[perm[i]]
	}

	// chain commitments seeded at h: c_chain[i] = g^r_hat_i * prev^u'_i
	rHat := make([]*big.Int, size)
	cChain := make([]*big.Int, size)
	prev := params.H
	for i := range size {
		r, err := elgamal.RandScalar(q)
		if err != nil {
			return nil, err
		}
		rHat[i] = r
		cChain[i] = arith.ModMul(arith.ModPow(g, r, p), arith.ModPow(prev, uPrime[i], p), p)
		prev = cChain[i]
	}

	// commitment randomness
	var omega [4]*big.Int
	for i := range omega {
		r, err := elgamal.RandScalar(q)
		if err != nil {
			return nil, err
		}
		omega[i] = r
	}
	omegaHat := make([]*big.Int, size)
	omegaTilde := make([]*big.Int, size)
	for i := range size {
		var err error
		if omegaHat[i], err = elgamal.RandScalar(q); err != nil {
			return nil, err
		}
		if omegaTilde[i], err = elgamal.RandScalar(q); err != nil {
			return nil, err
		}
	}

	t := &Commitments{
		T1:   arith.ModPow(g, omega[0], p),
		T2:   arith.ModPow(g, omega[1], p),
		T3:   arith.ModMul(arith.ModPow(g, omega[2], p), powProduct(vecH, omegaTilde, p), p),
		THat: make([]*big.Int, size),
	}

	gPowMinusOmega4, err := arith.ModInv(arith.ModPow(g, omega[3], p), p)
	if err != nil {
		return nil, fmt.Errorf("t4_1 commitment: %w", err)
	}
	pkPowMinusOmega4, err := arith.ModInv(arith.ModPow(pk.H, omega[3], p), p)
	if err != nil {
		return nil, fmt.Errorf("t4_2 commitment: %w", err)
	}
	prodA := big.NewInt(1)
	prodB := big.NewInt(1)
	for i, enc := range eTilde {
		prodA = arith.ModMul(prodA, arith.ModPow(enc.A, omegaTilde[i], p), p)
		prodB = arith.ModMul(prodB, arith.ModPow(enc.B, omegaTilde[i], p), p)
	}
	t.T41 = arith.ModMul(gPowMinusOmega4, prodA, p)
	t.T42 = arith.ModMul(pkPowMinusOmega4, prodB, p)

	prev = params.H
	for i := range size {
		t.THat[i] = arith.ModMul(arith.ModPow(g, omegaHat[i], p), arith.ModPow(prev, omegaTilde[i], p), p)
		prev = cChain[i]
	}

	c := ProofChallenge(e, eTilde, cPerm, cChain, pk, t)

	// secret aggregates
	rBar := new(big.Int)
	for _, r := range rPerm {
		rBar.Add(rBar, r)
	}
	rBar.Mod(rBar, q)

	// r_hat_sum = sum(r_hat_i * prod_{j>i} u'_j) mod q
	rHatSum := new(big.Int)
	tail := big.NewInt(1)
	for i := size - 1; i >= 0; i-- {
		rHatSum.Add(rHatSum, new(big.Int).Mul(rHat[i], tail))
		tail = arith.ModMul(tail, uPrime[i], q)
	}
	rHatSum.Mod(rHatSum, q)

	rTildeSum := new(big.Int)
	for j := range size {
		rTildeSum.Add(rTildeSum, new(big.Int).Mul(rPerm[j], vecU[j]))
	}
	rTildeSum.Mod(rTildeSum, q)

	rE := new(big.Int)
	for i := range size {
		rE.Add(rE, new(big.Int).Mul(rTilde[i], uPrime[i]))
	}
	rE.Mod(rE, q)

	proof := &Proof{
		Challenge: c,
		S1:        response(omega[0], c, rBar, q),
		S2:        response(omega[1], c, rHatSum, q),
		S3:        response(omega[2], c, rTildeSum, q),
		S4:        response(omega[3], c, rE, q),
		SHat:      make([]*big.Int, size),
		STilde:    make([]*big.Int, size),
		CPerm:     cPerm,
		CChain:    cChain,
	}
	for i := range size {
		proof.SHat[i] = response(omegaHat[i], c, rHat[i], q)
		proof.STilde[i] = response(omegaTilde[i], c, uPrime[i], q)
	}
	return proof, nil
}

// response computes s = omega - c*secret mod q, reduced into [0, q).
func response(omega, c, secret, q *big.Int) *big.Int {
	s := new(big.Int).Mul(c, secret)
	s.Sub(omega, s)
	return s.Mod(s, q)
}
