// Package shuffle implements the non-interactive zero-knowledge proof of a
// verifiable re-encryption shuffle of ElGamal ciphertexts (CHVote
// Algorithms 8.47 and 8.51). A mixer re-encrypts and permutes a list of
// encrypted votes and proves that the output list holds the same plaintexts
// as the input; anyone can verify the proof from public data alone.
package shuffle

import (
	"errors"
	"math/big"
)

// ErrShapeMismatch is returned when the proof vectors and the ciphertext
// lists do not all share the same non-zero length, or when a scalar field
// of the transcript is missing. A malformed transcript is rejected before
// any arithmetic runs.
var ErrShapeMismatch = errors.New("proof shape mismatch")

// Proof is the transcript of a shuffle proof: the Fiat-Shamir challenge,
// the responses s1..s4 plus the per-position response vectors, the
// permutation commitments and the permutation chain commitments.
type Proof struct {
	Challenge *big.Int

	S1     *big.Int
	S2     *big.Int
	S3     *big.Int
	S4     *big.Int
	SHat   []*big.Int
	STilde []*big.Int

	// CPerm commits to the permutation, CChain to the chain of permuted
	// challenges seeded at the second public generator h.
	CPerm  []*big.Int
	CChain []*big.Int
}

// Commitments holds the committed values t: produced with fresh randomness
// by the prover, recomputed from the transcript by the verifier.
type Commitments struct {
	T1, T2, T3 *big.Int
	T41, T42   *big.Int
	THat       []*big.Int
}
