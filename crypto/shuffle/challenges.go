package shuffle

import (
	"math/big"

	"github.com/provotum/mixnet-node/crypto/elgamal"
)

// Challenges derives the per-position challenge vector u_1..u_size from the
// public prefix (e, eTilde, cPerm, pk). Each challenge is a scalar in
// [0, 2^ChallengeBitLen), domain-separated by position so that no two
// positions share a challenge derivation.
func Challenges(size int, e, eTilde []elgamal.Cipher, cPerm []*big.Int, pk *elgamal.PublicKey) []*big.Int {
	prefix := newHasher(tagChallenges)
	prefix.writeCiphers(e)
	prefix.writeCiphers(eTilde)
	prefix.writeVec(cPerm)
	prefix.writeInt(pk.H)
	seed := prefix.sum()

	us := make([]*big.Int, size)
	for i := range size {
		h := newHasher(tagChallenges)
		h.writeBytes(seed)
		h.writeUint32(uint32(i))
		us[i] = h.challenge()
	}
	return us
}

// ProofChallenge derives the single Fiat-Shamir challenge from the full
// public value (e, eTilde, cPerm, cChain, pk) and the commitment tuple
// (t1, t2, t3, (t4_1, t4_2), tHat). The write order is part of the
// protocol: a verifier hashing in a different order rejects valid proofs.
func ProofChallenge(e, eTilde []elgamal.Cipher, cPerm, cChain []*big.Int,
	pk *elgamal.PublicKey, t *Commitments,
) *big.Int {
	h := newHasher(tagProofChallenge)
	h.writeCiphers(e)
	h.writeCiphers(eTilde)
	h.writeVec(cPerm)
	h.writeVec(cChain)
	h.writeInt(pk.H)
	h.writeInt(t.T1)
	h.writeInt(t.T2)
	h.writeInt(t.T3)
	h.writeInt(t.T41)
	h.writeInt(t.T42)
	h.writeVec(t.THat)
	return h.challenge()
}
