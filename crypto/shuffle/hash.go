package shuffle

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math/big"

	"github.com/provotum/mixnet-node/crypto/elgamal"
)

// ChallengeBitLen is the bit length tau of every challenge scalar. All
// challenges produced by this package lie in [0, 2^ChallengeBitLen).
const ChallengeBitLen = 128

// Domain separation tags for the three hash derivations. Changing any of
// these, or the write order below, changes every challenge and breaks
// compatibility with existing transcripts.
const (
	tagGenerators     = "provotum/shuffle/generators"
	tagChallenges     = "provotum/shuffle/challenges"
	tagProofChallenge = "provotum/shuffle/proof-challenge"
)

// hasher wraps SHA-256 with the canonical integer encoding used by the
// shuffle protocol: every integer is written as a 4-byte big-endian length
// prefix followed by its big-endian magnitude, vectors are prefixed with a
// 4-byte element count, and ciphertexts contribute a then b.
type hasher struct {
	h hash.Hash
}

func newHasher(domain string) *hasher {
	h := &hasher{h: sha256.New()}
	h.writeBytes([]byte(domain))
	return h
}

func (h *hasher) writeBytes(b []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	h.h.Write(l[:])
	h.h.Write(b)
}

func (h *hasher) writeUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	h.h.Write(b[:])
}

func (h *hasher) writeInt(x *big.Int) {
	h.writeBytes(x.Bytes())
}

func (h *hasher) writeVec(xs []*big.Int) {
	h.writeUint32(uint32(len(xs)))
	for _, x := range xs {
		h.writeInt(x)
	}
}

func (h *hasher) writeCiphers(es []elgamal.Cipher) {
	h.writeUint32(uint32(len(es)))
	for _, e := range es {
		h.writeInt(e.A)
		h.writeInt(e.B)
	}
}

func (h *hasher) sum() []byte {
	return h.h.Sum(nil)
}

// challenge truncates the digest to ChallengeBitLen bits, yielding a scalar
// in [0, 2^ChallengeBitLen).
func (h *hasher) challenge() *big.Int {
	return new(big.Int).SetBytes(h.sum()[:ChallengeBitLen/8])
}
