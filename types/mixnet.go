package types

import (
	"math/big"

	"github.com/provotum/mixnet-node/crypto/elgamal"
	"github.com/provotum/mixnet-node/crypto/shuffle"
)

// VoteID identifies an election on the chain.
type VoteID string

// TopicID identifies a question within an election; every topic carries its
// own list of encrypted answers.
type TopicID string

// ElectionParams are the public group parameters of an election, stored on
// the chain at setup time. The election id seeds the derivation of the
// independent generators used by the shuffle proofs.
type ElectionParams struct {
	ID uint32  `json:"id"`
	P  *BigInt `json:"p"`
	G  *BigInt `json:"g"`
	H  *BigInt `json:"h"`
}

// Params converts the wire representation into crypto-layer parameters.
func (ep *ElectionParams) Params() *elgamal.Params {
	return &elgamal.Params{
		P: ep.P.MathBigInt(),
		G: ep.G.MathBigInt(),
		H: ep.H.MathBigInt(),
	}
}

// Cipher is the wire representation of an ElGamal encryption.
type Cipher struct {
	A *BigInt `json:"a"`
	B *BigInt `json:"b"`
}

// CipherFromCrypto wraps a crypto-layer ciphertext.
func CipherFromCrypto(e elgamal.Cipher) Cipher {
	return Cipher{A: FromBigInt(e.A), B: FromBigInt(e.B)}
}

// Crypto converts the wire ciphertext into its crypto-layer form.
func (c Cipher) Crypto() elgamal.Cipher {
	return elgamal.Cipher{A: c.A.MathBigInt(), B: c.B.MathBigInt()}
}

// CiphersFromCrypto converts a ciphertext list into its wire form.
func CiphersFromCrypto(es []elgamal.Cipher) []Cipher {
	out := make([]Cipher, len(es))
	for i, e := range es {
		out[i] = CipherFromCrypto(e)
	}
	return out
}

// CiphersToCrypto converts a wire ciphertext list into crypto-layer form.
func CiphersToCrypto(cs []Cipher) []elgamal.Cipher {
	out := make([]elgamal.Cipher, len(cs))
	for i, c := range cs {
		out[i] = c.Crypto()
	}
	return out
}

// KeyShareProof is a Schnorr proof of knowledge of the secret key share
// behind a published public key share.
type KeyShareProof struct {
	Challenge *BigInt `json:"challenge"`
	Response  *BigInt `json:"response"`
}

// PublicKeyShare is a sealer's contribution to the distributed encryption
// key, together with its proof of knowledge.
type PublicKeyShare struct {
	PK    *BigInt       `json:"pk"`
	Proof KeyShareProof `json:"proof"`
}

// DecryptionProof proves that a batch of decryption shares was computed
// with the key share behind a sealer's published public key share.
type DecryptionProof struct {
	Challenge *BigInt `json:"challenge"`
	Response  *BigInt `json:"response"`
}

// DecryptPostBody carries a sealer's partial decryptions for a topic.
type DecryptPostBody struct {
	Shares []*BigInt       `json:"shares"`
	Proof  DecryptionProof `json:"proof"`
}

// ShuffleProof is the wire representation of a shuffle proof transcript.
type ShuffleProof struct {
	Challenge *BigInt   `json:"challenge"`
	S1        *BigInt   `json:"s1"`
	S2        *BigInt   `json:"s2"`
	S3        *BigInt   `json:"s3"`
	S4        *BigInt   `json:"s4"`
	SHat      []*BigInt `json:"sHat"`
	STilde    []*BigInt `json:"sTilde"`
	CPerm     []*BigInt `json:"cPerm"`
	CChain    []*BigInt `json:"cChain"`
}

// ShuffleProofFromCrypto wraps a crypto-layer transcript.
func ShuffleProofFromCrypto(p *shuffle.Proof) *ShuffleProof {
	return &ShuffleProof{
		Challenge: FromBigInt(p.Challenge),
		S1:        FromBigInt(p.S1),
		S2:        FromBigInt(p.S2),
		S3:        FromBigInt(p.S3),
		S4:        FromBigInt(p.S4),
		SHat:      vecFromBig(p.SHat),
		STilde:    vecFromBig(p.STilde),
		CPerm:     vecFromBig(p.CPerm),
		CChain:    vecFromBig(p.CChain),
	}
}

// Crypto converts the wire transcript into its crypto-layer form. Missing
// scalar fields become nil values the verifier rejects as malformed.
func (sp *ShuffleProof) Crypto() *shuffle.Proof {
	return &shuffle.Proof{
		Challenge: sp.Challenge.MathBigInt(),
		S1:        sp.S1.MathBigInt(),
		S2:        sp.S2.MathBigInt(),
		S3:        sp.S3.MathBigInt(),
		S4:        sp.S4.MathBigInt(),
		SHat:      vecToBig(sp.SHat),
		STilde:    vecToBig(sp.STilde),
		CPerm:     vecToBig(sp.CPerm),
		CChain:    vecToBig(sp.CChain),
	}
}

// ShufflePayload is the body of a shuffle submission: the shuffled
// ciphertext list and the proof that it is a re-encryption permutation of
// the previous list.
type ShufflePayload struct {
	Ciphers []Cipher      `json:"ciphers"`
	Proof   *ShuffleProof `json:"proof"`
}

func vecFromBig(xs []*big.Int) []*BigInt {
	out := make([]*BigInt, len(xs))
	for i, x := range xs {
		out[i] = FromBigInt(x)
	}
	return out
}

func vecToBig(xs []*BigInt) []*big.Int {
	out := make([]*big.Int, len(xs))
	for i, x := range xs {
		out[i] = x.MathBigInt()
	}
	return out
}
