package shuffle

import (
	"math/big"

	"github.com/provotum/mixnet-node/crypto/arith"
)

// Generators deterministically derives size independent generators of the
// quadratic residue subgroup of Z*_p, domain-separated by the election id
// and the position. Both mixer and verifiers derive the same vector from
// the same (id, p, size); candidates are squared into the subgroup and
// rejected until they exceed one.
func Generators(id uint32, p *big.Int, size int) []*big.Int {
	one := big.NewInt(1)
	gens := make([]*big.Int, size)
	for i := range size {
		for counter := uint32(0); ; counter++ {
			h := newHasher(tagGenerators)
			h.writeUint32(id)
			h.writeUint32(uint32(i))
			h.writeUint32(counter)
			x := new(big.Int).SetBytes(h.sum())
			x.Mod(x, p)
			candidate := arith.ModMul(x, x, p)
			if candidate.Cmp(one) > 0 {
				gens[i] = candidate
				break
			}
		}
	}
	return gens
}
