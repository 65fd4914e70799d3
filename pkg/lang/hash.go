package lang

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash is the BLAKE3-256 digest of a canonical encoding.
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func ParseHash(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(raw) != len(h) {
		return h, &DecodeError{Offset: len(raw), Reason: "hash must be 32 bytes"}
	}
	copy(h[:], raw)
	return h, nil
}

type Hashable interface {
	GetHash() Hash
}

// HashTerm returns the content address of t. Structurally equal terms hash
// equally regardless of how their subterms are shared.
func HashTerm(t Term) Hash {
	return blake3.Sum256(MustEncodeTerm(t))
}

// GetHash returns the content address of the proof's canonical encoding.
func (p *Proof) GetHash() Hash {
	return blake3.Sum256(MustEncodeProof(p))
}

var _ Hashable = &Proof{}
