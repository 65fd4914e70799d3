// Package store keeps terms and proofs by content address, and remembers
// conclusive verdicts so a repeated verification can be answered without
// reducing again.
package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vilterp/lambdakernel/pkg/lang"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	PutTerm(t lang.Term) (lang.Hash, error)
	GetTerm(h lang.Hash) (lang.Term, error)

	// PutProof records p along with both of its subjects and returns the
	// proof's new ID.
	PutProof(p *lang.Proof) (uuid.UUID, error)
	GetProof(id uuid.UUID) (*lang.Proof, error)

	// LookupVerdict returns a previously stored conclusive proof about the
	// subjects hashing to a and b, if there is one.
	LookupVerdict(a lang.Hash, b lang.Hash) (*lang.Proof, uuid.UUID, bool, error)

	NumProofs() (int, error)
	Close() error
}

// Replayable reports whether p's verdict holds independent of the fuel it
// was produced under. Inconclusive verdicts depend on fuel, and
// inconsistency certificates are about a single subject.
func Replayable(p *lang.Proof) bool {
	switch p.Verdict().(type) {
	case *lang.Equivalent, *lang.NotEquivalent:
		return true
	default:
		return false
	}
}

func verdictKey(a lang.Hash, b lang.Hash) []byte {
	key := make([]byte, 0, len(a)+len(b))
	key = append(key, a[:]...)
	return append(key, b[:]...)
}
