package store

import (
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vilterp/lambdakernel/pkg/lang"
)

var (
	termsBucket    = []byte("terms")
	proofsBucket   = []byte("proofs")
	verdictsBucket = []byte("verdicts")
)

// BoltStore persists encoded terms and proofs in a bolt file:
//
//	terms:    term hash -> term encoding
//	proofs:   proof id -> proof encoding
//	verdicts: hash(A) ++ hash(B) -> proof id
type BoltStore struct {
	db *bolt.DB
}

var _ Store = &BoltStore{}

func OpenBoltStore(dataFile string) (*BoltStore, error) {
	db, err := bolt.Open(dataFile, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dataFile)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{termsBucket, proofsBucket, verdictsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating buckets")
	}
	return &BoltStore{db: db}, nil
}

func putTerm(tx *bolt.Tx, t lang.Term) (lang.Hash, error) {
	encoded, err := lang.EncodeTerm(t)
	if err != nil {
		return lang.Hash{}, err
	}
	h := lang.HashTerm(t)
	bucket := tx.Bucket(termsBucket)
	if bucket.Get(h[:]) != nil {
		return h, nil
	}
	return h, bucket.Put(h[:], encoded)
}

func (s *BoltStore) PutTerm(t lang.Term) (lang.Hash, error) {
	var h lang.Hash
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		h, err = putTerm(tx, t)
		return err
	})
	return h, err
}

func (s *BoltStore) GetTerm(h lang.Hash) (lang.Term, error) {
	var t lang.Term
	err := s.db.View(func(tx *bolt.Tx) error {
		encoded := tx.Bucket(termsBucket).Get(h[:])
		if encoded == nil {
			return errors.Wrapf(ErrNotFound, "term %s", h)
		}
		var err error
		t, err = lang.DecodeTerm(encoded)
		return errors.Wrapf(err, "decoding term %s", h)
	})
	return t, err
}

func (s *BoltStore) PutProof(p *lang.Proof) (uuid.UUID, error) {
	encoded, err := lang.EncodeProof(p)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	err = s.db.Update(func(tx *bolt.Tx) error {
		hashA, err := putTerm(tx, p.A())
		if err != nil {
			return err
		}
		hashB, err := putTerm(tx, p.B())
		if err != nil {
			return err
		}
		if err := tx.Bucket(proofsBucket).Put(id[:], encoded); err != nil {
			return err
		}
		if Replayable(p) {
			return tx.Bucket(verdictsBucket).Put(verdictKey(hashA, hashB), id[:])
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "storing proof")
	}
	return id, nil
}

func getProof(tx *bolt.Tx, id uuid.UUID) (*lang.Proof, error) {
	encoded := tx.Bucket(proofsBucket).Get(id[:])
	if encoded == nil {
		return nil, errors.Wrapf(ErrNotFound, "proof %s", id)
	}
	p, err := lang.DecodeProof(encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding proof %s", id)
	}
	return p, nil
}

func (s *BoltStore) GetProof(id uuid.UUID) (*lang.Proof, error) {
	var p *lang.Proof
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		p, err = getProof(tx, id)
		return err
	})
	return p, err
}

func (s *BoltStore) LookupVerdict(a lang.Hash, b lang.Hash) (*lang.Proof, uuid.UUID, bool, error) {
	var p *lang.Proof
	var id uuid.UUID
	err := s.db.View(func(tx *bolt.Tx) error {
		rawID := tx.Bucket(verdictsBucket).Get(verdictKey(a, b))
		if rawID == nil {
			return nil
		}
		var err error
		if id, err = uuid.FromBytes(rawID); err != nil {
			return err
		}
		p, err = getProof(tx, id)
		return err
	})
	if err != nil {
		return nil, uuid.Nil, false, err
	}
	return p, id, p != nil, nil
}

func (s *BoltStore) NumProofs() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(proofsBucket).Stats().KeyN
		return nil
	})
	return count, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
