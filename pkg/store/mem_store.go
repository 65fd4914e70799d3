package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vilterp/lambdakernel/pkg/lang"
)

type MemStore struct {
	mu       sync.RWMutex
	terms    map[lang.Hash]lang.Term
	proofs   map[uuid.UUID]*lang.Proof
	verdicts map[string]uuid.UUID
}

var _ Store = &MemStore{}

func NewMemStore() *MemStore {
	return &MemStore{
		terms:    map[lang.Hash]lang.Term{},
		proofs:   map[uuid.UUID]*lang.Proof{},
		verdicts: map[string]uuid.UUID{},
	}
}

func (s *MemStore) PutTerm(t lang.Term) (lang.Hash, error) {
	if err := lang.CheckWellFormed(t, lang.Open); err != nil {
		return lang.Hash{}, err
	}
	h := lang.HashTerm(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[h] = t
	return h, nil
}

func (s *MemStore) GetTerm(h lang.Hash) (lang.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[h]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "term %s", h)
	}
	return t, nil
}

func (s *MemStore) PutProof(p *lang.Proof) (uuid.UUID, error) {
	hashA, err := s.PutTerm(p.A())
	if err != nil {
		return uuid.Nil, err
	}
	hashB, err := s.PutTerm(p.B())
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proofs[id] = p
	if Replayable(p) {
		s.verdicts[string(verdictKey(hashA, hashB))] = id
	}
	return id, nil
}

func (s *MemStore) GetProof(id uuid.UUID) (*lang.Proof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proofs[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "proof %s", id)
	}
	return p, nil
}

func (s *MemStore) LookupVerdict(a lang.Hash, b lang.Hash) (*lang.Proof, uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.verdicts[string(verdictKey(a, b))]
	if !ok {
		return nil, uuid.Nil, false, nil
	}
	return s.proofs[id], id, true, nil
}

func (s *MemStore) NumProofs() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.proofs), nil
}

func (s *MemStore) Close() error {
	return nil
}
