package merkle

import (
	"fmt"

	"github.com/blockberries/stateberry/store"
)

// ProofStore is a read-only store.KVStore over a verified mapping. It
// backs state reconstructed on a client from a remote node's proof.
type ProofStore struct {
	verified *VerifiedMap
}

// NewProofStore wraps an already-verified mapping.
func NewProofStore(verified *VerifiedMap) *ProofStore {
	return &ProofStore{verified: verified}
}

// Get retrieves the proven value for a key. Reading a key the proof
// does not cover returns ErrNotProven: partial proofs must never be
// mistaken for proofs of absence.
func (s *ProofStore) Get(key []byte) ([]byte, error) {
	value, ok := s.verified.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %x", ErrNotProven, key)
	}
	return value, nil
}

// GetNext returns the proven entry with the smallest key strictly
// greater than key, or nil if the proof covers none.
func (s *ProofStore) GetNext(key []byte) (*store.KV, error) {
	return s.verified.GetNext(key), nil
}

// Put panics: ProofStore is read-only.
func (s *ProofStore) Put(key, value []byte) error {
	panic("merkle: Put called on read-only ProofStore")
}

// Delete panics: ProofStore is read-only.
func (s *ProofStore) Delete(key []byte) error {
	panic("merkle: Delete called on read-only ProofStore")
}

// ProofBuilder wraps a MerkleStore and records every key touched by
// reads, so a query can be executed once and then proven with a payload
// covering exactly the state it accessed.
type ProofBuilder struct {
	store *MerkleStore
	keys  [][]byte
	seen  map[string]struct{}
}

// NewProofBuilder creates a recording wrapper around a merkle store.
func NewProofBuilder(s *MerkleStore) *ProofBuilder {
	return &ProofBuilder{
		store: s,
		seen:  make(map[string]struct{}),
	}
}

func (b *ProofBuilder) record(key []byte) {
	if _, ok := b.seen[string(key)]; ok {
		return
	}
	b.seen[string(key)] = struct{}{}
	k := make([]byte, len(key))
	copy(k, key)
	b.keys = append(b.keys, k)
}

// Get reads from the underlying store and records the key.
func (b *ProofBuilder) Get(key []byte) ([]byte, error) {
	b.record(key)
	return b.store.Get(key)
}

// GetNext reads the strict successor and records the returned key, so
// range scans are reproducible from the proof.
func (b *ProofBuilder) GetNext(key []byte) (*store.KV, error) {
	kv, err := b.store.GetNext(key)
	if err != nil {
		return nil, err
	}
	if kv != nil {
		b.record(kv.Key)
	}
	return kv, nil
}

// Put panics: ProofBuilder is read-only.
func (b *ProofBuilder) Put(key, value []byte) error {
	panic("merkle: Put called on read-only ProofBuilder")
}

// Delete panics: ProofBuilder is read-only.
func (b *ProofBuilder) Delete(key []byte) error {
	panic("merkle: Delete called on read-only ProofBuilder")
}

// Build assembles the proof payload for all recorded keys.
func (b *ProofBuilder) Build() ([]byte, error) {
	return b.store.BuildProof(b.keys)
}
