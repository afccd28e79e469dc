package merkle

import (
	"fmt"

	"github.com/blockberries/stateberry/store"
)

// Kind identifies the concrete implementation behind a BackingStore.
type Kind int

// BackingStore variants.
const (
	// KindNull is the read-only empty store.
	KindNull Kind = iota

	// KindMemory is the mutable in-memory map store.
	KindMemory

	// KindMerkle is the mutable merkle-tree-backed store.
	KindMerkle

	// KindBuilder is the read-only proof-recording wrapper around a
	// merkle store.
	KindBuilder

	// KindProof is the read-only store reconstructed from a verified
	// proof.
	KindProof
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindMemory:
		return "Memory"
	case KindMerkle:
		return "Merkle"
	case KindBuilder:
		return "Builder"
	case KindProof:
		return "Proof"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// BackingStore is a closed union over the concrete store
// implementations, so the rest of the system can hold one value type
// regardless of which backend it runs against. Every operation
// dispatches with a direct variant switch. Writes against a read-only
// variant panic: accepting them silently would mask state divergence
// between a client and the chain.
type BackingStore struct {
	kind    Kind
	memory  *store.MapStore
	merkle  *MerkleStore
	builder *ProofBuilder
	proof   *ProofStore
	null    store.NullStore
}

// NullBacking returns the read-only empty variant. It is the zero-value
// default for detached state.
func NullBacking() *BackingStore {
	return &BackingStore{kind: KindNull}
}

// MemoryBacking wraps a mutable in-memory store.
func MemoryBacking(s *store.MapStore) *BackingStore {
	return &BackingStore{kind: KindMemory, memory: s}
}

// MerkleBacking wraps a mutable merkle-tree-backed store.
func MerkleBacking(s *MerkleStore) *BackingStore {
	return &BackingStore{kind: KindMerkle, merkle: s}
}

// BuilderBacking wraps a proof-recording read-only store.
func BuilderBacking(b *ProofBuilder) *BackingStore {
	return &BackingStore{kind: KindBuilder, builder: b}
}

// ProofBacking wraps a read-only proof-reconstructed store.
func ProofBacking(p *ProofStore) *BackingStore {
	return &BackingStore{kind: KindProof, proof: p}
}

// Kind returns the active variant.
func (b *BackingStore) Kind() Kind {
	return b.kind
}

// Get retrieves the value for a key from the active variant.
func (b *BackingStore) Get(key []byte) ([]byte, error) {
	switch b.kind {
	case KindMemory:
		return b.memory.Get(key)
	case KindMerkle:
		return b.merkle.Get(key)
	case KindBuilder:
		return b.builder.Get(key)
	case KindProof:
		return b.proof.Get(key)
	default:
		return b.null.Get(key)
	}
}

// GetNext returns the strict successor entry from the active variant.
func (b *BackingStore) GetNext(key []byte) (*store.KV, error) {
	switch b.kind {
	case KindMemory:
		return b.memory.GetNext(key)
	case KindMerkle:
		return b.merkle.GetNext(key)
	case KindBuilder:
		return b.builder.GetNext(key)
	case KindProof:
		return b.proof.GetNext(key)
	default:
		return b.null.GetNext(key)
	}
}

// Put stores a key-value pair. Panics on read-only variants.
func (b *BackingStore) Put(key, value []byte) error {
	switch b.kind {
	case KindMemory:
		return b.memory.Put(key, value)
	case KindMerkle:
		return b.merkle.Put(key, value)
	case KindBuilder:
		return b.builder.Put(key, value)
	case KindProof:
		return b.proof.Put(key, value)
	default:
		return b.null.Put(key, value)
	}
}

// Delete removes a key. Panics on read-only variants.
func (b *BackingStore) Delete(key []byte) error {
	switch b.kind {
	case KindMemory:
		return b.memory.Delete(key)
	case KindMerkle:
		return b.merkle.Delete(key)
	case KindBuilder:
		return b.builder.Delete(key)
	case KindProof:
		return b.proof.Delete(key)
	default:
		return b.null.Delete(key)
	}
}

// AsMapStore downcasts to the in-memory variant.
func (b *BackingStore) AsMapStore() (*store.MapStore, error) {
	if b.kind != KindMemory {
		return nil, fmt.Errorf("%w: have %s, want Memory", store.ErrDowncast, b.kind)
	}
	return b.memory, nil
}

// AsMerkleStore downcasts to the merkle-backed variant.
func (b *BackingStore) AsMerkleStore() (*MerkleStore, error) {
	if b.kind != KindMerkle {
		return nil, fmt.Errorf("%w: have %s, want Merkle", store.ErrDowncast, b.kind)
	}
	return b.merkle, nil
}

// AsProofBuilder downcasts to the proof-recording variant.
func (b *BackingStore) AsProofBuilder() (*ProofBuilder, error) {
	if b.kind != KindBuilder {
		return nil, fmt.Errorf("%w: have %s, want Builder", store.ErrDowncast, b.kind)
	}
	return b.builder, nil
}

// AsProofStore downcasts to the proof-reconstructed variant.
func (b *BackingStore) AsProofStore() (*ProofStore, error) {
	if b.kind != KindProof {
		return nil, fmt.Errorf("%w: have %s, want Proof", store.ErrDowncast, b.kind)
	}
	return b.proof, nil
}
