// Package merkle provides the merkleized storage backend, the proof
// wire format, and the read-only stores reconstructed from verified
// proofs.
package merkle

import (
	"fmt"

	"github.com/cosmos/iavl"
	idb "github.com/cosmos/iavl/db"

	"github.com/blockberries/stateberry/metrics"
	"github.com/blockberries/stateberry/store"
)

// MerkleStore is a mutable store.KVStore backed by a cosmos/iavl merkle
// tree. Mutations apply to the working tree immediately and are
// persisted by Commit. Like all KVStore implementations it is
// single-threaded by contract; wrap it externally for concurrent use.
type MerkleStore struct {
	tree    *iavl.MutableTree
	db      idb.DB
	metrics metrics.Metrics
}

// keyTag prefixes every key stored in the tree. The root state entry
// lives at the empty store key, and ICS23 cannot prove membership of
// an empty tree key; a constant tag makes every tree key non-empty.
// Prepending a constant byte preserves lexicographic order, so GetNext
// semantics carry over unchanged.
const keyTag byte = 0x01

// treeKey maps a store key to its tagged tree key.
func treeKey(key []byte) []byte {
	tk := make([]byte, len(key)+1)
	tk[0] = keyTag
	copy(tk[1:], key)
	return tk
}

// NewMerkleStore creates a merkle store persisted under path using
// leveldb. cacheSize is the number of tree nodes cached in memory.
func NewMerkleStore(path string, cacheSize int) (*MerkleStore, error) {
	db, err := idb.NewGoLevelDB("state", path)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb for merkle store: %w", err)
	}

	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger())

	// Load the latest version if it exists
	if _, err := tree.Load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading merkle tree: %w", err)
	}

	return &MerkleStore{
		tree:    tree,
		db:      db,
		metrics: metrics.NewNopMetrics(),
	}, nil
}

// NewMemoryMerkleStore creates an in-memory merkle store for testing.
func NewMemoryMerkleStore(cacheSize int) (*MerkleStore, error) {
	db := idb.NewMemDB()
	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger())

	return &MerkleStore{
		tree:    tree,
		db:      db,
		metrics: metrics.NewNopMetrics(),
	}, nil
}

// SetMetrics replaces the metrics sink. Defaults to a no-op sink.
func (s *MerkleStore) SetMetrics(m metrics.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Get retrieves the value for a key. Returns nil, nil on a miss.
func (s *MerkleStore) Get(key []byte) ([]byte, error) {
	s.metrics.StateStoreGet()

	value, err := s.tree.Get(treeKey(key))
	if err != nil {
		return nil, fmt.Errorf("getting key: %w", err)
	}
	return value, nil
}

// GetNext returns the entry with the smallest key strictly greater than
// key, or nil if there is none.
func (s *MerkleStore) GetNext(key []byte) (*store.KV, error) {
	s.metrics.StateStoreGet()

	start := append(treeKey(key), 0)

	itr, err := s.tree.Iterator(start, nil, true)
	if err != nil {
		return nil, fmt.Errorf("creating iterator: %w", err)
	}
	defer itr.Close()

	if !itr.Valid() {
		return nil, itr.Error()
	}

	// Strip the tree key tag before handing the entry back.
	tk := itr.Key()
	k := make([]byte, len(tk)-1)
	copy(k, tk[1:])
	v := make([]byte, len(itr.Value()))
	copy(v, itr.Value())
	return &store.KV{Key: k, Value: v}, nil
}

// Put stores a key-value pair in the working tree.
func (s *MerkleStore) Put(key, value []byte) error {
	if key == nil {
		return fmt.Errorf("key cannot be nil")
	}
	if value == nil {
		return fmt.Errorf("value cannot be nil")
	}

	s.metrics.StateStoreSet()

	// The tree retains both slices; treeKey already copies the key, and
	// the value is copied here so callers may reuse their buffers.
	v := make([]byte, len(value))
	copy(v, value)

	if _, err := s.tree.Set(treeKey(key), v); err != nil {
		return fmt.Errorf("setting key: %w", err)
	}
	return nil
}

// Delete removes a key from the working tree. Deleting an absent key is
// not an error.
func (s *MerkleStore) Delete(key []byte) error {
	if key == nil {
		return fmt.Errorf("key cannot be nil")
	}

	s.metrics.StateStoreDelete()

	if _, _, err := s.tree.Remove(treeKey(key)); err != nil {
		return fmt.Errorf("removing key: %w", err)
	}
	return nil
}

// Commit saves the current working tree as a new version.
// Returns the root hash and version number.
func (s *MerkleStore) Commit() ([]byte, int64, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return nil, 0, fmt.Errorf("saving version: %w", err)
	}
	s.metrics.StateStoreCommit(version)
	return hash, version, nil
}

// RootHash returns the root hash of the current working tree,
// reflecting uncommitted changes.
func (s *MerkleStore) RootHash() []byte {
	return s.tree.WorkingHash()
}

// Version returns the latest committed version number.
// Returns 0 if no versions have been committed.
func (s *MerkleStore) Version() int64 {
	return s.tree.Version()
}

// LoadVersion loads a specific version of the tree. All subsequent
// operations are based on this version.
func (s *MerkleStore) LoadVersion(version int64) error {
	if _, err := s.tree.LoadVersion(version); err != nil {
		return fmt.Errorf("loading version %d: %w", version, err)
	}
	return nil
}

// VersionExists checks if a specific version exists.
func (s *MerkleStore) VersionExists(version int64) bool {
	return s.tree.VersionExists(version)
}

// Close closes the store and releases resources.
func (s *MerkleStore) Close() error {
	return s.db.Close()
}
