// Package store provides the byte-oriented key-value storage
// abstraction underlying all typed state.
package store

import "errors"

// KV is a raw key-value pair.
type KV struct {
	Key   []byte
	Value []byte
}

// KVStore is an ordered mapping from byte keys to byte values, ordered
// by byte-lexicographic comparison. Mutation is immediate; there are no
// implicit transactions. Implementations are single-threaded by
// contract: concurrent use of one instance requires external
// synchronization.
type KVStore interface {
	// Get retrieves the value for a key.
	// Returns nil, nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	// GetNext returns the entry with the lexicographically smallest key
	// strictly greater than key, or nil if there is none.
	GetNext(key []byte) (*KV, error)

	// Put stores a key-value pair, overwriting any existing value.
	Put(key, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key []byte) error
}

// Store errors.
var (
	// ErrDowncast is returned when a BackingStore is converted to a
	// concrete store type that does not match its variant.
	ErrDowncast = errors.New("store: backing store variant mismatch")
)

// successor returns the smallest byte string strictly greater than key
// in lexicographic order, which is key with a zero byte appended.
func successor(key []byte) []byte {
	s := make([]byte, len(key)+1)
	copy(s, key)
	return s
}
