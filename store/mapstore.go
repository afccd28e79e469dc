package store

import (
	"bytes"

	"github.com/emirpasic/gods/maps/treemap"
)

// MapStore is a mutable in-memory KVStore backed by an ordered tree
// map. It is the default store for tests and for state built up before
// a merkleized backend is attached.
type MapStore struct {
	entries *treemap.Map
}

// NewMapStore creates an empty in-memory store.
func NewMapStore() *MapStore {
	return &MapStore{
		entries: treemap.NewWith(func(a, b interface{}) int {
			return bytes.Compare([]byte(a.(string)), []byte(b.(string)))
		}),
	}
}

// Get retrieves the value for a key. Returns nil, nil on a miss.
func (s *MapStore) Get(key []byte) ([]byte, error) {
	value, ok := s.entries.Get(string(key))
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value.([]byte)))
	copy(out, value.([]byte))
	return out, nil
}

// GetNext returns the entry with the smallest key strictly greater than
// key, or nil if there is none.
func (s *MapStore) GetNext(key []byte) (*KV, error) {
	k, v := s.entries.Ceiling(string(successor(key)))
	if k == nil {
		return nil, nil
	}
	value := make([]byte, len(v.([]byte)))
	copy(value, v.([]byte))
	return &KV{Key: []byte(k.(string)), Value: value}, nil
}

// Put stores a key-value pair, overwriting any existing value.
func (s *MapStore) Put(key, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries.Put(string(key), stored)
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *MapStore) Delete(key []byte) error {
	s.entries.Remove(string(key))
	return nil
}

// Len returns the number of stored entries.
func (s *MapStore) Len() int {
	return s.entries.Size()
}
