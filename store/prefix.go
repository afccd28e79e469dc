package store

import "bytes"

// Store is a handle to a region of a KVStore identified by a key
// prefix. Nested state types each receive a Sub-store so their keys
// cannot collide, while all data lives in one underlying ordered store.
// A Store with an empty prefix is a transparent view of its backing.
type Store struct {
	backing KVStore
	prefix  []byte
}

// NewStore creates a root Store over backing with an empty prefix.
func NewStore(backing KVStore) *Store {
	return &Store{backing: backing}
}

// Sub returns a child Store whose keys are nested under the given
// prefix, appended to this store's own prefix.
func (s *Store) Sub(prefix []byte) *Store {
	p := make([]byte, 0, len(s.prefix)+len(prefix))
	p = append(p, s.prefix...)
	p = append(p, prefix...)
	return &Store{backing: s.backing, prefix: p}
}

// Backing returns the underlying KVStore.
func (s *Store) Backing() KVStore {
	return s.backing
}

func (s *Store) key(key []byte) []byte {
	if len(s.prefix) == 0 {
		return key
	}
	k := make([]byte, 0, len(s.prefix)+len(key))
	k = append(k, s.prefix...)
	return append(k, key...)
}

// Get retrieves the value for a key within the prefix region.
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.backing.Get(s.key(key))
}

// GetNext returns the strict successor entry within the prefix region,
// with the prefix stripped from the returned key.
func (s *Store) GetNext(key []byte) (*KV, error) {
	kv, err := s.backing.GetNext(s.key(key))
	if err != nil {
		return nil, err
	}
	if kv == nil || !bytes.HasPrefix(kv.Key, s.prefix) {
		return nil, nil
	}
	return &KV{Key: kv.Key[len(s.prefix):], Value: kv.Value}, nil
}

// Put stores a key-value pair within the prefix region.
func (s *Store) Put(key, value []byte) error {
	return s.backing.Put(s.key(key), value)
}

// Delete removes a key within the prefix region.
func (s *Store) Delete(key []byte) error {
	return s.backing.Delete(s.key(key))
}
