package store

// NullStore is a read-only empty store. Every read misses; writes are a
// construction bug and abort rather than silently discarding data that
// a caller believes was persisted.
type NullStore struct{}

// Get always returns nil, nil.
func (NullStore) Get(key []byte) ([]byte, error) { return nil, nil }

// GetNext always returns nil, nil.
func (NullStore) GetNext(key []byte) (*KV, error) { return nil, nil }

// Put panics: NullStore is read-only.
func (NullStore) Put(key, value []byte) error {
	panic("store: Put called on read-only NullStore")
}

// Delete panics: NullStore is read-only.
func (NullStore) Delete(key []byte) error {
	panic("store: Delete called on read-only NullStore")
}
