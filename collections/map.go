// Package collections provides typed, ordered collections layered over
// a raw byte store. A Map binds a key codec and a value codec to a
// store region; an EntryMap stores composite records split into a key
// portion and a value portion.
package collections

import (
	"errors"
	"fmt"
	"io"

	"github.com/blockberries/stateberry/codec"
	"github.com/blockberries/stateberry/store"
)

// MaxKeySize is the size of the fixed key encoding buffer. Encoded keys
// longer than this are a configuration error and fail at encode time.
const MaxKeySize = 256

// Collection errors.
var (
	// ErrKeyTooLarge indicates an encoded key exceeded MaxKeySize.
	ErrKeyTooLarge = errors.New("collections: encoded key exceeds fixed buffer")
)

// Map is a typed ordered dictionary over a Store. Iteration yields
// entries in ascending encoded-key order, which the key codec
// guarantees matches the natural ordering of decoded keys.
type Map[K, V any] struct {
	store  *store.Store
	kc     codec.KeyCodec[K]
	vc     codec.Codec[V]
	keyBuf [MaxKeySize]byte
}

// NewMap creates a detached Map with the given codecs. It must be
// attached to a store before use; until then it is backed by the
// read-only empty store.
func NewMap[K, V any](kc codec.KeyCodec[K], vc codec.Codec[V]) *Map[K, V] {
	return &Map[K, V]{
		store: store.NewStore(store.NullStore{}),
		kc:    kc,
		vc:    vc,
	}
}

// Attach binds the map to a store region.
func (m *Map[K, V]) Attach(s *store.Store) error {
	m.store = s
	return nil
}

// Flush implements the state capability. Map writes through on every
// mutation, so there is nothing to flush.
func (m *Map[K, V]) Flush(io.Writer) error {
	return nil
}

// encodeKey encodes key into the fixed buffer and returns the occupied
// prefix. Encodings longer than MaxKeySize fail fast rather than
// corrupting the buffer.
func (m *Map[K, V]) encodeKey(key K) ([]byte, error) {
	kb, err := m.kc.Encode(key)
	if err != nil {
		return nil, fmt.Errorf("encoding key: %w", err)
	}
	if len(kb) > MaxKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrKeyTooLarge, len(kb))
	}
	n := copy(m.keyBuf[:], kb)
	return m.keyBuf[:n], nil
}

// Insert encodes key and value and writes them unconditionally,
// overwriting any existing value.
func (m *Map[K, V]) Insert(key K, value V) error {
	kb, err := m.encodeKey(key)
	if err != nil {
		return err
	}
	vb, err := m.vc.Encode(value)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}
	return m.store.Put(kb, vb)
}

// Get returns the value stored under key. The second return is false
// when the key is absent.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	var zero V
	kb, err := m.encodeKey(key)
	if err != nil {
		return zero, false, err
	}
	vb, err := m.store.Get(kb)
	if err != nil {
		return zero, false, err
	}
	if vb == nil {
		return zero, false, nil
	}
	value, err := m.vc.Decode(vb)
	if err != nil {
		return zero, false, fmt.Errorf("decoding value: %w", err)
	}
	return value, true, nil
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) (bool, error) {
	kb, err := m.encodeKey(key)
	if err != nil {
		return false, err
	}
	vb, err := m.store.Get(kb)
	if err != nil {
		return false, err
	}
	return vb != nil, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *Map[K, V]) Delete(key K) error {
	kb, err := m.encodeKey(key)
	if err != nil {
		return err
	}
	return m.store.Delete(kb)
}

// Iterate returns an iterator over all entries in ascending key order.
func (m *Map[K, V]) Iterate() *Iterator[K, V] {
	return newIterator(m, Range[K]{})
}

// IterateFrom returns an iterator seeded at the first key >= start.
func (m *Map[K, V]) IterateFrom(start K) *Iterator[K, V] {
	return newIterator(m, Range[K]{}.StartInclusive(start))
}

// Range returns an iterator restricted to the given key interval.
func (m *Map[K, V]) Range(r Range[K]) *Iterator[K, V] {
	return newIterator(m, r)
}
