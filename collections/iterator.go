package collections

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/blockberries/stateberry/merkle"
	"github.com/blockberries/stateberry/store"
)

// Iterator is a lazy, finite, one-pass scan over a Map's entries in
// ascending key order. Usage:
//
//	for it := m.Iterate(); it.Valid(); it.Next() {
//		k, v := it.Key(), it.Value()
//	}
//	if err := it.Err(); err != nil { ... }
//
// Stored bytes must always decode as the declared types; a decode
// failure during iteration is a fatal contract violation and panics.
type Iterator[K, V any] struct {
	m   *Map[K, V]
	cur *store.KV
	end *rangeBound[K]
	err error
}

func newIterator[K, V any](m *Map[K, V], r Range[K]) *Iterator[K, V] {
	it := &Iterator[K, V]{m: m, end: r.end}

	if r.start == nil {
		it.seek(nil, true)
		return it
	}
	startBytes, err := m.encodeKey(r.start.key)
	if err != nil {
		it.err = err
		return it
	}
	// encodeKey returns a view of the shared fixed buffer; the seek
	// target must survive later encodes.
	start := make([]byte, len(startBytes))
	copy(start, startBytes)
	it.seek(start, r.start.inclusive)
	return it
}

// seek positions the iterator at the first entry with key >= from
// (inclusive) or key > from (exclusive), then applies the end bound.
func (it *Iterator[K, V]) seek(from []byte, inclusive bool) {
	if inclusive {
		value, err := it.m.store.Get(from)
		switch {
		case errors.Is(err, merkle.ErrNotProven):
			// A verified snapshot answers Get only for proven keys.
			// The scan itself runs on GetNext, which yields proven
			// entries, so skip the inclusive probe.
		case err != nil:
			it.err = err
			return
		case value != nil:
			it.cur = &store.KV{Key: from, Value: value}
			it.clamp()
			return
		}
	}
	kv, err := it.m.store.GetNext(from)
	if err != nil {
		it.err = err
		return
	}
	it.cur = kv
	it.clamp()
}

// clamp clears the current entry if it lies beyond the end bound.
func (it *Iterator[K, V]) clamp() {
	if it.cur == nil || it.end == nil {
		return
	}
	endBytes, err := it.m.encodeKey(it.end.key)
	if err != nil {
		it.err = err
		it.cur = nil
		return
	}
	cmp := bytes.Compare(it.cur.Key, endBytes)
	if cmp > 0 || (cmp == 0 && !it.end.inclusive) {
		it.cur = nil
	}
}

// Valid reports whether the iterator is positioned at an entry.
func (it *Iterator[K, V]) Valid() bool {
	return it.err == nil && it.cur != nil
}

// Next advances to the entry with the next greater key.
func (it *Iterator[K, V]) Next() {
	if !it.Valid() {
		return
	}
	it.seek(it.cur.Key, false)
}

// Key decodes and returns the current entry's key.
func (it *Iterator[K, V]) Key() K {
	key, _, err := it.m.kc.DecodeNext(it.cur.Key)
	if err != nil {
		panic(fmt.Sprintf("collections: stored key %x failed to decode: %v", it.cur.Key, err))
	}
	return key
}

// Value decodes and returns the current entry's value.
func (it *Iterator[K, V]) Value() V {
	value, err := it.m.vc.Decode(it.cur.Value)
	if err != nil {
		panic(fmt.Sprintf("collections: stored value for key %x failed to decode: %v", it.cur.Key, err))
	}
	return value
}

// Err returns the first store error encountered, if any.
func (it *Iterator[K, V]) Err() error {
	return it.err
}
