package collections

import (
	"bytes"
	"fmt"
	"io"

	"github.com/blockberries/stateberry/codec"
	"github.com/blockberries/stateberry/store"
)

// Entry is the capability letting a composite record be split into a
// key portion and a value portion. The split must be lossless: a record
// is reconstructed from exactly the pair it splits into.
type Entry[K, V any] interface {
	// IntoEntry splits the record into its key and value portions.
	IntoEntry() (K, V)
}

// EntryMap is a typed collection of composite records stored as
// (key portion, value portion) pairs in an underlying Map. Splitting a
// record keeps a single ordered store usable as a typed index without
// duplicating the key fields inside the stored value.
type EntryMap[T Entry[K, V], K, V any] struct {
	m    *Map[K, V]
	from func(K, V) T
}

// NewEntryMap creates a detached EntryMap. from reconstructs a record
// from its key and value portions and must be the inverse of the
// record's IntoEntry.
func NewEntryMap[T Entry[K, V], K, V any](kc codec.KeyCodec[K], vc codec.Codec[V], from func(K, V) T) *EntryMap[T, K, V] {
	return &EntryMap[T, K, V]{
		m:    NewMap[K, V](kc, vc),
		from: from,
	}
}

// Attach binds the collection to a store region.
func (em *EntryMap[T, K, V]) Attach(s *store.Store) error {
	return em.m.Attach(s)
}

// Flush implements the state capability; EntryMap writes through.
func (em *EntryMap[T, K, V]) Flush(w io.Writer) error {
	return em.m.Flush(w)
}

// Insert splits the record and stores it, overwriting any record with
// the same key portion.
func (em *EntryMap[T, K, V]) Insert(entry T) error {
	key, value := entry.IntoEntry()
	return em.m.Insert(key, value)
}

// Delete removes the record with entry's key portion. The value portion
// is ignored, and deleting an absent key is not an error.
func (em *EntryMap[T, K, V]) Delete(entry T) error {
	key, _ := entry.IntoEntry()
	return em.m.Delete(key)
}

// ContainsEntryKey reports whether a record with entry's key portion
// exists, regardless of the stored value. The asymmetry with Contains
// is intentional: existence checks ignore the value portion.
func (em *EntryMap[T, K, V]) ContainsEntryKey(entry T) (bool, error) {
	key, _ := entry.IntoEntry()
	return em.m.Has(key)
}

// Contains reports whether entry's key portion exists AND the stored
// value equals entry's value portion. Equality is decided on canonical
// encodings.
func (em *EntryMap[T, K, V]) Contains(entry T) (bool, error) {
	key, value := entry.IntoEntry()
	stored, ok, err := em.m.Get(key)
	if err != nil || !ok {
		return false, err
	}
	want, err := em.m.vc.Encode(value)
	if err != nil {
		return false, fmt.Errorf("encoding value: %w", err)
	}
	have, err := em.m.vc.Encode(stored)
	if err != nil {
		return false, fmt.Errorf("encoding stored value: %w", err)
	}
	return bytes.Equal(want, have), nil
}

// Iterate returns an iterator over all records in ascending key order.
func (em *EntryMap[T, K, V]) Iterate() *EntryIterator[T, K, V] {
	return &EntryIterator[T, K, V]{it: em.m.Iterate(), from: em.from}
}

// Range returns an iterator restricted to the given key interval.
func (em *EntryMap[T, K, V]) Range(r Range[K]) *EntryIterator[T, K, V] {
	return &EntryIterator[T, K, V]{it: em.m.Range(r), from: em.from}
}

// EntryIterator yields full records reconstructed from stored pairs, in
// the same order as the underlying Map iterator.
type EntryIterator[T Entry[K, V], K, V any] struct {
	it   *Iterator[K, V]
	from func(K, V) T
}

// Valid reports whether the iterator is positioned at a record.
func (it *EntryIterator[T, K, V]) Valid() bool {
	return it.it.Valid()
}

// Next advances to the record with the next greater key.
func (it *EntryIterator[T, K, V]) Next() {
	it.it.Next()
}

// Entry reconstructs and returns the current record.
func (it *EntryIterator[T, K, V]) Entry() T {
	return it.from(it.it.Key(), it.it.Value())
}

// Err returns the first store error encountered, if any.
func (it *EntryIterator[T, K, V]) Err() error {
	return it.it.Err()
}
