// Package state defines the capability application types expose so the
// framework can wire them to storage: attach to a store, flush to
// bytes, and load from store plus bytes.
package state

import (
	"fmt"
	"io"

	"github.com/blockberries/stateberry/memory"
	"github.com/blockberries/stateberry/store"
)

// State is implemented by types whose contents live in a Store. A
// type's plain fields are carried in its flushed bytes; its collection
// fields resolve lazily against the attached store.
type State interface {
	// Attach binds the value and its children to a store region.
	Attach(s *store.Store) error

	// Flush writes the value's root bytes to out and lets children
	// persist any pending writes.
	Flush(out io.Writer) error
}

// Loader decodes a value of type T from its root bytes, resolving
// nested state against the given store. Loaders are the inverse of
// State.Flush for their type.
type Loader[T any] func(s *store.Store, data []byte) (T, error)

// FlushBytes flushes st and returns its root bytes, ready to be stored
// under the root state key. The encoding is staged in a pooled buffer;
// the returned slice is an independent copy.
func FlushBytes(st State) ([]byte, error) {
	buf := memory.FlushPool.Get()
	defer memory.FlushPool.Put(buf)

	if err := st.Flush(buf); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Field associates a registered child state with its key prefix.
type Field struct {
	Name   string
	Prefix byte
	State  State
}

// Fields is a registration-based traversal over a composite type's
// children. A type registers each child once, and Attach/Flush recurse
// without per-field hand-written wiring or runtime reflection. Each
// child owns the key region under its single-byte prefix.
type Fields struct {
	fields []Field
}

// Register adds a child state under the given prefix. Registering two
// children with the same prefix is a construction bug and panics.
func (f *Fields) Register(name string, prefix byte, st State) {
	for _, existing := range f.fields {
		if existing.Prefix == prefix {
			panic(fmt.Sprintf("state: prefix 0x%02x registered twice (%s, %s)",
				prefix, existing.Name, name))
		}
	}
	f.fields = append(f.fields, Field{Name: name, Prefix: prefix, State: st})
}

// Attach binds every registered child to its prefixed region of s.
func (f *Fields) Attach(s *store.Store) error {
	for _, field := range f.fields {
		if err := field.State.Attach(s.Sub([]byte{field.Prefix})); err != nil {
			return fmt.Errorf("attaching %s: %w", field.Name, err)
		}
	}
	return nil
}

// Flush flushes every registered child in registration order.
func (f *Fields) Flush(out io.Writer) error {
	for _, field := range f.fields {
		if err := field.State.Flush(out); err != nil {
			return fmt.Errorf("flushing %s: %w", field.Name, err)
		}
	}
	return nil
}
