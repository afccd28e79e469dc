package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapStore(t *testing.T) {
	t.Run("get missing key", func(t *testing.T) {
		s := NewMapStore()
		v, err := s.Get([]byte("missing"))
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("put and get", func(t *testing.T) {
		s := NewMapStore()
		require.NoError(t, s.Put([]byte("k"), []byte("v")))

		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
	})

	t.Run("put overwrites", func(t *testing.T) {
		s := NewMapStore()
		require.NoError(t, s.Put([]byte("k"), []byte("v1")))
		require.NoError(t, s.Put([]byte("k"), []byte("v2")))

		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v2"), v)
		require.Equal(t, 1, s.Len())
	})

	t.Run("delete", func(t *testing.T) {
		s := NewMapStore()
		require.NoError(t, s.Put([]byte("k"), []byte("v")))
		require.NoError(t, s.Delete([]byte("k")))

		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)

		// Deleting an absent key is not an error.
		require.NoError(t, s.Delete([]byte("k")))
	})

	t.Run("get returns copy", func(t *testing.T) {
		s := NewMapStore()
		require.NoError(t, s.Put([]byte("k"), []byte("v")))

		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		v[0] = 'x'

		again, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), again)
	})
}

func TestMapStoreGetNext(t *testing.T) {
	s := NewMapStore()
	require.NoError(t, s.Put([]byte{1}, []byte("a")))
	require.NoError(t, s.Put([]byte{3}, []byte("b")))
	require.NoError(t, s.Put([]byte{3, 0}, []byte("c")))

	t.Run("strictly greater", func(t *testing.T) {
		kv, err := s.GetNext([]byte{1})
		require.NoError(t, err)
		require.NotNil(t, kv)
		require.Equal(t, []byte{3}, kv.Key)
		require.Equal(t, []byte("b"), kv.Value)
	})

	t.Run("between keys", func(t *testing.T) {
		kv, err := s.GetNext([]byte{2})
		require.NoError(t, err)
		require.NotNil(t, kv)
		require.Equal(t, []byte{3}, kv.Key)
	})

	t.Run("successor is key with zero appended", func(t *testing.T) {
		kv, err := s.GetNext([]byte{3})
		require.NoError(t, err)
		require.NotNil(t, kv)
		require.Equal(t, []byte{3, 0}, kv.Key)
	})

	t.Run("past last key", func(t *testing.T) {
		kv, err := s.GetNext([]byte{3, 0})
		require.NoError(t, err)
		require.Nil(t, kv)
	})

	t.Run("before first key", func(t *testing.T) {
		kv, err := s.GetNext(nil)
		require.NoError(t, err)
		require.NotNil(t, kv)
		require.Equal(t, []byte{1}, kv.Key)
	})
}

func TestNullStore(t *testing.T) {
	var s NullStore

	t.Run("reads miss", func(t *testing.T) {
		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)

		kv, err := s.GetNext(nil)
		require.NoError(t, err)
		require.Nil(t, kv)
	})

	t.Run("put panics", func(t *testing.T) {
		require.Panics(t, func() { _ = s.Put([]byte("k"), []byte("v")) })
	})

	t.Run("delete panics", func(t *testing.T) {
		require.Panics(t, func() { _ = s.Delete([]byte("k")) })
	})
}

func TestPrefixStore(t *testing.T) {
	t.Run("isolated regions", func(t *testing.T) {
		backing := NewMapStore()
		root := NewStore(backing)
		a := root.Sub([]byte{0x01})
		b := root.Sub([]byte{0x02})

		require.NoError(t, a.Put([]byte("k"), []byte("va")))
		require.NoError(t, b.Put([]byte("k"), []byte("vb")))

		va, err := a.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("va"), va)

		vb, err := b.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("vb"), vb)

		// Both live in one backing store under distinct prefixes.
		raw, err := backing.Get(append([]byte{0x01}, []byte("k")...))
		require.NoError(t, err)
		require.Equal(t, []byte("va"), raw)
	})

	t.Run("nested sub prefixes concatenate", func(t *testing.T) {
		backing := NewMapStore()
		inner := NewStore(backing).Sub([]byte{0x01}).Sub([]byte{0x02})
		require.NoError(t, inner.Put([]byte("k"), []byte("v")))

		raw, err := backing.Get(append([]byte{0x01, 0x02}, []byte("k")...))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), raw)
	})

	t.Run("getnext strips prefix and stops at region end", func(t *testing.T) {
		backing := NewMapStore()
		root := NewStore(backing)
		a := root.Sub([]byte{0x01})

		require.NoError(t, a.Put([]byte{10}, []byte("x")))
		require.NoError(t, a.Put([]byte{20}, []byte("y")))
		// Entry outside the region, lexicographically after it.
		require.NoError(t, root.Put([]byte{0x02, 0}, []byte("z")))

		kv, err := a.GetNext([]byte{10})
		require.NoError(t, err)
		require.NotNil(t, kv)
		require.Equal(t, []byte{20}, kv.Key)

		kv, err = a.GetNext([]byte{20})
		require.NoError(t, err)
		require.Nil(t, kv)
	})

	t.Run("delete", func(t *testing.T) {
		backing := NewMapStore()
		a := NewStore(backing).Sub([]byte{0x01})
		require.NoError(t, a.Put([]byte("k"), []byte("v")))
		require.NoError(t, a.Delete([]byte("k")))

		v, err := a.Get([]byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)
	})
}
