package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/stateberry/store"
)

func TestBackingStoreVariants(t *testing.T) {
	t.Run("null reads miss and writes panic", func(t *testing.T) {
		b := NullBacking()
		require.Equal(t, KindNull, b.Kind())

		v, err := b.Get([]byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)

		kv, err := b.GetNext(nil)
		require.NoError(t, err)
		require.Nil(t, kv)

		require.Panics(t, func() { _ = b.Put([]byte("k"), []byte("v")) })
		require.Panics(t, func() { _ = b.Delete([]byte("k")) })
	})

	t.Run("memory dispatches to map store", func(t *testing.T) {
		ms := store.NewMapStore()
		b := MemoryBacking(ms)
		require.Equal(t, KindMemory, b.Kind())

		require.NoError(t, b.Put([]byte("k"), []byte("v")))
		v, err := b.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)

		// Same data visible through the wrapped store.
		v, err = ms.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)

		require.NoError(t, b.Delete([]byte("k")))
		v, err = b.Get([]byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("merkle dispatches to merkle store", func(t *testing.T) {
		s := newTestStore(t)
		b := MerkleBacking(s)
		require.Equal(t, KindMerkle, b.Kind())

		require.NoError(t, b.Put([]byte("k"), []byte("v")))
		v, err := b.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
	})

	t.Run("builder records through dispatch", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Put([]byte("k"), []byte("v")))
		hash, _, err := s.Commit()
		require.NoError(t, err)

		b := BuilderBacking(NewProofBuilder(s))
		require.Equal(t, KindBuilder, b.Kind())

		v, err := b.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
		require.Panics(t, func() { _ = b.Put([]byte("k"), []byte("v")) })

		builder, err := b.AsProofBuilder()
		require.NoError(t, err)
		proof, err := builder.Build()
		require.NoError(t, err)

		var root [RootHashSize]byte
		copy(root[:], hash)
		verified, err := Verify(proof, root)
		require.NoError(t, err)
		require.Equal(t, 1, verified.Len())
	})
}

func TestBackingStoreDowncasts(t *testing.T) {
	ms := store.NewMapStore()
	b := MemoryBacking(ms)

	t.Run("matching variant", func(t *testing.T) {
		got, err := b.AsMapStore()
		require.NoError(t, err)
		require.Same(t, ms, got)
	})

	t.Run("mismatched variant", func(t *testing.T) {
		_, err := b.AsMerkleStore()
		require.ErrorIs(t, err, store.ErrDowncast)

		_, err = b.AsProofBuilder()
		require.ErrorIs(t, err, store.ErrDowncast)

		_, err = b.AsProofStore()
		require.ErrorIs(t, err, store.ErrDowncast)

		_, err = NullBacking().AsMapStore()
		require.ErrorIs(t, err, store.ErrDowncast)
	})
}

func TestKindString(t *testing.T) {
	require.Equal(t, "Null", KindNull.String())
	require.Equal(t, "Memory", KindMemory.String())
	require.Equal(t, "Merkle", KindMerkle.String())
	require.Equal(t, "Builder", KindBuilder.String())
	require.Equal(t, "Proof", KindProof.String())
}
