package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testCacheSize = 1000

func newTestStore(t *testing.T) *MerkleStore {
	t.Helper()
	s, err := NewMemoryMerkleStore(testCacheSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMerkleStoreBasicOps(t *testing.T) {
	t.Run("get missing key", func(t *testing.T) {
		s := newTestStore(t)
		v, err := s.Get([]byte("missing"))
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("put and get", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Put([]byte("k"), []byte("v")))

		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
	})

	t.Run("nil key rejected", func(t *testing.T) {
		s := newTestStore(t)
		require.Error(t, s.Put(nil, []byte("v")))
		require.Error(t, s.Put([]byte("k"), nil))
		require.Error(t, s.Delete(nil))
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Put([]byte("k"), []byte("v")))
		require.NoError(t, s.Delete([]byte("k")))

		v, err := s.Get([]byte("k"))
		require.NoError(t, err)
		require.Nil(t, v)

		require.NoError(t, s.Delete([]byte("absent")))
	})
}

func TestMerkleStoreGetNext(t *testing.T) {
	s := newTestStore(t)
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

	t.Run("successor of key is key with zero appended", func(t *testing.T) {
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
}

func TestMerkleStoreCommit(t *testing.T) {
	s := newTestStore(t)
	require.Equal(t, int64(0), s.Version())

	require.NoError(t, s.Put([]byte("k"), []byte("v1")))
	hash1, version1, err := s.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), version1)
	require.Len(t, hash1, RootHashSize)
	require.True(t, s.VersionExists(1))

	require.NoError(t, s.Put([]byte("k"), []byte("v2")))
	hash2, version2, err := s.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(2), version2)
	require.NotEqual(t, hash1, hash2)
}

func TestProofRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte{}, []byte("rootval")))
	require.NoError(t, s.Put([]byte("alice"), []byte("100")))
	require.NoError(t, s.Put([]byte("bob"), []byte("50")))
	hash, _, err := s.Commit()
	require.NoError(t, err)

	var root [RootHashSize]byte
	copy(root[:], hash)

	t.Run("verify accepts and reconstructs", func(t *testing.T) {
		proof, err := s.BuildProof([][]byte{{}, []byte("alice")})
		require.NoError(t, err)

		verified, err := Verify(proof, root)
		require.NoError(t, err)
		require.Equal(t, 2, verified.Len())

		v, ok := verified.Get([]byte("alice"))
		require.True(t, ok)
		require.Equal(t, []byte("100"), v)

		v, ok = verified.Get([]byte{})
		require.True(t, ok)
		require.Equal(t, []byte("rootval"), v)

		// Not covered by the proof, even though it is in the tree.
		_, ok = verified.Get([]byte("bob"))
		require.False(t, ok)
	})

	t.Run("absent keys are skipped", func(t *testing.T) {
		proof, err := s.BuildProof([][]byte{[]byte("alice"), []byte("nobody")})
		require.NoError(t, err)

		verified, err := Verify(proof, root)
		require.NoError(t, err)
		require.Equal(t, 1, verified.Len())
	})

	t.Run("duplicate keys proven once", func(t *testing.T) {
		proof, err := s.BuildProof([][]byte{[]byte("alice"), []byte("alice")})
		require.NoError(t, err)

		verified, err := Verify(proof, root)
		require.NoError(t, err)
		require.Equal(t, 1, verified.Len())
	})

	t.Run("wrong root hash rejected", func(t *testing.T) {
		proof, err := s.BuildProof([][]byte{[]byte("alice")})
		require.NoError(t, err)

		bad := root
		bad[0] ^= 0xff
		_, err = Verify(proof, bad)
		require.ErrorIs(t, err, ErrVerification)
	})

	t.Run("truncated payload rejected", func(t *testing.T) {
		proof, err := s.BuildProof([][]byte{[]byte("alice")})
		require.NoError(t, err)

		_, err = Verify(proof[:len(proof)-3], root)
		require.Error(t, err)
	})

	t.Run("empty payload verifies to empty mapping", func(t *testing.T) {
		verified, err := Verify(nil, root)
		require.NoError(t, err)
		require.Equal(t, 0, verified.Len())
	})
}

// The root state entry lives at the empty key; its proof must
// round-trip like any other entry.
func TestRootEntryProofRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte{}, []byte("rootval")))
	hash, _, err := s.Commit()
	require.NoError(t, err)

	var root [RootHashSize]byte
	copy(root[:], hash)

	proof, err := s.BuildProof([][]byte{{}})
	require.NoError(t, err)

	verified, err := Verify(proof, root)
	require.NoError(t, err)
	require.Equal(t, 1, verified.Len())

	v, err := NewProofStore(verified).Get([]byte{})
	require.NoError(t, err)
	require.Equal(t, []byte("rootval"), v)
}

func TestVerifiedMapGetNext(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte{1}, []byte("a")))
	require.NoError(t, s.Put([]byte{5}, []byte("b")))
	hash, _, err := s.Commit()
	require.NoError(t, err)

	var root [RootHashSize]byte
	copy(root[:], hash)

	proof, err := s.BuildProof([][]byte{{1}, {5}})
	require.NoError(t, err)
	verified, err := Verify(proof, root)
	require.NoError(t, err)

	kv := verified.GetNext([]byte{1})
	require.NotNil(t, kv)
	require.Equal(t, []byte{5}, kv.Key)

	require.Nil(t, verified.GetNext([]byte{5}))
}

func TestProofStore(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	hash, _, err := s.Commit()
	require.NoError(t, err)

	var root [RootHashSize]byte
	copy(root[:], hash)

	proof, err := s.BuildProof([][]byte{[]byte("k")})
	require.NoError(t, err)
	verified, err := Verify(proof, root)
	require.NoError(t, err)

	ps := NewProofStore(verified)

	t.Run("proven key reads", func(t *testing.T) {
		v, err := ps.Get([]byte("k"))
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
	})

	t.Run("uncovered key is not proven absent", func(t *testing.T) {
		_, err := ps.Get([]byte("other"))
		require.ErrorIs(t, err, ErrNotProven)
	})

	t.Run("writes panic", func(t *testing.T) {
		require.Panics(t, func() { _ = ps.Put([]byte("k"), []byte("v")) })
		require.Panics(t, func() { _ = ps.Delete([]byte("k")) })
	})
}

func TestProofBuilder(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put([]byte{1}, []byte("a")))
	require.NoError(t, s.Put([]byte{2}, []byte("b")))
	require.NoError(t, s.Put([]byte{3}, []byte("c")))
	hash, _, err := s.Commit()
	require.NoError(t, err)

	var root [RootHashSize]byte
	copy(root[:], hash)

	t.Run("covers reads and scan results", func(t *testing.T) {
		b := NewProofBuilder(s)

		_, err := b.Get([]byte{1})
		require.NoError(t, err)

		// A range step: the returned key must be provable so the client
		// can replay the same scan.
		kv, err := b.GetNext([]byte{1})
		require.NoError(t, err)
		require.Equal(t, []byte{2}, kv.Key)

		proof, err := b.Build()
		require.NoError(t, err)

		verified, err := Verify(proof, root)
		require.NoError(t, err)
		require.Equal(t, 2, verified.Len())

		_, ok := verified.Get([]byte{1})
		require.True(t, ok)
		_, ok = verified.Get([]byte{2})
		require.True(t, ok)
		_, ok = verified.Get([]byte{3})
		require.False(t, ok)
	})

	t.Run("writes panic", func(t *testing.T) {
		b := NewProofBuilder(s)
		require.Panics(t, func() { _ = b.Put([]byte{9}, []byte("x")) })
		require.Panics(t, func() { _ = b.Delete([]byte{9}) })
	})
}
