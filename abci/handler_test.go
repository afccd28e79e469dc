package abci

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/stateberry/logging"
	"github.com/blockberries/stateberry/merkle"
)

func newHandlerStore(t *testing.T) *merkle.MerkleStore {
	t.Helper()
	s, err := merkle.NewMemoryMerkleStore(1000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Put([]byte{}, []byte("rootval")))
	require.NoError(t, s.Put([]byte("balance"), []byte("100")))
	_, _, err = s.Commit()
	require.NoError(t, err)
	return s
}

func TestQueryHandler(t *testing.T) {
	t.Run("raw key query returns proven payload", func(t *testing.T) {
		s := newHandlerStore(t)
		h := NewQueryHandler(s, logging.NewNopLogger())

		res := h.Handle(&QueryRequest{Data: EncodeRawKeyQuery([]byte("balance")), Prove: true})
		require.True(t, res.IsOK())
		require.Equal(t, s.Version(), res.Height)
		require.Greater(t, len(res.Value), merkle.RootHashSize)

		var root [merkle.RootHashSize]byte
		copy(root[:], res.Value[:merkle.RootHashSize])

		verified, err := merkle.Verify(res.Value[merkle.RootHashSize:], root)
		require.NoError(t, err)

		v, ok := verified.Get([]byte("balance"))
		require.True(t, ok)
		require.Equal(t, []byte("100"), v)

		// The root state entry rides along with every response.
		v, ok = verified.Get([]byte{})
		require.True(t, ok)
		require.Equal(t, []byte("rootval"), v)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		h := NewQueryHandler(newHandlerStore(t), nil)

		res := h.Handle(&QueryRequest{Data: nil})
		require.Equal(t, CodeInvalidQuery, res.Code)
		require.NotEmpty(t, res.Log)
	})

	t.Run("unknown query kind rejected", func(t *testing.T) {
		h := NewQueryHandler(newHandlerStore(t), nil)

		res := h.Handle(&QueryRequest{Data: []byte{0xee, 1, 2}})
		require.Equal(t, CodeInvalidQuery, res.Code)
	})

	t.Run("absent key still yields root proof", func(t *testing.T) {
		s := newHandlerStore(t)
		h := NewQueryHandler(s, nil)

		res := h.Handle(&QueryRequest{Data: EncodeRawKeyQuery([]byte("nobody"))})
		require.True(t, res.IsOK())

		var root [merkle.RootHashSize]byte
		copy(root[:], res.Value[:merkle.RootHashSize])
		verified, err := merkle.Verify(res.Value[merkle.RootHashSize:], root)
		require.NoError(t, err)

		// Absent keys are simply not covered; the root entry is.
		_, ok := verified.Get([]byte("nobody"))
		require.False(t, ok)
		_, ok = verified.Get([]byte{})
		require.True(t, ok)
	})
}
