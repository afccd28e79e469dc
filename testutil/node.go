// Package testutil provides an in-process node for end-to-end tests of
// the proven query path: a memory-backed merkle store served through
// the real query handler, reachable as an abci.Client without a
// network.
package testutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockberries/stateberry/abci"
	"github.com/blockberries/stateberry/logging"
	"github.com/blockberries/stateberry/merkle"
)

// testCacheSize is the IAVL node cache size for test stores.
const testCacheSize = 1000

// TestNode serves proven queries over an in-memory merkle store. It
// implements abci.Client and jsonrpc.TxExecutor, so the verified query
// client and the JSON-RPC server can both run against it directly.
type TestNode struct {
	t       *testing.T
	Store   *merkle.MerkleStore
	Handler *abci.QueryHandler

	// CheckTx, when set, overrides the admission check. The default
	// admits every transaction.
	CheckTx func(tx []byte) abci.TxResult

	// DeliverTx, when set, overrides transaction delivery. The default
	// applies the transaction as a key/value write (see EncodeTx).
	DeliverTx func(tx []byte) abci.TxResult
}

// NewTestNode creates a node over a fresh in-memory merkle store. The
// store starts with a committed empty root state entry, matching what
// a running application always maintains.
func NewTestNode(t *testing.T) *TestNode {
	t.Helper()

	store, err := merkle.NewMemoryMerkleStore(testCacheSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Put([]byte{}, []byte{}))
	_, _, err = store.Commit()
	require.NoError(t, err)

	return &TestNode{
		t:       t,
		Store:   store,
		Handler: abci.NewQueryHandler(store, logging.NewNopLogger()),
	}
}

// Set writes a key/value pair without committing.
func (n *TestNode) Set(key, value []byte) {
	n.t.Helper()
	require.NoError(n.t, n.Store.Put(key, value))
}

// SetRoot writes the root state entry without committing.
func (n *TestNode) SetRoot(value []byte) {
	n.Set([]byte{}, value)
}

// Commit commits pending writes and returns the new root hash.
func (n *TestNode) Commit() []byte {
	n.t.Helper()
	hash, _, err := n.Store.Commit()
	require.NoError(n.t, err)
	return hash
}

// ABCIQuery implements abci.Client by running the request through the
// node's query handler.
func (n *TestNode) ABCIQuery(ctx context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	return n.Handler.Handle(req), nil
}

// BroadcastTxCommit implements abci.Client.
func (n *TestNode) BroadcastTxCommit(ctx context.Context, tx []byte) (*abci.TxCommitResponse, error) {
	return n.ExecuteTx(ctx, tx)
}

// ExecuteTx implements jsonrpc.TxExecutor: admission check, delivery,
// then commit if both stages pass.
func (n *TestNode) ExecuteTx(ctx context.Context, tx []byte) (*abci.TxCommitResponse, error) {
	hash := sha256.Sum256(tx)
	res := &abci.TxCommitResponse{
		Hash:   hash[:],
		Height: n.Store.Version(),
	}

	res.CheckTx = n.checkTx(tx)
	if res.CheckTx.Code.IsError() {
		return res, nil
	}

	res.DeliverTx = n.deliverTx(tx)
	if res.DeliverTx.Code.IsError() {
		return res, nil
	}

	if _, _, err := n.Store.Commit(); err != nil {
		return nil, err
	}
	res.Height = n.Store.Version()
	return res, nil
}

func (n *TestNode) checkTx(tx []byte) abci.TxResult {
	if n.CheckTx != nil {
		return n.CheckTx(tx)
	}
	return abci.TxResult{Code: abci.CodeOK}
}

func (n *TestNode) deliverTx(tx []byte) abci.TxResult {
	if n.DeliverTx != nil {
		return n.DeliverTx(tx)
	}

	key, value, err := DecodeTx(tx)
	if err != nil {
		return abci.TxResult{Code: abci.CodeInvalidTx, Log: err.Error()}
	}
	if err := n.Store.Put(key, value); err != nil {
		return abci.TxResult{Code: abci.CodeInvalidState, Log: err.Error()}
	}
	return abci.TxResult{Code: abci.CodeOK}
}

// EncodeTx encodes a key/value write transaction for the default
// delivery handler.
func EncodeTx(key, value []byte) []byte {
	tx := make([]byte, 0, 4+len(key)+len(value))
	tx = binary.BigEndian.AppendUint32(tx, uint32(len(key)))
	tx = append(tx, key...)
	tx = append(tx, value...)
	return tx
}

// DecodeTx decodes a transaction produced by EncodeTx.
func DecodeTx(tx []byte) (key, value []byte, err error) {
	if len(tx) < 4 {
		return nil, nil, fmt.Errorf("tx too short: %d bytes", len(tx))
	}
	keyLen := binary.BigEndian.Uint32(tx[:4])
	if uint32(len(tx)-4) < keyLen {
		return nil, nil, fmt.Errorf("tx key length %d exceeds body", keyLen)
	}
	return tx[4 : 4+keyLen], tx[4+keyLen:], nil
}

// RewriteClient wraps an abci.Client and rewrites responses before they
// reach the caller. Tests use it to simulate a malicious or broken
// remote.
type RewriteClient struct {
	Inner abci.Client

	// RewriteQuery, when set, mutates every query response.
	RewriteQuery func(*abci.QueryResponse)

	// RewriteTx, when set, mutates every broadcast response.
	RewriteTx func(*abci.TxCommitResponse)
}

// ABCIQuery implements abci.Client.
func (c *RewriteClient) ABCIQuery(ctx context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	res, err := c.Inner.ABCIQuery(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.RewriteQuery != nil {
		clone := *res
		clone.Value = bytes.Clone(res.Value)
		c.RewriteQuery(&clone)
		return &clone, nil
	}
	return res, nil
}

// BroadcastTxCommit implements abci.Client.
func (c *RewriteClient) BroadcastTxCommit(ctx context.Context, tx []byte) (*abci.TxCommitResponse, error) {
	res, err := c.Inner.BroadcastTxCommit(ctx, tx)
	if err != nil {
		return nil, err
	}
	if c.RewriteTx != nil {
		clone := *res
		c.RewriteTx(&clone)
		return &clone, nil
	}
	return res, nil
}
