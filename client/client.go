// Package client implements the verified remote-query protocol: it
// fetches state from an untrusted node and turns the response into a
// trusted, typed application snapshot by verifying the attached merkle
// proof against the response's root hash.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blockberries/stateberry/abci"
	"github.com/blockberries/stateberry/logging"
	"github.com/blockberries/stateberry/merkle"
	"github.com/blockberries/stateberry/metrics"
	"github.com/blockberries/stateberry/state"
	"github.com/blockberries/stateberry/store"
)

// Client errors.
var (
	// ErrQuery indicates the remote rejected the query or returned an
	// incomplete proof. The error message carries the remote log text.
	ErrQuery = errors.New("query failed")

	// ErrMalformedRoot indicates the response payload was too short to
	// contain a root hash. Distinct from ErrQuery: the remote claimed
	// success but produced an unusable payload.
	ErrMalformedRoot = errors.New("response payload too short for root hash")

	// ErrCall indicates transaction admission or delivery failed. The
	// error message carries the failing stage's log text.
	ErrCall = errors.New("call failed")

	// ErrNoResponse indicates a raw response was requested but the
	// transport failed before one was received.
	ErrNoResponse = errors.New("no response received")
)

// Client performs verified queries against a remote node and loads
// typed snapshots of type T. Each call is an independent, single-pass
// state machine; the Client itself holds no per-call state and may be
// shared between goroutines if its transport is.
type Client[T state.State] struct {
	rpc     abci.Client
	load    state.Loader[T]
	logger  *logging.Logger
	metrics metrics.Metrics
}

// Option configures a Client.
type Option[T state.State] func(*Client[T])

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger[T state.State](l *logging.Logger) Option[T] {
	return func(c *Client[T]) { c.logger = l }
}

// WithMetrics sets the metrics sink. Defaults to a no-op sink.
func WithMetrics[T state.State](m metrics.Metrics) Option[T] {
	return func(c *Client[T]) { c.metrics = m }
}

// New creates a verified query client. load decodes the application's
// top-level snapshot from its root bytes against a backing store.
func New[T state.State](rpc abci.Client, load state.Loader[T], opts ...Option[T]) *Client[T] {
	c := &Client[T]{
		rpc:     rpc,
		load:    load,
		logger:  logging.NewNopLogger(),
		metrics: metrics.NewNopMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("query_client")
	return c
}

// Query sends an encoded query to the remote node, verifies the
// response's proof, reconstructs a read-only snapshot of type T, and
// passes it to accept. accept's outcome is returned unchanged. No
// retries are performed; a retry policy is a caller-level concern.
func (c *Client[T]) Query(ctx context.Context, query []byte, accept func(T) error) error {
	return c.query(ctx, query, accept, nil)
}

// QueryWithResponse is Query, additionally returning the raw wire-level
// response for callers that need it alongside the decoded result. The
// response is carried through a one-shot slot owned by this call, so
// concurrent calls never share state.
func (c *Client[T]) QueryWithResponse(ctx context.Context, query []byte, accept func(T) error) (*abci.QueryResponse, error) {
	capture := make(chan *abci.QueryResponse, 1)
	err := c.query(ctx, query, accept, capture)
	select {
	case res := <-capture:
		return res, err
	default:
		if err == nil {
			err = ErrNoResponse
		}
		return nil, err
	}
}

func (c *Client[T]) query(ctx context.Context, query []byte, accept func(T) error, capture chan<- *abci.QueryResponse) error {
	start := time.Now()
	err := c.runQuery(ctx, query, accept, capture)

	c.metrics.ObserveQueryDuration(time.Since(start))
	if err != nil {
		c.metrics.IncQueries(metrics.ResultError)
		c.logger.Debug("verified query failed", logging.Error(err))
	} else {
		c.metrics.IncQueries(metrics.ResultOK)
	}
	return err
}

func (c *Client[T]) runQuery(ctx context.Context, query []byte, accept func(T) error, capture chan<- *abci.QueryResponse) error {
	res, err := c.rpc.ABCIQuery(ctx, &abci.QueryRequest{Data: query, Prove: true})
	if err != nil {
		return fmt.Errorf("sending query: %w", err)
	}
	if capture != nil {
		capture <- res
	}

	if res.Code.IsError() {
		return fmt.Errorf("%w: code %d: %s", ErrQuery, res.Code, res.Log)
	}

	if len(res.Value) < merkle.RootHashSize {
		return fmt.Errorf("%w: %d bytes", ErrMalformedRoot, len(res.Value))
	}
	var rootHash [merkle.RootHashSize]byte
	copy(rootHash[:], res.Value[:merkle.RootHashSize])
	proofBytes := res.Value[merkle.RootHashSize:]

	verifyStart := time.Now()
	verified, err := merkle.Verify(proofBytes, rootHash)
	if err != nil {
		c.metrics.IncProofsRejected()
		return err
	}
	c.metrics.ObserveProofVerification(time.Since(verifyStart))

	s := store.NewStore(merkle.ProofBacking(merkle.NewProofStore(verified)))

	// A verified proof must always contain the root state entry; its
	// absence means the remote assembled an incomplete proof.
	rootValue, err := s.Get([]byte{})
	if err != nil {
		if errors.Is(err, merkle.ErrNotProven) {
			return fmt.Errorf("%w: missing root state entry", ErrQuery)
		}
		return err
	}

	snapshot, err := c.load(s, rootValue)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if err := snapshot.Attach(s); err != nil {
		return fmt.Errorf("attaching snapshot: %w", err)
	}

	c.logger.Debug("verified query delivered",
		logging.RootHash(rootHash[:]),
		logging.Height(res.Height),
		logging.Count(verified.Len()))

	return accept(snapshot)
}

// Call submits an encoded transaction and waits for it to be committed.
// A non-zero admission (CheckTx) or delivery (DeliverTx) code fails the
// call with the stage's log text.
func (c *Client[T]) Call(ctx context.Context, tx []byte) error {
	res, err := c.rpc.BroadcastTxCommit(ctx, tx)
	if err != nil {
		c.metrics.IncCalls(metrics.ResultError)
		return fmt.Errorf("broadcasting tx: %w", err)
	}

	if res.CheckTx.Code.IsError() {
		c.metrics.IncCalls(metrics.ResultError)
		return fmt.Errorf("%w: CheckTx failed: %s", ErrCall, res.CheckTx.Log)
	}
	if res.DeliverTx.Code.IsError() {
		c.metrics.IncCalls(metrics.ResultError)
		return fmt.Errorf("%w: DeliverTx failed: %s", ErrCall, res.DeliverTx.Log)
	}

	c.metrics.IncCalls(metrics.ResultOK)
	c.logger.Debug("tx committed",
		logging.TxHash(res.Hash),
		logging.Height(res.Height))
	return nil
}
