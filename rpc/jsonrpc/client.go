package jsonrpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/blockberries/stateberry/abci"
)

// Client is a JSON-RPC 2.0 HTTP client implementing abci.Client. It is
// safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Uint64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout. Defaults to 10 seconds.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a JSON-RPC client for the given endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ABCIQuery implements abci.Client.
func (c *Client) ABCIQuery(ctx context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	params := QueryParams{
		Data:   hex.EncodeToString(req.Data),
		Height: req.Height,
		Prove:  req.Prove,
	}

	var result QueryResult
	if err := c.call(ctx, "abci_query", params, &result); err != nil {
		return nil, err
	}

	value, err := hex.DecodeString(result.Value)
	if err != nil {
		return nil, fmt.Errorf("decoding response value: %w", err)
	}

	return &abci.QueryResponse{
		Code:   abci.ResultCode(result.Code),
		Log:    result.Log,
		Value:  value,
		Height: result.Height,
	}, nil
}

// BroadcastTxCommit implements abci.Client.
func (c *Client) BroadcastTxCommit(ctx context.Context, tx []byte) (*abci.TxCommitResponse, error) {
	params := BroadcastTxParams{Tx: hex.EncodeToString(tx)}

	var result BroadcastTxResult
	if err := c.call(ctx, "broadcast_tx_commit", params, &result); err != nil {
		return nil, err
	}

	hash, err := hex.DecodeString(result.Hash)
	if err != nil {
		return nil, fmt.Errorf("decoding tx hash: %w", err)
	}

	return &abci.TxCommitResponse{
		CheckTx:   abci.TxResult{Code: abci.ResultCode(result.CheckTx.Code), Log: result.CheckTx.Log},
		DeliverTx: abci.TxResult{Code: abci.ResultCode(result.DeliverTx.Code), Log: result.DeliverTx.Log},
		Hash:      hash,
		Height:    result.Height,
	}, nil
}

// call performs one JSON-RPC round trip and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding params: %w", err)
	}

	reqBody, err := json.Marshal(&Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  rawParams,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer httpRes.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if httpRes.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %d", httpRes.StatusCode)
	}

	var res Response
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if res.Error != nil {
		return fmt.Errorf("rpc error %d: %s", res.Error.Code, res.Error.Message)
	}

	if err := json.Unmarshal(res.Result, out); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	return nil
}
