// Package jsonrpc provides the JSON-RPC 2.0 transport for proven state
// queries and transaction broadcast.
package jsonrpc

import (
	"encoding/json"
)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      interface{}     `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Standard errors.
var (
	ErrParseError     = &Error{Code: CodeParseError, Message: "Parse error"}
	ErrInvalidRequest = &Error{Code: CodeInvalidRequest, Message: "Invalid Request"}
	ErrMethodNotFound = &Error{Code: CodeMethodNotFound, Message: "Method not found"}
	ErrInvalidParams  = &Error{Code: CodeInvalidParams, Message: "Invalid params"}
	ErrInternalError  = &Error{Code: CodeInternalError, Message: "Internal error"}
)

// NewResponse creates a successful response.
func NewResponse(id interface{}, result interface{}) (*Response, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &Response{
		JSONRPC: "2.0",
		Result:  data,
		ID:      id,
	}, nil
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id interface{}, err *Error) *Response {
	return &Response{
		JSONRPC: "2.0",
		Error:   err,
		ID:      id,
	}
}

// NewErrorWithData creates an error with additional data.
func NewErrorWithData(code int, message string, data interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// Wire-level parameter and result shapes. Byte fields travel hex-encoded.

// QueryParams are the parameters of the abci_query method.
type QueryParams struct {
	Data   string `json:"data"`
	Height int64  `json:"height,omitempty"`
	Prove  bool   `json:"prove"`
}

// QueryResult is the result of the abci_query method.
type QueryResult struct {
	Code   uint32 `json:"code"`
	Log    string `json:"log,omitempty"`
	Value  string `json:"value,omitempty"`
	Height int64  `json:"height"`
}

// BroadcastTxParams are the parameters of the broadcast_tx_commit method.
type BroadcastTxParams struct {
	Tx string `json:"tx"`
}

// TxStageResult is the outcome of one transaction processing stage.
type TxStageResult struct {
	Code uint32 `json:"code"`
	Log  string `json:"log,omitempty"`
}

// BroadcastTxResult is the result of the broadcast_tx_commit method.
type BroadcastTxResult struct {
	CheckTx   TxStageResult `json:"check_tx"`
	DeliverTx TxStageResult `json:"deliver_tx"`
	Hash      string        `json:"hash"`
	Height    int64         `json:"height"`
}
