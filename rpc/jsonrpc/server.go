package jsonrpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/blockberries/stateberry/abci"
	"github.com/blockberries/stateberry/logging"
)

// maxBodyBytes caps a single request body.
const maxBodyBytes = 1 << 20

// TxExecutor executes a transaction through the admission check and
// delivery stages and reports both outcomes.
type TxExecutor interface {
	ExecuteTx(ctx context.Context, tx []byte) (*abci.TxCommitResponse, error)
}

// MethodHandler handles a specific RPC method.
type MethodHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Server is a JSON-RPC 2.0 server exposing proven state queries and
// transaction broadcast.
type Server struct {
	queries *abci.QueryHandler
	txs     TxExecutor
	logger  *logging.Logger

	httpServer *http.Server
	listener   net.Listener

	methods map[string]MethodHandler
	running atomic.Bool
}

// NewServer creates a new JSON-RPC server. txs may be nil, in which
// case broadcast_tx_commit reports an internal error.
func NewServer(queries *abci.QueryHandler, txs TxExecutor, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Server{
		queries: queries,
		txs:     txs,
		logger:  logger.WithComponent("jsonrpc"),
		methods: make(map[string]MethodHandler),
	}
	s.registerMethods()
	return s
}

// registerMethods registers all RPC methods.
func (s *Server) registerMethods() {
	s.methods["health"] = s.handleHealth
	s.methods["abci_query"] = s.handleQuery
	s.methods["broadcast_tx_commit"] = s.handleBroadcastTxCommit
}

// Start starts the JSON-RPC server on the given address.
func (s *Server) Start(addr string) error {
	if s.running.Swap(true) {
		return nil // Already running
	}

	addr = strings.TrimPrefix(addr, "tcp://")

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("rpc server stopped", logging.Error(err))
		}
	}()

	s.logger.Info("rpc server started", logging.Address(listener.Addr().String()))
	return nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the JSON-RPC server.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil // Already stopped
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// handleHTTP handles HTTP requests.
func (s *Server) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, nil, ErrParseError)
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, nil, ErrParseError)
		return
	}

	resp := s.processRequest(r.Context(), &req)
	s.writeResponse(w, resp)
}

// processRequest processes a single JSON-RPC request.
func (s *Server) processRequest(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" {
		return NewErrorResponse(req.ID, ErrInvalidRequest)
	}

	handler, ok := s.methods[req.Method]
	if !ok {
		return NewErrorResponse(req.ID, ErrMethodNotFound)
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		if rpcErr, ok := err.(*Error); ok {
			return NewErrorResponse(req.ID, rpcErr)
		}
		return NewErrorResponse(req.ID, NewErrorWithData(CodeInternalError, err.Error(), nil))
	}

	resp, err := NewResponse(req.ID, result)
	if err != nil {
		return NewErrorResponse(req.ID, ErrInternalError)
	}
	return resp
}

// writeResponse writes a JSON-RPC response.
func (s *Server) writeResponse(w http.ResponseWriter, resp *Response) {
	data, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// writeError writes a JSON-RPC error response.
func (s *Server) writeError(w http.ResponseWriter, id interface{}, err *Error) {
	s.writeResponse(w, NewErrorResponse(id, err))
}

// Method handlers

func (s *Server) handleHealth(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return map[string]string{"status": "ok"}, nil
}

func (s *Server) handleQuery(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p QueryParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}

	var data []byte
	var err error
	if p.Data != "" {
		data, err = hex.DecodeString(p.Data)
		if err != nil {
			return nil, NewErrorWithData(CodeInvalidParams, "invalid hex encoding", nil)
		}
	}

	res := s.queries.Handle(&abci.QueryRequest{
		Data:   data,
		Height: p.Height,
		Prove:  p.Prove,
	})

	return &QueryResult{
		Code:   uint32(res.Code),
		Log:    res.Log,
		Value:  hex.EncodeToString(res.Value),
		Height: res.Height,
	}, nil
}

func (s *Server) handleBroadcastTxCommit(ctx context.Context, params json.RawMessage) (interface{}, error) {
	if s.txs == nil {
		return nil, NewErrorWithData(CodeInternalError, "transaction execution not available", nil)
	}

	var p BroadcastTxParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, ErrInvalidParams
	}

	tx, err := hex.DecodeString(p.Tx)
	if err != nil {
		return nil, NewErrorWithData(CodeInvalidParams, "invalid hex encoding", nil)
	}

	res, err := s.txs.ExecuteTx(ctx, tx)
	if err != nil {
		return nil, err
	}

	return &BroadcastTxResult{
		CheckTx:   TxStageResult{Code: uint32(res.CheckTx.Code), Log: res.CheckTx.Log},
		DeliverTx: TxStageResult{Code: uint32(res.DeliverTx.Code), Log: res.DeliverTx.Log},
		Hash:      hex.EncodeToString(res.Hash),
		Height:    res.Height,
	}, nil
}
