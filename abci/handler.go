package abci

import (
	"fmt"

	"github.com/blockberries/stateberry/logging"
	"github.com/blockberries/stateberry/merkle"
)

// QueryHandler executes proven queries against a node's merkle store.
// It runs each query through a proof-recording store wrapper, so the
// assembled payload covers exactly the state the query touched.
type QueryHandler struct {
	store  *merkle.MerkleStore
	logger *logging.Logger
}

// NewQueryHandler creates a query handler over the given store.
func NewQueryHandler(store *merkle.MerkleStore, logger *logging.Logger) *QueryHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &QueryHandler{
		store:  store,
		logger: logger.WithComponent("query_handler"),
	}
}

// Handle executes a query request and assembles the proven response.
// The response payload is rootHash || proof; the proof always covers
// the root state entry in addition to whatever the query accessed.
func (h *QueryHandler) Handle(req *QueryRequest) *QueryResponse {
	kind, body, ok := DecodeQuery(req.Data)
	if !ok {
		return h.fail(CodeInvalidQuery, "empty query")
	}

	builder := merkle.NewProofBuilder(h.store)

	// The root state entry anchors every snapshot load on the client.
	if _, err := builder.Get([]byte{}); err != nil {
		return h.fail(CodeInvalidState, fmt.Sprintf("reading root entry: %v", err))
	}

	switch kind {
	case QueryKindRawKey:
		if _, err := builder.Get(body); err != nil {
			return h.fail(CodeInvalidState, fmt.Sprintf("reading key: %v", err))
		}
	default:
		return h.fail(CodeInvalidQuery, fmt.Sprintf("unknown query kind 0x%02x", kind))
	}

	proof, err := builder.Build()
	if err != nil {
		return h.fail(CodeInvalidState, fmt.Sprintf("building proof: %v", err))
	}

	rootHash := h.store.RootHash()
	value := make([]byte, 0, len(rootHash)+len(proof))
	value = append(value, rootHash...)
	value = append(value, proof...)

	h.logger.Debug("served proven query",
		logging.Size(len(value)),
		logging.Version(h.store.Version()))

	return &QueryResponse{
		Code:   CodeOK,
		Value:  value,
		Height: h.store.Version(),
	}
}

func (h *QueryHandler) fail(code ResultCode, log string) *QueryResponse {
	h.logger.Debug("query failed", logging.Reason(log))
	return &QueryResponse{Code: code, Log: log}
}
