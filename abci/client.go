package abci

import "context"

// Client is the transport used to reach a remote node. Implementations
// must be safe for concurrent use; the verified query client issues
// independent calls through one shared Client.
type Client interface {
	// ABCIQuery sends an encoded query and returns the node's response.
	ABCIQuery(ctx context.Context, req *QueryRequest) (*QueryResponse, error)

	// BroadcastTxCommit submits an encoded transaction and waits until
	// it is committed or rejected.
	BroadcastTxCommit(ctx context.Context, tx []byte) (*TxCommitResponse, error)
}
