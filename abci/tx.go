package abci

// TxResult is the outcome of one stage of transaction processing.
type TxResult struct {
	// Code indicates success (0) or failure (non-zero).
	Code ResultCode

	// Log provides a human-readable diagnostic message.
	Log string
}

// IsOK returns true if the stage succeeded.
func (r TxResult) IsOK() bool {
	return r.Code.IsOK()
}

// TxCommitResponse is the response to broadcasting a transaction and
// waiting for it to be committed. The two stages are independent: a
// transaction can pass the admission check and still fail delivery.
type TxCommitResponse struct {
	// CheckTx is the pre-execution admission check result.
	CheckTx TxResult

	// DeliverTx is the execution result.
	DeliverTx TxResult

	// Hash is the transaction hash.
	Hash []byte

	// Height is the height of the block containing the transaction.
	Height int64
}
