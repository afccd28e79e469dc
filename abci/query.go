package abci

// QueryRequest represents a request to read application state.
type QueryRequest struct {
	// Data contains the encoded query, opaque to the transport.
	Data []byte

	// Height specifies the historical height to query. 0 means latest.
	Height int64

	// Prove requests that the response carry a verifiable proof.
	Prove bool
}

// QueryResponse represents the response from a state query.
type QueryResponse struct {
	// Code indicates success (0) or failure (non-zero).
	Code ResultCode

	// Log provides a human-readable diagnostic message if Code != 0.
	Log string

	// Value is the response payload. For proven queries the first 32
	// bytes are the root hash and the remainder is the proof payload.
	Value []byte

	// Height is the height at which the query was executed.
	Height int64
}

// IsOK returns true if the query succeeded.
func (r *QueryResponse) IsOK() bool {
	return r != nil && r.Code.IsOK()
}

// Query kind tags. The first byte of an encoded query selects how the
// application interprets the rest.
const (
	// QueryKindRawKey asks for the raw value stored under a key, plus
	// whatever the proof of that value requires.
	QueryKindRawKey byte = 0x02
)

// EncodeRawKeyQuery encodes a raw-key query for the given store key.
func EncodeRawKeyQuery(key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = QueryKindRawKey
	copy(out[1:], key)
	return out
}

// DecodeQuery splits an encoded query into its kind tag and body.
func DecodeQuery(data []byte) (byte, []byte, bool) {
	if len(data) < 1 {
		return 0, nil, false
	}
	return data[0], data[1:], true
}
