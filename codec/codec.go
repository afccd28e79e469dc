// Package codec provides deterministic, self-describing byte
// serialization for state keys and values.
//
// Encodings are canonical: equal values always produce identical bytes,
// which lets higher layers compare stored values by their encodings and
// lets composite keys be built by plain concatenation. Key codecs
// additionally preserve ordering, so byte-lexicographic comparison of
// encoded keys matches the natural ordering of the decoded values.
package codec

import (
	"errors"
	"fmt"
)

// Codec converts values of type T to and from canonical bytes.
type Codec[T any] interface {
	// Encode returns the canonical encoding of v.
	Encode(v T) ([]byte, error)

	// Decode decodes a value from b, consuming the entire slice.
	Decode(b []byte) (T, error)

	// Size returns the encoded length of v in bytes.
	Size(v T) (int, error)
}

// KeyCodec is a Codec whose encoding is order-preserving and
// self-delimiting, making it usable as a map key encoding and as a
// field of a composite key.
type KeyCodec[T any] interface {
	Codec[T]

	// DecodeNext decodes a value from the front of b and returns the
	// number of bytes consumed. Used to split composite key encodings
	// back into their fields.
	DecodeNext(b []byte) (T, int, error)
}

// Encoding errors.
var (
	// ErrShortBuffer indicates the input ended before a complete value
	// could be decoded.
	ErrShortBuffer = errors.New("codec: buffer too short")

	// ErrTrailingBytes indicates the input contained bytes beyond the
	// decoded value.
	ErrTrailingBytes = errors.New("codec: trailing bytes after value")

	// ErrOversized indicates a value exceeds the maximum encodable size.
	ErrOversized = errors.New("codec: value too large")
)

// decodeFull runs DecodeNext and requires that it consumed all of b.
func decodeFull[T any](c KeyCodec[T], b []byte) (T, error) {
	v, n, err := c.DecodeNext(b)
	if err != nil {
		return v, err
	}
	if n != len(b) {
		return v, fmt.Errorf("%w: decoded %d of %d bytes", ErrTrailingBytes, n, len(b))
	}
	return v, nil
}
