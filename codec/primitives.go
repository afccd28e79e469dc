package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Primitive codecs. Integers are fixed-width big-endian, so their
// encodings sort in numeric order. Strings and byte slices are
// length-prefixed with a 4-byte big-endian length so they self-delimit
// inside composite keys; their key ordering is therefore by (length,
// bytes). RawBytes is the identity codec for whole-slice values.
var (
	Uint8  KeyCodec[uint8]  = uint8Codec{}
	Uint16 KeyCodec[uint16] = uint16Codec{}
	Uint32 KeyCodec[uint32] = uint32Codec{}
	Uint64 KeyCodec[uint64] = uint64Codec{}
	Bool   KeyCodec[bool]   = boolCodec{}
	String KeyCodec[string] = stringCodec{}
	Bytes  KeyCodec[[]byte] = bytesCodec{}

	// RawBytes encodes a byte slice as-is, with no framing. It is not
	// self-delimiting and must not be used as a composite key field.
	RawBytes Codec[[]byte] = rawBytesCodec{}
)

// maxLenPrefixed bounds length-prefixed string and byte values.
const maxLenPrefixed = math.MaxInt32

type uint8Codec struct{}

func (uint8Codec) Encode(v uint8) ([]byte, error) { return []byte{v}, nil }

func (uint8Codec) Size(uint8) (int, error) { return 1, nil }

func (c uint8Codec) Decode(b []byte) (uint8, error) { return decodeFull[uint8](c, b) }

func (uint8Codec) DecodeNext(b []byte) (uint8, int, error) {
	if len(b) < 1 {
		return 0, 0, ErrShortBuffer
	}
	return b[0], 1, nil
}

type uint16Codec struct{}

func (uint16Codec) Encode(v uint16) ([]byte, error) {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b, nil
}

func (uint16Codec) Size(uint16) (int, error) { return 2, nil }

func (c uint16Codec) Decode(b []byte) (uint16, error) { return decodeFull[uint16](c, b) }

func (uint16Codec) DecodeNext(b []byte) (uint16, int, error) {
	if len(b) < 2 {
		return 0, 0, ErrShortBuffer
	}
	return binary.BigEndian.Uint16(b), 2, nil
}

type uint32Codec struct{}

func (uint32Codec) Encode(v uint32) ([]byte, error) {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b, nil
}

func (uint32Codec) Size(uint32) (int, error) { return 4, nil }

func (c uint32Codec) Decode(b []byte) (uint32, error) { return decodeFull[uint32](c, b) }

func (uint32Codec) DecodeNext(b []byte) (uint32, int, error) {
	if len(b) < 4 {
		return 0, 0, ErrShortBuffer
	}
	return binary.BigEndian.Uint32(b), 4, nil
}

type uint64Codec struct{}

func (uint64Codec) Encode(v uint64) ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b, nil
}

func (uint64Codec) Size(uint64) (int, error) { return 8, nil }

func (c uint64Codec) Decode(b []byte) (uint64, error) { return decodeFull[uint64](c, b) }

func (uint64Codec) DecodeNext(b []byte) (uint64, int, error) {
	if len(b) < 8 {
		return 0, 0, ErrShortBuffer
	}
	return binary.BigEndian.Uint64(b), 8, nil
}

type boolCodec struct{}

func (boolCodec) Encode(v bool) ([]byte, error) {
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (boolCodec) Size(bool) (int, error) { return 1, nil }

func (c boolCodec) Decode(b []byte) (bool, error) { return decodeFull[bool](c, b) }

func (boolCodec) DecodeNext(b []byte) (bool, int, error) {
	if len(b) < 1 {
		return false, 0, ErrShortBuffer
	}
	switch b[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("codec: invalid bool byte 0x%02x", b[0])
	}
}

type stringCodec struct{}

func (stringCodec) Encode(v string) ([]byte, error) {
	if len(v) > maxLenPrefixed {
		return nil, ErrOversized
	}
	b := make([]byte, 4+len(v))
	binary.BigEndian.PutUint32(b, uint32(len(v)))
	copy(b[4:], v)
	return b, nil
}

func (stringCodec) Size(v string) (int, error) {
	if len(v) > maxLenPrefixed {
		return 0, ErrOversized
	}
	return 4 + len(v), nil
}

func (c stringCodec) Decode(b []byte) (string, error) { return decodeFull[string](c, b) }

func (stringCodec) DecodeNext(b []byte) (string, int, error) {
	if len(b) < 4 {
		return "", 0, ErrShortBuffer
	}
	n := int(binary.BigEndian.Uint32(b))
	if len(b) < 4+n {
		return "", 0, ErrShortBuffer
	}
	return string(b[4 : 4+n]), 4 + n, nil
}

type bytesCodec struct{}

func (bytesCodec) Encode(v []byte) ([]byte, error) {
	if len(v) > maxLenPrefixed {
		return nil, ErrOversized
	}
	b := make([]byte, 4+len(v))
	binary.BigEndian.PutUint32(b, uint32(len(v)))
	copy(b[4:], v)
	return b, nil
}

func (bytesCodec) Size(v []byte) (int, error) {
	if len(v) > maxLenPrefixed {
		return 0, ErrOversized
	}
	return 4 + len(v), nil
}

func (c bytesCodec) Decode(b []byte) ([]byte, error) { return decodeFull[[]byte](c, b) }

func (bytesCodec) DecodeNext(b []byte) ([]byte, int, error) {
	if len(b) < 4 {
		return nil, 0, ErrShortBuffer
	}
	n := int(binary.BigEndian.Uint32(b))
	if len(b) < 4+n {
		return nil, 0, ErrShortBuffer
	}
	out := make([]byte, n)
	copy(out, b[4:4+n])
	return out, 4 + n, nil
}

type rawBytesCodec struct{}

func (rawBytesCodec) Encode(v []byte) ([]byte, error) {
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (rawBytesCodec) Size(v []byte) (int, error) { return len(v), nil }

func (rawBytesCodec) Decode(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
