package codec

// Pair is a two-field composite key. Encoded as the concatenation of
// both field encodings in declaration order, so iteration order is
// lexicographic over the (A, B) tuple.
type Pair[A, B any] struct {
	A A
	B B
}

// Triple is a three-field composite key, encoded like Pair with a third
// trailing field.
type Triple[A, B, C any] struct {
	A A
	B B
	C C
}

// PairKey builds a key codec for Pair[A, B] from its field codecs.
func PairKey[A, B any](a KeyCodec[A], b KeyCodec[B]) KeyCodec[Pair[A, B]] {
	return pairCodec[A, B]{a: a, b: b}
}

// TripleKey builds a key codec for Triple[A, B, C] from its field codecs.
func TripleKey[A, B, C any](a KeyCodec[A], b KeyCodec[B], c KeyCodec[C]) KeyCodec[Triple[A, B, C]] {
	return tripleCodec[A, B, C]{a: a, b: b, c: c}
}

type pairCodec[A, B any] struct {
	a KeyCodec[A]
	b KeyCodec[B]
}

func (p pairCodec[A, B]) Encode(v Pair[A, B]) ([]byte, error) {
	ab, err := p.a.Encode(v.A)
	if err != nil {
		return nil, err
	}
	bb, err := p.b.Encode(v.B)
	if err != nil {
		return nil, err
	}
	return append(ab, bb...), nil
}

func (p pairCodec[A, B]) Size(v Pair[A, B]) (int, error) {
	an, err := p.a.Size(v.A)
	if err != nil {
		return 0, err
	}
	bn, err := p.b.Size(v.B)
	if err != nil {
		return 0, err
	}
	return an + bn, nil
}

func (p pairCodec[A, B]) Decode(b []byte) (Pair[A, B], error) {
	return decodeFull[Pair[A, B]](p, b)
}

func (p pairCodec[A, B]) DecodeNext(b []byte) (Pair[A, B], int, error) {
	var out Pair[A, B]
	av, an, err := p.a.DecodeNext(b)
	if err != nil {
		return out, 0, err
	}
	bv, bn, err := p.b.DecodeNext(b[an:])
	if err != nil {
		return out, 0, err
	}
	out.A = av
	out.B = bv
	return out, an + bn, nil
}

type tripleCodec[A, B, C any] struct {
	a KeyCodec[A]
	b KeyCodec[B]
	c KeyCodec[C]
}

func (t tripleCodec[A, B, C]) Encode(v Triple[A, B, C]) ([]byte, error) {
	ab, err := t.a.Encode(v.A)
	if err != nil {
		return nil, err
	}
	bb, err := t.b.Encode(v.B)
	if err != nil {
		return nil, err
	}
	cb, err := t.c.Encode(v.C)
	if err != nil {
		return nil, err
	}
	out := append(ab, bb...)
	return append(out, cb...), nil
}

func (t tripleCodec[A, B, C]) Size(v Triple[A, B, C]) (int, error) {
	an, err := t.a.Size(v.A)
	if err != nil {
		return 0, err
	}
	bn, err := t.b.Size(v.B)
	if err != nil {
		return 0, err
	}
	cn, err := t.c.Size(v.C)
	if err != nil {
		return 0, err
	}
	return an + bn + cn, nil
}

func (t tripleCodec[A, B, C]) Decode(b []byte) (Triple[A, B, C], error) {
	return decodeFull[Triple[A, B, C]](t, b)
}

func (t tripleCodec[A, B, C]) DecodeNext(b []byte) (Triple[A, B, C], int, error) {
	var out Triple[A, B, C]
	av, an, err := t.a.DecodeNext(b)
	if err != nil {
		return out, 0, err
	}
	bv, bn, err := t.b.DecodeNext(b[an:])
	if err != nil {
		return out, 0, err
	}
	cv, cn, err := t.c.DecodeNext(b[an+bn:])
	if err != nil {
		return out, 0, err
	}
	out.A = av
	out.B = bv
	out.C = cv
	return out, an + bn + cn, nil
}
