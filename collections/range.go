package collections

// Range describes a key interval for bounded iteration. The zero value
// is unbounded on both ends. Bound methods return a modified copy, so
// ranges chain:
//
//	m.Range(collections.Range[uint64]{}.StartInclusive(13).EndExclusive(14))
type Range[K any] struct {
	start *rangeBound[K]
	end   *rangeBound[K]
}

type rangeBound[K any] struct {
	key       K
	inclusive bool
}

// StartInclusive bounds the range to keys >= key.
func (r Range[K]) StartInclusive(key K) Range[K] {
	r.start = &rangeBound[K]{key: key, inclusive: true}
	return r
}

// StartExclusive bounds the range to keys > key.
func (r Range[K]) StartExclusive(key K) Range[K] {
	r.start = &rangeBound[K]{key: key, inclusive: false}
	return r
}

// EndInclusive bounds the range to keys <= key.
func (r Range[K]) EndInclusive(key K) Range[K] {
	r.end = &rangeBound[K]{key: key, inclusive: true}
	return r
}

// EndExclusive bounds the range to keys < key.
func (r Range[K]) EndExclusive(key K) Range[K] {
	r.end = &rangeBound[K]{key: key, inclusive: false}
	return r
}
