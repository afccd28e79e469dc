package merkle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	ics23 "github.com/cosmos/ics23/go"

	"github.com/blockberries/stateberry/memory"
	"github.com/blockberries/stateberry/store"
)

// RootHashSize is the size of a merkle root hash in bytes.
const RootHashSize = 32

// Proof errors.
var (
	// ErrVerification indicates a proof was rejected: forged, truncated,
	// or produced against a different root hash.
	ErrVerification = errors.New("merkle: proof verification failed")

	// ErrMalformedProof indicates the proof payload could not be parsed.
	ErrMalformedProof = errors.New("merkle: malformed proof payload")

	// ErrNotProven indicates a key was read from a verified mapping that
	// the proof does not cover. The remote may be withholding data; the
	// absence of a key from a proof is not evidence of its absence from
	// the tree.
	ErrNotProven = errors.New("merkle: key not covered by proof")
)

// The proof payload is a sequence of entries, each proving one
// key-value pair's membership in the tree:
//
//	u32 keyLen || key || u32 valueLen || value || u32 proofLen || ICS23 CommitmentProof
//
// Lengths are big-endian. Keys travel in store form; verification
// applies the tree key tag. Only present keys are included; the
// verified mapping answers ErrNotProven for anything else.

// Proof returns the serialized ICS23 commitment proof for a key in the
// working tree.
func (s *MerkleStore) Proof(key []byte) ([]byte, error) {
	proof, err := s.tree.GetProof(treeKey(key))
	if err != nil {
		return nil, fmt.Errorf("getting proof: %w", err)
	}
	proofBytes, err := proof.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshaling proof: %w", err)
	}
	return proofBytes, nil
}

// BuildProof assembles a proof payload covering the given keys. Keys
// absent from the tree are skipped: the payload only ever contains
// proven pairs. Duplicate keys are proven once.
func (s *MerkleStore) BuildProof(keys [][]byte) ([]byte, error) {
	uniq := make([][]byte, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}
		uniq = append(uniq, key)
	}
	sort.Slice(uniq, func(i, j int) bool { return bytes.Compare(uniq[i], uniq[j]) < 0 })

	buf := memory.ProofPool.Get()
	defer memory.ProofPool.Put(buf)

	entries := 0
	for _, key := range uniq {
		value, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		proofBytes, err := s.Proof(key)
		if err != nil {
			return nil, err
		}
		writeField(buf, key)
		writeField(buf, value)
		writeField(buf, proofBytes)
		entries++
	}
	s.metrics.ProofBuilt(entries)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func writeField(buf *bytes.Buffer, field []byte) {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(field)))
	buf.Write(lenBytes[:])
	buf.Write(field)
}

func readField(b []byte) ([]byte, []byte, error) {
	if len(b) < 4 {
		return nil, nil, ErrMalformedProof
	}
	n := int(binary.BigEndian.Uint32(b))
	if len(b) < 4+n {
		return nil, nil, ErrMalformedProof
	}
	return b[4 : 4+n], b[4+n:], nil
}

// Verify checks every entry of a proof payload against the trusted root
// hash and returns the verified mapping. Any entry failing ICS23
// membership verification rejects the whole payload.
func Verify(proofBytes []byte, rootHash [RootHashSize]byte) (*VerifiedMap, error) {
	var entries []store.KV

	rest := proofBytes
	for len(rest) > 0 {
		var key, value, commitment []byte
		var err error

		if key, rest, err = readField(rest); err != nil {
			return nil, err
		}
		if value, rest, err = readField(rest); err != nil {
			return nil, err
		}
		if commitment, rest, err = readField(rest); err != nil {
			return nil, err
		}

		proof := &ics23.CommitmentProof{}
		if err := proof.Unmarshal(commitment); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
		}
		if !ics23.VerifyMembership(ics23.IavlSpec, rootHash[:], proof, treeKey(key), value) {
			return nil, fmt.Errorf("%w: key %x", ErrVerification, key)
		}

		entries = append(entries, store.KV{Key: key, Value: value})
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Key, entries[j].Key) < 0
	})
	return &VerifiedMap{entries: entries}, nil
}

// VerifiedMap is an immutable key-value mapping attested by an accepted
// proof. It distinguishes "proven to hold value" from "not covered by
// the proof"; it never represents proven absence.
type VerifiedMap struct {
	entries []store.KV
}

// Get returns the proven value for a key. The second return is false
// when the proof does not cover the key.
func (m *VerifiedMap) Get(key []byte) ([]byte, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return bytes.Compare(m.entries[i].Key, key) >= 0
	})
	if i < len(m.entries) && bytes.Equal(m.entries[i].Key, key) {
		return m.entries[i].Value, true
	}
	return nil, false
}

// GetNext returns the proven entry with the smallest key strictly
// greater than key, or nil if the proof covers none.
func (m *VerifiedMap) GetNext(key []byte) *store.KV {
	i := sort.Search(len(m.entries), func(i int) bool {
		return bytes.Compare(m.entries[i].Key, key) > 0
	})
	if i < len(m.entries) {
		kv := m.entries[i]
		return &kv
	}
	return nil
}

// Len returns the number of proven entries.
func (m *VerifiedMap) Len() int {
	return len(m.entries)
}
