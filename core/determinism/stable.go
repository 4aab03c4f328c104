// Package determinism provides primitives for deterministic identifiers and
// content hashing of reference data.
package determinism

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sort"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// Hasher accumulates separated parts into a namespaced content hash.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates a hasher scoped to a namespace
func NewHasher(namespace string) *Hasher {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	return &Hasher{h: h}
}

// Write adds parts to the hash, each followed by a separator
func (h *Hasher) Write(parts ...string) {
	for _, part := range parts {
		h.h.Write([]byte(part))
		h.h.Write([]byte{0})
	}
}

// Sum returns the accumulated hash
func (h *Hasher) Sum() ContentHash {
	var out ContentHash
	copy(out[:], h.h.Sum(nil))
	return out
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}
