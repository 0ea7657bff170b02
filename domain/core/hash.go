package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SampleHash fingerprints a joint sample set for determinism checks
type SampleHash Hash

func (h SampleHash) String() string { return Hash(h).String() }

// ComputeSampleHash hashes per-variable sample arrays in key order, so two
// runs with the same seed and configuration produce equal hashes.
func ComputeSampleHash(samples map[string][]float64) SampleHash {
	keys := make([]string, 0, len(samples))
	for k := range samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hasher := sha256.New()
	buf := make([]byte, 8)
	for _, key := range keys {
		hasher.Write([]byte(key))
		for _, v := range samples[key] {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			hasher.Write(buf)
		}
	}
	return SampleHash(hex.EncodeToString(hasher.Sum(nil)))
}
