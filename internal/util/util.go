// Package util contains small numeric helpers shared by the span calculator
// and the pipeline hashing code.
package util

import "math/bits"

// NextPOT returns the smallest power of two that is >= a.
// NextPOT(0) is 1.
func NextPOT(a int) int {
	if a <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(a-1))
}

// PrevPOT returns the largest power of two that is <= a, or 0 if a < 1.
func PrevPOT(a int) int {
	if a < 1 {
		return 0
	}
	return 1 << (bits.Len(uint(a)) - 1)
}

// IsPOT reports whether a is a positive power of two.
func IsPOT(a int) bool {
	return a > 0 && a&(a-1) == 0
}

// Hash is Bob Jenkins' one-at-a-time hash, fed incrementally.
// Call Finish to get the mixed result.
type Hash uint32

// Bytes mixes b into the hash.
func (h Hash) Bytes(b []byte) Hash {
	for _, c := range b {
		h += Hash(c)
		h += h << 10
		h ^= h >> 6
	}
	return h
}

// Uint32 mixes the little-endian bytes of v into the hash.
func (h Hash) Uint32(v uint32) Hash {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return h.Bytes(b[:])
}

// Uint64 mixes v into the hash.
func (h Hash) Uint64(v uint64) Hash {
	return h.Uint32(uint32(v)).Uint32(uint32(v >> 32))
}

// Bool mixes a single 0 or 1 byte.
func (h Hash) Bool(v bool) Hash {
	if v {
		return h.Bytes([]byte{1})
	}
	return h.Bytes([]byte{0})
}

// Finish applies the final avalanche.
func (h Hash) Finish() uint32 {
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return uint32(h)
}
