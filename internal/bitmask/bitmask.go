// Package bitmask implements a growable bit set stored in 64-bit words.
package bitmask

import "math/bits"

// Bitmask is a set of non-negative integers. The zero value is empty.
type Bitmask []uint64

// Set returns b with bit added.
func (b Bitmask) Set(bit int) Bitmask {
	word, pos := bit/64, uint(bit%64)
	for len(b) <= word {
		b = append(b, 0)
	}
	b[word] |= 1 << pos
	return b
}

// Clear returns b with bit removed.
func (b Bitmask) Clear(bit int) Bitmask {
	word, pos := bit/64, uint(bit%64)
	if len(b) <= word {
		return b
	}
	b[word] &^= 1 << pos
	return b
}

// Has reports whether bit is set.
func (b Bitmask) Has(bit int) bool {
	word, pos := bit/64, uint(bit%64)
	if bit < 0 || len(b) <= word {
		return false
	}
	return b[word]&(1<<pos) != 0
}

// Popcount returns the number of set bits.
func (b Bitmask) Popcount() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// ForEachSet calls fn for every set bit in ascending order.
func (b Bitmask) ForEachSet(fn func(bit int)) {
	for wordIdx, word := range b {
		for word != 0 {
			pos := bits.TrailingZeros64(word)
			fn(wordIdx*64 + pos)
			word &^= 1 << uint(pos)
		}
	}
}

// Equal reports whether a and b contain the same bits, ignoring trailing
// zero words.
func (b Bitmask) Equal(o Bitmask) bool {
	n := max(len(b), len(o))
	for i := 0; i < n; i++ {
		var x, y uint64
		if i < len(b) {
			x = b[i]
		}
		if i < len(o) {
			y = o[i]
		}
		if x != y {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (b Bitmask) Clone() Bitmask {
	if b == nil {
		return nil
	}
	c := make(Bitmask, len(b))
	copy(c, b)
	return c
}
