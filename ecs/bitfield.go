package ecs

import (
	"iter"
	"math/bits"
	"strconv"
	"strings"
)

const wordBits = 32

// BitField is a growable set of bits stored in 32-bit words. It is the
// signature type used to describe which components an archetype carries
// and which components a system requires.
//
// A BitField has single-writer semantics; it is not safe for concurrent mutation.
type BitField struct {
	words []uint32
}

// NewBitField creates a BitField able to hold nBits without growing.
// The backing storage always has at least one word.
func NewBitField(nBits int) *BitField {
	n := (nBits + wordBits - 1) / wordBits
	if n < 1 {
		n = 1
	}
	return &BitField{words: make([]uint32, n)}
}

// BitFieldFrom returns a copy of other.
func BitFieldFrom(other *BitField) *BitField {
	return other.Clone()
}

// Spec builds a system signature from the given components.
func Spec(components ...*ComponentType) *BitField {
	f := NewBitField(wordBits)
	for _, c := range components {
		f.Set(int(c.ID()))
	}
	return f
}

// Clone returns an independent copy of the bit field.
func (b *BitField) Clone() *BitField {
	words := make([]uint32, len(b.words))
	copy(words, b.words)
	return &BitField{words: words}
}

// Len returns the number of backing words.
func (b *BitField) Len() int {
	return len(b.words)
}

// Count returns the number of set bits.
func (b *BitField) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount32(w)
	}
	return n
}

// Get reports whether bit i is set. Bits beyond the current capacity are unset.
func (b *BitField) Get(i int) bool {
	checkBit(i)
	idx := i / wordBits
	if idx >= len(b.words) {
		return false
	}
	return b.words[idx]&(1<<uint(i%wordBits)) != 0
}

// Set sets bit i, growing the backing storage if needed.
func (b *BitField) Set(i int) {
	checkBit(i)
	idx := i / wordBits
	b.grow(idx + 1)
	b.words[idx] |= 1 << uint(i%wordBits)
}

// Unset clears bit i. Like Set it grows the storage to cover i.
func (b *BitField) Unset(i int) {
	checkBit(i)
	idx := i / wordBits
	b.grow(idx + 1)
	b.words[idx] &^= 1 << uint(i%wordBits)
}

// Clear zeroes every word without changing the length.
func (b *BitField) Clear() {
	clear(b.words)
}

func (b *BitField) grow(n int) {
	if n <= len(b.words) {
		return
	}
	b.words = append(b.words, make([]uint32, n-len(b.words))...)
}

// Subset reports whether every bit set in b is also set in other.
// Words missing from either operand are treated as zero, so the result
// does not depend on how far either field has grown.
func (b *BitField) Subset(other *BitField) bool {
	for i, w := range b.words {
		if w == 0 {
			continue
		}
		if i >= len(other.words) || w&other.words[i] != w {
			return false
		}
	}
	return true
}

// Union returns a new field holding the bits of both operands.
func (b *BitField) Union(other *BitField) *BitField {
	n := max(len(b.words), len(other.words))
	result := &BitField{words: make([]uint32, n)}
	for i := range result.words {
		result.words[i] = wordAt(b.words, i) | wordAt(other.words, i)
	}
	return result
}

// Intersection returns a new field holding the bits set in both operands.
func (b *BitField) Intersection(other *BitField) *BitField {
	n := max(len(b.words), len(other.words))
	result := &BitField{words: make([]uint32, n)}
	for i := range result.words {
		result.words[i] = wordAt(b.words, i) & wordAt(other.words, i)
	}
	return result
}

// Difference returns a new field holding the bits of b that are not set in other.
func (b *BitField) Difference(other *BitField) *BitField {
	n := max(len(b.words), len(other.words))
	result := &BitField{words: make([]uint32, n)}
	for i := range result.words {
		result.words[i] = wordAt(b.words, i) &^ wordAt(other.words, i)
	}
	return result
}

// Compare reports whether both fields hold the same words over the length of
// the shorter one. Trailing words of the longer field are ignored, so this is
// not a general equality test; use Equal for that.
func (b *BitField) Compare(other *BitField) bool {
	end := min(len(b.words), len(other.words))
	for i := 0; i < end; i++ {
		if b.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both fields hold exactly the same set of bits.
func (b *BitField) Equal(other *BitField) bool {
	n := max(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		if wordAt(b.words, i) != wordAt(other.words, i) {
			return false
		}
	}
	return true
}

// Ones yields the index of every set bit in ascending order.
func (b *BitField) Ones() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, w := range b.words {
			for w != 0 {
				pos := bits.TrailingZeros32(w)
				if !yield(i*wordBits + pos) {
					return
				}
				w &^= 1 << uint(pos)
			}
		}
	}
}

func (b *BitField) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for i := range b.Ones() {
		if !first {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(i))
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}

func wordAt(words []uint32, i int) uint32 {
	if i < len(words) {
		return words[i]
	}
	return 0
}

func checkBit(i int) {
	if i < 0 {
		panic("ecs: negative bit index " + strconv.Itoa(i))
	}
}
