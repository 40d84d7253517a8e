package ecs

import (
	"fmt"
	"iter"
	"math/bits"
)

// Identified is implemented by anything that can be stored in a SparseSet.
// The id must stay stable while the value is a member of any set.
type Identified interface {
	ID() uint32
}

// SparseSet is a packed set of values keyed by their id. Membership tests,
// insertion and deletion are O(1); the members are kept contiguous in a dense
// slice so iteration is cache friendly.
//
// Deletion moves the last member into the freed slot, so iteration order is
// insertion order only until the first Delete.
type SparseSet[T Identified] struct {
	dense  []T
	sparse []uint32
	size   int
}

// NewSparseSet creates a set with room for ids below capacity.
func NewSparseSet[T Identified](capacity int) *SparseSet[T] {
	s := &SparseSet[T]{}
	if capacity > 0 {
		s.Reserve(capacity)
	}
	return s
}

// SparseSetOf creates a set holding the given items.
func SparseSetOf[T Identified](items ...T) *SparseSet[T] {
	s := &SparseSet[T]{}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Len returns the number of members.
func (s *SparseSet[T]) Len() int {
	return s.size
}

// Cap returns the number of ids the set can hold without growing.
func (s *SparseSet[T]) Cap() int {
	return len(s.sparse)
}

// Empty reports whether the set has no members.
func (s *SparseSet[T]) Empty() bool {
	return s.size == 0
}

// Clear removes every member. Capacity is kept.
func (s *SparseSet[T]) Clear() {
	clear(s.dense)
	clear(s.sparse)
	s.size = 0
}

// Reserve grows the backing storage so that ids below n fit.
func (s *SparseSet[T]) Reserve(n int) {
	if n <= len(s.sparse) {
		return
	}
	dense := make([]T, n)
	copy(dense, s.dense)
	sparse := make([]uint32, n)
	copy(sparse, s.sparse)
	s.dense = dense
	s.sparse = sparse
}

// Accommodate makes sure at least needed more members fit without growing.
func (s *SparseSet[T]) Accommodate(needed int) {
	free := len(s.sparse) - s.size
	if free < needed {
		s.Reserve(nextPow2(uint32(len(s.sparse) + needed - free - 1)))
	}
}

// Has reports whether a member with the given id is present.
func (s *SparseSet[T]) Has(id uint32) bool {
	_, ok := s.IndexOf(id)
	return ok
}

// Get returns the member with the given id.
func (s *SparseSet[T]) Get(id uint32) (T, bool) {
	idx, ok := s.IndexOf(id)
	if !ok {
		var zero T
		return zero, false
	}
	return s.dense[idx], true
}

// IndexOf returns the dense index of the member with the given id.
func (s *SparseSet[T]) IndexOf(id uint32) (int, bool) {
	if int(id) >= len(s.sparse) {
		return 0, false
	}
	idx := int(s.sparse[id])
	if idx >= s.size || s.dense[idx].ID() != id {
		return 0, false
	}
	return idx, true
}

// At returns the member stored at dense index i. It panics if i is out of range.
func (s *SparseSet[T]) At(i int) T {
	s.checkIndex(i)
	return s.dense[i]
}

// Add inserts obj and reports whether it was not already present.
func (s *SparseSet[T]) Add(obj T) bool {
	id := obj.ID()
	if s.Has(id) {
		return false
	}
	if int(id) >= len(s.sparse) {
		s.Reserve(nextPow2(id))
	}
	s.dense[s.size] = obj
	s.sparse[id] = uint32(s.size)
	s.size++
	return true
}

// Delete removes obj and reports whether it was present.
func (s *SparseSet[T]) Delete(obj T) bool {
	idx, ok := s.IndexOf(obj.ID())
	if !ok {
		return false
	}
	s.removeAt(idx)
	return true
}

// RemoveAt removes and returns the member at dense index i. It panics if i is
// out of range.
func (s *SparseSet[T]) RemoveAt(i int) T {
	s.checkIndex(i)
	removed := s.dense[i]
	s.removeAt(i)
	return removed
}

func (s *SparseSet[T]) removeAt(i int) {
	last := s.size - 1
	moved := s.dense[last]
	s.dense[i] = moved
	s.sparse[moved.ID()] = uint32(i)

	var zero T
	s.dense[last] = zero
	s.size = last
}

func (s *SparseSet[T]) checkIndex(i int) {
	if i < 0 || i >= s.size {
		panic(fmt.Sprintf("ecs: sparse set index %d out of range [0,%d)", i, s.size))
	}
}

// Dense returns the members as a slice backed by the set. The slice must not be
// modified and is invalidated by the next Add or Delete.
func (s *SparseSet[T]) Dense() []T {
	return s.dense[:s.size]
}

// Values returns a copy of the members.
func (s *SparseSet[T]) Values() []T {
	values := make([]T, s.size)
	copy(values, s.dense[:s.size])
	return values
}

// All yields every member together with its dense index.
func (s *SparseSet[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.size; i++ {
			if !yield(i, s.dense[i]) {
				return
			}
		}
	}
}

// Subset reports whether every member of s is also a member of other.
func (s *SparseSet[T]) Subset(other *SparseSet[T]) bool {
	if s.size > other.size {
		return false
	}
	for i := 0; i < s.size; i++ {
		if !other.Has(s.dense[i].ID()) {
			return false
		}
	}
	return true
}

// Union returns a new set with the members of both sets.
func (s *SparseSet[T]) Union(other *SparseSet[T]) *SparseSet[T] {
	result := NewSparseSet[T](max(len(s.sparse), len(other.sparse)))
	for i := 0; i < s.size; i++ {
		result.Add(s.dense[i])
	}
	for i := 0; i < other.size; i++ {
		result.Add(other.dense[i])
	}
	return result
}

// Intersection returns a new set with the members present in both sets.
func (s *SparseSet[T]) Intersection(other *SparseSet[T]) *SparseSet[T] {
	small, large := s, other
	if small.size > large.size {
		small, large = large, small
	}
	result := NewSparseSet[T](0)
	for i := 0; i < small.size; i++ {
		if large.Has(small.dense[i].ID()) {
			result.Add(small.dense[i])
		}
	}
	return result
}

// Difference returns a new set with the members of s that are not in other.
func (s *SparseSet[T]) Difference(other *SparseSet[T]) *SparseSet[T] {
	result := NewSparseSet[T](0)
	for i := 0; i < s.size; i++ {
		if !other.Has(s.dense[i].ID()) {
			result.Add(s.dense[i])
		}
	}
	return result
}

// nextPow2 returns the smallest power of two strictly greater than n.
func nextPow2(n uint32) int {
	return 1 << bits.Len32(n)
}
