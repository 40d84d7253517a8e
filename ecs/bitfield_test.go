package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/sigecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitField(t *testing.T) {
	t.Run("new field has at least one word", func(t *testing.T) {
		assert.Equal(t, 1, ecs.NewBitField(0).Len())
		assert.Equal(t, 1, ecs.NewBitField(32).Len())
		assert.Equal(t, 2, ecs.NewBitField(33).Len())
	})

	t.Run("set and get", func(t *testing.T) {
		f := ecs.NewBitField(32)
		f.Set(3)
		f.Set(31)

		assert.True(t, f.Get(3))
		assert.True(t, f.Get(31))
		assert.False(t, f.Get(4))
		assert.False(t, f.Get(1000))
		assert.Equal(t, 2, f.Count())
	})

	t.Run("set beyond capacity grows", func(t *testing.T) {
		f := ecs.NewBitField(32)
		f.Set(40)

		assert.Equal(t, 2, f.Len())
		assert.True(t, f.Get(40))
	})

	t.Run("unset grows and clears", func(t *testing.T) {
		f := ecs.NewBitField(32)
		f.Set(5)
		f.Unset(5)
		f.Unset(70)

		assert.False(t, f.Get(5))
		assert.Equal(t, 3, f.Len())
		assert.Equal(t, 0, f.Count())
	})

	t.Run("clear keeps length", func(t *testing.T) {
		f := ecs.NewBitField(64)
		f.Set(1)
		f.Set(63)
		f.Clear()

		assert.Equal(t, 2, f.Len())
		assert.Equal(t, 0, f.Count())
	})

	t.Run("negative index panics", func(t *testing.T) {
		f := ecs.NewBitField(32)
		assert.Panics(t, func() { f.Set(-1) })
		assert.Panics(t, func() { f.Get(-1) })
	})

	t.Run("clone is independent", func(t *testing.T) {
		f := ecs.NewBitField(32)
		f.Set(2)
		c := f.Clone()
		c.Set(4)

		assert.False(t, f.Get(4))
		assert.True(t, c.Get(2))
		assert.True(t, ecs.BitFieldFrom(f).Equal(f))
	})
}

func TestBitFieldSetAlgebra(t *testing.T) {
	a := ecs.NewBitField(32)
	a.Set(1)
	a.Set(2)

	b := ecs.NewBitField(32)
	b.Set(2)
	b.Set(40)

	t.Run("union", func(t *testing.T) {
		u := a.Union(b)
		assert.Equal(t, []int{1, 2, 40}, slices.Collect(u.Ones()))
		assert.Equal(t, 2, u.Len())
	})

	t.Run("intersection", func(t *testing.T) {
		assert.Equal(t, []int{2}, slices.Collect(a.Intersection(b).Ones()))
	})

	t.Run("difference", func(t *testing.T) {
		assert.Equal(t, []int{1}, slices.Collect(a.Difference(b).Ones()))
		assert.Equal(t, []int{40}, slices.Collect(b.Difference(a).Ones()))
	})

	t.Run("operands are not modified", func(t *testing.T) {
		assert.Equal(t, "{1,2}", a.String())
		assert.Equal(t, "{2,40}", b.String())
	})
}

func TestBitFieldSubset(t *testing.T) {
	t.Run("empty is a subset of everything", func(t *testing.T) {
		empty := ecs.NewBitField(0)
		other := ecs.NewBitField(32)
		other.Set(7)

		assert.True(t, empty.Subset(other))
		assert.True(t, empty.Subset(empty))
	})

	t.Run("independent of length", func(t *testing.T) {
		short := ecs.NewBitField(32)
		short.Set(3)

		long := ecs.NewBitField(128)
		long.Set(3)
		long.Set(100)

		assert.True(t, short.Subset(long))
		assert.False(t, long.Subset(short))

		// A long field whose upper words are zero is still a subset.
		padded := ecs.NewBitField(128)
		padded.Set(3)
		assert.True(t, padded.Subset(short))
	})

	t.Run("missing bit", func(t *testing.T) {
		a := ecs.NewBitField(32)
		a.Set(1)
		a.Set(2)
		b := ecs.NewBitField(32)
		b.Set(1)

		assert.False(t, a.Subset(b))
		assert.True(t, b.Subset(a))
	})
}

func TestBitFieldCompare(t *testing.T) {
	a := ecs.NewBitField(32)
	a.Set(3)

	b := ecs.NewBitField(64)
	b.Set(3)
	b.Set(50)

	// Compare looks only at the shorter operand's words.
	assert.True(t, a.Compare(b))
	assert.False(t, a.Equal(b))

	b.Unset(50)
	assert.True(t, a.Equal(b))

	c := ecs.NewBitField(32)
	c.Set(4)
	assert.False(t, a.Compare(c))
}

func TestSpec(t *testing.T) {
	_, c := newTestRegistry()

	s := ecs.Spec(c.Position, c.Health)
	require.Equal(t, 2, s.Count())
	assert.True(t, s.Get(int(c.Position.ID())))
	assert.True(t, s.Get(int(c.Health.ID())))
	assert.Equal(t, 0, ecs.Spec().Count())
}
