package ecs

import "reflect"

// columnStorage is the type-erased column holding one component type for every
// row of an archetype table.
type columnStorage interface {
	// Append allocates a zeroed row and returns its index.
	Append() int
	// Get returns a pointer to the component at the given row, or nil.
	Get(row int) any
	// Set stores value at row. It reports false if value has the wrong type.
	Set(row int, value any) bool
	// Reset zeroes the component at row.
	Reset(row int)
	// Len returns the number of allocated rows.
	Len() int
}

const (
	columnBlockSize = 64
)

// blockColumn stores components of type T in fixed-size blocks so that
// pointers handed out by Get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*[columnBlockSize]T
	rows   int
}

func newColumnFactory[T any]() func() columnStorage {
	return func() columnStorage {
		return &blockColumn[T]{}
	}
}

// Append adds a zero value and returns its row.
func (c *blockColumn[T]) Append() int {
	row := c.rows
	c.rows++

	if row/columnBlockSize >= len(c.blocks) {
		c.blocks = append(c.blocks, new([columnBlockSize]T))
	}
	return row
}

// Get returns a pointer to the component at row.
func (c *blockColumn[T]) Get(row int) any {
	if row < 0 || row >= c.rows {
		return nil
	}
	return &c.blocks[row/columnBlockSize][row%columnBlockSize]
}

// Set stores a component value. Both T and *T are accepted.
func (c *blockColumn[T]) Set(row int, value any) bool {
	if row < 0 || row >= c.rows {
		return false
	}

	var item T
	if ptr, ok := value.(*T); ok {
		item = *ptr
	} else if val, ok := value.(T); ok {
		item = val
	} else {
		return false
	}

	c.blocks[row/columnBlockSize][row%columnBlockSize] = item
	return true
}

// Reset zeroes the component at row.
func (c *blockColumn[T]) Reset(row int) {
	if row < 0 || row >= c.rows {
		return
	}
	var zero T
	c.blocks[row/columnBlockSize][row%columnBlockSize] = zero
}

func (c *blockColumn[T]) Len() int {
	return c.rows
}

// valueType returns the component type a value is stored under.
func valueType(value any) reflect.Type {
	t := reflect.TypeOf(value)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
