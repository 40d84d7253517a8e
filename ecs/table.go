package ecs

import (
	"fmt"
	"reflect"
)

// table holds the component data of one archetype inside one World. Each data
// component gets a column; a row belongs to a single entity instance for the
// whole life of that instance, including the time it spends in the pool.
type table struct {
	archetype *Archetype
	columns   []columnStorage
	rows      int
	live      int
	pool      []*Entity
	freeRows  []int
}

func newTable(archetype *Archetype) *table {
	t := &table{
		archetype: archetype,
		columns:   make([]columnStorage, len(archetype.components)),
	}

	for idx, c := range archetype.components {
		if c.factory != nil {
			t.columns[idx] = c.factory()
		}
	}

	return t
}

// allocRow reserves a zeroed row in every column. Released rows are reused first.
func (t *table) allocRow() int {
	if n := len(t.freeRows); n > 0 {
		row := t.freeRows[n-1]
		t.freeRows = t.freeRows[:n-1]
		t.resetRow(row)
		return row
	}

	row := t.rows
	for _, col := range t.columns {
		if col != nil {
			col.Append()
		}
	}
	t.rows++
	return row
}

// resetRow zeroes every component stored at row.
func (t *table) resetRow(row int) {
	for _, col := range t.columns {
		if col != nil {
			col.Reset(row)
		}
	}
}

// assign stores each value in the column of its type. A value whose type is
// not part of the archetype is a programming error.
func (t *table) assign(row int, values []any) {
	for _, value := range values {
		typ := valueType(value)
		col := t.columnFor(typ)
		if col == nil || !col.Set(row, value) {
			panic(fmt.Sprintf("ecs: %v has no component of type %v", t.archetype, typ))
		}
	}
}

// checkValues panics if any value has no column in the archetype. It runs
// before a row or pooled instance is taken so a bad call leaves t untouched.
func (t *table) checkValues(values []any) {
	for _, value := range values {
		if typ := valueType(value); t.columnFor(typ) == nil {
			panic(fmt.Sprintf("ecs: %v has no component of type %v", t.archetype, typ))
		}
	}
}

func (t *table) columnFor(typ reflect.Type) columnStorage {
	if typ == nil {
		return nil
	}
	for idx, c := range t.archetype.components {
		if c.typ == typ {
			return t.columns[idx]
		}
	}
	return nil
}

func (t *table) get(row int, typ reflect.Type) any {
	col := t.columnFor(typ)
	if col == nil {
		return nil
	}
	return col.Get(row)
}

// releaseRow hands a row back when its entity is discarded instead of pooled.
func (t *table) releaseRow(row int) {
	t.resetRow(row)
	t.freeRows = append(t.freeRows, row)
}

// popPooled returns a previously removed entity of this archetype, if any.
func (t *table) popPooled() *Entity {
	n := len(t.pool)
	if n == 0 {
		return nil
	}
	e := t.pool[n-1]
	t.pool[n-1] = nil
	t.pool = t.pool[:n-1]
	return e
}
