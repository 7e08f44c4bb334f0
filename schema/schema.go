// Package schema defines the table-schema and projection contracts
// the row-wise iterator consumes (spec.md §6): column identifiers,
// their declared types, how many leading columns are primary-key
// columns, and how to decode those key columns back out of an encoded
// document key.
package schema

import (
	"fmt"

	"github.com/pingcap/errors"
)

// ColumnID is an integer tag stable across schema versions (spec.md §3).
type ColumnID int32

// Type is the declared storage type of a column.
type Type int8

const (
	TypeInt64 Type = iota
	TypeString
	TypeBool
	TypeBytes
	TypeDouble
)

func (t Type) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "bytes"
	case TypeDouble:
		return "double"
	default:
		return "unknown"
	}
}

// Column describes one column of a table.
type Column struct {
	ID    ColumnID
	Name  string
	Type  Type
	IsKey bool
}

// Table is an ordered list of columns. The first KeyColumnCount
// columns are the primary-key columns, in primary-key order; the
// remainder are regular, single-component-sub-path columns.
type Table struct {
	Columns       []Column
	KeyColumnCount int
}

// ColumnCount returns the total number of columns, key and non-key.
func (t *Table) ColumnCount() int { return len(t.Columns) }

// ColumnByID looks up a column's definition by id.
func (t *Table) ColumnByID(id ColumnID) (Column, bool) {
	for _, c := range t.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnByIndex returns the column at ordinal position i (0-based,
// matching on-disk declaration order).
func (t *Table) ColumnByIndex(i int) (Column, bool) {
	if i < 0 || i >= len(t.Columns) {
		return Column{}, false
	}
	return t.Columns[i], true
}

// KeyColumns returns the leading primary-key columns, in key order.
func (t *Table) KeyColumns() []Column {
	if t.KeyColumnCount > len(t.Columns) {
		return t.Columns
	}
	return t.Columns[:t.KeyColumnCount]
}

// Validate checks the table definition is internally consistent.
func (t *Table) Validate() error {
	if t.KeyColumnCount < 0 || t.KeyColumnCount > len(t.Columns) {
		return errors.Errorf("schema: key column count %d out of range for %d columns", t.KeyColumnCount, len(t.Columns))
	}
	for i, c := range t.Columns {
		wantKey := i < t.KeyColumnCount
		if c.IsKey != wantKey {
			return errors.Errorf("schema: column %q at position %d has IsKey=%v, want %v", c.Name, i, c.IsKey, wantKey)
		}
	}
	seen := make(map[ColumnID]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := seen[c.ID]; dup {
			return errors.Errorf("schema: duplicate column id %d", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

func (t *Table) String() string {
	return fmt.Sprintf("Table{columns=%d, keys=%d}", len(t.Columns), t.KeyColumnCount)
}
