package schema

import "github.com/pingcap/errors"

// Projection is an ordered list of columns to materialize into a Row
// (spec.md §3). Key columns may or may not be included; non-included
// non-key columns are never decoded.
type Projection struct {
	Columns []Column
}

// NewProjection builds a projection from column names against a
// table, in the order given. keyPrefixCount, if non-zero, asserts
// that the first keyPrefixCount names are expected to be exactly the
// table's leading key columns in key order — a shortcut some callers
// use instead of naming each key column individually. A
// keyPrefixCount exceeding the table's actual key column count is a
// configuration error (spec.md §9's open question): it can never be
// satisfied, so it is rejected up front rather than silently ignored.
func NewProjection(table *Table, columnNames []string, keyPrefixCount int) (*Projection, error) {
	if keyPrefixCount > table.KeyColumnCount {
		return nil, errors.Errorf(
			"schema: projection requests %d key-prefix columns but table only has %d",
			keyPrefixCount, table.KeyColumnCount)
	}
	if keyPrefixCount > len(columnNames) {
		return nil, errors.Errorf(
			"schema: projection requests %d key-prefix columns but only %d names were given",
			keyPrefixCount, len(columnNames))
	}

	byName := make(map[string]Column, len(table.Columns))
	for _, c := range table.Columns {
		byName[c.Name] = c
	}

	keyCols := table.KeyColumns()
	cols := make([]Column, 0, len(columnNames))
	for i, name := range columnNames {
		if i < keyPrefixCount {
			if name != keyCols[i].Name {
				return nil, errors.Errorf(
					"schema: projection's key-prefix name %q at position %d does not match key column %q",
					name, i, keyCols[i].Name)
			}
			cols = append(cols, keyCols[i])
			continue
		}
		col, ok := byName[name]
		if !ok {
			return nil, errors.Errorf("schema: projection references unknown column %q", name)
		}
		cols = append(cols, col)
	}
	return &Projection{Columns: cols}, nil
}

// KeyOnly reports whether every column in the projection is a
// primary-key column (spec.md §4.5 step 5's "projection includes only
// key columns" case).
func (p *Projection) KeyOnly() bool {
	for _, c := range p.Columns {
		if !c.IsKey {
			return false
		}
	}
	return true
}

// NonKeyColumns returns the projected columns that are not primary
// key columns, in projection order. This is the set the document
// walker must actually decode cell values for.
func (p *Projection) NonKeyColumns() []Column {
	var out []Column
	for _, c := range p.Columns {
		if !c.IsKey {
			out = append(out, c)
		}
	}
	return out
}
