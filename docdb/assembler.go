package docdb

import (
	"github.com/ariesdevil/yugabyte-db/schema"
)

// Row is one materialized logical row: one value per projected
// column, in projection order (spec.md §3, §4.6).
type Row struct {
	Values []interface{} // nil entry means NULL
}

// assembleRow translates a document's decoded primary-key values and
// computed non-key cells into a projected Row, per spec.md §4.6.
func assembleRow(projection *schema.Projection, keyValues map[schema.ColumnID]interface{}, cells map[schema.ColumnID]*Primitive) (Row, error) {
	row := Row{Values: make([]interface{}, len(projection.Columns))}
	for i, col := range projection.Columns {
		if col.IsKey {
			v, ok := keyValues[col.ID]
			if !ok {
				return Row{}, newCorruptionError("assembler: missing key column %q in decoded document key", col.Name)
			}
			row.Values[i] = v
			continue
		}

		cell, ok := cells[col.ID]
		if !ok || cell == nil {
			row.Values[i] = nil
			continue
		}
		if cell.Type != col.Type {
			return Row{}, newCorruptionError(
				"assembler: column %q declared as %s but decoded value has type %s", col.Name, col.Type, cell.Type)
		}
		row.Values[i] = primitiveToValue(*cell)
	}
	return row, nil
}

// primitiveToValue unwraps a Primitive into the same interface{} shape
// schema.DecodeKeyValue produces, so key and non-key row values are
// uniform from the caller's perspective.
func primitiveToValue(p Primitive) interface{} {
	switch p.Type {
	case schema.TypeInt64:
		return p.Int64
	case schema.TypeString:
		return p.Str
	case schema.TypeBool:
		return p.Bool
	case schema.TypeBytes:
		return p.Bytes
	case schema.TypeDouble:
		return p.Double
	default:
		return nil
	}
}

// rowAllNull reports whether every non-key value in a row is NULL —
// used by the walker to decide whether a tombstoned document should be
// suppressed entirely (spec.md §4.5 step 5).
func rowAllNull(projection *schema.Projection, row Row) bool {
	for i, col := range projection.Columns {
		if col.IsKey {
			continue
		}
		if row.Values[i] != nil {
			return false
		}
	}
	return true
}
