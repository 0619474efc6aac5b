package mapping

import (
	"contractalloc/domain/core"
	"contractalloc/domain/table"
)

// Rename returns a copy of t with its columns renamed by m.
// Every source column of m must exist in t; columns m does not mention keep their name.
// Row order and count are unchanged and t is not modified. A kept column whose name
// equals a renamed one is reported as a ColumnClashError.
func Rename(t *table.Table, m ColumnMapping) (*table.Table, error) {
	for _, src := range m.Sources() {
		if _, ok := t.ColumnIndex(src); !ok {
			return nil, &core.MissingColumnError{Table: t.Name, Column: src}
		}
	}

	out := t.Clone()
	seen := make(map[string]bool, len(out.Columns))
	for i, col := range out.Columns {
		if to, ok := m.Lookup(col); ok {
			out.Columns[i] = to
		}
		if seen[out.Columns[i]] {
			return nil, &core.ColumnClashError{Table: t.Name, Column: out.Columns[i]}
		}
		seen[out.Columns[i]] = true
	}
	return out, nil
}

// MissingColumns lists every source column of m absent from t, in mapping order.
func MissingColumns(t *table.Table, m ColumnMapping) []error {
	var errs []error
	for _, src := range m.Sources() {
		if _, ok := t.ColumnIndex(src); !ok {
			errs = append(errs, &core.MissingColumnError{Table: t.Name, Column: src})
		}
	}
	return errs
}
