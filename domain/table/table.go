package table

import (
	"fmt"
)

// Table is a named, ordered set of rows read from or written to one sheet.
// Rows are aligned positionally with Columns.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Value
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// AppendRow adds one row; the number of values must match the column count.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("table %q: row has %d values, expected %d", t.Name, len(values), len(t.Columns))
	}
	row := make([]Value, len(values))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns every value of one column, in row order.
func (t *Table) Column(name string) ([]Value, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("table %q has no column %q", t.Name, name)
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Record returns row i as a column-name keyed map.
func (t *Table) Record(i int) map[string]Value {
	rec := make(map[string]Value, len(t.Columns))
	for j, c := range t.Columns {
		rec[c] = t.Rows[i][j]
	}
	return rec
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.Name, t.Columns...)
	out.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = make([]Value, len(row))
		copy(out.Rows[i], row)
	}
	return out
}

// Project returns a new table holding only the requested columns, in the requested order.
// Rows that become identical after projection are collapsed, keeping first occurrence order.
func (t *Table) Project(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("table %q has no column %q", t.Name, c)
		}
		idx[i] = j
	}

	out := New(t.Name, columns...)
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		projected := make([]Value, len(idx))
		for i, j := range idx {
			projected[i] = row[j]
		}
		key := rowKey(projected)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}

func rowKey(row []Value) string {
	key := make([]byte, 0, 16*len(row))
	for _, v := range row {
		key = append(key, byte('0'+v.kind))
		key = append(key, v.String()...)
		key = append(key, 0)
	}
	return string(key)
}
