package ports

import (
	"context"

	"contractalloc/domain/table"
)

// TableLoader reads named sheets of a workbook into tables.
type TableLoader interface {
	Load(ctx context.Context, path string, sheets ...string) (map[string]*table.Table, error)
}

// TableWriter writes tables to a workbook, one sheet per table.
type TableWriter interface {
	Write(ctx context.Context, path string, tables ...*table.Table) error
}
