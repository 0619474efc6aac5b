package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contractalloc/domain/core"
	"contractalloc/domain/table"
	"contractalloc/internal"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Writer writes tables to a new xlsx workbook, one sheet per table
type Writer struct {
	logger *internal.Logger
}

// NewWriter creates a writer
func NewWriter(logger *internal.Logger) *Writer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Writer{logger: logger.With("Writer")}
}

// Write creates path (replacing any existing file) with one sheet per table, in order.
func (w *Writer) Write(ctx context.Context, path string, tables ...*table.Table) error {
	if len(tables) == 0 {
		return &core.OutputWriteError{Path: path, Err: fmt.Errorf("no tables to write")}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	seen := make(map[string]bool, len(tables))
	for i, t := range tables {
		if seen[t.Name] {
			return &core.OutputWriteError{Path: path, Err: fmt.Errorf("duplicate sheet name %q", t.Name)}
		}
		seen[t.Name] = true

		if err := addSheet(f, t, i == 0); err != nil {
			return &core.OutputWriteError{Path: path, Err: fmt.Errorf("sheet %q: %w", t.Name, err)}
		}
		w.logger.Debug("sheet %q staged (%d rows)", t.Name, t.Len())
	}

	if !seen[defaultSheet] {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return &core.OutputWriteError{Path: path, Err: err}
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &core.OutputWriteError{Path: path, Err: err}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return &core.OutputWriteError{Path: path, Err: err}
	}

	w.logger.Info("workbook written to %s (%d sheets)", path, len(tables))
	return nil
}

func addSheet(f *excelize.File, t *table.Table, first bool) error {
	idx, err := f.NewSheet(t.Name)
	if err != nil {
		return err
	}
	if first {
		f.SetActiveSheet(idx)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return err
	}

	for r, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for c, v := range row {
			cells[c] = v.Interface()
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// OutputPath derives the solution path from the input path by replacing the first
// occurrence of find in the file name with replace. Directories are never rewritten.
// A file name without find gets "_Solution" before its extension.
func OutputPath(input, find, replace string) string {
	dir, name := filepath.Split(input)
	if find != "" && strings.Contains(name, find) {
		return dir + strings.Replace(name, find, replace, 1)
	}
	ext := filepath.Ext(name)
	return dir + strings.TrimSuffix(name, ext) + "_Solution" + ext
}
