package excel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"contractalloc/domain/core"
	"contractalloc/domain/table"
	"contractalloc/internal"

	"github.com/xuri/excelize/v2"
)

// Loader reads named sheets of an xlsx workbook into tables
type Loader struct {
	coercer *CellCoercer
	logger  *internal.Logger
}

// NewLoader creates a loader
func NewLoader(config ExcelConfig, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		coercer: NewCellCoercer(config.CoercionConfig),
		logger:  logger.With("Loader"),
	}
}

// Load reads each requested sheet into a table named after the sheet.
// The workbook is opened once and closed before returning.
func (l *Loader) Load(ctx context.Context, path string, sheets ...string) (map[string]*table.Table, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	l.logger.Debug("workbook %s opened in %.2fms", path, float64(time.Since(startTime).Nanoseconds())/1e6)

	tables := make(map[string]*table.Table, len(sheets))
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := readSheet(f, path, sheet)
		if err != nil {
			return nil, err
		}
		tables[sheet] = l.toTable(raw)
		l.logger.Info("sheet %q read (%d columns, %d rows)", sheet, len(raw.Headers), len(raw.Rows))
	}
	return tables, nil
}

// Sheets lists the sheet names of a workbook in tab order
func (l *Loader) Sheets(path string) ([]string, error) {
	if err := checkExists(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func checkExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &core.MissingFileError{Path: path}
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return nil
}

// readSheet reads the header row and data rows of one sheet
func readSheet(f *excelize.File, path, sheet string) (*SheetData, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, &core.SheetNotFoundError{Path: path, Sheet: sheet}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	data := &SheetData{Name: sheet}
	if len(rows) == 0 {
		return data, nil
	}

	data.Headers = make([]string, len(rows[0]))
	for i, header := range rows[0] {
		data.Headers[i] = strings.TrimSpace(header)
	}

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		data.Rows = append(data.Rows, RawRowData(row))
	}
	return data, nil
}

func (l *Loader) toTable(raw *SheetData) *table.Table {
	t := table.New(raw.Name, raw.Headers...)
	for _, row := range raw.Rows {
		if len(row) > len(raw.Headers) {
			l.logger.Warn("sheet %q: ignoring %d cells beyond the header row", raw.Name, len(row)-len(raw.Headers))
		}
		t.Rows = append(t.Rows, l.coercer.CoerceRow(row, len(raw.Headers)))
	}
	return t
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
