package excel

// RawRowData represents a row of raw sheet cells, positionally aligned with the header row
type RawRowData []string

// SheetData represents one sheet as read from disk, before coercion
type SheetData struct {
	Name    string
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
