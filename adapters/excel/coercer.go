package excel

import (
	"math"
	"strconv"
	"strings"

	"contractalloc/domain/table"
)

// CoercionConfig controls how raw cell text becomes a typed value
type CoercionConfig struct {
	TrimSpace          bool `json:"trim_space"`
	AllowThousandsSep  bool `json:"allow_thousands_sep"`   // accept "1,250" as 1250
	KeepNumericStrings bool `json:"keep_numeric_strings"` // never turn text into numbers
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		TrimSpace:         true,
		AllowThousandsSep: false,
	}
}

// CellCoercer deterministically converts raw cell text to table values
type CellCoercer struct {
	config CoercionConfig
}

// NewCellCoercer creates a coercer with the given config
func NewCellCoercer(config CoercionConfig) *CellCoercer {
	return &CellCoercer{config: config}
}

// CoerceValue converts one raw cell: blanks become empty, numbers become numeric, the rest text
func (c *CellCoercer) CoerceValue(raw string) table.Value {
	s := raw
	if c.config.TrimSpace {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return table.Empty()
	}
	if !c.config.KeepNumericStrings {
		if f, ok := c.tryParseNumeric(s); ok {
			return table.Number(f)
		}
	}
	return table.String(s)
}

// CoerceRow converts a raw row, padding it to width with empty values
func (c *CellCoercer) CoerceRow(raw RawRowData, width int) []table.Value {
	out := make([]table.Value, width)
	for i := 0; i < width; i++ {
		if i < len(raw) {
			out[i] = c.CoerceValue(raw[i])
		} else {
			out[i] = table.Empty()
		}
	}
	return out
}

func (c *CellCoercer) tryParseNumeric(s string) (float64, bool) {
	if c.config.AllowThousandsSep {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
