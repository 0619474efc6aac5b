package testkit

import (
	"fmt"
	"os"
	"path/filepath"

	"contractalloc/domain/mapping"
	"contractalloc/domain/table"

	"github.com/xuri/excelize/v2"
)

// Sheet is a fixture sheet: header row plus data rows of plain Go values.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook writes sheets into a fresh xlsx at path, independent of the adapters under test.
func WriteWorkbook(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}
		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				return err
			}
		}
	}

	keepDefault := false
	for _, s := range sheets {
		if s.Name == "Sheet1" {
			keepDefault = true
		}
	}
	if !keepDefault && len(sheets) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// ReadWorkbook returns every sheet of path as raw string rows, keyed by sheet name,
// plus the sheet order.
func ReadWorkbook(path string) (map[string][][]string, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	order := f.GetSheetList()
	out := make(map[string][][]string, len(order))
	for _, name := range order {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		out[name] = rows
	}
	return out, order, nil
}

// ProducersSheet is the canonical Producers input sheet.
func ProducersSheet() Sheet {
	return Sheet{Name: mapping.SheetProducers, Rows: [][]interface{}{
		{"Producers", "Available Capacity", "Minimal Delivery"},
		{"P1", 100, 10},
		{"P2", 250, 20},
		{"P3", 80, 5},
	}}
}

// ContractsSheet is the canonical Contracts input sheet.
func ContractsSheet() Sheet {
	return Sheet{Name: mapping.SheetContracts, Rows: [][]interface{}{
		{"Contracts", "Minimum Contract Size", "Maximum Contract Size", "Minimal Number of Contributors"},
		{"C1", 50, 120, 2},
		{"C2", 30, 90, 1},
	}}
}

// ProductionCostsSheet is the canonical Production Costs input sheet.
func ProductionCostsSheet() Sheet {
	return Sheet{Name: mapping.SheetProductionCosts, Rows: [][]interface{}{
		{"Producers", "Contracts", "Production Cost"},
		{"P1", "C1", 1.5},
		{"P1", "C2", 2.0},
		{"P2", "C1", 1.25},
		{"P2", "C2", 1.75},
		{"P3", "C1", 3.0},
		{"P3", "C2", 2.5},
	}}
}

// InputSheets returns the three canonical input sheets.
func InputSheets() []Sheet {
	return []Sheet{ProducersSheet(), ContractsSheet(), ProductionCostsSheet()}
}

// WriteDefaultInput writes the canonical input workbook as DefaultData.xlsx under dir.
func WriteDefaultInput(dir string) (string, error) {
	path := filepath.Join(dir, "AIMMS-project", "DefaultData.xlsx")
	return path, WriteWorkbook(path, InputSheets()...)
}

// ProducerAllocationExport is a fixed solver answer keyed by export identifiers.
func ProducerAllocationExport() *table.Table {
	t := table.New("producer_allocation",
		mapping.IdentProducerExport, mapping.IdentContractExport, mapping.IdentGeneration)
	mustAppend(t, table.String("P1"), table.String("C1"), table.Number(40))
	mustAppend(t, table.String("P2"), table.String("C1"), table.Number(60))
	mustAppend(t, table.String("P2"), table.String("C2"), table.Number(30))
	mustAppend(t, table.String("P3"), table.String("C2"), table.Number(5))
	return t
}

// ContractAllocationExport is a fixed solver answer for contract totals.
func ContractAllocationExport() *table.Table {
	t := table.New("contract_allocation", mapping.IdentContractExport, mapping.IdentTotalGeneration)
	mustAppend(t, table.String("C1"), table.Number(100))
	mustAppend(t, table.String("C2"), table.Number(35))
	return t
}

func mustAppend(t *table.Table, values ...table.Value) {
	if err := t.AppendRow(values...); err != nil {
		panic(err)
	}
}
