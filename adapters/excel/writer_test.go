package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contractalloc/domain/core"
	"contractalloc/domain/table"
	"contractalloc/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			filepath.Join("root", "AIMMS-project", "DefaultData.xlsx"),
			filepath.Join("root", "AIMMS-project", "DefaultData_Solution.xlsx"),
		},
		{
			filepath.Join("Data", "DataData.xlsx"),
			filepath.Join("Data", "Data_SolutionData.xlsx"),
		},
		{
			filepath.Join("in", "inputs.xlsx"),
			filepath.Join("in", "inputs_Solution.xlsx"),
		},
		{"DefaultData.xlsx", "DefaultData_Solution.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.input, "Data", "Data_Solution"))
		})
	}
}

func TestWriteCreatesOneSheetPerTable(t *testing.T) {
	first := table.New("Allocation per Producer", "Producer", "Contract", "Generation")
	require.NoError(t, first.AppendRow(table.String("P1"), table.String("C1"), table.Number(40)))
	require.NoError(t, first.AppendRow(table.String("P2"), table.Empty(), table.Number(5)))
	second := table.New("Contract Allocation", "Contract", "Total Generation")
	require.NoError(t, second.AppendRow(table.String("C1"), table.Number(40)))

	path := filepath.Join(t.TempDir(), "nested", "DefaultData_Solution.xlsx")
	require.NoError(t, NewWriter(nil).Write(context.Background(), path, first, second))

	sheets, order, err := testkit.ReadWorkbook(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Allocation per Producer", "Contract Allocation"}, order)
	assert.Equal(t, [][]string{
		{"Producer", "Contract", "Generation"},
		{"P1", "C1", "40"},
		{"P2", "", "5"},
	}, sheets["Allocation per Producer"])
	assert.Equal(t, [][]string{
		{"Contract", "Total Generation"},
		{"C1", "40"},
	}, sheets["Contract Allocation"])
}

func TestWriteThenLoad(t *testing.T) {
	src := table.New("Sheet1", "Producers", "Available Capacity")
	require.NoError(t, src.AppendRow(table.String("P1"), table.Number(100.5)))

	path := filepath.Join(t.TempDir(), "Data.xlsx")
	require.NoError(t, NewWriter(nil).Write(context.Background(), path, src))

	tables, err := NewLoader(DefaultExcelConfig(), nil).Load(context.Background(), path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, src.Columns, tables["Sheet1"].Columns)
	assert.Equal(t, src.Rows, tables["Sheet1"].Rows)
}

func TestWriteFailures(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	tbl := table.New("Contract Allocation", "Contract")

	tests := []struct {
		name   string
		path   string
		tables []*table.Table
	}{
		{"unwritable directory", filepath.Join(blocker, "out.xlsx"), []*table.Table{tbl}},
		{"duplicate sheet", filepath.Join(dir, "dup.xlsx"), []*table.Table{tbl, tbl}},
		{"nothing to write", filepath.Join(dir, "empty.xlsx"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewWriter(nil).Write(context.Background(), tt.path, tt.tables...)

			var writeErr *core.OutputWriteError
			require.True(t, errors.As(err, &writeErr))
			assert.Equal(t, tt.path, writeErr.Path)
			assert.ErrorIs(t, err, core.ErrOutputWrite)
		})
	}
}
