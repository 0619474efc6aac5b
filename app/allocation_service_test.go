package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contractalloc/adapters/excel"
	"contractalloc/adapters/gateway/memory"
	"contractalloc/domain/core"
	"contractalloc/domain/mapping"
	"contractalloc/domain/table"
	"contractalloc/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a testify mock of ports.ModelGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Submit(ctx context.Context, tableName string, t *table.Table) error {
	args := m.Called(ctx, tableName, t)
	return args.Error(0)
}

func (m *MockGateway) Execute(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGateway) Retrieve(ctx context.Context, identifiers []string) (*table.Table, error) {
	args := m.Called(ctx, identifiers)
	if t := args.Get(0); t != nil {
		return t.(*table.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newService() *AllocationService {
	cfg := excel.DefaultExcelConfig()
	return NewAllocationService(excel.NewLoader(cfg, nil), excel.NewWriter(nil), cfg, nil)
}

func stubGateway() *memory.Gateway {
	return memory.New(
		memory.WithVocabulary(mapping.ModelVocabulary),
		memory.WithExports(testkit.ProducerAllocationExport(), testkit.ContractAllocationExport()),
	)
}

func TestRunEndToEnd(t *testing.T) {
	input, err := testkit.WriteDefaultInput(t.TempDir())
	require.NoError(t, err)
	gateway := stubGateway()

	report, err := newService().Run(context.Background(), input, gateway)
	require.NoError(t, err)

	// submissions carry model identifiers only, in sheet order, rows preserved
	subs := gateway.Submissions()
	require.Len(t, subs, 3)
	assert.Equal(t, mapping.SheetProducers, subs[0].Name)
	assert.Equal(t, []string{mapping.IdentProducer, mapping.IdentAvailableCapacity, mapping.IdentMinimalDelivery}, subs[0].Table.Columns)
	assert.Equal(t, []table.Value{table.String("P1"), table.Number(100), table.Number(10)}, subs[0].Table.Rows[0])
	assert.Equal(t, mapping.SheetContracts, subs[1].Name)
	assert.Equal(t, 2, subs[1].Table.Len())
	assert.Equal(t, mapping.SheetProductionCosts, subs[2].Name)
	assert.Equal(t, 6, subs[2].Table.Len())
	assert.Equal(t, 1, gateway.Executions())

	// solution workbook
	expectedOut := filepath.Join(filepath.Dir(input), "DefaultData_Solution.xlsx")
	assert.Equal(t, expectedOut, report.OutputPath)

	sheets, order, err := testkit.ReadWorkbook(expectedOut)
	require.NoError(t, err)
	assert.Equal(t, []string{mapping.SheetProducerAllocation, mapping.SheetContractAllocation}, order)
	assert.Equal(t, []string{"Producer", "Contract", "Generation"}, sheets[mapping.SheetProducerAllocation][0])
	assert.Equal(t, []string{"P1", "C1", "40"}, sheets[mapping.SheetProducerAllocation][1])
	assert.Len(t, sheets[mapping.SheetProducerAllocation], 5)
	assert.Equal(t, [][]string{
		{"Contract", "Total Generation"},
		{"C1", "100"},
		{"C2", "35"},
	}, sheets[mapping.SheetContractAllocation])

	// report
	assert.False(t, report.RunID == "")
	assert.Equal(t, []TableCount{
		{Name: mapping.SheetProducerAllocation, Rows: 4},
		{Name: mapping.SheetContractAllocation, Rows: 2},
	}, report.Written)
	assert.Len(t, report.Submitted, 3)
	assert.Equal(t, 135.0, report.TotalGeneration)
	assert.Equal(t, 60.0, report.LargestAllocation)
	assert.Equal(t, 2, report.Contracts)
	assert.False(t, report.FinishedAt.Time().Before(report.StartedAt.Time()))

	// the caller still owns the gateway
	assert.False(t, gateway.Closed())
}

func TestRunMissingInputFile(t *testing.T) {
	gateway := new(MockGateway)
	input := filepath.Join(t.TempDir(), "DefaultData.xlsx")

	_, err := newService().Run(context.Background(), input, gateway)

	var fileErr *core.MissingFileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, input, fileErr.Path)
	gateway.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunMissingColumnStopsBeforeSubmit(t *testing.T) {
	input := filepath.Join(t.TempDir(), "Data.xlsx")
	contracts := testkit.ContractsSheet()
	contracts.Rows[0][3] = "Minimal Number of Contributers"
	require.NoError(t, testkit.WriteWorkbook(input, testkit.ProducersSheet(), contracts, testkit.ProductionCostsSheet()))

	gateway := new(MockGateway)
	_, err := newService().Run(context.Background(), input, gateway)

	var colErr *core.MissingColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Minimal Number of Contributors", colErr.Column)
	gateway.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunRejectsColumnsOutsideVocabulary(t *testing.T) {
	input := filepath.Join(t.TempDir(), "Data.xlsx")
	producers := testkit.ProducersSheet()
	producers.Rows[0] = append(producers.Rows[0], "Notes")
	for i := 1; i < len(producers.Rows); i++ {
		producers.Rows[i] = append(producers.Rows[i], "check later")
	}
	require.NoError(t, testkit.WriteWorkbook(input, producers, testkit.ContractsSheet(), testkit.ProductionCostsSheet()))

	// no vocabulary on the gateway: the service itself must refuse the header
	gateway := memory.New(memory.WithExports(testkit.ProducerAllocationExport(), testkit.ContractAllocationExport()))
	_, err := newService().Run(context.Background(), input, gateway)

	var idErr *core.UnknownIdentifierError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, "Notes", idErr.Identifier)
	assert.Contains(t, err.Error(), mapping.SheetProducers)
	assert.Empty(t, gateway.Submissions())
	assert.Zero(t, gateway.Executions())
}

func TestRunPropagatesEngineErrors(t *testing.T) {
	input, err := testkit.WriteDefaultInput(t.TempDir())
	require.NoError(t, err)

	engineErr := core.NewEngineError("execute", errors.New("element 'P9' not in set"))
	gateway := new(MockGateway)
	gateway.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(3)
	gateway.On("Execute", mock.Anything).Return(engineErr).Once()

	_, err = newService().Run(context.Background(), input, gateway)

	assert.Same(t, engineErr, err)
	gateway.AssertExpectations(t)
	gateway.AssertNotCalled(t, "Retrieve", mock.Anything, mock.Anything)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(input), "DefaultData_Solution.xlsx"))
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestRunRejectsUnexpectedResultColumns(t *testing.T) {
	input, err := testkit.WriteDefaultInput(t.TempDir())
	require.NoError(t, err)

	wrong := table.New("export", mapping.IdentContractExport, mapping.IdentProducerExport, mapping.IdentGeneration)
	gateway := new(MockGateway)
	gateway.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	gateway.On("Execute", mock.Anything).Return(nil)
	gateway.On("Retrieve", mock.Anything, mock.Anything).Return(wrong, nil)

	_, err = newService().Run(context.Background(), input, gateway)
	assert.ErrorIs(t, err, core.ErrEngine)
}

func TestRunOutputWriteError(t *testing.T) {
	dir := t.TempDir()
	input, err := testkit.WriteDefaultInput(dir)
	require.NoError(t, err)

	// make the derived output path a directory so it cannot be saved as a file
	require.NoError(t, os.MkdirAll(filepath.Join(filepath.Dir(input), "DefaultData_Solution.xlsx"), 0o755))

	_, err = newService().Run(context.Background(), input, stubGateway())
	assert.ErrorIs(t, err, core.ErrOutputWrite)
}

func TestCheck(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		input, err := testkit.WriteDefaultInput(t.TempDir())
		require.NoError(t, err)

		report, err := newService().Check(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, []TableCount{
			{Name: mapping.SheetProducers, Rows: 3},
			{Name: mapping.SheetContracts, Rows: 2},
			{Name: mapping.SheetProductionCosts, Rows: 6},
		}, report.Sheets)
	})

	t.Run("reports every problem", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "Data.xlsx")
		producers := testkit.ProducersSheet()
		producers.Rows[0][2] = "Minimal Delivry"
		require.NoError(t, testkit.WriteWorkbook(input, producers, testkit.ProductionCostsSheet()))

		report, err := newService().Check(context.Background(), input)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrSheetNotFound)
		assert.ErrorIs(t, err, core.ErrMissingColumn)
		assert.Contains(t, err.Error(), `"Minimal Delivery"`)
		assert.Contains(t, err.Error(), `"Contracts"`)
		assert.Equal(t, []TableCount{{Name: mapping.SheetProductionCosts, Rows: 6}}, report.Sheets)
	})

	t.Run("extra header", func(t *testing.T) {
		input := filepath.Join(t.TempDir(), "Data.xlsx")
		costs := testkit.ProductionCostsSheet()
		costs.Rows[0] = append(costs.Rows[0], "Comment")
		require.NoError(t, testkit.WriteWorkbook(input, testkit.ProducersSheet(), testkit.ContractsSheet(), costs))

		report, err := newService().Check(context.Background(), input)
		assert.ErrorIs(t, err, core.ErrUnknownIdentifier)
		assert.Contains(t, err.Error(), `"Comment"`)
		assert.Len(t, report.Sheets, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newService().Check(context.Background(), filepath.Join(t.TempDir(), "none.xlsx"))
		assert.ErrorIs(t, err, core.ErrMissingFile)
	})
}

func TestSummarizeRejectsTextTotals(t *testing.T) {
	out := table.New(mapping.SheetContractAllocation, mapping.LabelContract, mapping.LabelTotalGeneration)
	require.NoError(t, out.AppendRow(table.String("C1"), table.String("lots")))

	r := newRunReport("in", "out")
	assert.Error(t, r.summarize([]*table.Table{out}))
}
