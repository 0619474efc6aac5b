package app

import (
	"context"
	"errors"
	"fmt"

	"contractalloc/adapters/excel"
	"contractalloc/domain/core"
	"contractalloc/domain/mapping"
	"contractalloc/domain/table"
	"contractalloc/internal"
	"contractalloc/ports"
)

// AllocationService moves the allocation data from the input workbook through the
// model and back into a solution workbook.
type AllocationService struct {
	loader        ports.TableLoader
	writer        ports.TableWriter
	outputFind    string
	outputReplace string
	logger        *internal.Logger
}

// NewAllocationService creates the service. The gateway is supplied per run.
func NewAllocationService(loader ports.TableLoader, writer ports.TableWriter, config excel.ExcelConfig, logger *internal.Logger) *AllocationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AllocationService{
		loader:        loader,
		writer:        writer,
		outputFind:    config.OutputFind,
		outputReplace: config.OutputReplace,
		logger:        logger.With("Allocation"),
	}
}

// OutputPath returns where Run writes the solution for inputPath.
func (s *AllocationService) OutputPath(inputPath string) string {
	return excel.OutputPath(inputPath, s.outputFind, s.outputReplace)
}

// Run executes the full pipeline against gateway. The caller owns gateway and closes it.
func (s *AllocationService) Run(ctx context.Context, inputPath string, gateway ports.ModelGateway) (*RunReport, error) {
	report := newRunReport(inputPath, s.OutputPath(inputPath))
	s.logger.Info("run %s started for %s", report.RunID, inputPath)

	inputs, err := s.loadInputs(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	for _, in := range inputs {
		if err := gateway.Submit(ctx, in.Name, in); err != nil {
			s.logger.Error("submit %q failed: %v", in.Name, err)
			return nil, err
		}
		report.Submitted = append(report.Submitted, TableCount{Name: in.Name, Rows: in.Len()})
	}

	if err := gateway.Execute(ctx); err != nil {
		s.logger.Error("model execution failed: %v", err)
		return nil, err
	}

	outputs, err := s.retrieveOutputs(ctx, gateway)
	if err != nil {
		return nil, err
	}

	if err := s.writer.Write(ctx, report.OutputPath, outputs...); err != nil {
		s.logger.Error("writing %s failed: %v", report.OutputPath, err)
		return nil, err
	}
	for _, out := range outputs {
		report.Written = append(report.Written, TableCount{Name: out.Name, Rows: out.Len()})
	}

	if err := report.summarize(outputs); err != nil {
		s.logger.Warn("run summary incomplete: %v", err)
	}
	report.finish()
	s.logger.Info("run %s finished in %s, solution at %s", report.RunID, report.Duration, report.OutputPath)
	return report, nil
}

// loadInputs reads and renames the three input sheets, in submission order.
func (s *AllocationService) loadInputs(ctx context.Context, inputPath string) ([]*table.Table, error) {
	tables, err := s.loader.Load(ctx, inputPath, mapping.InputSheets()...)
	if err != nil {
		return nil, err
	}

	specs := mapping.Inputs()
	out := make([]*table.Table, 0, len(specs))
	for _, spec := range specs {
		src, ok := tables[spec.Sheet]
		if !ok {
			return nil, &core.SheetNotFoundError{Path: inputPath, Sheet: spec.Sheet}
		}
		renamed, err := modelTable(src, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, renamed)
	}
	return out, nil
}

// modelTable renames src into model identifiers. Columns left outside the
// model vocabulary, such as an extra header, are rejected before anything is submitted.
func modelTable(src *table.Table, spec mapping.InputSpec) (*table.Table, error) {
	renamed, err := mapping.Rename(src, spec.Mapping)
	if err != nil {
		return nil, err
	}
	if err := mapping.ModelVocabulary.Check(renamed.Columns...); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", spec.Sheet, err)
	}
	return renamed, nil
}

// retrieveOutputs pulls each solution table and relabels it for display.
func (s *AllocationService) retrieveOutputs(ctx context.Context, gateway ports.ModelGateway) ([]*table.Table, error) {
	specs := mapping.Outputs()
	out := make([]*table.Table, 0, len(specs))
	for _, spec := range specs {
		ids := spec.Identifiers()
		result, err := gateway.Retrieve(ctx, ids)
		if err != nil {
			s.logger.Error("retrieve %v failed: %v", ids, err)
			return nil, err
		}
		if err := sameColumns(result.Columns, ids); err != nil {
			return nil, core.NewEngineError("retrieve", err)
		}

		labelled, err := mapping.Rename(result, spec.Mapping)
		if err != nil {
			return nil, err
		}
		labelled.Name = spec.Sheet
		out = append(out, labelled)
	}
	return out, nil
}

func sameColumns(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected columns %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected columns %v, got %v", want, got)
		}
	}
	return nil
}

// Check validates an input workbook without touching the model. Every missing
// sheet and column is reported at once, joined into the returned error.
func (s *AllocationService) Check(ctx context.Context, inputPath string) (*CheckReport, error) {
	report := &CheckReport{InputPath: inputPath}

	var problems []error
	for _, spec := range mapping.Inputs() {
		tables, err := s.loader.Load(ctx, inputPath, spec.Sheet)
		if err != nil {
			if errors.Is(err, core.ErrSheetNotFound) {
				problems = append(problems, err)
				continue
			}
			return nil, err
		}
		src := tables[spec.Sheet]
		missing := mapping.MissingColumns(src, spec.Mapping)
		problems = append(problems, missing...)
		if len(missing) > 0 {
			continue
		}
		if _, err := modelTable(src, spec); err != nil {
			problems = append(problems, err)
			continue
		}
		report.Sheets = append(report.Sheets, TableCount{Name: spec.Sheet, Rows: src.Len()})
	}

	for _, p := range problems {
		s.logger.Warn("%v", p)
	}
	if len(problems) > 0 {
		return report, errors.Join(problems...)
	}
	return report, nil
}
