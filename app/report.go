package app

import (
	"fmt"
	"time"

	"contractalloc/domain/core"
	"contractalloc/domain/mapping"
	"contractalloc/domain/table"

	"github.com/montanaflynn/stats"
)

// TableCount is a table name with its row count.
type TableCount struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// RunReport summarises one completed run.
type RunReport struct {
	RunID      core.RunID     `json:"run_id"`
	InputPath  string         `json:"input_path"`
	OutputPath string         `json:"output_path"`
	Submitted  []TableCount   `json:"submitted"`
	Written    []TableCount   `json:"written"`
	StartedAt  core.Timestamp `json:"started_at"`
	FinishedAt core.Timestamp `json:"finished_at"`
	Duration   time.Duration  `json:"duration"`

	TotalGeneration   float64 `json:"total_generation"`
	LargestAllocation float64 `json:"largest_allocation"`
	Contracts         int     `json:"contracts"`
}

// CheckReport lists the input sheets that passed validation.
type CheckReport struct {
	InputPath string       `json:"input_path"`
	Sheets    []TableCount `json:"sheets"`
}

func newRunReport(input, output string) *RunReport {
	return &RunReport{
		RunID:      core.NewRunID(),
		InputPath:  input,
		OutputPath: output,
		StartedAt:  core.Now(),
	}
}

func (r *RunReport) finish() {
	r.FinishedAt = core.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
}

// summarize fills the generation figures from the written solution tables.
func (r *RunReport) summarize(outputs []*table.Table) error {
	for _, t := range outputs {
		switch t.Name {
		case mapping.SheetContractAllocation:
			totals, err := numericColumn(t, mapping.LabelTotalGeneration)
			if err != nil {
				return err
			}
			r.Contracts = t.Len()
			if len(totals) == 0 {
				continue
			}
			sum, err := stats.Sum(totals)
			if err != nil {
				return err
			}
			r.TotalGeneration = sum
		case mapping.SheetProducerAllocation:
			gen, err := numericColumn(t, mapping.LabelGeneration)
			if err != nil {
				return err
			}
			if len(gen) == 0 {
				continue
			}
			largest, err := stats.Max(gen)
			if err != nil {
				return err
			}
			r.LargestAllocation = largest
		}
	}
	return nil
}

// numericColumn returns the numeric cells of a column, skipping empties.
func numericColumn(t *table.Table, name string) (stats.Float64Data, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make(stats.Float64Data, 0, len(values))
	for i, v := range values {
		if v.IsEmpty() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			return nil, fmt.Errorf("%s row %d: %q is not a number", name, i+1, v.String())
		}
		out = append(out, f)
	}
	return out, nil
}
