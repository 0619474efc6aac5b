// Package memory provides a deterministic in-process ModelGateway that echoes
// preconfigured export tables. It stands in for the external engine in tests
// and dry runs.
package memory

import (
	"context"
	"fmt"

	"contractalloc/domain/core"
	"contractalloc/domain/mapping"
	"contractalloc/domain/table"
)

// Submission records one Submit call.
type Submission struct {
	Name  string
	Table *table.Table
}

// Gateway is an in-memory ModelGateway. Like the engine it replaces, it has a single owner.
type Gateway struct {
	vocabulary  mapping.Vocabulary
	exports     []*table.Table
	submissions []Submission
	executions  int
	closed      bool

	// ExecuteErr, when set, is returned by Execute as the engine's failure.
	ExecuteErr error
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithVocabulary rejects identifiers outside v, the way the engine rejects unknown names.
func WithVocabulary(v mapping.Vocabulary) Option {
	return func(g *Gateway) { g.vocabulary = v }
}

// WithExports sets the tables Retrieve answers from.
func WithExports(exports ...*table.Table) Option {
	return func(g *Gateway) {
		for _, e := range exports {
			g.exports = append(g.exports, e.Clone())
		}
	}
}

// New creates a gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit stores a copy of t.
func (g *Gateway) Submit(ctx context.Context, tableName string, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if g.closed {
		return core.NewEngineError("submit", fmt.Errorf("gateway closed"))
	}
	if g.vocabulary != nil {
		if err := g.vocabulary.Check(t.Columns...); err != nil {
			return core.NewEngineError("submit", err)
		}
	}
	g.submissions = append(g.submissions, Submission{Name: tableName, Table: t.Clone()})
	return nil
}

// Execute counts the call and returns ExecuteErr.
func (g *Gateway) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if g.closed {
		return core.NewEngineError("execute", fmt.Errorf("gateway closed"))
	}
	g.executions++
	return core.NewEngineError("execute", g.ExecuteErr)
}

// Retrieve projects the first export table holding every identifier.
func (g *Gateway) Retrieve(ctx context.Context, identifiers []string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if g.closed {
		return nil, core.NewEngineError("retrieve", fmt.Errorf("gateway closed"))
	}
	if g.vocabulary != nil {
		if err := g.vocabulary.Check(identifiers...); err != nil {
			return nil, core.NewEngineError("retrieve", err)
		}
	}

	for _, export := range g.exports {
		if !hasAll(export, identifiers) {
			continue
		}
		return export.Project(identifiers...)
	}
	return nil, core.NewEngineError("retrieve", fmt.Errorf("no result holds %v", identifiers))
}

// Close marks the gateway unusable.
func (g *Gateway) Close() error {
	g.closed = true
	return nil
}

// Submissions returns the recorded Submit calls in order.
func (g *Gateway) Submissions() []Submission {
	out := make([]Submission, len(g.submissions))
	copy(out, g.submissions)
	return out
}

// Executions returns how many times Execute ran.
func (g *Gateway) Executions() int {
	return g.executions
}

// Closed reports whether Close was called.
func (g *Gateway) Closed() bool {
	return g.closed
}

func hasAll(t *table.Table, columns []string) bool {
	for _, c := range columns {
		if _, ok := t.ColumnIndex(c); !ok {
			return false
		}
	}
	return true
}
