package ports

import (
	"context"

	"contractalloc/domain/table"
)

// ModelGateway is the capability the bridge needs from the external optimization engine.
// A gateway is owned by one caller for the whole run and is not safe for concurrent use.
type ModelGateway interface {
	// Submit pushes a table whose columns are model identifiers.
	Submit(ctx context.Context, tableName string, t *table.Table) error

	// Execute runs the model's solve procedure and blocks until it returns.
	Execute(ctx context.Context) error

	// Retrieve returns a table whose columns are exactly the given identifiers,
	// one row per combination present in the model's results.
	Retrieve(ctx context.Context, identifiers []string) (*table.Table, error)

	// Close releases the engine handle.
	Close() error
}
