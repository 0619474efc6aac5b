// Package process reaches the optimization engine as an external command.
//
// Submitted tables are written as JSON under <exchange>/input together with a
// manifest; Execute runs the engine command, which is expected to leave its
// result tables in <exchange>/output/results.json:
//
//	{"tables": [{"name": "...", "columns": ["i_contractExport", "p_totalGeneration"], "rows": [["C1", 100]]}]}
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"contractalloc/domain/core"
	"contractalloc/domain/mapping"
	"contractalloc/domain/table"
	"contractalloc/internal"
)

// Environment passed to the engine command.
const (
	EnvExchangeDir   = "ENGINE_EXCHANGE_DIR"
	EnvProjectFile   = "ENGINE_PROJECT_FILE"
	EnvIdentifierSet = "ENGINE_IDENTIFIER_SET"
	EnvProcedure     = "ENGINE_PROCEDURE"
)

const stderrTail = 4096

// waitDelay bounds how long Execute waits for the engine's output pipes once the
// command has exited or been killed. Processes the engine left behind may hold them open.
const waitDelay = 2 * time.Second

// Config describes how to launch the engine.
type Config struct {
	Command       string
	Args          []string
	Env           []string // extra KEY=VALUE pairs
	ExchangeDir   string   // created under os.TempDir when empty
	ProjectFile   string
	IdentifierSet string
	Procedure     string
	Timeout       time.Duration // zero means no limit
}

// Gateway is a ModelGateway backed by an engine command. Single owner.
type Gateway struct {
	config     Config
	dir        string
	ownsDir    bool
	vocabulary mapping.Vocabulary
	submitted  []manifestItem
	closed     bool
	logger     *internal.Logger
}

var errClosed = errors.New("gateway closed")

// New prepares the exchange directory. The engine is not started until Execute.
func New(config Config, vocabulary mapping.Vocabulary, logger *internal.Logger) (*Gateway, error) {
	if strings.TrimSpace(config.Command) == "" {
		return nil, fmt.Errorf("engine command is required")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	g := &Gateway{
		config:     config,
		dir:        config.ExchangeDir,
		vocabulary: vocabulary,
		logger:     logger.With("Engine"),
	}
	if g.dir == "" {
		dir, err := os.MkdirTemp("", "contractalloc-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create exchange directory: %w", err)
		}
		g.dir = dir
		g.ownsDir = true
	}
	for _, sub := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(filepath.Join(g.dir, sub), 0o755); err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to prepare exchange directory: %w", err)
		}
	}
	// stale results from an earlier run must not be read back
	if err := os.Remove(resultsPath(g.dir)); err != nil && !os.IsNotExist(err) {
		g.Close()
		return nil, fmt.Errorf("failed to clear previous results: %w", err)
	}
	return g, nil
}

// Dir returns the exchange directory.
func (g *Gateway) Dir() string {
	return g.dir
}

// Submit writes t to the exchange directory.
func (g *Gateway) Submit(ctx context.Context, tableName string, t *table.Table) error {
	if g.closed {
		return core.NewEngineError("submit", errClosed)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.vocabulary != nil {
		if err := g.vocabulary.Check(t.Columns...); err != nil {
			return core.NewEngineError("submit", err)
		}
	}

	file := tableFileName(tableName)
	doc := tableDoc{Name: tableName, Columns: t.Columns, Rows: t.Rows}
	if err := writeJSON(filepath.Join(g.dir, inputDir, file), doc); err != nil {
		return core.NewEngineError("submit", err)
	}
	g.submitted = append(g.submitted, manifestItem{Name: tableName, File: filepath.ToSlash(filepath.Join(inputDir, file))})
	g.logger.Debug("table %q submitted (%d rows)", tableName, t.Len())
	return nil
}

// Execute writes the manifest and runs the engine command to completion.
func (g *Gateway) Execute(ctx context.Context) error {
	if g.closed {
		return core.NewEngineError("execute", errClosed)
	}
	m := manifest{
		Procedure:     g.config.Procedure,
		ProjectFile:   g.config.ProjectFile,
		IdentifierSet: g.config.IdentifierSet,
		Tables:        g.submitted,
	}
	if err := writeJSON(filepath.Join(g.dir, manifestFile), m); err != nil {
		return core.NewEngineError("execute", err)
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, g.config.Command, g.config.Args...)
	cmd.Env = append(os.Environ(), g.config.Env...)
	cmd.Env = append(cmd.Env,
		EnvExchangeDir+"="+g.dir,
		EnvProjectFile+"="+g.config.ProjectFile,
		EnvIdentifierSet+"="+g.config.IdentifierSet,
		EnvProcedure+"="+g.config.Procedure,
	)

	stdout := &lineLogger{logger: g.logger}
	stderr := &tailBuffer{limit: stderrTail}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	g.logger.Info("running %s %s", g.config.Command, strings.Join(g.config.Args, " "))
	err := cmd.Run()
	stdout.Flush()
	if errors.Is(err, exec.ErrWaitDelay) && ctx.Err() == nil {
		g.logger.Warn("engine exited but left its output open; continuing")
		err = nil
	}
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return core.NewEngineError("execute", err)
	}
	g.logger.Info("engine finished in %.2fs", time.Since(start).Seconds())
	return nil
}

// Retrieve reads the engine's results and returns the requested identifiers.
func (g *Gateway) Retrieve(ctx context.Context, identifiers []string) (*table.Table, error) {
	if g.closed {
		return nil, core.NewEngineError("retrieve", errClosed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.vocabulary != nil {
		if err := g.vocabulary.Check(identifiers...); err != nil {
			return nil, core.NewEngineError("retrieve", err)
		}
	}

	data, err := os.ReadFile(resultsPath(g.dir))
	if err != nil {
		return nil, core.NewEngineError("retrieve", err)
	}
	t, err := decodeResults(data, identifiers)
	if err != nil {
		return nil, core.NewEngineError("retrieve", err)
	}
	g.logger.Debug("retrieved %v (%d rows)", identifiers, t.Len())
	return t, nil
}

// Close removes the exchange directory if the gateway created it.
// Every later call fails.
func (g *Gateway) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if !g.ownsDir {
		return nil
	}
	return os.RemoveAll(g.dir)
}

// lineLogger sends each complete line of engine output to the debug log.
type lineLogger struct {
	logger *internal.Logger
	buf    bytes.Buffer
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := w.buf.Next(i + 1)
		w.logger.Debug("engine: %s", strings.TrimRight(string(line), "\r\n"))
	}
	return len(p), nil
}

// Flush logs a trailing line without newline.
func (w *lineLogger) Flush() {
	if w.buf.Len() > 0 {
		w.logger.Debug("engine: %s", w.buf.String())
		w.buf.Reset()
	}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	b.buf.Write(p)
	if over := b.buf.Len() - b.limit; over > 0 {
		b.buf.Next(over)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return b.buf.String()
}
