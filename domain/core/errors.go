package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrMissingFile   = errors.New("input file not found")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrMissingColumn = errors.New("column not found")
	ErrColumnClash   = errors.New("duplicate column")

	// Model errors
	ErrUnknownIdentifier = errors.New("identifier not in model vocabulary")
	ErrEngine            = errors.New("model engine error")

	// Output errors
	ErrOutputWrite = errors.New("output write failed")
)

// MissingFileError reports an input path that does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file %s does not exist", e.Path)
}

func (e *MissingFileError) Unwrap() error { return ErrMissingFile }

// SheetNotFoundError reports a required sheet absent from a workbook.
type SheetNotFoundError struct {
	Path  string
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in %s", e.Sheet, e.Path)
}

func (e *SheetNotFoundError) Unwrap() error { return ErrSheetNotFound }

// MissingColumnError names the source column a mapping expected but the table lacks.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found in table %q", e.Column, e.Table)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// ColumnClashError reports a column name that appears twice after renaming.
type ColumnClashError struct {
	Table  string
	Column string
}

func (e *ColumnClashError) Error() string {
	return fmt.Sprintf("column %q appears more than once in table %q", e.Column, e.Table)
}

func (e *ColumnClashError) Unwrap() error { return ErrColumnClash }

// UnknownIdentifierError is raised when an identifier outside the fixed vocabulary is used.
type UnknownIdentifierError struct {
	Identifier string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("identifier %q is not part of the model vocabulary", e.Identifier)
}

func (e *UnknownIdentifierError) Unwrap() error { return ErrUnknownIdentifier }

// EngineError carries a failure reported by the external model engine.
// The engine's own error is kept as-is; Op only records which gateway call failed.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() []error { return []error{ErrEngine, e.Err} }

// OutputWriteError reports a destination workbook that could not be created.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() []error { return []error{ErrOutputWrite, e.Err} }

// Error constructors with context
func NewEngineError(op string, err error) error {
	if err == nil {
		return nil
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return err
	}
	return &EngineError{Op: op, Err: err}
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrColumnClash)
}

func IsEngineError(err error) bool {
	return errors.Is(err, ErrEngine) || errors.Is(err, ErrUnknownIdentifier)
}
