package errors

import (
	stderrors "errors"
	"testing"

	"contractalloc/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"missing file", &core.MissingFileError{Path: "in.xlsx"}, CodeInputNotFound},
		{"missing sheet", &core.SheetNotFoundError{Sheet: "Contracts"}, CodeSheetNotFound},
		{"missing column", &core.MissingColumnError{Column: "Production Cost"}, CodeColumnNotFound},
		{"column clash", &core.ColumnClashError{Column: "i_producer"}, CodeColumnClash},
		{"engine", core.NewEngineError("execute", stderrors.New("license")), CodeExternalService},
		{"output", &core.OutputWriteError{Path: "out.xlsx", Err: stderrors.New("denied")}, CodeOutputWrite},
		{"config", ConfigInvalid("ENGINE_COMMAND is required"), CodeConfigInvalid},
		{"other", stderrors.New("?"), CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeFor(tt.err))
		})
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := &core.SheetNotFoundError{Path: "in.xlsx", Sheet: "Producers"}
	err := Wrapf(cause, "load %s", "in.xlsx")

	assert.Equal(t, CodeSheetNotFound, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.ErrorIs(t, err, core.ErrSheetNotFound)
	assert.Equal(t, `load in.xlsx: sheet "Producers" not found in in.xlsx`, err.Error())

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
