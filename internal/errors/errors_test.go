package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"untyped", stderrors.New("boom"), ExitInternal},
		{"validation", ValidationError("bad range", nil), ExitValidation},
		{"not found", NotFound("no such patch", os.ErrNotExist), ExitNotFound},
		{"wrapped source", fmt.Errorf("running diff: %w", SourceError("git failed", stderrors.New("exit status 128"), "fatal: not a git repository")), ExitSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := NotFound("reading patch", os.ErrNotExist)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "reading patch: file does not exist", err.Error())

	e, ok := As(fmt.Errorf("show: %w", err))
	require.True(t, ok)
	assert.Equal(t, ErrorTypeNotFound, e.Type)
}
