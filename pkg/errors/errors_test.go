package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := stderrors.New("exit status 1")
	tests := []struct {
		name    string
		err     *StructuredError
		code    ErrorCode
		cause   error
		context map[string]any
		text    string
	}{
		{
			name: "new",
			err:  New(ErrCodeNoMatch, "no files matched"),
			code: ErrCodeNoMatch,
			text: "[NO_MATCH] no files matched",
		},
		{
			name:    "new with context",
			err:     NewWithContext(ErrCodeNotFound, "variable not found", map[string]any{"variable": "t2m"}),
			code:    ErrCodeNotFound,
			context: map[string]any{"variable": "t2m"},
			text:    "[NOT_FOUND] variable not found",
		},
		{
			name:  "wrap",
			err:   Wrap(ErrCodeInternal, "read failed", cause),
			code:  ErrCodeInternal,
			cause: cause,
			text:  "[INTERNAL] read failed: exit status 1",
		},
		{
			name:    "wrap with context",
			err:     WrapWithContext(ErrCodeUnavailable, "grid description failed", cause, map[string]any{"command": "cdo"}),
			code:    ErrCodeUnavailable,
			cause:   cause,
			context: map[string]any{"command": "cdo"},
			text:    "[UNAVAILABLE] grid description failed: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.context, tt.err.Context)
			assert.Equal(t, tt.text, tt.err.Error())
			if tt.cause != nil {
				assert.ErrorIs(t, tt.err, tt.cause)
			} else {
				assert.NoError(t, tt.err.Unwrap())
			}
		})
	}
}

func TestWith(t *testing.T) {
	err := New(ErrCodeInvalidRequest, "bad argument").With("param", "frequency").With("value", "1X")
	assert.Equal(t, map[string]any{"param": "frequency", "value": "1X"}, err.Context)
}

func TestLogAttrs(t *testing.T) {
	err := WrapWithContext(ErrCodeUnavailable, "grid description failed", stderrors.New("exit status 1"),
		map[string]any{"path": "data/t2m.grib", "command": "cdo"})

	assert.Equal(t, []any{
		"code", "UNAVAILABLE",
		"message", "grid description failed",
		"cause", "exit status 1",
		"command", "cdo",
		"path", "data/t2m.grib",
	}, err.LogAttrs())

	assert.Equal(t, []any{"code", "NOT_FOUND", "message", "gone"}, New(ErrCodeNotFound, "gone").LogAttrs())
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", stderrors.New("boom"), ""},
		{"direct", New(ErrCodeTimeout, "slow"), ErrCodeTimeout},
		{"wrapped", fmt.Errorf("check failed: %w", New(ErrCodeNoMatch, "empty")), ErrCodeNoMatch},
		{"outermost wins", Wrap(ErrCodeInvalidRequest, "decode", New(ErrCodeUnsupported, "calendar")), ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestAsAndHasCode(t *testing.T) {
	inner := New(ErrCodeUnsupported, "calendar noleap")
	err := fmt.Errorf("temporal_resolution: %w", Wrap(ErrCodeInvalidRequest, "decode failed", inner))

	se, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidRequest, se.Code)

	assert.True(t, HasCode(err, ErrCodeInvalidRequest))
	assert.True(t, HasCode(err, ErrCodeUnsupported))
	assert.False(t, HasCode(err, ErrCodeNotFound))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeNotFound))
	assert.False(t, HasCode(nil, ErrCodeNotFound))

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}
