// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
)

// ErrorCode classifies a failure.
type ErrorCode string

const (
	// ErrCodeNotFound: a file, variable, coordinate or section is missing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeNoMatch: a files pattern matched zero files.
	ErrCodeNoMatch ErrorCode = "NO_MATCH"
	// ErrCodeTimeout: an external tool exceeded its time limit.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal: an unexpected failure, usually I/O.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeInvalidRequest: bad configuration or check arguments.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeUnsupported: a format, calendar or frequency that is not handled.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
	// ErrCodeUnavailable: an external tool is missing or failed to run.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
)

// StructuredError carries a code, a message, an optional cause and
// key/value context for logging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// With adds a context entry and returns e.
func (e *StructuredError) With(key string, value any) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// LogAttrs returns the error as slog key/value pairs, context keys sorted.
func (e *StructuredError) LogAttrs() []any {
	attrs := []any{"code", string(e.Code), "message", e.Message}
	if e.Cause != nil {
		attrs = append(attrs, "cause", e.Cause.Error())
	}
	for _, k := range slices.Sorted(maps.Keys(e.Context)) {
		attrs = append(attrs, k, e.Context[k])
	}
	return attrs
}

// New returns an error without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return WrapWithContext(code, message, nil, nil)
}

// NewWithContext returns an error without a cause carrying context.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return WrapWithContext(code, message, nil, context)
}

// Wrap returns an error caused by cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return WrapWithContext(code, message, cause, nil)
}

// WrapWithContext returns an error caused by cause carrying context.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// As returns the outermost StructuredError in err's chain.
func As(err error) (*StructuredError, bool) {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or an empty code when there is none.
func CodeOf(err error) ErrorCode {
	if se, ok := As(err); ok {
		return se.Code
	}
	return ""
}

// HasCode reports whether any StructuredError in err's chain has code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		se, ok := As(err)
		if !ok {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}
