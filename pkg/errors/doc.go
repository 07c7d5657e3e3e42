// Package errors provides structured error types for better observability
// and programmatic error handling across the data checker.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "failed to describe grid",
//	    cause,
//	    map[string]any{
//	        "command": "cdo",
//	        "path":    path,
//	    },
//	)
//
// Callers classify failures with CodeOf, which looks through %w wrapping:
//
//	if errors.CodeOf(err) == errors.ErrCodeNoMatch {
//	    // the files pattern matched nothing
//	}
package errors
