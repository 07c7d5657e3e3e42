// Package logging configures log/slog for the data checker.
//
// Loggers write to stderr with a JSON or text handler, tagged with the
// module name and version. Debug level adds source locations.
//
//	logging.SetDefaultLogger(logging.Config{
//	    Module:  "data-checker",
//	    Version: version,
//	    Level:   "debug",
//	    Format:  logging.FormatText,
//	})
//
// Without an explicit level, LOG_LEVEL is consulted:
//
//	LOG_LEVEL=debug data-checker config.toml
//
// Unknown level names fall back to INFO.
package logging
