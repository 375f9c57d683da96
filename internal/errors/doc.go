// Package errors provides the classified error type shared by every tinyssg
// pipeline.
//
// Each error carries a Kind from the fixed taxonomy (read, empty_file, write,
// missing_content_tag, unresolved_tag, include_read, render, config, usage),
// a human readable message, an optional cause and structured context such as
// the offending path or tag name. Internal packages only ever return these
// errors; CLIAdapter is the single place that turns them into a printed
// message and a process exit code.
//
// Example usage:
//
//	err := errors.New(errors.KindRead, "could not read input file").
//		WithContext(errors.CtxPath, path).
//		WithCause(ioErr).
//		Build()
//
//	if errors.Is(err, errors.ErrRead) { ... }
package errors
