package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CLIAdapter turns errors into a printed message and an exit code.
type CLIAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIAdapter creates an adapter writing to out (os.Stderr when nil).
func NewCLIAdapter(verbose bool, logger *slog.Logger, out io.Writer) *CLIAdapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out == nil {
		out = os.Stderr
	}
	return &CLIAdapter{verbose: verbose, logger: logger, out: out}
}

// ExitCodeFor maps err to a process exit code.
func (a *CLIAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindUsage:
		return 2
	case KindConfig:
		return 7
	case KindRead, KindEmptyFile, KindWrite, KindIncludeRead:
		return 11
	case KindMissingContentTag, KindUnresolvedTag, KindRender:
		return 13
	default:
		return 1
	}
}

// FormatError renders err as a single "[X] ..." line. Verbose mode appends
// the error context.
func (a *CLIAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "[X] " + err.Error() + ". Aborting."
	e, ok := As(err)
	if !a.verbose || !ok || len(e.context) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(e.context))
	for _, k := range e.context.Keys() {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.context[k]))
	}
	return msg + " (" + strings.Join(pairs, ", ") + ")"
}

// Handle logs and prints err and returns the exit code. It never exits;
// main owns process termination.
func (a *CLIAdapter) Handle(err error) int {
	if err == nil {
		return 0
	}
	attrs := []slog.Attr{slog.String("error", err.Error())}
	if k := KindOf(err); k != "" {
		attrs = append(attrs, slog.String("kind", string(k)))
	}
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "run aborted", attrs...)
	fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}
