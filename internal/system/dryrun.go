package system

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	shellquote "github.com/kballard/go-shellquote"
)

// DryRunExecutor prints each command instead of running it.
//
// Read-only queries (git rev-parse, pip show) are printed and also run
// through the wrapped executor, so the decisions that depend on their
// output (pull or not, install or not) are the ones a real run would make.
// Without a wrapped executor queries return empty output.
type DryRunExecutor struct {
	w       io.Writer
	queries CommandExecutor
}

// NewDryRunExecutor returns an executor that writes commands to w and runs
// read-only queries through queries, which may be nil.
func NewDryRunExecutor(w io.Writer, queries CommandExecutor) *DryRunExecutor {
	return &DryRunExecutor{w: w, queries: queries}
}

// FormatCommand renders a command line with shell quoting.
func FormatCommand(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}

// IsQuery reports whether a command only inspects state.
func IsQuery(name string, args ...string) bool {
	if filepath.Base(name) == "git" {
		return len(args) > 0 && args[0] == "rev-parse"
	}
	return len(args) >= 3 && args[0] == "-m" && args[1] == "pip" && args[2] == "show"
}

func (e *DryRunExecutor) print(name string, args []string) {
	fmt.Fprintf(e.w, "$ %s\n", FormatCommand(name, args...))
}

func (e *DryRunExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	e.print(name, args)
	if e.queries != nil && IsQuery(name, args...) {
		return e.queries.Execute(ctx, name, args...)
	}
	return nil, nil
}

func (e *DryRunExecutor) ExecuteInteractive(ctx context.Context, name string, args ...string) error {
	e.print(name, args)
	return nil
}

func (e *DryRunExecutor) ReplaceProcess(name string, args ...string) error {
	e.print(name, args)
	return nil
}
