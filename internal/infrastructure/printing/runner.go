package printing

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// CommandResult is the captured outcome of an external command
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner runs an external command to completion.
// A non-zero exit is reported through ExitCode, not as an error; the error
// is reserved for commands that could not be started or were killed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
}

// ExecRunner runs commands with os/exec without showing a console window
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and captures stdout and stderr
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// Success returns true if the command exited with status zero
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// Diagnostic returns the text reported by the command for a failure,
// preferring stderr and falling back to stdout.
func (r *CommandResult) Diagnostic() string {
	if s := bytes.TrimSpace(r.Stderr); len(s) > 0 {
		return string(s)
	}
	return string(bytes.TrimSpace(r.Stdout))
}

// Ensure ExecRunner implements CommandRunner
var _ CommandRunner = (*ExecRunner)(nil)
