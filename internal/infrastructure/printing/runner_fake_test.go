package printing

import (
	"context"
	"sync"
)

// fakeRunner records commands and returns a canned result
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	result *CommandResult
	err    error
	// onRun observes the command while it "runs"
	onRun func(name string, args []string)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if r.onRun != nil {
		r.onRun(name, args)
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.result == nil {
		return &CommandResult{}, nil
	}
	return r.result, nil
}
