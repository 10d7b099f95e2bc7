// Package runner invokes an external test runner against a named suite with a
// wall-clock limit.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned when a run exceeds its time limit.
var ErrTimeout = errors.New("test runner timed out")

// VerboseFlag is appended after the target on every invocation.
const VerboseFlag = "-v"

// Result is what a finished runner invocation reports.
type Result struct {
	Target   string
	ExitCode int
	Output   string
	Duration time.Duration
}

// Passed reports a zero exit status.
func (r Result) Passed() bool {
	return r.ExitCode == 0
}

// Runner executes one configured command line.
type Runner struct {
	command []string
	dir     string
}

// New creates a runner for command, e.g. ["go", "test"]. The target and
// VerboseFlag are appended per run.
func New(command []string, dir string) *Runner {
	return &Runner{command: command, dir: dir}
}

// Run executes the runner against target and captures combined output. A
// non-zero exit is reported in Result, not as an error. Exceeding timeout
// returns ErrTimeout together with the output captured so far.
func (r *Runner) Run(ctx context.Context, target string, timeout time.Duration) (Result, error) {
	res := Result{Target: target, ExitCode: -1}
	if len(r.command) == 0 {
		return res, errors.New("no test runner command configured")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, r.command[1:]...), target, VerboseFlag)
	cmd := exec.CommandContext(timeoutCtx, r.command[0], args...)
	cmd.Dir = r.dir
	// Do not wait on grandchildren holding the output pipe after a kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	output, err := cmd.CombinedOutput()
	res.Duration = time.Since(start)
	res.Output = string(output)

	if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s after %s: %w", target, timeout, ErrTimeout)
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("failed to run %s: %w", r.command[0], err)
	}
	return res, nil
}
