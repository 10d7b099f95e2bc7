// Package dashboard launches the web dashboard as a child process and waits
// for it to exit.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/Rorical/agentic/internal/ctxlog"
)

// InterruptedCode is reported when the child was ended by a signal.
const InterruptedCode = 130

// ShutdownGrace is how long the child may take to exit after an interrupt is
// forwarded before it is killed.
const ShutdownGrace = 5 * time.Second

// Launcher starts the configured dashboard command.
type Launcher struct {
	command []string
	dir     string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

type Option func(*Launcher)

// WithOutput redirects the child's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdout, l.stderr = stdout, stderr
	}
}

// New creates a launcher for command. The child inherits the terminal unless
// WithOutput says otherwise.
func New(command []string, dir string, opts ...Option) *Launcher {
	l := &Launcher{
		command: command,
		dir:     dir,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run starts the dashboard and blocks until it exits, returning its exit
// status. Cancelling ctx forwards an interrupt to the child.
func (l *Launcher) Run(ctx context.Context) (int, error) {
	if len(l.command) == 0 {
		return 1, errors.New("no dashboard command configured")
	}
	logger := ctxlog.FromContext(ctx)

	cmd := exec.CommandContext(ctx, l.command[0], l.command[1:]...)
	cmd.Dir = l.dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.stdin, l.stdout, l.stderr
	cmd.Cancel = func() error {
		logger.Debug("Forwarding interrupt to dashboard.", "pid", cmd.Process.Pid)
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = ShutdownGrace

	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("failed to start dashboard %s: %w", l.command[0], err)
	}
	logger.Debug("Dashboard started.", "pid", cmd.Process.Pid)

	err := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			code = InterruptedCode
		}
		logger.Debug("Dashboard exited.", "code", code)
		return code, nil
	case ctx.Err() != nil:
		// The child shut down cleanly after the forwarded interrupt.
		return InterruptedCode, nil
	default:
		return 1, fmt.Errorf("dashboard wait: %w", err)
	}
}
