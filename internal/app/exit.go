package app

import (
	"fmt"
)

// InterruptedCode is the exit status after a user interrupt.
const InterruptedCode = 130

// ExitError carries a process exit status up to the command layer. Message is
// printed to stderr when set; most modes have already rendered their outcome.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// panicError is a recovered panic with the stack of the goroutine it came from.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) trace() string {
	return e.Error() + "\n\n" + string(e.stack)
}
