// Package engine defines how the CLI talks to the orchestration engine that
// executes goals, and provides the default OpenAI-compatible adapter.
package engine

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no usable backend profile is configured.
var ErrNotConfigured = errors.New("engine profile is not configured")

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is the record a goal run produces. Callers only read it.
type Result struct {
	Status Status
	// Iterations is -1 when the engine could not report it.
	Iterations int
	OutputFile string
	Goal       string
}

func (r Result) Succeeded() bool {
	return r.Status == StatusSuccess
}

func (r Result) IterationCount() (int, bool) {
	return r.Iterations, r.Iterations >= 0
}

func (r Result) OutputRef() string {
	return r.OutputFile
}

// Runner executes one goal.
type Runner interface {
	Run(ctx context.Context, goal string) (Result, error)
}
