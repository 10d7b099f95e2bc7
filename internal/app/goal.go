package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/Rorical/agentic/internal/ctxlog"
	"github.com/Rorical/agentic/internal/engine"
	"github.com/Rorical/agentic/internal/eventbus"
	"github.com/Rorical/agentic/ui/components"
	"github.com/Rorical/agentic/ui/styles"
)

const eventBufferSize = 256

// withRunID tags the context logger with a fresh run id.
func withRunID(ctx context.Context) (context.Context, *slog.Logger) {
	logger := ctxlog.FromContext(ctx).With("run_id", uuid.NewString())
	return ctxlog.WithLogger(ctx, logger), logger
}

func (a *Application) runGoal(ctx context.Context, goal string) error {
	ctx, logger := withRunID(ctx)
	logger.Info("Running goal.", "goal", goal)

	p := a.printer
	p.Section("RUNNING GOAL", styles.Magenta)
	p.KeyValue("Goal", goal)
	p.Blank()

	events := eventbus.NewEventBus(eventBufferSize)
	var eng engine.Runner
	err := p.NewSpinner("Initialising orchestrator", styles.Cyan).Run(func() error {
		var err error
		eng, err = a.newEngine(a.cfg.Path(), a.profile, events)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to initialise engine: %w", err)
	}
	p.Blank()

	res, err := a.execute(ctx, eng, goal, events)
	if err != nil {
		return err
	}
	if n := events.Dropped(); n > 0 {
		logger.Warn("Pipeline events dropped.", "count", n)
	}

	p.PrintGoalResult(res, goal)
	logger.Info("Goal finished.", "status", res.Status, "iterations", res.Iterations)
	if !res.Succeeded() {
		return &ExitError{Code: 1}
	}
	return nil
}

type outcome struct {
	res engine.Result
	err error
}

// execute runs the engine on its own goroutine while the foreground renders
// its events, so only the foreground ever writes to the terminal.
func (a *Application) execute(ctx context.Context, eng engine.Runner, goal string, events *eventbus.EventBus) (engine.Result, error) {
	done := make(chan outcome, 1)
	go func() {
		defer events.Close()
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: &panicError{value: r, stack: debug.Stack()}}
			}
		}()
		res, err := eng.Run(ctx, goal)
		done <- outcome{res: res, err: err}
	}()

	for ev := range events.Events() {
		a.render(ev)
	}
	out := <-done
	if out.err != nil {
		return out.res, fmt.Errorf("goal execution: %w", out.err)
	}
	return out.res, nil
}

func (a *Application) render(ev eventbus.Event) {
	switch e := ev.(type) {
	case eventbus.IterationEvent:
		a.printer.IterationHeader(e.N, e.Total)
	case eventbus.PipelineEvent:
		a.printer.Event(e.Actor, e.Name, e.Detail, components.ParseStatus(e.Status))
	}
}
