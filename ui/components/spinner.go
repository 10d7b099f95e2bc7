package components

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/Rorical/agentic/ui/styles"
)

const (
	// FrameInterval is the repaint cadence of a running spinner.
	FrameInterval = 80 * time.Millisecond

	// StopTimeout bounds how long Stop waits for the repaint goroutine.
	StopTimeout = time.Second

	eraseWidth = 30
)

// Outcome is how a spinner-guarded operation ended.
type Outcome int

const (
	Succeeded Outcome = iota
	Failed
	Cancelled
)

// Spinner animates a label on the current line until stopped. It may be
// restarted after Stop returns.
type Spinner struct {
	p      *Printer
	label  string
	tok    styles.Token
	frames []string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSpinner creates an idle spinner.
func (p *Printer) NewSpinner(label string, tok styles.Token) *Spinner {
	return &Spinner{
		p:      p,
		label:  label,
		tok:    tok,
		frames: spinner.MiniDot.Frames,
	}
}

// Start launches the repaint goroutine. Starting a running spinner is a no-op.
func (s *Spinner) Start() *Spinner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return s
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.spin(ctx, s.done)
	return s
}

func (s *Spinner) spin(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := s.frames[i%len(s.frames)]
		s.p.write("\r" + s.frameLine(frame))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) frameLine(frame string) string {
	return fmt.Sprintf("  %s  %s...   ", s.p.c(frame, s.tok), s.p.c(s.label, styles.White))
}

// Running reports whether the repaint goroutine has been started and not stopped.
func (s *Spinner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop ends the animation and writes the final line. An empty msg reuses the label.
func (s *Spinner) Stop(success bool, msg string) {
	outcome := Succeeded
	if !success {
		outcome = Failed
	}
	s.Finish(outcome, msg)
}

// Finish stops the spinner with an explicit outcome.
func (s *Spinner) Finish(outcome Outcome, msg string) {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-time.After(StopTimeout):
		}
	}

	if msg == "" {
		msg = s.label
	}
	var icon, text string
	switch outcome {
	case Succeeded:
		icon, text = s.p.c("✓", styles.Green), s.p.c(msg, styles.White)
	case Failed:
		icon, text = s.p.c("✗", styles.Red), s.p.c(msg, styles.Red)
	default:
		icon, text = s.p.c("!", styles.Yellow), s.p.c(msg+" (cancelled)", styles.Yellow)
	}
	final := "  " + icon + "  " + text
	erase := max(eraseWidth, styles.VisibleLength(s.frameLine(s.frames[0]))-styles.VisibleLength(final))
	s.p.write("\r" + final + strings.Repeat(" ", erase) + "\n")
}

// Run brackets fn with the spinner. The outcome follows fn's result: nil is
// success, context cancellation is Cancelled, any other error or a panic is
// failure. Panics are re-raised after the line is finalised.
func (s *Spinner) Run(fn func() error) (err error) {
	s.Start()
	defer func() {
		if r := recover(); r != nil {
			s.Finish(Failed, "")
			panic(r)
		}
		switch {
		case err == nil:
			s.Finish(Succeeded, "")
		case errors.Is(err, context.Canceled):
			s.Finish(Cancelled, "")
		default:
			s.Finish(Failed, "")
		}
	}()
	return fn()
}
