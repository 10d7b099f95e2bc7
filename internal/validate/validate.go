// Package validate runs the self-validation checks: required files, component
// resolution and the external test suites. Every stage always runs so the
// final report lists every problem found.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"time"

	"github.com/Rorical/agentic/internal/ctxlog"
	"github.com/Rorical/agentic/internal/runner"
	"github.com/Rorical/agentic/ui/components"
	"github.com/Rorical/agentic/ui/styles"
)

// DefaultTimeout bounds each external suite run.
const DefaultTimeout = 60 * time.Second

// Resolver looks up a "module.Symbol" identifier.
type Resolver interface {
	Resolve(qualified string) (any, error)
}

// TestRunner runs an external test suite.
type TestRunner interface {
	Run(ctx context.Context, target string, timeout time.Duration) (runner.Result, error)
}

// Suite is one external check.
type Suite struct {
	Title  string
	Noun   string
	Target string
	// Tail is how many trailing characters of output are shown on failure.
	Tail int
}

func (s Suite) failure() string {
	return s.Noun + " tests failed"
}

// Config is the manifest a validation run checks.
type Config struct {
	// FS is the project root the file manifest is relative to.
	FS      fs.FS
	Files   []string
	Symbols []string
	Suites  []Suite
	Timeout time.Duration
}

// DefaultSuites returns the two standard suites for the given targets.
func DefaultSuites(coreTarget, uiTarget string) []Suite {
	return []Suite{
		{Title: "Core Tests", Noun: "Core", Target: coreTarget, Tail: 800},
		{Title: "UI Tests", Noun: "UI", Target: uiTarget, Tail: 400},
	}
}

// Report is the outcome of a run.
type Report struct {
	Errors []string
}

func (r Report) Passed() bool {
	return len(r.Errors) == 0
}

// ExitCode is 0 when every check passed and 1 otherwise.
func (r Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

type Validator struct {
	p        *components.Printer
	cfg      Config
	resolver Resolver
	runner   TestRunner
	errs     []string
}

func New(p *components.Printer, cfg Config, resolver Resolver, tr TestRunner) *Validator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Validator{p: p, cfg: cfg, resolver: resolver, runner: tr}
}

// Run executes every stage and prints the verdict. The only error it returns
// is the context's, when the run was interrupted.
func (v *Validator) Run(ctx context.Context) (Report, error) {
	logger := ctxlog.FromContext(ctx)
	v.errs = nil
	v.p.PrintValidationHeader()

	total := 2 + len(v.cfg.Suites)
	stage := 1
	header := func(title string) {
		v.p.Section(fmt.Sprintf("%d / %d  --  %s", stage, total, title), styles.Blue)
		stage++
	}

	header("Required Files")
	v.checkFiles()
	logger.Debug("File stage complete.", "errors", len(v.errs))

	header("Component Registry")
	v.checkSymbols()
	logger.Debug("Registry stage complete.", "errors", len(v.errs))

	for _, s := range v.cfg.Suites {
		if err := ctx.Err(); err != nil {
			return Report{Errors: v.errs}, err
		}
		header(s.Title)
		if err := v.runSuite(ctx, s); err != nil {
			return Report{Errors: v.errs}, err
		}
		logger.Debug("Suite stage complete.", "suite", s.Target, "errors", len(v.errs))
	}

	v.p.PrintValidationResult(v.errs)
	return Report{Errors: v.errs}, nil
}

func (v *Validator) fail(entry string) {
	v.errs = append(v.errs, entry)
}

func (v *Validator) checkFiles() {
	for _, f := range v.cfg.Files {
		if _, err := fs.Stat(v.cfg.FS, path.Clean(filepath.ToSlash(f))); err != nil {
			v.p.Failure("MISSING: " + f)
			v.fail("Missing file: " + f)
			continue
		}
		v.p.Success(f)
	}
}

func (v *Validator) checkSymbols() {
	for _, sym := range v.cfg.Symbols {
		if err := v.resolve(sym); err != nil {
			v.p.Failure(sym + "  --  " + err.Error())
			v.fail("Import failed: " + sym)
			continue
		}
		v.p.Success(sym)
	}
}

// resolve turns a panicking resolver into an ordinary failure.
func (v *Validator) resolve(sym string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panic: %v", r)
		}
	}()
	_, err = v.resolver.Resolve(sym)
	return err
}

func (v *Validator) runSuite(ctx context.Context, s Suite) error {
	sp := v.p.NewSpinner("Running "+s.Noun+" tests", styles.Cyan).Start()
	res, err := v.runner.Run(ctx, s.Target, v.cfg.Timeout)
	ctxlog.FromContext(ctx).Debug("Suite run finished.", "target", s.Target, "exit_code", res.ExitCode, "duration", res.Duration)

	switch {
	case err != nil && ctx.Err() != nil && !errors.Is(err, runner.ErrTimeout):
		sp.Finish(components.Cancelled, s.Noun+" tests")
		return ctx.Err()
	case err != nil:
		sp.Stop(false, s.failure())
		v.p.Muted(err.Error())
		v.p.Muted(tail(res.Output, s.Tail))
		v.fail(s.failure())
	case !res.Passed():
		sp.Stop(false, s.failure())
		v.p.Muted(tail(res.Output, s.Tail))
		v.fail(s.failure())
	default:
		sp.Stop(true, "All "+s.Noun+" tests passed")
	}
	return nil
}

// tail keeps the last n characters of s.
func tail(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
