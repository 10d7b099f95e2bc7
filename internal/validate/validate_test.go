package validate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/agentic/internal/ctxlog"
	"github.com/Rorical/agentic/internal/registry"
	"github.com/Rorical/agentic/internal/runner"
	"github.com/Rorical/agentic/ui/components"
	"github.com/Rorical/agentic/ui/styles"
)

type fakeRunner struct {
	results map[string]runner.Result
	errs    map[string]error
	targets []string
}

func (f *fakeRunner) Run(_ context.Context, target string, _ time.Duration) (runner.Result, error) {
	f.targets = append(f.targets, target)
	res, ok := f.results[target]
	if !ok {
		res = runner.Result{Target: target}
	}
	return res, f.errs[target]
}

type panicResolver struct{}

func (panicResolver) Resolve(string) (any, error) {
	panic("boom")
}

func newTestPrinter() (*components.Printer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	palette := styles.NewPalette(out, styles.WithProfile(termenv.ANSI256))
	return components.NewPrinter(out, palette, components.WithWidth(func() int { return 100 })), out
}

func newRegistry() *registry.Registry {
	reg := registry.New()
	reg.Register("engine", "NewOpenAI", struct{}{})
	reg.Register("runner", "New", struct{}{})
	return reg
}

func TestRun_AggregatesEveryStage(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fsys := fstest.MapFS{
		"go.mod":            {Data: []byte("module x")},
		"main.go":           {Data: []byte("package main")},
		"cmd/root.go":       {Data: []byte("package cmd")},
		"internal/app/a.go": {Data: []byte("package app")},
	}
	cfg := Config{
		FS:      fsys,
		Files:   []string{"go.mod", "main.go", "cmd/root.go", "README.md", "internal/validate/validate.go"},
		Symbols: []string{"engine.NewOpenAI", "runner.New", "dashboard.New"},
		Suites:  DefaultSuites("./internal/...", "./ui/..."),
	}
	tr := &fakeRunner{
		results: map[string]runner.Result{
			"./internal/...": {ExitCode: 1, Output: strings.Repeat("x", 900) + "FAIL core"},
		},
		errs: map[string]error{
			"./ui/...": fmt.Errorf("./ui/... after 60s: %w", runner.ErrTimeout),
		},
	}
	p, out := newTestPrinter()

	// --- Act ---
	report, err := New(p, cfg, newRegistry(), tr).Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	want := []string{
		"Missing file: README.md",
		"Missing file: internal/validate/validate.go",
		"Import failed: dashboard.New",
		"Core tests failed",
		"UI tests failed",
	}
	if diff := cmp.Diff(want, report.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, report.ExitCode())
	require.Equal(t, []string{"./internal/...", "./ui/..."}, tr.targets)

	plain := styles.Strip(out.String())
	require.Contains(t, plain, "1 / 4  --  Required Files")
	require.Contains(t, plain, "4 / 4  --  UI Tests")
	require.Contains(t, plain, "✗  MISSING: README.md")
	require.Contains(t, plain, "✓  engine.NewOpenAI")
	require.Contains(t, plain, "dashboard.New  --  module 'dashboard' not found")
	require.Contains(t, plain, "FAIL core")
	require.NotContains(t, plain, strings.Repeat("x", 800))
	require.Contains(t, plain, "FAILED — 5 issue(s)")
}

func TestRun_AllClean(t *testing.T) {
	t.Parallel()

	cfg := Config{
		FS:      fstest.MapFS{"go.mod": {Data: []byte("module x")}},
		Files:   []string{"go.mod"},
		Symbols: []string{"engine.NewOpenAI", "runner.New"},
		Suites:  DefaultSuites("./a/...", "./b/..."),
	}
	p, out := newTestPrinter()

	report, err := New(p, cfg, newRegistry(), &fakeRunner{}).Run(context.Background())

	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Zero(t, report.ExitCode())
	plain := styles.Strip(out.String())
	require.Contains(t, plain, "All Core tests passed")
	require.Contains(t, plain, "All UI tests passed")
	require.Contains(t, plain, "ALL CHECKS PASSED")
}

func TestRun_RelativeManifestPathsResolve(t *testing.T) {
	t.Parallel()

	cfg := Config{
		FS: fstest.MapFS{
			"go.mod":      {Data: []byte("module x")},
			"cmd/root.go": {Data: []byte("package cmd")},
		},
		Files: []string{"./go.mod", "cmd/../cmd/root.go", "./README.md"},
	}
	p, out := newTestPrinter()

	report, err := New(p, cfg, newRegistry(), &fakeRunner{}).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"Missing file: ./README.md"}, report.Errors)
	plain := styles.Strip(out.String())
	require.Contains(t, plain, "✓  ./go.mod")
	require.Contains(t, plain, "✓  cmd/../cmd/root.go")
}

func TestRun_LogsSuiteDuration(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)
	cfg := Config{FS: fstest.MapFS{}, Suites: DefaultSuites("./a/...", "./b/...")}
	tr := &fakeRunner{results: map[string]runner.Result{
		"./a/...": {Target: "./a/...", Duration: 1500 * time.Millisecond},
	}}
	p, _ := newTestPrinter()

	// --- Act ---
	_, err := New(p, cfg, newRegistry(), tr).Run(ctx)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, logs.String(), `msg="Suite run finished." target=./a/... exit_code=0 duration=1.5s`)
}

func TestRun_ResolverPanicIsAFailure(t *testing.T) {
	t.Parallel()

	cfg := Config{FS: fstest.MapFS{}, Symbols: []string{"engine.NewOpenAI"}}
	p, out := newTestPrinter()

	report, err := New(p, cfg, panicResolver{}, &fakeRunner{}).Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"Import failed: engine.NewOpenAI"}, report.Errors)
	require.Contains(t, styles.Strip(out.String()), "resolver panic: boom")
}

func TestRun_InterruptedSuiteStopsRun(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{FS: fstest.MapFS{}, Suites: DefaultSuites("./a/...", "./b/...")}
	tr := &fakeRunner{errs: map[string]error{"./a/...": context.Canceled}}
	p, out := newTestPrinter()

	_, err := New(p, cfg, newRegistry(), tr).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, tr.targets)
	require.NotContains(t, styles.Strip(out.String()), "VALIDATION RESULT")
}

func TestTail(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", tail("abc", 10))
	require.Equal(t, "bc", tail("abc", 2))
	require.Equal(t, "éü", tail("aéü", 2))
}
