package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/muesli/termenv"

	"github.com/Rorical/agentic/internal/config"
	"github.com/Rorical/agentic/internal/ctxlog"
	"github.com/Rorical/agentic/internal/dashboard"
	"github.com/Rorical/agentic/internal/engine"
	"github.com/Rorical/agentic/internal/eventbus"
	"github.com/Rorical/agentic/internal/registry"
	"github.com/Rorical/agentic/internal/runner"
	"github.com/Rorical/agentic/internal/validate"
	"github.com/Rorical/agentic/ui/components"
	"github.com/Rorical/agentic/ui/styles"
)

// AppConfig holds the command-line settings for one invocation.
type AppConfig struct {
	ConfigPath string
	Profile    string
	LogLevel   string
	LogFormat  string
}

// Mode selects what a run does.
type Mode int

const (
	ModeMenu Mode = iota
	ModeGoal
	ModeUI
	ModeValidate
)

// EngineFactory builds the orchestration engine for a goal run.
type EngineFactory func(configPath, profile string, events *eventbus.EventBus) (engine.Runner, error)

// Dashboard runs the dashboard process to completion.
type Dashboard interface {
	Run(ctx context.Context) (int, error)
}

func openAIEngine(configPath, profile string, events *eventbus.EventBus) (engine.Runner, error) {
	return engine.NewOpenAI(configPath, engine.WithProfile(profile), engine.WithEvents(events))
}

// Application owns the printer and collaborators for a single invocation.
type Application struct {
	logger   *slog.Logger
	cfg      *config.Config
	profile  string
	printer  *components.Printer
	registry *registry.Registry

	prompter   Prompter
	newEngine  EngineFactory
	dashboard  Dashboard
	testRunner validate.TestRunner
	projectFS  fs.FS

	colorProfile *termenv.Profile
	printerOpts  []components.Option
}

type Option func(*Application)

func WithPrompter(p Prompter) Option {
	return func(a *Application) { a.prompter = p }
}

func WithEngineFactory(f EngineFactory) Option {
	return func(a *Application) { a.newEngine = f }
}

func WithDashboard(d Dashboard) Option {
	return func(a *Application) { a.dashboard = d }
}

func WithTestRunner(r validate.TestRunner) Option {
	return func(a *Application) { a.testRunner = r }
}

// WithProjectFS sets the tree the validation file manifest is checked against.
func WithProjectFS(fsys fs.FS) Option {
	return func(a *Application) { a.projectFS = fsys }
}

// WithColorProfile forces a colour profile instead of detecting one.
func WithColorProfile(p termenv.Profile) Option {
	return func(a *Application) { a.colorProfile = &p }
}

func WithPrinterOptions(opts ...components.Option) Option {
	return func(a *Application) { a.printerOpts = append(a.printerOpts, opts...) }
}

// NewApplication loads configuration and wires the printer, registry and
// collaborators. Rendered output goes to outW and diagnostics to errW.
func NewApplication(outW, errW io.Writer, appCfg *AppConfig, opts ...Option) (*Application, error) {
	cfg, err := config.Load(appCfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if appCfg.LogLevel != "" {
		level = appCfg.LogLevel
	}
	if appCfg.LogFormat != "" {
		format = appCfg.LogFormat
	}
	logger := newLogger(level, format, errW)

	if appCfg.Profile != "" {
		if err := cfg.Use(appCfg.Profile); err != nil {
			return nil, err
		}
	}
	logger.Debug("Configuration loaded.", "path", cfg.Path(), "profile", cfg.ActiveProfile)

	a := &Application{
		logger:   logger,
		cfg:      cfg,
		profile:  cfg.ActiveProfile,
		registry: newRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}

	var paletteOpts []styles.Option
	if a.colorProfile != nil {
		paletteOpts = append(paletteOpts, styles.WithProfile(*a.colorProfile))
	}
	printerOpts := append([]components.Option{components.WithLogPath(cfg.Log.File)}, a.printerOpts...)
	a.printer = components.NewPrinter(outW, styles.NewPalette(outW, paletteOpts...), printerOpts...)

	if a.prompter == nil {
		a.prompter = terminalPrompter{}
	}
	if a.newEngine == nil {
		a.newEngine = openAIEngine
	}
	if a.dashboard == nil {
		a.dashboard = dashboard.New(cfg.Dashboard.Command, "")
	}
	if a.testRunner == nil {
		a.testRunner = runner.New(cfg.Validation.Runner, cfg.Validation.Root)
	}
	if a.projectFS == nil {
		a.projectFS = os.DirFS(cfg.Validation.Root)
	}
	return a, nil
}

// Printer is exposed for commands that render outside a mode.
func (a *Application) Printer() *components.Printer {
	return a.printer
}

// Run executes mode behind the outermost fault boundary. The returned error is
// nil or an *ExitError whose outcome has already been rendered.
func (a *Application) Run(ctx context.Context, mode Mode, goal string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	restore := styles.EnableVirtualTerminal(ctx, a.logger)
	defer restore()

	return a.guard(ctx, func() error {
		switch mode {
		case ModeGoal:
			return a.runGoal(ctx, goal)
		case ModeUI:
			return a.runUI(ctx)
		case ModeValidate:
			return a.runValidation(ctx)
		default:
			return a.runMenu(ctx)
		}
	})
}

// guard is the single catch-all: panics and unexpected errors become a crash
// report, interrupts a short warning.
func (a *Application) guard(ctx context.Context, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = a.crash(ctx, &panicError{value: r, stack: debug.Stack()})
		}
	}()

	err = fn()
	var exitErr *ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &exitErr):
		return err
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		a.printer.Blank()
		a.printer.Warning("Interrupted.")
		a.printer.Blank()
		return &ExitError{Code: InterruptedCode}
	default:
		return a.crash(ctx, err)
	}
}

func (a *Application) crash(ctx context.Context, err error) error {
	ctxlog.FromContext(ctx).Error("Unhandled failure.", "error", err)

	trace := err.Error()
	var pe *panicError
	if errors.As(err, &pe) {
		trace = pe.trace()
	}
	if errors.Is(err, engine.ErrNotConfigured) {
		trace += "\n\nAdd a profile with: agentic profile add"
	}
	a.printer.PrintCrash(trace)
	return &ExitError{Code: 1}
}

func (a *Application) runUI(ctx context.Context) error {
	p := a.printer
	p.Section("WEB UI", styles.Cyan)
	p.Info("Starting dashboard server...")
	p.KeyValue("URL", a.cfg.Dashboard.URL)
	p.Muted("Press Ctrl+C in this window to stop the server.")
	p.Blank()

	code, err := a.dashboard.Run(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func (a *Application) runValidation(ctx context.Context) error {
	v := a.cfg.Validation
	cfg := validate.Config{
		FS:      a.projectFS,
		Files:   v.Files,
		Symbols: v.Symbols,
		Suites:  validate.DefaultSuites(v.SuiteA, v.SuiteB),
		Timeout: v.Timeout,
	}
	ctx, logger := withRunID(ctx)
	logger.Info("Starting self-validation.")

	report, err := validate.New(a.printer, cfg, a.registry, a.testRunner).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Self-validation finished.", "errors", len(report.Errors))
	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
