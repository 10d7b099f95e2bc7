package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Rorical/agentic/internal/app"
)

var (
	configPath   string
	profileName  string
	logLevel     string
	logFormat    string
	goalText     string
	uiMode       bool
	validateMode bool
)

var rootCmd = &cobra.Command{
	Use:   "agentic [goal]",
	Short: "Local-first agentic development pipeline",
	Long: `agentic runs a goal through a planner, developer and reviewer pipeline,
launches the web dashboard, or validates the installation.

Without a goal or mode flag it shows an interactive menu.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		goal := goalText
		if goal == "" && len(args) > 0 {
			goal = args[0]
		}

		mode := app.ModeMenu
		switch {
		case validateMode:
			mode = app.ModeValidate
		case uiMode:
			mode = app.ModeUI
		case goal != "":
			mode = app.ModeGoal
		}
		return runApp(cmd, mode, goal)
	},
}

func appConfig() *app.AppConfig {
	return &app.AppConfig{
		ConfigPath: configPath,
		Profile:    profileName,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}
}

func runApp(cmd *cobra.Command, mode app.Mode, goal string) error {
	application, err := app.NewApplication(cmd.OutOrStdout(), cmd.ErrOrStderr(), appConfig())
	if err != nil {
		return err
	}
	return application.Run(cmd.Context(), mode, goal)
}

// Execute runs the root command and is the only place the process exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exitErr *app.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

func bindGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&configPath, "config", "", "config file (default $AGENTIC_HOME/.agentic/config.json)")
	flags.StringVar(&profileName, "profile", "", "engine profile to use instead of the active one")
	flags.StringVar(&logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "diagnostic log format: text or json")
}

func init() {
	bindGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.Flags().StringVarP(&goalText, "goal", "g", "", "goal to execute")
	rootCmd.Flags().BoolVar(&uiMode, "ui", false, "launch the web dashboard")
	rootCmd.Flags().BoolVar(&validateMode, "validate", false, "run self-validation")

	rootCmd.AddCommand(profileCmd)
}
