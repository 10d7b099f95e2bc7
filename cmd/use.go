package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Rorical/agentic/internal/app"
	"github.com/Rorical/agentic/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and open the menu",
	Long:  `Make the named profile active, save the configuration and show the interactive menu.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Use(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		return runApp(cmd, app.ModeMenu, "")
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
