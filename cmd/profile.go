package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/agentic/internal/config"
	"github.com/Rorical/agentic/ui/components"
	"github.com/Rorical/agentic/ui/styles"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage engine profiles",
	Long:  `Manage the API profiles the orchestration engine connects with.`,
}

func newPrinter(cmd *cobra.Command) *components.Printer {
	out := cmd.OutOrStdout()
	return components.NewPrinter(out, styles.NewPalette(out))
}

func keyState(p config.Profile) string {
	if p.APIKey == "" {
		return "not set"
	}
	return "set (hidden)"
}

func printProfile(p *components.Printer, profile config.Profile) {
	p.KeyValue("Model", profile.Model)
	baseURL := profile.BaseURL
	if baseURL == "" {
		baseURL = "default"
	}
	p.KeyValue("Base URL", baseURL)
	p.KeyValue("API Key", keyState(profile))
}

// selectProfile returns args[0] or lets the user pick from names.
func selectProfile(args []string, label string, names []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if len(names) == 0 {
		return "", errors.New("no profiles available")
	}
	sel := promptui.Select{Label: label, Items: names}
	_, name, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return name, nil
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		p := newPrinter(cmd)
		p.Section("PROFILES", styles.Cyan)
		for _, name := range cfg.ProfileNames() {
			if name == cfg.ActiveProfile {
				p.Success(name + " (active)")
			} else {
				p.Info(name)
			}
			printProfile(p, cfg.Profiles[name])
			p.Blank()
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		name := cfg.ActiveProfile
		if len(args) > 0 {
			name = args[0]
		}
		name, profile, exists := cfg.LookupProfile(name)
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", name)
		}

		p := newPrinter(cmd)
		p.Section("PROFILE "+name, styles.Cyan)
		printProfile(p, profile)
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			name, err = (&promptui.Prompt{Label: "Profile name"}).Run()
			if err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		var profile config.Profile
		if profile.APIKey, err = (&promptui.Prompt{Label: "API Key", Mask: '*'}).Run(); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if profile.Model, err = (&promptui.Prompt{Label: "Model", Default: "gpt-4o-mini"}).Run(); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if profile.BaseURL, err = (&promptui.Prompt{Label: "Base URL (optional)"}).Run(); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		if err := cfg.AddProfile(name, profile); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Profile '%s' added.", name))
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		name, err := selectProfile(args, "Select profile to edit", cfg.ProfileNames())
		if err != nil {
			return err
		}
		name, profile, exists := cfg.LookupProfile(name)
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", name)
		}

		if profile.APIKey, err = (&promptui.Prompt{Label: "API Key", Default: profile.APIKey, Mask: '*'}).Run(); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if profile.Model, err = (&promptui.Prompt{Label: "Model", Default: profile.Model}).Run(); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		if profile.BaseURL, err = (&promptui.Prompt{Label: "Base URL", Default: profile.BaseURL}).Run(); err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		cfg.Profiles[name] = profile
		if err := cfg.Save(); err != nil {
			return err
		}
		newPrinter(cmd).Success(fmt.Sprintf("Profile '%s' updated.", name))
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		name, err := selectProfile(args, "Select profile to delete", cfg.ProfileNames())
		if err != nil {
			return err
		}
		name, _, exists := cfg.LookupProfile(name)
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", name)
		}

		p := newPrinter(cmd)
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", name),
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			p.Warning("Deletion cancelled.")
			return nil
		}

		if err := cfg.DeleteProfile(name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		p.Success(fmt.Sprintf("Profile '%s' deleted. Active profile: %s", name, cfg.ActiveProfile))
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		var others []string
		for _, name := range cfg.ProfileNames() {
			if name != cfg.ActiveProfile {
				others = append(others, name)
			}
		}
		p := newPrinter(cmd)
		if len(args) == 0 && len(others) == 0 {
			p.Warning("No other profiles available to switch to.")
			return nil
		}

		name, err := selectProfile(args, "Select profile to switch to", others)
		if err != nil {
			return err
		}
		if err := cfg.Use(name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		p.Success(fmt.Sprintf("Switched to profile '%s'.", cfg.ActiveProfile))
		return nil
	},
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
