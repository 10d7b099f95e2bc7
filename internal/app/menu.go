package app

import (
	"context"
	"strings"

	"github.com/Rorical/agentic/ui/components"
	"github.com/Rorical/agentic/ui/styles"
)

func (a *Application) menuEntries() []components.MenuEntry {
	return []components.MenuEntry{
		{Key: "1", Title: "Submit a goal", Description: "Plan, build and review a new goal", Token: styles.Cyan},
		{Key: "2", Title: "Launch dashboard", Description: "Web UI at " + a.cfg.Dashboard.URL, Token: styles.Magenta},
		{Key: "3", Title: "Run validation", Description: "Check files, components and test suites", Token: styles.Yellow},
		{Key: "4", Title: "Exit", Description: "Quit without doing anything", Token: styles.Grey},
	}
}

// runMenu asks once; invalid input warns and returns without retrying.
func (a *Application) runMenu(ctx context.Context) error {
	a.printer.PrintMenu(a.menuEntries())

	choice, err := a.prompter.Prompt("Choice")
	if err != nil {
		return err
	}

	switch strings.TrimSpace(choice) {
	case "1":
		a.printer.Blank()
		goal, err := a.prompter.Prompt("Your goal")
		if err != nil {
			return err
		}
		goal = strings.TrimSpace(goal)
		if goal == "" {
			a.printer.Warning("No goal entered.")
			return nil
		}
		return a.runGoal(ctx, goal)
	case "2":
		return a.runUI(ctx)
	case "3":
		return a.runValidation(ctx)
	case "4":
		return nil
	default:
		a.printer.Warning("Invalid choice.")
		return nil
	}
}
