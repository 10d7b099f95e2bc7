package app

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
)

// Prompter reads one line of user input.
type Prompter interface {
	Prompt(label string) (string, error)
}

var promptTemplate = `  {{ "❯" | cyan | bold }} {{ . | white }}: `

// terminalPrompter reads from the controlling terminal with promptui.
type terminalPrompter struct{}

// Prompt maps Ctrl+C to context.Canceled and end of input to an empty answer.
func (terminalPrompter) Prompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Templates: &promptui.PromptTemplates{
			Prompt:  promptTemplate,
			Valid:   promptTemplate,
			Invalid: promptTemplate,
			Success: promptTemplate,
		},
	}
	answer, err := prompt.Run()
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		return "", context.Canceled
	case errors.Is(err, promptui.ErrEOF):
		return "", nil
	}
	return answer, err
}
