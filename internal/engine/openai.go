package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/agentic/internal/config"
	"github.com/Rorical/agentic/internal/eventbus"
)

const systemPrompt = "You are a software engineering assistant. Produce the complete deliverable " +
	"for the user's goal as a single Markdown document."

const continuePrompt = "Continue exactly where you stopped."

// ChatClient is the subset of the go-openai client the adapter uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI runs goals against an OpenAI-compatible chat completion endpoint. A
// completion cut off by the token limit is continued in a further iteration.
type OpenAI struct {
	client        ChatClient
	model         string
	maxIterations int
	outputDir     string
	events        *eventbus.EventBus
	profile       string
}

type Option func(*OpenAI)

// WithEvents publishes pipeline events to eb while goals run.
func WithEvents(eb *eventbus.EventBus) Option {
	return func(e *OpenAI) {
		e.events = eb
	}
}

// WithProfile selects a profile other than the configured active one.
func WithProfile(name string) Option {
	return func(e *OpenAI) {
		e.profile = name
	}
}

// WithClient replaces the HTTP client built from the profile.
func WithClient(c ChatClient) Option {
	return func(e *OpenAI) {
		e.client = c
	}
}

// NewOpenAI builds the adapter from the configuration file at configPath.
func NewOpenAI(configPath string, opts ...Option) (*OpenAI, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine config: %w", err)
	}

	e := &OpenAI{
		maxIterations: max(cfg.Engine.MaxIterations, 1),
		outputDir:     cfg.Engine.OutputDir,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.profile != "" {
		if err := cfg.Use(e.profile); err != nil {
			return nil, err
		}
	}
	e.model = cfg.GetModel()

	if e.client == nil {
		if !cfg.IsValid() {
			return nil, fmt.Errorf("profile '%s' has no API key (run 'agentic profile add'): %w", cfg.ActiveProfile, ErrNotConfigured)
		}
		clientConfig := openai.DefaultConfig(cfg.GetAPIKey())
		if cfg.GetBaseURL() != "" {
			clientConfig.BaseURL = cfg.GetBaseURL()
		}
		e.client = openai.NewClientWithConfig(clientConfig)
	}
	return e, nil
}

func (e *OpenAI) emit(ev eventbus.Event) {
	if e.events != nil {
		_ = e.events.Publish(ev)
	}
}

func (e *OpenAI) step(actor, name, detail, status string) {
	e.emit(eventbus.PipelineEvent{Actor: actor, Name: name, Detail: detail, Status: status})
}

// Run drives completions until the model finishes or the iteration budget is
// spent. Transport errors are returned; an unfinished goal is a failure Result.
func (e *OpenAI) Run(ctx context.Context, goal string) (Result, error) {
	res := Result{Status: StatusFailure, Goal: goal}
	e.step("Planner", "goal received", goal, "info")

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: goal},
	}

	var parts []string
	finished := false
	for i := 1; i <= e.maxIterations && !finished; i++ {
		e.emit(eventbus.IterationEvent{N: i, Total: e.maxIterations})
		e.step("Developer", "requesting completion", e.model, "info")

		resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    e.model,
			Messages: messages,
		})
		res.Iterations = i
		if err != nil {
			e.step("Developer", "completion failed", err.Error(), "fail")
			return res, fmt.Errorf("iteration %d: chat completion: %w", i, err)
		}
		if len(resp.Choices) == 0 {
			e.step("Reviewer", "empty response", "no choices returned", "fail")
			return res, nil
		}

		choice := resp.Choices[0]
		parts = append(parts, choice.Message.Content)
		e.step("Developer", "completion received", fmt.Sprintf("%d tokens", resp.Usage.TotalTokens), "ok")

		if choice.FinishReason == openai.FinishReasonLength {
			e.step("Reviewer", "output truncated", "requesting continuation", "warn")
			messages = append(messages, choice.Message, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: continuePrompt,
			})
			continue
		}
		finished = true
	}

	if !finished {
		e.step("Reviewer", "budget exhausted", fmt.Sprintf("%d iterations", e.maxIterations), "fail")
		return res, nil
	}

	path, err := e.writeArtifact(goal, strings.Join(parts, ""))
	if err != nil {
		e.step("RepoManager", "write failed", err.Error(), "fail")
		return res, err
	}
	e.step("RepoManager", "artifact written", path, "ok")

	res.Status = StatusSuccess
	res.OutputFile = path
	return res, nil
}

func (e *OpenAI) writeArtifact(goal, content string) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", slug(goal), uuid.NewString()[:8])
	path := filepath.Join(e.outputDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

// slug reduces goal text to a short lowercase file name stem.
func slug(goal string) string {
	words := strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	s := strings.Join(words, "-")
	if r := []rune(s); len(r) > 40 {
		s = strings.TrimRight(string(r[:40]), "-")
	}
	if s == "" {
		return "goal"
	}
	return s
}
