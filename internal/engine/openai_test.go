package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/agentic/internal/eventbus"
)

type fakeClient struct {
	replies []openai.ChatCompletionResponse
	err     error
	calls   []openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	resp := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return resp, nil
}

func reply(content string, reason openai.FinishReason) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			FinishReason: reason,
		}},
		Usage: openai.Usage{TotalTokens: 12},
	}
}

// writeConfig writes a profile whose output directory lives under the test's
// temp dir and returns the config path and that directory.
func writeConfig(t *testing.T, apiKey, baseURL string, iterations int) (string, string) {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "output")
	doc := map[string]any{
		"active_profile": "default",
		"profiles": map[string]any{
			"default": map[string]any{"api_key": apiKey, "base_url": baseURL, "model": "test-model"},
		},
		"engine": map[string]any{"max_iterations": iterations, "output_dir": out},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, out
}

func drain(eb *eventbus.EventBus) []eventbus.Event {
	eb.Close()
	var got []eventbus.Event
	for e := range eb.Events() {
		got = append(got, e)
	}
	return got
}

func TestRun_SingleIterationWritesArtifact(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path, out := writeConfig(t, "", "", 3)
	client := &fakeClient{replies: []openai.ChatCompletionResponse{reply("# Plan\n", openai.FinishReasonStop)}}
	eb := eventbus.NewEventBus(32)
	e, err := NewOpenAI(path, WithClient(client), WithEvents(eb))
	require.NoError(t, err)

	// --- Act ---
	res, err := e.Run(context.Background(), "Build a TODO app!")

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, res.Succeeded())
	n, known := res.IterationCount()
	require.True(t, known)
	require.Equal(t, 1, n)
	require.Equal(t, out, filepath.Dir(res.OutputRef()))
	require.Regexp(t, `^build-a-todo-app-[0-9a-f]{8}\.md$`, filepath.Base(res.OutputRef()))

	data, err := os.ReadFile(res.OutputRef())
	require.NoError(t, err)
	require.Equal(t, "# Plan\n", string(data))

	require.Len(t, client.calls, 1)
	require.Equal(t, "test-model", client.calls[0].Model)

	events := drain(eb)
	require.Contains(t, events, eventbus.Event(eventbus.IterationEvent{N: 1, Total: 3}))
	last := events[len(events)-1].(eventbus.PipelineEvent)
	require.Equal(t, "RepoManager", last.Actor)
	require.Equal(t, "ok", last.Status)
}

func TestRun_ContinuesTruncatedOutput(t *testing.T) {
	t.Parallel()

	path, _ := writeConfig(t, "", "", 3)
	client := &fakeClient{replies: []openai.ChatCompletionResponse{
		reply("part one, ", openai.FinishReasonLength),
		reply("part two", openai.FinishReasonStop),
	}}
	e, err := NewOpenAI(path, WithClient(client))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), "long goal")

	require.NoError(t, err)
	require.True(t, res.Succeeded())
	require.Equal(t, 2, res.Iterations)
	data, err := os.ReadFile(res.OutputFile)
	require.NoError(t, err)
	require.Equal(t, "part one, part two", string(data))

	// The second request carries the first answer and a continuation prompt.
	require.Len(t, client.calls[1].Messages, 4)
	require.Equal(t, continuePrompt, client.calls[1].Messages[3].Content)
}

func TestRun_BudgetExhaustedIsFailure(t *testing.T) {
	t.Parallel()

	path, out := writeConfig(t, "", "", 2)
	client := &fakeClient{replies: []openai.ChatCompletionResponse{reply("more", openai.FinishReasonLength)}}
	e, err := NewOpenAI(path, WithClient(client))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), "endless")

	require.NoError(t, err)
	require.False(t, res.Succeeded())
	require.Equal(t, 2, res.Iterations)
	require.Empty(t, res.OutputRef())
	require.NoDirExists(t, out)
}

func TestRun_ClientErrorIsReturned(t *testing.T) {
	t.Parallel()

	path, _ := writeConfig(t, "", "", 3)
	boom := errors.New("connection refused")
	e, err := NewOpenAI(path, WithClient(&fakeClient{err: boom}))
	require.NoError(t, err)

	res, err := e.Run(context.Background(), "goal")

	require.ErrorIs(t, err, boom)
	require.False(t, res.Succeeded())
	require.Equal(t, 1, res.Iterations)
}

func TestNewOpenAI_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	path, _ := writeConfig(t, "", "", 3)

	_, err := NewOpenAI(path)

	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestRun_AgainstHTTPEndpoint(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply("done", openai.FinishReasonStop))
	}))
	t.Cleanup(srv.Close)

	path, _ := writeConfig(t, "sk-test", srv.URL+"/v1", 1)
	e, err := NewOpenAI(path)
	require.NoError(t, err)

	// --- Act ---
	res, err := e.Run(context.Background(), "ping")

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, res.Succeeded())
}

func TestSlug(t *testing.T) {
	t.Parallel()

	require.Equal(t, "goal", slug("!!!"))
	require.Equal(t, "add-oauth-2-login", slug("  Add OAuth 2 login. "))
	require.LessOrEqual(t, len(slug("a very long goal description that goes well beyond forty characters")), 40)
}

func TestResult_UnknownIterations(t *testing.T) {
	t.Parallel()

	_, known := Result{Iterations: -1}.IterationCount()
	require.False(t, known)
}

func TestNewOpenAI_UnknownProfile(t *testing.T) {
	t.Parallel()

	path, _ := writeConfig(t, "sk-test", "", 1)

	_, err := NewOpenAI(path, WithProfile("missing"))

	require.ErrorContains(t, err, "profile 'missing' does not exist")
}
