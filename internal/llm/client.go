// Package llm talks to an OpenAI-compatible chat completions endpoint to
// pick recipes for a user's day.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Kerhoff/mizan/internal/models"
)

// ErrNotConfigured is returned when no endpoint was configured
var ErrNotConfigured = errors.New("llm client not configured")

// Client asks the suggestion model to pick recipes
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a Client. An empty url yields a client whose calls
// return ErrNotConfigured.
func NewClient(url, apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	url = strings.TrimRight(url, "/")
	if url == "" {
		return &Client{model: model}
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = url
	cfg.HTTPClient = &http.Client{Timeout: 20 * time.Second}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Configured reports whether the client has an endpoint
func (c *Client) Configured() bool {
	return c != nil && c.api != nil
}

// SuggestRequest describes what to ask the model for
type SuggestRequest struct {
	Goal       *models.Macros
	Candidates []string
	Count      int
}

// SuggestRecipes asks the model to choose up to req.Count names from
// req.Candidates. The returned names are whatever the model produced; the
// caller is responsible for matching them back to the catalog.
func (c *Client) SuggestRecipes(ctx context.Context, req SuggestRequest) ([]string, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a nutrition assistant. Answer only with a JSON array of recipe names."},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("llm api error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("llm request error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty llm response")
	}

	return parseNames(resp.Choices[0].Message.Content)
}

func buildPrompt(req SuggestRequest) string {
	var sb strings.Builder
	count := req.Count
	if count <= 0 {
		count = 5
	}
	fmt.Fprintf(&sb, "Pick up to %d recipes for today from this list:\n", count)
	for _, name := range req.Candidates {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	if g := req.Goal; g != nil {
		fmt.Fprintf(&sb, "\nDaily target: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat, %.0fg fiber.\n",
			g.Calories, g.Protein, g.Carbs, g.Fat, g.Fiber)
	}
	sb.WriteString("\nReturn a JSON array of the chosen names, exactly as written above.")
	return sb.String()
}

// parseNames extracts a JSON string array from content, tolerating
// markdown code fences and surrounding prose.
func parseNames(content string) ([]string, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("llm response has no JSON array: %s", preview([]byte(content)))
	}

	var names []string
	if err := json.Unmarshal([]byte(content[start:end+1]), &names); err != nil {
		return nil, fmt.Errorf("decode llm recipe names: %w", err)
	}

	cleaned := names[:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return cleaned, nil
}

func preview(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
