// Package completion answers free-form prompts with a language model.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	requestTimeout = 120 * time.Second
	maxErrorBody   = 500
)

var (
	ErrForbidden     = errors.New("prompt contains a forbidden phrase")
	ErrEmptyResponse = errors.New("empty response from model")
)

// APIError captures non-200 responses to allow inspection of the status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "... (truncated)"
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, body)
}

type Client struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	forbidden   []string
}

// NewClient builds a completion client. forbidden phrases are matched
// case-insensitively as substrings of the prompt.
func NewClient(apiKey, model string, maxTokens int, temperature float64, forbidden []string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	lowered := make([]string, 0, len(forbidden))
	for _, p := range forbidden {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}

	return &Client{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		forbidden:   lowered,
	}
}

// Allowed reports whether prompt contains none of the forbidden phrases.
func (c *Client) Allowed(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, phrase := range c.forbidden {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}

// Complete sends prompt to the model and returns the cleaned reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Allowed(prompt) {
		return "", ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &APIError{StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON()}
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	log.Printf("Model %s success (took %v, input_tokens=%d, output_tokens=%d)",
		c.model, time.Since(start), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	content := Clean(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// Clean trims surrounding whitespace and collapses blank lines between
// paragraphs into single newlines.
func Clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n\n", "\n")
}
