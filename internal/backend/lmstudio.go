package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ssmithers/aidebate/internal/core"
)

// LMStudioBackend talks to a local LM Studio server through its
// OpenAI-compatible chat completions endpoint.
type LMStudioBackend struct {
	endpoint string
	client   *http.Client
}

// NewLMStudioBackend creates a backend for the given base endpoint,
// e.g. "http://localhost:5555".
func NewLMStudioBackend(endpoint string, timeout time.Duration) *LMStudioBackend {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LMStudioBackend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string         `json:"model"`
	Messages    []core.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends a chat completion request to LM Studio.
func (b *LMStudioBackend) Complete(ctx context.Context, model string, messages []core.Message, temperature float64, maxTokens int) (Result, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("lm studio request failed: %w", err)
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("lm studio returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, fmt.Errorf("lm studio returned no choices")
	}

	result := Result{
		Content:   parsed.Choices[0].Message.Content,
		LatencyMS: latency,
	}
	if parsed.Usage != nil {
		result.InputTokens = parsed.Usage.PromptTokens
		result.OutputTokens = parsed.Usage.CompletionTokens
	}

	return result, nil
}
