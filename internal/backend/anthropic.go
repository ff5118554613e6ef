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

const anthropicVersion = "2023-06-01"

// AnthropicBackend talks to the Anthropic messages API.
type AnthropicBackend struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAnthropicBackend creates a hosted backend. An empty baseURL defaults to
// the public API.
func NewAnthropicBackend(apiKey, baseURL string, timeout time.Duration) *AnthropicBackend {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AnthropicBackend{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type anthropicRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature float64        `json:"temperature"`
	System      string         `json:"system,omitempty"`
	Messages    []core.Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a messages request to the Anthropic API. System messages are
// lifted out of the conversation into the top-level system field, as the API
// requires.
func (b *AnthropicBackend) Complete(ctx context.Context, model string, messages []core.Message, temperature float64, maxTokens int) (Result, error) {
	if b.apiKey == "" {
		return Result{}, fmt.Errorf("anthropic api key is not configured")
	}

	var system string
	conversation := make([]core.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == core.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		conversation = append(conversation, msg)
	}

	payload, err := json.Marshal(anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      system,
		Messages:    conversation,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return Result{}, fmt.Errorf("anthropic returned %s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return Result{}, fmt.Errorf("anthropic returned status %d: %s", resp.StatusCode, string(body))
	}

	var content string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	result := Result{
		Content:   content,
		LatencyMS: latency,
	}
	if parsed.Usage != nil {
		result.InputTokens = parsed.Usage.InputTokens
		result.OutputTokens = parsed.Usage.OutputTokens
	}

	return result, nil
}
