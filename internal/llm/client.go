// Package llm invokes text and vision models over the Anthropic messages
// API or an OpenRouter-style gateway.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dcunha/narravox/internal/errdefs"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	defaultGatewayURL   = "https://openrouter.ai/api/v1/chat/completions"
	anthropicVersion    = "2023-06-01"

	// maxOutputTokens bounds every text rewriting response.
	maxOutputTokens = 4000
	// invokeTemperature is fixed for narrative rewriting.
	invokeTemperature = 0.7
)

// Client calls chat and vision models. It is stateless per call and safe
// for concurrent use; retries are the caller's decision, never made here.
type Client struct {
	anthropicKey string
	gatewayKey   string
	anthropicURL string
	gatewayURL   string
	httpClient   *http.Client
	stats        *Stats
}

func NewClient(anthropicKey, gatewayKey string) *Client {
	return &Client{
		anthropicKey: anthropicKey,
		gatewayKey:   gatewayKey,
		anthropicURL: defaultAnthropicURL,
		gatewayURL:   defaultGatewayURL,
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
}

// StatsSnapshot reports the rolling latency window of recent model calls.
func (c *Client) StatsSnapshot() StatsSnapshot {
	return c.stats.Snapshot()
}

// Invoke sends one chunk with the task prompt to the target model and
// returns the generated text. Transport and payload failures propagate to
// the caller untouched.
func (c *Client) Invoke(ctx context.Context, target Target, prompt, chunk string) (string, error) {
	combined := prompt + "\n\n" + chunk

	start := time.Now()
	var text string
	var err error
	switch target.Provider {
	case ProviderGateway:
		text, err = c.invokeGateway(ctx, target.Model, combined)
	default:
		text, err = c.invokeNative(ctx, target.Model, combined)
	}
	if err != nil {
		return "", err
	}
	c.stats.Record(time.Since(start).Milliseconds())
	return text, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string for chat, []anthropicBlock for vision
}

type anthropicThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Thinking    *anthropicThinking `json:"thinking,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		Thinking string `json:"thinking"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) invokeNative(ctx context.Context, model, content string) (string, error) {
	resp, err := c.doAnthropic(ctx, anthropicRequest{
		Model:       model,
		MaxTokens:   maxOutputTokens,
		Temperature: invokeTemperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: content},
		},
	})
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// doAnthropic issues one messages-API request and decodes the response.
func (c *Client) doAnthropic(ctx context.Context, req anthropicRequest) (*anthropicResponse, error) {
	if c.anthropicKey == "" {
		return nil, errdefs.Validationf("anthropic api key is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.anthropicURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.anthropicKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errdefs.Upstream("anthropic", resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, errdefs.Upstream("anthropic", resp.StatusCode, apiResp.Error.Type+": "+apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return nil, errdefs.Upstream("anthropic", resp.StatusCode, "empty content in response")
	}
	return &apiResp, nil
}

type gatewayRequest struct {
	Model            string           `json:"model"`
	Messages         []gatewayMessage `json:"messages"`
	IncludeReasoning bool             `json:"include_reasoning"`
}

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) invokeGateway(ctx context.Context, model, content string) (string, error) {
	if c.gatewayKey == "" {
		return "", errdefs.Validationf("gateway api key is not configured")
	}

	body, err := json.Marshal(gatewayRequest{
		Model: model,
		Messages: []gatewayMessage{
			{Role: "user", Content: content},
		},
		IncludeReasoning: true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.gatewayKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errdefs.Upstream("gateway", resp.StatusCode, string(respBody))
	}

	var apiResp gatewayResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", errdefs.Upstream("gateway", resp.StatusCode, string(respBody))
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", errdefs.Upstream("gateway", resp.StatusCode, string(respBody))
	}
	return apiResp.Choices[0].Message.Content, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
