// Package generation is a thin wrapper over the external chat-completion API.
// The wire format is the usual one: a model, a message list, and sampling
// parameters in; a choice list or an error object out. Requests can be routed
// through a forwarding proxy identified by a shared secret header.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.2
	requestTimeout     = 120 * time.Second
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	proxySecret string
	httpClient  *http.Client
}

// NewClient builds a generation client. proxySecret may be empty; when set it
// is attached as the X-Proxy-Secret header expected by the forwarding proxy.
func NewClient(baseURL, apiKey, model, proxySecret string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		proxySecret: proxySecret,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
}

// Complete sends a single-user-message completion request and returns the
// generated text. No retries are attempted; upstream errors come back with
// the provider's message attached for diagnostics.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.proxySecret != "" {
		req.Header.Set("X-Proxy-Secret", c.proxySecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generation API: %w", err)
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding generation response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("generation API: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generation API: empty choice list")
	}

	return parsed.Choices[0].Message.Content, nil
}
