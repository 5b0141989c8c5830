package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// Config holds LLM client configuration. Exactly one of BaseURL or
// SocketPath is used; SocketPath wins when both are set.
type Config struct {
	BaseURL    string // OpenAI-compatible endpoint, e.g. "http://localhost:12434/v1"
	SocketPath string // Unix socket path for Docker Model Runner
	Model      string // Model name (e.g., "ai/gemma3")
}

// Client wraps an OpenAI-compatible chat completions API. It is the opaque
// capability behind clause tagging and summary generation; each call is a
// single attempt with no retry.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
}

// New creates a new LLM client.
func New(config Config) (*Client, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	if config.SocketPath != "" {
		transport := &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", config.SocketPath)
			},
		}
		return &Client{
			httpClient: &http.Client{Transport: transport},
			endpoint:   "http://localhost/exp/vDD4.40/engines/llama.cpp/v1/chat/completions",
			model:      config.Model,
		}, nil
	}

	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL or socket path is required")
	}
	return &Client{
		httpClient: &http.Client{},
		endpoint:   strings.TrimSuffix(config.BaseURL, "/") + "/chat/completions",
		model:      config.Model,
	}, nil
}

// chatRequest is the request payload for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a system instruction and user content to the model and
// returns the free-form response text.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
