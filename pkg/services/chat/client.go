// Package chat forwards conversation transcripts to an external
// OpenAI-compatible completions endpoint and returns the model's reply.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/stalkiq/dzera-sub000/pkg/models/api"
)

type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type completionRequest struct {
	Model    string            `json:"model"`
	Messages []api.ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message api.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the transcript to the completions endpoint. When scan
// context is provided it is prepended as a system message so the model can
// answer questions about the findings.
func (c *Client) Complete(ctx context.Context, messages []api.ChatMessage, scanContext string) (string, error) {
	logger := zerolog.Ctx(ctx)

	payload := completionRequest{Model: c.cfg.Model, Messages: messages}
	if scanContext != "" {
		payload.Messages = append([]api.ChatMessage{{
			Role: "system",
			Content: "You are a cloud cost assistant. Answer questions using the scan results below.\n\n" +
				scanContext,
		}}, messages...)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("chat completion request failed")
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close chat response body")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	// Check the status first: a proxy in front of the endpoint may answer
	// with a non-JSON error page.
	if resp.StatusCode != http.StatusOK {
		var completion completionResponse
		if err := json.Unmarshal(raw, &completion); err == nil && completion.Error != nil {
			return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, completion.Error.Message)
		}
		return "", fmt.Errorf("chat endpoint returned %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat endpoint returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
