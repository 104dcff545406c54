package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ayushitiwary/CallSense/internal/config"
	"github.com/ayushitiwary/CallSense/internal/logger"
)

// Completer is the boundary to the text-generation provider. The pipeline
// agents only ever see this interface, so tests can count and script calls.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client talks to an OpenAI-style chat completions gateway.
type Client struct {
	gatewayURL  string
	apiKey      string
	model       string
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		gatewayURL:  cfg.ChatGatewayURL,
		apiKey:      cfg.APIKey,
		model:       cfg.ChatModel,
		temperature: cfg.Temperature,
		timeout:     cfg.HTTPTimeout,
		httpClient:  &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one prompt and returns the assistant message content.
// Transient failures (network, 5xx) are retried with exponential backoff;
// 4xx responses are permanent.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.New().WithComponent("llm")

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var content string
	var lastErr error

	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("llm request failed")
			return err
		}
		defer resp.Body.Close()

		raw, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: status=%d body=%s", resp.StatusCode, raw)
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("llm client error: status=%d body=%s", resp.StatusCode, raw)
			return backoff.Permanent(lastErr)
		}

		var parsed chatResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			lastErr = fmt.Errorf("decode llm response: %v body=%s", err, raw)
			return lastErr
		}
		if parsed.Error != nil {
			lastErr = fmt.Errorf("llm gateway error: %s", parsed.Error.Message)
			return lastErr
		}
		if len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("llm response has no choices: %s", raw)
			return lastErr
		}
		content = parsed.Choices[0].Message.Content
		lastErr = nil
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 45 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("llm completion failed: %w", lastErr)
	}
	return content, nil
}
