package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  uint
	Temperature float64
}

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	http *resty.Client
	cfg  Config
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIClient{http: client, cfg: cfg}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("llm: api key is not configured")
	}

	body := chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
	}

	var out chatCompletionResponse
	err := retry.Do(
		func() error {
			resp, err := c.http.R().
				SetContext(ctx).
				SetBody(body).
				SetResult(&out).
				SetError(&out).
				Post("/chat/completions")
			if err != nil {
				return err
			}
			if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
				return fmt.Errorf("llm: upstream returned %d", resp.StatusCode())
			}
			if resp.IsError() {
				msg := resp.Status()
				if out.Error != nil {
					msg = out.Error.Message
				}
				return retry.Unrecoverable(fmt.Errorf("llm: request rejected: %s", msg))
			}
			return nil
		},
		retry.Attempts(c.cfg.MaxRetries),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion")
	}
	return out.Choices[0].Message.Content, nil
}
