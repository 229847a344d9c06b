// ABOUTME: Chat client for a local Ollama server over its OpenAI-compatible API
// ABOUTME: Bounded timeouts per call, retries with exponential backoff
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/snessa7/god-cli/internal/config"
	"github.com/snessa7/god-cli/internal/util"
)

// ErrEmptyReply is returned when the server answers without any choices.
var ErrEmptyReply = errors.New("model returned no reply")

// ClientConfig holds configuration for the Ollama client
type ClientConfig struct {
	BaseURL      string
	Temperature  float32
	MaxTokens    int
	ChatTimeout  time.Duration
	ProbeTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// ConfigFrom copies the client settings out of the app config.
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		BaseURL:      cfg.OllamaURL,
		Temperature:  float32(cfg.Temperature),
		MaxTokens:    cfg.MaxTokens,
		ChatTimeout:  cfg.ChatTimeout,
		ProbeTimeout: cfg.ProbeTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
	}
}

// OllamaClient wraps the OpenAI-compatible client with retry logic
type OllamaClient struct {
	client *openai.Client
	cfg    ClientConfig
}

// NewOllamaClient creates a client for the server at cfg.BaseURL.
func NewOllamaClient(cfg *ClientConfig) (*OllamaClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("ollama url is required")
	}

	// Ollama ignores the key but the client requires one.
	oc := openai.DefaultConfig("ollama")
	oc.BaseURL = base + "/v1"

	return &OllamaClient{
		client: openai.NewClientWithConfig(oc),
		cfg:    *cfg,
	}, nil
}

// Chat sends one system + user exchange and returns the reply and total tokens.
func (c *OllamaClient) Chat(ctx context.Context, model, system, message string) (string, int, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Sleep(ctx, util.CalculateBackoff(c.cfg.RetryDelay, attempt)); err != nil {
				return "", 0, err
			}
			log.Debug("retrying chat", "model", model, "attempt", attempt+1, "err", lastErr)
		}

		reply, tokens, err := c.chatOnce(ctx, req)
		if err == nil {
			return reply, tokens, nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
		if ctx.Err() != nil {
			break
		}
	}

	return "", 0, fmt.Errorf("chat failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

func (c *OllamaClient) chatOnce(ctx context.Context, req openai.ChatCompletionRequest) (string, int, error) {
	ctx, cancel := c.withTimeout(ctx, c.cfg.ChatTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", 0, err
	}
	if len(resp.Choices) == 0 {
		return "", 0, ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, resp.Usage.TotalTokens, nil
}

// ListModels returns the model names the server has installed.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()

	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// Probe checks the server is reachable within the probe timeout.
func (c *OllamaClient) Probe(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

func (c *OllamaClient) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
