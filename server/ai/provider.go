package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config holds the chat completion configuration.
type Config struct {
	APIKey      string
	ChatModel   string
	Temperature float32
	MaxTokens   int
	MaxRetries  int
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration. The low temperature and
// small token budget keep Joe-bot answers short and steady.
func DefaultConfig() *Config {
	return &Config{
		ChatModel:   "gpt-4o-mini",
		Temperature: 0.25,
		MaxTokens:   180,
		MaxRetries:  3,
		Timeout:     30 * time.Second,
	}
}

// Provider proxies chat completions to the hosted LLM API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new chat provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Provider{
		client: openai.NewClient(cfg.APIKey),
		config: cfg,
	}, nil
}

// Turn is one prior message of the conversation replayed to the model.
type Turn struct {
	Role    string // user or assistant
	Content string
}

// CompletionRequest is the full context of one chat call.
type CompletionRequest struct {
	System    string
	History   []Turn
	UserText  string
	ImageURLs []string // base64 data URLs for the vision API
}

// Complete performs a chat completion, retrying transient failures with
// exponential backoff.
func (p *Provider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})
	for _, turn := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.ImageURLs) > 0 {
		text := req.UserText
		if text == "" {
			text = "What do you see in these images?"
		}
		parts := []openai.ChatMessagePart{{
			Type: openai.ChatMessagePartTypeText,
			Text: text,
		}}
		for _, url := range req.ImageURLs {
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: url},
			})
		}
		user.MultiContent = parts
	} else {
		user.Content = req.UserText
	}
	messages = append(messages, user)

	var result string
	err := p.doWithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()

		resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       p.config.ChatModel,
			Temperature: p.config.Temperature,
			MaxTokens:   p.config.MaxTokens,
			Messages:    messages,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}
	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("chat request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
