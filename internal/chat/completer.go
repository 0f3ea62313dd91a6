// Package chat answers visitor questions about the site with a hosted,
// OpenAI-compatible language model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/models"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// FallbackReply is returned when the model answers with an empty message.
const FallbackReply = "Maaf, terjadi kesalahan pada sistem."

// ErrNoAPIKey is returned by Complete when no API key is configured.
var ErrNoAPIKey = errors.New("chat API key is not configured")

// Completer produces one assistant message for a conversation.
type Completer interface {
	Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error)
}

// OpenAICompleter calls a chat completions endpoint through go-openai.
type OpenAICompleter struct {
	client      *openai.Client
	hasKey      bool
	temperature float32
	maxTokens   int
}

// NewOpenAICompleter builds a completer for cfg. An empty BaseURL keeps the
// library default.
func NewOpenAICompleter(cfg config.ChatConfig) *OpenAICompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientCfg),
		hasKey:      cfg.APIKey != "",
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends messages to model and returns the first choice's content.
func (c *OpenAICompleter) Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error) {
	if !c.hasKey {
		return "", ErrNoAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion with %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Assistant sends conversations to the primary model and retries once with
// the fallback model when the primary call fails.
type Assistant struct {
	completer Completer
	model     string
	fallback  string
	log       zerolog.Logger
}

// NewAssistant creates an Assistant. An empty fallback disables the retry.
func NewAssistant(completer Completer, model, fallback string, log zerolog.Logger) *Assistant {
	return &Assistant{
		completer: completer,
		model:     model,
		fallback:  fallback,
		log:       log.With().Str("component", "chat").Logger(),
	}
}

// Ask prepends the system prompt to the conversation and returns the reply.
// An empty completion becomes FallbackReply.
func (a *Assistant) Ask(ctx context.Context, system string, conversation []models.ChatMessage) (string, error) {
	messages := make([]models.ChatMessage, 0, len(conversation)+1)
	messages = append(messages, models.ChatMessage{Role: RoleSystem, Content: system})
	messages = append(messages, conversation...)

	reply, err := a.completer.Complete(ctx, a.model, messages)
	if err != nil && a.fallback != "" && a.fallback != a.model && !errors.Is(err, ErrNoAPIKey) {
		a.log.Warn().Err(err).Str("model", a.model).Str("fallback", a.fallback).Msg("Primary model failed, trying fallback")
		reply, err = a.completer.Complete(ctx, a.fallback, messages)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}
