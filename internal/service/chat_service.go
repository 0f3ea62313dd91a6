package service

import (
	"context"
	"fmt"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/rs/zerolog"
)

type chatService struct {
	repos     *repository.Repositories
	assistant *chat.Assistant
	profile   *config.SiteProfile
	recent    int
	log       zerolog.Logger
}

func newChatService(repos *repository.Repositories, assistant *chat.Assistant, profile *config.SiteProfile, recent int, log zerolog.Logger) *chatService {
	if recent <= 0 {
		recent = 10
	}
	return &chatService{
		repos:     repos,
		assistant: assistant,
		profile:   profile,
		recent:    recent,
		log:       log.With().Str("service", "chat").Logger(),
	}
}

// Reply answers the last visitor message. The system prompt is rebuilt on
// every call from the current members and most recent articles.
func (s *chatService) Reply(ctx context.Context, messages []models.ChatMessage) (string, error) {
	conversation, err := chat.ValidateConversation(messages)
	if err != nil {
		return "", err
	}

	members, err := s.repos.Member.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load members: %w", err)
	}
	articles, err := s.repos.Article.Latest(ctx, s.recent)
	if err != nil {
		return "", fmt.Errorf("failed to load articles: %w", err)
	}

	prompt, err := chat.BuildPrompt(s.profile, members, articles)
	if err != nil {
		return "", err
	}

	reply, err := s.assistant.Ask(ctx, prompt, conversation)
	if err != nil {
		s.log.Error().Err(err).Int("turns", len(conversation)).Msg("Chat completion failed")
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}
	return reply, nil
}
