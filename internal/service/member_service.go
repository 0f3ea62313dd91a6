package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/validation"
	"github.com/rs/zerolog"
)

type memberService struct {
	repo    repository.MemberRepository
	cleanup enqueuer
	log     zerolog.Logger
}

func newMemberService(repo repository.MemberRepository, cleanup enqueuer, log zerolog.Logger) *memberService {
	return &memberService{
		repo:    repo,
		cleanup: cleanup,
		log:     log.With().Str("service", "member").Logger(),
	}
}

func (s *memberService) List(ctx context.Context) ([]*models.Member, error) {
	return s.repo.List(ctx)
}

func (s *memberService) Get(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *memberService) Create(ctx context.Context, input *models.MemberInput) (*models.Member, error) {
	if errs := validation.NewValidator().ValidateMember(input); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	member := &models.Member{
		Name:        strings.TrimSpace(input.Name),
		Role:        strings.TrimSpace(input.Role),
		PhotoURL:    input.PhotoURL,
		Description: input.Description,
		SocialURL:   input.SocialURL,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.log.Info().Int64("member_id", member.ID).Str("name", member.Name).Msg("Member created")
	return member, nil
}

// Update replaces a member's fields. A replaced photo is queued for removal.
func (s *memberService) Update(ctx context.Context, id int64, input *models.MemberInput) (*models.Member, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := validation.NewValidator().ValidateMember(input); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Role = strings.TrimSpace(input.Role)
	updated.PhotoURL = input.PhotoURL
	updated.Description = input.Description
	updated.SocialURL = input.SocialURL

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	if existing.PhotoURL != "" && existing.PhotoURL != updated.PhotoURL {
		s.scheduleCleanup(ctx, id, existing.PhotoURL)
	}
	return &updated, nil
}

// Delete removes a member and queues the photo for removal
func (s *memberService) Delete(ctx context.Context, id int64) error {
	member, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if member.PhotoURL != "" {
		s.scheduleCleanup(ctx, id, member.PhotoURL)
	}
	s.log.Info().Int64("member_id", id).Msg("Member deleted")
	return nil
}

func (s *memberService) scheduleCleanup(ctx context.Context, id int64, url string) {
	if s.cleanup == nil {
		return
	}
	if _, err := s.cleanup.Enqueue(ctx, []string{url}); err != nil {
		s.log.Error().Err(err).Int64("member_id", id).Str("url", url).Msg("Failed to queue photo cleanup")
	}
}
