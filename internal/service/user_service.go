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
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so a failed
// login takes as long as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type userService struct {
	repo repository.UserRepository
	log  zerolog.Logger
}

func newUserService(repo repository.UserRepository, log zerolog.Logger) *userService {
	return &userService{
		repo: repo,
		log:  log.With().Str("service", "user").Logger(),
	}
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create stores a new admin with a bcrypt hash of the password
func (s *userService) Create(ctx context.Context, input *models.UserInput) (*models.User, error) {
	if errs := validation.NewValidator().ValidateUser(input, true); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	email := strings.TrimSpace(input.Email)
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("User created")
	return user, nil
}

// Update changes name and email. The password is re-hashed only when a new
// one is given.
func (s *userService) Update(ctx context.Context, id int64, input *models.UserInput) (*models.User, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := validation.NewValidator().ValidateUser(input, false); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	email := strings.TrimSpace(input.Email)
	if !strings.EqualFold(email, existing.Email) {
		other, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Email = email
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &updated, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.log.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// Authenticate returns the user whose email and password match
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn().Str("email", user.Email).Msg("Failed login attempt")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
