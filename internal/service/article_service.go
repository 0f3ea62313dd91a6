package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/content"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/validation"
	"github.com/rs/zerolog"
)

// RelatedLimit is the number of related articles shown under an article.
const RelatedLimit = 3

// enqueuer schedules stored objects for removal.
type enqueuer interface {
	Enqueue(ctx context.Context, urls []string) (*models.Job, error)
}

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo      repository.ArticleRepository
	cleanup   enqueuer
	extractor *content.Extractor
	pageSize  int
	log       zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(repo repository.ArticleRepository, cleanup enqueuer, extractor *content.Extractor, pageSize int, log zerolog.Logger) *articleService {
	if pageSize <= 0 {
		pageSize = 9
	}
	if extractor == nil {
		extractor = content.DefaultExtractor
	}
	return &articleService{
		repo:      repo,
		cleanup:   cleanup,
		extractor: extractor,
		pageSize:  pageSize,
		log:       log.With().Str("service", "article").Logger(),
	}
}

// List returns one page of articles, newest first. Pages start at 1.
func (s *articleService) List(ctx context.Context, page int) (*models.ArticlePage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	totalPages := (total + s.pageSize - 1) / s.pageSize

	result := &models.ArticlePage{
		Articles:   []*models.Article{},
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
	if page > totalPages {
		return result, nil
	}

	articles, err := s.repo.List(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	if articles != nil {
		result.Articles = articles
	}
	return result, nil
}

// Latest returns the n newest articles
func (s *articleService) Latest(ctx context.Context, n int) ([]*models.Article, error) {
	return s.repo.Latest(ctx, n)
}

func (s *articleService) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// Related returns up to RelatedLimit other articles of the same category
func (s *articleService) Related(ctx context.Context, article *models.Article) ([]*models.Article, error) {
	return s.repo.Related(ctx, article.Category, article.ID, RelatedLimit)
}

// GenerateSlug derives a kebab-case slug from a title
func (s *articleService) GenerateSlug(title string) string {
	return validation.Slugify(title)
}

// Create validates and stores a new article. PublishedAt defaults to now;
// an explicit publication date also becomes the creation date so imported
// posts sort where they belong.
func (s *articleService) Create(ctx context.Context, input *models.ArticleInput) (*models.Article, error) {
	if errs := validation.NewValidator().ValidateArticle(input); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	slug := input.Slug
	if slug == "" {
		slug = validation.Slugify(input.Title)
	}
	exists, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}

	article := articleFromInput(input, slug)
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.log.Info().Int64("article_id", article.ID).Str("slug", article.Slug).Msg("Article created")
	return article, nil
}

// Update replaces the editable fields of an article. Images that are no
// longer referenced are queued for removal from storage.
func (s *articleService) Update(ctx context.Context, id int64, input *models.ArticleInput) (*models.Article, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if errs := validation.NewValidator().ValidateArticle(input); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	slug := input.Slug
	if slug == "" {
		slug = validation.Slugify(input.Title)
	}
	if slug != existing.Slug {
		other, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slug)
		}
	}

	updated := *existing
	updated.Title = strings.TrimSpace(input.Title)
	updated.Slug = slug
	updated.Category = input.Category
	updated.Excerpt = input.Excerpt
	updated.Content = input.Content
	updated.ImageURL = input.ImageURL
	updated.UpdatedAt = time.Now()
	if input.PublishedAt != "" {
		updated.PublishedAt, _ = time.Parse(time.RFC3339, input.PublishedAt)
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	s.scheduleCleanup(ctx, id, unreferenced(articleImages(existing), articleImages(&updated)))
	s.log.Info().Int64("article_id", id).Str("slug", updated.Slug).Msg("Article updated")
	return &updated, nil
}

// Delete removes an article and queues its cover and inline images for
// removal from storage.
func (s *articleService) Delete(ctx context.Context, id int64) error {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}

	s.scheduleCleanup(ctx, id, articleImages(article))
	s.log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// Render turns the article body into safe HTML
func (s *articleService) Render(article *models.Article) template.HTML {
	return s.extractor.HTML(article.Content)
}

// Parse turns the article body into a document tree
func (s *articleService) Parse(article *models.Article) content.Document {
	return s.extractor.Parse(article.Content)
}

func (s *articleService) scheduleCleanup(ctx context.Context, id int64, urls []string) {
	if len(urls) == 0 || s.cleanup == nil {
		return
	}
	job, err := s.cleanup.Enqueue(ctx, urls)
	if err != nil {
		// The row change already happened; orphaned objects are harmless.
		s.log.Error().Err(err).Int64("article_id", id).Strs("urls", urls).Msg("Failed to queue image cleanup")
		return
	}
	if job != nil {
		s.log.Debug().Str("job_id", job.ID).Int("urls", len(job.URLs)).Msg("Image cleanup queued")
	}
}

// articleImages lists the cover and every inline image of an article
func articleImages(a *models.Article) []string {
	urls := content.ImageURLs(a.Content)
	if a.ImageURL != "" {
		urls = append([]string{a.ImageURL}, urls...)
	}
	return urls
}

// unreferenced returns the entries of before that are missing from after
func unreferenced(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, u := range after {
		keep[u] = true
	}
	var out []string
	for _, u := range before {
		if !keep[u] {
			out = append(out, u)
		}
	}
	return out
}
