package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/validation"
	"github.com/rs/zerolog"
)

// maxLineSize bounds a single NDJSON record
const maxLineSize = 1024 * 1024

// importService is the concrete implementation of ImportService
type importService struct {
	repos     *repository.Repositories
	batchSize int
	log       zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, batchSize int, log zerolog.Logger) *importService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &importService{
		repos:     repos,
		batchSize: batchSize,
		log:       log.With().Str("service", "import").Logger(),
	}
}

// Import reads NDJSON records of resource from r. Every line is validated;
// valid rows are inserted in batches and invalid ones are reported by line.
func (s *importService) Import(ctx context.Context, resource string, r io.Reader) (*models.ImportReport, error) {
	startTime := time.Now()
	report := &models.ImportReport{Resource: resource}

	s.log.Info().Str("resource", resource).Msg("Starting import processing")

	var err error
	switch resource {
	case ResourceArticles:
		err = s.importArticles(ctx, r, report)
	case ResourceMembers:
		err = s.importMembers(ctx, r, report)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}

	report.DurationMs = time.Since(startTime).Milliseconds()

	// Calculate error rate for observability
	var errorRate float64
	if report.Total > 0 {
		errorRate = float64(report.Failed) / float64(report.Total) * 100
	}

	if err != nil {
		s.log.Error().Err(err).Str("resource", resource).Msg("Import failed")
		return report, err
	}

	s.log.Info().
		Str("resource", resource).
		Int("total", report.Total).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Float64("error_rate_pct", errorRate).
		Int64("duration_ms", report.DurationMs).
		Msg("Import completed")
	return report, nil
}

// eachLine calls fn for every non-blank line with its 1-based number and
// checks for cancellation every 1000 lines.
func eachLine(ctx context.Context, r io.Reader, fn func(lineNum int, line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum%1000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func addLineErrors(report *models.ImportReport, lineNum int, errs []validation.ValidationError) {
	report.Failed++
	for _, e := range errs {
		report.Errors = append(report.Errors, models.LineError{
			Line:    lineNum,
			Field:   e.Field,
			Message: e.Message,
			Value:   e.Value,
		})
	}
}

func jsonLineError(report *models.ImportReport, lineNum int, err error) {
	report.Failed++
	report.Errors = append(report.Errors, models.LineError{
		Line:    lineNum,
		Field:   "json",
		Message: fmt.Sprintf("invalid JSON: %v", err),
	})
}

// importArticles processes articles NDJSON
func (s *importService) importArticles(ctx context.Context, r io.Reader, report *models.ImportReport) error {
	validator := validation.NewValidator()
	var batch []*models.Article

	flush := func() {
		if len(batch) == 0 {
			return
		}
		inserted, err := s.repos.Article.BatchInsert(ctx, batch)
		if err != nil {
			s.log.Error().Err(err).Int("batch_size", len(batch)).Msg("Batch insert failed")
			report.Failed += len(batch)
		} else {
			report.Successful += inserted
		}
		batch = batch[:0]
	}

	err := eachLine(ctx, r, func(lineNum int, line []byte) error {
		report.Total++

		var input models.ArticleInput
		if err := json.Unmarshal(line, &input); err != nil {
			jsonLineError(report, lineNum, err)
			return nil
		}

		if errs := validator.ValidateArticle(&input); len(errs) > 0 {
			addLineErrors(report, lineNum, errs)
			return nil
		}

		slug := input.Slug
		if slug == "" {
			slug = validation.Slugify(input.Title)
		}
		exists, err := s.repos.Article.SlugExists(ctx, slug)
		if err != nil {
			return err
		}
		if exists {
			addLineErrors(report, lineNum, []validation.ValidationError{{Field: "slug", Message: "slug already exists", Value: slug}})
			return nil
		}

		batch = append(batch, articleFromInput(&input, slug))
		validator.AddArticleSlug(slug)

		if len(batch) >= s.batchSize {
			flush()
		}
		return nil
	})
	if err != nil {
		return err
	}

	flush()
	return nil
}

// importMembers processes members NDJSON
func (s *importService) importMembers(ctx context.Context, r io.Reader, report *models.ImportReport) error {
	validator := validation.NewValidator()
	var batch []*models.Member

	flush := func() {
		if len(batch) == 0 {
			return
		}
		inserted, err := s.repos.Member.BatchInsert(ctx, batch)
		if err != nil {
			s.log.Error().Err(err).Int("batch_size", len(batch)).Msg("Batch insert failed")
			report.Failed += len(batch)
		} else {
			report.Successful += inserted
		}
		batch = batch[:0]
	}

	err := eachLine(ctx, r, func(lineNum int, line []byte) error {
		report.Total++

		var input models.MemberInput
		if err := json.Unmarshal(line, &input); err != nil {
			jsonLineError(report, lineNum, err)
			return nil
		}
		if errs := validator.ValidateMember(&input); len(errs) > 0 {
			addLineErrors(report, lineNum, errs)
			return nil
		}

		batch = append(batch, &models.Member{
			Name:        strings.TrimSpace(input.Name),
			Role:        strings.TrimSpace(input.Role),
			PhotoURL:    input.PhotoURL,
			Description: input.Description,
			SocialURL:   input.SocialURL,
			CreatedAt:   time.Now(),
		})
		if len(batch) >= s.batchSize {
			flush()
		}
		return nil
	})
	if err != nil {
		return err
	}

	flush()
	return nil
}

func articleFromInput(input *models.ArticleInput, slug string) *models.Article {
	now := time.Now()
	article := &models.Article{
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Category:    input.Category,
		Excerpt:     input.Excerpt,
		Content:     input.Content,
		ImageURL:    input.ImageURL,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, input.PublishedAt); err == nil {
			article.PublishedAt = t
			article.CreatedAt = t
		}
	}
	return article
}
