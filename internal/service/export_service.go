package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/rs/zerolog"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)

// Resources that can be imported and exported
const (
	ResourceArticles = "articles"
	ResourceMembers  = "members"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams every article, oldest first, so the output can be
// imported back in order.
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting articles export")
	count, err := stream(w, ResourceArticles, format, func(fn func(*models.Article) error) error {
		return s.repos.Article.StreamAll(ctx, fn)
	})
	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

// StreamMembers streams every member, oldest first
func (s *exportService) StreamMembers(ctx context.Context, w http.ResponseWriter, format string) error {
	s.log.Info().Str("format", format).Msg("Starting members export")
	count, err := stream(w, ResourceMembers, format, func(fn func(*models.Member) error) error {
		return s.repos.Member.StreamAll(ctx, fn)
	})
	s.log.Info().Int("count", count).Msg("Members export completed")
	return err
}

// stream writes the rows produced by each as NDJSON (one object per line,
// flushed every 100 rows) or as a single JSON array.
func stream[T any](w http.ResponseWriter, resource, format string, each func(func(T) error) error) (int, error) {
	if format != FormatNDJSON && format != FormatJSON {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if format == FormatNDJSON {
		w.Header().Set("Content-Type", "application/x-ndjson")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+resource+"."+format)

	flusher, _ := w.(http.Flusher)
	count := 0

	if format == FormatJSON {
		w.Write([]byte("["))
	}
	err := each(func(row T) error {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if format == FormatJSON && count > 0 {
			w.Write([]byte(","))
		}
		w.Write(data)
		if format == FormatNDJSON {
			w.Write([]byte("\n"))
		}
		count++

		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if format == FormatJSON {
		w.Write([]byte("]"))
	}
	return count, err
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case ResourceArticles:
		return s.repos.Article.Count(ctx)
	case ResourceMembers:
		return s.repos.Member.Count(ctx)
	case "users":
		return s.repos.User.Count(ctx)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
}
