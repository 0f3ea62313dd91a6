package service

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/content"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/storage"
	"github.com/amanah-profile-site/internal/validation"
	"github.com/rs/zerolog"
)

// Sentinel errors mapped to HTTP status codes by the handlers
var (
	ErrNotFound           = errors.New("not found")
	ErrSlugTaken          = errors.New("slug already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrChatUnavailable    = errors.New("chat assistant unavailable")
	ErrUnknownResource    = errors.New("unknown resource")
	ErrUnsupportedFormat  = errors.New("unsupported format")
)

// ValidationFailedError carries the field errors of a rejected input.
type ValidationFailedError struct {
	Errors []validation.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ArticleService defines the interface for blog articles
type ArticleService interface {
	List(ctx context.Context, page int) (*models.ArticlePage, error)
	Latest(ctx context.Context, n int) ([]*models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Related(ctx context.Context, article *models.Article) ([]*models.Article, error)
	Create(ctx context.Context, input *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, id int64, input *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
	Render(article *models.Article) template.HTML
	Parse(article *models.Article) content.Document
	GenerateSlug(title string) string
}

// MemberService defines the interface for team members
type MemberService interface {
	List(ctx context.Context) ([]*models.Member, error)
	Get(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, input *models.MemberInput) (*models.Member, error)
	Update(ctx context.Context, id int64, input *models.MemberInput) (*models.Member, error)
	Delete(ctx context.Context, id int64) error
}

// UserService defines the interface for admin accounts
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, input *models.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, input *models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// ChatService defines the interface for the visitor chat assistant
type ChatService interface {
	Reply(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// MediaService defines the interface for image uploads
type MediaService interface {
	Upload(ctx context.Context, folder, filename, contentType string, size int64, body io.Reader) (*storage.Object, error)
	List(ctx context.Context, folder string) ([]storage.Object, error)
}

// CleanupService defines the interface for the storage cleanup worker
type CleanupService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	Enqueue(ctx context.Context, urls []string) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	Stats(ctx context.Context) (map[models.JobStatus]int, error)
}

// ImportService defines the interface for bulk imports
type ImportService interface {
	Import(ctx context.Context, resource string, r io.Reader) (*models.ImportReport, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
	StreamMembers(ctx context.Context, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Member  MemberService
	User    UserService
	Chat    ChatService
	Media   MediaService
	Cleanup CleanupService
	Import  ImportService
	Export  ExportService
}

// Deps are the collaborators the services are built from
type Deps struct {
	Repos     *repository.Repositories
	Store     storage.Store
	Completer chat.Completer
	Profile   *config.SiteProfile
}

// NewServices creates all services
func NewServices(deps Deps, cfg *config.Config, log zerolog.Logger) *Services {
	extractor := content.NewExtractor(cfg.Content.PlaceholderAlt, cfg.Content.CaptionLabels)

	cleanupSvc := newCleanupService(deps.Repos.Job, deps.Store, cfg.Cleanup, log)
	articleSvc := newArticleService(deps.Repos.Article, cleanupSvc, extractor, cfg.Content.PageSize, log)
	memberSvc := newMemberService(deps.Repos.Member, cleanupSvc, log)
	assistant := chat.NewAssistant(deps.Completer, cfg.Chat.Model, cfg.Chat.FallbackModel, log)

	return &Services{
		Article: articleSvc,
		Member:  memberSvc,
		User:    newUserService(deps.Repos.User, log),
		Chat:    newChatService(deps.Repos, assistant, deps.Profile, cfg.Chat.RecentArticles, log),
		Media:   newMediaService(deps.Store, cfg.Storage.MaxUploadSize, log),
		Cleanup: cleanupSvc,
		Import:  newImportService(deps.Repos, cfg.Import.BatchSize, log),
		Export:  newExportService(deps.Repos, log),
	}
}
