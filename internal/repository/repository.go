package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amanah-profile-site/internal/database"
	"github.com/amanah-profile-site/internal/models"
)

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when no row matches.
type ArticleRepository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Article, error)
	Latest(ctx context.Context, n int) ([]*models.Article, error)
	Related(ctx context.Context, category string, excludeID int64, n int) ([]*models.Article, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	BatchInsert(ctx context.Context, articles []*models.Article) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	List(ctx context.Context) ([]*models.Member, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id int64) error
	BatchInsert(ctx context.Context, members []*models.Member) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Member) error) error
}

// UserRepository defines the interface for admin user data operations
type UserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// JobRepository defines the interface for background job operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetPendingJobs(ctx context.Context) ([]*models.Job, error)
	MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error)
	RequeueStale(ctx context.Context, startedBefore time.Time) (int, error)
	CountByStatus(ctx context.Context) (map[models.JobStatus]int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
	Member  MemberRepository
	User    UserRepository
	Job     JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
		Member:  NewMemberRepo(db),
		User:    NewUserRepo(db),
		Job:     NewJobRepo(db),
	}
}

// nullString converts an empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// ErrNoRows is returned by Update and Delete when the target row is missing.
var ErrNoRows = errors.New("no rows affected")

func expectRow(result sql.Result, kind string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNoRows)
	}
	return nil
}
