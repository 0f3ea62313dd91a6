package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amanah-profile-site/internal/database"
	"github.com/amanah-profile-site/internal/models"
	"github.com/lib/pq"
)

const articleColumns = `id, title, slug, category, excerpt, content, image_url, published_at, created_at, updated_at`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

func scanArticle(s scanner) (*models.Article, error) {
	var a models.Article
	err := s.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Category, &a.Excerpt, &a.Content,
		&a.ImageURL, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *articleRepo) query(ctx context.Context, query string, args ...any) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *articleRepo) queryOne(ctx context.Context, query string, args ...any) (*models.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// List returns one page of articles, newest first
func (r *articleRepo) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	return r.query(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
}

// Latest returns the n newest articles
func (r *articleRepo) Latest(ctx context.Context, n int) ([]*models.Article, error) {
	return r.List(ctx, n, 0)
}

// Related returns up to n other articles in the same category, newest first
func (r *articleRepo) Related(ctx context.Context, category string, excludeID int64, n int) ([]*models.Article, error) {
	return r.query(ctx,
		`SELECT `+articleColumns+` FROM articles
		WHERE category = $1 AND id <> $2
		ORDER BY created_at DESC, id DESC LIMIT $3`,
		category, excludeID, n)
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return r.queryOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.queryOne(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

// Create inserts a new article and fills in its generated ID
func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	query := `
		INSERT INTO articles (title, slug, category, excerpt, content, image_url, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		a.Title, a.Slug, a.Category, a.Excerpt, a.Content, a.ImageURL,
		a.PublishedAt, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

// Update overwrites the editable fields of an article
func (r *articleRepo) Update(ctx context.Context, a *models.Article) error {
	query := `
		UPDATE articles SET
			title = $1, slug = $2, category = $3, excerpt = $4, content = $5,
			image_url = $6, published_at = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		a.Title, a.Slug, a.Category, a.Excerpt, a.Content,
		a.ImageURL, a.PublishedAt, time.Now(), a.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(result, "article", a.ID)
}

// Delete removes an article
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(result, "article", id)
}

// BatchInsert inserts multiple articles using PostgreSQL COPY
func (r *articleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("articles",
		"title", "slug", "category", "excerpt", "content", "image_url", "published_at", "created_at", "updated_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	for _, a := range articles {
		if _, err := stmt.ExecContext(ctx,
			a.Title, a.Slug, a.Category, a.Excerpt, a.Content, a.ImageURL,
			a.PublishedAt, a.CreatedAt, now,
		); err != nil {
			return 0, fmt.Errorf("failed to buffer article %q: %w", a.Slug, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(articles), nil
}

// StreamAll streams all articles in creation order for export
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY created_at, id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(a); err != nil {
			return err
		}
	}

	return rows.Err()
}
