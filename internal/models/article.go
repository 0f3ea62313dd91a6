package models

import (
	"time"
)

// Article is a blog post. Content holds the raw markup body that the
// content renderer turns into a document on every display.
type Article struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Category    string    `json:"category" db:"category"`
	Excerpt     string    `json:"excerpt" db:"excerpt"`
	Content     string    `json:"content" db:"content"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Categories lists the allowed article categories in display order.
var Categories = []string{
	"Kegiatan",
	"Program Digital",
	"Pendidikan",
	"Sosial",
	"Berita",
}

// ValidCategories indexes Categories for validation.
var ValidCategories = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ArticleInput is the body of a create/update request and one line of an
// NDJSON article import.
type ArticleInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug,omitempty"`
	Category    string `json:"category"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// ArticlePage is one page of the public blog listing.
type ArticlePage struct {
	Articles   []*Article `json:"articles"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int        `json:"total"`
}
