// Package storage keeps uploaded images in an object store and maps public
// URLs back to stored objects so they can be removed later.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Upload folders
const (
	FolderCovers   = "covers"
	FolderArticles = "artikel"
	FolderGallery  = "gallery"
	FolderMembers  = "anggota"
)

// ListLimit caps the number of objects returned by List.
const ListLimit = 100

// Object is one stored file.
type Object struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is an image store. Delete skips URLs the store does not own, so
// callers can pass any URL found in an article body.
type Store interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*Object, error)
	Delete(ctx context.Context, urls []string) (int, error)
	List(ctx context.Context, folder string) ([]Object, error)
	Owns(url string) bool
}

// New builds the store selected by cfg.Driver.
func New(cfg config.StorageConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicPath, log), nil
	case "supabase":
		return NewSupabaseStore(cfg, nil, log), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// UniqueName builds a collision-free object name that keeps the original
// extension: <unix millis>-<random>.<ext>.
func UniqueName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" || ext == "." {
		ext = ".bin"
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

// ValidFolder reports whether folder is one of the upload folders.
func ValidFolder(folder string) bool {
	switch folder {
	case FolderCovers, FolderArticles, FolderGallery, FolderMembers:
		return true
	}
	return false
}
