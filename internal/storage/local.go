package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// LocalStore keeps files under a directory that the HTTP server exposes at
// publicPath. It is meant for development and single-host deployments.
type LocalStore struct {
	dir        string
	publicPath string
	log        zerolog.Logger
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir, publicPath string, log zerolog.Logger) *LocalStore {
	return &LocalStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		log:        log.With().Str("component", "storage").Str("driver", "local").Logger(),
	}
}

// Dir returns the root directory served at the public path.
func (s *LocalStore) Dir() string { return s.dir }

// PublicPath returns the URL prefix of stored files.
func (s *LocalStore) PublicPath() string { return s.publicPath }

// Upload writes body to folder under a unique name.
func (s *LocalStore) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*Object, error) {
	if !ValidFolder(folder) {
		return nil, fmt.Errorf("invalid upload folder %q", folder)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media folder: %w", err)
	}

	name := UniqueName(filename)
	full := filepath.Join(s.dir, folder, name)
	dst, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, body)
	if err != nil {
		os.Remove(full)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	objectPath := folder + "/" + name
	s.log.Debug().Str("path", objectPath).Int64("size", size).Msg("Stored upload")

	return &Object{
		Name: name,
		Path: objectPath,
		URL:  s.publicPath + "/" + objectPath,
		Size: size,
	}, nil
}

// Owns reports whether url points into this store.
func (s *LocalStore) Owns(url string) bool {
	_, ok := s.fileFor(url)
	return ok
}

// fileFor maps a public URL to a path on disk, refusing anything that
// escapes the root directory.
func (s *LocalStore) fileFor(url string) (string, bool) {
	rel, ok := strings.CutPrefix(url, s.publicPath+"/")
	if !ok || rel == "" {
		return "", false
	}
	clean := path.Clean(rel)
	if clean == "." || strings.HasPrefix(clean, "../") || clean == ".." || path.IsAbs(clean) {
		return "", false
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), true
}

// Delete removes the files behind urls. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, urls []string) (int, error) {
	removed := 0
	for _, url := range urls {
		full, ok := s.fileFor(url)
		if !ok {
			continue
		}
		if err := os.Remove(full); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to delete %s: %w", url, err)
		}
		removed++
	}
	return removed, nil
}

// List returns up to ListLimit files of folder, newest first.
func (s *LocalStore) List(ctx context.Context, folder string) ([]Object, error) {
	if !ValidFolder(folder) {
		return nil, fmt.Errorf("invalid upload folder %q", folder)
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, folder))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var objects []Object
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objectPath := folder + "/" + entry.Name()
		objects = append(objects, Object{
			Name:      entry.Name(),
			Path:      objectPath,
			URL:       s.publicPath + "/" + objectPath,
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].CreatedAt.After(objects[j].CreatedAt) })
	if len(objects) > ListLimit {
		objects = objects[:ListLimit]
	}
	return objects, nil
}
