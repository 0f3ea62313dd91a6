package service

import (
	"context"
	"fmt"
	"io"

	"github.com/amanah-profile-site/internal/storage"
	"github.com/amanah-profile-site/internal/validation"
	"github.com/rs/zerolog"
)

type mediaService struct {
	store   storage.Store
	maxSize int64
	log     zerolog.Logger
}

func newMediaService(store storage.Store, maxSize int64, log zerolog.Logger) *mediaService {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &mediaService{
		store:   store,
		maxSize: maxSize,
		log:     log.With().Str("service", "media").Logger(),
	}
}

// Upload checks the declared type and size, then stores the image under a
// unique name in folder.
func (s *mediaService) Upload(ctx context.Context, folder, filename, contentType string, size int64, body io.Reader) (*storage.Object, error) {
	errs := validation.ValidateImage(contentType, size, s.maxSize)
	if !storage.ValidFolder(folder) {
		errs = append(errs, validation.ValidationError{Field: "folder", Message: "unknown upload folder", Value: folder})
	}
	if len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	// Never read past the limit even if the declared size lied.
	obj, err := s.store.Upload(ctx, folder, filename, contentType, io.LimitReader(body, s.maxSize))
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.log.Info().Str("folder", folder).Str("path", obj.Path).Int64("size", obj.Size).Msg("Image uploaded")
	return obj, nil
}

// List returns the newest objects of folder
func (s *mediaService) List(ctx context.Context, folder string) ([]storage.Object, error) {
	if !storage.ValidFolder(folder) {
		return nil, &ValidationFailedError{Errors: []validation.ValidationError{{Field: "folder", Message: "unknown upload folder", Value: folder}}}
	}
	return s.store.List(ctx, folder)
}
