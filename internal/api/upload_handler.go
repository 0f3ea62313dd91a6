package api

import (
	"net/http"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/service"
	"github.com/amanah-profile-site/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartOverhead is allowed on top of the image size for form fields
// and boundaries.
const multipartOverhead = 1 << 20

// UploadHandler handles image uploads for covers, inline images and member
// photos
type UploadHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/uploads (multipart: file, folder)
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Storage.MaxUploadSize+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	folder := c.DefaultPostForm("folder", storage.FolderCovers)
	contentType := header.Header.Get("Content-Type")

	obj, err := h.services.Media.Upload(c.Request.Context(), folder, header.Filename, contentType, header.Size, file)
	if err != nil {
		respondError(c, h.log, err, "Failed to upload image")
		return
	}

	h.log.Info().
		Str("folder", folder).
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Str("url", obj.URL).
		Msg("Image uploaded")

	c.JSON(http.StatusCreated, obj)
}

// List handles GET /api/uploads?folder=...
func (h *UploadHandler) List(c *gin.Context) {
	objects, err := h.services.Media.List(c.Request.Context(), c.DefaultQuery("folder", storage.FolderCovers))
	if err != nil {
		respondError(c, h.log, err, "Failed to list images")
		return
	}
	c.JSON(http.StatusOK, objects)
}
