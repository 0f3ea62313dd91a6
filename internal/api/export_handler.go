package api

import (
	"net/http"

	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /api/admin/export?resource=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	resource := c.Query("resource")
	if resource != service.ResourceArticles && resource != service.ResourceMembers {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: articles, members"})
		return
	}

	format := c.DefaultQuery("format", service.FormatNDJSON)
	if format != service.FormatNDJSON && format != service.FormatJSON {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json"})
		return
	}

	h.log.Info().
		Str("resource", resource).
		Str("format", format).
		Msg("Starting streaming export")

	var err error
	switch resource {
	case service.ResourceArticles:
		err = h.services.Export.StreamArticles(ctx, c.Writer, format)
	case service.ResourceMembers:
		err = h.services.Export.StreamMembers(ctx, c.Writer, format)
	}

	if err != nil {
		h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}

// GetCleanupJob handles GET /api/admin/jobs/:job_id
func (h *ExportHandler) GetCleanupJob(c *gin.Context) {
	job, err := h.services.Cleanup.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, h.log, err, "Failed to get job status")
		return
	}
	c.JSON(http.StatusOK, job)
}
