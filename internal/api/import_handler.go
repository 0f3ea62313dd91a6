package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// importTimeout bounds a single synchronous import
const importTimeout = 5 * time.Minute

// ImportHandler handles bulk imports from the admin area
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// Import handles POST /api/admin/import (multipart: resource, file).
// The report is returned as JSON, or its line errors as CSV with
// ?format=csv.
func (h *ImportHandler) Import(c *gin.Context) {
	// Get resource type
	resource := c.PostForm("resource")
	if resource == "" {
		resource = c.Query("resource")
	}
	if resource != service.ResourceArticles && resource != service.ResourceMembers {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: articles, members"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	// Validate file size
	if header.Size > h.cfg.Import.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Import.MaxUploadSize/(1024*1024)),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".ndjson" && ext != ".jsonl" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "import requires an NDJSON file"})
		return
	}

	ctx, cancel := contextWithTimeout(c, importTimeout)
	defer cancel()

	report, err := h.services.Import.Import(ctx, resource, file)
	if err != nil {
		respondError(c, h.log, err, "Import failed")
		return
	}

	h.log.Info().
		Str("resource", resource).
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Msg("Import finished")

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_errors.csv", resource))
		writer := csv.NewWriter(c.Writer)
		writer.Write([]string{"line", "field", "message", "value"})
		for _, e := range report.Errors {
			value := ""
			if e.Value != nil {
				value = fmt.Sprintf("%v", e.Value)
			}
			writer.Write([]string{strconv.Itoa(e.Line), e.Field, e.Message, value})
		}
		writer.Flush()
		return
	}

	c.JSON(http.StatusOK, report)
}
