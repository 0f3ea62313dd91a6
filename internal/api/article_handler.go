package api

import (
	"net/http"
	"strconv"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles the blog JSON endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /api/blogs?page=N
func (h *ArticleHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.services.Article.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch blogs")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/blogs/:id. With ?render=html the response also
// carries the rendered body.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	article, err := h.services.Article.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch blog")
		return
	}

	if c.Query("render") == "html" {
		c.JSON(http.StatusOK, gin.H{
			"article": article,
			"html":    h.services.Article.Render(article),
		})
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /api/blogs
func (h *ArticleHandler) Create(c *gin.Context) {
	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.log, err, "Failed to create blog")
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /api/blogs/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.log, err, "Failed to update blog")
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/blogs/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "Failed to delete blog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}
