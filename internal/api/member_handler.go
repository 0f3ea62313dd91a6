package api

import (
	"net/http"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MemberHandler handles the team member JSON endpoints
type MemberHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(services *service.Services, log zerolog.Logger) *MemberHandler {
	return &MemberHandler{
		services: services,
		log:      log.With().Str("handler", "member").Logger(),
	}
}

// List handles GET /api/members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.services.Member.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// Create handles POST /api/members
func (h *MemberHandler) Create(c *gin.Context) {
	var input models.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	member, err := h.services.Member.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.log, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// Update handles PUT /api/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input models.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	member, err := h.services.Member.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.log, err, "Failed to update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete handles DELETE /api/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Member.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "Failed to delete member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}
