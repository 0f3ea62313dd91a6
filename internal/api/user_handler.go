package api

import (
	"net/http"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler handles admin account management
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.services.User.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.User.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.log, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update handles PUT /api/users/:id. An empty password keeps the current one.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, h.log, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id. Admins cannot delete themselves.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if id == currentUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete the account you are logged in with"})
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
