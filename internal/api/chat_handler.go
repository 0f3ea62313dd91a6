package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// chatTimeout bounds one visitor request including the fallback attempt
const chatTimeout = 90 * time.Second

// ChatHandler handles the visitor chat assistant
type ChatHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(services *service.Services, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		services: services,
		log:      log.With().Str("handler", "chat").Logger(),
	}
}

// Reply handles POST /api/chat
func (h *ChatHandler) Reply(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Messages == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid messages format"})
		return
	}

	ctx, cancel := contextWithTimeout(c, chatTimeout)
	defer cancel()

	reply, err := h.services.Chat.Reply(ctx, req.Messages)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidMessages) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid messages format"})
			return
		}
		h.log.Error().Err(err).Int("messages", len(req.Messages)).Msg("Chat reply failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": chat.FallbackReply})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}
