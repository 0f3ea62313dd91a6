package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Session keys
const (
	sessionUserID = "user_id"
	sessionEmail  = "email"
)

// AuthRequired aborts requests without an admin session: JSON 401 under
// /api/, a redirect to /login for pages.
func AuthRequired(c *gin.Context) {
	if !loggedIn(c) {
		if isAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

// redirectIfLoggedIn sends an authenticated admin away from the login page
func redirectIfLoggedIn(c *gin.Context) {
	if loggedIn(c) {
		c.Redirect(http.StatusFound, "/admin")
		c.Abort()
		return
	}
	c.Next()
}

func loggedIn(c *gin.Context) bool {
	return sessions.Default(c).Get(sessionUserID) != nil
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// AuthHandler handles login and logout
type AuthHandler struct {
	services *service.Services
	profile  *config.SiteProfile
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, profile *config.SiteProfile, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		profile:  profile,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Profile": h.profile,
		"Title":   "Masuk",
	})
}

// Login handles POST /login with a form or JSON body. Form posts are
// answered with a redirect or the login page, JSON posts with JSON.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, req.Email, http.StatusBadRequest, "Email dan kata sandi wajib diisi")
		return
	}

	user, err := h.services.User.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.loginFailed(c, req.Email, http.StatusUnauthorized, "Email atau kata sandi salah")
			return
		}
		h.log.Error().Err(err).Msg("Login failed")
		h.loginFailed(c, req.Email, http.StatusInternalServerError, "Terjadi kesalahan, coba lagi")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserID, user.ID)
	session.Set(sessionEmail, user.Email)
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("Failed to save session")
		h.loginFailed(c, req.Email, http.StatusInternalServerError, "Terjadi kesalahan, coba lagi")
		return
	}

	h.log.Info().Int64("user_id", user.ID).Msg("Admin logged in")
	if c.ContentType() == gin.MIMEJSON {
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email, "name": user.Name})
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AuthHandler) loginFailed(c *gin.Context, email string, status int, msg string) {
	if c.ContentType() == gin.MIMEJSON {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.HTML(status, "login.html", gin.H{
		"Profile": h.profile,
		"Title":   "Masuk",
		"Error":   msg,
		"Email":   email,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear session")
	}
	c.Redirect(http.StatusFound, "/login")
}

// currentUserID returns the admin id stored in the session
func currentUserID(c *gin.Context) int64 {
	id, _ := sessions.Default(c).Get(sessionUserID).(int64)
	return id
}
