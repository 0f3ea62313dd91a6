package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// homeArticles is the number of articles shown on the home page
const homeArticles = 3

// PageHandler renders the public HTML pages and the admin dashboard
type PageHandler struct {
	services *service.Services
	profile  *config.SiteProfile
	log      zerolog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(services *service.Services, profile *config.SiteProfile, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		services: services,
		profile:  profile,
		log:      log.With().Str("handler", "pages").Logger(),
	}
}

// view builds the template data every page shares
func (h *PageHandler) view(c *gin.Context, title string, data gin.H) gin.H {
	out := gin.H{
		"Profile":  h.profile,
		"Title":    title,
		"LoggedIn": loggedIn(c),
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (h *PageHandler) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", h.view(c, http.StatusText(status), gin.H{
		"Status":  status,
		"Message": msg,
	}))
}

func (h *PageHandler) serverError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	h.renderError(c, http.StatusInternalServerError, "Terjadi kesalahan pada server.")
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := h.services.Article.Latest(ctx, homeArticles)
	if err != nil {
		h.serverError(c, err, "Failed to load latest articles")
		return
	}
	members, err := h.services.Member.List(ctx)
	if err != nil {
		h.serverError(c, err, "Failed to load members")
		return
	}

	c.HTML(http.StatusOK, "home.html", h.view(c, "", gin.H{
		"Articles": articles,
		"Members":  members,
	}))
}

// BlogList handles GET /blog?page=N
func (h *PageHandler) BlogList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.services.Article.List(c.Request.Context(), page)
	if err != nil {
		h.serverError(c, err, "Failed to list articles")
		return
	}

	c.HTML(http.StatusOK, "blog_list.html", h.view(c, "Blog", gin.H{"Page": result}))
}

// BlogDetail handles GET /blog/:slug. The body is rendered on every
// request from the stored markup.
func (h *PageHandler) BlogDetail(c *gin.Context) {
	ctx := c.Request.Context()

	article, err := h.services.Article.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, "Artikel tidak ditemukan.")
			return
		}
		h.serverError(c, err, "Failed to load article")
		return
	}

	related, err := h.services.Article.Related(ctx, article)
	if err != nil {
		h.log.Warn().Err(err).Int64("article_id", article.ID).Msg("Failed to load related articles")
	}

	c.HTML(http.StatusOK, "blog_detail.html", h.view(c, article.Title, gin.H{
		"Article": article,
		"Body":    h.services.Article.Render(article),
		"Related": related,
	}))
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	members, err := h.services.Member.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to load members")
		return
	}
	c.HTML(http.StatusOK, "about.html", h.view(c, "Tentang", gin.H{"Members": members}))
}

// MemberDetail handles GET /about/members/:id
func (h *PageHandler) MemberDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.renderError(c, http.StatusNotFound, "Anggota tidak ditemukan.")
		return
	}

	member, err := h.services.Member.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, "Anggota tidak ditemukan.")
			return
		}
		h.serverError(c, err, "Failed to load member")
		return
	}

	c.HTML(http.StatusOK, "member.html", h.view(c, member.Name, gin.H{"Member": member}))
}

// AdminDashboard handles GET /admin
func (h *PageHandler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.services.User.Get(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// The account was deleted while the session was alive.
			c.Redirect(http.StatusFound, "/login")
			return
		}
		h.serverError(c, err, "Failed to load current user")
		return
	}

	counts := gin.H{}
	for _, resource := range []string{service.ResourceArticles, service.ResourceMembers, "users"} {
		n, err := h.services.Export.GetCount(ctx, resource)
		if err != nil {
			h.log.Warn().Err(err).Str("resource", resource).Msg("Failed to count rows")
		}
		counts[resource] = n
	}

	articles, err := h.services.Article.Latest(ctx, 20)
	if err != nil {
		h.serverError(c, err, "Failed to load articles")
		return
	}

	c.HTML(http.StatusOK, "admin.html", h.view(c, "Admin", gin.H{
		"User":     user,
		"Counts":   counts,
		"Articles": articles,
	}))
}
