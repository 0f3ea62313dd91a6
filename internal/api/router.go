package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/service"
	"github.com/amanah-profile-site/pkg/logger"
	"github.com/amanah-profile-site/web"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, profile *config.SiteProfile, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(sessions.Sessions(cfg.Auth.SessionName, newSessionStore(cfg.Auth)))

	router.SetHTMLTemplate(loadTemplates())
	router.StaticFS("/static", http.FS(web.Static()))
	if cfg.Storage.Driver == "local" && cfg.Storage.LocalDir != "" {
		router.Static(cfg.Storage.PublicPath, cfg.Storage.LocalDir)
	}

	// Handlers
	pages := NewPageHandler(services, profile, log)
	auth := NewAuthHandler(services, profile, log)
	articles := NewArticleHandler(services, log)
	members := NewMemberHandler(services, log)
	users := NewUserHandler(services, log)
	chatHandler := NewChatHandler(services, log)
	uploads := NewUploadHandler(services, cfg, log)
	importHandler := NewImportHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// Public pages
	router.GET("/", pages.Home)
	router.GET("/blog", pages.BlogList)
	router.GET("/blog/:slug", pages.BlogDetail)
	router.GET("/about", pages.About)
	router.GET("/about/members/:id", pages.MemberDetail)

	router.GET("/login", redirectIfLoggedIn, auth.LoginPage)
	router.POST("/login", auth.Login)
	router.POST("/logout", auth.Logout)

	admin := router.Group("/admin")
	admin.Use(AuthRequired)
	{
		admin.GET("", pages.AdminDashboard)
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/chat", chatHandler.Reply)
		apiGroup.GET("/blogs", articles.List)
		apiGroup.GET("/blogs/:id", articles.Get)
		apiGroup.GET("/members", members.List)

		authorized := apiGroup.Group("")
		authorized.Use(AuthRequired)
		{
			authorized.POST("/blogs", articles.Create)
			authorized.PUT("/blogs/:id", articles.Update)
			authorized.DELETE("/blogs/:id", articles.Delete)

			authorized.POST("/members", members.Create)
			authorized.PUT("/members/:id", members.Update)
			authorized.DELETE("/members/:id", members.Delete)

			authorized.GET("/users", users.List)
			authorized.POST("/users", users.Create)
			authorized.PUT("/users/:id", users.Update)
			authorized.DELETE("/users/:id", users.Delete)

			authorized.POST("/uploads", uploads.Upload)
			authorized.GET("/uploads", uploads.List)

			authorized.POST("/admin/import", importHandler.Import)
			authorized.GET("/admin/export", exportHandler.StreamExport)
			authorized.GET("/admin/jobs/:job_id", exportHandler.GetCleanupJob)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if isAPIRequest(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		pages.renderError(c, http.StatusNotFound, "Halaman tidak ditemukan.")
	})

	return router
}

// newSessionStore builds the signed cookie store for admin sessions
func newSessionStore(cfg config.AuthConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// loadTemplates parses the embedded page templates
func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"date": chat.FormatDate,
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html"))
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   logger.ServiceName,
	})
}

// metricsHandler returns row counts and cleanup job counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Export.GetCount(ctx, "users")
		articlesCount, _ := services.Export.GetCount(ctx, service.ResourceArticles)
		membersCount, _ := services.Export.GetCount(ctx, service.ResourceMembers)
		jobs, _ := services.Cleanup.Stats(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    usersCount,
				"articles": articlesCount,
				"members":  membersCount,
			},
			"cleanup_jobs": jobs,
			"timestamp":    time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware allows the public read endpoints and the chat endpoint to
// be called from other origins. Admin calls rely on the session cookie and
// stay same-origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
