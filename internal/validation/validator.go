package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/models"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Field limits
const (
	MinPassword   = 8
	MaxTitleRunes = 200
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validator validates input records. Within one batch it remembers slugs
// and emails it has accepted so duplicates inside the batch are reported.
type Validator struct {
	articleSlugCache map[string]bool
	userEmailCache   map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		articleSlugCache: make(map[string]bool),
		userEmailCache:   make(map[string]bool),
	}
}

// AddArticleSlug adds a slug to the uniqueness cache
func (v *Validator) AddArticleSlug(slug string) {
	v.articleSlugCache[slug] = true
}

// AddUserEmail adds an email to the uniqueness cache
func (v *Validator) AddUserEmail(email string) {
	v.userEmailCache[strings.ToLower(email)] = true
}

// Slugify turns a title into a kebab-case slug: lowercase, every run of
// characters outside [a-z0-9] becomes one hyphen, no leading or trailing
// hyphens.
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// IsSlug reports whether s is a valid kebab-case slug.
func IsSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// ValidateArticle validates an article record. An empty slug is allowed;
// the service derives one from the title.
func (v *Validator) ValidateArticle(article *models.ArticleInput) []ValidationError {
	var errors []ValidationError

	// Validate title
	if strings.TrimSpace(article.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if n := len([]rune(article.Title)); n > MaxTitleRunes {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title exceeds maximum of %d characters (has %d)", MaxTitleRunes, n),
		})
	}

	// Validate slug
	slug := article.Slug
	if slug == "" {
		slug = Slugify(article.Title)
	}
	if article.Slug != "" && !slugRegex.MatchString(article.Slug) {
		errors = append(errors, ValidationError{Field: "slug", Message: "slug must be kebab-case (lowercase letters, numbers, hyphens)", Value: article.Slug})
	} else if slug != "" && v.articleSlugCache[slug] {
		errors = append(errors, ValidationError{Field: "slug", Message: "duplicate slug", Value: slug})
	} else if slug == "" && strings.TrimSpace(article.Title) != "" {
		errors = append(errors, ValidationError{Field: "slug", Message: "title does not produce a usable slug", Value: article.Title})
	}

	// Validate category
	if article.Category == "" {
		errors = append(errors, ValidationError{Field: "category", Message: "category is required"})
	} else if !models.ValidCategories[article.Category] {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "invalid category, must be one of: " + strings.Join(models.Categories, ", "),
			Value:   article.Category,
		})
	}

	// Validate content
	if strings.TrimSpace(article.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	// Validate image_url if present
	if article.ImageURL != "" && !isImageURL(article.ImageURL) {
		errors = append(errors, ValidationError{Field: "image_url", Message: "image_url must be an http(s) URL or an absolute path", Value: article.ImageURL})
	}

	// Validate published_at format if present
	if article.PublishedAt != "" {
		if _, err := time.Parse(time.RFC3339, article.PublishedAt); err != nil {
			errors = append(errors, ValidationError{Field: "published_at", Message: "invalid ISO 8601 date format", Value: article.PublishedAt})
		}
	}

	return errors
}

// ValidateMember validates a member record
func (v *Validator) ValidateMember(member *models.MemberInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(member.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(member.Role) == "" {
		errors = append(errors, ValidationError{Field: "role", Message: "role is required"})
	}
	if member.PhotoURL != "" && !isImageURL(member.PhotoURL) {
		errors = append(errors, ValidationError{Field: "photo_url", Message: "photo_url must be an http(s) URL or an absolute path", Value: member.PhotoURL})
	}
	if member.SocialURL != "" {
		if u, err := url.Parse(member.SocialURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, ValidationError{Field: "social_url", Message: "social_url must be an http(s) URL", Value: member.SocialURL})
		}
	}

	return errors
}

// ValidateUser validates an admin user record. The password is only
// required when creating.
func (v *Validator) ValidateUser(user *models.UserInput, creating bool) []ValidationError {
	var errors []ValidationError

	// Validate email
	if user.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(user.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: user.Email})
	} else if v.userEmailCache[strings.ToLower(user.Email)] {
		errors = append(errors, ValidationError{Field: "email", Message: "duplicate email", Value: user.Email})
	}

	// Validate password
	if user.Password == "" {
		if creating {
			errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
		}
	} else if len(user.Password) < MinPassword {
		errors = append(errors, ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPassword)})
	}

	return errors
}

// ValidateImage checks an upload's declared content type and size.
func ValidateImage(contentType string, size, maxSize int64) []ValidationError {
	var errors []ValidationError
	if !strings.HasPrefix(contentType, "image/") {
		errors = append(errors, ValidationError{Field: "file", Message: "file must be an image", Value: contentType})
	}
	if size <= 0 {
		errors = append(errors, ValidationError{Field: "file", Message: "file is empty"})
	} else if size > maxSize {
		errors = append(errors, ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file exceeds maximum size of %d MB", maxSize/(1024*1024)),
			Value:   size,
		})
	}
	return errors
}

func isImageURL(s string) bool {
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
