package validation

import (
	"strings"
	"testing"

	"github.com/amanah-profile-site/internal/models"
)

func hasField(errors []ValidationError, field string) bool {
	for _, err := range errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Kerja Bakti di Panti", "kerja-bakti-di-panti"},
		{"  Hello,  World!!  ", "hello-world"},
		{"Program Digital 2024: Literasi & Keamanan", "program-digital-2024-literasi-keamanan"},
		{"---", ""},
		{"Ünïcode Tïtle", "n-code-t-tle"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
		if tt.want != "" && !IsSlug(Slugify(tt.title)) {
			t.Errorf("Slugify(%q) is not a valid slug", tt.title)
		}
	}
}

func TestValidateArticle(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		article    *models.ArticleInput
		wantErrors int
		wantFields []string
	}{
		{
			name: "valid article with derived slug",
			article: &models.ArticleInput{
				Title:    "Kerja Bakti",
				Category: "Kegiatan",
				Content:  "Isi artikel",
			},
			wantErrors: 0,
		},
		{
			name: "valid article with every field",
			article: &models.ArticleInput{
				Title:       "Literasi Digital",
				Slug:        "literasi-digital",
				Category:    "Program Digital",
				Excerpt:     "Ringkasan",
				Content:     "Isi",
				ImageURL:    "https://cdn.example.com/a.png",
				PublishedAt: "2024-01-01T00:00:00Z",
			},
			wantErrors: 0,
		},
		{
			name: "invalid slug - not kebab-case",
			article: &models.ArticleInput{
				Title:    "My First Article",
				Slug:     "My_First_Article",
				Category: "Berita",
				Content:  "Isi",
			},
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name: "invalid category",
			article: &models.ArticleInput{
				Title:    "Judul",
				Category: "Olahraga",
				Content:  "Isi",
			},
			wantErrors: 1,
			wantFields: []string{"category"},
		},
		{
			name: "invalid image url",
			article: &models.ArticleInput{
				Title:    "Judul",
				Category: "Sosial",
				Content:  "Isi",
				ImageURL: "javascript:alert(1)",
			},
			wantErrors: 1,
			wantFields: []string{"image_url"},
		},
		{
			name: "invalid published_at",
			article: &models.ArticleInput{
				Title:       "Judul",
				Category:    "Sosial",
				Content:     "Isi",
				PublishedAt: "01/01/2024",
			},
			wantErrors: 1,
			wantFields: []string{"published_at"},
		},
		{
			name: "title without slug characters",
			article: &models.ArticleInput{
				Title:    "!!!",
				Category: "Sosial",
				Content:  "Isi",
			},
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name:       "missing required fields",
			article:    &models.ArticleInput{},
			wantErrors: 3, // title, category, content
		},
		{
			name: "title too long",
			article: &models.ArticleInput{
				Title:    strings.Repeat("a", MaxTitleRunes+1),
				Category: "Berita",
				Content:  "Isi",
			},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateArticle(tt.article)
			if len(errors) != tt.wantErrors {
				t.Errorf("ValidateArticle() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateMember(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		member     *models.MemberInput
		wantFields []string
	}{
		{
			name:   "valid member",
			member: &models.MemberInput{Name: "Sinta", Role: "Ketua", PhotoURL: "/media/anggota/s.jpg", SocialURL: "https://instagram.com/sinta"},
		},
		{
			name:       "missing name and role",
			member:     &models.MemberInput{},
			wantFields: []string{"name", "role"},
		},
		{
			name:       "bad urls",
			member:     &models.MemberInput{Name: "A", Role: "B", PhotoURL: "ftp://x/y.png", SocialURL: "instagram.com/x"},
			wantFields: []string{"photo_url", "social_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateMember(tt.member)
			if len(errors) != len(tt.wantFields) {
				t.Errorf("ValidateMember() got %d errors, want %d. Errors: %v", len(errors), len(tt.wantFields), errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateUser(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		user       *models.UserInput
		creating   bool
		wantFields []string
	}{
		{
			name:     "valid new user",
			user:     &models.UserInput{Email: "admin@example.com", Password: "rahasia123"},
			creating: true,
		},
		{
			name:       "new user needs a password",
			user:       &models.UserInput{Email: "admin@example.com"},
			creating:   true,
			wantFields: []string{"password"},
		},
		{
			name:     "update may omit the password",
			user:     &models.UserInput{Email: "admin@example.com"},
			creating: false,
		},
		{
			name:       "short password and bad email",
			user:       &models.UserInput{Email: "not-an-email", Password: "short"},
			creating:   false,
			wantFields: []string{"email", "password"},
		},
		{
			name:       "missing email",
			user:       &models.UserInput{Password: "rahasia123"},
			creating:   true,
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateUser(tt.user, tt.creating)
			if len(errors) != len(tt.wantFields) {
				t.Errorf("ValidateUser() got %d errors, want %d. Errors: %v", len(errors), len(tt.wantFields), errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateImage(t *testing.T) {
	const max = 5 * 1024 * 1024

	if errs := ValidateImage("image/png", 1024, max); len(errs) != 0 {
		t.Errorf("expected valid image, got %v", errs)
	}
	if errs := ValidateImage("application/pdf", 1024, max); !hasField(errs, "file") {
		t.Error("expected error for non-image content type")
	}
	if errs := ValidateImage("image/jpeg", max+1, max); len(errs) != 1 || !strings.Contains(errs[0].Message, "5 MB") {
		t.Errorf("expected size error, got %v", errs)
	}
	if errs := ValidateImage("image/jpeg", 0, max); len(errs) != 1 {
		t.Errorf("expected empty file error, got %v", errs)
	}
}

func TestDuplicateEmailDetection(t *testing.T) {
	validator := NewValidator()

	user := &models.UserInput{Email: "Duplicate@Example.com", Password: "rahasia123"}
	if errors := validator.ValidateUser(user, true); len(errors) != 0 {
		t.Fatalf("First user should be valid, got %v", errors)
	}

	validator.AddUserEmail(user.Email)

	errors := validator.ValidateUser(&models.UserInput{Email: "duplicate@example.com", Password: "rahasia123"}, true)
	if len(errors) != 1 || errors[0].Message != "duplicate email" {
		t.Errorf("Expected 'duplicate email' error, got %v", errors)
	}
}

func TestDuplicateSlugDetection(t *testing.T) {
	validator := NewValidator()

	article := &models.ArticleInput{Title: "Bakti Sosial", Category: "Sosial", Content: "Isi"}
	if errors := validator.ValidateArticle(article); len(errors) != 0 {
		t.Fatalf("First article should be valid, got %v", errors)
	}

	validator.AddArticleSlug(Slugify(article.Title))

	// Same title derives the same slug
	errors := validator.ValidateArticle(&models.ArticleInput{Title: "Bakti  Sosial!", Category: "Berita", Content: "Lain"})
	if len(errors) != 1 || errors[0].Message != "duplicate slug" {
		t.Errorf("Expected 'duplicate slug' error, got %v", errors)
	}
}
