// Package frontmatter reads Hugo-style markdown files (YAML `---`, TOML
// `+++` or JSON front matter) so existing posts can be imported as articles.
package frontmatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/models"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names the front matter flavour of a file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrNoFrontMatter is returned for files without a recognised header.
var ErrNoFrontMatter = errors.New("no front matter found")

// File is a parsed markdown file.
type File struct {
	Fields map[string]interface{}
	Body   string
	Format Format
}

// Parse splits content into front matter fields and body.
func Parse(content []byte) (*File, error) {
	str := strings.ReplaceAll(string(content), "\r\n", "\n")
	str = strings.TrimPrefix(str, "\ufeff")

	if header, body, ok := split(str, "---"); ok {
		var fields map[string]interface{}
		if err := yaml.Unmarshal([]byte(header), &fields); err != nil {
			return nil, fmt.Errorf("invalid yaml front matter: %w", err)
		}
		return &File{Fields: fields, Body: body, Format: FormatYAML}, nil
	}

	if header, body, ok := split(str, "+++"); ok {
		var fields map[string]interface{}
		if err := toml.Unmarshal([]byte(header), &fields); err != nil {
			return nil, fmt.Errorf("invalid toml front matter: %w", err)
		}
		return &File{Fields: fields, Body: body, Format: FormatTOML}, nil
	}

	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		dec := json.NewDecoder(strings.NewReader(str))
		var fields map[string]interface{}
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("invalid json front matter: %w", err)
		}
		rest := str[dec.InputOffset():]
		return &File{Fields: fields, Body: strings.TrimSpace(rest), Format: FormatJSON}, nil
	}

	return nil, ErrNoFrontMatter
}

// split cuts "<delim>\n header \n<delim>\n body".
func split(str, delim string) (string, string, bool) {
	if !strings.HasPrefix(str, delim+"\n") {
		return "", "", false
	}
	rest := str[len(delim)+1:]
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return "", "", false
	}
	header := rest[:end]
	body := rest[end+len(delim)+1:]
	return header, strings.TrimSpace(body), true
}

// String returns the first non-empty string value among keys.
func (f *File) String(keys ...string) string {
	for _, k := range keys {
		switch v := f.Fields[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

// Time returns the first date value among keys.
func (f *File) Time(keys ...string) (time.Time, bool) {
	for _, k := range keys {
		switch v := f.Fields[k].(type) {
		case time.Time:
			return v, true
		case toml.LocalDate:
			return v.AsTime(time.UTC), true
		case toml.LocalDateTime:
			return v.AsTime(time.UTC), true
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

// ToArticle maps the common Hugo keys onto an article input. category is
// used when the file names none.
func (f *File) ToArticle(category string) models.ArticleInput {
	in := models.ArticleInput{
		Title:    f.String("title"),
		Slug:     f.String("slug"),
		Category: f.String("category", "categories"),
		Excerpt:  f.String("excerpt", "description", "summary"),
		Content:  f.Body,
		ImageURL: f.String("image", "cover", "featured_image"),
	}
	if in.Category == "" {
		in.Category = category
	}
	if t, ok := f.Time("date", "publishDate", "published_at"); ok {
		in.PublishedAt = t.UTC().Format(time.RFC3339)
	}
	return in
}
