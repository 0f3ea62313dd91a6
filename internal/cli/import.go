package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amanah-profile-site/internal/frontmatter"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
)

func newImportCmd() *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import articles or members from an NDJSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if resource != service.ResourceArticles && resource != service.ResourceMembers {
				return fmt.Errorf("--resource must be one of: articles, members")
			}
			services, err := getEnv(cmd).openServices()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			report, err := services.Import.Import(cmd.Context(), resource, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, le := range report.Errors {
				fmt.Fprintf(out, "line %d: %s: %s\n", le.Line, le.Field, le.Message)
			}
			fmt.Fprintf(out, "Imported %d of %d %s (%d failed) in %dms\n",
				report.Successful, report.Total, resource, report.Failed, report.DurationMs)
			return nil
		},
	}
	cmd.Flags().StringVar(&resource, "resource", service.ResourceArticles, "articles or members")
	return cmd
}

func newImportMarkdownCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "import-md FILE...",
		Short: "Import markdown posts with YAML, TOML or JSON front matter as articles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := getEnv(cmd).openServices()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				in, err := articleFromMarkdown(path, category)
				if err == nil {
					var a *models.Article
					a, err = services.Article.Create(cmd.Context(), in)
					if err == nil {
						fmt.Fprintf(out, "%s -> /blog/%s\n", path, a.Slug)
						continue
					}
				}
				failed++
				fmt.Fprintf(out, "%s: %v\n", path, err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "Kegiatan", "category for posts that name none")
	return cmd
}

// articleFromMarkdown reads a markdown post. A file without front matter is
// imported whole, titled after its file name.
func articleFromMarkdown(path, category string) (*models.ArticleInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	file, err := frontmatter.Parse(data)
	if errors.Is(err, frontmatter.ErrNoFrontMatter) {
		file = &frontmatter.File{Body: string(data)}
	} else if err != nil {
		return nil, err
	}

	in := file.ToArticle(category)
	if in.Title == "" {
		in.Title = titleFromFilename(path)
	}
	in.Content = strings.TrimSpace(in.Content)
	return &in, nil
}

func titleFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
