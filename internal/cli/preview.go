package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amanah-profile-site/internal/content"
	"github.com/amanah-profile-site/internal/tui"
)

func newPreviewCmd() *cobra.Command {
	var (
		slug  string
		plain bool
		width int
	)
	cmd := &cobra.Command{
		Use:   "preview [FILE]",
		Short: "Preview an article in the terminal",
		Long: `Preview renders an article the way the blog page lays it out, with
numbered figures. Pass a markdown file, or --slug to load a published
article. In the interactive view press 1-9 to open a figure and esc to
close it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			var (
				title string
				doc   content.Document
			)
			switch {
			case slug != "":
				services, err := e.openServices()
				if err != nil {
					return err
				}
				article, err := services.Article.GetBySlug(cmd.Context(), slug)
				if err != nil {
					return fmt.Errorf("article %q: %w", slug, err)
				}
				title, doc = article.Title, services.Article.Parse(article)
			case len(args) == 1:
				in, err := articleFromMarkdown(args[0], "")
				if err != nil {
					return err
				}
				extractor := content.NewExtractor(e.cfg.Content.PlaceholderAlt, e.cfg.Content.CaptionLabels)
				title, doc = in.Title, extractor.Parse(in.Content)
			default:
				return fmt.Errorf("pass a markdown file or --slug")
			}

			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), title)
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), content.RenderTerminal(doc, width))
				return nil
			}
			return tui.Run(title, doc)
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "slug of a published article")
	cmd.Flags().BoolVar(&plain, "plain", false, "print once instead of opening the interactive view")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for --plain")
	return cmd
}
