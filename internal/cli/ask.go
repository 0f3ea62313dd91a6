package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/models"
)

func newAskCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask the site assistant a question, as a visitor would",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := getEnv(cmd).openServices()
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			reply, err := services.Chat.Reply(cmd.Context(), []models.ChatMessage{
				{Role: chat.RoleUser, Content: question},
			})
			if err != nil {
				return err
			}
			if raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
				return err
			}
			return writeMarkdown(cmd.OutOrStdout(), reply, 80)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply without markdown styling")
	return cmd
}

// writeMarkdown renders md for the terminal with glamour.
func writeMarkdown(w io.Writer, md string, width int) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
