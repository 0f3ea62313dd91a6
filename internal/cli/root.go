// Package cli implements amanahctl, the maintenance command line for the
// profile site: migrations, admin accounts, imports and article previews.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/database"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/service"
	"github.com/amanah-profile-site/internal/storage"
	"github.com/amanah-profile-site/pkg/logger"
)

type ctxKey string

const envKey ctxKey = "env"

// env is what every subcommand shares. The database and services are only
// opened by commands that need them.
type env struct {
	cfg *config.Config
	log zerolog.Logger

	db       *database.DB
	services *service.Services
}

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the cobra root command.
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "amanahctl",
		Short:         "Maintenance tool for the Amanah profile site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			log := logger.New(logger.Options{Level: level, Format: "pretty", Out: os.Stderr})

			ctx := context.WithValue(cmd.Context(), envKey, &env{cfg: cfg, log: log})
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e := getEnv(cmd); e.db != nil {
				return e.db.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newImportMarkdownCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newAskCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getEnv(cmd *cobra.Command) *env {
	v := cmd.Context().Value(envKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: environment not initialized")
		os.Exit(1)
	}
	return v.(*env)
}

// openDB connects to the database once per invocation.
func (e *env) openDB() (*database.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	db, err := database.New(&e.cfg.Database, e.log)
	if err != nil {
		return nil, err
	}
	e.db = db
	return db, nil
}

// openServices wires the same service graph the server uses. The cleanup
// worker is not started; queued jobs are picked up by the server.
func (e *env) openServices() (*service.Services, error) {
	if e.services != nil {
		return e.services, nil
	}
	db, err := e.openDB()
	if err != nil {
		return nil, err
	}
	store, err := storage.New(e.cfg.Storage, e.log)
	if err != nil {
		return nil, err
	}
	profile, err := config.LoadSiteProfile(e.cfg.SiteProfilePath)
	if err != nil {
		return nil, err
	}

	e.services = service.NewServices(service.Deps{
		Repos:     repository.New(db),
		Store:     store,
		Completer: chat.NewOpenAICompleter(e.cfg.Chat),
		Profile:   profile,
	}, e.cfg, e.log)
	return e.services, nil
}
