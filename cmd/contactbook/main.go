// Package main is the entry point for the contactbook CLI.
// Its sole responsibility is wiring dependencies together and starting the
// shell or a one-shot subcommand. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/spf13/cobra"

	"github.com/pkordes/contactbook/internal/cli"
	"github.com/pkordes/contactbook/internal/config"
	"github.com/pkordes/contactbook/internal/logger"
	"github.com/pkordes/contactbook/internal/repo"
	"github.com/pkordes/contactbook/internal/service"
	"github.com/pkordes/contactbook/migrations"
)

func main() {
	// SIGINT/SIGTERM cancel the context; the shell saves before it returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app carries what every command needs once configuration is resolved.
type app struct {
	cfg config.Config
	log *slog.Logger
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	var (
		a     app
		flags config.Config
	)

	rootCmd := &cobra.Command{
		Use:          "contactbook",
		Short:        "Interactive contact book with birthday reminders",
		Long:         "Runs the interactive contact shell. Contacts are saved after every change and on exit.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(logger.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Output: cmd.ErrOrStderr(),
			})
			slog.SetDefault(a.log)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.File, "file", "", "contacts file (overrides CONTACTS_FILE)")
	pf.StringVar(&flags.Store, "store", "", "storage backend: file or postgres (overrides CONTACTS_STORE)")
	pf.StringVar(&flags.DatabaseURL, "database-url", "", "Postgres connection string (overrides CONTACTS_DATABASE_URL)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error (overrides CONTACTS_LOG_LEVEL)")
	pf.StringVar(&flags.LogFormat, "log-format", "", "text or json (overrides CONTACTS_LOG_FORMAT)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output (overrides CONTACTS_NO_COLOR)")

	rootCmd.AddCommand(newExportCmd(&a))
	rootCmd.AddCommand(newMigrateCmd(&a))

	return rootCmd
}

// applyFlags copies every flag the user set explicitly over cfg.
func applyFlags(cmd *cobra.Command, flags config.Config, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("file") {
		cfg.File = flags.File
	}
	if set("store") {
		cfg.Store = flags.Store
	}
	if set("database-url") {
		cfg.DatabaseURL = flags.DatabaseURL
	}
	if set("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if set("log-format") {
		cfg.LogFormat = flags.LogFormat
	}
	if set("no-color") {
		cfg.NoColor = flags.NoColor
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every contact as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := cli.ExportCSV(cmd.Context(), service.NewExportService(store), w); err != nil {
				return err
			}
			a.log.InfoContext(cmd.Context(), "export written", "output", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("migrate: %s_DATABASE_URL (or --database-url) is required", config.Prefix)
			}
			db, err := sql.Open("pgx", a.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("migrate: open: %w", err)
			}
			defer db.Close()

			applied, err := migrations.Up(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations to apply")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied migration %05d\n", v)
			}
			a.log.InfoContext(cmd.Context(), "migrations applied", "count", len(applied))
			return nil
		},
	}
}

// openStore opens the configured backend. The returned func releases it.
func (a *app) openStore(ctx context.Context) (repo.Store, func(), error) {
	switch a.cfg.Store {
	case config.StorePostgres:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		a.log.InfoContext(ctx, "database connection established")
		return repo.NewPGStore(pool), pool.Close, nil
	default:
		return repo.NewFileStore(a.cfg.File, a.log), func() {}, nil
	}
}

// runShell loads the directory and runs the interactive shell until the user
// leaves or ctx is cancelled.
func (a *app) runShell(ctx context.Context, in io.Reader, out io.Writer) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.NewContactService(store, service.WithLogger(a.log))
	if err := svc.Load(ctx); err != nil {
		return err
	}

	sh := cli.NewShell(svc, out,
		cli.WithLogger(a.log),
		cli.WithNoColor(a.cfg.NoColor),
	)
	return sh.Run(ctx, in)
}
