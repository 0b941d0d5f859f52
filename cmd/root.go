package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"todo-list/internal/config"
	"todo-list/internal/logging"
	"todo-list/internal/migrate"
	"todo-list/internal/store"
)

type rootOptions struct {
	configPath string
	addr       string
	dbPath     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Server-rendered to-do list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file (overrides config)")

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts))
	return root
}

func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.addr != "" {
		cfg.Server.Address = o.addr
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	return cfg, cfg.Validate()
}

// bootstrap loads config, installs the logger and opens the store. The
// returned cleanup closes both.
func bootstrap(ctx context.Context, o *rootOptions, out io.Writer) (config.Config, *sqlx.DB, func(), error) {
	cfg, err := o.load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, logCloser := logging.New(cfg.Logging, out)
	slog.SetDefault(logger)
	migrate.SetLogger(logging.GooseLogger{L: logger})

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		_ = logCloser.Close()
		return config.Config{}, nil, nil, fmt.Errorf("db init: %w", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = logCloser.Close()
	}
	return cfg, db, cleanup, nil
}
