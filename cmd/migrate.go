package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"todo-list/internal/migrate"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create the todo table if absent",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return migrateUp(cmd, opts) },
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return migrateDown(cmd, opts) },
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return migrateReset(cmd, opts) },
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print migration status",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return migrateStatus(cmd, opts) },
		},
	)
	return cmd
}

func migrateUp(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	_, db, cleanup, err := bootstrap(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := migrate.Apply(ctx, db.DB); err != nil {
		return err
	}
	v, err := migrate.Version(ctx, db.DB)
	if err != nil {
		return err
	}
	slog.Info("schema up to date", slog.Int64("version", v))
	return nil
}

func migrateDown(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	_, db, cleanup, err := bootstrap(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()
	return migrate.DownOne(ctx, db.DB)
}

func migrateReset(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	_, db, cleanup, err := bootstrap(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()
	return migrate.Reset(ctx, db.DB)
}

func migrateStatus(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	_, db, cleanup, err := bootstrap(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()
	return migrate.Status(ctx, db.DB)
}
