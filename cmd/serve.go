package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"todo-list/internal/api"
	"todo-list/internal/migrate"
	repo "todo-list/internal/repo/todo"
	service "todo-list/internal/service/todo"
	"todo-list/internal/view"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Create the schema if needed and serve HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions, out io.Writer) error {
	cfg, db, cleanup, err := bootstrap(ctx, opts, out)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := migrate.Apply(ctx, db.DB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}

	todoRepo := repo.NewSQLiteTodoRepo(db)
	todoService := service.NewService(todoRepo)
	server := api.NewServer(todoService, renderer, db)

	s := &http.Server{
		Handler:           server.Handler(),
		Addr:              cfg.Server.Address,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.LogAttrs(ctx, slog.LevelInfo, "Starting server",
			slog.String("address", cfg.Server.Address),
			slog.String("database", cfg.Database.Path),
		)
		errCh <- s.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
