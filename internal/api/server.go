package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"todo-list/internal/apierrors"
	"todo-list/internal/helpers"
	"todo-list/internal/middleware"
	service "todo-list/internal/service/todo"
	"todo-list/internal/view"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	todos *service.TodoService
	view  *view.Renderer
	db    Pinger
}

func NewServer(todos *service.TodoService, renderer *view.Renderer, db Pinger) *Server {
	return &Server{todos: todos, view: renderer, db: db}
}

// Routes registers every endpoint on mux and returns it.
func (s *Server) Routes(mux *http.ServeMux) *http.ServeMux {
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("POST /add", s.AddTodo)
	mux.HandleFunc("POST /delete", s.DeleteTodo)
	mux.HandleFunc("GET /health", s.GetHealth)
	return mux
}

// Handler is the full middleware-wrapped handler for the server.
func (s *Server) Handler() http.Handler {
	return middleware.RecoverMiddleware(
		middleware.LoggingMiddleware(
			s.Routes(http.NewServeMux()),
		),
	)
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.fail(w, r, apierrors.Storage("ping", err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	entries, err := s.todos.ListEntries(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.view.Render(entries)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	helpers.WriteHTML(w, http.StatusOK, page)
}

func (s *Server) AddTodo(w http.ResponseWriter, r *http.Request) {
	params, err := helpers.ParseAddParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.todos.AddEntry(r.Context(), params); err != nil {
		s.fail(w, r, err)
		return
	}
	helpers.RedirectToIndex(w)
}

func (s *Server) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	params, err := helpers.ParseDeleteParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.todos.DeleteEntry(r.Context(), params); err != nil {
		s.fail(w, r, err)
		return
	}
	helpers.RedirectToIndex(w)
}

// fail is the one place errors become responses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apierrors.StatusFor(err)

	attrs := []slog.Attr{
		slog.String("request_id", middleware.RequestID(r.Context())),
		slog.String("kind", apierrors.KindOf(err).String()),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		attrs = append(attrs, slog.String("op", apiErr.Op))
	}
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.LogAttrs(r.Context(), level, "request failed", attrs...)

	helpers.WriteError(w, status)
}
