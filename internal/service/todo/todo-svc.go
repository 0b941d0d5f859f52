package service

import (
	"context"

	"todo-list/internal/apierrors"
	repo "todo-list/internal/repo/todo"
	"todo-list/internal/scheme"
)

type TodoService struct {
	repo repo.TodoRepository
}

func NewService(repo repo.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) ListEntries(ctx context.Context) ([]scheme.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierrors.Storage("list entries", err)
	}
	return entries, nil
}

// AddEntry stores text as-is; empty text is accepted.
func (s *TodoService) AddEntry(ctx context.Context, params scheme.AddParams) error {
	if err := s.repo.Create(ctx, params.Text); err != nil {
		return apierrors.Storage("insert entry", err)
	}
	return nil
}

func (s *TodoService) DeleteEntry(ctx context.Context, params scheme.DeleteParams) error {
	if err := s.repo.Delete(ctx, params.Id); err != nil {
		return apierrors.Storage("delete entry", err)
	}
	return nil
}
