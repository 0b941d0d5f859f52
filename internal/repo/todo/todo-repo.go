package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"todo-list/internal/scheme"
)

type TodoRepository interface {
	List(ctx context.Context) ([]scheme.Entry, error)
	Create(ctx context.Context, text string) error
	Delete(ctx context.Context, id uint32) error
}

var _ TodoRepository = (*SQLiteTodoRepo)(nil)

// SQLiteTodoRepo checks out one pooled connection per call and returns it
// before the call ends. Each statement autocommits.
type SQLiteTodoRepo struct {
	db *sqlx.DB
}

func NewSQLiteTodoRepo(db *sqlx.DB) *SQLiteTodoRepo {
	return &SQLiteTodoRepo{db: db}
}

func (r *SQLiteTodoRepo) conn(ctx context.Context) (*sqlx.Conn, error) {
	c, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return c, nil
}

// List returns every row in the order the engine yields them.
func (r *SQLiteTodoRepo) List(ctx context.Context) ([]scheme.Entry, error) {
	const q = `SELECT id, text FROM todo`

	c, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	entries := make([]scheme.Entry, 0, 16)
	if err := sqlx.SelectContext(ctx, c, &entries, q); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *SQLiteTodoRepo) Create(ctx context.Context, text string) error {
	const q = `INSERT INTO todo (text) VALUES (?)`

	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if _, err := c.ExecContext(ctx, q, text); err != nil {
		return err
	}
	return nil
}

// Delete removes the row with the given id. An unknown id affects no rows
// and is not an error.
func (r *SQLiteTodoRepo) Delete(ctx context.Context, id uint32) error {
	const q = `DELETE FROM todo WHERE id = ?`

	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if _, err := c.ExecContext(ctx, q, id); err != nil {
		return err
	}
	return nil
}
