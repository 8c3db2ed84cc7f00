package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/umbra/akane/internal/models"
)

var ErrTodoNotFound = errors.New("store: no such todo")

func (s *Store) AddTodo(ctx context.Context, ownerID int64, content, jumpURL string) (int64, error) {
	query := `INSERT INTO todos (owner_id, content, jump_url) VALUES ($1, $2, $3) RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, query, ownerID, content, jumpURL).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert todo: %v", err)
	}
	return id, nil
}

// Todos returns the owner's todos, oldest first, capped at 100.
func (s *Store) Todos(ctx context.Context, ownerID int64) ([]models.Todo, error) {
	query := `SELECT id, owner_id, content, added_at, jump_url FROM todos WHERE owner_id = $1 ORDER BY id ASC LIMIT 100`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %v", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Content, &t.AddedAt, &t.JumpURL); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %v", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s *Store) TodoByID(ctx context.Context, ownerID, id int64) (*models.Todo, error) {
	query := `SELECT id, owner_id, content, added_at, jump_url FROM todos WHERE owner_id = $1 AND id = $2`

	var t models.Todo
	err := s.pool.QueryRow(ctx, query, ownerID, id).Scan(&t.ID, &t.OwnerID, &t.Content, &t.AddedAt, &t.JumpURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch todo: %v", err)
	}
	return &t, nil
}

func (s *Store) UpdateTodo(ctx context.Context, ownerID, id int64, content, jumpURL string) error {
	query := `UPDATE todos SET content = $3, jump_url = $4 WHERE owner_id = $1 AND id = $2`

	tag, err := s.pool.Exec(ctx, query, ownerID, id, content, jumpURL)
	if err != nil {
		return fmt.Errorf("failed to update todo: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// DeleteTodos removes the given ids and reports how many were actually the
// owner's to delete.
func (s *Store) DeleteTodos(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	query := `DELETE FROM todos WHERE owner_id = $1 AND id = ANY($2::bigint[])`

	tag, err := s.pool.Exec(ctx, query, ownerID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %v", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) ClearTodos(ctx context.Context, ownerID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear todos: %v", err)
	}
	return tag.RowsAffected(), nil
}
