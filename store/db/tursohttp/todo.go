package tursohttp

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/store"
)

func (d *DB) CreateTodo(ctx context.Context, create *store.Todo) error {
	_, err := d.execute(ctx,
		`INSERT INTO todos (id, session_id, text, completed, completed_at, created_at)
		VALUES (:id, :sid, :text, :completed, :completedAt, :ts)`,
		map[string]any{
			"id":          create.ID,
			"sid":         create.SessionID,
			"text":        create.Text,
			"completed":   create.Completed,
			"completedAt": create.CompletedTs,
			"ts":          create.CreatedTs,
		})
	if err != nil {
		return errors.Wrap(err, "failed to insert todo")
	}
	return nil
}

func (d *DB) ListTodos(ctx context.Context, find *store.FindTodo) ([]*store.Todo, error) {
	where, args := []string{"1 = 1"}, map[string]any{}
	if v := find.ID; v != nil {
		where, args["id"] = append(where, "id = :id"), *v
	}
	if v := find.SessionID; v != nil {
		where, args["sid"] = append(where, "session_id = :sid"), *v
	}

	sql := `SELECT id, session_id, text, completed, completed_at, created_at
		FROM todos
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at ASC`

	rs, err := d.execute(ctx, sql, args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query todos")
	}

	list := make([]*store.Todo, 0, len(rs.rows))
	for _, row := range rs.rows {
		todo, err := decodeTodo(row)
		if err != nil {
			return nil, err
		}
		list = append(list, todo)
	}
	return list, nil
}

func (d *DB) UpdateTodo(ctx context.Context, update *store.UpdateTodo) (*store.Todo, error) {
	set, args := []string{}, map[string]any{"id": update.ID}
	if v := update.Text; v != nil {
		set, args["text"] = append(set, "text = :text"), *v
	}
	if v := update.Completed; v != nil {
		set, args["completed"] = append(set, "completed = :completed"), *v
		set, args["completedAt"] = append(set, "completed_at = :completedAt"), update.CompletedTs
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	sql := `UPDATE todos SET ` + strings.Join(set, ", ") + `
		WHERE id = :id
		RETURNING id, session_id, text, completed, completed_at, created_at`

	rs, err := d.execute(ctx, sql, args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update todo")
	}
	if len(rs.rows) == 0 {
		return nil, store.ErrTodoNotFound
	}
	return decodeTodo(rs.rows[0])
}

func (d *DB) DeleteTodos(ctx context.Context, delete *store.DeleteTodo) (int64, error) {
	where, args := []string{"1 = 1"}, map[string]any{}
	if v := delete.ID; v != nil {
		where, args["id"] = append(where, "id = :id"), *v
	}
	if v := delete.CompletedTsBefore; v != nil {
		where = append(where, "completed = 1", "completed_at IS NOT NULL")
		where, args["cutoff"] = append(where, "completed_at < :cutoff"), *v
	}

	sql := `DELETE FROM todos WHERE ` + strings.Join(where, " AND ")
	rs, err := d.execute(ctx, sql, args)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete todos")
	}
	return rs.affected, nil
}

func decodeTodo(row map[string]wireValue) (*store.Todo, error) {
	createdTs, err := cellInt64(row, "created_at")
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode todo row")
	}
	completed, err := cellInt64(row, "completed")
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode todo row")
	}
	completedTs, err := cellNullInt64(row, "completed_at")
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode todo row")
	}
	return &store.Todo{
		ID:          cellString(row, "id"),
		SessionID:   cellString(row, "session_id"),
		Text:        cellString(row, "text"),
		Completed:   completed != 0,
		CompletedTs: completedTs,
		CreatedTs:   createdTs,
	}, nil
}
