package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/store"
)

func (d *DB) CreateTodo(ctx context.Context, create *store.Todo) error {
	fields := []string{"id", "session_id", "text", "completed", "completed_at", "created_at"}
	args := []any{create.ID, create.SessionID, create.Text, boolToInt(create.Completed), create.CompletedTs, create.CreatedTs}

	stmt := `INSERT INTO todos (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to insert todo")
	}
	return nil
}

func (d *DB) ListTodos(ctx context.Context, find *store.FindTodo) ([]*store.Todo, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, session_id, text, completed, completed_at, created_at
		FROM todos
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query todos")
	}
	defer rows.Close()

	list := make([]*store.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateTodo(ctx context.Context, update *store.UpdateTodo) (*store.Todo, error) {
	set, args := []string{}, []any{}

	if v := update.Text; v != nil {
		set, args = append(set, "text = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Completed; v != nil {
		set, args = append(set, "completed = "+placeholder(len(args)+1)), append(args, boolToInt(*v))
		// completed_at travels with completed so the invariant holds after
		// every single-statement update.
		set, args = append(set, "completed_at = "+placeholder(len(args)+1)), append(args, update.CompletedTs)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}
	args = append(args, update.ID)

	stmt := `UPDATE todos SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)) + `
		RETURNING id, session_id, text, completed, completed_at, created_at`

	todo, err := scanTodo(d.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTodoNotFound
		}
		return nil, errors.Wrap(err, "failed to update todo")
	}
	return todo, nil
}

func (d *DB) DeleteTodos(ctx context.Context, delete *store.DeleteTodo) (int64, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := delete.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.CompletedTsBefore; v != nil {
		where = append(where, "completed = 1", "completed_at IS NOT NULL")
		where, args = append(where, "completed_at < "+placeholder(len(args)+1)), append(args, *v)
	}

	stmt := `DELETE FROM todos WHERE ` + strings.Join(where, " AND ")
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete todos")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get affected rows")
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*store.Todo, error) {
	var todo store.Todo
	var completed int
	var completedTs sql.NullInt64
	if err := row.Scan(
		&todo.ID,
		&todo.SessionID,
		&todo.Text,
		&completed,
		&completedTs,
		&todo.CreatedTs,
	); err != nil {
		return nil, err
	}
	todo.Completed = completed != 0
	if completedTs.Valid {
		todo.CompletedTs = &completedTs.Int64
	}
	return &todo, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
