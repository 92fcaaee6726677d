package tursohttp

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/store"
)

func (d *DB) CreateChatMessage(ctx context.Context, create *store.ChatMessage) error {
	_, err := d.execute(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, created_at)
		VALUES (:id, :sid, :role, :content, :ts)`,
		map[string]any{
			"id":      create.ID,
			"sid":     create.SessionID,
			"role":    string(create.Role),
			"content": create.Content,
			"ts":      create.CreatedTs,
		})
	if err != nil {
		return errors.Wrap(err, "failed to insert chat message")
	}
	return nil
}

func (d *DB) ListChatMessages(ctx context.Context, find *store.FindChatMessage) ([]*store.ChatMessage, error) {
	sql := `SELECT id, session_id, role, content, created_at FROM chat_messages`
	args := map[string]any{}
	if v := find.SessionID; v != nil {
		sql += ` WHERE session_id = :sid`
		args["sid"] = *v
	}
	sql += ` ORDER BY created_at ASC`

	rs, err := d.execute(ctx, sql, args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query chat messages")
	}

	list := make([]*store.ChatMessage, 0, len(rs.rows))
	for _, row := range rs.rows {
		createdTs, err := cellInt64(row, "created_at")
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode chat message row")
		}
		list = append(list, &store.ChatMessage{
			ID:        cellString(row, "id"),
			SessionID: cellString(row, "session_id"),
			Role:      store.ChatMessageRole(cellString(row, "role")),
			Content:   cellString(row, "content"),
			CreatedTs: createdTs,
		})
	}
	return list, nil
}

func (d *DB) DeleteChatMessages(ctx context.Context, delete *store.DeleteChatMessage) (int64, error) {
	sql := `DELETE FROM chat_messages WHERE 1 = 1`
	args := map[string]any{}
	if v := delete.SessionID; v != nil {
		sql += ` AND session_id = :sid`
		args["sid"] = *v
	}
	if v := delete.CreatedTsBefore; v != nil {
		sql += ` AND created_at < :cutoff`
		args["cutoff"] = *v
	}

	rs, err := d.execute(ctx, sql, args)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete chat messages")
	}
	return rs.affected, nil
}
