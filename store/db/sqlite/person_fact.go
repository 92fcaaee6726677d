package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/store"
)

func (d *DB) UpsertPersonFact(ctx context.Context, upsert *store.PersonFact) error {
	stmt := `INSERT INTO person_facts (key, value, category)
		VALUES (` + placeholders(3) + `)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, category = excluded.category`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.Key, upsert.Value, upsert.Category); err != nil {
		return errors.Wrap(err, "failed to upsert person fact")
	}
	return nil
}

func (d *DB) ListPersonFacts(ctx context.Context, find *store.FindPersonFact) ([]*store.PersonFact, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Key; v != nil {
		where, args = append(where, "key = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT key, value, category
		FROM person_facts
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY key ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query person facts")
	}
	defer rows.Close()

	list := make([]*store.PersonFact, 0)
	for rows.Next() {
		var personFact store.PersonFact
		var category sql.NullString
		if err := rows.Scan(&personFact.Key, &personFact.Value, &category); err != nil {
			return nil, errors.Wrap(err, "failed to scan person fact")
		}
		if category.Valid {
			personFact.Category = &category.String
		}
		list = append(list, &personFact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
