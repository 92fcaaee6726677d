package tursohttp

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/store"
)

func (d *DB) UpsertPersonFact(ctx context.Context, upsert *store.PersonFact) error {
	_, err := d.execute(ctx,
		`INSERT INTO person_facts (key, value, category)
		VALUES (:key, :value, :category)
		ON CONFLICT(key) DO UPDATE SET value = :value, category = :category`,
		map[string]any{
			"key":      upsert.Key,
			"value":    upsert.Value,
			"category": upsert.Category,
		})
	if err != nil {
		return errors.Wrap(err, "failed to upsert person fact")
	}
	return nil
}

func (d *DB) ListPersonFacts(ctx context.Context, find *store.FindPersonFact) ([]*store.PersonFact, error) {
	where, args := []string{"1 = 1"}, map[string]any{}
	if v := find.Key; v != nil {
		where, args["key"] = append(where, "key = :key"), *v
	}

	sql := `SELECT key, value, category
		FROM person_facts
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY key ASC`

	rs, err := d.execute(ctx, sql, args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query person facts")
	}

	list := make([]*store.PersonFact, 0, len(rs.rows))
	for _, row := range rs.rows {
		list = append(list, &store.PersonFact{
			Key:      cellString(row, "key"),
			Value:    cellString(row, "value"),
			Category: cellNullString(row, "category"),
		})
	}
	return list, nil
}
