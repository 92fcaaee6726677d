package store

// Todo is a per-session task. CompletedTs is non-nil iff Completed is true;
// the API layer maintains that relationship by setting both together.
type Todo struct {
	ID        string
	SessionID string
	Text      string
	Completed bool
	// CompletedTs is epoch milliseconds, nil while the todo is active.
	CompletedTs *int64
	// CreatedTs is epoch milliseconds.
	CreatedTs int64
}

type FindTodo struct {
	ID        *string
	SessionID *string
}

// UpdateTodo is a partial update; only non-nil fields change. When Completed
// is set, CompletedTs is written alongside it (nil clears the column), so a
// toggle updates both atomically in one statement.
type UpdateTodo struct {
	ID          string
	Text        *string
	Completed   *bool
	CompletedTs *int64
}

type DeleteTodo struct {
	ID *string
	// CompletedTsBefore deletes completed rows whose CompletedTs is strictly
	// older than the cutoff (millis). Active rows are never eligible.
	CompletedTsBefore *int64
}
