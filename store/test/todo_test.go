package test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/hello-ai/joebot/store"
)

func createTestingTodo(ctx context.Context, t *testing.T, ts *store.Store, id, sessionID, text string) *store.Todo {
	todo := &store.Todo{
		ID:        id,
		SessionID: sessionID,
		Text:      text,
		CreatedTs: time.Now().UnixMilli(),
	}
	require.NoError(t, ts.CreateTodo(ctx, todo))
	return todo
}

func TestTodoCreateAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	sessionID := "todo-session"
	createTestingTodo(ctx, t, ts, "t1", sessionID, "buy milk")
	createTestingTodo(ctx, t, ts, "t2", sessionID, "walk the dogs")
	createTestingTodo(ctx, t, ts, "t3", "other-session", "not mine")

	todos, err := ts.ListTodos(ctx, &store.FindTodo{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	require.Equal(t, "buy milk", todos[0].Text)
	require.False(t, todos[0].Completed)
	require.Nil(t, todos[0].CompletedTs)
}

func TestGetTodoByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created := createTestingTodo(ctx, t, ts, "get-t1", "get-session", "find me")

	todo, err := ts.GetTodoByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, todo)
	require.Equal(t, created.Text, todo.Text)
	require.Equal(t, created.SessionID, todo.SessionID)

	// Missing rows come back as nil, not an error.
	todo, err = ts.GetTodoByID(ctx, "no-such-id")
	require.NoError(t, err)
	require.Nil(t, todo)
}

func TestTodoUpdateText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created := createTestingTodo(ctx, t, ts, "text-t1", "text-session", "old text")

	newText := "new text"
	updated, err := ts.UpdateTodo(ctx, &store.UpdateTodo{ID: created.ID, Text: &newText})
	require.NoError(t, err)
	require.Equal(t, newText, updated.Text)
	require.False(t, updated.Completed)
	require.Equal(t, created.CreatedTs, updated.CreatedTs)
}

// TestTodoCompletionRoundTrip toggles a todo completed and back, checking
// that completed_at appears and disappears with the flag.
func TestTodoCompletionRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created := createTestingTodo(ctx, t, ts, "toggle-t1", "toggle-session", "toggle me")

	completed := true
	completedTs := time.Now().UnixMilli()
	updated, err := ts.UpdateTodo(ctx, &store.UpdateTodo{ID: created.ID, Completed: &completed, CompletedTs: &completedTs})
	require.NoError(t, err)
	require.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedTs)
	require.Equal(t, completedTs, *updated.CompletedTs)

	// Reopening clears the completion timestamp.
	reopened := false
	updated, err = ts.UpdateTodo(ctx, &store.UpdateTodo{ID: created.ID, Completed: &reopened})
	require.NoError(t, err)
	require.False(t, updated.Completed)
	require.Nil(t, updated.CompletedTs)

	// Everything else survived the round trip.
	require.Equal(t, created.Text, updated.Text)
	require.Equal(t, created.CreatedTs, updated.CreatedTs)
	require.Equal(t, created.SessionID, updated.SessionID)
}

// TestTodoCompletionInvariant checks completed and completed_at never drift
// apart over an arbitrary update sequence.
func TestTodoCompletionInvariant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created := createTestingTodo(ctx, t, ts, "inv-t1", "inv-session", "invariant")

	steps := []bool{true, true, false, true, false, false}
	for _, want := range steps {
		update := &store.UpdateTodo{ID: created.ID, Completed: &want}
		if want {
			now := time.Now().UnixMilli()
			update.CompletedTs = &now
		}
		updated, err := ts.UpdateTodo(ctx, update)
		require.NoError(t, err)
		require.Equal(t, want, updated.Completed)
		if want {
			require.NotNil(t, updated.CompletedTs)
		} else {
			require.Nil(t, updated.CompletedTs)
		}
	}
}

func TestTodoUpdateNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	text := "nothing here"
	_, err := ts.UpdateTodo(ctx, &store.UpdateTodo{ID: "missing", Text: &text})
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrTodoNotFound))
}

func TestTodoDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	sessionID := "delete-session"
	created := createTestingTodo(ctx, t, ts, "del-t1", sessionID, "delete me")
	createTestingTodo(ctx, t, ts, "del-t2", sessionID, "keep me")

	require.NoError(t, ts.DeleteTodo(ctx, created.ID))

	todos, err := ts.ListTodos(ctx, &store.FindTodo{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	require.Equal(t, "del-t2", todos[0].ID)
}

func TestSweepExpiredCompletedTodos(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	sessionID := "todo-sweep-session"
	now := time.Now()
	oldTs := now.Add(-store.RetentionHorizon - time.Hour).UnixMilli()
	freshTs := now.UnixMilli()

	// Completed long ago: eligible.
	expired := &store.Todo{ID: "sw-expired", SessionID: sessionID, Text: "done ages ago",
		Completed: true, CompletedTs: &oldTs, CreatedTs: oldTs}
	// Completed recently: kept.
	recent := &store.Todo{ID: "sw-recent", SessionID: sessionID, Text: "done today",
		Completed: true, CompletedTs: &freshTs, CreatedTs: freshTs}
	// Old but never completed: age alone does not qualify.
	active := &store.Todo{ID: "sw-active", SessionID: sessionID, Text: "still open",
		CreatedTs: oldTs}
	for _, todo := range []*store.Todo{expired, recent, active} {
		require.NoError(t, ts.CreateTodo(ctx, todo))
	}

	deleted, err := ts.SweepExpiredCompletedTodos(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	todos, err := ts.ListTodos(ctx, &store.FindTodo{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	require.Equal(t, "sw-active", todos[0].ID)
	require.Equal(t, "sw-recent", todos[1].ID)
}

// TestReopenedTodoEscapesSweep toggles an anciently-completed todo back to
// active; losing completed_at must take it out of sweep scope.
func TestReopenedTodoEscapesSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	oldTs := time.Now().Add(-store.RetentionHorizon - time.Hour).UnixMilli()
	todo := &store.Todo{ID: "reopen-t1", SessionID: "reopen-session", Text: "reopened",
		Completed: true, CompletedTs: &oldTs, CreatedTs: oldTs}
	require.NoError(t, ts.CreateTodo(ctx, todo))

	reopened := false
	_, err := ts.UpdateTodo(ctx, &store.UpdateTodo{ID: todo.ID, Completed: &reopened})
	require.NoError(t, err)

	deleted, err := ts.SweepExpiredCompletedTodos(ctx)
	require.NoError(t, err)
	require.Zero(t, deleted)

	kept, err := ts.GetTodoByID(ctx, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
}

func TestTodoDeleteCutoffBoundary(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	sessionID := "todo-boundary-session"
	cutoff := time.Now().UnixMilli()

	for i, completedTs := range []int64{cutoff - 1, cutoff, cutoff + 1} {
		ts64 := completedTs
		todo := &store.Todo{
			ID:          fmt.Sprintf("b-t%d", i),
			SessionID:   sessionID,
			Text:        "boundary",
			Completed:   true,
			CompletedTs: &ts64,
			CreatedTs:   completedTs,
		}
		require.NoError(t, ts.CreateTodo(ctx, todo))
	}

	deleted, err := ts.GetDriver().DeleteTodos(ctx, &store.DeleteTodo{CompletedTsBefore: &cutoff})
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	todos, err := ts.ListTodos(ctx, &store.FindTodo{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	require.Equal(t, cutoff, *todos[0].CompletedTs)
	require.Equal(t, cutoff+1, *todos[1].CompletedTs)
}
