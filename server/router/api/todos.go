package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hello-ai/joebot/server/session"
	"github.com/hello-ai/joebot/store"
)

// todoListItem is the listing shape; timestamps stay server-side.
type todoListItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// todoPayload is the mutation response shape.
type todoPayload struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

// ListTodos returns the session's todos, oldest first, after lazily
// sweeping completed rows past the retention horizon.
func (s *APIService) ListTodos(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.FromContext(c)
	s.Store.EnsureSchema(ctx)

	if _, err := s.Store.SweepExpiredCompletedTodos(ctx); err != nil {
		slog.Warn("todo retention sweep failed", slog.String("error", err.Error()))
	}

	rows, err := s.Store.ListTodos(ctx, &store.FindTodo{SessionID: &sessionID})
	if err != nil {
		slog.Error("failed to list todos", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to load todos."))
	}

	todos := make([]todoListItem, 0, len(rows))
	for _, row := range rows {
		todos = append(todos, todoListItem{ID: row.ID, Text: row.Text, Completed: row.Completed})
	}
	return c.JSON(http.StatusOK, map[string]any{"todos": todos})
}

func (s *APIService) CreateTodo(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.FromContext(c)
	s.Store.EnsureSchema(ctx)

	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid body."))
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, errorJSON("Missing text."))
	}

	todo := &store.Todo{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Text:      text,
		Completed: false,
		CreatedTs: time.Now().UnixMilli(),
	}
	if err := s.Store.CreateTodo(ctx, todo); err != nil {
		slog.Error("failed to create todo", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to create todo."))
	}

	return c.JSON(http.StatusOK, map[string]any{"todo": todoPayload{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedTs,
	}})
}

// loadOwnedTodo fetches the row and enforces the ownership check the store
// deliberately leaves to the route layer. A nil todo means the response has
// already been written.
func (s *APIService) loadOwnedTodo(c echo.Context, id string) (*store.Todo, error) {
	ctx := c.Request().Context()
	todo, err := s.Store.GetTodoByID(ctx, id)
	if err != nil {
		slog.Error("failed to load todo", slog.String("error", err.Error()))
		return nil, c.JSON(http.StatusInternalServerError, errorJSON("Failed to load todo."))
	}
	if todo == nil {
		return nil, c.JSON(http.StatusNotFound, errorJSON("Not found"))
	}
	if todo.SessionID != session.FromContext(c) {
		return nil, c.JSON(http.StatusForbidden, errorJSON("Forbidden"))
	}
	return todo, nil
}

func (s *APIService) UpdateTodo(c echo.Context) error {
	ctx := c.Request().Context()
	s.Store.EnsureSchema(ctx)

	existing, err := s.loadOwnedTodo(c, c.Param("id"))
	if existing == nil {
		return err
	}

	var body struct {
		Text      *string `json:"text"`
		Completed *bool   `json:"completed"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid body."))
	}

	update := &store.UpdateTodo{ID: existing.ID}
	if body.Text != nil {
		// A whitespace-only edit keeps the previous text instead of
		// persisting an empty todo.
		text := strings.TrimSpace(*body.Text)
		if text == "" {
			text = existing.Text
		}
		update.Text = &text
	}
	if body.Completed != nil {
		update.Completed = body.Completed
		// completedAt travels with completed: set on completion, cleared on
		// reopening, so the pair never drifts apart.
		if *body.Completed {
			now := time.Now().UnixMilli()
			update.CompletedTs = &now
		}
	}

	if update.Text == nil && update.Completed == nil {
		return c.JSON(http.StatusOK, map[string]any{"todo": todoPayload{
			ID:        existing.ID,
			Text:      existing.Text,
			Completed: existing.Completed,
			CreatedAt: existing.CreatedTs,
		}})
	}

	updated, err := s.Store.UpdateTodo(ctx, update)
	if err != nil {
		if errors.Is(err, store.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, errorJSON("Not found"))
		}
		slog.Error("failed to update todo", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to update todo."))
	}

	return c.JSON(http.StatusOK, map[string]any{"todo": todoPayload{
		ID:        updated.ID,
		Text:      updated.Text,
		Completed: updated.Completed,
		CreatedAt: updated.CreatedTs,
	}})
}

func (s *APIService) DeleteTodo(c echo.Context) error {
	ctx := c.Request().Context()
	s.Store.EnsureSchema(ctx)

	existing, err := s.loadOwnedTodo(c, c.Param("id"))
	if existing == nil {
		return err
	}

	if err := s.Store.DeleteTodo(ctx, existing.ID); err != nil {
		slog.Error("failed to delete todo", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to delete todo."))
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
