package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hello-ai/joebot/server/session"
	"github.com/hello-ai/joebot/store"
)

type messagePayload struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
	Ts   int64  `json:"ts"`
	Kind string `json:"kind"`
}

// ListMessages returns the session's conversation, oldest first. Reading
// the list is also the retention trigger: expired messages across all
// sessions are swept before the select.
func (s *APIService) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.FromContext(c)
	s.Store.EnsureSchema(ctx)

	if _, err := s.Store.SweepExpiredChatMessages(ctx); err != nil {
		slog.Warn("chat retention sweep failed", slog.String("error", err.Error()))
	}

	rows, err := s.Store.ListChatMessages(ctx, &store.FindChatMessage{SessionID: &sessionID})
	if err != nil {
		slog.Error("failed to list chat messages", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to load messages."))
	}

	messages := make([]messagePayload, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messagePayload{
			ID:   row.ID,
			Role: string(row.Role),
			Text: row.Content,
			Ts:   row.CreatedTs,
			Kind: "normal",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": messages})
}

// ClearMessages deletes the session's entire chat history.
func (s *APIService) ClearMessages(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.FromContext(c)
	s.Store.EnsureSchema(ctx)

	if err := s.Store.ClearChatSession(ctx, sessionID); err != nil {
		slog.Error("failed to clear chat session", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to clear messages."))
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
