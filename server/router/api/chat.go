package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hello-ai/joebot/server/ai"
	"github.com/hello-ai/joebot/server/internal/observability"
	"github.com/hello-ai/joebot/server/session"
	"github.com/hello-ai/joebot/server/upload"
	"github.com/hello-ai/joebot/store"
)

// ChatPreflight answers CORS preflight for the chat endpoint; an unhandled
// preflight surfaces in the browser as a 405.
func (s *APIService) ChatPreflight(c echo.Context) error {
	h := c.Response().Header()
	h.Set("Allow", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Access-Control-Max-Age", "86400")
	return c.NoContent(http.StatusNoContent)
}

// PostChat handles one conversation turn: validate the input, persist the
// user's message, proxy the completion to the hosted LLM with the Joe
// persona, and persist the assistant's reply.
func (s *APIService) PostChat(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := session.FromContext(c)
	logger := observability.NewRequestLogger(sessionID)

	// Fail fast with a clear error when the serverless deployment is
	// missing its database configuration.
	if s.Profile.Serverless && s.Profile.TursoDatabaseURL == "" {
		logger.Logger.Error("TURSO_DATABASE_URL not set in serverless deployment")
		return c.JSON(http.StatusInternalServerError, errorJSON(
			"Database not configured. Set TURSO_DATABASE_URL and TURSO_AUTH_TOKEN in the project settings."))
	}

	body, err := upload.ParseChatBody(c.Request())
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON("Invalid request body."))
	}
	if body.Message == "" && len(body.Attachments) == 0 {
		return c.JSON(http.StatusBadRequest, errorJSON("Missing 'message' or image attachments."))
	}
	if err := upload.ValidateImages(body.Attachments); err != nil {
		return c.JSON(http.StatusBadRequest, errorJSON(err.Error()))
	}

	s.Store.EnsureSchema(ctx)
	if err := s.Store.SeedPersonFacts(ctx); err != nil {
		logger.Logger.Warn("person facts seed skipped", slog.String("error", err.Error()))
	}

	content := storedContent(body.Message, len(body.Attachments))

	// CI runs never call external services; the endpoint echoes instead.
	if s.Profile.CI {
		now := time.Now().UnixMilli()
		reply := "CI echo: " + content
		if err := s.appendTurns(c, sessionID, content, reply, fmt.Sprintf("ci-%d", now), fmt.Sprintf("ci-%d-r", now)); err != nil {
			logger.Logger.Error("failed to store CI chat turn", slog.String("error", err.Error()))
			return c.JSON(http.StatusInternalServerError, errorJSON("Failed to store message."))
		}
		return c.JSON(http.StatusOK, map[string]string{"text": reply})
	}

	if s.Provider == nil {
		return c.JSON(http.StatusInternalServerError, errorJSON(
			"OPENAI_API_KEY not found. Configure it for this deployment and redeploy."))
	}

	history, err := s.Store.ListChatMessages(ctx, &store.FindChatMessage{SessionID: &sessionID})
	if err != nil {
		logger.Logger.Error("failed to load chat history", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to load chat history."))
	}
	facts, err := s.Store.ListPersonFacts(ctx)
	if err != nil {
		logger.Logger.Warn("failed to load person facts", slog.String("error", err.Error()))
		facts = nil
	}

	userMsg := &store.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      store.ChatMessageRoleUser,
		Content:   content,
		CreatedTs: time.Now().UnixMilli(),
	}
	if err := s.Store.CreateChatMessage(ctx, userMsg); err != nil {
		logger.Logger.Error("failed to store user message", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to store message."))
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, ai.Turn{Role: string(m.Role), Content: m.Content})
	}
	promptFacts := make([]ai.Fact, 0, len(facts))
	for _, f := range facts {
		promptFacts = append(promptFacts, ai.Fact{Key: f.Key, Value: f.Value})
	}

	text, err := s.Provider.Complete(ctx, &ai.CompletionRequest{
		System:    ai.BuildSystemPrompt(ai.NextOpeningPhrase(), promptFacts, len(body.Attachments) > 0),
		History:   turns,
		UserText:  body.Message,
		ImageURLs: upload.DataURLs(body.Attachments),
	})
	if err != nil {
		// Full detail stays in the log; the client gets a generic failure.
		logger.Logger.Error("chat completion failed", slog.String("error", err.Error()), logger.Elapsed())
		return c.JSON(http.StatusInternalServerError, errorJSON("Chat is unavailable right now. Try again."))
	}

	assistantMsg := &store.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      store.ChatMessageRoleAssistant,
		Content:   text,
		CreatedTs: time.Now().UnixMilli(),
	}
	if err := s.Store.CreateChatMessage(ctx, assistantMsg); err != nil {
		logger.Logger.Error("failed to store assistant message", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, errorJSON("Failed to store message."))
	}

	logger.Logger.Info("chat turn completed", logger.Elapsed())
	return c.JSON(http.StatusOK, map[string]string{"text": text})
}

// appendTurns stores a user/assistant pair; append failures are never
// swallowed.
func (s *APIService) appendTurns(c echo.Context, sessionID, userContent, reply, userID, replyID string) error {
	ctx := c.Request().Context()
	if err := s.Store.CreateChatMessage(ctx, &store.ChatMessage{
		ID: userID, SessionID: sessionID, Role: store.ChatMessageRoleUser, Content: userContent, CreatedTs: time.Now().UnixMilli(),
	}); err != nil {
		return err
	}
	return s.Store.CreateChatMessage(ctx, &store.ChatMessage{
		ID: replyID, SessionID: sessionID, Role: store.ChatMessageRoleAssistant, Content: reply, CreatedTs: time.Now().UnixMilli(),
	})
}

// storedContent is what gets persisted for the user's turn: attachments are
// summarized as a photo count since raw images are never stored.
func storedContent(message string, photoCount int) string {
	if photoCount == 0 {
		return message
	}
	plural := ""
	if photoCount > 1 {
		plural = "s"
	}
	if message == "" {
		return fmt.Sprintf("%d photo%s", photoCount, plural)
	}
	return fmt.Sprintf("%s · %d photo%s", message, photoCount, plural)
}
