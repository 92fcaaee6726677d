// Package api exposes the JSON endpoints consumed by the browser UIs:
// the Joe-bot chat proxy, the session message log, and the todo CRUD.
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/hello-ai/joebot/internal/profile"
	"github.com/hello-ai/joebot/server/ai"
	"github.com/hello-ai/joebot/server/middleware"
	"github.com/hello-ai/joebot/server/session"
	"github.com/hello-ai/joebot/store"
)

type APIService struct {
	Profile  *profile.Profile
	Store    *store.Store
	Provider *ai.Provider // nil until an API key is configured

	rateLimiter *middleware.RateLimiter
}

func NewAPIService(profile *profile.Profile, store *store.Store) *APIService {
	service := &APIService{
		Profile:     profile,
		Store:       store,
		rateLimiter: middleware.NewRateLimiter(),
	}

	if profile.OpenAIAPIKey != "" {
		cfg := ai.DefaultConfig()
		cfg.APIKey = profile.OpenAIAPIKey
		if provider, err := ai.NewProvider(cfg); err == nil {
			service.Provider = provider
		}
	}
	return service
}

// RegisterRoutes mounts all endpoints under /api. Every route runs behind
// the session middleware, so handlers always see a session id and every
// response echoes the session cookie.
func (s *APIService) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", session.Middleware())

	g.POST("/chat", s.PostChat, s.rateLimiter.ChatRateLimit())
	g.OPTIONS("/chat", s.ChatPreflight)

	g.GET("/messages", s.ListMessages)
	g.DELETE("/messages", s.ClearMessages)

	g.GET("/todos", s.ListTodos)
	g.POST("/todos", s.CreateTodo)
	g.PATCH("/todos/:id", s.UpdateTodo)
	g.DELETE("/todos/:id", s.DeleteTodo)
}

// errorJSON is the uniform error body shape.
func errorJSON(message string) map[string]string {
	return map[string]string{"error": message}
}
