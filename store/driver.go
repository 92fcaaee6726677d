package store

import (
	"context"
)

// Driver is an interface for store driver.
// It contains all methods that a store database backend should implement.
// Two backends exist: the embedded sqlite engine for local development and
// the remote HTTP SQL backend for serverless deployments. The backend is
// selected once at process start.
type Driver interface {
	Close() error

	// EnsureSchema creates the tables if they do not exist yet. It is
	// idempotent and safe to run against an already-initialized database.
	EnsureSchema(ctx context.Context) error

	// ChatMessage model related methods.
	CreateChatMessage(ctx context.Context, create *ChatMessage) error
	ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error)
	DeleteChatMessages(ctx context.Context, delete *DeleteChatMessage) (int64, error)

	// Todo model related methods.
	CreateTodo(ctx context.Context, create *Todo) error
	ListTodos(ctx context.Context, find *FindTodo) ([]*Todo, error)
	UpdateTodo(ctx context.Context, update *UpdateTodo) (*Todo, error)
	DeleteTodos(ctx context.Context, delete *DeleteTodo) (int64, error)

	// PersonFact model related methods.
	UpsertPersonFact(ctx context.Context, upsert *PersonFact) error
	ListPersonFacts(ctx context.Context, find *FindPersonFact) ([]*PersonFact, error)
}
