package store

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/hello-ai/joebot/internal/profile"
)

// ErrTodoNotFound is returned when a todo lookup or update targets a row
// that does not exist.
var ErrTodoNotFound = errors.New("todo not found")

// RetentionHorizon is how long rows are kept before the lazy sweep removes
// them: 90 days, compared against epoch-millisecond timestamps.
const RetentionHorizon = 90 * 24 * time.Hour

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// schemaGroup collapses concurrent EnsureSchema calls into a single
	// in-flight attempt; schemaReady short-circuits once one succeeded.
	schemaGroup singleflight.Group
	schemaReady atomic.Bool
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateChatMessage(ctx context.Context, create *ChatMessage) error {
	// A failed append would silently lose a conversation turn, so this is
	// the one write whose error always reaches the caller.
	if err := s.driver.CreateChatMessage(ctx, create); err != nil {
		return errors.Wrap(err, "failed to create chat message")
	}
	return nil
}

func (s *Store) ListChatMessages(ctx context.Context, find *FindChatMessage) ([]*ChatMessage, error) {
	return s.driver.ListChatMessages(ctx, find)
}

// ClearChatSession deletes every message belonging to the session.
func (s *Store) ClearChatSession(ctx context.Context, sessionID string) error {
	_, err := s.driver.DeleteChatMessages(ctx, &DeleteChatMessage{SessionID: &sessionID})
	return err
}

// SweepExpiredChatMessages deletes messages strictly older than the
// retention horizon and returns how many rows were removed. It runs
// opportunistically on message-list reads, not on a timer.
func (s *Store) SweepExpiredChatMessages(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionHorizon).UnixMilli()
	return s.driver.DeleteChatMessages(ctx, &DeleteChatMessage{CreatedTsBefore: &cutoff})
}

func (s *Store) CreateTodo(ctx context.Context, create *Todo) error {
	return s.driver.CreateTodo(ctx, create)
}

func (s *Store) ListTodos(ctx context.Context, find *FindTodo) ([]*Todo, error) {
	return s.driver.ListTodos(ctx, find)
}

// GetTodoByID returns the todo regardless of session; the route layer is
// responsible for the ownership check before mutating.
func (s *Store) GetTodoByID(ctx context.Context, id string) (*Todo, error) {
	todos, err := s.driver.ListTodos(ctx, &FindTodo{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, nil
	}
	return todos[0], nil
}

func (s *Store) UpdateTodo(ctx context.Context, update *UpdateTodo) (*Todo, error) {
	return s.driver.UpdateTodo(ctx, update)
}

func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	_, err := s.driver.DeleteTodos(ctx, &DeleteTodo{ID: &id})
	return err
}

// SweepExpiredCompletedTodos deletes todos that have been completed for
// longer than the retention horizon. Active todos are never eligible; a
// todo toggled back to active loses its completion timestamp and with it
// its sweep eligibility.
func (s *Store) SweepExpiredCompletedTodos(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionHorizon).UnixMilli()
	return s.driver.DeleteTodos(ctx, &DeleteTodo{CompletedTsBefore: &cutoff})
}

func (s *Store) ListPersonFacts(ctx context.Context) ([]*PersonFact, error) {
	return s.driver.ListPersonFacts(ctx, &FindPersonFact{})
}

func (s *Store) UpsertPersonFact(ctx context.Context, upsert *PersonFact) error {
	return s.driver.UpsertPersonFact(ctx, upsert)
}

// SeedPersonFacts upserts the baked-in persona facts when the table is empty
// or under-populated versus the seed list. Safe to call on every chat
// request; it no-ops once the table has caught up.
func (s *Store) SeedPersonFacts(ctx context.Context) error {
	facts, err := s.ListPersonFacts(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list person facts")
	}
	if len(facts) >= len(defaultPersonFacts) {
		return nil
	}
	for _, f := range defaultPersonFacts {
		if err := s.UpsertPersonFact(ctx, f); err != nil {
			return errors.Wrapf(err, "failed to upsert person fact %q", f.Key)
		}
	}
	slog.Info("seeded person facts", slog.Int("count", len(defaultPersonFacts)))
	return nil
}
