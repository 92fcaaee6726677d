package store

type ChatMessageRole string

const (
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant"
)

// ChatMessage is one turn of a session's conversation. Rows are append-only;
// they are never mutated after insert.
type ChatMessage struct {
	ID        string
	SessionID string
	Role      ChatMessageRole
	Content   string
	// CreatedTs is epoch milliseconds. Insertion order by CreatedTs defines
	// conversation order; ties break arbitrarily.
	CreatedTs int64
}

type FindChatMessage struct {
	SessionID *string
}

type DeleteChatMessage struct {
	SessionID *string
	// CreatedTsBefore deletes rows strictly older than the cutoff (millis).
	CreatedTsBefore *int64
}
