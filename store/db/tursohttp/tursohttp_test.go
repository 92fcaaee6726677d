package tursohttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/hello-ai/joebot/internal/profile"
	"github.com/hello-ai/joebot/store"
)

// newTestDB points a driver at an httptest server so the wire format can be
// asserted without a real remote database.
func newTestDB(t *testing.T, handler http.HandlerFunc) *DB {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &DB{
		client:  srv.Client(),
		baseURL: srv.URL,
		token:   "test-token",
	}
}

func okResponse(result *wireResult) string {
	payload := map[string]any{
		"results": []map[string]any{
			{"type": "ok", "response": map[string]any{"result": result}},
			{"type": "ok"},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestNewDBValidation(t *testing.T) {
	t.Parallel()

	_, err := NewDB(nil)
	require.Error(t, err)

	// No remote URL configured.
	_, err = NewDB(&profile.Profile{TursoAuthToken: "tok"})
	require.Error(t, err)

	// URL but no token.
	_, err = NewDB(&profile.Profile{TursoDatabaseURL: "libsql://db.turso.io"})
	require.Error(t, err)

	driver, err := NewDB(&profile.Profile{
		TursoDatabaseURL: "libsql://db.turso.io",
		TursoAuthToken:   "tok",
	})
	require.NoError(t, err)
	require.NotNil(t, driver)
}

func TestExecuteRequestShape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var captured pipelineRequest
	var gotPath, gotAuth, gotContentType string
	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(okResponse(&wireResult{AffectedRowCount: 1})))
	})

	err := d.CreateChatMessage(ctx, &store.ChatMessage{
		ID:        "m1",
		SessionID: "s1",
		Role:      store.ChatMessageRoleUser,
		Content:   "hello",
		CreatedTs: 1700000000000,
	})
	require.NoError(t, err)

	require.Equal(t, "/v2/pipeline", gotPath)
	require.Equal(t, "Bearer test-token", gotAuth)
	require.Equal(t, "application/json", gotContentType)

	// One execute step followed by a close step.
	require.Len(t, captured.Requests, 2)
	require.Equal(t, "execute", captured.Requests[0].Type)
	require.Equal(t, "close", captured.Requests[1].Type)
	require.Nil(t, captured.Requests[1].Stmt)

	stmt := captured.Requests[0].Stmt
	require.NotNil(t, stmt)
	require.Contains(t, stmt.SQL, "INSERT INTO chat_messages")

	args := make(map[string]wireValue, len(stmt.NamedArgs))
	for _, a := range stmt.NamedArgs {
		args[a.Name] = a.Value
	}
	require.Equal(t, wireValue{Type: "text", Value: "m1"}, args["id"])
	require.Equal(t, wireValue{Type: "text", Value: "s1"}, args["sid"])
	require.Equal(t, wireValue{Type: "text", Value: "user"}, args["role"])
	// Integers travel as decimal strings.
	require.Equal(t, wireValue{Type: "integer", Value: "1700000000000"}, args["ts"])
}

func TestToWireValue(t *testing.T) {
	t.Parallel()

	n := int64(42)
	s := "hi"
	tests := []struct {
		in   any
		want wireValue
	}{
		{nil, wireValue{Type: "null", Value: ""}},
		{int64(7), wireValue{Type: "integer", Value: "7"}},
		{3, wireValue{Type: "integer", Value: "3"}},
		{true, wireValue{Type: "integer", Value: "1"}},
		{false, wireValue{Type: "integer", Value: "0"}},
		{"text", wireValue{Type: "text", Value: "text"}},
		{&n, wireValue{Type: "integer", Value: "42"}},
		{(*int64)(nil), wireValue{Type: "null", Value: ""}},
		{&s, wireValue{Type: "text", Value: "hi"}},
		{(*string)(nil), wireValue{Type: "null", Value: ""}},
	}
	for _, tt := range tests {
		got, err := toWireValue(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := toWireValue(3.14)
	require.Error(t, err)
}

func TestListTodosDecodesRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		// Column names in the object form, one completed_at null.
		w.Write([]byte(`{"results":[{"type":"ok","response":{"result":{
			"cols":[{"name":"id"},{"name":"session_id"},{"name":"text"},{"name":"completed"},{"name":"completed_at"},{"name":"created_at"}],
			"rows":[
				[{"type":"text","value":"t1"},{"type":"text","value":"s1"},{"type":"text","value":"milk"},{"type":"integer","value":"0"},{"type":"null"},{"type":"integer","value":"100"}],
				[{"type":"text","value":"t2"},{"type":"text","value":"s1"},{"type":"text","value":"dogs"},{"type":"integer","value":"1"},{"type":"integer","value":"200"},{"type":"integer","value":"150"}]
			],
			"affected_row_count":0}}},{"type":"ok"}]}`))
	})

	sessionID := "s1"
	todos, err := d.ListTodos(ctx, &store.FindTodo{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, todos, 2)

	require.Equal(t, "t1", todos[0].ID)
	require.Equal(t, "milk", todos[0].Text)
	require.False(t, todos[0].Completed)
	require.Nil(t, todos[0].CompletedTs)
	require.Equal(t, int64(100), todos[0].CreatedTs)

	require.True(t, todos[1].Completed)
	require.NotNil(t, todos[1].CompletedTs)
	require.Equal(t, int64(200), *todos[1].CompletedTs)
}

// TestListChatMessagesBareStringCols covers the alternate encoding where
// column names arrive as bare strings instead of objects.
func TestListChatMessagesBareStringCols(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"type":"ok","response":{"result":{
			"cols":["id","session_id","role","content","created_at"],
			"rows":[[{"type":"text","value":"m1"},{"type":"text","value":"s1"},{"type":"text","value":"assistant"},{"type":"text","value":"hey"},{"type":"integer","value":"123"}]],
			"affected_row_count":0}}},{"type":"ok"}]}`))
	})

	sessionID := "s1"
	messages, err := d.ListChatMessages(ctx, &store.FindChatMessage{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "m1", messages[0].ID)
	require.Equal(t, store.ChatMessageRoleAssistant, messages[0].Role)
	require.Equal(t, "hey", messages[0].Content)
	require.Equal(t, int64(123), messages[0].CreatedTs)
}

func TestUpdateTodoNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okResponse(&wireResult{
			Cols: []wireCol{{Name: "id"}},
			Rows: [][]wireValue{},
		})))
	})

	text := "nope"
	_, err := d.UpdateTodo(ctx, &store.UpdateTodo{ID: "missing", Text: &text})
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrTodoNotFound))
}

func TestDeleteChatMessagesAffectedCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okResponse(&wireResult{AffectedRowCount: 3})))
	})

	cutoff := time.Now().UnixMilli()
	deleted, err := d.DeleteChatMessages(ctx, &store.DeleteChatMessage{CreatedTsBefore: &cutoff})
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)
}

func TestExecuteStatementError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"type":"error","error":{"message":"no such table: todos"}}]}`))
	})

	_, err := d.ListTodos(ctx, &store.FindTodo{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no such table: todos")
}

func TestExecuteHTTPError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	err := d.CreateChatMessage(ctx, &store.ChatMessage{ID: "m1", SessionID: "s1", Role: store.ChatMessageRoleUser, Content: "x", CreatedTs: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 502")
}

func TestEnsureSchemaRunsEveryStatement(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var statements []string
	d := newTestDB(t, func(w http.ResponseWriter, r *http.Request) {
		var req pipelineRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		statements = append(statements, req.Requests[0].Stmt.SQL)
		w.Write([]byte(okResponse(&wireResult{})))
	})

	require.NoError(t, d.EnsureSchema(ctx))
	require.Len(t, statements, len(store.SchemaStatements()))
	for _, stmt := range statements {
		require.Contains(t, stmt, "CREATE TABLE IF NOT EXISTS")
	}
}
