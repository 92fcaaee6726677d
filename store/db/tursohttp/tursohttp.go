// Package tursohttp is a raw Turso HTTP driver. It bypasses the native
// libsql client, which 400s under the serverless runtime, and speaks the
// v2/pipeline API directly: one POST per logical statement, named
// parameters in, columns and rows back.
package tursohttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/hello-ai/joebot/internal/profile"
	"github.com/hello-ai/joebot/store"
)

type DB struct {
	client  *http.Client
	baseURL string
	token   string
	profile *profile.Profile
}

// NewDB validates the remote configuration and returns the driver. There is
// no connection to open; every statement is its own request.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	baseURL := profile.RemoteBaseURL()
	if baseURL == "" {
		return nil, errors.New("remote database URL is not configured")
	}
	if profile.TursoAuthToken == "" {
		return nil, errors.New("remote database auth token is not configured")
	}
	return &DB{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   profile.TursoAuthToken,
		profile: profile,
	}, nil
}

func (d *DB) Close() error {
	// Stateless protocol; nothing to release.
	return nil
}

func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range store.SchemaStatements() {
		if _, err := d.execute(ctx, stmt, nil); err != nil {
			return errors.Wrap(err, "failed to execute schema statement")
		}
	}
	return nil
}

// Wire format of the v2/pipeline API.

type pipelineRequest struct {
	Requests []pipelineStep `json:"requests"`
}

type pipelineStep struct {
	Type string         `json:"type"`
	Stmt *pipelineStmt  `json:"stmt,omitempty"`
}

type pipelineStmt struct {
	SQL       string     `json:"sql"`
	NamedArgs []namedArg `json:"named_args,omitempty"`
}

type namedArg struct {
	Name  string    `json:"name"`
	Value wireValue `json:"value"`
}

// wireValue is a typed cell. Integers travel as decimal strings.
type wireValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type pipelineResponse struct {
	Results []struct {
		Type     string `json:"type"`
		Error    *struct {
			Message string `json:"message"`
		} `json:"error,omitempty"`
		Response *struct {
			Result *wireResult `json:"result,omitempty"`
		} `json:"response,omitempty"`
	} `json:"results"`
}

type wireResult struct {
	Cols             []wireCol     `json:"cols"`
	Rows             [][]wireValue `json:"rows"`
	AffectedRowCount int64         `json:"affected_row_count"`
}

// wireCol tolerates both the `{"name": "id"}` object form and a bare string.
type wireCol struct {
	Name string
}

func (c *wireCol) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Name = obj.Name
	return nil
}

func toWireValue(v any) (wireValue, error) {
	switch val := v.(type) {
	case nil:
		return wireValue{Type: "null", Value: ""}, nil
	case int64:
		return wireValue{Type: "integer", Value: strconv.FormatInt(val, 10)}, nil
	case int:
		return wireValue{Type: "integer", Value: strconv.Itoa(val)}, nil
	case bool:
		if val {
			return wireValue{Type: "integer", Value: "1"}, nil
		}
		return wireValue{Type: "integer", Value: "0"}, nil
	case string:
		return wireValue{Type: "text", Value: val}, nil
	case *int64:
		if val == nil {
			return wireValue{Type: "null", Value: ""}, nil
		}
		return wireValue{Type: "integer", Value: strconv.FormatInt(*val, 10)}, nil
	case *string:
		if val == nil {
			return wireValue{Type: "null", Value: ""}, nil
		}
		return wireValue{Type: "text", Value: *val}, nil
	default:
		return wireValue{}, errors.Errorf("unsupported named arg type %T", v)
	}
}

// resultSet is the decoded response of one statement: column-keyed rows plus
// the affected row count for writes.
type resultSet struct {
	rows     []map[string]wireValue
	affected int64
}

// execute runs a single SQL statement with named parameters against the
// remote database. Synchronous request/response, no batching across calls.
func (d *DB) execute(ctx context.Context, sql string, args map[string]any) (*resultSet, error) {
	stmt := &pipelineStmt{SQL: sql}
	for name, v := range args {
		value, err := toWireValue(v)
		if err != nil {
			return nil, err
		}
		stmt.NamedArgs = append(stmt.NamedArgs, namedArg{Name: name, Value: value})
	}

	payload, err := json.Marshal(&pipelineRequest{
		Requests: []pipelineStep{
			{Type: "execute", Stmt: stmt},
			{Type: "close"},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal pipeline request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v2/pipeline", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build pipeline request")
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read pipeline response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var decoded pipelineResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode pipeline response")
	}
	if len(decoded.Results) == 0 {
		return nil, errors.New("empty pipeline response")
	}
	first := decoded.Results[0]
	if first.Type == "error" || first.Error != nil {
		msg := "unknown error"
		if first.Error != nil {
			msg = first.Error.Message
		}
		return nil, errors.Errorf("statement failed: %s", msg)
	}
	if first.Response == nil || first.Response.Result == nil {
		return &resultSet{}, nil
	}

	result := first.Response.Result
	rs := &resultSet{affected: result.AffectedRowCount}
	for _, row := range result.Rows {
		rowMap := make(map[string]wireValue, len(result.Cols))
		for i, col := range result.Cols {
			if col.Name == "" || i >= len(row) {
				continue
			}
			rowMap[col.Name] = row[i]
		}
		rs.rows = append(rs.rows, rowMap)
	}
	return rs, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Cell readers. The protocol types every value; integers arrive as strings.

func cellString(row map[string]wireValue, col string) string {
	return row[col].Value
}

func cellInt64(row map[string]wireValue, col string) (int64, error) {
	cell, ok := row[col]
	if !ok || cell.Type == "null" {
		return 0, fmt.Errorf("column %s is null", col)
	}
	return strconv.ParseInt(cell.Value, 10, 64)
}

func cellNullInt64(row map[string]wireValue, col string) (*int64, error) {
	cell, ok := row[col]
	if !ok || cell.Type == "null" {
		return nil, nil
	}
	v, err := strconv.ParseInt(cell.Value, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func cellNullString(row map[string]wireValue, col string) *string {
	cell, ok := row[col]
	if !ok || cell.Type == "null" {
		return nil
	}
	v := cell.Value
	return &v
}
