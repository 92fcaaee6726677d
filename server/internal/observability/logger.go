// Package observability carries request-scoped structured logging.
package observability

import (
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldSessionID is the field name for session ID.
	LogFieldSessionID = "session_id"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
)

// RequestLogger tags every log line of one request with a generated request
// id and the session it serves.
type RequestLogger struct {
	RequestID string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestLogger creates a request logger with a fresh request id.
func NewRequestLogger(sessionID string) *RequestLogger {
	requestID := shortuuid.New()
	return &RequestLogger{
		RequestID: requestID,
		StartTime: time.Now(),
		Logger: slog.Default().With(
			slog.String(LogFieldRequestID, requestID),
			slog.String(LogFieldSessionID, sessionID),
		),
	}
}

// Elapsed returns attrs for the time spent since the request started.
func (r *RequestLogger) Elapsed() slog.Attr {
	return slog.Int64(LogFieldDuration, time.Since(r.StartTime).Milliseconds())
}
