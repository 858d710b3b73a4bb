package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogEntry is a single logged event. Exactly one of the event fields is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	SessionEnd   *SessionEnd   `json:"session_end,omitempty"`
	LoginAttempt *LoginAttempt `json:"login_attempt,omitempty"`
	CommandRun   *CommandRun   `json:"command_run,omitempty"`
	CommandError *CommandError `json:"command_error,omitempty"`
}

// Event is one of the LogEntry event types.
type Event interface {
	attach(le *LogEntry)
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	Username   string `json:"username"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	PTY        bool   `json:"pty"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

// SessionEnd marks the end of an interactive session.
type SessionEnd struct{}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }

// LoginAttempt records an authentication attempt against the server.
type LoginAttempt struct {
	Username   string `json:"username"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Success    bool   `json:"success"`
	Throttled  bool   `json:"throttled,omitempty"`
}

func (e *LoginAttempt) attach(le *LogEntry) { le.LoginAttempt = e }

// CommandRun records an executed command and its collected exit status.
type CommandRun struct {
	Argv       []string `json:"argv"`
	ExitStatus int      `json:"exit_status"`
	Builtin    bool     `json:"builtin,omitempty"`
}

func (e *CommandRun) attach(le *LogEntry) { le.CommandRun = e }

// CommandError records a command that was abandoned before any process
// was created.
type CommandError struct {
	Argv  []string `json:"argv"`
	Error string   `json:"error"`
}

func (e *CommandError) attach(le *LogEntry) { le.CommandError = e }

// LogRecorder is a callback that stores entries in an external
// datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction events for the launcher.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesRecorder creates a Logger that exports entries in newline
// delimited JSON object format.
func NewJSONLinesRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

func (l *Logger) recordEvent(sessionID string, event Event) error {
	le := &LogEntry{
		TimestampMicros: time.Now().UnixMicro(),
		SessionID:       sessionID,
	}
	event.attach(le)

	return l.Record(le)
}

// NewSession creates a logger with an attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// Sessionless creates a logger without a session ID for events that
// happen outside any session.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

func (l *SessionLogger) Record(event Event) error {
	return l.recordEvent(l.sessionID, event)
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}
