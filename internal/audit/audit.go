// Package audit provides append-only structured logging for secret and
// access-control operations.
//
// Every secret access (read, write, delete) and every access-control
// creation attempt is recorded to ~/.gatekeep/audit.log as newline-delimited
// JSON.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Action describes what happened.
type Action string

const (
	ActionSecretRead          Action = "secret_read"
	ActionSecretWrite         Action = "secret_write"
	ActionSecretDelete        Action = "secret_delete"
	ActionAccessControlCreate Action = "access_control_create"
)

// Entry is a single audit log record.
type Entry struct {
	Timestamp  time.Time `json:"ts"`
	Action     Action    `json:"action"`
	Key        string    `json:"key,omitempty"`
	Actor      string    `json:"actor,omitempty"`  // "cli", "watch"
	Caller     string    `json:"caller,omitempty"` // parent process name
	Protection string    `json:"protection,omitempty"`
	Options    string    `json:"options,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Logger writes audit entries to an append-only file.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	caller string
}

// NewLogger creates or opens an audit log file for appending.
func NewLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &Logger{file: f, path: path, caller: parentProcessName()}, nil
}

// Log writes an audit entry. Timestamp and Caller are filled in when unset.
func (l *Logger) Log(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Caller == "" {
		entry.Caller = l.caller
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the audit log file.
func (l *Logger) Close() error {
	return l.file.Close()
}
