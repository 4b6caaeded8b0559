// Package conversation records every user and agent turn of one session in a
// single JSON file, in arrival order. One Log handle per session; sessions
// never share a file.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrNotInitialized is returned when a Log is used before Open. Callers must
// not assume a default log location.
var ErrNotInitialized = errors.New("conversation log not initialized")

// Roles and channels for a conversation entry.
const (
	RoleUser  = "user"
	RoleAgent = "agent"

	ChannelVoice = "voice"
	ChannelText  = "text"
)

// Entry is one recorded turn. Immutable once written.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Channel   string `json:"channel"`
}

// document is the on-disk shape of a session log.
type document struct {
	Conversation []Entry `json:"conversation"`
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Log is the session's conversation log. The zero value is unusable; obtain
// one from Open and pass it explicitly to whatever needs to record turns.
type Log struct {
	path  string
	clock Clock
}

// Open creates a fresh, empty session log `conversation_<YYYYMMDD_HHMMSS>.json`
// inside dir, creating dir if needed. Fails when the directory cannot be
// created or written — that is a deployment problem the operator must fix, so
// it is surfaced rather than swallowed.
func Open(dir string) (*Log, error) {
	return openWithClock(dir, realClock{})
}

// OpenWithClock is Open with a custom clock (for testing).
func OpenWithClock(dir string, clock Clock) (*Log, error) {
	return openWithClock(dir, clock)
}

func openWithClock(dir string, clock Clock) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating conversations dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("conversation_%s.json", clock.Now().Format("20060102_150405")))
	l := &Log{path: path, clock: clock}
	if err := l.write(document{Conversation: []Entry{}}); err != nil {
		return nil, fmt.Errorf("initializing conversation log: %w", err)
	}

	slog.Info("conversation log opened", "path", path)
	return l, nil
}

// Path returns the active log file location.
func (l *Log) Path() (string, error) {
	if l == nil || l.path == "" {
		return "", ErrNotInitialized
	}
	return l.path, nil
}

// Append records one turn: the full log is read, the entry appended, and the
// whole document written back atomically, so a concurrent reader sees either
// the old log or the new one, never a partial entry. If the existing file is
// unreadable or corrupt the log restarts from just the incoming entry —
// losing history is acceptable, losing the current turn is not. The entry's
// timestamp is filled in if empty.
func (l *Log) Append(e Entry) error {
	if l == nil || l.path == "" {
		return ErrNotInitialized
	}
	if e.Timestamp == "" {
		e.Timestamp = l.clock.Now().Format(time.RFC3339)
	}

	doc := l.read()
	doc.Conversation = append(doc.Conversation, e)

	if err := l.write(doc); err != nil {
		slog.Warn("conversation log write failed, retrying once", "path", l.path, "error", err)
		if err := l.write(doc); err != nil {
			return fmt.Errorf("writing conversation log: %w", err)
		}
	}
	return nil
}

// Entries returns the recorded turns, oldest first.
func (l *Log) Entries() ([]Entry, error) {
	if l == nil || l.path == "" {
		return nil, ErrNotInitialized
	}
	return l.read().Conversation, nil
}

func (l *Log) read() document {
	data, err := os.ReadFile(l.path)
	if err != nil {
		slog.Warn("could not read conversation log, starting fresh", "path", l.path, "error", err)
		return document{}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("conversation log corrupt, starting fresh", "path", l.path, "error", err)
		return document{}
	}
	return doc
}

func (l *Log) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
