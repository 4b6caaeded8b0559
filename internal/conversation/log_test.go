package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestOpenCreatesEmptyLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conversations")
	clock := fixedClock{t: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)}

	l, err := OpenWithClock(dir, clock)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	path, err := l.Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if filepath.Base(path) != "conversation_20250601_093000.json" {
		t.Errorf("path = %q, want conversation_20250601_093000.json", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		t.Fatal("log file is empty, want empty document")
	}
	var doc struct {
		Conversation []Entry `json:"conversation"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("fresh log is not valid JSON: %v", err)
	}
	if len(doc.Conversation) != 0 {
		t.Errorf("fresh log has %d entries, want 0", len(doc.Conversation))
	}
}

func TestUninitializedLog(t *testing.T) {
	var l *Log
	if _, err := l.Path(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Path on nil log = %v, want ErrNotInitialized", err)
	}
	if err := l.Append(Entry{Role: RoleUser, Content: "hi"}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Append on nil log = %v, want ErrNotInitialized", err)
	}

	var zero Log
	if _, err := zero.Path(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Path on zero log = %v, want ErrNotInitialized", err)
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAgent
		}
		e := Entry{Role: role, Content: fmt.Sprintf("turn %d", i), Channel: ChannelVoice}
		if err := l.Append(e); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != n {
		t.Fatalf("got %d entries, want %d", len(entries), n)
	}
	for i, e := range entries {
		if e.Content != fmt.Sprintf("turn %d", i) {
			t.Errorf("entry %d content = %q, want %q", i, e.Content, fmt.Sprintf("turn %d", i))
		}
		if e.Timestamp == "" {
			t.Errorf("entry %d has empty timestamp", i)
		}
	}
}

func TestAppendRoundTrip(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	want := Entry{Timestamp: "2025-06-01T09:30:00Z", Role: RoleUser, Content: "what is the pricing?", Channel: ChannelText}
	if err := l.Append(want); err != nil {
		t.Fatal(err)
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0] != want {
		t.Errorf("round-trip = %+v, want %+v", entries, want)
	}
}

func TestAppendRecoversFromCorruptLog(t *testing.T) {
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path, _ := l.Path()

	if err := os.WriteFile(path, []byte("{definitely not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	// History is gone, but the incoming turn must survive.
	if err := l.Append(Entry{Role: RoleUser, Content: "still here", Channel: ChannelVoice}); err != nil {
		t.Fatalf("Append after corruption: %v", err)
	}

	entries, err := l.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Content != "still here" {
		t.Errorf("entries after recovery = %+v, want just the new turn", entries)
	}
}

func TestAppendNoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Append(Entry{Role: RoleAgent, Content: "hello"}); err != nil {
		t.Fatal(err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".tmp") {
			t.Errorf("leftover temp file %q", f.Name())
		}
	}
}

func TestAppendFailsWhenDirBecomesUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks do not apply")
	}
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	// Append rewrites the file via rename, so a read-only dir fails both tries.
	if err := l.Append(Entry{Role: RoleUser, Content: "lost?"}); err == nil {
		t.Error("Append into unwritable dir succeeded, want error")
	}
}

func TestOpenFailsOnUnwritableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks do not apply")
	}
	parent := t.TempDir()
	if err := os.Chmod(parent, 0o500); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(parent, 0o755)

	if _, err := Open(filepath.Join(parent, "conversations")); err == nil {
		t.Error("Open in unwritable dir succeeded, want error")
	}
}
