package lead

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store persists leads as immutable JSON files, one per lead, in a dedicated
// directory. There is no update or delete path.
type Store struct {
	dir    string
	source string
	clock  Clock
}

// NewStore creates a Store writing into dir. source labels the assistant the
// lead came from; empty means DefaultSource.
func NewStore(dir, source string) *Store {
	if source == "" {
		source = DefaultSource
	}
	return &Store{dir: dir, source: source, clock: realClock{}}
}

// NewStoreWithClock creates a Store with a custom clock (for testing).
func NewStoreWithClock(dir, source string, clock Clock) *Store {
	s := NewStore(dir, source)
	s.clock = clock
	return s
}

// Save stamps the lead (timestamp, source, status "new") and writes it as
// one new file, creating the leads directory if needed. The filename keeps
// the second-resolution timestamp prefix so files sort by creation time; a
// short uuid suffix keeps two leads in the same second from colliding.
// Returns the written path.
func (s *Store) Save(l Lead) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating leads dir: %w", err)
	}

	now := s.clock.Now()
	l.Timestamp = now.Format(time.RFC3339)
	l.Source = s.source
	l.Status = StatusNew

	name := fmt.Sprintf("lead_%s_%s.json", now.Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling lead: %w", err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		// One best-effort retry before giving up; transient disk hiccups
		// must not lose a qualified lead.
		slog.Warn("lead write failed, retrying once", "path", path, "error", err)
		if err := writeFileAtomic(path, data); err != nil {
			return "", fmt.Errorf("writing lead file: %w", err)
		}
	}

	slog.Info("lead saved", "path", path, "company", l.Company)
	return path, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
