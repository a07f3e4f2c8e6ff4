package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/michaelpaglia/fun-sunday-work/shared/protocol"
)

// FileStore keeps every entry in one JSON file, rewritten on each Add.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries []protocol.LeaderboardEntry
}

func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	fs := &FileStore{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &fs.entries); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

func (s *FileStore) Add(ctx context.Context, e protocol.LeaderboardEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(append([]protocol.LeaderboardEntry(nil), s.entries...), e)
	if err := s.save(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

func (s *FileStore) save(entries []protocol.LeaderboardEntry) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Top(ctx context.Context, limit int) ([]protocol.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	out := append([]protocol.LeaderboardEntry(nil), s.entries...)
	s.mu.Unlock()
	rank(out)
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }
