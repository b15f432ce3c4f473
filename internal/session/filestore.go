package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"triz/internal/triz"
)

// FileStore implements Store with one JSON file per session in a
// directory. Writes go through a temp file and rename, so a crashed
// write never leaves a truncated session behind.
type FileStore struct {
	Dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

func (s *FileStore) Load(_ context.Context, id string) (*Session, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", triz.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", triz.ErrPersistence, id, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", triz.ErrPersistence, id, err)
	}
	return &sess, nil
}

func (s *FileStore) Save(_ context.Context, sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	tmp, err := os.CreateTemp(s.Dir, "."+sess.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file for %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	if err := os.Rename(tmpName, s.path(sess.ID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", triz.ErrSessionNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", triz.ErrPersistence, id, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Session, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", triz.ErrPersistence, err)
	}
	var out []*Session
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		sess, err := s.Load(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			// A file deleted between ReadDir and Load is not a listing
			// failure.
			if errors.Is(err, triz.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *FileStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	for _, sess := range all {
		if sess.UpdatedAt.After(cutoff) {
			continue
		}
		if err := s.Delete(ctx, sess.ID); err != nil {
			if errors.Is(err, triz.ErrSessionNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) Close() error { return nil }
