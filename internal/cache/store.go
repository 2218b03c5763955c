// Package cache persists participants in a single JSON file. The file is
// read once when a run starts and written once when it ends; there is no
// locking, so only one run may use a file at a time.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devsidequests/participants/internal/model"
	"github.com/devsidequests/participants/pkg/log"
)

type Store struct {
	Path   string
	Logger log.Logger

	// records of the last Load that could not be decoded, written back
	// untouched by Save unless a fresh record replaced them
	unreadable map[string]json.RawMessage
}

func NewStore(path string, logger log.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache: empty path")
	}
	return &Store{Path: path, Logger: logger}, nil
}

// Load reads the cache file. A missing file yields an empty cache, as does a
// file that is empty or not a JSON object; other read errors are returned.
// A record that cannot be decoded is skipped with a warning and kept aside
// so that Save does not lose it.
func (s *Store) Load(ctx context.Context) (model.Cache, error) {
	s.unreadable = nil

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.Logger.Info(ctx, "Cache file %s not found, starting empty", s.Path)
		return model.NewCache(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache %s: %w", s.Path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		s.Logger.Warn(ctx, "Cache file %s is empty or invalid, resetting it", s.Path)
		return model.NewCache(), nil
	}

	c := model.NewCache()
	for login, record := range raw {
		if string(bytes.TrimSpace(record)) == "null" {
			continue
		}
		p := &model.Participant{}
		if err := json.Unmarshal(record, p); err != nil {
			s.Logger.Warn(ctx, "Skipping unreadable cache record %s: %v", login, err)
			if s.unreadable == nil {
				s.unreadable = make(map[string]json.RawMessage)
			}
			s.unreadable[login] = record
			continue
		}
		// the key is authoritative
		p.Username = login
		c.Put(p)
	}
	s.Logger.Debug(ctx, "Loaded %d cached participants from %s", len(c), s.Path)
	return c, nil
}

// Save replaces the cache file with the whole mapping.
func (s *Store) Save(ctx context.Context, c model.Cache) error {
	records := make(map[string]interface{}, len(c)+len(s.unreadable))
	for login, record := range s.unreadable {
		records[login] = record
	}
	for login, p := range c {
		records[login] = p
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replacing cache %s: %w", s.Path, err)
	}

	s.Logger.Debug(ctx, "Saved %d participants to %s", len(records), s.Path)
	return nil
}
