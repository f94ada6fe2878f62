package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"tg-info-bot/internal/database/models"
)

// JSONUserStore keeps all records in one flat JSON document keyed by user ID.
// Every Upsert rewrites the file through a temp file and rename.
type JSONUserStore struct {
	path  string
	mu    sync.Mutex
	users map[string]models.UserRecord
}

// NewJSONUserStore creates a store for the file at path. The file is created on first write.
func NewJSONUserStore(path string) *JSONUserStore {
	return &JSONUserStore{path: path}
}

// Load reads the file. A missing file yields an empty registry.
func (s *JSONUserStore) Load(_ context.Context) (map[int64]models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]models.UserRecord)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[int64]models.UserRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.users); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
		}
	}

	users := make(map[int64]models.UserRecord, len(s.users))
	for key, rec := range s.users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		rec.ID = id
		users[id] = rec
	}
	return users, nil
}

// Upsert stores rec and rewrites the whole document.
func (s *JSONUserStore) Upsert(_ context.Context, rec models.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.users == nil {
		s.users = make(map[string]models.UserRecord)
	}
	s.users[strconv.FormatInt(rec.ID, 10)] = rec

	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; every Upsert is already durable.
func (s *JSONUserStore) Close(_ context.Context) error {
	return nil
}
