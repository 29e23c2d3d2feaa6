package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	"github.com/samber/oops"
)

const snapshotFile = "snapshot.json"

// FileStorage implements Repository using file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based snapshot repository
func NewFileStorage(basePath string) (Repository, error) {
	snapshotPath := filepath.Join(basePath, "highlights")
	if err := os.MkdirAll(snapshotPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create highlights directory").Wrap(err)
	}

	return &FileStorage{basePath: snapshotPath}, nil
}

func (s *FileStorage) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.basePath, snapshotFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrSnapshotNotFound
		}
		return nil, oops.With("path", path, "context", "failed to read snapshot").Wrap(err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, oops.With("path", path, "context", "failed to unmarshal snapshot").Wrap(err)
	}

	return &snapshot, nil
}

func (s *FileStorage) Save(_ context.Context, snapshot *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return oops.With("context", "failed to marshal snapshot").Wrap(err)
	}

	// Write then rename so a crash never leaves a truncated snapshot behind.
	path := filepath.Join(s.basePath, snapshotFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return oops.With("path", tmp, "context", "failed to write snapshot").Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return oops.With("path", path, "context", "failed to replace snapshot").Wrap(err)
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}
