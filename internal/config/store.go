// Package config persists the small set of runtime-mutable settings:
// the default project and the default sprint id used by ticket creation.
//
// State lives in a single JSON file next to the binary (path configurable
// via settings). The file is read once at construction and rewritten in
// full on every mutation. Writes are not atomic and there is no
// cross-process locking: concurrent updates race and the last write wins.
// That is acceptable for this server's single-operator usage model.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store is the persistence interface for runtime configuration.
// Abstracted so the creation workflow can be tested against a fake.
type Store interface {
	DefaultProject() string
	SetDefaultProject(key string) error
	DefaultSprintID() string
	SetDefaultSprintID(id string) error
}

// fileConfig is the on-disk shape of the config file.
type fileConfig struct {
	DefaultSprintID string `json:"default_sprint_id"`
	DefaultProject  string `json:"default_project"`
}

// FileStore implements Store backed by a JSON file with an in-memory
// cache. The mutex guards the cache within this process only.
type FileStore struct {
	path string

	mu  sync.Mutex
	cfg fileConfig
}

// NewFileStore creates a file-backed store reading path once.
// A missing or unparsable file is not an error: the store falls back to
// the given default project (typically the first configured project key)
// and an unset sprint.
func NewFileStore(path, defaultProject string) *FileStore {
	fs := &FileStore{
		path: path,
		cfg:  fileConfig{DefaultProject: defaultProject},
	}
	fs.load()
	return fs
}

// load overlays persisted values onto the defaults. Corrupt or missing
// files are silently ignored.
func (fs *FileStore) load() {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return
	}
	var saved fileConfig
	if err := json.Unmarshal(data, &saved); err != nil {
		return
	}
	if saved.DefaultProject != "" {
		fs.cfg.DefaultProject = saved.DefaultProject
	}
	if saved.DefaultSprintID != "" {
		fs.cfg.DefaultSprintID = saved.DefaultSprintID
	}
}

// save rewrites the whole config file from the in-memory state.
func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", fs.path, err)
	}
	return nil
}

// DefaultProject returns the configured default project key, or "" if unset.
func (fs *FileStore) DefaultProject() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.cfg.DefaultProject
}

// SetDefaultProject updates the default project and persists immediately.
func (fs *FileStore) SetDefaultProject(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.cfg.DefaultProject = key
	return fs.save()
}

// DefaultSprintID returns the configured default sprint id, or "" if unset.
func (fs *FileStore) DefaultSprintID() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.cfg.DefaultSprintID
}

// SetDefaultSprintID updates the default sprint id and persists immediately.
func (fs *FileStore) SetDefaultSprintID(id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.cfg.DefaultSprintID = id
	return fs.save()
}
