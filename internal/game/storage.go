package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Storage keys, kept stable across releases so saved games survive upgrades.
const (
	storageKeyGame   = "secret_agent_game"
	storageKeyPlayer = "secret_agent_player"
	storageKeyFailed = "secret_agent_failed_submissions"
)

var ErrKeyNotFound = errors.New("key not found")

// Storage is a small durable key-value store for game state. The engine
// persists its full accumulator snapshot here after every mutating action,
// so local state stays authoritative across restarts.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileStore keeps each key as a file under dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, key+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

func (f *FileStore) Set(key string, value []byte) error {
	return os.WriteFile(filepath.Join(f.dir, key+".json"), value, 0o644)
}

func (f *FileStore) Delete(key string) error {
	err := os.Remove(filepath.Join(f.dir, key+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
