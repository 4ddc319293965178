package localstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage implements ports.MediaStore on the local filesystem.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

// EnsureSessionDir creates the session directory and returns its path.
func (s *LocalStorage) EnsureSessionDir(sessionID string) (string, error) {
	path := filepath.Join(s.BaseDir, "sessions", sessionID)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory %s: %w", path, err)
	}
	return path, nil
}

// SaveStream writes the stream to filename inside dir and returns the path
// of the written file.
func (s *LocalStorage) SaveStream(ctx context.Context, reader io.Reader, dir, filename string) (string, error) {
	path := filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ListOutputs returns the merged output files present in dir.
func (s *LocalStorage) ListOutputs(dir string) ([]string, error) {
	outputs, err := filepath.Glob(filepath.Join(dir, "output-*.mp4"))
	if err != nil {
		return nil, fmt.Errorf("failed to list outputs in %s: %w", dir, err)
	}
	return outputs, nil
}
