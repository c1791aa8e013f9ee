package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const filePerm = 0644

// Manager provides file management operations for run outputs
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// FileExists checks if a regular file exists at the given path
func (m *Manager) FileExists(path string) bool {
	info, err := os.Stat(path)
	exists := err == nil && !info.IsDir()

	m.logger.Debug("FileExists check",
		slog.String("path", path),
		slog.Bool("exists", exists))

	return exists
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteFile replaces path with whatever write produces. The content is
// written to a pending file next to path and only moved into place when write
// succeeds, so a failed run never leaves a truncated output.
func (m *Manager) WriteFile(path string, write func(w io.Writer) error) error {
	if err := m.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := replaceFile(path, write); err != nil {
		return err
	}

	m.logger.Debug("File written", slog.String("path", path))
	return nil
}
