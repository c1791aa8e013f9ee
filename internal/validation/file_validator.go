package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cadestats/internal/errors"
)

// Supported input extensions. Anything else is read as delimited text
// but logged as unusual.
var inputExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".tsv":  true,
	".xlsx": true,
}

// FileValidator checks input and output locations before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return errors.NewNotFoundError(fmt.Sprintf("file %s", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewInputError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return errors.NewInputError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewInputError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputFile checks the decision export: it must be a readable file
// and not an Office lock file.
func (v *FileValidator) ValidateInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewConfigError("no input file configured", nil)
	}
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return errors.NewInputError(fmt.Sprintf("file %s is a temporary Excel file", path), nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !inputExtensions[ext] {
		v.logger.Warn("Unusual input extension, reading as delimited text",
			slog.String("file", path),
			slog.String("extension", ext))
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	file, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputPaths checks that every output is a distinct file path that
// is neither an existing directory nor the input file.
func (v *FileValidator) ValidateOutputPaths(input string, outputs ...string) error {
	seen := make(map[string]string, len(outputs))
	inputAbs := absPath(input)

	for _, out := range outputs {
		abs := absPath(out)
		if abs == inputAbs {
			return errors.NewConfigError(fmt.Sprintf("output %s would overwrite the input file", out), nil)
		}
		if prev, dup := seen[abs]; dup {
			return errors.NewConfigError(fmt.Sprintf("outputs %s and %s are the same file", prev, out), nil)
		}
		seen[abs] = out

		if info, err := os.Stat(out); err == nil && info.IsDir() {
			return errors.NewStorageError(fmt.Sprintf("output %s is a directory", out), nil)
		}
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
