package exporter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"cadestats/internal/errors"
	"cadestats/internal/files"
	"cadestats/pkg/contracts/domain"
)

// ManifestWriter writes the JSON run manifest.
type ManifestWriter struct {
	logger *slog.Logger
	files  *files.Manager
}

// NewManifestWriter creates a manifest writer
func NewManifestWriter(logger *slog.Logger) *ManifestWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManifestWriter{logger: logger, files: files.NewManager(logger)}
}

// WriteManifest writes manifest as indented JSON to filePath.
func (w *ManifestWriter) WriteManifest(ctx context.Context, filePath string, manifest domain.RunManifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to marshal run manifest", err)
	}

	err = w.files.WriteFile(filePath, func(out io.Writer) error {
		_, err := out.Write(append(data, '\n'))
		return err
	})
	if err != nil {
		return errors.NewStorageError("failed to write run manifest", err).WithContext("path", filePath)
	}

	w.logger.InfoContext(ctx, "Run manifest written", slog.String("path", filePath))
	return nil
}
