//go:build !windows

package files

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/renameio/v2"
)

func replaceFile(path string, write func(w io.Writer) error) error {
	pending, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(filePerm))
	if err != nil {
		return fmt.Errorf("failed to create pending file: %w", err)
	}
	defer pending.Cleanup()

	if err := write(pending); err != nil {
		return err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
