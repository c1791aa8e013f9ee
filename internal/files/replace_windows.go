//go:build windows

package files

import (
	"errors"
	"io"

	"github.com/natefinch/atomic"
)

var errReplaceAborted = errors.New("file replacement aborted")

// replaceFile streams write through a pipe into atomic.WriteFile, which only
// accepts a reader.
func replaceFile(path string, write func(w io.Writer) error) error {
	pr, pw := io.Pipe()
	werrc := make(chan error, 1)
	go func() {
		err := write(pw)
		pw.CloseWithError(err)
		werrc <- err
	}()

	err := atomic.WriteFile(path, pr)
	pr.CloseWithError(errReplaceAborted)

	if werr := <-werrc; werr != nil && !errors.Is(werr, errReplaceAborted) {
		return werr
	}
	return err
}
