package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// viewerMethod is one way of opening a file with the desktop viewer
type viewerMethod struct {
	name string
	cmd  string
	args []string
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// OpenViewer opens path with the platform image viewer. It fails when no
// display is available or no method could be started.
func OpenViewer(ctx context.Context, logger *slog.Logger, path string) error {
	if logger == nil {
		logger = slog.Default()
	}
	if !hasDisplay() {
		return fmt.Errorf("no display available to show %s", path)
	}

	var lastErr error
	for _, method := range viewerMethods(path) {
		if _, err := lookPath(method.cmd); err != nil {
			lastErr = err
			continue
		}

		logger.DebugContext(ctx, "Attempting to open viewer",
			slog.String("method", method.name),
			slog.String("file", path))

		cmd := exec.Command(method.cmd, method.args...)
		err := cmd.Start()
		if err == nil {
			// The viewer outlives the run.
			_ = cmd.Process.Release()
			logger.InfoContext(ctx, "Viewer opened",
				slog.String("method", method.name),
				slog.String("file", path))
			return nil
		}

		lastErr = err
		logger.WarnContext(ctx, "Viewer open method failed",
			slog.String("method", method.name),
			slog.String("error", err.Error()))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no viewer for %s", runtime.GOOS)
	}
	return fmt.Errorf("failed to open viewer: %w", lastErr)
}

func hasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	default:
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
}

// viewerMethods returns platform-specific ways of opening a file
func viewerMethods(path string) []viewerMethod {
	switch runtime.GOOS {
	case "windows":
		return []viewerMethod{
			{name: "start_command", cmd: "cmd", args: []string{"/c", "start", "", path}},
			{name: "explorer", cmd: "explorer", args: []string{path}},
		}
	case "darwin":
		return []viewerMethod{
			{name: "open", cmd: "open", args: []string{path}},
		}
	default:
		return []viewerMethod{
			{name: "xdg-open", cmd: "xdg-open", args: []string{path}},
			{name: "eog", cmd: "eog", args: []string{path}},
			{name: "display", cmd: "display", args: []string{path}},
		}
	}
}
