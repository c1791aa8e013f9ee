package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved locations of every artifact of a run
type Paths struct {
	Input       string
	OutputDir   string
	Spreadsheet string
	Report      string
	Histogram   string
	Manifest    string
}

// ResolvePaths resolves output names against the output directory.
// Absolute names are kept as-is; an empty manifest name stays empty.
func (c *Config) ResolvePaths() *Paths {
	dir := c.Output.Dir
	if dir == "" {
		dir = "."
	}
	p := &Paths{
		Input:       c.Input.File,
		OutputDir:   dir,
		Spreadsheet: resolve(dir, c.Output.Spreadsheet),
		Report:      resolve(dir, c.Output.Report),
		Histogram:   resolve(dir, c.Output.Histogram),
	}
	if c.Output.Manifest != "" {
		p.Manifest = resolve(dir, c.Output.Manifest)
	}
	return p
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Outputs lists every output file path that is set.
func (p *Paths) Outputs() []string {
	out := []string{p.Spreadsheet, p.Report, p.Histogram}
	if p.Manifest != "" {
		out = append(out, p.Manifest)
	}
	return out
}

// EnsureDirectories creates the output directory and the parent of every output file
func (p *Paths) EnsureDirectories() error {
	dirs := map[string]struct{}{p.OutputDir: {}}
	for _, out := range p.Outputs() {
		dirs[filepath.Dir(out)] = struct{}{}
	}
	for dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("input", p.Input),
		slog.String("output_dir", p.OutputDir),
		slog.String("spreadsheet", p.Spreadsheet),
		slog.String("report", p.Report),
		slog.String("histogram", p.Histogram),
		slog.String("manifest", p.Manifest))
}
