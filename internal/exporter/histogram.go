package exporter

import (
	"context"
	"image/color"
	"io"
	"log/slog"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"cadestats/internal/errors"
	"cadestats/internal/files"
)

// Histogram labels.
const (
	HistogramTitle  = "Distribuição do Percentual do Faturamento como Multa"
	HistogramXLabel = "Percentual (%)"
	HistogramYLabel = "Frequência"

	DefaultHistogramBins = 20
)

// Image geometry: 6.4 x 4.8 inches at 100 dpi.
const (
	histogramWidth  = 6.4 * vg.Inch
	histogramHeight = 4.8 * vg.Inch
	histogramDPI    = 100
)

var barFill = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// HistogramWriter renders the distribution of fine percentages as a PNG.
type HistogramWriter struct {
	logger *slog.Logger
	files  *files.Manager
	bins   int
}

// NewHistogramWriter creates a writer with the given number of equal-width bins.
func NewHistogramWriter(logger *slog.Logger, bins int) *HistogramWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	return &HistogramWriter{logger: logger, files: files.NewManager(logger), bins: bins}
}

// Bins returns the configured bin count.
func (h *HistogramWriter) Bins() int {
	return h.bins
}

// WritePNG draws the histogram of values to filePath. With no values the
// image only carries the title and axes.
func (h *HistogramWriter) WritePNG(ctx context.Context, filePath string, values []float64) error {
	p := plot.New()
	p.Title.Text = HistogramTitle
	p.X.Label.Text = HistogramXLabel
	p.Y.Label.Text = HistogramYLabel

	if len(values) > 0 {
		hist, err := plotter.NewHist(plotter.Values(values), h.bins)
		if err != nil {
			return errors.NewStorageError("failed to build histogram", err)
		}
		hist.FillColor = barFill
		hist.LineStyle.Color = color.Black
		hist.LineStyle.Width = vg.Points(1)
		p.Add(hist)
	} else {
		h.logger.WarnContext(ctx, "No fine percentages to plot, writing empty histogram",
			slog.String("path", filePath))
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(histogramWidth, histogramHeight),
		vgimg.UseDPI(histogramDPI),
	)
	p.Draw(draw.New(canvas))

	err := h.files.WriteFile(filePath, func(out io.Writer) error {
		_, err := vgimg.PngCanvas{Canvas: canvas}.WriteTo(out)
		return err
	})
	if err != nil {
		return errors.NewStorageError("failed to write histogram", err).WithContext("path", filePath)
	}

	h.logger.InfoContext(ctx, "Histogram written",
		slog.String("path", filePath),
		slog.Int("values", len(values)),
		slog.Int("bins", h.bins))
	return nil
}
