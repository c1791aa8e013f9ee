package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"cadestats/internal/errors"
	"cadestats/internal/files"
	"cadestats/pkg/contracts/domain"
)

// ReportHeaders is the header row of the statistics report.
var ReportHeaders = []string{
	domain.StatConvictionRate,
	domain.StatMeanFineAmount,
	domain.StatMeanFinePercent,
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
	files  *files.Manager
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, files: files.NewManager(logger)}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to filePath, replacing any existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	err := w.files.WriteFile(filePath, func(out io.Writer) error {
		return writeRecords(out, options)
	})
	if err != nil {
		return errors.NewStorageError("failed to write CSV", err).WithContext("path", filePath)
	}
	return nil
}

func writeRecords(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteReport writes the statistics report: a header row and one data row,
// each value with two decimals.
func (w *CSVWriter) WriteReport(ctx context.Context, filePath string, summary domain.Summary) error {
	record := []string{
		FormatStat(summary.ConvictionRate),
		FormatStat(summary.MeanFineAmount),
		FormatStat(summary.MeanFinePercent),
	}

	if err := w.WriteCSV(filePath, WriteOptions{Headers: ReportHeaders, Records: [][]string{record}}); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Report written",
		slog.String("path", filePath),
		slog.Any("values", record))
	return nil
}
