package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"cadestats/internal/errors"
	"cadestats/internal/files"
	"cadestats/pkg/contracts/domain"
)

// DefaultSheetName is the worksheet used when none is configured.
const DefaultSheetName = "Sheet1"

// SpreadsheetWriter writes analyzed decisions to an .xlsx workbook.
type SpreadsheetWriter struct {
	logger    *slog.Logger
	files     *files.Manager
	sheetName string
}

// NewSpreadsheetWriter creates a writer for the named worksheet
func NewSpreadsheetWriter(logger *slog.Logger, sheetName string) *SpreadsheetWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &SpreadsheetWriter{logger: logger, files: files.NewManager(logger), sheetName: sheetName}
}

// WriteDecisions writes one row per decision under a bold header, in the
// column order of domain.SpreadsheetColumns. Absent values are blank cells.
func (w *SpreadsheetWriter) WriteDecisions(ctx context.Context, filePath string, decisions []domain.AnalyzedDecision) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheetName != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), w.sheetName); err != nil {
			return errors.NewStorageError("failed to name worksheet", err).WithContext("sheet", w.sheetName)
		}
	}

	sw, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		return errors.NewStorageError("failed to create stream writer", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
	})
	if err != nil {
		return errors.NewStorageError("failed to create header style", err)
	}

	header := make([]interface{}, len(domain.SpreadsheetColumns))
	for i, name := range domain.SpreadsheetColumns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return errors.NewStorageError("failed to write header row", err)
	}

	truncated := 0
	for i, d := range decisions {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := []interface{}{
			idCell(d.ID),
			textCell(d.DocumentType, &truncated),
			d.Conviction,
			numberCell(d.FinePercent),
			numberCell(d.FineAmount),
			textCell(d.Body, &truncated),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("invalid cell reference", err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write row %d", i+2), err).
				WithContext("id", d.ID)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.NewStorageError("failed to flush worksheet", err)
	}

	err = w.files.WriteFile(filePath, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	})
	if err != nil {
		return errors.NewStorageError("failed to save workbook", err).WithContext("path", filePath)
	}

	if truncated > 0 {
		w.logger.WarnContext(ctx, "Cell text truncated to the spreadsheet limit",
			slog.Int("cells", truncated),
			slog.Int("limit", excelize.TotalCellChars))
	}
	w.logger.InfoContext(ctx, "Spreadsheet written",
		slog.String("path", filePath),
		slog.String("sheet", w.sheetName),
		slog.Int("rows", len(decisions)))

	return nil
}

// idCell keeps numeric identifiers numeric.
func idCell(id string) interface{} {
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	if strings.ContainsAny(id, "0123456789") {
		if f, err := strconv.ParseFloat(id, 64); err == nil {
			return f
		}
	}
	return id
}

func numberCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func textCell(s string, truncated *int) interface{} {
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) > excelize.TotalCellChars {
		*truncated++
		return string([]rune(s)[:excelize.TotalCellChars])
	}
	return s
}
