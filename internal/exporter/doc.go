// Package exporter writes the artifacts of a report run.
//
// This package contains four writers:
//
// CSVWriter: generic CSV writing plus WriteReport, the one-row statistics
// report with values formatted to two decimals ("nan" when undefined).
//
// SpreadsheetWriter: the analyzed decisions as an .xlsx workbook, streamed
// with excelize.
//
// HistogramWriter: the distribution of fine percentages as a PNG chart.
//
// ManifestWriter: an optional JSON description of the run.
//
// Every writer replaces an existing file and reports failures as STORAGE
// application errors.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(logger)
//	err := csvWriter.WriteReport(ctx, "relatorio.csv", summary)
//
//	sheet := exporter.NewSpreadsheetWriter(logger, "Sheet1")
//	err = sheet.WriteDecisions(ctx, "output.xlsx", analyzed)
package exporter
