// Package dataprocessing turns a CADE decision export into report statistics.
//
// The package has three parts:
//
//  1. Loader: reads the export (delimited text or .xlsx) into a DecisionSet
//  2. Analyzer: keeps the relevant document types and derives, per decision,
//     the conviction flag, the fine percentage and the fine amount
//  3. Summarize: aggregates the analyzed decisions into a domain.Summary
//
// # Usage
//
//	set, err := dataprocessing.NewLoader(logger, dataprocessing.LoaderOptions{}).
//	    LoadFile(ctx, "decisoes.csv")
//	if err != nil {
//	    return err
//	}
//	analyzer := dataprocessing.NewAnalyzer(logger, dataprocessing.AnalyzerOptions{
//	    DocumentTypes:     []string{"Voto"},
//	    ConvictionKeyword: "condena",
//	})
//	analyzed, summary := analyzer.Analyze(ctx, set.Decisions)
//
// # Extraction
//
// ExtractFinePercent and ExtractFineAmount are loose text heuristics: they
// return the first match in the text and report ok=false when there is none.
// A value that could not be extracted is absent, never zero.
//
// # Error Handling
//
// Loader errors are *errors.AppError values: a missing file is NOT_FOUND,
// malformed content is PARSING and missing required columns are VALIDATION.
// Analysis itself cannot fail.
package dataprocessing
