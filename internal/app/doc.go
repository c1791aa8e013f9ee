// Package app runs the CADE decision report.
//
// An Application is built from a validated config.Config and executes one
// run in four stages:
//
//  1. validate: input file and output locations
//  2. load: the decision export, through dataprocessing.Loader
//  3. analyze: filtering, conviction detection, fine extraction, statistics
//  4. emit: spreadsheet, report CSV and histogram written concurrently,
//     then the optional run manifest
//
// When telemetry is attached every stage becomes a span and the run counts
// are recorded as metrics.
//
// # Usage
//
//	result, err := app.Run(ctx, cfg, logger)
//	if err != nil {
//	    os.Exit(errors.ExitCode(err))
//	}
//	app.PrintSummary(os.Stdout, result)
package app
