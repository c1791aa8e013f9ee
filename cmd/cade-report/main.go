package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cadestats/internal/app"
	"cadestats/internal/config"
	"cadestats/internal/errors"
	"cadestats/internal/infrastructure"
	"cadestats/pkg/contracts"
)

// options holds the command line flags. Only flags set explicitly override
// the file and environment configuration.
type options struct {
	configFile    string
	input         string
	delimiter     string
	encoding      string
	sheet         string
	outDir        string
	spreadsheet   string
	report        string
	histogram     string
	manifest      string
	documentTypes []string
	keyword       string
	bins          int
	logLevel      string
	logFormat     string
	tracing       bool
	traceFile     string
	metricsFile   string
	show          bool
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cade-report [input]",
		Short: "Conviction and fine statistics over a CADE decision export",
		Long: `Reads a CSV (or .xlsx) export of CADE decisions, keeps the vote documents,
flags convictions and extracts the fine percentage and amount from each text.

Writes:
  output.xlsx                       the retained decisions with derived columns
  relatorio.csv                     conviction rate and mean fines
  histograma_percentual_multa.png   distribution of fine percentages

Configuration is read from cade-report.yaml, CADE_* environment variables
and the flags below, in increasing order of precedence.

Example:
  cade-report -i cade_clinicas.csv --out-dir resultados`,
		Version: contracts.GetFullVersionString(),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return errors.NewConfigError("invalid arguments", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !cmd.Flags().Changed("input") {
				if err := cmd.Flags().Set("input", args[0]); err != nil {
					return errors.NewConfigError("invalid input argument", err)
				}
			}
			return runReport(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "Configuration file (default: cade-report.yaml if present)")
	f.StringVarP(&opts.input, "input", "i", "", "Decision export to analyze (.csv or .xlsx)")
	f.StringVar(&opts.delimiter, "delimiter", ",", "Field delimiter of the CSV input")
	f.StringVar(&opts.encoding, "encoding", "utf-8", "Character encoding of the CSV input (utf-8, latin1, windows-1252)")
	f.StringVar(&opts.sheet, "sheet", "", "Worksheet of an .xlsx input (default: first sheet)")
	f.StringVarP(&opts.outDir, "out-dir", "o", ".", "Directory for the generated files")
	f.StringVar(&opts.spreadsheet, "spreadsheet", config.DefaultSpreadsheetFile, "Spreadsheet file name")
	f.StringVar(&opts.report, "report", config.DefaultReportFile, "Statistics report file name")
	f.StringVar(&opts.histogram, "histogram", config.DefaultHistogramFile, "Histogram image file name")
	f.StringVar(&opts.manifest, "manifest", "", "Write a JSON run manifest to this file")
	f.StringArrayVar(&opts.documentTypes, "document-type", nil, "Document type label to retain (repeatable, taken verbatim)")
	f.StringVar(&opts.keyword, "keyword", config.DefaultConvictionKeyword, "Keyword marking a conviction")
	f.IntVar(&opts.bins, "bins", config.DefaultHistogramBins, "Number of histogram bins")
	f.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", config.DefaultLogFormat, "Log format (json, text)")
	f.BoolVar(&opts.tracing, "trace", false, "Export run spans")
	f.StringVar(&opts.traceFile, "trace-file", "", "Write spans to this file instead of stderr")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format")
	f.BoolVar(&opts.show, "show", false, "Open the histogram when done")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewConfigError("invalid flags", err)
	})

	return cmd
}

// applyFlags overlays the explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	changed := cmd.Flags().Changed

	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("input", &cfg.Input.File, opts.input)
	set("delimiter", &cfg.Input.Delimiter, opts.delimiter)
	set("encoding", &cfg.Input.Encoding, opts.encoding)
	set("sheet", &cfg.Input.Sheet, opts.sheet)
	set("out-dir", &cfg.Output.Dir, opts.outDir)
	set("spreadsheet", &cfg.Output.Spreadsheet, opts.spreadsheet)
	set("report", &cfg.Output.Report, opts.report)
	set("histogram", &cfg.Output.Histogram, opts.histogram)
	set("manifest", &cfg.Output.Manifest, opts.manifest)
	set("keyword", &cfg.Analysis.ConvictionKeyword, opts.keyword)
	set("log-level", &cfg.Logging.Level, opts.logLevel)
	set("log-format", &cfg.Logging.Format, opts.logFormat)
	set("trace-file", &cfg.Telemetry.TraceFile, opts.traceFile)
	set("metrics-file", &cfg.Telemetry.MetricsFile, opts.metricsFile)

	if changed("document-type") {
		cfg.Analysis.DocumentTypes = opts.documentTypes
	}
	if changed("bins") {
		cfg.Analysis.HistogramBins = opts.bins
	}
	if changed("trace") || opts.traceFile != "" {
		cfg.Telemetry.Tracing = opts.tracing || opts.traceFile != ""
	}
}

func runReport(cmd *cobra.Command, opts *options) (err error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return errors.NewConfigError("failed to load configuration", err)
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError("invalid configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return errors.NewConfigError("failed to initialize logger", err)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(cmd.Context())
	runID := infrastructure.GetTraceID(ctx)

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, runID, logger)
	if err != nil {
		return errors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := tel.Shutdown(shutdownCtx); serr != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", serr.Error()))
			if err == nil {
				err = errors.NewStorageError("failed to flush telemetry", serr)
			}
		}
	}()

	a, err := app.NewApplication(cfg, logger, tel)
	if err != nil {
		return err
	}

	result, err := a.Run(ctx)
	if err != nil {
		return err
	}

	if err := app.PrintSummary(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}

	if opts.show {
		if err := app.OpenViewer(ctx, logger, result.Outputs.Histogram); err != nil {
			logger.WarnContext(ctx, "Could not display histogram",
				slog.String("path", result.Outputs.Histogram),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		if errors.IsType(err, errors.ErrTypeConfig) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
		}
	}
	return errors.ExitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
