package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"cadestats/internal/config"
	"cadestats/internal/dataprocessing"
	"cadestats/internal/errors"
	"cadestats/internal/exporter"
	"cadestats/internal/infrastructure"
	"cadestats/internal/validation"
	"cadestats/pkg/contracts"
	"cadestats/pkg/contracts/domain"
)

// Application represents one configured report run
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry // optional

	validator *validation.FileValidator
	loader    dataprocessing.DecisionLoader
	analyzer  *dataprocessing.Analyzer
	csv       *exporter.CSVWriter
	sheet     *exporter.SpreadsheetWriter
	histogram *exporter.HistogramWriter
	manifest  *exporter.ManifestWriter

	now func() time.Time
}

// NewApplication validates cfg and wires the run components.
// tel may be nil, in which case no spans or metrics are recorded.
func NewApplication(cfg *config.Config, logger *slog.Logger, tel *infrastructure.Telemetry) (*Application, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("configuration is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", err)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Application{
		Config:    cfg,
		Paths:     cfg.ResolvePaths(),
		Logger:    logger,
		Telemetry: tel,
		validator: validation.NewFileValidator(infrastructure.WithComponent(logger, "validation")),
		loader: dataprocessing.NewLoader(infrastructure.WithComponent(logger, "loader"), dataprocessing.LoaderOptions{
			Delimiter: cfg.Delimiter(),
			Encoding:  cfg.Input.Encoding,
			Sheet:     cfg.Input.Sheet,
		}),
		analyzer: dataprocessing.NewAnalyzer(infrastructure.WithComponent(logger, "analyzer"), dataprocessing.AnalyzerOptions{
			DocumentTypes:     cfg.Analysis.DocumentTypes,
			ConvictionKeyword: cfg.Analysis.ConvictionKeyword,
		}),
		csv:       exporter.NewCSVWriter(infrastructure.WithComponent(logger, "report")),
		sheet:     exporter.NewSpreadsheetWriter(infrastructure.WithComponent(logger, "spreadsheet"), cfg.Output.SheetName),
		histogram: exporter.NewHistogramWriter(infrastructure.WithComponent(logger, "histogram"), cfg.Analysis.HistogramBins),
		manifest:  exporter.NewManifestWriter(infrastructure.WithComponent(logger, "manifest")),
		now:       time.Now,
	}, nil
}

// Run executes one report run with cfg. It is the programmatic entry point
// of the command.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*domain.AnalysisResult, error) {
	a, err := NewApplication(cfg, logger, nil)
	if err != nil {
		return nil, err
	}
	return a.Run(ctx)
}

// Run loads the input, analyzes it and writes every artifact.
func (a *Application) Run(ctx context.Context) (*domain.AnalysisResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	start := time.Now()

	a.Logger.InfoContext(ctx, "Report run starting",
		slog.String("app", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("input", a.Paths.Input))
	a.Paths.LogPathResolution(a.Logger)

	if err := a.prepare(ctx); err != nil {
		return nil, err
	}

	set, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	analyzed, summary := a.analyze(ctx, set)

	outputs, err := a.emit(ctx, analyzed, summary)
	if err != nil {
		return nil, err
	}

	if a.Paths.Manifest != "" {
		outputs.Manifest = a.Paths.Manifest
		if err := a.writeManifest(ctx, runID, set, summary, outputs); err != nil {
			return nil, err
		}
	}

	a.Logger.InfoContext(ctx, "Report run completed",
		slog.Int("retained", summary.Retained),
		slog.Duration("duration", time.Since(start)))

	return &domain.AnalysisResult{
		RunID:     runID,
		Summary:   summary,
		Decisions: analyzed,
		Outputs:   outputs,
	}, nil
}

func (a *Application) prepare(ctx context.Context) (err error) {
	_, end := a.stage(ctx, "validate")
	defer func() { end(err) }()

	if err := a.validator.ValidateInputFile(a.Paths.Input); err != nil {
		return err
	}
	if err := a.validator.ValidateOutputPaths(a.Paths.Input, a.Paths.Outputs()...); err != nil {
		return err
	}
	if err := a.validator.ValidateOutputDirectory(a.Paths.OutputDir); err != nil {
		return err
	}
	if err := a.Paths.EnsureDirectories(); err != nil {
		return errors.NewStorageError("failed to prepare output directories", err)
	}
	return nil
}

func (a *Application) load(ctx context.Context) (set *domain.DecisionSet, err error) {
	ctx, end := a.stage(ctx, "load")
	defer func() { end(err) }()

	set, err = a.loader.LoadFile(ctx, a.Paths.Input)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Failed to load input",
			slog.String("input", a.Paths.Input),
			slog.String("error", err.Error()))
		return nil, err
	}
	if m := a.metrics(); m != nil {
		m.RowsRead.Add(ctx, int64(len(set.Decisions)))
	}
	return set, nil
}

func (a *Application) analyze(ctx context.Context, set *domain.DecisionSet) ([]domain.AnalyzedDecision, domain.Summary) {
	ctx, end := a.stage(ctx, "analyze")
	defer end(nil)

	analyzed, summary := a.analyzer.Analyze(ctx, set.Decisions)

	if m := a.metrics(); m != nil {
		m.RowsRetained.Add(ctx, int64(summary.Retained))
		m.Convictions.Add(ctx, int64(summary.Convictions))
		m.Extractions.Add(ctx, int64(summary.FinePercentCount), metric.WithAttributes(attribute.String("kind", "percent")))
		m.Extractions.Add(ctx, int64(summary.FineAmountCount), metric.WithAttributes(attribute.String("kind", "amount")))
		m.ConvictionRate.Record(ctx, summary.ConvictionRate)
	}
	return analyzed, summary
}

// emit writes the spreadsheet, the report and the histogram concurrently.
// The first failure cancels the others.
func (a *Application) emit(ctx context.Context, analyzed []domain.AnalyzedDecision, summary domain.Summary) (outputs domain.OutputFiles, err error) {
	ctx, end := a.stage(ctx, "emit")
	defer func() { end(err) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.sheet.WriteDecisions(gctx, a.Paths.Spreadsheet, analyzed)
	})
	g.Go(func() error {
		return a.csv.WriteReport(gctx, a.Paths.Report, summary)
	})
	g.Go(func() error {
		return a.histogram.WritePNG(gctx, a.Paths.Histogram, dataprocessing.FinePercents(analyzed))
	})

	if err := g.Wait(); err != nil {
		a.Logger.ErrorContext(ctx, "Failed to write outputs", slog.String("error", err.Error()))
		return domain.OutputFiles{}, err
	}

	return domain.OutputFiles{
		Spreadsheet: a.Paths.Spreadsheet,
		Report:      a.Paths.Report,
		Histogram:   a.Paths.Histogram,
	}, nil
}

func (a *Application) writeManifest(ctx context.Context, runID string, set *domain.DecisionSet, summary domain.Summary, outputs domain.OutputFiles) error {
	manifest := domain.RunManifest{
		FormatVersion:    contracts.ManifestFormatVersion,
		AppVersion:       contracts.Version,
		RunID:            runID,
		GeneratedAt:      a.now().UTC(),
		Input:            set.Source,
		InputFingerprint: set.Fingerprint,
		DocumentTypes:    a.Config.Analysis.DocumentTypes,
		ConvictionTerm:   a.Config.Analysis.ConvictionKeyword,
		HistogramBins:    a.histogram.Bins(),
		Statistics:       domain.NewStatistics(summary),
		Outputs:          outputs,
	}
	return a.manifest.WriteManifest(ctx, a.Paths.Manifest, manifest)
}

func (a *Application) stage(ctx context.Context, name string) (context.Context, func(error)) {
	if a.Telemetry == nil {
		return ctx, func(error) {}
	}
	return a.Telemetry.StartStage(ctx, name)
}

func (a *Application) metrics() *infrastructure.RunMetrics {
	if a.Telemetry == nil {
		return nil
	}
	return a.Telemetry.Metrics
}

// PrintSummary writes the console report of a run to w.
func PrintSummary(w io.Writer, result *domain.AnalysisResult) error {
	s := result.Summary
	_, err := fmt.Fprintf(w,
		"Porcentagem de condenação: %s%%\n"+
			"Média valor condenação (R$): %s\n"+
			"Média percentual do faturamento usado como multa: %s%%\n"+
			"Arquivos %s e %s gerados!\n",
		exporter.FormatStat(s.ConvictionRate),
		exporter.FormatStat(s.MeanFineAmount),
		exporter.FormatStat(s.MeanFinePercent),
		filepath.Base(result.Outputs.Spreadsheet),
		filepath.Base(result.Outputs.Report))
	return err
}
