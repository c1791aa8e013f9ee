package dataprocessing

import (
	"context"
	"log/slog"

	"cadestats/pkg/contracts/domain"
)

// Analyzer filters decisions and derives the conviction and fine fields.
// It does no I/O.
type Analyzer struct {
	labels  *Matcher
	keyword *Matcher
	logger  *slog.Logger
}

// NewAnalyzer creates an analyzer for the given heuristics
func NewAnalyzer(logger *slog.Logger, opts AnalyzerOptions) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		labels:  NewMatcher(opts.DocumentTypes...),
		keyword: NewMatcher(opts.ConvictionKeyword),
		logger:  logger,
	}
}

// Analyze keeps the decisions of a relevant document type, in input order,
// and computes their derived fields and the run summary.
func (a *Analyzer) Analyze(ctx context.Context, decisions []domain.Decision) ([]domain.AnalyzedDecision, domain.Summary) {
	kept := FilterByDocumentType(decisions, a.labels)

	analyzed := make([]domain.AnalyzedDecision, 0, len(kept))
	for _, d := range kept {
		analyzed = append(analyzed, a.analyzeDecision(d))
	}

	summary := Summarize(analyzed, len(decisions))

	a.logger.InfoContext(ctx, "Decisions analyzed",
		slog.Any("document_types", a.labels.Terms()),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("retained", summary.Retained),
		slog.Int("convictions", summary.Convictions),
		slog.Int("fine_amounts", summary.FineAmountCount),
		slog.Int("fine_percents", summary.FinePercentCount))

	if summary.Retained > 0 {
		if !summary.HasFineAmount() {
			a.logger.WarnContext(ctx, "No fine amount found in the retained decisions")
		}
		if !summary.HasFinePercent() {
			a.logger.WarnContext(ctx, "No fine percentage found in the retained decisions")
		}
	}

	return analyzed, summary
}

func (a *Analyzer) analyzeDecision(d domain.Decision) domain.AnalyzedDecision {
	out := domain.AnalyzedDecision{
		Decision:   d,
		Conviction: DetectConviction(d.CourtDecision, a.keyword),
	}
	if v, ok := ExtractFinePercent(d.Body); ok {
		out.FinePercent = &v
	}
	if v, ok := ExtractFineAmount(d.Body); ok {
		out.FineAmount = &v
	}
	return out
}
