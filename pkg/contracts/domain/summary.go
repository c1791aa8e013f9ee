package domain

import (
	"math"
	"time"
)

// Report CSV header names.
const (
	StatConvictionRate  = "porcentagem_condenacao"
	StatMeanFineAmount  = "media_valor_reais"
	StatMeanFinePercent = "media_percentual_faturamento"
)

// Summary holds the statistics computed over the retained decisions.
// MeanFineAmount and MeanFinePercent are NaN when no value was extracted.
type Summary struct {
	TotalRows        int     `json:"total_rows"`
	Retained         int     `json:"retained"`
	Convictions      int     `json:"convictions"`
	FineAmountCount  int     `json:"fine_amount_count"`
	FinePercentCount int     `json:"fine_percent_count"`
	ConvictionRate   float64 `json:"conviction_rate"`
	MeanFineAmount   float64 `json:"mean_fine_amount"`
	MeanFinePercent  float64 `json:"mean_fine_percent"`
}

// HasFineAmount reports whether at least one fine amount was extracted.
func (s Summary) HasFineAmount() bool {
	return s.FineAmountCount > 0 && !math.IsNaN(s.MeanFineAmount)
}

// HasFinePercent reports whether at least one fine percentage was extracted.
func (s Summary) HasFinePercent() bool {
	return s.FinePercentCount > 0 && !math.IsNaN(s.MeanFinePercent)
}

// OutputFiles lists the artifacts written by a run.
type OutputFiles struct {
	Spreadsheet string `json:"spreadsheet"`
	Report      string `json:"report"`
	Histogram   string `json:"histogram"`
	Manifest    string `json:"manifest,omitempty"`
}

// AnalysisResult is returned by a complete run.
type AnalysisResult struct {
	RunID     string             `json:"run_id"`
	Summary   Summary            `json:"-"`
	Decisions []AnalyzedDecision `json:"-"`
	Outputs   OutputFiles        `json:"outputs"`
}

// RetainedCount returns the number of decisions that survived filtering.
func (r *AnalysisResult) RetainedCount() int {
	return r.Summary.Retained
}

// RunManifest describes one run for audit purposes.
type RunManifest struct {
	FormatVersion    string      `json:"format_version"`
	AppVersion       string      `json:"app_version"`
	RunID            string      `json:"run_id"`
	GeneratedAt      time.Time   `json:"generated_at"`
	Input            string      `json:"input"`
	InputFingerprint string      `json:"input_fingerprint"`
	DocumentTypes    []string    `json:"document_types"`
	ConvictionTerm   string      `json:"conviction_keyword"`
	HistogramBins    int         `json:"histogram_bins"`
	Statistics       Statistics  `json:"statistics"`
	Outputs          OutputFiles `json:"outputs"`
}

// Statistics is the JSON form of a Summary. Means are null when they are not
// finite numbers.
type Statistics struct {
	TotalRows       int      `json:"total_rows"`
	Retained        int      `json:"retained"`
	Convictions     int      `json:"convictions"`
	ConvictionRate  float64  `json:"conviction_rate"`
	MeanFineAmount  *float64 `json:"mean_fine_amount"`
	MeanFinePercent *float64 `json:"mean_fine_percent"`
}

// NewStatistics converts a Summary for JSON output.
func NewStatistics(s Summary) Statistics {
	st := Statistics{
		TotalRows:      s.TotalRows,
		Retained:       s.Retained,
		Convictions:    s.Convictions,
		ConvictionRate: s.ConvictionRate,
	}
	st.MeanFineAmount = finite(s.MeanFineAmount)
	st.MeanFinePercent = finite(s.MeanFinePercent)
	return st
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
