package dataprocessing

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"cadestats/pkg/contracts/domain"
)

// Summarize computes the report statistics over the analyzed decisions.
// totalRows is the number of rows read before filtering.
//
// The conviction rate is 0 for an empty set. Means only consider present
// values and are NaN when there is none.
func Summarize(decisions []domain.AnalyzedDecision, totalRows int) domain.Summary {
	s := domain.Summary{
		TotalRows: totalRows,
		Retained:  len(decisions),
	}

	var amounts, percents []float64
	for _, d := range decisions {
		if d.Conviction {
			s.Convictions++
		}
		if d.FineAmount != nil {
			amounts = append(amounts, *d.FineAmount)
		}
		if d.FinePercent != nil {
			percents = append(percents, *d.FinePercent)
		}
	}

	if s.Retained > 0 {
		s.ConvictionRate = 100 * float64(s.Convictions) / float64(s.Retained)
	}
	s.FineAmountCount = len(amounts)
	s.FinePercentCount = len(percents)
	s.MeanFineAmount = mean(amounts)
	s.MeanFinePercent = mean(percents)

	return s
}

// FinePercents returns the present fine percentages in decision order.
func FinePercents(decisions []domain.AnalyzedDecision) []float64 {
	values := make([]float64, 0, len(decisions))
	for _, d := range decisions {
		if d.FinePercent != nil {
			values = append(values, *d.FinePercent)
		}
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}
