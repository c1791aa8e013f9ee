package exporter

import (
	"fmt"
	"math"
)

// NoDataMarker is written in place of a statistic that has no value.
const NoDataMarker = "nan"

// FormatStat formats a statistic with exactly 2 decimal places.
// NaN renders as NoDataMarker and infinities as "inf" / "-inf".
func FormatStat(f float64) string {
	switch {
	case math.IsNaN(f):
		return NoDataMarker
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return formatFloat(f)
}

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
