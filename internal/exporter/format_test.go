package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero value", 0, "0.00"},
		{"repeating decimal", 200.0 / 3, "66.67"},
		{"integer", 15, "15.00"},
		{"negative", -0.5, "-0.50"},
		{"large", 1e9, "1000000000.00"},
		{"NaN", math.NaN(), "nan"},
		{"positive infinity", math.Inf(1), "inf"},
		{"negative infinity", math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatStat(tt.input))
		})
	}
}
