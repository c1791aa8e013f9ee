package dataprocessing

import (
	"context"

	"cadestats/pkg/contracts/domain"
)

// DecisionLoader reads a decision export.
type DecisionLoader interface {
	LoadFile(ctx context.Context, path string) (*domain.DecisionSet, error)
}

// AnalyzerOptions configures the heuristics of an Analyzer.
type AnalyzerOptions struct {
	// DocumentTypes are the labels a decision's document type must contain.
	DocumentTypes []string

	// ConvictionKeyword marks a court decision as a conviction.
	ConvictionKeyword string
}
