// Package strategy maps request analysis modes onto analyzer option presets.
package strategy

import (
	"fmt"

	"go-color-inspector/internal/analyzer"
)

// AnalysisStrategy supplies the analyzer options for one analysis mode
type AnalysisStrategy interface {
	Options() analyzer.AnalysisOptions
	GetStrategyName() string
}

// StandardStrategy is the default balanced analysis
type StandardStrategy struct{}

// NewStandardStrategy creates the default analysis strategy
func NewStandardStrategy() AnalysisStrategy {
	return &StandardStrategy{}
}

// Options returns the default analyzer options
func (s *StandardStrategy) Options() analyzer.AnalysisOptions {
	return analyzer.DefaultOptions()
}

// GetStrategyName returns the strategy name
func (s *StandardStrategy) GetStrategyName() string {
	return "standard"
}

// DetailedStrategy adds channel statistics and a longer dominant list
type DetailedStrategy struct{}

// NewDetailedStrategy creates the detailed analysis strategy
func NewDetailedStrategy() AnalysisStrategy {
	return &DetailedStrategy{}
}

// Options returns options with region statistics enabled
func (s *DetailedStrategy) Options() analyzer.AnalysisOptions {
	return analyzer.DetailedOptions()
}

// GetStrategyName returns the strategy name
func (s *DetailedStrategy) GetStrategyName() string {
	return "detailed"
}

// FastStrategy samples pixels for per-frame video cadence
type FastStrategy struct{}

// NewFastStrategy creates the sampling strategy for large or frequent regions
func NewFastStrategy() AnalysisStrategy {
	return &FastStrategy{}
}

// Options returns options with pixel sampling enabled
func (s *FastStrategy) Options() analyzer.AnalysisOptions {
	return analyzer.FastOptions()
}

// GetStrategyName returns the strategy name
func (s *FastStrategy) GetStrategyName() string {
	return "fast"
}

// ForMode resolves a request mode string to its strategy. The empty mode
// selects the standard strategy.
func ForMode(mode string) (AnalysisStrategy, error) {
	switch mode {
	case "", "standard":
		return NewStandardStrategy(), nil
	case "detailed":
		return NewDetailedStrategy(), nil
	case "fast":
		return NewFastStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown analysis mode %q", mode)
	}
}
