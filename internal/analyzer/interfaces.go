package analyzer

import (
	"image"

	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
)

// ColorAnalyzer defines the main interface for region color analysis
type ColorAnalyzer interface {
	// Detection primitives
	DetectColors(roi image.Image) models.DetectionResult
	DominantColors(roi image.Image, topN int) []string
	IsProblematic(result models.DetectionResult, profile palette.Profile) (bool, string)

	// Composed operations
	AnalyzeRegion(roi image.Image, profile palette.Profile, options AnalysisOptions) *models.AnalysisResult
	ClassifyTrafficLight(roi image.Image) models.TrafficLightResult

	// Lifecycle management
	Close() error
}

// StatsCalculator handles per-channel statistics computation
type StatsCalculator interface {
	RegionStats(roi image.Image) *models.RegionStats
}
