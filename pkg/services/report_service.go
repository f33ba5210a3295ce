// Package services builds higher-level reports on top of the core analysis
// pipeline.
package services

import (
	"context"
	"time"

	"go-color-inspector/internal/analyzer"
	apperrors "go-color-inspector/internal/errors"
	"go-color-inspector/internal/repository"
	"go-color-inspector/internal/service"
	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
	"go-color-inspector/pkg/validation"
)

// ProfileReportService answers "who will struggle with this region": it
// analyzes a region once and assesses the detected colors against every
// recognized color vision profile.
type ProfileReportService struct {
	analyzer     analyzer.ColorAnalyzer
	repo         repository.ImageRepository
	urlValidator *validation.URLValidator
	table        *palette.Table
}

// NewProfileReportService creates a report service sharing the analyzer and
// frame repository of the main pipeline.
func NewProfileReportService(
	colorAnalyzer analyzer.ColorAnalyzer,
	repo repository.ImageRepository,
	urlValidator *validation.URLValidator,
) *ProfileReportService {
	return &ProfileReportService{
		analyzer:     colorAnalyzer,
		repo:         repo,
		urlValidator: urlValidator,
		table:        palette.Default(),
	}
}

// BuildReport fetches the frame, analyzes the region once, and evaluates the
// detection result under every profile.
func (s *ProfileReportService) BuildReport(ctx context.Context, req *models.ProfileReportRequest) (*models.ProfileReportResponse, error) {
	start := time.Now()

	if err := s.urlValidator.ValidateImageURL(req.URL); err != nil {
		return nil, err
	}

	frame, err := s.repo.GetImage(ctx, req.URL)
	if err != nil {
		return nil, apperrors.NewFetchError("failed to fetch frame", err)
	}
	fetchDone := time.Now()

	roi := service.CropRegion(frame, req.Region)

	opts := analyzer.DefaultOptions()
	if req.IncludeStats {
		opts = opts.WithStats()
	}
	analysis := s.analyzer.AnalyzeRegion(roi, palette.Normal, opts)

	assessments := make([]models.ProfileAssessment, 0, len(palette.Profiles()))
	affected := 0
	for _, profile := range palette.Profiles() {
		assessment := s.assess(analysis.ColorBreakdown, profile)
		if assessment.Affected {
			affected++
		}
		assessments = append(assessments, assessment)
	}
	done := time.Now()

	return &models.ProfileReportResponse{
		ImageURL:         req.URL,
		Timestamp:        done.UTC().Format(time.RFC3339),
		DominantColors:   analysis.DominantColors,
		ColorBreakdown:   analysis.ColorBreakdown,
		Stats:            analysis.Stats,
		Assessments:      assessments,
		AffectedProfiles: affected,
		Thresholds: models.AppliedThresholds{
			InclusionPercent:    analyzer.InclusionThresholdPct,
			SignificancePercent: analyzer.SignificanceThresholdPct,
		},
		Timings: models.ReportTimings{
			FetchMs:    float64(fetchDone.Sub(start).Microseconds()) / 1000,
			AnalysisMs: float64(done.Sub(fetchDone).Microseconds()) / 1000,
			TotalMs:    float64(done.Sub(start).Microseconds()) / 1000,
		},
	}, nil
}

// assess evaluates one profile against an already-computed detection result.
func (s *ProfileReportService) assess(detected models.DetectionResult, profile palette.Profile) models.ProfileAssessment {
	affected, warning := s.analyzer.IsProblematic(detected, profile)

	assessment := models.ProfileAssessment{
		Profile:  string(profile),
		Affected: affected,
		Warning:  warning,
	}
	if !affected {
		return assessment
	}

	problemSet := make(map[string]struct{})
	for _, name := range s.table.ProblematicBands(profile) {
		problemSet[name] = struct{}{}
	}
	for _, share := range detected {
		if _, ok := problemSet[share.Band]; !ok {
			continue
		}
		if share.Percentage > analyzer.SignificanceThresholdPct {
			assessment.ProblematicBands = append(assessment.ProblematicBands, share.Band)
		}
	}
	return assessment
}
