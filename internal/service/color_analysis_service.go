// Package service orchestrates frame fetching, region cropping, and color
// analysis.
package service

import (
	"context"
	"errors"
	"image"
	"image/draw"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go-color-inspector/internal/analyzer"
	apperrors "go-color-inspector/internal/errors"
	"go-color-inspector/internal/logger"
	"go-color-inspector/internal/observer"
	"go-color-inspector/internal/repository"
	"go-color-inspector/internal/strategy"
	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
	"go-color-inspector/pkg/validation"
)

// ColorAnalysisService exposes the product's analysis operations over
// remotely fetched frames.
type ColorAnalysisService interface {
	AnalyzeURL(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error)
	AnalyzeBatch(ctx context.Context, req *models.BatchAnalyzeRequest) (*models.BatchAnalyzeResponse, error)
	ClassifyTrafficLight(ctx context.Context, req *models.TrafficLightRequest) (*models.TrafficLightResponse, error)
	Close() error
}

// colorAnalysisService implements ColorAnalysisService
type colorAnalysisService struct {
	analyzer         analyzer.ColorAnalyzer
	repo             repository.ImageRepository
	urlValidator     *validation.URLValidator
	captureValidator *validation.CaptureValidator
	statsCalculator  analyzer.StatsCalculator
	publisher        observer.Subject
	batchConcurrency int
}

// NewColorAnalysisService wires the analysis pipeline together.
func NewColorAnalysisService(
	colorAnalyzer analyzer.ColorAnalyzer,
	repo repository.ImageRepository,
	urlValidator *validation.URLValidator,
	captureValidator *validation.CaptureValidator,
	publisher observer.Subject,
	batchConcurrency int,
) ColorAnalysisService {
	if batchConcurrency < 1 {
		batchConcurrency = 1
	}
	return &colorAnalysisService{
		analyzer:         colorAnalyzer,
		repo:             repo,
		urlValidator:     urlValidator,
		captureValidator: captureValidator,
		statsCalculator:  analyzer.NewStatsCalculator(),
		publisher:        publisher,
		batchConcurrency: batchConcurrency,
	}
}

// AnalyzeURL fetches a frame, crops the requested region, and runs the full
// color analysis for one profile.
func (s *colorAnalysisService) AnalyzeURL(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	start := time.Now()

	profile, opts, err := s.resolveRequest(req.Profile, req.Mode, req.TopN)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, observer.AnalysisStarted, req.URL, string(profile), 0, true, "", nil)

	frame, err := s.fetchFrame(ctx, req.URL)
	if err != nil {
		s.notify(ctx, observer.AnalysisFailed, req.URL, string(profile), time.Since(start), false, err.Error(), nil)
		return nil, err
	}

	roi := CropRegion(frame, req.Region)
	result := s.analyzer.AnalyzeRegion(roi, profile, opts)
	warnings := s.captureWarnings(roi, result)

	elapsed := time.Since(start)
	s.notify(ctx, observer.AnalysisCompleted, req.URL, string(profile), elapsed, true, "", map[string]interface{}{
		"dominant_colors": len(result.DominantColors),
		"is_problematic":  result.IsProblematic,
	})

	return &models.AnalyzeResponse{
		ImageURL:          req.URL,
		Profile:           string(profile),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSec: elapsed.Seconds(),
		Analysis:          *result,
		CaptureWarnings:   warnings,
	}, nil
}

// AnalyzeBatch fetches one frame and analyzes every requested region
// concurrently. Results keep request order.
func (s *colorAnalysisService) AnalyzeBatch(ctx context.Context, req *models.BatchAnalyzeRequest) (*models.BatchAnalyzeResponse, error) {
	start := time.Now()

	profile, opts, err := s.resolveRequest(req.Profile, "", req.TopN)
	if err != nil {
		return nil, err
	}
	if len(req.Regions) == 0 {
		return nil, apperrors.NewValidationError("batch request needs at least one region", nil)
	}

	frame, err := s.fetchFrame(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	results := make([]models.AnalysisResult, len(req.Regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i := range req.Regions {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			roi := CropRegion(frame, &req.Regions[i])
			results[i] = *s.analyzer.AnalyzeRegion(roi, profile, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperrors.NewInternalError("batch analysis aborted", err)
	}

	elapsed := time.Since(start)
	logger.WithFields(logrus.Fields{
		"url":                req.URL,
		"regions":            len(req.Regions),
		"processing_time_ms": elapsed.Milliseconds(),
	}).Info("Batch analysis completed")

	return &models.BatchAnalyzeResponse{
		ImageURL:          req.URL,
		Profile:           string(profile),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSec: elapsed.Seconds(),
		Results:           results,
	}, nil
}

// ClassifyTrafficLight fetches a frame and classifies the requested region as
// a traffic light.
func (s *colorAnalysisService) ClassifyTrafficLight(ctx context.Context, req *models.TrafficLightRequest) (*models.TrafficLightResponse, error) {
	start := time.Now()

	frame, err := s.fetchFrame(ctx, req.URL)
	if err != nil {
		s.notify(ctx, observer.AnalysisFailed, req.URL, "", time.Since(start), false, err.Error(), nil)
		return nil, err
	}

	roi := CropRegion(frame, req.Region)
	result := s.analyzer.ClassifyTrafficLight(roi)

	elapsed := time.Since(start)
	s.notify(ctx, observer.TrafficLightClassified, req.URL, "", elapsed, true, "", map[string]interface{}{
		"state":      string(result.State),
		"confidence": result.Confidence,
	})

	return &models.TrafficLightResponse{
		ImageURL:          req.URL,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSec: elapsed.Seconds(),
		Result:            result,
	}, nil
}

// Close releases the analyzer and the frame repository.
func (s *colorAnalysisService) Close() error {
	err := s.analyzer.Close()
	if repoErr := s.repo.Close(); err == nil {
		err = repoErr
	}
	return err
}

// resolveRequest parses the profile and resolves the analysis mode into
// analyzer options.
func (s *colorAnalysisService) resolveRequest(profileName, mode string, topN int) (palette.Profile, analyzer.AnalysisOptions, error) {
	profile, err := palette.ParseProfile(profileName)
	if err != nil {
		return "", analyzer.AnalysisOptions{}, apperrors.NewValidationError("unknown color vision profile", err)
	}

	strat, err := strategy.ForMode(mode)
	if err != nil {
		return "", analyzer.AnalysisOptions{}, apperrors.NewValidationError("unknown analysis mode", err)
	}

	opts := strat.Options()
	if topN > 0 {
		opts = opts.WithTopN(topN)
	}
	return profile, opts, nil
}

// fetchFrame validates the reference and pulls the decoded frame through the
// repository, mapping failures to typed errors.
func (s *colorAnalysisService) fetchFrame(ctx context.Context, imageURL string) (image.Image, error) {
	if err := s.urlValidator.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	frame, err := s.repo.GetImage(ctx, imageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("frame fetch timed out", err)
		}
		return nil, apperrors.NewFetchError("failed to fetch frame", err)
	}
	return frame, nil
}

// captureWarnings runs the capture reliability checks over the analyzed
// region. Issues advise the caller; they never fail the analysis.
func (s *colorAnalysisService) captureWarnings(roi image.Image, result *models.AnalysisResult) []string {
	bounds := roi.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil
	}

	stats := result.Stats
	if stats == nil {
		stats = s.statsCalculator.RegionStats(roi)
	}
	issues := s.captureValidator.ValidateRegion(stats, bounds.Dx(), bounds.Dy())
	return s.captureValidator.ConvertIssuesToMessages(issues)
}

func (s *colorAnalysisService) notify(ctx context.Context, eventType observer.EventType, url, profile string, elapsed time.Duration, success bool, errMsg string, metadata map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      eventType,
		Timestamp:      time.Now().UTC(),
		ImageURL:       url,
		Profile:        profile,
		ProcessingTime: elapsed,
		Success:        success,
		ErrorMessage:   errMsg,
		Metadata:       metadata,
	})
}

// CropRegion clamps the requested region to the frame and returns the
// sub-image. A nil region selects the whole frame; a region clamped to
// nothing yields a zero-area image, the degenerate case the analyzer already
// answers with empty results.
func CropRegion(frame image.Image, region *models.RegionSpec) image.Image {
	if region == nil {
		return frame
	}

	bounds := frame.Bounds()
	rect := image.Rect(
		bounds.Min.X+region.X,
		bounds.Min.Y+region.Y,
		bounds.Min.X+region.X+region.Width,
		bounds.Min.Y+region.Y+region.Height,
	).Intersect(bounds)

	if rect.Empty() {
		return image.NewRGBA(image.Rectangle{})
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := frame.(subImager); ok {
		return si.SubImage(rect)
	}

	// Rare decoder types without SubImage get copied into a fresh buffer.
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), frame, rect.Min, draw.Src)
	return dst
}
