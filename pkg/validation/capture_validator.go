package validation

import (
	"go-color-inspector/pkg/models"
)

// CaptureThresholds defines configurable thresholds for capture reliability
// checks. Channel values follow the 8-bit HSV scale of the analyzer.
type CaptureThresholds struct {
	// Brightness bounds on the mean value channel
	MinMeanValue float64
	MaxMeanValue float64

	// Saturation below which hue readings stop being meaningful, and the
	// brightness above which that combination reads as glare
	MinMeanSaturation float64
	WashedOutValue    float64

	// Region size bounds
	MinPixels    int
	MinDimension int
}

// DefaultCaptureThresholds returns the default capture thresholds
func DefaultCaptureThresholds() CaptureThresholds {
	return CaptureThresholds{
		MinMeanValue:      40.0,
		MaxMeanValue:      245.0,
		MinMeanSaturation: 20.0,
		WashedOutValue:    200.0,
		MinPixels:         64,
		MinDimension:      4,
	}
}

// CaptureIssue represents one reliability problem found in a capture region.
// Issues advise the caller; they never fail an analysis.
type CaptureIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// CaptureValidator checks whether a capture region is bright and saturated
// enough for its color readings to be trusted
type CaptureValidator struct {
	thresholds CaptureThresholds
}

// NewCaptureValidator creates a capture validator with default thresholds
func NewCaptureValidator() *CaptureValidator {
	return &CaptureValidator{
		thresholds: DefaultCaptureThresholds(),
	}
}

// NewCaptureValidatorWithThresholds creates a capture validator with custom thresholds
func NewCaptureValidatorWithThresholds(thresholds CaptureThresholds) *CaptureValidator {
	return &CaptureValidator{
		thresholds: thresholds,
	}
}

// ValidateRegion inspects region statistics and dimensions and reports every
// reliability issue found
func (cv *CaptureValidator) ValidateRegion(stats *models.RegionStats, width, height int) []CaptureIssue {
	var issues []CaptureIssue

	// 1. Region size
	if width < cv.thresholds.MinDimension || height < cv.thresholds.MinDimension ||
		stats.Pixels < cv.thresholds.MinPixels {
		issues = append(issues, CaptureIssue{
			Type:        "region_too_small",
			Message:     "Region is too small for a stable color reading. Move closer and try again.",
			Severity:    "error",
			ActualValue: float64(stats.Pixels),
			Threshold:   float64(cv.thresholds.MinPixels),
		})
	}

	// 2. Brightness
	if stats.MeanValue <= cv.thresholds.MinMeanValue {
		issues = append(issues, CaptureIssue{
			Type:        "too_dark",
			Message:     "Scene is too dark for reliable colors. Move to better light.",
			Severity:    "error",
			ActualValue: stats.MeanValue,
			Threshold:   cv.thresholds.MinMeanValue,
		})
	} else if stats.MeanValue >= cv.thresholds.MaxMeanValue {
		issues = append(issues, CaptureIssue{
			Type:        "too_bright",
			Message:     "Scene has too much light. Move away from glare or direct sun.",
			Severity:    "error",
			ActualValue: stats.MeanValue,
			Threshold:   cv.thresholds.MaxMeanValue,
		})
	}

	// 3. Glare washes saturation out while keeping the frame bright
	if stats.MeanSaturation <= cv.thresholds.MinMeanSaturation &&
		stats.MeanValue >= cv.thresholds.WashedOutValue {
		issues = append(issues, CaptureIssue{
			Type:        "washed_out",
			Message:     "Colors look washed out. Avoid glare and strong backlight.",
			Severity:    "warning",
			ActualValue: stats.MeanSaturation,
			Threshold:   cv.thresholds.MinMeanSaturation,
		})
	}

	return issues
}

// ConvertIssuesToMessages converts capture issues to plain warning strings
func (cv *CaptureValidator) ConvertIssuesToMessages(issues []CaptureIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func (cv *CaptureValidator) HasCriticalIssues(issues []CaptureIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
