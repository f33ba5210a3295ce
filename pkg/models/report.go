package models

// ProfileReportRequest asks for a per-profile accessibility report of a
// frame region: one assessment for every recognized color vision profile.
type ProfileReportRequest struct {
	URL          string      `json:"url" binding:"required,url"`
	Region       *RegionSpec `json:"region,omitempty"`
	IncludeStats bool        `json:"include_stats,omitempty"`
}

// ProfileAssessment is the verdict for one color vision profile.
type ProfileAssessment struct {
	Profile string `json:"profile"`
	// Affected is true when the region contains a significant share of a
	// band that blends into its surroundings under this profile.
	Affected         bool     `json:"affected"`
	Warning          string   `json:"warning,omitempty"`
	ProblematicBands []string `json:"problematic_bands,omitempty"`
}

// AppliedThresholds records the cutoffs the analysis used.
type AppliedThresholds struct {
	InclusionPercent    float64 `json:"inclusion_percent"`
	SignificancePercent float64 `json:"significance_percent"`
}

// ReportTimings carries per-phase timing in milliseconds.
type ReportTimings struct {
	FetchMs    float64 `json:"fetch_ms"`
	AnalysisMs float64 `json:"analysis_ms"`
	TotalMs    float64 `json:"total_ms"`
}

// ProfileReportResponse is the full accessibility report for one region.
type ProfileReportResponse struct {
	ImageURL         string              `json:"image_url"`
	Timestamp        string              `json:"timestamp"`
	DominantColors   []string            `json:"dominant_colors"`
	ColorBreakdown   DetectionResult     `json:"color_breakdown,omitempty"`
	Stats            *RegionStats        `json:"stats,omitempty"`
	Assessments      []ProfileAssessment `json:"assessments"`
	AffectedProfiles int                 `json:"affected_profiles"`
	Thresholds       AppliedThresholds   `json:"applied_thresholds"`
	Timings          ReportTimings       `json:"timings"`
}
