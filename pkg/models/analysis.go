package models

// BandShare is one palette band's measured presence in a region.
type BandShare struct {
	Band        string  `json:"band"`
	DisplayName string  `json:"display_name"`
	Percentage  float64 `json:"percentage"`
}

// DetectionResult lists the bands whose presence cleared the inclusion
// threshold, in palette definition order. Absence from the result means
// below threshold, not zero. Percentages are rounded to one decimal place.
type DetectionResult []BandShare

// Percentage returns the stored percentage for a band name, or 0 when the
// band did not clear the inclusion threshold.
func (d DetectionResult) Percentage(band string) float64 {
	for _, s := range d {
		if s.Band == band {
			return s.Percentage
		}
	}
	return 0
}

// Has reports whether the band cleared the inclusion threshold.
func (d DetectionResult) Has(band string) bool {
	for _, s := range d {
		if s.Band == band {
			return true
		}
	}
	return false
}

// AnalysisResult is the full color analysis of one region.
// A zero-area region yields an empty dominant list, a false flag, and no
// breakdown.
type AnalysisResult struct {
	DominantColors []string        `json:"dominant_colors"`
	IsProblematic  bool            `json:"is_problematic"`
	Warning        string          `json:"warning,omitempty"`
	ColorBreakdown DetectionResult `json:"color_breakdown,omitempty"`
	Stats          *RegionStats    `json:"stats,omitempty"`
}

// TrafficLightState is the classified state of a traffic light region.
type TrafficLightState string

const (
	TrafficRed     TrafficLightState = "red"
	TrafficYellow  TrafficLightState = "yellow"
	TrafficGreen   TrafficLightState = "green"
	TrafficUnknown TrafficLightState = "unknown"
)

// TrafficLightResult carries the classified state and a confidence in [0,1].
type TrafficLightResult struct {
	State      TrafficLightState `json:"state"`
	Confidence float64           `json:"confidence"`
}

// RegionStats summarizes the HSV distribution of a region. MeanHue is a
// circular mean on the 0-179 hue wheel.
type RegionStats struct {
	Pixels         int     `json:"pixels"`
	MeanHue        float64 `json:"mean_hue"`
	MeanSaturation float64 `json:"mean_saturation"`
	StdSaturation  float64 `json:"std_saturation"`
	MeanValue      float64 `json:"mean_value"`
	StdValue       float64 `json:"std_value"`
}
