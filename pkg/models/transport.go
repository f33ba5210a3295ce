package models

// RegionSpec selects a rectangular region of the fetched frame, in pixel
// coordinates. Parts outside the frame are clamped away.
type RegionSpec struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width" binding:"min=0"`
	Height int `json:"height" binding:"min=0"`
}

// AnalyzeRequest asks for a color analysis of a frame region. An absent
// region means the whole frame.
type AnalyzeRequest struct {
	URL     string      `json:"url" binding:"required,url"`
	Region  *RegionSpec `json:"region,omitempty"`
	Profile string      `json:"profile,omitempty"`
	TopN    int         `json:"top_n,omitempty"`
	Mode    string      `json:"mode,omitempty"`
}

// AnalyzeResponse wraps an AnalysisResult with request metadata.
type AnalyzeResponse struct {
	ImageURL          string         `json:"image_url"`
	Profile           string         `json:"profile"`
	Timestamp         string         `json:"timestamp"`
	ProcessingTimeSec float64        `json:"processing_time_sec"`
	Analysis          AnalysisResult `json:"analysis"`
	CaptureWarnings   []string       `json:"capture_warnings,omitempty"`
}

// BatchAnalyzeRequest analyzes several regions of one frame.
type BatchAnalyzeRequest struct {
	URL     string       `json:"url" binding:"required,url"`
	Regions []RegionSpec `json:"regions" binding:"required,min=1"`
	Profile string       `json:"profile,omitempty"`
	TopN    int          `json:"top_n,omitempty"`
}

// BatchAnalyzeResponse returns one result per requested region, in request
// order.
type BatchAnalyzeResponse struct {
	ImageURL          string           `json:"image_url"`
	Profile           string           `json:"profile"`
	Timestamp         string           `json:"timestamp"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
	Results           []AnalysisResult `json:"results"`
}

// TrafficLightRequest asks for the traffic light state of a frame region.
type TrafficLightRequest struct {
	URL    string      `json:"url" binding:"required,url"`
	Region *RegionSpec `json:"region,omitempty"`
}

// TrafficLightResponse wraps a TrafficLightResult with request metadata.
type TrafficLightResponse struct {
	ImageURL          string             `json:"image_url"`
	Timestamp         string             `json:"timestamp"`
	ProcessingTimeSec float64            `json:"processing_time_sec"`
	Result            TrafficLightResult `json:"result"`
}

// ErrorResponse is the error envelope returned by the HTTP API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
