package analyzer

// Detection thresholds in percent of sampled region pixels. The inclusion
// threshold decides whether a band appears in a detection result at all; the
// significance threshold is the stricter, independent gate a band must clear
// before it counts toward warnings and traffic light states.
const (
	InclusionThresholdPct    = 5.0
	SignificanceThresholdPct = 10.0
)
