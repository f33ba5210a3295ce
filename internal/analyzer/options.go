package analyzer

// DefaultTopN is the dominant color list size used when the caller does not
// pick one.
const DefaultTopN = 3

// AnalysisOptions provides flexible configuration for region analysis
type AnalysisOptions struct {
	// Result shaping
	TopN         int
	IncludeStats bool

	// SampleStep scans every Nth pixel on both axes. 1 scans every pixel;
	// larger steps trade accuracy for speed on large regions.
	SampleStep int

	// Performance options
	UseWorkerPool bool
	MaxWorkers    int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		TopN:          DefaultTopN,
		IncludeStats:  false,
		SampleStep:    1,
		UseWorkerPool: true,
		MaxWorkers:    0, // Use default CPU count
	}
}

// DetailedOptions returns options for thorough analysis with channel statistics
func DetailedOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.IncludeStats = true
	opts.TopN = 5
	return opts
}

// FastOptions returns options for fast analysis of large regions
func FastOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.SampleStep = 4
	opts.UseWorkerPool = false
	return opts
}

// WithTopN sets the dominant color list size
func (opts AnalysisOptions) WithTopN(n int) AnalysisOptions {
	opts.TopN = n
	return opts
}

// WithStats enables channel statistics in the result
func (opts AnalysisOptions) WithStats() AnalysisOptions {
	opts.IncludeStats = true
	return opts
}

// WithSampleStep sets the pixel sampling stride
func (opts AnalysisOptions) WithSampleStep(step int) AnalysisOptions {
	if step < 1 {
		step = 1
	}
	opts.SampleStep = step
	return opts
}

// WithMaxWorkers caps how many strips a single scan is split into
func (opts AnalysisOptions) WithMaxWorkers(n int) AnalysisOptions {
	opts.MaxWorkers = n
	return opts
}
