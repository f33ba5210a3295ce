package analyzer

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"
	"sync"

	"go-color-inspector/pkg/colorutil"
	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
)

// minParallelPixels is the region size at which splitting the scan across the
// worker pool starts to pay for the goroutine overhead.
const minParallelPixels = 1 << 16

// colorAnalyzer implements ColorAnalyzer on top of the shared palette table
type colorAnalyzer struct {
	table           *palette.Table
	workerPool      *WorkerPool
	statsCalculator StatsCalculator
	countsPool      sync.Pool
}

// NewColorAnalyzer creates a region analyzer backed by the default palette
// table, sizing the scan pool to the CPU count.
func NewColorAnalyzer() (ColorAnalyzer, error) {
	return NewColorAnalyzerWithWorkers(0)
}

// NewColorAnalyzerWithWorkers creates a region analyzer whose scan pool runs
// the given number of workers. Non-positive counts fall back to the CPU count.
func NewColorAnalyzerWithWorkers(workers int) (ColorAnalyzer, error) {
	workerPool := NewWorkerPool(workers)
	workerPool.Start()

	return &colorAnalyzer{
		table:           palette.Default(),
		workerPool:      workerPool,
		statsCalculator: NewStatsCalculator(),
		countsPool: sync.Pool{
			New: func() interface{} {
				return make([]int64, 0, 64)
			},
		},
	}, nil
}

// DetectColors reports every palette band covering more than the inclusion
// threshold of the region, in band table order. Percentages are rounded to
// one decimal place; the inclusion test runs on the unrounded value.
func (ca *colorAnalyzer) DetectColors(roi image.Image) models.DetectionResult {
	return ca.detect(roi, DefaultOptions())
}

// DominantColors returns up to topN distinct display names ordered by
// coverage. Non-positive topN falls back to DefaultTopN.
func (ca *colorAnalyzer) DominantColors(roi image.Image, topN int) []string {
	return rankDisplayNames(ca.DetectColors(roi), topN)
}

// IsProblematic checks a detection result against a colorblindness profile.
// A band triggers only when it belongs to the profile's problematic set and
// its stored percentage clears the significance threshold. The warning names
// at most the first two such bands in detection result order, which follows
// the band table rather than coverage ranking.
func (ca *colorAnalyzer) IsProblematic(result models.DetectionResult, profile palette.Profile) (bool, string) {
	problematic := ca.table.ProblematicBands(profile)
	if len(problematic) == 0 {
		return false, ""
	}

	problemSet := make(map[string]struct{}, len(problematic))
	for _, name := range problematic {
		problemSet[name] = struct{}{}
	}

	var found []string
	for _, share := range result {
		if _, ok := problemSet[share.Band]; !ok {
			continue
		}
		if share.Percentage > SignificanceThresholdPct {
			found = append(found, share.DisplayName)
		}
	}
	if len(found) == 0 {
		return false, ""
	}
	if len(found) > 2 {
		found = found[:2]
	}
	return true, fmt.Sprintf("Contains %s - may be difficult to see", strings.Join(found, ", "))
}

// AnalyzeRegion runs the full detection pipeline over one region. A zero-area
// region short-circuits to an empty result without a color breakdown.
func (ca *colorAnalyzer) AnalyzeRegion(roi image.Image, profile palette.Profile, options AnalysisOptions) *models.AnalysisResult {
	bounds := roi.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return &models.AnalysisResult{DominantColors: []string{}}
	}

	detected := ca.detect(roi, options)
	isProblematic, warning := ca.IsProblematic(detected, profile)

	result := &models.AnalysisResult{
		DominantColors: rankDisplayNames(detected, options.TopN),
		IsProblematic:  isProblematic,
		Warning:        warning,
		ColorBreakdown: detected,
	}
	if options.IncludeStats {
		result.Stats = ca.statsCalculator.RegionStats(roi)
	}
	return result
}

// ClassifyTrafficLight decides which traffic light lamp is lit. The two red
// bands are summed to cover the hue wraparound. A lamp must strictly beat
// both others and clear the significance threshold; ties and weak signals
// yield the unknown state.
func (ca *colorAnalyzer) ClassifyTrafficLight(roi image.Image) models.TrafficLightResult {
	bounds := roi.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return models.TrafficLightResult{State: models.TrafficUnknown, Confidence: 0}
	}

	detected := ca.DetectColors(roi)

	redPct := detected.Percentage(palette.BandRedLow) + detected.Percentage(palette.BandRedHigh)
	yellowPct := detected.Percentage(palette.BandYellow)
	greenPct := detected.Percentage(palette.BandGreen)

	switch {
	case redPct > yellowPct && redPct > greenPct && redPct > SignificanceThresholdPct:
		return models.TrafficLightResult{State: models.TrafficRed, Confidence: math.Min(redPct/100, 1.0)}
	case yellowPct > redPct && yellowPct > greenPct && yellowPct > SignificanceThresholdPct:
		return models.TrafficLightResult{State: models.TrafficYellow, Confidence: math.Min(yellowPct/100, 1.0)}
	case greenPct > redPct && greenPct > yellowPct && greenPct > SignificanceThresholdPct:
		return models.TrafficLightResult{State: models.TrafficGreen, Confidence: math.Min(greenPct/100, 1.0)}
	default:
		return models.TrafficLightResult{State: models.TrafficUnknown, Confidence: 0}
	}
}

// Close shuts down the worker pool
func (ca *colorAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}

// detect runs one band counting pass and converts counts to percentages of
// the sampled pixel total.
func (ca *colorAnalyzer) detect(roi image.Image, options AnalysisOptions) models.DetectionResult {
	bounds := roi.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return models.DetectionResult{}
	}

	step := options.SampleStep
	if step < 1 {
		step = 1
	}

	bands := ca.table.Bands()
	counts := make([]int64, len(bands))

	var sampled int64
	pixels := int64(bounds.Dx()) * int64(bounds.Dy())
	if options.UseWorkerPool && step == 1 && pixels >= minParallelPixels {
		sampled = ca.scanParallel(roi, counts, options.MaxWorkers)
	} else {
		sampled = ca.scanRows(roi, bounds.Min.Y, bounds.Max.Y, step, counts)
	}
	if sampled == 0 {
		return models.DetectionResult{}
	}

	result := make(models.DetectionResult, 0, 8)
	for i := range bands {
		pct := float64(counts[i]) / float64(sampled) * 100
		if pct > InclusionThresholdPct {
			result = append(result, models.BandShare{
				Band:        bands[i].Name,
				DisplayName: bands[i].DisplayName,
				Percentage:  math.Round(pct*10) / 10,
			})
		}
	}
	return result
}

// scanParallel splits the region into horizontal strips and counts them on
// the worker pool. Strips accumulate into pooled local slices and merge under
// one lock so band counters never contend per pixel.
func (ca *colorAnalyzer) scanParallel(roi image.Image, counts []int64, maxWorkers int) int64 {
	bounds := roi.Bounds()
	height := bounds.Dy()

	strips := ca.workerPool.workers
	if maxWorkers > 0 && strips > maxWorkers {
		strips = maxWorkers
	}
	if strips > height {
		strips = height
	}
	if strips <= 1 {
		return ca.scanRows(roi, bounds.Min.Y, bounds.Max.Y, 1, counts)
	}

	rowsPerStrip := (height + strips - 1) / strips // ceil division

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sampled int64
	)

	for i := 0; i < strips; i++ {
		startY := bounds.Min.Y + i*rowsPerStrip
		endY := startY + rowsPerStrip
		if endY > bounds.Max.Y {
			endY = bounds.Max.Y
		}
		if startY >= endY {
			break
		}

		wg.Add(1)
		job := func() {
			defer wg.Done()

			local := ca.countsPool.Get().([]int64)
			if cap(local) < len(counts) {
				local = make([]int64, len(counts))
			}
			local = local[:len(counts)]
			for i := range local {
				local[i] = 0
			}

			n := ca.scanRows(roi, startY, endY, 1, local)

			mu.Lock()
			for i, c := range local {
				counts[i] += c
			}
			sampled += n
			mu.Unlock()

			ca.countsPool.Put(local[:0])
		}
		if !ca.workerPool.Submit(job) {
			job()
		}
	}

	wg.Wait()
	return sampled
}

// scanRows counts band hits for rows [y0, y1) at the given stride and returns
// the number of pixels sampled. Capture frames decode to opaque buffers, so
// the packed fast path reads color channels without alpha handling.
func (ca *colorAnalyzer) scanRows(roi image.Image, y0, y1, step int, counts []int64) int64 {
	bounds := roi.Bounds()
	bands := ca.table.Bands()

	var pix []uint8
	var stride int
	switch src := roi.(type) {
	case *image.RGBA:
		pix, stride = src.Pix, src.Stride
	case *image.NRGBA:
		pix, stride = src.Pix, src.Stride
	}

	var sampled int64
	if pix != nil {
		for y := y0; y < y1; y += step {
			row := (y - bounds.Min.Y) * stride
			for x := bounds.Min.X; x < bounds.Max.X; x += step {
				o := row + (x-bounds.Min.X)*4
				h, s, v := colorutil.RGBToHSV(pix[o], pix[o+1], pix[o+2])
				for i := range bands {
					if bands[i].Contains(h, s, v) {
						counts[i]++
					}
				}
				sampled++
			}
		}
		return sampled
	}

	for y := y0; y < y1; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := colorutil.FromColor(roi.At(x, y))
			for i := range bands {
				if bands[i].Contains(c.H, c.S, c.V) {
					counts[i]++
				}
			}
			sampled++
		}
	}
	return sampled
}

// rankDisplayNames orders detection entries by percentage descending and
// collects unique display names, keeping the first occurrence of each. The
// stable sort preserves band table order for equal percentages so results
// stay deterministic.
func rankDisplayNames(result models.DetectionResult, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make(models.DetectionResult, len(result))
	copy(ranked, result)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	capHint := topN
	if capHint > len(ranked) {
		capHint = len(ranked)
	}

	seen := make(map[string]struct{}, len(ranked))
	dominant := make([]string, 0, capHint)
	for _, share := range ranked {
		if _, ok := seen[share.DisplayName]; ok {
			continue
		}
		seen[share.DisplayName] = struct{}{}
		dominant = append(dominant, share.DisplayName)
		if len(dominant) >= topN {
			break
		}
	}
	return dominant
}
