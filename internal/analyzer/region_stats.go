package analyzer

import (
	"image"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"go-color-inspector/pkg/colorutil"
	"go-color-inspector/pkg/models"
)

// statsCalculator implements StatsCalculator using Gonum
type statsCalculator struct {
	slicePool sync.Pool
}

// NewStatsCalculator creates a new channel statistics calculator
func NewStatsCalculator() StatsCalculator {
	return &statsCalculator{
		slicePool: sync.Pool{
			New: func() interface{} {
				return make([]float64, 0, 4096)
			},
		},
	}
}

// RegionStats computes per-channel statistics over the region in the same
// 8-bit HSV scale the detector uses: hue 0-179, saturation and value 0-255.
// The mean hue is a circular mean over the hue wheel, so reds straddling the
// 179/0 wrap average near the wrap instead of the wheel's midpoint.
// Deviations are sample standard deviations and zero for regions under two
// pixels.
func (sc *statsCalculator) RegionStats(roi image.Image) *models.RegionStats {
	bounds := roi.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return &models.RegionStats{}
	}

	n := width * height
	sats := sc.getSlice(n)
	defer sc.slicePool.Put(sats)
	vals := sc.getSlice(n)
	defer sc.slicePool.Put(vals)

	var hueSin, hueCos float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := colorutil.FromColor(roi.At(x, y))
			rad := float64(c.H) * (math.Pi / 90)
			hueSin += math.Sin(rad)
			hueCos += math.Cos(rad)
			sats = append(sats, float64(c.S))
			vals = append(vals, float64(c.V))
		}
	}

	result := &models.RegionStats{
		Pixels:         n,
		MeanHue:        meanHue(hueSin, hueCos),
		MeanSaturation: stat.Mean(sats, nil),
		MeanValue:      stat.Mean(vals, nil),
	}
	if n > 1 {
		result.StdSaturation = stat.StdDev(sats, nil)
		result.StdValue = stat.StdDev(vals, nil)
	}
	return result
}

// meanHue folds summed hue vectors back onto the 0-180 scale. A zero
// resultant, as for hues spread evenly around the wheel, reports zero.
func meanHue(sinSum, cosSum float64) float64 {
	if sinSum == 0 && cosSum == 0 {
		return 0
	}
	h := math.Atan2(sinSum, cosSum) * (90 / math.Pi)
	if h < 0 {
		h += 180
	}
	return h
}

// getSlice returns an empty pooled slice with at least the given capacity
func (sc *statsCalculator) getSlice(n int) []float64 {
	s := sc.slicePool.Get().([]float64)
	if cap(s) < n {
		s = make([]float64, 0, n)
	}
	return s[:0]
}
