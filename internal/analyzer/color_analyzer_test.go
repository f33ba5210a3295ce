package analyzer

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
)

var (
	pureRed    = color.NRGBA{R: 255, A: 255}
	highRed    = color.NRGBA{R: 255, B: 34, A: 255} // lands in the high-hue red band
	pureGreen  = color.NRGBA{G: 255, A: 255}
	pureBlue   = color.NRGBA{B: 255, A: 255}
	pureYellow = color.NRGBA{R: 255, G: 255, A: 255}
	chartreuse = color.NRGBA{R: 128, G: 255, A: 255}
	pureBlack  = color.NRGBA{A: 255}
	pureWhite  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func newTestAnalyzer(t *testing.T) ColorAnalyzer {
	t.Helper()
	ca, err := NewColorAnalyzer()
	if err != nil {
		t.Fatalf("NewColorAnalyzer() error = %v", err)
	}
	t.Cleanup(func() { ca.Close() })
	return ca
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// splitImage fills the first count pixels in row-major order with one color
// and the remainder with another.
func splitImage(w, h, count int, first, rest color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if i < count {
				img.SetNRGBA(x, y, first)
			} else {
				img.SetNRGBA(x, y, rest)
			}
			i++
		}
	}
	return img
}

func TestDetectColors_UniformRed(t *testing.T) {
	ca := newTestAnalyzer(t)

	result := ca.DetectColors(uniformImage(20, 20, pureRed))

	if len(result) != 1 {
		t.Fatalf("Expected exactly 1 band, got %d: %v", len(result), result)
	}
	if result[0].Band != palette.BandRedLow {
		t.Errorf("Expected band %q, got %q", palette.BandRedLow, result[0].Band)
	}
	if result[0].DisplayName != "red" {
		t.Errorf("Expected display name 'red', got %q", result[0].DisplayName)
	}
	if result[0].Percentage != 100.0 {
		t.Errorf("Expected 100.0 percent, got %v", result[0].Percentage)
	}
}

func TestDetectColors_OverlappingBands(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Chartreuse sits inside both the green and lime ranges, so one pixel
	// counts toward both bands.
	result := ca.DetectColors(uniformImage(20, 20, chartreuse))

	if len(result) != 2 {
		t.Fatalf("Expected 2 bands, got %d: %v", len(result), result)
	}
	if result[0].Band != "green" || result[1].Band != "lime" {
		t.Errorf("Expected [green lime] in table order, got [%s %s]", result[0].Band, result[1].Band)
	}
	for _, share := range result {
		if share.Percentage != 100.0 {
			t.Errorf("Expected %s at 100.0 percent, got %v", share.Band, share.Percentage)
		}
	}
}

func TestDetectColors_InclusionThreshold(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Exactly 5 percent must stay excluded, 6 percent must appear.
	atThreshold := ca.DetectColors(splitImage(10, 10, 5, pureBlue, pureRed))
	if atThreshold.Has("blue") {
		t.Errorf("Expected 5 percent coverage to stay below the inclusion threshold, got %v", atThreshold)
	}
	if !atThreshold.Has(palette.BandRedLow) {
		t.Errorf("Expected red_low in result, got %v", atThreshold)
	}

	aboveThreshold := ca.DetectColors(splitImage(10, 10, 6, pureBlue, pureRed))
	if got := aboveThreshold.Percentage("blue"); got != 6.0 {
		t.Errorf("Expected blue at 6.0 percent, got %v", got)
	}
	if got := aboveThreshold.Percentage(palette.BandRedLow); got != 94.0 {
		t.Errorf("Expected red_low at 94.0 percent, got %v", got)
	}
}

func TestDetectColors_RoundsToOneDecimal(t *testing.T) {
	ca := newTestAnalyzer(t)

	// 3 of 7 pixels is 42.857...%, 4 of 7 is 57.142...%
	result := ca.DetectColors(splitImage(7, 1, 3, pureRed, pureBlue))

	if got := result.Percentage(palette.BandRedLow); got != 42.9 {
		t.Errorf("Expected red_low rounded to 42.9, got %v", got)
	}
	if got := result.Percentage("blue"); got != 57.1 {
		t.Errorf("Expected blue rounded to 57.1, got %v", got)
	}
}

func TestDetectColors_ZeroArea(t *testing.T) {
	ca := newTestAnalyzer(t)

	result := ca.DetectColors(image.NewNRGBA(image.Rect(0, 0, 0, 0)))

	if len(result) != 0 {
		t.Errorf("Expected empty result for zero-area region, got %v", result)
	}
}

func TestDetectColors_GrayscaleImage(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Grayscale images take the generic pixel access path.
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetGray(x, y, color.Gray{Y: 128})
		}
	}

	result := ca.DetectColors(img)

	if len(result) != 1 || result[0].Band != "gray" {
		t.Fatalf("Expected only the gray band, got %v", result)
	}
	if result[0].Percentage != 100.0 {
		t.Errorf("Expected 100.0 percent, got %v", result[0].Percentage)
	}
}

func TestDetectColors_LargeRegionParallel(t *testing.T) {
	ca := newTestAnalyzer(t)

	// 300x300 crosses the parallel scan cutoff.
	result := ca.DetectColors(uniformImage(300, 300, pureRed))

	if len(result) != 1 {
		t.Fatalf("Expected exactly 1 band, got %d: %v", len(result), result)
	}
	if result[0].Band != palette.BandRedLow || result[0].Percentage != 100.0 {
		t.Errorf("Expected red_low at 100.0, got %s at %v", result[0].Band, result[0].Percentage)
	}
}

func TestDetectColors_Deterministic(t *testing.T) {
	ca := newTestAnalyzer(t)
	img := splitImage(10, 10, 60, pureBlue, pureRed)

	first := ca.DetectColors(img)
	second := ca.DetectColors(img)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results for identical input, got %v then %v", first, second)
	}
}

func TestDominantColors_OrdersByCoverage(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Blue covers more area, so it outranks red despite red coming first in
	// the band table.
	img := splitImage(10, 10, 60, pureBlue, pureRed)

	got := ca.DominantColors(img, 3)

	want := []string{"blue", "red"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDominantColors_MergesRedBands(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Both red bands are present at 50 percent each but share one display
	// name, so the list collapses to a single entry.
	img := splitImage(10, 10, 50, pureRed, highRed)

	got := ca.DominantColors(img, 3)

	want := []string{"red"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDominantColors_TieKeepsTableOrder(t *testing.T) {
	ca := newTestAnalyzer(t)

	img := splitImage(10, 10, 50, pureBlue, pureRed)

	got := ca.DominantColors(img, 3)

	// Equal coverage falls back to band table order: red before blue.
	want := []string{"red", "blue"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDominantColors_RespectsTopN(t *testing.T) {
	ca := newTestAnalyzer(t)

	img := image.NewNRGBA(image.Rect(0, 0, 9, 11))
	i := 0
	for y := 0; y < 11; y++ {
		for x := 0; x < 9; x++ {
			switch {
			case i < 33:
				img.SetNRGBA(x, y, pureRed)
			case i < 66:
				img.SetNRGBA(x, y, pureBlue)
			default:
				img.SetNRGBA(x, y, pureWhite)
			}
			i++
		}
	}

	if got := ca.DominantColors(img, 2); !reflect.DeepEqual(got, []string{"red", "blue"}) {
		t.Errorf("Expected topN to cap the list at [red blue], got %v", got)
	}

	// Non-positive topN falls back to the default of three.
	if got := ca.DominantColors(img, 0); !reflect.DeepEqual(got, []string{"red", "blue", "white"}) {
		t.Errorf("Expected default topN result [red blue white], got %v", got)
	}
	if got := ca.DominantColors(img, -1); len(got) != 3 {
		t.Errorf("Expected 3 entries for negative topN, got %v", got)
	}
}

func TestIsProblematic_NormalProfile(t *testing.T) {
	ca := newTestAnalyzer(t)

	result := models.DetectionResult{
		{Band: palette.BandRedLow, DisplayName: "red", Percentage: 100.0},
	}

	flagged, warning := ca.IsProblematic(result, palette.Normal)

	if flagged {
		t.Error("Expected the normal profile to never flag a region")
	}
	if warning != "" {
		t.Errorf("Expected empty warning, got %q", warning)
	}
}

func TestIsProblematic_Deuteranopia(t *testing.T) {
	ca := newTestAnalyzer(t)

	result := ca.DetectColors(uniformImage(10, 10, pureRed))

	flagged, warning := ca.IsProblematic(result, palette.Deuteranopia)

	if !flagged {
		t.Fatal("Expected a fully red region to be problematic for deuteranopia")
	}
	want := "Contains red - may be difficult to see"
	if warning != want {
		t.Errorf("Expected warning %q, got %q", want, warning)
	}
}

func TestIsProblematic_ProfileSpecificity(t *testing.T) {
	ca := newTestAnalyzer(t)

	red := ca.DetectColors(uniformImage(10, 10, pureRed))
	blue := ca.DetectColors(uniformImage(10, 10, pureBlue))

	tests := []struct {
		name    string
		result  models.DetectionResult
		profile palette.Profile
		want    bool
	}{
		{"red is problematic for protanopia", red, palette.Protanopia, true},
		{"red is not problematic for tritanopia", red, palette.Tritanopia, false},
		{"blue is problematic for tritanopia", blue, palette.Tritanopia, true},
		{"blue is not problematic for deuteranopia", blue, palette.Deuteranopia, false},
		{"red is problematic for achromatopsia", red, palette.Achromatopsia, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagged, _ := ca.IsProblematic(tt.result, tt.profile)
			if flagged != tt.want {
				t.Errorf("IsProblematic(%s) = %v, want %v", tt.profile, flagged, tt.want)
			}
		})
	}
}

func TestIsProblematic_SignificanceThreshold(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Exactly 10 percent is not significant; 10.1 is.
	atThreshold := models.DetectionResult{
		{Band: palette.BandRedLow, DisplayName: "red", Percentage: 10.0},
	}
	if flagged, _ := ca.IsProblematic(atThreshold, palette.Deuteranopia); flagged {
		t.Error("Expected exactly 10 percent to stay below the significance threshold")
	}

	aboveThreshold := models.DetectionResult{
		{Band: palette.BandRedLow, DisplayName: "red", Percentage: 10.1},
	}
	if flagged, _ := ca.IsProblematic(aboveThreshold, palette.Deuteranopia); !flagged {
		t.Error("Expected 10.1 percent to clear the significance threshold")
	}
}

func TestIsProblematic_WarningCapsAtTwo(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Three significant problematic bands: the warning names the first two in
	// detection result order, not the two largest.
	result := models.DetectionResult{
		{Band: "brown", DisplayName: "brown", Percentage: 20.0},
		{Band: palette.BandYellow, DisplayName: "yellow", Percentage: 25.0},
		{Band: palette.BandGreen, DisplayName: "green", Percentage: 30.0},
	}

	flagged, warning := ca.IsProblematic(result, palette.Deuteranopia)

	if !flagged {
		t.Fatal("Expected region to be flagged")
	}
	want := "Contains brown, yellow - may be difficult to see"
	if warning != want {
		t.Errorf("Expected warning %q, got %q", want, warning)
	}
}

func TestAnalyzeRegion(t *testing.T) {
	ca := newTestAnalyzer(t)

	img := splitImage(10, 10, 60, pureRed, pureBlue)

	result := ca.AnalyzeRegion(img, palette.Deuteranopia, DefaultOptions())

	if want := []string{"red", "blue"}; !reflect.DeepEqual(result.DominantColors, want) {
		t.Errorf("Expected dominant colors %v, got %v", want, result.DominantColors)
	}
	if !result.IsProblematic {
		t.Error("Expected a 60 percent red region to be problematic for deuteranopia")
	}
	if want := "Contains red - may be difficult to see"; result.Warning != want {
		t.Errorf("Expected warning %q, got %q", want, result.Warning)
	}
	if len(result.ColorBreakdown) != 2 {
		t.Errorf("Expected 2 bands in the breakdown, got %v", result.ColorBreakdown)
	}
	if result.Stats != nil {
		t.Error("Expected no stats without IncludeStats")
	}
}

func TestAnalyzeRegion_ZeroArea(t *testing.T) {
	ca := newTestAnalyzer(t)

	result := ca.AnalyzeRegion(image.NewNRGBA(image.Rect(0, 0, 0, 0)), palette.Deuteranopia, DefaultOptions())

	if result.DominantColors == nil || len(result.DominantColors) != 0 {
		t.Errorf("Expected an empty dominant color list, got %v", result.DominantColors)
	}
	if result.IsProblematic {
		t.Error("Expected zero-area region to never be problematic")
	}
	if result.Warning != "" {
		t.Errorf("Expected empty warning, got %q", result.Warning)
	}
	if result.ColorBreakdown != nil {
		t.Errorf("Expected no color breakdown, got %v", result.ColorBreakdown)
	}
	if result.Stats != nil {
		t.Error("Expected no stats for zero-area region")
	}
}

func TestAnalyzeRegion_WithStats(t *testing.T) {
	ca := newTestAnalyzer(t)

	result := ca.AnalyzeRegion(uniformImage(10, 10, pureBlue), palette.Tritanopia, DetailedOptions())

	if result.Stats == nil {
		t.Fatal("Expected stats with DetailedOptions")
	}
	if result.Stats.Pixels != 100 {
		t.Errorf("Expected 100 pixels, got %d", result.Stats.Pixels)
	}
	if result.Stats.MeanHue != 120 {
		t.Errorf("Expected mean hue 120 for pure blue, got %v", result.Stats.MeanHue)
	}
	if result.Stats.MeanValue != 255 || result.Stats.StdValue != 0 {
		t.Errorf("Expected value 255±0, got %v±%v", result.Stats.MeanValue, result.Stats.StdValue)
	}
}

func TestAnalyzeRegion_SampledScan(t *testing.T) {
	ca := newTestAnalyzer(t)

	// A uniform region survives subsampling unchanged.
	result := ca.AnalyzeRegion(uniformImage(40, 40, pureRed), palette.Normal, FastOptions())

	if got := result.ColorBreakdown.Percentage(palette.BandRedLow); got != 100.0 {
		t.Errorf("Expected red_low at 100.0 under sampling, got %v", got)
	}
}

func TestClassifyTrafficLight(t *testing.T) {
	ca := newTestAnalyzer(t)

	tests := []struct {
		name       string
		img        image.Image
		state      models.TrafficLightState
		confidence float64
	}{
		{"solid red", uniformImage(10, 10, pureRed), models.TrafficRed, 1.0},
		{"solid yellow", uniformImage(10, 10, pureYellow), models.TrafficYellow, 1.0},
		{"solid green", uniformImage(10, 10, pureGreen), models.TrafficGreen, 1.0},
		{"zero area", image.NewNRGBA(image.Rect(0, 0, 0, 0)), models.TrafficUnknown, 0},
		{"no lamp color", uniformImage(10, 10, pureBlack), models.TrafficUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ca.ClassifyTrafficLight(tt.img)
			if got.State != tt.state {
				t.Errorf("Expected state %q, got %q", tt.state, got.State)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Expected confidence %v, got %v", tt.confidence, got.Confidence)
			}
		})
	}
}

func TestClassifyTrafficLight_CombinesRedBands(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Half low-hue red, half high-hue red: each band alone is 50 percent but
	// the summed red signal wins outright.
	img := splitImage(10, 10, 50, pureRed, highRed)

	got := ca.ClassifyTrafficLight(img)

	if got.State != models.TrafficRed {
		t.Errorf("Expected red, got %q", got.State)
	}
	if got.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0 from combined red bands, got %v", got.Confidence)
	}
}

func TestClassifyTrafficLight_PartialCoverage(t *testing.T) {
	ca := newTestAnalyzer(t)

	img := splitImage(10, 10, 40, pureRed, pureBlack)

	got := ca.ClassifyTrafficLight(img)

	if got.State != models.TrafficRed {
		t.Errorf("Expected red, got %q", got.State)
	}
	if got.Confidence != 0.4 {
		t.Errorf("Expected confidence 0.4 for 40 percent coverage, got %v", got.Confidence)
	}
}

func TestClassifyTrafficLight_TieIsUnknown(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Red and green at exactly 50 percent each: neither strictly beats the
	// other, so no state is assigned.
	img := splitImage(10, 10, 50, pureRed, pureGreen)

	got := ca.ClassifyTrafficLight(img)

	if got.State != models.TrafficUnknown {
		t.Errorf("Expected unknown on a tie, got %q", got.State)
	}
	if got.Confidence != 0 {
		t.Errorf("Expected confidence 0 on a tie, got %v", got.Confidence)
	}
}

func TestClassifyTrafficLight_WeakSignalIsUnknown(t *testing.T) {
	ca := newTestAnalyzer(t)

	// Exactly 10 percent red does not clear the significance gate.
	img := splitImage(10, 10, 10, pureRed, pureBlack)

	got := ca.ClassifyTrafficLight(img)

	if got.State != models.TrafficUnknown {
		t.Errorf("Expected unknown for a weak signal, got %q", got.State)
	}
}

func TestNewColorAnalyzerWithWorkers_SizesPool(t *testing.T) {
	ca, err := NewColorAnalyzerWithWorkers(2)
	if err != nil {
		t.Fatalf("NewColorAnalyzerWithWorkers(2) error = %v", err)
	}
	t.Cleanup(func() { ca.Close() })

	stats := ca.(*colorAnalyzer).workerPool.GetStats()
	if stats.Workers != 2 {
		t.Fatalf("Expected a 2-worker pool, got %d", stats.Workers)
	}

	// The parallel scan stays correct when capped to the configured pool.
	result := ca.DetectColors(uniformImage(300, 300, pureRed))
	if len(result) != 1 || result[0].Band != palette.BandRedLow || result[0].Percentage != 100.0 {
		t.Errorf("Expected red_low at 100.0 on the sized pool, got %v", result)
	}
}

func TestColorAnalyzer_Close(t *testing.T) {
	ca, err := NewColorAnalyzer()
	if err != nil {
		t.Fatalf("NewColorAnalyzer() error = %v", err)
	}

	if err := ca.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// Closing twice must not panic.
	if err := ca.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
