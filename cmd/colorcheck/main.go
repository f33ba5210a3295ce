// Command colorcheck analyzes a region of a local image file and prints the
// detected colors, colorblindness warnings, and optionally the traffic light
// state.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/fatih/color"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go-color-inspector/internal/analyzer"
	"go-color-inspector/internal/service"
	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
)

func main() {
	var (
		regionSpec  = flag.String("region", "", "region as x,y,WxH (default: whole image)")
		profileName = flag.String("profile", "normal", "color vision profile to check against")
		topN        = flag.Int("top", 3, "number of dominant colors to list")
		traffic     = flag.Bool("traffic", false, "classify the region as a traffic light")
		stats       = flag.Bool("stats", false, "print region channel statistics")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: colorcheck [flags] <image-file>\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nProfiles: %s\n", profileList())
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *regionSpec, *profileName, *topN, *traffic, *stats); err != nil {
		fmt.Fprintf(os.Stderr, "colorcheck: %v\n", err)
		os.Exit(1)
	}
}

func run(path, regionSpec, profileName string, topN int, traffic, stats bool) error {
	profile, err := palette.ParseProfile(profileName)
	if err != nil {
		return err
	}

	region, err := parseRegion(regionSpec)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	a, err := analyzer.NewColorAnalyzer()
	if err != nil {
		return err
	}
	defer a.Close()

	roi := service.CropRegion(img, region)

	if traffic {
		printTrafficLight(a.ClassifyTrafficLight(roi))
		return nil
	}

	opts := analyzer.DefaultOptions().WithTopN(topN)
	if stats {
		opts = opts.WithStats()
	}
	printAnalysis(a.AnalyzeRegion(roi, profile, opts), profile)
	return nil
}

// parseRegion parses "x,y,WxH" into a RegionSpec. The empty string selects
// the whole image.
func parseRegion(s string) (*models.RegionSpec, error) {
	if s == "" {
		return nil, nil
	}

	var r models.RegionSpec
	if _, err := fmt.Sscanf(s, "%d,%d,%dx%d", &r.X, &r.Y, &r.Width, &r.Height); err != nil {
		return nil, fmt.Errorf("invalid region %q, want x,y,WxH", s)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("region %q has no area", s)
	}
	return &r, nil
}

func printAnalysis(result *models.AnalysisResult, profile palette.Profile) {
	bold := color.New(color.Bold)

	bold.Println("Dominant colors")
	if len(result.DominantColors) == 0 {
		fmt.Println("  (none above threshold)")
	}
	for i, name := range result.DominantColors {
		fmt.Printf("  %d. %s\n", i+1, name)
	}

	if len(result.ColorBreakdown) > 0 {
		bold.Println("\nBreakdown")
		for _, share := range result.ColorBreakdown {
			fmt.Printf("  %-24s %5.1f%% %s\n", share.DisplayName, share.Percentage, bar(share.Percentage))
		}
	}

	bold.Printf("\nProfile %s: ", profile)
	if result.IsProblematic {
		color.Red("problematic")
		color.Yellow("  %s", result.Warning)
	} else {
		color.Green("ok")
	}

	if result.Stats != nil {
		s := result.Stats
		bold.Println("\nRegion stats")
		fmt.Printf("  pixels=%d meanHue=%.1f meanSat=%.1f (±%.1f) meanVal=%.1f (±%.1f)\n",
			s.Pixels, s.MeanHue, s.MeanSaturation, s.StdSaturation, s.MeanValue, s.StdValue)
	}
}

func printTrafficLight(result models.TrafficLightResult) {
	label := color.New(color.Bold).Sprint("Traffic light:")
	switch result.State {
	case models.TrafficRed:
		fmt.Printf("%s %s (confidence %.2f)\n", label, color.RedString("red"), result.Confidence)
	case models.TrafficYellow:
		fmt.Printf("%s %s (confidence %.2f)\n", label, color.YellowString("yellow"), result.Confidence)
	case models.TrafficGreen:
		fmt.Printf("%s %s (confidence %.2f)\n", label, color.GreenString("green"), result.Confidence)
	default:
		fmt.Printf("%s unknown\n", label)
	}
}

// bar renders a percentage as a text bar, two percent per cell.
func bar(pct float64) string {
	n := int(pct / 2)
	if n > 50 {
		n = 50
	}
	return strings.Repeat("█", n)
}

func profileList() string {
	names := make([]string, 0, len(palette.Profiles()))
	for _, p := range palette.Profiles() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
