package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-color-inspector/internal/analyzer"
	"go-color-inspector/internal/config"
	"go-color-inspector/internal/observer"
	"go-color-inspector/internal/repository"
	"go-color-inspector/internal/service"
	"go-color-inspector/internal/storage"
	"go-color-inspector/pkg/services"
	"go-color-inspector/pkg/validation"
)

// frameFetcher serves one in-memory frame for any reference.
type frameFetcher struct {
	frame image.Image
}

func (f *frameFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return f.frame, nil
}

func (f *frameFetcher) Close() error { return nil }

var _ storage.ImageFetcher = (*frameFetcher)(nil)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:            "test",
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func newTestHandler(t *testing.T, frame image.Image) http.Handler {
	t.Helper()

	a, err := analyzer.NewColorAnalyzer()
	if err != nil {
		t.Fatalf("NewColorAnalyzer failed: %v", err)
	}

	repo := repository.NewCachedImageRepository(&frameFetcher{frame: frame}, time.Minute, 8)
	urlValidator := validation.NewURLValidator()

	svc := service.NewColorAnalysisService(
		a, repo, urlValidator, validation.NewCaptureValidator(), nil, 2,
	)
	t.Cleanup(func() { svc.Close() })

	reports := services.NewProfileReportService(a, repo, urlValidator)
	return NewHandler(svc, reports, observer.NewStatsObserver(), testConfig())
}

func redFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 220, A: 255})
		}
	}
	return img
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(t, redFrame(8, 8))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshaling health doc: %v", err)
	}
	if doc["status"] != "available" {
		t.Errorf("expected available status, got %v", doc["status"])
	}
}

func TestHandler_PaletteListsBandsAndProfiles(t *testing.T) {
	h := newTestHandler(t, redFrame(8, 8))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/palette", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var doc struct {
		Bands    []map[string]any `json:"bands"`
		Profiles []string         `json:"profiles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshaling palette doc: %v", err)
	}
	if len(doc.Bands) == 0 {
		t.Error("expected bands in palette document")
	}
	if len(doc.Profiles) != 8 {
		t.Errorf("expected 8 profiles, got %d", len(doc.Profiles))
	}
}

func TestHandler_Analyze(t *testing.T) {
	h := newTestHandler(t, redFrame(16, 16))

	w := postJSON(t, h, "/analyze", map[string]any{
		"url":     "http://example.com/frame.png",
		"profile": "protanopia",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Analysis struct {
			DominantColors []string `json:"dominant_colors"`
			IsProblematic  bool     `json:"is_problematic"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(resp.Analysis.DominantColors) == 0 || resp.Analysis.DominantColors[0] != "red" {
		t.Errorf("expected dominant red, got %v", resp.Analysis.DominantColors)
	}
	if !resp.Analysis.IsProblematic {
		t.Error("expected problematic flag under protanopia")
	}
}

func TestHandler_AnalyzeRejectsMissingURL(t *testing.T) {
	h := newTestHandler(t, redFrame(8, 8))

	w := postJSON(t, h, "/analyze", map[string]any{"profile": "normal"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandler_AnalyzeRejectsUnknownProfile(t *testing.T) {
	h := newTestHandler(t, redFrame(8, 8))

	w := postJSON(t, h, "/analyze", map[string]any{
		"url":     "http://example.com/frame.png",
		"profile": "xray",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandler_TrafficLight(t *testing.T) {
	h := newTestHandler(t, redFrame(16, 16))

	w := postJSON(t, h, "/traffic-light", map[string]any{
		"url": "http://example.com/light.png",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Result struct {
			State      string  `json:"state"`
			Confidence float64 `json:"confidence"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if resp.Result.State != "red" {
		t.Errorf("expected red, got %s", resp.Result.State)
	}
}

func TestHandler_Report(t *testing.T) {
	h := newTestHandler(t, redFrame(16, 16))

	w := postJSON(t, h, "/analyze/report", map[string]any{
		"url": "http://example.com/sign.png",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Assessments      []map[string]any `json:"assessments"`
		AffectedProfiles int              `json:"affected_profiles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(resp.Assessments) != 8 {
		t.Errorf("expected 8 assessments, got %d", len(resp.Assessments))
	}
	if resp.AffectedProfiles == 0 {
		t.Error("expected affected profiles for a saturated red frame")
	}
}

func TestHandler_Batch(t *testing.T) {
	h := newTestHandler(t, redFrame(20, 10))

	w := postJSON(t, h, "/analyze/batch", map[string]any{
		"url": "http://example.com/frame.png",
		"regions": []map[string]int{
			{"x": 0, "y": 0, "width": 10, "height": 10},
			{"x": 10, "y": 0, "width": 10, "height": 10},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
}
