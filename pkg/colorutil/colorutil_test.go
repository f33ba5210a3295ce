package colorutil

import (
	"image/color"
	"testing"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"Pure red", 255, 0, 0, 0, 255, 255},
		{"Pure green", 0, 255, 0, 60, 255, 255},
		{"Pure blue", 0, 0, 255, 120, 255, 255},
		{"Yellow", 255, 255, 0, 30, 255, 255},
		{"Cyan", 0, 255, 255, 90, 255, 255},
		{"Magenta", 255, 0, 255, 150, 255, 255},
		{"White", 255, 255, 255, 0, 0, 255},
		{"Black", 0, 0, 0, 0, 0, 0},
		{"Mid gray", 128, 128, 128, 0, 0, 128},
		{"Orange", 255, 128, 0, 15, 255, 255},
		{"Chartreuse", 128, 255, 0, 45, 255, 255},
		{"Rose red", 255, 0, 64, 172, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if h != tt.h || s != tt.s || v != tt.v {
				t.Errorf("RGBToHSV(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestRGBToHSV_HueWrapsAt180(t *testing.T) {
	// (255, 0, 1) sits at ~359.8 degrees; halved and rounded it would be 180,
	// which must wrap to 0.
	h, _, _ := RGBToHSV(255, 0, 1)
	if h != 0 {
		t.Errorf("Expected hue 0 after wrap, got %d", h)
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.RGBA{R: 0, G: 255, B: 0, A: 255})
	want := HSV{H: 60, S: 255, V: 255}
	if got != want {
		t.Errorf("FromColor(green) = %+v, want %+v", got, want)
	}

	gray := FromColor(color.Gray{Y: 128})
	if gray.S != 0 || gray.V != 128 {
		t.Errorf("FromColor(gray 128) = %+v, want S=0 V=128", gray)
	}
}
