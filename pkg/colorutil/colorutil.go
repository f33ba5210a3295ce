// Package colorutil converts 8-bit RGB samples into the half-degree HSV
// encoding used by the palette tables (H 0-180, S 0-255, V 0-255).
package colorutil

import (
	"image/color"
	"math"
)

// HSV is a color sample in OpenCV's 8-bit convention: hue in half degrees
// [0,180), saturation and value in [0,255].
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
// Results are rounded to the nearest integer; a hue that rounds to 180 wraps
// back to 0 so red always sits at the low end of the hue circle.
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	diff := maxC - minC

	vf := maxC * 255.0

	var sf float64
	if maxC > 0 {
		sf = (diff / maxC) * 255.0
	}

	var hf float64
	switch {
	case diff == 0:
		hf = 0
	case maxC == rf:
		hf = 60 * math.Mod((gf-bf)/diff, 6)
	case maxC == gf:
		hf = 60 * ((bf-rf)/diff + 2)
	default:
		hf = 60 * ((rf-gf)/diff + 4)
	}
	if hf < 0 {
		hf += 360
	}
	hf /= 2 // OpenCV's 0-180 range

	h = uint8(math.Round(hf))
	if h >= 180 {
		h = 0
	}
	s = uint8(math.Round(sf))
	v = uint8(math.Round(vf))
	return h, s, v
}

// FromColor converts any color.Color using the high bytes of its 16-bit
// premultiplied channels. The alpha channel itself is discarded.
func FromColor(c color.Color) HSV {
	r, g, b, _ := c.RGBA()
	h, s, v := RGBToHSV(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	return HSV{H: h, S: s, V: v}
}
