// Package colorutil provides shared color utilities for the photo editor.
package colorutil

import (
	"image/color"
	"math"
)

// Common colors used by the canvas backdrop and UI overlays.
var (
	Black      = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	CheckLight = color.RGBA{R: 204, G: 204, B: 204, A: 255}
	CheckDark  = color.RGBA{R: 153, G: 153, B: 153, A: 255}
)

// Opaque returns a fully opaque color from 8-bit channel values.
func Opaque(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// AbsDiff returns the absolute difference between two 8-bit channel values.
func AbsDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// WithinTolerance reports whether each of r,g,b differs from the reference
// channels by no more than tolerance. Channels are checked independently,
// not as a combined distance.
func WithinTolerance(r, g, b, refR, refG, refB, tolerance uint8) bool {
	return AbsDiff(r, refR) <= tolerance &&
		AbsDiff(g, refG) <= tolerance &&
		AbsDiff(b, refB) <= tolerance
}

// RGBToHSV converts RGB (0-255) to HSV (H 0-360, S 0-1, V 0-1).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC

	if maxC == 0 {
		s = 0
	} else {
		s = diff / maxC
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h, s, v
}
