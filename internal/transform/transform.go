// Package transform renders the rotated and scaled baseline pixel buffer.
package transform

import (
	"fmt"
	"image"
	"math"

	"photo-editor/internal/raster"

	"gocv.io/x/gocv"
)

// Scale bounds exposed to the UI, in integer percent.
const (
	MinScalePercent = 30
	MaxScalePercent = 200
)

// ValidRotation reports whether deg is one of the four supported rotations.
func ValidRotation(deg int) bool {
	return deg == 0 || deg == 90 || deg == 180 || deg == 270
}

// ValidScale reports whether pct lies within the supported scale range.
func ValidScale(pct int) bool {
	return pct >= MinScalePercent && pct <= MaxScalePercent
}

// OutputSize returns the canvas dimensions produced by Render for a source
// of srcW x srcH. Scaled dimensions round half up; rotations of 90 and 270
// swap width and height.
func OutputSize(srcW, srcH, rotationDegrees, scalePercent int) (int, int) {
	factor := float64(scalePercent) / 100.0
	w := int(math.Floor(float64(srcW)*factor + 0.5))
	h := int(math.Floor(float64(srcH)*factor + 0.5))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if rotationDegrees == 90 || rotationDegrees == 270 {
		return h, w
	}
	return w, h
}

// Render draws the source image rotated clockwise by rotationDegrees and
// scaled uniformly by scalePercent into a new pixel buffer. The source image
// is never mutated.
func Render(src image.Image, rotationDegrees, scalePercent int) (*raster.Buffer, error) {
	if src == nil {
		return nil, fmt.Errorf("no source image")
	}
	if !ValidRotation(rotationDegrees) {
		return nil, fmt.Errorf("rotation %d° is not a multiple of 90 in [0,270]", rotationDegrees)
	}
	if !ValidScale(scalePercent) {
		return nil, fmt.Errorf("scale %d%% outside [%d,%d]", scalePercent, MinScalePercent, MaxScalePercent)
	}

	// Normalize to NRGBA so the Mat carries straight-alpha RGBA samples.
	normalized, err := raster.FromImage(src)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGBA(normalized.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	factor := float64(scalePercent) / 100.0
	scaledW := int(math.Floor(float64(normalized.Width)*factor + 0.5))
	scaledH := int(math.Floor(float64(normalized.Height)*factor + 0.5))
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}

	var scaled gocv.Mat
	if scaledW == normalized.Width && scaledH == normalized.Height {
		scaled = mat.Clone()
	} else {
		scaled = gocv.NewMat()
		gocv.Resize(mat, &scaled, image.Point{X: scaledW, Y: scaledH}, 0, 0, gocv.InterpolationLinear)
	}
	defer scaled.Close()

	rotated := rotateMat(scaled, rotationDegrees)
	defer rotated.Close()

	out, err := rotated.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to read back rendered image: %w", err)
	}

	return raster.FromImage(out)
}

// rotateMat rotates a Mat clockwise by 90, 180, or 270 degrees.
func rotateMat(img gocv.Mat, degrees int) gocv.Mat {
	dst := gocv.NewMat()

	switch degrees {
	case 90:
		gocv.Rotate(img, &dst, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(img, &dst, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(img, &dst, gocv.Rotate90CounterClockwise)
	default:
		img.CopyTo(&dst)
	}

	return dst
}
