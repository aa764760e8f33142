package transform

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestOutputSize(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		rot, scale   int
		wantW, wantH int
	}{
		{"identity", 200, 260, 0, 100, 200, 260},
		{"rotate 90 swaps", 200, 260, 90, 100, 260, 200},
		{"rotate 180 keeps", 200, 260, 180, 100, 200, 260},
		{"rotate 270 swaps", 200, 260, 270, 100, 260, 200},
		{"half scale", 200, 260, 0, 50, 100, 130},
		{"rotate 90 at half scale", 200, 260, 90, 50, 130, 100},
		{"round half up", 3, 3, 0, 50, 2, 2}, // 1.5 rounds to 2
		{"never below one pixel", 2, 2, 0, 30, 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := OutputSize(tc.srcW, tc.srcH, tc.rot, tc.scale)
			if w != tc.wantW || h != tc.wantH {
				t.Errorf("OutputSize = %dx%d, want %dx%d", w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	for _, rot := range []int{-90, 45, 91, 360} {
		if _, err := Render(src, rot, 100); err == nil {
			t.Errorf("Render with rotation %d: expected error", rot)
		}
	}
	for _, scale := range []int{29, 201, 0, -50} {
		if _, err := Render(src, 0, scale); err == nil {
			t.Errorf("Render with scale %d: expected error", scale)
		}
	}
	if _, err := Render(nil, 0, 100); err == nil {
		t.Error("Render with nil source: expected error")
	}
}

func TestRenderDimensions(t *testing.T) {
	src := solidImage(200, 260, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	buf, err := Render(src, 90, 50)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Width != 130 || buf.Height != 100 {
		t.Errorf("dimensions = %dx%d, want 130x100", buf.Width, buf.Height)
	}
}

func TestRenderPreservesSolidColor(t *testing.T) {
	src := solidImage(40, 30, color.NRGBA{R: 60, G: 120, B: 180, A: 255})

	buf, err := Render(src, 0, 150)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Linear interpolation of a constant image stays constant.
	for _, pt := range []image.Point{{0, 0}, {30, 22}, {59, 44}} {
		r, g, b, a := buf.RGBA(pt.X, pt.Y)
		if r != 60 || g != 120 || b != 180 || a != 255 {
			t.Errorf("pixel %v = %d,%d,%d,%d, want 60,120,180,255", pt, r, g, b, a)
		}
	}
}

func TestRenderRotate90MovesPixels(t *testing.T) {
	// 2x3 source with a marker at (0,0). Clockwise 90° maps (x,y) to (h-1-y, x).
	src := solidImage(2, 3, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	buf, err := Render(src, 90, 100)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", buf.Width, buf.Height)
	}
	if r, _, _, _ := buf.RGBA(2, 0); r != 255 {
		t.Errorf("marker not at (2,0) after 90° rotation, red = %d", r)
	}
	if r, _, _, _ := buf.RGBA(0, 0); r != 0 {
		t.Errorf("stale marker at (0,0), red = %d", r)
	}
}

func TestFourQuarterTurnsRestoreDimensions(t *testing.T) {
	src := solidImage(17, 11, color.NRGBA{R: 5, G: 6, B: 7, A: 255})

	current := image.Image(src)
	for i := 0; i < 4; i++ {
		buf, err := Render(current, 90, 100)
		if err != nil {
			t.Fatalf("Render pass %d: %v", i, err)
		}
		current = buf.Image()
	}

	bounds := current.Bounds()
	if bounds.Dx() != 17 || bounds.Dy() != 11 {
		t.Errorf("dimensions after four quarter turns = %dx%d, want 17x11",
			bounds.Dx(), bounds.Dy())
	}
}

func TestRenderDoesNotMutateSource(t *testing.T) {
	src := solidImage(8, 8, color.NRGBA{R: 9, G: 9, B: 9, A: 255})
	want := make([]byte, len(src.Pix))
	copy(want, src.Pix)

	if _, err := Render(src, 180, 60); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := range src.Pix {
		if src.Pix[i] != want[i] {
			t.Fatal("source image mutated by Render")
		}
	}
}
