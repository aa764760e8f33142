// Command filltest runs the transform and flood-fill pipeline on an image
// headlessly and writes the result, for exercising the engine without the UI.
package main

import (
	"flag"
	"fmt"
	"os"

	"photo-editor/internal/editor"
	"photo-editor/internal/fill"
	"photo-editor/internal/source"
	"photo-editor/internal/transform"
)

func main() {
	imagePath := flag.String("image", "", "Path to source image (PNG, JPEG, GIF, or TIFF)")
	rotation := flag.Int("rotate", 0, "Clockwise rotation in degrees: 0, 90, 180, or 270")
	scale := flag.Int("scale", 100, "Uniform scale in percent [30,200]")
	seedX := flag.Int("x", 0, "Fill seed X in output-buffer coordinates")
	seedY := flag.Int("y", 0, "Fill seed Y in output-buffer coordinates")
	tolerance := flag.Int("tolerance", 30, "Per-channel fill tolerance [0,255]")
	outPath := flag.String("out", "filltest-out.png", "Output PNG path")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: filltest -image <path> [-rotate 90] [-scale 50] [-x 10 -y 10] [-tolerance 30] [-out result.png]")
		os.Exit(1)
	}

	img, err := source.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	buf, err := transform.Render(img, *rotation, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Transform failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rendered buffer: %dx%d (rotation %d°, scale %d%%)\n",
		buf.Width, buf.Height, *rotation, *scale)

	affected, err := fill.Erase(buf, *seedX, *seedY, *tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flood fill failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Erased %d pixels from seed (%d,%d) at tolerance %d\n",
		affected, *seedX, *seedY, *tolerance)

	data, err := editor.EncodePNG(buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encoding failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", *outPath, len(data))
}
