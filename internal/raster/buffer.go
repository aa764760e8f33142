// Package raster provides the RGBA pixel buffer all editing operations work on.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Buffer is a rectangular grid of RGBA samples in row-major order,
// 4 bytes per pixel with straight (non-premultiplied) alpha.
// A pixel with alpha 0 is fully transparent.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte // length is always Width*Height*4
}

// New creates a fully transparent buffer of the given dimensions.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}, nil
}

// FromImage copies an image into a new buffer. The source is not retained.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("nil source image")
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty source image %dx%d", w, h)
	}

	// image.NRGBA shares the buffer's byte layout exactly.
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	return &Buffer{Width: w, Height: h, Pix: nrgba.Pix}, nil
}

// Image returns the buffer as an *image.NRGBA sharing the same pixel data.
// Mutating the buffer mutates the returned image and vice versa.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// In reports whether (x,y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Index returns the linear pixel index of (x,y). No bounds check.
func (b *Buffer) Index(x, y int) int {
	return y*b.Width + x
}

// Offset returns the byte offset of pixel (x,y). No bounds check.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// RGBA returns the channel values at (x,y). Out-of-bounds reads return zeros.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	if !b.In(x, y) {
		return 0, 0, 0, 0
	}
	off := b.Offset(x, y)
	return b.Pix[off], b.Pix[off+1], b.Pix[off+2], b.Pix[off+3]
}

// SetRGBA sets the channel values at (x,y). Out-of-bounds writes are ignored.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	if !b.In(x, y) {
		return
	}
	off := b.Offset(x, y)
	b.Pix[off] = r
	b.Pix[off+1] = g
	b.Pix[off+2] = bl
	b.Pix[off+3] = a
}

// Alpha returns the alpha channel at (x,y), or 0 if out of bounds.
func (b *Buffer) Alpha(x, y int) uint8 {
	if !b.In(x, y) {
		return 0
	}
	return b.Pix[b.Offset(x, y)+3]
}

// Fill sets every pixel to the given color.
func (b *Buffer) Fill(c color.NRGBA) {
	for off := 0; off < len(b.Pix); off += 4 {
		b.Pix[off] = c.R
		b.Pix[off+1] = c.G
		b.Pix[off+2] = c.B
		b.Pix[off+3] = c.A
	}
}

// Equal reports whether two buffers have identical dimensions and pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.Width != other.Width || b.Height != other.Height {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}
