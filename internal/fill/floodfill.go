// Package fill implements tolerance-based flood-fill erasing on pixel buffers.
package fill

import (
	"fmt"

	"photo-editor/internal/raster"
	"photo-editor/pkg/colorutil"
)

// Erase makes the 4-connected region of pixels similar to the seed pixel
// fully transparent and returns the number of pixels affected.
//
// A neighbor joins the region when its alpha is greater than zero and each
// of its R,G,B channels differs from the seed's by no more than tolerance.
// RGB values of erased pixels are left unchanged; only alpha is cleared, so
// an erased region can never be re-matched (its alpha is already 0).
//
// A seed on an already-transparent pixel is a no-op and reports 0 affected.
func Erase(buf *raster.Buffer, seedX, seedY, tolerance int) (int, error) {
	if buf == nil {
		return 0, fmt.Errorf("nil buffer")
	}
	if !buf.In(seedX, seedY) {
		return 0, fmt.Errorf("seed (%d,%d) outside %dx%d buffer", seedX, seedY, buf.Width, buf.Height)
	}
	if tolerance < 0 || tolerance > 255 {
		return 0, fmt.Errorf("tolerance %d outside [0,255]", tolerance)
	}

	if buf.Alpha(seedX, seedY) == 0 {
		return 0, nil
	}

	refR, refG, refB, _ := buf.RGBA(seedX, seedY)
	tol := uint8(tolerance)

	w, h := buf.Width, buf.Height

	// Visited bitset keyed by linear pixel index y*w+x.
	visited := make([]byte, (w*h+7)/8)
	seen := func(i int) bool { return visited[i>>3]&(1<<(uint(i)&7)) != 0 }
	mark := func(i int) { visited[i>>3] |= 1 << (uint(i) & 7) }

	type point struct{ x, y int }

	// Explicit LIFO work list; recursion would blow the stack on large images.
	stack := make([]point, 0, 1024)
	stack = append(stack, point{seedX, seedY})
	mark(buf.Index(seedX, seedY))

	affected := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		off := buf.Offset(p.x, p.y)
		buf.Pix[off+3] = 0
		affected++

		// 4-connected neighbors only, no diagonals.
		for _, n := range [4]point{
			{p.x, p.y - 1}, {p.x, p.y + 1}, {p.x - 1, p.y}, {p.x + 1, p.y},
		} {
			if n.x < 0 || n.x >= w || n.y < 0 || n.y >= h {
				continue
			}
			idx := buf.Index(n.x, n.y)
			if seen(idx) {
				continue
			}
			r, g, b, a := buf.RGBA(n.x, n.y)
			if a == 0 || !colorutil.WithinTolerance(r, g, b, refR, refG, refB, tol) {
				continue
			}
			mark(idx)
			stack = append(stack, point{n.x, n.y})
		}
	}

	return affected, nil
}
