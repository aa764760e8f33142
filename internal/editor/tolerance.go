package editor

import (
	"fmt"
	"math"

	"photo-editor/internal/raster"

	"gonum.org/v1/gonum/stat"
)

// neighborhood radius sampled by SuggestTolerance (a 7x7 window).
const sampleRadius = 3

// SuggestTolerance derives a fill tolerance from the color spread around a
// seed pixel: the per-channel standard deviation of the opaque pixels in the
// surrounding window, scaled so a uniform region yields the minimum
// tolerance and a noisy one approaches the maximum.
func SuggestTolerance(buf *raster.Buffer, seedX, seedY int) (int, error) {
	if buf == nil {
		return 0, fmt.Errorf("%w: nil buffer", ErrInvalidArgument)
	}
	if !buf.In(seedX, seedY) {
		return 0, fmt.Errorf("%w: seed (%d,%d) outside %dx%d buffer",
			ErrInvalidArgument, seedX, seedY, buf.Width, buf.Height)
	}

	var rs, gs, bs []float64
	for dy := -sampleRadius; dy <= sampleRadius; dy++ {
		for dx := -sampleRadius; dx <= sampleRadius; dx++ {
			x, y := seedX+dx, seedY+dy
			if !buf.In(x, y) {
				continue
			}
			r, g, b, a := buf.RGBA(x, y)
			if a == 0 {
				continue
			}
			rs = append(rs, float64(r))
			gs = append(gs, float64(g))
			bs = append(bs, float64(b))
		}
	}
	if len(rs) == 0 {
		return MinTolerance, nil
	}

	spread := stat.StdDev(rs, nil)
	if s := stat.StdDev(gs, nil); s > spread {
		spread = s
	}
	if s := stat.StdDev(bs, nil); s > spread {
		spread = s
	}
	if math.IsNaN(spread) {
		spread = 0
	}

	// Three standard deviations covers essentially all of the local band.
	tolerance := int(math.Round(spread * 3))
	if tolerance < MinTolerance {
		tolerance = MinTolerance
	}
	if tolerance > MaxTolerance {
		tolerance = MaxTolerance
	}
	return tolerance, nil
}

// AutoTolerance samples the neighborhood of a display-space point, applies
// the suggested tolerance to the session, and returns it.
func (s *Session) AutoTolerance(displayX, displayY float64) (int, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return 0, ErrNoImage
	}
	x, y := s.mapToBuffer(displayX, displayY)
	buf := s.current
	s.mu.Unlock()

	tolerance, err := SuggestTolerance(buf, x, y)
	if err != nil {
		return 0, err
	}
	if err := s.SetTolerance(tolerance); err != nil {
		return 0, err
	}
	return tolerance, nil
}
