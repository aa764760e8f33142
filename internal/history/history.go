// Package history provides the undo stack of pixel buffer snapshots.
package history

import "photo-editor/internal/raster"

// Stack holds full-resolution deep copies of the pixel buffer, one per edit.
// The entry at index 0 is the post-transform baseline and is never popped
// while it is the sole remaining entry. Full snapshots trade memory for
// bit-exact undo; entries live only for the duration of one editing session.
type Stack struct {
	snapshots []*raster.Buffer
}

// New returns an empty history stack.
func New() *Stack {
	return &Stack{}
}

// Push appends a deep copy of the snapshot.
func (s *Stack) Push(snapshot *raster.Buffer) {
	if snapshot == nil {
		return
	}
	s.snapshots = append(s.snapshots, snapshot.Clone())
}

// Pop removes the most recent snapshot and returns the new top, which the
// caller restores as the current buffer. It refuses to pop the baseline:
// when only one entry remains it returns (nil, false) and leaves the stack
// untouched.
func (s *Stack) Pop() (*raster.Buffer, bool) {
	if len(s.snapshots) <= 1 {
		return nil, false
	}
	s.snapshots = s.snapshots[:len(s.snapshots)-1]
	return s.snapshots[len(s.snapshots)-1].Clone(), true
}

// Reset discards all snapshots and re-seeds the stack with a single baseline.
// Invoked whenever rotation or scale changes, since pixel coordinates from
// earlier edits are no longer valid after a geometry change.
func (s *Stack) Reset(baseline *raster.Buffer) {
	s.snapshots = s.snapshots[:0]
	if baseline != nil {
		s.snapshots = append(s.snapshots, baseline.Clone())
	}
}

// Current returns a copy of the most recent snapshot, or nil when empty.
func (s *Stack) Current() *raster.Buffer {
	if len(s.snapshots) == 0 {
		return nil
	}
	return s.snapshots[len(s.snapshots)-1].Clone()
}

// Len returns the number of snapshots.
func (s *Stack) Len() int {
	return len(s.snapshots)
}

// Clear drops every snapshot, baseline included. Used on session close.
func (s *Stack) Clear() {
	s.snapshots = nil
}
