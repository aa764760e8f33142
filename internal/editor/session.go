// Package editor provides the interactive photo editing session: it owns the
// current pixel buffer and mediates rotation, scaling, flood-fill erasing,
// undo, and export.
package editor

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"photo-editor/internal/fill"
	"photo-editor/internal/history"
	"photo-editor/internal/raster"
	"photo-editor/internal/transform"
)

// Tolerance bounds exposed to the UI.
const (
	MinTolerance     = 5
	MaxTolerance     = 80
	DefaultTolerance = 30
)

// ErrInvalidArgument is wrapped by every validation failure. The buffer and
// history are untouched when an operation fails with it.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNoImage is returned by operations that require a loaded image.
var ErrNoImage = errors.New("no image loaded")

// State identifies the session lifecycle phase.
type State int

const (
	StateIdle    State = iota // no image loaded
	StateReady                // baseline rendered, erase mode off
	StateEditing              // erase mode active
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateReady:
		return "Ready"
	case StateEditing:
		return "Editing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// EventType identifies session events the UI can subscribe to.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventBufferChanged
	EventHistoryChanged
	EventEraseModeChanged
	EventToleranceChanged
	EventClosed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session is the single-owner editing session. It is guarded by a mutex so
// UI callbacks may touch it safely, but it is not designed for concurrent
// editing by multiple callers.
type Session struct {
	mu sync.RWMutex

	state     State
	src       image.Image // retained so geometry changes can re-render
	rotation  int         // degrees, one of 0/90/180/270
	scale     int         // percent in [30,200]
	tolerance int         // per-channel fill tolerance in [5,80]
	eraseMode bool

	current *raster.Buffer // always equal to the last history entry
	history *history.Stack

	// Displayed size of the buffer in the UI, for pointer mapping.
	displayW float64
	displayH float64

	listeners map[EventType][]EventListener
}

// NewSession creates an idle session with default parameters.
func NewSession() *Session {
	return &Session{
		state:     StateIdle,
		scale:     100,
		tolerance: DefaultTolerance,
		history:   history.New(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// emit triggers all listeners for the specified event type.
func (s *Session) emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage renders the baseline buffer from the source image at rotation 0
// and scale 100 and seeds the history with it. A render failure leaves the
// session idle, exactly as if no image had been loaded.
func (s *Session) LoadImage(src image.Image) error {
	if src == nil {
		return fmt.Errorf("%w: nil source image", ErrInvalidArgument)
	}

	baseline, err := transform.Render(src, 0, 100)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return fmt.Errorf("session is closed")
	}
	s.src = src
	s.rotation = 0
	s.scale = 100
	s.eraseMode = false
	s.current = baseline
	s.history.Reset(baseline)
	s.state = StateReady
	s.mu.Unlock()

	s.emit(EventImageLoaded, nil)
	s.emit(EventBufferChanged, nil)
	return nil
}

// SetRotation re-renders the baseline at the new rotation, holding the
// current scale. All edit history is discarded: pixel coordinates recorded
// before a geometry change are no longer valid.
func (s *Session) SetRotation(degrees int) error {
	if !transform.ValidRotation(degrees) {
		return fmt.Errorf("%w: rotation %d° is not one of 0/90/180/270", ErrInvalidArgument, degrees)
	}
	return s.applyGeometry(degrees, -1)
}

// SetScale re-renders the baseline at the new scale percent, holding the
// current rotation. All edit history is discarded.
func (s *Session) SetScale(percent int) error {
	if !transform.ValidScale(percent) {
		return fmt.Errorf("%w: scale %d%% outside [%d,%d]", ErrInvalidArgument,
			percent, transform.MinScalePercent, transform.MaxScalePercent)
	}
	return s.applyGeometry(-1, percent)
}

// RotateClockwise advances the rotation by a quarter turn.
func (s *Session) RotateClockwise() error {
	s.mu.RLock()
	deg := s.rotation
	s.mu.RUnlock()
	return s.SetRotation((deg + 90) % 360)
}

// RotateCounterClockwise retreats the rotation by a quarter turn.
func (s *Session) RotateCounterClockwise() error {
	s.mu.RLock()
	deg := s.rotation
	s.mu.RUnlock()
	return s.SetRotation((deg + 270) % 360)
}

// applyGeometry re-renders with the changed parameter (-1 = keep current)
// and resets the history to the new baseline.
func (s *Session) applyGeometry(rotation, scale int) error {
	s.mu.Lock()
	if s.state == StateIdle || s.state == StateClosed || s.src == nil {
		s.mu.Unlock()
		return ErrNoImage
	}
	if rotation < 0 {
		rotation = s.rotation
	}
	if scale < 0 {
		scale = s.scale
	}
	src := s.src
	s.mu.Unlock()

	baseline, err := transform.Render(src, rotation, scale)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rotation = rotation
	s.scale = scale
	s.eraseMode = false
	s.current = baseline
	s.history.Reset(baseline)
	s.state = StateReady
	s.mu.Unlock()

	s.emit(EventBufferChanged, nil)
	s.emit(EventHistoryChanged, nil)
	return nil
}

// SetEraseMode toggles erase mode without altering the buffer or history.
func (s *Session) SetEraseMode(on bool) error {
	s.mu.Lock()
	if s.state == StateIdle || s.state == StateClosed {
		s.mu.Unlock()
		return ErrNoImage
	}
	changed := s.eraseMode != on
	s.eraseMode = on
	if on {
		s.state = StateEditing
	} else {
		s.state = StateReady
	}
	s.mu.Unlock()

	if changed {
		s.emit(EventEraseModeChanged, on)
	}
	return nil
}

// SetTolerance sets the fill tolerance.
func (s *Session) SetTolerance(tolerance int) error {
	if tolerance < MinTolerance || tolerance > MaxTolerance {
		return fmt.Errorf("%w: tolerance %d outside [%d,%d]", ErrInvalidArgument,
			tolerance, MinTolerance, MaxTolerance)
	}
	s.mu.Lock()
	changed := s.tolerance != tolerance
	s.tolerance = tolerance
	s.mu.Unlock()

	if changed {
		s.emit(EventToleranceChanged, tolerance)
	}
	return nil
}

// SetDisplaySize records the size at which the UI currently displays the
// buffer, so Click can map pointer coordinates into buffer space.
func (s *Session) SetDisplaySize(w, h float64) {
	s.mu.Lock()
	s.displayW = w
	s.displayH = h
	s.mu.Unlock()
}

// Click processes a pointer press at display coordinates. It is only acted
// on while erase mode is active; otherwise it reports zero pixels affected.
// On a mutating fill the new buffer is pushed as the next history snapshot;
// a click inside an already-transparent area pushes nothing.
func (s *Session) Click(displayX, displayY float64) (int, error) {
	s.mu.Lock()
	if s.state != StateEditing || s.current == nil {
		s.mu.Unlock()
		return 0, nil
	}

	x, y := s.mapToBuffer(displayX, displayY)
	if !s.current.In(x, y) {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: seed (%d,%d) outside %dx%d buffer",
			ErrInvalidArgument, x, y, s.current.Width, s.current.Height)
	}

	affected, err := fill.Erase(s.current, x, y, s.tolerance)
	if err != nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if affected > 0 {
		s.history.Push(s.current)
	}
	s.mu.Unlock()

	if affected > 0 {
		s.emit(EventBufferChanged, nil)
		s.emit(EventHistoryChanged, nil)
	}
	return affected, nil
}

// mapToBuffer converts display coordinates to buffer pixel coordinates.
// Callers must hold the mutex.
func (s *Session) mapToBuffer(displayX, displayY float64) (int, int) {
	if s.displayW <= 0 || s.displayH <= 0 {
		return int(displayX), int(displayY)
	}
	x := int(displayX * float64(s.current.Width) / s.displayW)
	y := int(displayY * float64(s.current.Height) / s.displayH)
	return x, y
}

// Undo restores the buffer to its state before the most recent erase.
// It reports false, without error, when only the baseline remains.
func (s *Session) Undo() bool {
	s.mu.Lock()
	if s.state != StateReady && s.state != StateEditing {
		s.mu.Unlock()
		return false
	}
	prior, ok := s.history.Pop()
	if ok {
		s.current = prior
	}
	s.mu.Unlock()

	if ok {
		s.emit(EventBufferChanged, nil)
		s.emit(EventHistoryChanged, nil)
	}
	return ok
}

// CanUndo reports whether an edit beyond the baseline can be undone.
func (s *Session) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Len() > 1
}

// Close releases all buffers and history. The session accepts no further
// operations afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	alreadyClosed := s.state == StateClosed
	s.state = StateClosed
	s.src = nil
	s.current = nil
	s.history.Clear()
	s.mu.Unlock()

	if !alreadyClosed {
		s.emit(EventClosed, nil)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Buffer returns the live current pixel buffer, or nil when no image is
// loaded. Callers must treat it as read-only; all mutation goes through
// Click and Undo.
func (s *Session) Buffer() *raster.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Rotation returns the current rotation in degrees.
func (s *Session) Rotation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rotation
}

// Scale returns the current scale percent.
func (s *Session) Scale() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// Tolerance returns the current fill tolerance.
func (s *Session) Tolerance() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tolerance
}

// EraseMode reports whether erase mode is active.
func (s *Session) EraseMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eraseMode
}
