package editor

import (
	"errors"
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

func readySession(t *testing.T, w, h int) *Session {
	t.Helper()
	s := NewSession()
	if err := s.LoadImage(solidImage(w, h, color.NRGBA{R: 120, G: 130, B: 140, A: 255})); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	return s
}

func TestLoadImage(t *testing.T) {
	s := readySession(t, 20, 10)

	if s.State() != StateReady {
		t.Errorf("state = %v, want Ready", s.State())
	}
	buf := s.Buffer()
	if buf.Width != 20 || buf.Height != 10 {
		t.Errorf("buffer = %dx%d, want 20x10", buf.Width, buf.Height)
	}
	if s.CanUndo() {
		t.Error("fresh session reports undoable history")
	}
}

func TestOperationsRequireImage(t *testing.T) {
	s := NewSession()
	if err := s.SetRotation(90); !errors.Is(err, ErrNoImage) {
		t.Errorf("SetRotation on idle session: %v, want ErrNoImage", err)
	}
	if err := s.SetScale(50); !errors.Is(err, ErrNoImage) {
		t.Errorf("SetScale on idle session: %v, want ErrNoImage", err)
	}
	if err := s.SetEraseMode(true); !errors.Is(err, ErrNoImage) {
		t.Errorf("SetEraseMode on idle session: %v, want ErrNoImage", err)
	}
	if _, err := s.Export(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Export on idle session: %v, want ErrNoImage", err)
	}
}

func TestInvalidParametersRejected(t *testing.T) {
	s := readySession(t, 10, 10)

	if err := s.SetRotation(45); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetRotation(45): %v, want ErrInvalidArgument", err)
	}
	if err := s.SetScale(25); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetScale(25): %v, want ErrInvalidArgument", err)
	}
	if err := s.SetScale(201); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetScale(201): %v, want ErrInvalidArgument", err)
	}
	if err := s.SetTolerance(4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetTolerance(4): %v, want ErrInvalidArgument", err)
	}
	if err := s.SetTolerance(81); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SetTolerance(81): %v, want ErrInvalidArgument", err)
	}
}

func TestClickIgnoredOutsideEraseMode(t *testing.T) {
	s := readySession(t, 10, 10)

	affected, err := s.Click(5, 5)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if affected != 0 {
		t.Errorf("affected = %d, want 0 with erase mode off", affected)
	}
	if s.CanUndo() {
		t.Error("history grew from an ignored click")
	}
}

func TestClickEraseAndUndo(t *testing.T) {
	s := readySession(t, 10, 10)
	before := s.Buffer().Clone()

	if err := s.SetEraseMode(true); err != nil {
		t.Fatalf("SetEraseMode: %v", err)
	}
	if s.State() != StateEditing {
		t.Fatalf("state = %v, want Editing", s.State())
	}

	affected, err := s.Click(5, 5)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if affected != 100 {
		t.Errorf("affected = %d, want 100 (whole solid buffer)", affected)
	}
	if s.Buffer().Alpha(5, 5) != 0 {
		t.Error("clicked pixel still opaque")
	}
	if !s.CanUndo() {
		t.Fatal("no undoable history after a mutating click")
	}

	if !s.Undo() {
		t.Fatal("Undo reported no-op after an erase")
	}
	if !s.Buffer().Equal(before) {
		t.Error("undo did not restore the pre-click buffer exactly")
	}
}

func TestClickOnTransparentPushesNothing(t *testing.T) {
	s := readySession(t, 10, 10)
	s.SetEraseMode(true)

	if _, err := s.Click(5, 5); err != nil {
		t.Fatalf("first Click: %v", err)
	}

	affected, err := s.Click(5, 5)
	if err != nil {
		t.Fatalf("second Click: %v", err)
	}
	if affected != 0 {
		t.Errorf("second click affected %d pixels, want 0", affected)
	}

	// Exactly one undoable edit.
	if !s.Undo() {
		t.Fatal("first Undo failed")
	}
	if s.Undo() {
		t.Error("second Undo succeeded; transparent click must not push history")
	}
}

func TestUndoAtBaselineIsNoOpTwice(t *testing.T) {
	s := readySession(t, 10, 10)
	before := s.Buffer().Clone()

	if s.Undo() {
		t.Error("Undo succeeded at baseline")
	}
	if s.Undo() {
		t.Error("second consecutive Undo succeeded at baseline")
	}
	if !s.Buffer().Equal(before) {
		t.Error("buffer changed across no-op undos")
	}
}

func TestGeometryChangeClearsHistory(t *testing.T) {
	s := readySession(t, 10, 10)
	s.SetEraseMode(true)
	if _, err := s.Click(5, 5); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if !s.CanUndo() {
		t.Fatal("expected undoable history before geometry change")
	}

	if err := s.SetScale(50); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("state = %v, want Ready after geometry change", s.State())
	}
	if s.CanUndo() {
		t.Error("history survived a geometry change")
	}
	if s.Undo() {
		t.Error("Undo recovered pixels erased before the geometry change")
	}
	// The new baseline is fully opaque again.
	if s.Buffer().Alpha(2, 2) == 0 {
		t.Error("new baseline carries erased pixels")
	}
}

func TestDisplayCoordinateMapping(t *testing.T) {
	s := readySession(t, 10, 10)
	s.SetEraseMode(true)

	// Displayed at twice the buffer size: a click at the display edge must
	// still land inside the buffer.
	s.SetDisplaySize(20, 20)
	if _, err := s.Click(19, 19); err != nil {
		t.Fatalf("Click at display edge: %v", err)
	}

	// Outside the displayed area maps outside the buffer.
	if _, err := s.Click(25, 5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Click outside display: %v, want ErrInvalidArgument", err)
	}
}

func TestRotateClockwiseCycles(t *testing.T) {
	s := readySession(t, 20, 10)

	want := []int{90, 180, 270, 0}
	for _, deg := range want {
		if err := s.RotateClockwise(); err != nil {
			t.Fatalf("RotateClockwise: %v", err)
		}
		if s.Rotation() != deg {
			t.Fatalf("rotation = %d, want %d", s.Rotation(), deg)
		}
	}
	if err := s.RotateCounterClockwise(); err != nil {
		t.Fatalf("RotateCounterClockwise: %v", err)
	}
	if s.Rotation() != 270 {
		t.Errorf("rotation = %d, want 270", s.Rotation())
	}
}

func TestClose(t *testing.T) {
	s := readySession(t, 10, 10)
	s.Close()

	if s.State() != StateClosed {
		t.Errorf("state = %v, want Closed", s.State())
	}
	if s.Buffer() != nil {
		t.Error("buffer retained after Close")
	}
	if s.Undo() {
		t.Error("Undo succeeded after Close")
	}
	if _, err := s.Export(); err == nil {
		t.Error("Export succeeded after Close")
	}
}

func TestEvents(t *testing.T) {
	s := NewSession()

	var loaded, bufferChanged, historyChanged int
	s.On(EventImageLoaded, func(interface{}) { loaded++ })
	s.On(EventBufferChanged, func(interface{}) { bufferChanged++ })
	s.On(EventHistoryChanged, func(interface{}) { historyChanged++ })

	if err := s.LoadImage(solidImage(8, 8, color.NRGBA{R: 1, G: 2, B: 3, A: 255})); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if loaded != 1 {
		t.Errorf("EventImageLoaded fired %d times, want 1", loaded)
	}

	s.SetEraseMode(true)
	if _, err := s.Click(4, 4); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if bufferChanged < 2 {
		t.Errorf("EventBufferChanged fired %d times, want at least 2", bufferChanged)
	}
	if historyChanged == 0 {
		t.Error("EventHistoryChanged never fired")
	}
}

// End-to-end editing flow: load, rotate, scale, erase, undo, export.
func TestEndToEnd(t *testing.T) {
	s := NewSession()
	if err := s.LoadImage(solidImage(200, 260, color.NRGBA{R: 90, G: 140, B: 190, A: 255})); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}

	if err := s.SetRotation(90); err != nil {
		t.Fatalf("SetRotation: %v", err)
	}
	if b := s.Buffer(); b.Width != 260 || b.Height != 200 {
		t.Fatalf("after rotate: %dx%d, want 260x200", b.Width, b.Height)
	}

	if err := s.SetScale(50); err != nil {
		t.Fatalf("SetScale: %v", err)
	}
	if b := s.Buffer(); b.Width != 130 || b.Height != 100 {
		t.Fatalf("after scale: %dx%d, want 130x100", b.Width, b.Height)
	}
	preClick := s.Buffer().Clone()

	if err := s.SetEraseMode(true); err != nil {
		t.Fatalf("SetEraseMode: %v", err)
	}
	if err := s.SetTolerance(30); err != nil {
		t.Fatalf("SetTolerance: %v", err)
	}

	affected, err := s.Click(65, 50)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if affected == 0 {
		t.Fatal("click on uniform region affected no pixels")
	}
	if s.Buffer().Alpha(65, 50) != 0 {
		t.Error("seed pixel not transparent after erase")
	}

	if !s.Undo() {
		t.Fatal("Undo failed")
	}
	if !s.Buffer().Equal(preClick) {
		t.Error("undo did not restore the pre-click 130x100 opaque buffer")
	}

	blob, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(blob) == 0 {
		t.Error("exported blob is empty")
	}
}
