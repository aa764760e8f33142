// Package canvas provides a zoomable, clickable image canvas for the editor.
package canvas

import (
	"image"

	"photo-editor/internal/raster"
	"photo-editor/pkg/colorutil"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom   = 0.1
	maxZoom   = 10.0
	zoomStep  = 1.25
	checkSize = 8 // checkerboard cell size in canvas pixels
)

// EditorCanvas displays the session's pixel buffer over a checkerboard
// backdrop so erased (transparent) regions are visible, with wheel zoom and
// click reporting in image coordinates.
type EditorCanvas struct {
	widget.BaseWidget

	buffer *raster.Buffer

	raster  *fynecanvas.Raster
	zoom    float64
	imgSize fyne.Size

	scroll  *zoomScroll
	content *tappableContent

	fitToWindow bool

	onZoomChange func(zoom float64)
	onTap        func(x, y float64) // image-space coordinates
}

// NewEditorCanvas creates an empty editor canvas.
func NewEditorCanvas() *EditorCanvas {
	ec := &EditorCanvas{
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels
	ec.raster.SetMinSize(ec.imgSize)

	ec.content = newTappableContent(ec, ec.raster)
	ec.scroll = newZoomScroll(ec.content, ec)

	ec.ExtendBaseWidget(ec)
	return ec
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *EditorCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *EditorCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// tappableContent wraps the raster to receive pointer events.
type tappableContent struct {
	widget.BaseWidget
	canvas *EditorCanvas
	raster *fynecanvas.Raster
}

func newTappableContent(ec *EditorCanvas, raster *fynecanvas.Raster) *tappableContent {
	tc := &tappableContent{canvas: ec, raster: raster}
	tc.ExtendBaseWidget(tc)
	return tc
}

func (tc *tappableContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(tc.raster)
}

func (tc *tappableContent) MinSize() fyne.Size {
	return tc.raster.MinSize()
}

func (tc *tappableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		tc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		tc.canvas.ZoomOut()
	}
}

// Tapped converts a left click to image coordinates and forwards it.
func (tc *tappableContent) Tapped(ev *fyne.PointEvent) {
	if tc.canvas.onTap == nil {
		return
	}

	// Reject clicks outside the widget bounds.
	size := tc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	scrollOffset := tc.canvas.scroll.Offset()
	canvasX := float64(ev.Position.X + scrollOffset.X)
	canvasY := float64(ev.Position.Y + scrollOffset.Y)

	tc.canvas.onTap(canvasX/tc.canvas.zoom, canvasY/tc.canvas.zoom)
}

// SetBuffer sets the pixel buffer to display. The canvas holds the buffer
// by reference and repaints it on Refresh.
func (ec *EditorCanvas) SetBuffer(buf *raster.Buffer) {
	ec.buffer = buf
	ec.updateContentSize()
}

// Container returns the canvas container for embedding in layouts.
func (ec *EditorCanvas) Container() fyne.CanvasObject {
	return ec.scroll
}

// OnTap sets the callback for left clicks, in image-space coordinates.
func (ec *EditorCanvas) OnTap(callback func(x, y float64)) {
	ec.onTap = callback
}

// OnZoomChange sets a callback for zoom changes.
func (ec *EditorCanvas) OnZoomChange(callback func(zoom float64)) {
	ec.onZoomChange = callback
}

// SetZoom sets the zoom level, clamped to the supported range.
func (ec *EditorCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ec.zoom = zoom
	ec.updateContentSize()

	if ec.onZoomChange != nil {
		ec.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (ec *EditorCanvas) Zoom() float64 {
	return ec.zoom
}

// ZoomIn increases the zoom level.
func (ec *EditorCanvas) ZoomIn() {
	ec.SetZoom(ec.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ec *EditorCanvas) ZoomOut() {
	ec.SetZoom(ec.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the whole buffer fits the visible area.
func (ec *EditorCanvas) FitToWindow() {
	if ec.buffer == nil || ec.buffer.Width == 0 || ec.buffer.Height == 0 {
		return
	}
	viewSize := ec.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(ec.buffer.Width)
	zoomY := float64(viewSize.Height) / float64(ec.buffer.Height)
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ec.SetZoom(zoom * 0.95) // leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ec *EditorCanvas) SetFitToWindow(fit bool) {
	ec.fitToWindow = fit
	if fit {
		ec.FitToWindow()
	}
}

// Refresh repaints the canvas.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
}

// updateContentSize updates the content size based on the buffer and zoom.
func (ec *EditorCanvas) updateContentSize() {
	if ec.buffer == nil || ec.buffer.Width == 0 || ec.buffer.Height == 0 {
		ec.imgSize = fyne.NewSize(400, 300)
	} else {
		ec.imgSize = fyne.NewSize(
			float32(float64(ec.buffer.Width)*ec.zoom),
			float32(float64(ec.buffer.Height)*ec.zoom),
		)
	}

	ec.raster.SetMinSize(ec.imgSize)
	ec.raster.Resize(ec.imgSize)
	if ec.content != nil {
		ec.content.Resize(ec.imgSize)
		ec.content.Refresh()
	}
	ec.raster.Refresh()
	if ec.scroll != nil {
		ec.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Checkerboard backdrop so transparent pixels are visible.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := colorutil.CheckLight
			if ((x/checkSize)+(y/checkSize))%2 == 1 {
				c = colorutil.CheckDark
			}
			output.SetRGBA(x, y, c)
		}
	}

	if ec.buffer == nil {
		return output
	}

	buf := ec.buffer
	for y := 0; y < h; y++ {
		srcY := int(float64(y) / ec.zoom)
		if srcY >= buf.Height {
			continue
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x) / ec.zoom)
			if srcX >= buf.Width {
				continue
			}

			r, g, b, a := buf.RGBA(srcX, srcY)
			switch {
			case a == 255:
				output.SetRGBA(x, y, colorutil.Opaque(r, g, b))
			case a > 0:
				// Blend straight-alpha pixel over the backdrop.
				bg := output.RGBAAt(x, y)
				af := float64(a) / 255.0
				inv := 1 - af
				output.SetRGBA(x, y, colorutil.Opaque(
					uint8(float64(r)*af+float64(bg.R)*inv),
					uint8(float64(g)*af+float64(bg.G)*inv),
					uint8(float64(b)*af+float64(bg.B)*inv),
				))
			}
			// a == 0: keep the checkerboard.
		}
	}

	return output
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ec.scroll)
}
