// Package editorwindow provides the main photo editor window.
package editorwindow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"photo-editor/internal/editor"
	"photo-editor/internal/source"
	"photo-editor/ui/canvas"
	"photo-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// EditorWindow is the primary application window.
type EditorWindow struct {
	fyne.Window
	app     fyne.App
	session *editor.Session
	canvas  *canvas.EditorCanvas
	prefs   *prefs.Prefs

	statusBar       *widget.Label
	scaleSlider     *widget.Slider
	scaleLabel      *widget.Label
	toleranceSlider *widget.Slider
	toleranceLabel  *widget.Label
	autoTolCheck    *widget.Check
	eraseCheck      *widget.Check
	undoButton      *widget.Button

	exportNameHint string
}

// New creates the editor window around an editing session.
func New(fyneApp fyne.App, session *editor.Session, p *prefs.Prefs) *EditorWindow {
	win := fyneApp.NewWindow("Photo Editor")

	ew := &EditorWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	ew.setupUI()
	ew.setupMenus()
	ew.setupEventHandlers()
	ew.applyPrefs()

	win.SetOnClosed(func() {
		session.Close()
		if err := p.Save(); err != nil {
			fmt.Printf("Failed to save preferences: %v\n", err)
		}
	})

	return ew
}

// setupUI creates the main layout: toolbar on top, canvas center, status bar
// at the bottom.
func (ew *EditorWindow) setupUI() {
	ew.canvas = canvas.NewEditorCanvas()
	ew.canvas.OnTap(ew.onCanvasTap)

	ew.statusBar = widget.NewLabel("Open an image to begin")

	content := container.NewBorder(
		ew.createToolbar(),                // top
		container.NewPadded(ew.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		ew.canvas.Container(),             // center
	)

	ew.SetContent(content)
	ew.Resize(fyne.NewSize(1000, 700))
}

// createToolbar builds the editing controls.
func (ew *EditorWindow) createToolbar() fyne.CanvasObject {
	rotateCCW := widget.NewButton("⟲ 90°", func() {
		if err := ew.session.RotateCounterClockwise(); err != nil {
			ew.updateStatus(err.Error())
		}
	})
	rotateCW := widget.NewButton("⟳ 90°", func() {
		if err := ew.session.RotateClockwise(); err != nil {
			ew.updateStatus(err.Error())
		}
	})

	ew.scaleLabel = widget.NewLabel("100%")
	ew.scaleSlider = widget.NewSlider(30, 200)
	ew.scaleSlider.Step = 1
	ew.scaleSlider.Value = 100
	ew.scaleSlider.OnChanged = func(v float64) {
		ew.scaleLabel.SetText(fmt.Sprintf("%d%%", int(v)))
	}
	// Re-render only once the drag ends; every change discards edit history.
	ew.scaleSlider.OnChangeEnded = func(v float64) {
		if err := ew.session.SetScale(int(v)); err != nil {
			ew.updateStatus(err.Error())
			return
		}
		ew.prefs.Scale = int(v)
	}

	ew.toleranceLabel = widget.NewLabel(fmt.Sprintf("%d", editor.DefaultTolerance))
	ew.toleranceSlider = widget.NewSlider(editor.MinTolerance, editor.MaxTolerance)
	ew.toleranceSlider.Step = 1
	ew.toleranceSlider.Value = editor.DefaultTolerance
	ew.toleranceSlider.OnChanged = func(v float64) {
		if err := ew.session.SetTolerance(int(v)); err != nil {
			ew.updateStatus(err.Error())
			return
		}
		ew.toleranceLabel.SetText(fmt.Sprintf("%d", int(v)))
		ew.prefs.Tolerance = int(v)
	}

	ew.autoTolCheck = widget.NewCheck("Auto", nil)

	ew.eraseCheck = widget.NewCheck("Erase background", func(checked bool) {
		if err := ew.session.SetEraseMode(checked); err != nil {
			ew.updateStatus(err.Error())
			ew.eraseCheck.SetChecked(false)
			return
		}
		if checked {
			ew.updateStatus("Erase mode: click a region to make it transparent")
		} else {
			ew.updateStatus("Erase mode off")
		}
	})

	ew.undoButton = widget.NewButton("Undo", ew.onUndo)
	ew.undoButton.Disable()

	exportButton := widget.NewButton("Export…", ew.onExport)

	// HBox gives sliders their minimum width, which is too cramped to drag;
	// grid wrappers force a usable width.
	scaleBox := container.NewGridWrap(fyne.NewSize(160, 36), ew.scaleSlider)
	toleranceBox := container.NewGridWrap(fyne.NewSize(140, 36), ew.toleranceSlider)

	return container.NewHBox(
		rotateCCW,
		rotateCW,
		widget.NewSeparator(),
		widget.NewLabel("Scale:"),
		scaleBox,
		ew.scaleLabel,
		widget.NewSeparator(),
		widget.NewLabel("Tolerance:"),
		toleranceBox,
		ew.toleranceLabel,
		ew.autoTolCheck,
		ew.eraseCheck,
		widget.NewSeparator(),
		ew.undoButton,
		exportButton,
	)
}

// setupMenus creates the application menus.
func (ew *EditorWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", ew.onOpenImage),
		fyne.NewMenuItem("Open Image URL...", ew.onOpenImageURL),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", ew.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { ew.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", ew.onUndo),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", ew.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", ew.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", ew.canvas.FitToWindow),
		fyne.NewMenuItem("Actual Size", func() { ew.canvas.SetZoom(1.0) }),
	)

	ew.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu))
}

// setupEventHandlers registers for session events.
func (ew *EditorWindow) setupEventHandlers() {
	ew.session.On(editor.EventImageLoaded, func(interface{}) {
		ew.updateStatus("Image loaded")
	})

	ew.session.On(editor.EventBufferChanged, func(interface{}) {
		ew.syncBuffer()
	})

	ew.session.On(editor.EventHistoryChanged, func(interface{}) {
		if ew.session.CanUndo() {
			ew.undoButton.Enable()
		} else {
			ew.undoButton.Disable()
		}
	})

	ew.session.On(editor.EventEraseModeChanged, func(data interface{}) {
		if on, ok := data.(bool); ok {
			ew.eraseCheck.SetChecked(on)
		}
	})

	ew.session.On(editor.EventToleranceChanged, func(data interface{}) {
		if t, ok := data.(int); ok {
			ew.toleranceSlider.SetValue(float64(t))
			ew.toleranceLabel.SetText(fmt.Sprintf("%d", t))
		}
	})
}

// syncBuffer pushes the session's current buffer to the canvas and keeps the
// pointer mapping in step: the canvas reports tap positions in image
// coordinates, so display size equals buffer size.
func (ew *EditorWindow) syncBuffer() {
	buf := ew.session.Buffer()
	ew.canvas.SetBuffer(buf)
	if buf != nil {
		ew.session.SetDisplaySize(float64(buf.Width), float64(buf.Height))
	}
	ew.canvas.Refresh()
}

// applyPrefs restores persisted tool settings.
func (ew *EditorWindow) applyPrefs() {
	if ew.prefs.Tolerance >= editor.MinTolerance && ew.prefs.Tolerance <= editor.MaxTolerance {
		ew.toleranceSlider.SetValue(float64(ew.prefs.Tolerance))
	}
}

// onCanvasTap handles a click on the image.
func (ew *EditorWindow) onCanvasTap(x, y float64) {
	if !ew.session.EraseMode() {
		return
	}
	if ew.autoTolCheck.Checked {
		if tol, err := ew.session.AutoTolerance(x, y); err == nil {
			ew.updateStatus(fmt.Sprintf("Auto tolerance: %d", tol))
		}
	}
	affected, err := ew.session.Click(x, y)
	if err != nil {
		ew.updateStatus(err.Error())
		return
	}
	if affected == 0 {
		ew.updateStatus("Nothing to erase there")
		return
	}
	ew.updateStatus(fmt.Sprintf("Erased %d pixels", affected))
}

func (ew *EditorWindow) onUndo() {
	if !ew.session.Undo() {
		ew.updateStatus("Nothing to undo")
		return
	}
	ew.updateStatus("Undone")
}

func (ew *EditorWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		ew.prefs.LastDirectory = filepath.Dir(path)

		img, err := source.Load(path)
		if err != nil {
			dialog.ShowError(err, ew.Window)
			return
		}
		if err := ew.session.LoadImage(img); err != nil {
			dialog.ShowError(err, ew.Window)
			return
		}
		ew.afterLoad(filepath.Base(path))
	}, ew.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(source.SupportedFormats()))
	if loc := ew.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (ew *EditorWindow) onOpenImageURL() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://example.com/photo.png")
	d := dialog.NewForm("Open Image URL", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("URL", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			url := entry.Text
			img, err := source.Fetch(context.Background(), url)
			if err != nil {
				// A failed fetch loads nothing; the session stays as it was.
				dialog.ShowError(err, ew.Window)
				return
			}
			if err := ew.session.LoadImage(img); err != nil {
				dialog.ShowError(err, ew.Window)
				return
			}
			ew.afterLoad(filepath.Base(url))
		}, ew.Window)
	d.Resize(fyne.NewSize(480, 120))
	d.Show()
}

// afterLoad resets the controls for a freshly loaded image.
func (ew *EditorWindow) afterLoad(nameHint string) {
	ew.exportNameHint = strings.TrimSuffix(nameHint, filepath.Ext(nameHint)) + "-edited.png"
	ew.scaleSlider.SetValue(100)
	ew.scaleLabel.SetText("100%")
	ew.eraseCheck.SetChecked(false)
	ew.canvas.SetFitToWindow(true)
	ew.SetTitle("Photo Editor - " + nameHint)
}

func (ew *EditorWindow) onExport() {
	blob, err := ew.session.Export()
	if err != nil {
		dialog.ShowError(err, ew.Window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write(blob); err != nil {
			dialog.ShowError(err, ew.Window)
			return
		}
		ew.prefs.LastExportDir = filepath.Dir(writer.URI().Path())
		ew.updateStatus("Exported " + writer.URI().Name())
	}, ew.Window)
	fd.SetFileName(editor.SanitizeFilename(ew.exportNameHint))
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fd.Show()
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (ew *EditorWindow) lastDir() fyne.ListableURI {
	if ew.prefs.LastDirectory == "" {
		return nil
	}
	uri := storage.NewFileURI(ew.prefs.LastDirectory)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// updateStatus updates the status bar text.
func (ew *EditorWindow) updateStatus(text string) {
	ew.statusBar.SetText(text)
}
