// Package main provides the entry point for the photo editor application.
package main

import (
	"log"
	"os"

	"photo-editor/internal/editor"
	"photo-editor/internal/source"
	"photo-editor/internal/version"
	"photo-editor/ui/editorwindow"
	"photo-editor/ui/prefs"

	"fyne.io/fyne/v2/app"
)

const appTitle = "Photo Editor"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := app.NewWithID("photo-editor")

	session := editor.NewSession()
	appPrefs := prefs.Load()

	if appPrefs.Tolerance >= editor.MinTolerance && appPrefs.Tolerance <= editor.MaxTolerance {
		if err := session.SetTolerance(appPrefs.Tolerance); err != nil {
			log.Printf("Failed to restore tolerance: %v", err)
		}
	}

	win := editorwindow.New(fyneApp, session, appPrefs)
	win.SetTitle(appTitle)

	// Handle an optional image path argument.
	if len(os.Args) > 1 {
		path := os.Args[1]
		img, err := source.Load(path)
		if err != nil {
			log.Printf("Failed to load image %s: %v", path, err)
		} else if err := session.LoadImage(img); err != nil {
			log.Printf("Failed to open image %s: %v", path, err)
		}
	}

	win.ShowAndRun()
}
