package main

import (
	"log"

	"fyne.io/fyne/v2/app"
	"github.com/PixPMusic/gopher-roll/internal/config"
	"github.com/PixPMusic/gopher-roll/internal/midi"
	"github.com/PixPMusic/gopher-roll/internal/transport"
	"github.com/PixPMusic/gopher-roll/internal/window"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize MIDI manager
	midiManager := midi.NewManager()
	defer midiManager.Close()

	// Playback transport
	trans := transport.New()
	defer trans.Close()

	// Create Fyne app
	fyneApp := app.NewWithID("com.pixpmusic.gopherroll")

	mainWindow := window.NewMainWindow(fyneApp, cfg, midiManager, trans)

	if !cfg.FirstLaunchCompleted {
		cfg.FirstLaunchCompleted = true
		if err := cfg.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
	}

	trans.Run()
	mainWindow.Show()

	// Run the Fyne app (this blocks until app.Quit is called)
	fyneApp.Run()
}
