// Package main provides the entry point for the Map Marker Maker application.
package main

import (
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog/log"

	"marker-maker/internal/app"
	"marker-maker/internal/config"
	"marker-maker/internal/image"
	"marker-maker/internal/logging"
	"marker-maker/internal/version"
	"marker-maker/ui/mainwindow"
)

const appID = "io.github.markermaker"

func main() {
	configDir := config.DefaultDir()
	configErr := config.Load(configDir)
	settings := config.Get()

	logging.Setup(os.Stderr, settings.LogLevel)
	log.Info().Str("version", version.Version).Msg("Starting Map Marker Maker")
	if configErr != nil {
		log.Warn().Err(configErr).Str("dir", configDir).Msg("Failed to load config, using defaults!")
	} else {
		log.Info().Str("dir", configDir).Msg("Loaded config")
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.MarkerMakerTheme{})

	state := app.NewState(app.Options{
		Zoom:        settings.Zoom,
		RevertAfter: settings.RevertAfter,
	})
	defer state.Close()

	win := mainwindow.New(fyneApp, state, settings)

	// Handle command line arguments
	if len(os.Args) > 1 {
		path := os.Args[1]
		if !image.IsSupportedFormat(path) {
			log.Warn().Str("path", path).Msg("Unrecognized image extension, trying to decode anyway")
		}
		win.OpenImage(path)
	}

	win.ShowAndRun()
	log.Info().Msg("Exiting")
}
