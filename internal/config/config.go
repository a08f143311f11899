// Package config loads application settings with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"marker-maker/internal/marker"
)

// FileName is the config file looked up in the config directory.
const FileName = "markermaker.cfg.json"

// Settings is a typed snapshot of the configuration.
type Settings struct {
	LogLevel     string
	Zoom         marker.ZoomLimits
	RevertAfter  time.Duration
	MarkerSize   float64
	WindowWidth  float32
	WindowHeight float32
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("zoom.step", marker.DefaultZoomStep)
	viper.SetDefault("zoom.min", marker.DefaultMinScale)
	viper.SetDefault("zoom.max", marker.DefaultMaxScale)

	viper.SetDefault("copy.revertAfter", marker.DefaultRevertAfter.String())

	viper.SetDefault("marker.size", 32)

	viper.SetDefault("window.width", 1100)
	viper.SetDefault("window.height", 800)
}

// DefaultDir returns the per-user config directory for the application.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "marker-maker")
}

// Load reads configuration from the JSON file in configDir and sets default
// values. Defaults stay in effect when the file cannot be read.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Get returns the current settings.
func Get() Settings {
	revert := viper.GetDuration("copy.revertAfter")
	if revert <= 0 {
		revert = marker.DefaultRevertAfter
	}
	size := viper.GetFloat64("marker.size")
	if size <= 0 {
		size = 32
	}
	return Settings{
		LogLevel: viper.GetString("logLevel"),
		Zoom: marker.ZoomLimits{
			Step: viper.GetFloat64("zoom.step"),
			Min:  viper.GetFloat64("zoom.min"),
			Max:  viper.GetFloat64("zoom.max"),
		},
		RevertAfter:  revert,
		MarkerSize:   size,
		WindowWidth:  float32(viper.GetFloat64("window.width")),
		WindowHeight: float32(viper.GetFloat64("window.height")),
	}
}
