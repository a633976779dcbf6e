package sketch

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// MaxFPS is the highest accepted frame rate.
const MaxFPS = 240

// Config holds the recognized canvas options. It can be loaded from the
// environment with LoadConfig or built with CanvasOptions.
type Config struct {
	Width        int     `envconfig:"WIDTH" default:"640"`
	Height       int     `envconfig:"HEIGHT" default:"480"`
	FPS          float64 `envconfig:"FPS" default:"60"`
	Fullscreen   bool    `envconfig:"FULLSCREEN" default:"false"`
	VSync        bool    `envconfig:"VSYNC" default:"true"`
	ClearOnFrame bool    `envconfig:"CLEAR_ON_FRAME" default:"true"`
	Title        string  `envconfig:"TITLE" default:"sketch"`
	Background   string  `envconfig:"BACKGROUND" default:"#ffffff"`
	CaptureFile  string  `envconfig:"CAPTURE_FILE"`
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		Width:        640,
		Height:       480,
		FPS:          60,
		VSync:        true,
		ClearOnFrame: true,
		Title:        "sketch",
		Background:   "#ffffff",
	}
}

// LoadConfig reads the configuration from environment variables named
// PREFIX_WIDTH, PREFIX_HEIGHT and so on, applying defaults for the unset
// ones, and validates it.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the ranges of every option.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: size %dx%d must be at least 1x1", ErrUsage, c.Width, c.Height)
	}
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return fmt.Errorf("%w: fps %v outside (0, %d]", ErrUsage, c.FPS, MaxFPS)
	}
	return nil
}
