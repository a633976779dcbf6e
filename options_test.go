package sketch

import (
	"errors"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("SKETCHTEST")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("SKETCHTEST_WIDTH", "320")
	t.Setenv("SKETCHTEST_FPS", "30")
	t.Setenv("SKETCHTEST_CLEAR_ON_FRAME", "false")
	t.Setenv("SKETCHTEST_TITLE", "demo")
	cfg, err := LoadConfig("SKETCHTEST")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 320 || cfg.Height != 480 || cfg.FPS != 30 || cfg.ClearOnFrame || cfg.Title != "demo" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"not a number", "SKETCHTEST_WIDTH", "wide"},
		{"zero height", "SKETCHTEST_HEIGHT", "0"},
		{"fps too high", "SKETCHTEST_FPS", "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig("SKETCHTEST"); !errors.Is(err, ErrUsage) {
				t.Errorf("LoadConfig() error = %v, want ErrUsage", err)
			}
		})
	}
}

func TestCanvasOptions(t *testing.T) {
	c, err := NewCanvas(
		WithSize(32, 16),
		WithFPS(24),
		WithTitle("opts"),
		WithClearOnFrame(false),
		WithBackground("#000000"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	cfg := c.Config()
	if c.Width() != 32 || c.Height() != 16 || cfg.FPS != 24 || cfg.Title != "opts" || cfg.ClearOnFrame {
		t.Errorf("Config() = %+v", cfg)
	}
	if got := c.Framebuffer().NRGBAAt(0, 0); got.R != 0 || got.A != 255 {
		t.Errorf("background pixel = %v, want opaque black", got)
	}
}
