// Command sketchdemo runs an animated sketch with a settings panel.
//
// Configuration comes from SKETCH_* environment variables (see
// sketch.LoadConfig) and can be overridden with flags:
//
//	sketchdemo -driver ebiten -width 800 -height 600
//	sketchdemo -driver headless -frames 120 -output demo.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/driver/ebitenwin"
	"github.com/gogpu/sketch/driver/raylibwin"
	"github.com/gogpu/sketch/driver/sdlgl"
	_ "github.com/gogpu/sketch/gpu"
)

func main() {
	cfg, err := sketch.LoadConfig("SKETCH")
	if err != nil {
		log.Fatal(err)
	}

	var (
		driver  = flag.String("driver", "sdl", "window driver: sdl, ebiten, raylib or headless")
		width   = flag.Int("width", cfg.Width, "canvas width")
		height  = flag.Int("height", cfg.Height, "canvas height")
		fps     = flag.Float64("fps", cfg.FPS, "target frame rate")
		capture = flag.String("capture", cfg.CaptureFile, "write an lz4 frame capture to this file")
		frames  = flag.Int("frames", 120, "frames to render with the headless driver")
		output  = flag.String("output", "sketchdemo.png", "screenshot written by the headless driver")
		dump    = flag.String("dump", "", "write a graphviz dump of the layer tree on exit")
		stats   = flag.String("stats", "", "serve runtime statistics on this address, e.g. localhost:18066")
		verbose = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg.Width, cfg.Height, cfg.FPS, cfg.CaptureFile = *width, *height, *fps, *capture
	if cfg.Title == sketch.DefaultConfig().Title {
		cfg.Title = "sketchdemo"
	}

	if *stats != "" {
		launchStats(*stats)
	}

	c, err := sketch.NewCanvasFromConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	d, err := newDemo(c)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, c, cfg, *driver, *frames, *output); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	if *dump != "" {
		if err := d.dump(*dump); err != nil {
			log.Fatal(err)
		}
	}
}

func run(ctx context.Context, c *sketch.Canvas, cfg sketch.Config, driver string, frames int, output string) error {
	switch driver {
	case "sdl":
		win, err := sdlgl.Open(cfg)
		if err != nil {
			return err
		}
		defer win.Close()
		return c.Run(ctx, win)
	case "raylib":
		win, err := raylibwin.Open(cfg)
		if err != nil {
			return err
		}
		defer win.Close()
		return c.Run(ctx, win)
	case "ebiten":
		return ebitenwin.Run(c)
	case "headless":
		return runHeadless(ctx, c, cfg, frames, output)
	default:
		return fmt.Errorf("%w: unknown driver %q", sketch.ErrUsage, driver)
	}
}

// runHeadless renders frames without a window and saves the last one.
func runHeadless(ctx context.Context, c *sketch.Canvas, cfg sketch.Config, frames int, output string) error {
	win := sketch.NewHeadlessWindow(cfg.Width, cfg.Height)
	if err := c.Start(); err != nil {
		return err
	}
	c.Attach(win)
	// Frames advance a simulated clock so the animation does not depend
	// on how fast they render.
	start := time.Now()
	step := time.Duration(float64(time.Second) / cfg.FPS)
	for i := 0; i < frames && !c.Done(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Frame(start.Add(time.Duration(i) * step)); err != nil {
			return err
		}
	}
	if err := c.Stop(); err != nil {
		return err
	}
	img, err := c.Screenshot()
	if err != nil {
		return err
	}
	defer img.Destroy()
	if err := img.Save(output); err != nil {
		return err
	}
	sketch.Logger().Info("sketchdemo: screenshot saved", "path", output, "frames", c.FrameCount())
	return nil
}

func launchStats(addr string) {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil {
			sketch.Logger().Warn("sketchdemo: stats server stopped", "err", err)
		}
	}()
	sketch.Logger().Info("sketchdemo: stats server started", "url", "http://"+addr+"/debug/statsview")
}
