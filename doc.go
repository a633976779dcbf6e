// Package sketch is a 2D graphics and animation library for interactive
// sketches.
//
// # Overview
//
// A Canvas owns a framebuffer, a graphics state stack and a frame loop.
// Hooks registered with OnSetup, OnUpdate and OnDraw run inside the loop;
// drawing calls such as Rect, Ellipse, DrawPath, Image and Text render
// with the current state (fill, stroke, alpha, font) and transform.
//
// # Quick Start
//
//	import "github.com/gogpu/sketch"
//
//	c, _ := sketch.NewCanvas(sketch.WithSize(400, 300))
//	defer c.Close()
//
//	c.OnDraw(func(c *sketch.Canvas) error {
//	    c.Fill(sketch.Red)
//	    return c.Ellipse(150, 100, 100, 100)
//	})
//
//	win := sketch.NewHeadlessWindow(400, 300)
//	_ = c.Run(ctx, win)
//
// Windows for real displays live in driver/sdlgl, driver/ebitenwin and
// driver/raylibwin; integration/gpucanvas presents into a host GPU
// application.
//
// # Coordinate System
//
//   - Origin (0,0) at bottom-left
//   - X increases right
//   - Y increases up
//   - Angles in degrees, counter-clockwise
//
// Window events arrive with y down and are converted by the canvas.
//
// # Paths
//
// Path is a mutable list of move, line, cubic curve and close commands.
// Paths are flattened with a per-path tolerance and tessellated once; the
// result is cached by the path fingerprint, so redrawing an unchanged path
// costs a cache lookup. Points, Point, Length and Directed sample a path by
// arc length.
//
// # Images and Filters
//
// Image wraps a texture decoded from a file, reader, image.Image or
// Pixels. Eager filters (Blur, Twirl, Blend, Bloom and the rest) return a
// new Image. Inline filters are attached to one draw call with WithFilter.
// GPU-capable filters run on the registered FilterAccelerator when one is
// available; import github.com/gogpu/sketch/gpu to register the wgpu
// accelerator. Everything falls back to the CPU.
//
// OffscreenBuffer redirects drawing into a texture with PushBuffer and
// PopBuffer.
//
// # Layers
//
// Layers form a tree of rectangles drawn after the draw hook. Their
// properties (position, size, scale, rotation, opacity and custom ones)
// tween over the layer duration. A Behavior draws a layer and may also
// update it, refine hit testing and handle pointer and key events.
// Package gui builds controls on layers.
//
// # Errors and Logging
//
// Errors wrap the sentinels ErrUsage, ErrResource, ErrDecode, ErrUserHook
// and ErrClosed. A failing hook drops the frame and the loop continues.
// Diagnostics go to the slog.Logger set with SetLogger; nothing is logged
// by default.
package sketch
