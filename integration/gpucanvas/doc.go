// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpucanvas shows a sketch canvas inside a host that owns a GPU
// device and a render loop, such as a gogpu application.
//
// Window implements sketch.Window. The host forwards its input with Push,
// steps the canvas with Canvas.Frame, and draws the presented frame with
// RenderTo:
//
//	win, _ := gpucanvas.New(app.GPUContextProvider(), 800, 600)
//	canvas.Attach(win)
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    _ = canvas.Frame(time.Now())
//	    _ = win.RenderTo(dc.AsTextureDrawer())
//	})
//
// New shares the host device with the registered filter accelerator, so
// GPU filters run on the same device as the window.
//
// The package uses gpucontext interfaces only and does not import gogpu.
package gpucanvas
