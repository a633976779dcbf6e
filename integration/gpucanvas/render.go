// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

var (
	// ErrInvalidDrawContext is returned when the flushed texture is not a
	// gpucontext.Texture.
	ErrInvalidDrawContext = errors.New("gpucanvas: texture does not implement gpucontext.Texture")

	// ErrInvalidRenderer is returned when the draw context has no
	// gpucontext.TextureCreator.
	ErrInvalidRenderer = errors.New("gpucanvas: draw context has no gpucontext.TextureCreator")
)

// RenderTo draws the last presented frame at the origin of dc.
func (w *Window) RenderTo(dc gpucontext.TextureDrawer) error {
	return w.RenderToPosition(dc, 0, 0)
}

// RenderToPosition draws the last presented frame at (x, y) in host
// surface pixels. It does nothing before the first Present.
func (w *Window) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if w.closed {
		return ErrWindowClosed
	}
	tex, err := w.Flush()
	if err != nil || tex == nil {
		return err
	}

	if pending, ok := tex.(*pendingTexture); ok {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		// NewTextureFromRGBA waits for the GPU, so the old texture is no
		// longer referenced once it returns.
		hostTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("gpucanvas: NewTextureFromRGBA failed: %w", err)
		}
		// Frames are straight alpha.
		if pt, ok := hostTex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(false)
		}
		w.texture = hostTex
		tex = hostTex
		destroy(w.oldTexture)
		w.oldTexture = nil
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return dc.DrawTexture(gpuTex, x, y)
}
