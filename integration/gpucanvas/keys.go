// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucanvas

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/sketch"
)

// KeyMap translates host keys and modifier bits into sketch keys. The
// zero value maps nothing; DefaultKeyMap covers the keys sketch names.
type KeyMap struct {
	keys map[gpucontext.Key]sketch.Key
	mods []modBit
}

type modBit struct {
	host   gpucontext.Modifiers
	sketch sketch.Modifiers
}

// DefaultKeyMap returns a KeyMap with the space bar mapped. Hosts add
// the rest of their key set with MapKey and MapModifier.
func DefaultKeyMap() *KeyMap {
	m := &KeyMap{}
	m.MapKey(gpucontext.KeySpace, sketch.KeySpace)
	return m
}

// MapKey makes host key k arrive as sk.
func (m *KeyMap) MapKey(k gpucontext.Key, sk sketch.Key) {
	if m.keys == nil {
		m.keys = make(map[gpucontext.Key]sketch.Key)
	}
	m.keys[k] = sk
}

// MapModifier makes host modifier bit host arrive as sm.
func (m *KeyMap) MapModifier(host gpucontext.Modifiers, sm sketch.Modifiers) {
	m.mods = append(m.mods, modBit{host: host, sketch: sm})
}

// Key returns the sketch key for k, or sketch.KeyUnknown.
func (m *KeyMap) Key(k gpucontext.Key) sketch.Key {
	return m.keys[k]
}

// Modifiers translates a host modifier set.
func (m *KeyMap) Modifiers(mods gpucontext.Modifiers) sketch.Modifiers {
	var out sketch.Modifiers
	for _, b := range m.mods {
		if mods&b.host != 0 {
			out |= b.sketch
		}
	}
	return out
}

// KeyPress queues a key press from the host event source. Unmapped keys
// are dropped.
//
//	app.EventSource().OnKeyPress(win.KeyPress)
func (w *Window) KeyPress(key gpucontext.Key, mods gpucontext.Modifiers) {
	w.pushKey(key, mods, true)
}

// KeyRelease queues a key release from the host event source.
func (w *Window) KeyRelease(key gpucontext.Key, mods gpucontext.Modifiers) {
	w.pushKey(key, mods, false)
}

func (w *Window) pushKey(key gpucontext.Key, mods gpucontext.Modifiers, pressed bool) {
	sk := w.keys.Key(key)
	if sk == sketch.KeyUnknown {
		return
	}
	w.Push(sketch.KeyEvent{Key: sk, Pressed: pressed, Modifiers: w.keys.Modifiers(mods)})
}

// Keys returns the key map used by KeyPress and KeyRelease.
func (w *Window) Keys() *KeyMap { return w.keys }
