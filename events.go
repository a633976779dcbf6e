package sketch

// action is an input event queued by drain for dispatch.
type action struct {
	key     bool
	pointer pointerChannel
	keyCh   keyChannel
	pe      PointerEvent
	ke      KeyboardEvent
}

// toCanvas maps window coordinates (y down) to canvas coordinates (y up).
func (c *Canvas) toCanvas(x, y float64) (float64, float64) {
	cw, ch := float64(c.Width()), float64(c.Height())
	if c.win != nil {
		if ww, wh := c.win.Size(); ww > 0 && wh > 0 {
			x *= cw / float64(ww)
			y *= ch / float64(wh)
		}
	}
	return x, ch - y
}

// drain polls the window and updates the mouse and keyboard state,
// queueing one action per input event.
func (c *Canvas) drain() {
	m := &c.mouse
	m.prevX, m.prevY = m.X, m.Y
	m.ScrollX, m.ScrollY = 0, 0
	c.dragged = false
	if c.win != nil {
		for _, ev := range c.win.PollEvents() {
			c.handleEvent(ev)
		}
	}
	m.DX, m.DY = m.X-m.prevX, m.Y-m.prevY
	m.Dragged = c.dragged
}

func (c *Canvas) handleEvent(ev Event) {
	m := &c.mouse
	switch e := ev.(type) {
	case MouseMoveEvent:
		x, y := c.toCanvas(e.X, e.Y)
		pe := PointerEvent{X: x, Y: y, DX: x - m.X, DY: y - m.Y, Button: m.Button, Modifiers: m.Modifiers}
		m.X, m.Y = x, y
		ch := chanMotion
		if m.Pressed {
			ch = chanDrag
			c.dragged = true
		}
		c.actions = append(c.actions, action{pointer: ch, pe: pe})
	case MouseButtonEvent:
		x, y := c.toCanvas(e.X, e.Y)
		m.X, m.Y = x, y
		m.Button, m.Modifiers, m.Pressed = e.Button, e.Modifiers, e.Pressed
		ch := chanRelease
		if e.Pressed {
			ch = chanPress
		}
		c.actions = append(c.actions, action{pointer: ch, pe: PointerEvent{X: x, Y: y, Button: e.Button, Modifiers: e.Modifiers}})
	case MouseScrollEvent:
		m.ScrollX += e.DX
		m.ScrollY += e.DY
		c.actions = append(c.actions, action{pointer: chanScroll, pe: PointerEvent{
			X: m.X, Y: m.Y, Button: m.Button, Modifiers: m.Modifiers, ScrollX: e.DX, ScrollY: e.DY,
		}})
	case KeyEvent:
		k := &c.keyboard
		k.set(e.Key, e.Pressed)
		k.Key, k.Modifiers = e.Key, e.Modifiers
		ch := chanKeyRelease
		if e.Pressed {
			ch = chanKeyPress
		}
		c.actions = append(c.actions, action{key: true, keyCh: ch, ke: KeyboardEvent{Key: e.Key, Repeat: e.Repeat, Modifiers: e.Modifiers}})
	case TextEvent:
		k := &c.keyboard
		k.Char = e.Text
		c.actions = append(c.actions, action{key: true, keyCh: chanKeyType, ke: KeyboardEvent{Key: k.Key, Text: e.Text, Modifiers: k.Modifiers}})
	case ResizeEvent:
		c.resize(e.Width, e.Height)
	case QuitEvent:
		c.done = true
	}
}

// dispatch routes the queued actions to layers and canvas hooks. The
// first failing handler ends dispatch and drops the frame.
func (c *Canvas) dispatch() error {
	defer func() { c.actions = c.actions[:0] }()
	m := &c.mouse
	if err := c.updateHover(PointerEvent{X: m.X, Y: m.Y, Button: m.Button, Modifiers: m.Modifiers}); err != nil {
		return err
	}
	for _, a := range c.actions {
		var err error
		if a.key {
			err = c.dispatchKey(a)
		} else {
			err = c.dispatchPointer(a)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Canvas) dispatchPointer(a action) error {
	e := a.pe
	switch a.pointer {
	case chanMotion, chanScroll:
		if err := c.updateHover(e); err != nil {
			return err
		}
		if _, err := c.bubble(c.hover, a.pointer, e); err != nil {
			return err
		}
	case chanDrag:
		if err := c.updateHover(e); err != nil {
			return err
		}
		target := c.pressed
		if !c.attached(target) {
			target = c.hover
		}
		if _, err := c.bubble(target, chanDrag, e); err != nil {
			return err
		}
	case chanPress:
		if err := c.updateHover(e); err != nil {
			return err
		}
		handled, err := c.bubble(c.hover, chanPress, e)
		if err != nil {
			return err
		}
		c.pressed = handled
		if c.pressed == nil {
			c.pressed = c.hover
		}
		c.keyFocus = nil
		for l := c.hover; l != nil; l = l.parent {
			if l.acceptsKeys() {
				c.keyFocus = l
				break
			}
		}
	case chanRelease:
		target := c.pressed
		if !c.attached(target) {
			target = c.hover
		}
		c.pressed = nil
		if _, err := c.bubble(target, chanRelease, e); err != nil {
			return err
		}
	}
	return c.callHook(a.pointer.String(), c.hooks.mouse[a.pointer])
}

// updateHover synthesizes leave and enter events when the layer under the
// pointer changes.
func (c *Canvas) updateHover(e PointerEvent) error {
	next := c.LayerAt(e.X, e.Y)
	if next == c.hover {
		return nil
	}
	prev := c.hover
	c.hover = next
	if c.attached(prev) {
		if err := c.deliver(prev, chanLeave, e); err != nil {
			return err
		}
	}
	if next != nil {
		if err := c.deliver(next, chanEnter, e); err != nil {
			return err
		}
	}
	return nil
}

// bubble delivers e to l or its nearest ancestor handling ch and returns
// the layer that handled it.
func (c *Canvas) bubble(l *Layer, ch pointerChannel, e PointerEvent) (*Layer, error) {
	for cur := l; cur != nil; cur = cur.parent {
		if len(cur.pointerHandlers(ch)) == 0 {
			continue
		}
		return cur, c.deliver(cur, ch, e)
	}
	return nil, nil
}

func (c *Canvas) deliver(l *Layer, ch pointerChannel, e PointerEvent) error {
	if p, ok := l.ToLocal(e.X, e.Y); ok {
		e.LocalX, e.LocalY = p.X, p.Y
	}
	for _, fn := range l.pointerHandlers(ch) {
		if err := c.call(l.name+" "+ch.String(), func() error { return fn(l, e) }); err != nil {
			return err
		}
	}
	return nil
}

func (c *Canvas) dispatchKey(a action) error {
	// Hooks see the key state of the event being dispatched.
	if a.keyCh == chanKeyType {
		c.keyboard.Char = a.ke.Text
	} else {
		c.keyboard.Key = a.ke.Key
	}
	c.keyboard.Modifiers = a.ke.Modifiers
	if c.attached(c.keyFocus) {
		if err := c.deliverKey(c.keyFocus, a.keyCh, a.ke); err != nil {
			return err
		}
	} else {
		for _, root := range c.layers {
			var err error
			c.walkEnabled(root, func(l *Layer) bool {
				err = c.deliverKey(l, a.keyCh, a.ke)
				return err == nil
			})
			if err != nil {
				return err
			}
		}
	}
	return c.callHook(a.keyCh.String(), c.hooks.key[a.keyCh])
}

func (c *Canvas) deliverKey(l *Layer, ch keyChannel, e KeyboardEvent) error {
	for _, fn := range l.keyHandlers(ch) {
		if err := c.call(l.name+" "+ch.String(), func() error { return fn(l, e) }); err != nil {
			return err
		}
	}
	return nil
}

// walkEnabled visits the enabled layers of a subtree in drawing order,
// skipping disabled subtrees.
func (c *Canvas) walkEnabled(l *Layer, fn func(*Layer) bool) bool {
	if !l.enabled {
		return true
	}
	if !fn(l) {
		return false
	}
	for _, child := range l.children {
		if !c.walkEnabled(child, fn) {
			return false
		}
	}
	return true
}
