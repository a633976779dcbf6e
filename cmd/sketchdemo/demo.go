package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/gui"
)

// demo holds the scene state changed by the settings panel.
type demo struct {
	c      *sketch.Canvas
	bg     *sketch.Image
	speed  float64
	hue    float64
	blur   bool
	label  string
	angle  float64
	ball   *sketch.Layer
	panel  *gui.Panel
	rows   *gui.Rows
	status *gui.Label
}

func newDemo(c *sketch.Canvas) (*demo, error) {
	d := &demo{c: c, speed: 30, hue: 200, label: "sketch"}
	c.OnSetup(d.setup)
	c.OnUpdate(d.update)
	c.OnDraw(d.draw)
	c.OnStop(func(*sketch.Canvas) error {
		if d.bg != nil {
			d.bg.Destroy()
		}
		return nil
	})
	c.OnKeyPress(func(c *sketch.Canvas) error {
		if c.Keyboard().Key == sketch.KeyEscape {
			c.SetDone()
		}
		return nil
	})
	if err := d.buildLayers(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *demo) setup(c *sketch.Canvas) error {
	bg, err := sketch.Gradient(c.Width(), c.Height(), sketch.RGB(0.1, 0.2, 0.4), sketch.RGB(0.5, 0.5, 0.6), sketch.LinearGradient, 90, 0)
	if err != nil {
		return err
	}
	d.bg = bg
	return nil
}

func (d *demo) update(c *sketch.Canvas) error {
	d.angle = math.Mod(d.angle+d.speed/c.FPS(), 360)
	d.status.SetValue(fmt.Sprintf("frame %d, dropped %d", c.FrameCount(), c.DroppedFrames()))
	return nil
}

func (d *demo) draw(c *sketch.Canvas) error {
	if d.bg != nil {
		var opts []sketch.DrawOption
		if d.blur {
			opts = append(opts, sketch.WithFilter(sketch.Blurred(2)))
		}
		if err := c.Image(d.bg, 0, 0, opts...); err != nil {
			return err
		}
	}
	w, h := float64(c.Width()), float64(c.Height())
	accent := sketch.HSL(d.hue, 0.7, 0.55)

	err := c.Scoped(func() error {
		c.Translate(w*0.65, h*0.5)
		c.Rotate(d.angle)
		c.Fill(accent)
		c.Stroke(sketch.White)
		c.StrokeWidth(2)
		return c.Star(0, 0, 7, h*0.25, h*0.1)
	})
	if err != nil {
		return err
	}

	for i := range 3 {
		t := float64(i) / 3
		col := sketch.HSL(math.Mod(d.hue+t*120, 360), 0.8, 0.6).WithAlpha(0.6)
		x := w*0.65 + math.Cos(sketch.Radians(d.angle*2)+t*2*math.Pi)*h*0.3
		y := h*0.5 + math.Sin(sketch.Radians(d.angle*2)+t*2*math.Pi)*h*0.3
		if err := c.Ellipse(x-15, y-15, 30, 30, sketch.WithFill(col), sketch.WithNoStroke()); err != nil {
			return err
		}
	}

	return c.Text(d.label, w*0.4, 20, sketch.WithFill(sketch.White), sketch.WithFontSize(28), sketch.WithNoStroke())
}

// buildLayers adds the settings panel and a ball that tweens to where
// it is released.
func (d *demo) buildLayers() error {
	speed := gui.NewSlider(0, 180, d.speed, 140)
	speed.OnAction(func(gui.Control) error { d.speed = speed.Value(); return nil })
	hue := gui.NewKnob(0, 360, d.hue, 40)
	hue.OnAction(func(gui.Control) error { d.hue = hue.Value(); return nil })
	blur := gui.NewFlag("Blur background", d.blur, 140)
	blur.OnAction(func(gui.Control) error { d.blur = blur.Value(); return nil })
	label := gui.NewField(d.label, 140)
	label.OnAction(func(gui.Control) error { d.label = label.Value(); return nil })
	reset := gui.NewButton("Reset", 60)
	reset.OnAction(func(gui.Control) error {
		d.angle = 0
		d.ball.SetX(40)
		d.ball.SetY(40)
		return nil
	})
	d.status = gui.NewLabel("", 140)

	knobRow := gui.NewRow(6)
	if err := knobRow.Append(gui.NewLabel("Hue", 40), hue); err != nil {
		return err
	}
	d.rows = gui.NewRows(4)
	if err := d.rows.Append(gui.NewLabel("Speed", 140), speed, knobRow, blur, label, reset, d.status); err != nil {
		return err
	}
	d.panel = gui.NewPanel("Settings", 10, 10)
	if err := d.panel.Append(d.rows); err != nil {
		return err
	}

	d.ball = sketch.NewLayer(40, 40, 40, 40,
		sketch.WithName("ball"),
		sketch.WithDuration(600*time.Millisecond),
		sketch.WithHitPath(sketch.NewPath().Ellipse(0, 0, 40, 40)),
		sketch.WithBehavior(ball{d}),
	)
	d.c.OnMouseRelease(func(c *sketch.Canvas) error {
		if c.Hovered() != nil {
			return nil
		}
		m := c.Mouse()
		d.ball.SetX(m.X - 20)
		d.ball.SetY(m.Y - 20)
		return nil
	})
	return d.c.Append(d.ball, d.panel.Layer())
}

// dump writes the layer tree as a graphviz file.
func (d *demo) dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, l := range d.c.Layers() {
		l.Dump(f)
	}
	return f.Close()
}

type ball struct{ d *demo }

func (b ball) Draw(l *sketch.Layer, c *sketch.Canvas) error {
	return c.Ellipse(0, 0, l.Width(), l.Height(),
		sketch.WithFill(sketch.HSL(math.Mod(b.d.hue+180, 360), 0.8, 0.5)),
		sketch.WithStroke(sketch.White))
}
