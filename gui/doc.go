// Package gui provides a small set of controls built on sketch layers.
//
// Every control is a sketch.Behavior attached to its own layer. Add the
// layer to a canvas (or to a container) to show it:
//
//	s := gui.NewSlider(0, 100, 50, 120)
//	s.OnAction(func(c gui.Control) error {
//		fmt.Println(s.Value())
//		return nil
//	})
//	rows := gui.NewRows(4)
//	rows.Append(gui.NewLabel("Speed", 120), s)
//	panel := gui.NewPanel("Settings", 20, 20)
//	panel.Append(rows)
//	canvas.Append(panel.Layer())
//
// Actions bubble: a control first runs its own OnAction hook, then the
// hooks of the containers above it.
package gui
