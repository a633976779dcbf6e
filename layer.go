package sketch

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/google/uuid"
)

// Built-in animated layer properties.
const (
	PropX        = "x"
	PropY        = "y"
	PropWidth    = "width"
	PropHeight   = "height"
	PropScale    = "scale"
	PropRotation = "rotation"
	PropOpacity  = "opacity"
)

// Layer is a rectangle in a scene graph. It has an origin about which it
// rotates and scales, an opacity, children drawn on top of it, and
// optional behavior and handlers.
//
// The numeric properties tween toward newly assigned values when the
// layer has a non-zero duration. Getters report the in-between value.
type Layer struct {
	name string

	values map[string]float64
	tweens map[string]*tween

	duration time.Duration
	easing   Easing
	clock    func() time.Time

	originX, originY float64
	originRelative   bool

	enabled bool
	hidden  bool
	hitPath *Path

	behavior Behavior
	handlers Handlers

	parent   *Layer
	children []*Layer
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithOrigin sets the pivot. When relative is true x and y are fractions
// of the width and height.
func WithOrigin(x, y float64, relative bool) LayerOption {
	return func(l *Layer) { l.originX, l.originY, l.originRelative = x, y, relative }
}

// WithName sets the layer name.
func WithName(name string) LayerOption {
	return func(l *Layer) { l.name = name }
}

// WithBehavior attaches b.
func WithBehavior(b Behavior) LayerOption {
	return func(l *Layer) { l.behavior = b }
}

// WithHandlers attaches a callback table.
func WithHandlers(h Handlers) LayerOption {
	return func(l *Layer) { l.handlers = h }
}

// WithHitPath restricts hit testing to p, given in layer coordinates.
func WithHitPath(p *Path) LayerOption {
	return func(l *Layer) { l.hitPath = p }
}

// WithDuration enables tweening of property assignments.
func WithDuration(d time.Duration) LayerOption {
	return func(l *Layer) { l.duration = max(d, 0) }
}

// WithEasing sets the easing curve of new tweens.
func WithEasing(e Easing) LayerOption {
	return func(l *Layer) { l.easing = e }
}

// WithLayerClock sets the time source of the tweens.
func WithLayerClock(now func() time.Time) LayerOption {
	return func(l *Layer) {
		if now != nil {
			l.clock = now
		}
	}
}

// NewLayer creates an enabled layer at (x, y) with size w x h.
func NewLayer(x, y, w, h float64, opts ...LayerOption) *Layer {
	l := &Layer{
		values: map[string]float64{
			PropX: x, PropY: y,
			PropWidth: w, PropHeight: h,
			PropScale: 1, PropRotation: 0, PropOpacity: 1,
		},
		tweens:  make(map[string]*tween),
		easing:  DefaultEasing,
		clock:   time.Now,
		enabled: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.name == "" {
		l.name = "layer-" + uuid.NewString()[:8]
	}
	return l
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// SetName renames the layer.
func (l *Layer) SetName(name string) { l.name = name }

// get returns the current value of a property, retiring a finished tween.
func (l *Layer) get(name string) float64 {
	tw, ok := l.tweens[name]
	if !ok {
		return l.values[name]
	}
	v, done := tw.at(l.clock())
	if done {
		l.values[name] = tw.to
		delete(l.tweens, name)
		return tw.to
	}
	return v
}

// set assigns a property, starting a tween from the current value when the
// layer has a duration. Assigning the target of a running tween leaves it
// running.
func (l *Layer) set(name string, v float64) {
	if l.duration <= 0 {
		delete(l.tweens, name)
		l.values[name] = v
		return
	}
	from := l.get(name)
	if tw, ok := l.tweens[name]; ok && tw.to == v {
		return
	}
	if from == v {
		delete(l.tweens, name)
		l.values[name] = v
		return
	}
	l.tweens[name] = &tween{from: from, to: v, start: l.clock(), duration: l.duration, easing: l.easing}
	l.values[name] = v
}

// X returns the horizontal position in the parent.
func (l *Layer) X() float64 { return l.get(PropX) }

// Y returns the vertical position in the parent.
func (l *Layer) Y() float64 { return l.get(PropY) }

// Width returns the width.
func (l *Layer) Width() float64 { return l.get(PropWidth) }

// Height returns the height.
func (l *Layer) Height() float64 { return l.get(PropHeight) }

// Scale returns the uniform scale.
func (l *Layer) Scale() float64 { return l.get(PropScale) }

// Rotation returns the rotation in degrees.
func (l *Layer) Rotation() float64 { return l.get(PropRotation) }

// Opacity returns the opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.get(PropOpacity) }

// SetX moves the layer horizontally.
func (l *Layer) SetX(v float64) { l.set(PropX, v) }

// SetY moves the layer vertically.
func (l *Layer) SetY(v float64) { l.set(PropY, v) }

// SetWidth resizes the layer horizontally.
func (l *Layer) SetWidth(v float64) { l.set(PropWidth, v) }

// SetHeight resizes the layer vertically.
func (l *Layer) SetHeight(v float64) { l.set(PropHeight, v) }

// SetScale sets the uniform scale.
func (l *Layer) SetScale(v float64) { l.set(PropScale, v) }

// SetRotation sets the rotation in degrees.
func (l *Layer) SetRotation(v float64) { l.set(PropRotation, v) }

// SetOpacity sets the opacity, clamped to [0, 1].
func (l *Layer) SetOpacity(v float64) { l.set(PropOpacity, clamp01(v)) }

// Property returns a user-registered property.
func (l *Layer) Property(name string) (float64, bool) {
	if _, ok := l.values[name]; !ok {
		return 0, false
	}
	return l.get(name), true
}

// SetProperty assigns a property. The first assignment registers it
// without tweening.
func (l *Layer) SetProperty(name string, v float64) {
	if _, ok := l.values[name]; !ok {
		l.values[name] = v
		return
	}
	l.set(name, v)
}

// Properties returns the names of all properties in sorted order.
func (l *Layer) Properties() []string {
	return slices.Sorted(maps.Keys(l.values))
}

// Duration returns the tween duration for new assignments.
func (l *Layer) Duration() time.Duration { return l.duration }

// SetDuration changes the tween duration. Zero makes assignments
// immediate; tweens in flight keep running.
func (l *Layer) SetDuration(d time.Duration) { l.duration = max(d, 0) }

// SetEasing changes the easing of new tweens.
func (l *Layer) SetEasing(e Easing) { l.easing = e }

// Done reports whether no property is tweening.
func (l *Layer) Done() bool {
	l.step()
	return len(l.tweens) == 0
}

// DoneProperty reports whether the named property is not tweening.
func (l *Layer) DoneProperty(name string) bool {
	l.get(name)
	_, ok := l.tweens[name]
	return !ok
}

// Tweening returns the names of the properties being tweened.
func (l *Layer) Tweening() []string {
	l.step()
	return slices.Sorted(maps.Keys(l.tweens))
}

// step retires finished tweens.
func (l *Layer) step() {
	for name := range l.tweens {
		l.get(name)
	}
}

// Origin returns the pivot as given and whether it is relative.
func (l *Layer) Origin() (x, y float64, relative bool) {
	return l.originX, l.originY, l.originRelative
}

// SetOrigin sets the pivot. When relative is true x and y are fractions
// of the width and height.
func (l *Layer) SetOrigin(x, y float64, relative bool) {
	l.originX, l.originY, l.originRelative = x, y, relative
}

// pivot resolves the origin against the current size.
func (l *Layer) pivot() Point {
	if l.originRelative {
		return Point{X: l.originX * l.Width(), Y: l.originY * l.Height()}
	}
	return Point{X: l.originX, Y: l.originY}
}

// Transform returns the local transform: translate to the position, then
// rotate and scale about the origin.
func (l *Layer) Transform() Transform {
	o := l.pivot()
	s := l.Scale()
	return Translate(l.X(), l.Y()).
		Multiply(Translate(o.X, o.Y)).
		Multiply(Rotate(Radians(l.Rotation()))).
		Multiply(Scale(s, s)).
		Multiply(Translate(-o.X, -o.Y))
}

// AbsoluteTransform returns the composition of the transforms from the
// root down to l.
func (l *Layer) AbsoluteTransform() Transform {
	if l.parent == nil {
		return l.Transform()
	}
	return l.parent.AbsoluteTransform().Multiply(l.Transform())
}

// Bounds returns the layer rectangle in local coordinates.
func (l *Layer) Bounds() Rect {
	return Rect{Width: l.Width(), Height: l.Height()}
}

// Enabled reports whether the layer takes part in hit testing and events.
func (l *Layer) Enabled() bool { return l.enabled }

// SetEnabled turns hit testing and events of the subtree on or off.
// Drawing is unaffected.
func (l *Layer) SetEnabled(on bool) { l.enabled = on }

// Hidden reports whether drawing of the subtree is skipped.
func (l *Layer) Hidden() bool { return l.hidden }

// SetHidden hides or shows the subtree.
func (l *Layer) SetHidden(on bool) { l.hidden = on }

// HitPath returns the hit path, or nil.
func (l *Layer) HitPath() *Path { return l.hitPath }

// SetHitPath restricts hit testing to p in layer coordinates. Nil uses
// the rectangle alone.
func (l *Layer) SetHitPath(p *Path) { l.hitPath = p }

// Behavior returns the attached behavior, or nil.
func (l *Layer) Behavior() Behavior { return l.behavior }

// SetBehavior replaces the behavior.
func (l *Layer) SetBehavior(b Behavior) { l.behavior = b }

// Handlers returns a pointer to the callback table for in-place edits.
func (l *Layer) Handlers() *Handlers { return &l.handlers }

// inside reports whether local point p hits the layer.
func (l *Layer) inside(p Point) bool {
	if !l.Bounds().Contains(p.X, p.Y) {
		return false
	}
	if l.hitPath != nil && !l.hitPath.Contains(p.X, p.Y) {
		return false
	}
	if ht, ok := l.behavior.(HitTester); ok && !ht.HitTest(l, p.X, p.Y) {
		return false
	}
	if l.handlers.HitTest != nil && !l.handlers.HitTest(l, p.X, p.Y) {
		return false
	}
	return true
}

// toLocal maps a point in the coordinates of the parent into l.
func (l *Layer) toLocal(p Point) (Point, bool) {
	inv, ok := l.Transform().Invert()
	if !ok {
		return Point{}, false
	}
	return inv.Apply(p), true
}

// ToLocal maps canvas coordinates into the coordinates of l.
func (l *Layer) ToLocal(x, y float64) (Point, bool) {
	inv, ok := l.AbsoluteTransform().Invert()
	if !ok {
		return Point{}, false
	}
	return inv.Apply(Point{X: x, Y: y}), true
}

// Contains reports whether canvas point (x, y) lies in the transformed
// rectangle and hit path.
func (l *Layer) Contains(x, y float64) bool {
	p, ok := l.ToLocal(x, y)
	return ok && l.inside(p)
}

// LayerAt returns the topmost enabled layer of the subtree at canvas point
// (x, y), or nil. A layer below a disabled ancestor never hits. When clipped is true descendants are only searched
// inside the rectangles of their ancestors.
func (l *Layer) LayerAt(x, y float64, clipped bool) *Layer {
	for a := l.parent; a != nil; a = a.parent {
		if !a.enabled {
			return nil
		}
	}
	p := Point{X: x, Y: y}
	if l.parent != nil {
		inv, ok := l.parent.AbsoluteTransform().Invert()
		if !ok {
			return nil
		}
		p = inv.Apply(p)
	}
	return l.layerAt(p, clipped)
}

func (l *Layer) layerAt(p Point, clipped bool) *Layer {
	if !l.enabled {
		return nil
	}
	local, ok := l.toLocal(p)
	if !ok {
		return nil
	}
	in := l.inside(local)
	if clipped && !in {
		return nil
	}
	for _, child := range slices.Backward(l.children) {
		if hit := child.layerAt(local, clipped); hit != nil {
			return hit
		}
	}
	if in {
		return l
	}
	return nil
}

// Parent returns the containing layer, or nil.
func (l *Layer) Parent() *Layer { return l.parent }

// Root returns the topmost ancestor.
func (l *Layer) Root() *Layer {
	r := l
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Children returns a copy of the child list in drawing order.
func (l *Layer) Children() []*Layer { return slices.Clone(l.children) }

// IsAncestorOf reports whether l contains other at any depth.
func (l *Layer) IsAncestorOf(other *Layer) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == l {
			return true
		}
	}
	return false
}

// Append adds children on top of the existing ones. A child is removed
// from its previous parent first. Appending l or one of its ancestors is a
// usage error.
func (l *Layer) Append(children ...*Layer) error {
	for _, c := range children {
		if err := l.Insert(len(l.children), c); err != nil {
			return err
		}
	}
	return nil
}

// Insert adds child at index i of the child list.
func (l *Layer) Insert(i int, child *Layer) error {
	if child == nil {
		return fmt.Errorf("%w: nil layer", ErrUsage)
	}
	if child == l || child.IsAncestorOf(l) {
		return fmt.Errorf("%w: layer %q cannot contain itself", ErrUsage, child.name)
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	i = max(0, min(i, len(l.children)))
	l.children = slices.Insert(l.children, i, child)
	child.parent = l
	return nil
}

// Remove detaches child. It reports whether child was a child of l.
func (l *Layer) Remove(child *Layer) bool {
	i := slices.Index(l.children, child)
	if i < 0 {
		return false
	}
	l.children = slices.Delete(l.children, i, i+1)
	child.parent = nil
	return true
}

// Copy returns a deep copy of the properties and children without a
// parent. Behavior and handlers are shared.
func (l *Layer) Copy() *Layer {
	c := &Layer{
		name:           l.name,
		values:         maps.Clone(l.values),
		tweens:         make(map[string]*tween, len(l.tweens)),
		duration:       l.duration,
		easing:         l.easing,
		clock:          l.clock,
		originX:        l.originX,
		originY:        l.originY,
		originRelative: l.originRelative,
		enabled:        l.enabled,
		hidden:         l.hidden,
		behavior:       l.behavior,
		handlers:       l.handlers,
	}
	if l.hitPath != nil {
		c.hitPath = l.hitPath.Copy()
	}
	for name, tw := range l.tweens {
		t := *tw
		c.tweens[name] = &t
	}
	for _, child := range l.children {
		cc := child.Copy()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Walk calls fn for l and every descendant in drawing order until fn
// returns false.
func (l *Layer) Walk(fn func(*Layer) bool) bool {
	if !fn(l) {
		return false
	}
	for _, child := range l.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// layerNode is the snapshot of a layer written by Dump.
type layerNode struct {
	Name     string
	X, Y     float64
	Width    float64
	Height   float64
	Scale    float64
	Rotation float64
	Opacity  float64
	Enabled  bool
	Tweening []string
	Children []*layerNode
}

func (l *Layer) snapshot() *layerNode {
	n := &layerNode{
		Name: l.name, X: l.X(), Y: l.Y(), Width: l.Width(), Height: l.Height(),
		Scale: l.Scale(), Rotation: l.Rotation(), Opacity: l.Opacity(),
		Enabled: l.enabled, Tweening: l.Tweening(),
	}
	for _, c := range l.children {
		n.Children = append(n.Children, c.snapshot())
	}
	return n
}

// Dump writes a graphviz rendering of the subtree to w.
func (l *Layer) Dump(w io.Writer) {
	memviz.Map(w, l.snapshot())
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%s, %g, %g, %g, %g)", l.name, l.X(), l.Y(), l.Width(), l.Height())
}
