package sketch

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Easing maps elapsed time t of duration d to a value between b and b+c.
// The functions of github.com/tanema/gween/ease satisfy it.
type Easing = ease.TweenFunc

// DefaultEasing is the smooth cosine curve used when no easing is set.
var DefaultEasing Easing = ease.InOutSine

// tween animates one property from from to to.
type tween struct {
	from, to float64
	start    time.Time
	duration time.Duration
	easing   Easing
}

// at returns the value at now and whether the tween has finished. A
// finished tween returns to exactly.
func (tw *tween) at(now time.Time) (float64, bool) {
	elapsed := now.Sub(tw.start)
	if elapsed >= tw.duration || tw.duration <= 0 {
		return tw.to, true
	}
	if elapsed <= 0 {
		return tw.from, false
	}
	easing := tw.easing
	if easing == nil {
		easing = DefaultEasing
	}
	p := float64(easing(float32(elapsed.Seconds()), 0, 1, float32(tw.duration.Seconds())))
	p = clamp01(p)
	return tw.from + (tw.to-tw.from)*p, false
}
