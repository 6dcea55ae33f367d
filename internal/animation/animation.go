package animation

import (
	"github.com/ivlev/scene2video/internal/easing"
	"github.com/ivlev/scene2video/internal/mobject"
)

// DefaultDuration is used by every constructor
const DefaultDuration = 1.0

// Animation is one parameterized effect bound to a target object.
//
// Apply receives the raw time-normalized progress t in [0,1] and applies
// the animation's easing itself. from is the target state captured when the
// animation was scheduled, so Apply is a pure function of (from, t): calling
// it twice with the same arguments leaves the target in the same state.
type Animation interface {
	Target() mobject.ID
	Duration() float64
	Easing() easing.Easing
	Apply(obj mobject.Transformable, from mobject.State, t float64)
	Clone() Animation
}

// base holds the attributes common to every variant.
type base struct {
	target   mobject.ID
	duration float64
	easing   easing.Easing
}

func newBase(target mobject.ID) base {
	return base{target: target, duration: DefaultDuration, easing: easing.Smooth}
}

func (b *base) Target() mobject.ID     { return b.target }
func (b *base) Duration() float64      { return b.duration }
func (b *base) Easing() easing.Easing  { return b.easing }
func (b *base) setDuration(s float64)  { b.duration = clampDuration(s) }
func (b *base) eased(t float64) float64 { return b.easing.Apply(t) }

// clampDuration treats negative durations as instantaneous.
func clampDuration(secs float64) float64 {
	if secs < 0 {
		return 0
	}
	return secs
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
