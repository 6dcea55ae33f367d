package animation

import (
	"math"

	"github.com/ivlev/scene2video/internal/easing"
	"github.com/ivlev/scene2video/internal/mobject"
	"golang.org/x/image/math/f64"
)

// MoveTo moves the target's center to an absolute position.
type MoveTo struct {
	base
	destination f64.Vec2
}

func NewMoveTo(target mobject.ID, destination f64.Vec2) *MoveTo {
	return &MoveTo{base: newBase(target), destination: destination}
}

func (a *MoveTo) WithDuration(secs float64) *MoveTo {
	a.setDuration(secs)
	return a
}

func (a *MoveTo) WithEasing(e easing.Easing) *MoveTo {
	a.easing = e
	return a
}

func (a *MoveTo) Destination() f64.Vec2 { return a.destination }

func (a *MoveTo) Apply(obj mobject.Transformable, from mobject.State, t float64) {
	obj.SetCenter(mobject.Lerp(from.Center, a.destination, a.eased(t)))
}

func (a *MoveTo) Clone() Animation {
	cp := *a
	return &cp
}

// Shift moves the target's center by a relative offset.
type Shift struct {
	base
	delta f64.Vec2
}

func NewShift(target mobject.ID, delta f64.Vec2) *Shift {
	return &Shift{base: newBase(target), delta: delta}
}

func (a *Shift) WithDuration(secs float64) *Shift {
	a.setDuration(secs)
	return a
}

func (a *Shift) WithEasing(e easing.Easing) *Shift {
	a.easing = e
	return a
}

func (a *Shift) Delta() f64.Vec2 { return a.delta }

func (a *Shift) Apply(obj mobject.Transformable, from mobject.State, t float64) {
	destination := mobject.Add(from.Center, a.delta)
	obj.SetCenter(mobject.Lerp(from.Center, destination, a.eased(t)))
}

func (a *Shift) Clone() Animation {
	cp := *a
	return &cp
}

// Scale multiplies the target's scale by factor.
type Scale struct {
	base
	factor float64
}

func NewScale(target mobject.ID, factor float64) *Scale {
	return &Scale{base: newBase(target), factor: factor}
}

func (a *Scale) WithDuration(secs float64) *Scale {
	a.setDuration(secs)
	return a
}

func (a *Scale) WithEasing(e easing.Easing) *Scale {
	a.easing = e
	return a
}

func (a *Scale) Factor() float64 { return a.factor }

func (a *Scale) Apply(obj mobject.Transformable, from mobject.State, t float64) {
	obj.SetScale(lerp(from.Scale, from.Scale*a.factor, a.eased(t)))
}

func (a *Scale) Clone() Animation {
	cp := *a
	return &cp
}

// Rotate turns the target counter-clockwise by angle radians.
type Rotate struct {
	base
	angle float64
}

func NewRotate(target mobject.ID, radians float64) *Rotate {
	return &Rotate{base: newBase(target), angle: radians}
}

func NewRotateDegrees(target mobject.ID, degrees float64) *Rotate {
	return NewRotate(target, degrees*math.Pi/180)
}

func (a *Rotate) WithDuration(secs float64) *Rotate {
	a.setDuration(secs)
	return a
}

func (a *Rotate) WithEasing(e easing.Easing) *Rotate {
	a.easing = e
	return a
}

func (a *Rotate) Angle() float64 { return a.angle }

func (a *Rotate) Apply(obj mobject.Transformable, from mobject.State, t float64) {
	obj.SetRotation(from.Rotation + a.angle*a.eased(t))
}

func (a *Rotate) Clone() Animation {
	cp := *a
	return &cp
}
