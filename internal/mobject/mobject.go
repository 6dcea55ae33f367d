package mobject

import (
	"math"

	"github.com/ivlev/scene2video/internal/canvas"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
)

// ID addresses an object inside one scene. IDs are assigned by the scene
// registry, start at 1 and are never reused.
type ID uint64

// Transformable is the mutation contract animations work against.
type Transformable interface {
	Center() f64.Vec2
	SetCenter(f64.Vec2)
	Opacity() float64
	SetOpacity(float64)
	Scale() float64
	SetScale(float64)
	Rotation() float64
	Rotate(angle float64)
	SetRotation(angle float64)
}

// Object is anything that can be registered with a scene and drawn.
// progress in [0,1] is the timeline's draw progress; 0 draws nothing.
type Object interface {
	Transformable
	Draw(c *canvas.Canvas, progress float64)
	Clone() Object
}

// State is a snapshot of the animatable properties of an object.
type State struct {
	Center   f64.Vec2
	Opacity  float64
	Scale    float64
	Rotation float64
}

// DefaultState is a fully opaque, unscaled, unrotated object at the origin.
func DefaultState() State {
	return State{Opacity: 1.0, Scale: 1.0}
}

// Snapshot reads the animatable properties of t.
func Snapshot(t Transformable) State {
	return State{
		Center:   t.Center(),
		Opacity:  t.Opacity(),
		Scale:    t.Scale(),
		Rotation: t.Rotation(),
	}
}

// Restore writes s back onto t.
func (s State) Restore(t Transformable) {
	t.SetCenter(s.Center)
	t.SetOpacity(s.Opacity)
	t.SetScale(s.Scale)
	t.SetRotation(s.Rotation)
}

// Base carries the animatable properties and implements Transformable.
// Shapes embed it; on its own it serves as a scratch target for
// evaluating animations without a drawable object.
type Base struct {
	center   f64.Vec2
	opacity  float64
	scale    float64
	rotation float64
}

// NewBase starts from the given state.
func NewBase(s State) *Base {
	return &Base{center: s.Center, opacity: s.Opacity, scale: s.Scale, rotation: s.Rotation}
}

// State returns a snapshot of b.
func (b *Base) State() State {
	return State{Center: b.center, Opacity: b.opacity, Scale: b.scale, Rotation: b.rotation}
}

func (b *Base) Center() f64.Vec2      { return b.center }
func (b *Base) SetCenter(p f64.Vec2)  { b.center = p }
func (b *Base) Opacity() float64      { return b.opacity }
func (b *Base) SetOpacity(o float64)  { b.opacity = o }
func (b *Base) Scale() float64        { return b.scale }
func (b *Base) SetScale(f float64)    { b.scale = f }
func (b *Base) Rotation() float64     { return b.rotation }
func (b *Base) Rotate(angle float64)  { b.rotation += angle }
func (b *Base) SetRotation(a float64) { b.rotation = a }

// Style holds the colors shared by vector shapes.
type Style struct {
	Stroke      colorful.Color
	Fill        colorful.Color
	FillOpacity float64 // 0 disables the fill
	StrokeWidth float64
}

// DefaultStyle is a 2px white outline without fill.
func DefaultStyle() Style {
	return Style{
		Stroke:      colorful.Color{R: 1, G: 1, B: 1},
		StrokeWidth: 2.0,
	}
}

// Lerp interpolates between two points.
func Lerp(a, b f64.Vec2, t float64) f64.Vec2 {
	return f64.Vec2{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// Add returns a+b.
func Add(a, b f64.Vec2) f64.Vec2 {
	return f64.Vec2{a[0] + b[0], a[1] + b[1]}
}

// Transform maps a point given relative to the object center into world
// space: scale, then rotate counter-clockwise, then translate.
func Transform(local f64.Vec2, center f64.Vec2, scale, rotation float64) f64.Vec2 {
	sin, cos := math.Sincos(rotation)
	x, y := local[0]*scale, local[1]*scale
	return f64.Vec2{center[0] + x*cos - y*sin, center[1] + x*sin + y*cos}
}
