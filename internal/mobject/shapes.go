package mobject

import (
	"math"

	"github.com/ivlev/scene2video/internal/canvas"
	"golang.org/x/image/math/f64"
)

// circleResolution is the number of segments used to approximate a circle
const circleResolution = 64

// Circle is a circle outline with optional fill.
type Circle struct {
	Base
	Radius float64
	Style  Style
}

func NewCircle(center f64.Vec2, radius float64) *Circle {
	c := &Circle{Radius: radius, Style: DefaultStyle()}
	c.Base = *NewBase(DefaultState())
	c.SetCenter(center)
	return c
}

func (c *Circle) Draw(cv *canvas.Canvas, progress float64) {
	pts := make([]f64.Vec2, circleResolution)
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / circleResolution
		pts[i] = f64.Vec2{c.Radius * math.Cos(angle), c.Radius * math.Sin(angle)}
	}
	c.drawOutline(cv, c.Style, pts, true, progress)
}

func (c *Circle) Clone() Object {
	cp := *c
	return &cp
}

// Rectangle is an axis-aligned (before rotation) rectangle.
type Rectangle struct {
	Base
	Width  float64
	Height float64
	Style  Style
}

func NewRectangle(center f64.Vec2, width, height float64) *Rectangle {
	r := &Rectangle{Width: width, Height: height, Style: DefaultStyle()}
	r.Base = *NewBase(DefaultState())
	r.SetCenter(center)
	return r
}

func (r *Rectangle) Draw(cv *canvas.Canvas, progress float64) {
	hw, hh := r.Width/2, r.Height/2
	pts := []f64.Vec2{{-hw, hh}, {hw, hh}, {hw, -hh}, {-hw, -hh}}
	r.drawOutline(cv, r.Style, pts, true, progress)
}

func (r *Rectangle) Clone() Object {
	cp := *r
	return &cp
}

// Line is a straight segment. Its center is the midpoint.
type Line struct {
	Base
	half  f64.Vec2
	Style Style
}

func NewLine(from, to f64.Vec2) *Line {
	l := &Line{Style: DefaultStyle()}
	l.Base = *NewBase(DefaultState())
	l.SetCenter(Lerp(from, to, 0.5))
	l.half = f64.Vec2{(to[0] - from[0]) / 2, (to[1] - from[1]) / 2}
	return l
}

// Endpoints returns the current world-space endpoints.
func (l *Line) Endpoints() (f64.Vec2, f64.Vec2) {
	from := Transform(f64.Vec2{-l.half[0], -l.half[1]}, l.Center(), l.Scale(), l.Rotation())
	to := Transform(l.half, l.Center(), l.Scale(), l.Rotation())
	return from, to
}

func (l *Line) Draw(cv *canvas.Canvas, progress float64) {
	pts := []f64.Vec2{{-l.half[0], -l.half[1]}, l.half}
	l.drawOutline(cv, l.Style, pts, false, progress)
}

func (l *Line) Clone() Object {
	cp := *l
	return &cp
}

// Polyline is an open or closed path through arbitrary points, used for
// plotted curves.
type Polyline struct {
	Base
	local  []f64.Vec2
	Closed bool
	Style  Style
}

// NewPolyline centers the path on the mean of its points.
func NewPolyline(points []f64.Vec2, closed bool) *Polyline {
	p := &Polyline{Closed: closed, Style: DefaultStyle()}
	p.Base = *NewBase(DefaultState())

	var center f64.Vec2
	for _, pt := range points {
		center[0] += pt[0]
		center[1] += pt[1]
	}
	if len(points) > 0 {
		center[0] /= float64(len(points))
		center[1] /= float64(len(points))
	}
	p.SetCenter(center)

	p.local = make([]f64.Vec2, len(points))
	for i, pt := range points {
		p.local[i] = f64.Vec2{pt[0] - center[0], pt[1] - center[1]}
	}
	return p
}

func (p *Polyline) Draw(cv *canvas.Canvas, progress float64) {
	p.drawOutline(cv, p.Style, p.local, p.Closed, progress)
}

func (p *Polyline) Clone() Object {
	cp := *p
	cp.local = append([]f64.Vec2(nil), p.local...)
	return &cp
}

// drawOutline fills (closed shapes only, once progress > 0) and strokes the
// outline up to progress of its total length.
func (b *Base) drawOutline(cv *canvas.Canvas, style Style, local []f64.Vec2, closed bool, progress float64) {
	if cv == nil || progress <= 0 || len(local) < 2 {
		return
	}
	world := make([]f64.Vec2, len(local))
	for i, pt := range local {
		world[i] = Transform(pt, b.center, b.scale, b.rotation)
	}

	if closed && style.FillOpacity > 0 && len(world) >= 3 {
		cv.FillPolygon(world, style.Fill, style.FillOpacity*b.opacity)
	}

	width := style.StrokeWidth * math.Abs(b.scale)
	if progress >= 1 {
		cv.StrokePolyline(world, width, style.Stroke, b.opacity, closed)
		return
	}
	cv.StrokePolyline(Partial(world, closed, progress), width, style.Stroke, b.opacity, false)
}

// Partial returns the prefix of a path covering progress of its length.
// Closed paths include the closing segment.
func Partial(pts []f64.Vec2, closed bool, progress float64) []f64.Vec2 {
	if len(pts) < 2 {
		return pts
	}
	path := pts
	if closed {
		path = append(append([]f64.Vec2(nil), pts...), pts[0])
	}
	if progress >= 1 {
		return path
	}
	if progress <= 0 {
		return path[:1]
	}

	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += dist(path[i], path[i+1])
	}
	remaining := total * progress

	out := []f64.Vec2{path[0]}
	for i := 0; i+1 < len(path); i++ {
		seg := dist(path[i], path[i+1])
		if seg >= remaining {
			if seg > 0 {
				out = append(out, Lerp(path[i], path[i+1], remaining/seg))
			}
			return out
		}
		remaining -= seg
		out = append(out, path[i+1])
	}
	return out
}

func dist(a, b f64.Vec2) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}
