package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// discSegments is the polygon resolution used for round stroke joins
const discSegments = 12

// Canvas is a raster surface addressed in world coordinates:
// origin at the screen center, y pointing up, one unit per pixel at zoom 1.
type Canvas struct {
	img    *image.RGBA
	raster *vector.Rasterizer
	camera f64.Vec2
	zoom   float64
}

// New wraps an RGBA image. The image is drawn into in place.
func New(img *image.RGBA) *Canvas {
	b := img.Bounds()
	return &Canvas{
		img:    img,
		raster: vector.NewRasterizer(b.Dx(), b.Dy()),
		zoom:   1.0,
	}
}

// Image returns the underlying surface.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// SetView positions the camera. Non-positive zoom falls back to 1.
func (c *Canvas) SetView(position f64.Vec2, zoom float64) {
	if zoom <= 0 {
		zoom = 1.0
	}
	c.camera = position
	c.zoom = zoom
}

// Zoom returns pixels per world unit.
func (c *Canvas) Zoom() float64 {
	return c.zoom
}

// Clear fills the whole surface with an opaque color.
func (c *Canvas) Clear(col colorful.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(toNRGBA(col, 1.0)), image.Point{}, xdraw.Src)
}

// ToScreen maps a world point to pixel coordinates.
func (c *Canvas) ToScreen(p f64.Vec2) (float64, float64) {
	b := c.img.Bounds()
	x := float64(b.Dx())/2 + (p[0]-c.camera[0])*c.zoom
	y := float64(b.Dy())/2 - (p[1]-c.camera[1])*c.zoom
	return x, y
}

// FillPolygon fills a closed polygon given in world coordinates.
func (c *Canvas) FillPolygon(points []f64.Vec2, col colorful.Color, alpha float64) {
	c.FillPolygons([][]f64.Vec2{points}, col, alpha)
}

// FillPolygons fills several polygons in one pass so overlaps do not
// accumulate alpha.
func (c *Canvas) FillPolygons(polys [][]f64.Vec2, col colorful.Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	c.begin()
	drawn := false
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		c.path(poly)
		drawn = true
	}
	if drawn {
		c.flush(col, alpha)
	}
}

// StrokePolyline strokes a world-space polyline with round joins.
// width is in world units.
func (c *Canvas) StrokePolyline(points []f64.Vec2, width float64, col colorful.Color, alpha float64, closed bool) {
	if alpha <= 0 || width <= 0 || len(points) < 2 {
		return
	}
	pts := make([]f64.Vec2, 0, len(points)+1)
	for _, p := range points {
		x, y := c.ToScreen(p)
		pts = append(pts, f64.Vec2{x, y})
	}
	if closed {
		pts = append(pts, pts[0])
	}

	half := width * c.zoom / 2
	c.begin()
	for i := 0; i+1 < len(pts); i++ {
		c.segment(pts[i], pts[i+1], half)
	}
	for _, p := range pts {
		c.disc(p, half)
	}
	c.flush(col, alpha)
}

// DrawImage draws src centered at a world point. width is the target width
// in world units; rotation is counter-clockwise in radians. reveal in [0,1]
// crops src from the left edge.
func (c *Canvas) DrawImage(src image.Image, center f64.Vec2, width, rotation, alpha, reveal float64) {
	if alpha <= 0 || reveal <= 0 || width <= 0 {
		return
	}
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	if reveal > 1 {
		reveal = 1
	}

	s := width * c.zoom / float64(sb.Dx())
	cx, cy := c.ToScreen(center)
	sin, cos := math.Sincos(rotation)
	a, b := s*cos, s*sin
	d, e := -s*sin, s*cos
	hw, hh := float64(sb.Dx())/2, float64(sb.Dy())/2
	// source pixel (u, v) relative to sb.Min maps to screen
	m := f64.Aff3{
		a, b, cx - a*(hw+float64(sb.Min.X)) - b*(hh+float64(sb.Min.Y)),
		d, e, cy - d*(hw+float64(sb.Min.X)) - e*(hh+float64(sb.Min.Y)),
	}

	sr := sb
	sr.Max.X = sb.Min.X + int(math.Ceil(float64(sb.Dx())*reveal))

	var opts *xdraw.Options
	if alpha < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})}
	}
	xdraw.BiLinear.Transform(c.img, m, src, sr, xdraw.Over, opts)
}

func (c *Canvas) begin() {
	b := c.img.Bounds()
	c.raster.Reset(b.Dx(), b.Dy())
	c.raster.DrawOp = xdraw.Over
}

func (c *Canvas) flush(col colorful.Color, alpha float64) {
	c.raster.Draw(c.img, c.img.Bounds(), image.NewUniform(toNRGBA(col, alpha)), image.Point{})
}

// path adds a world-space polygon. Orientation is normalized so that
// overlapping subpaths never cancel out.
func (c *Canvas) path(poly []f64.Vec2) {
	pts := make([]f64.Vec2, len(poly))
	for i, p := range poly {
		x, y := c.ToScreen(p)
		pts[i] = f64.Vec2{x, y}
	}
	if signedArea(pts) > 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	c.screenPath(pts)
}

func (c *Canvas) screenPath(pts []f64.Vec2) {
	c.raster.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		c.raster.LineTo(float32(p[0]), float32(p[1]))
	}
	c.raster.ClosePath()
}

// segment adds a screen-space quad of half-width h around p0→p1.
func (c *Canvas) segment(p0, p1 f64.Vec2, h float64) {
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*h, dx/l*h
	quad := []f64.Vec2{
		{p0[0] + nx, p0[1] + ny},
		{p1[0] + nx, p1[1] + ny},
		{p1[0] - nx, p1[1] - ny},
		{p0[0] - nx, p0[1] - ny},
	}
	if signedArea(quad) > 0 {
		quad[0], quad[3] = quad[3], quad[0]
		quad[1], quad[2] = quad[2], quad[1]
	}
	c.screenPath(quad)
}

// disc adds a screen-space round join.
func (c *Canvas) disc(p f64.Vec2, r float64) {
	if r < 0.5 {
		return
	}
	pts := make([]f64.Vec2, discSegments)
	for i := range pts {
		// clockwise in screen space, same winding as segment quads
		angle := -2 * math.Pi * float64(i) / discSegments
		pts[i] = f64.Vec2{p[0] + r*math.Cos(angle), p[1] + r*math.Sin(angle)}
	}
	c.screenPath(pts)
}

func signedArea(pts []f64.Vec2) float64 {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return area / 2
}

func toNRGBA(col colorful.Color, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	r, g, b := col.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}
