package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
)

func newCanvas(w, h int) *Canvas {
	return New(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func TestToScreen(t *testing.T) {
	c := newCanvas(200, 100)

	tests := []struct {
		name   string
		camera f64.Vec2
		zoom   float64
		in     f64.Vec2
		wantX  float64
		wantY  float64
	}{
		{"origin", f64.Vec2{}, 1, f64.Vec2{0, 0}, 100, 50},
		{"y up", f64.Vec2{}, 1, f64.Vec2{10, 20}, 110, 30},
		{"zoom", f64.Vec2{}, 2, f64.Vec2{10, 10}, 120, 30},
		{"camera", f64.Vec2{10, 0}, 1, f64.Vec2{10, 0}, 100, 50},
		{"bad zoom", f64.Vec2{}, 0, f64.Vec2{5, 0}, 105, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetView(tt.camera, tt.zoom)
			x, y := c.ToScreen(tt.in)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("ToScreen(%v) = (%.1f, %.1f), want (%.1f, %.1f)", tt.in, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestClear(t *testing.T) {
	c := newCanvas(4, 4)
	c.Clear(colorful.Color{R: 1, G: 0, B: 0})

	got := c.Image().RGBAAt(2, 2)
	if got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected opaque red, got %v", got)
	}
}

func TestFillPolygon(t *testing.T) {
	c := newCanvas(100, 100)
	c.Clear(colorful.Color{})

	square := []f64.Vec2{{-20, -20}, {20, -20}, {20, 20}, {-20, 20}}
	c.FillPolygon(square, colorful.Color{R: 1, G: 1, B: 1}, 1.0)

	if got := c.Image().RGBAAt(50, 50); got.R != 255 {
		t.Errorf("expected center filled white, got %v", got)
	}
	if got := c.Image().RGBAAt(5, 5); got.R != 0 {
		t.Errorf("expected corner untouched, got %v", got)
	}
}

func TestFillPolygonZeroAlphaIsNoop(t *testing.T) {
	c := newCanvas(20, 20)
	square := []f64.Vec2{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}}
	c.FillPolygon(square, colorful.Color{R: 1}, 0)

	if got := c.Image().RGBAAt(10, 10); got.A != 0 {
		t.Errorf("expected transparent pixel, got %v", got)
	}
}

func TestStrokePolyline(t *testing.T) {
	c := newCanvas(100, 100)
	c.Clear(colorful.Color{})

	line := []f64.Vec2{{-40, 0}, {40, 0}}
	c.StrokePolyline(line, 4, colorful.Color{G: 1}, 1.0, false)

	if got := c.Image().RGBAAt(50, 50); got.G < 200 {
		t.Errorf("expected stroke on the x axis, got %v", got)
	}
	if got := c.Image().RGBAAt(50, 40); got.G != 0 {
		t.Errorf("expected pixel above stroke to be untouched, got %v", got)
	}
}

func TestDrawImageReveal(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			src.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
		}
	}

	c := newCanvas(40, 40)
	c.Clear(colorful.Color{})
	c.DrawImage(src, f64.Vec2{}, 20, 0, 1.0, 0.5)

	if got := c.Image().RGBAAt(13, 20); got.B < 200 {
		t.Errorf("expected left half drawn, got %v", got)
	}
	if got := c.Image().RGBAAt(27, 20); got.B != 0 {
		t.Errorf("expected right half hidden, got %v", got)
	}
}
