package mobject

import (
	"fmt"
	"image"
	"math"

	"github.com/ivlev/scene2video/internal/canvas"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/math/f64"
)

// Picture displays a raster image. Draw progress wipes it in from the left.
type Picture struct {
	Base
	Image image.Image
	Width float64 // world units; height follows the aspect ratio
}

func NewPicture(img image.Image, center f64.Vec2, width float64) *Picture {
	p := &Picture{Image: img, Width: width}
	p.Base = *NewBase(DefaultState())
	p.SetCenter(center)
	return p
}

// Height returns the unscaled height in world units.
func (p *Picture) Height() float64 {
	b := p.Image.Bounds()
	if b.Dx() == 0 {
		return 0
	}
	return p.Width * float64(b.Dy()) / float64(b.Dx())
}

func (p *Picture) Draw(cv *canvas.Canvas, progress float64) {
	if cv == nil || p.Image == nil {
		return
	}
	cv.DrawImage(p.Image, p.center, p.Width*math.Abs(p.scale), p.rotation, p.opacity, progress)
}

func (p *Picture) Clone() Object {
	cp := *p
	return &cp
}

// QRCode renders content as a QR symbol. Draw progress reveals the dark
// modules in reading order.
type QRCode struct {
	Base
	Content string
	Module  float64 // side of one module in world units
	Dark    colorful.Color
	Light   colorful.Color
	bitmap  [][]bool
}

func NewQRCode(content string, center f64.Vec2, module float64) (*QRCode, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	code.DisableBorder = true

	q := &QRCode{
		Content: content,
		Module:  module,
		Dark:    colorful.Color{R: 0, G: 0, B: 0},
		Light:   colorful.Color{R: 1, G: 1, B: 1},
		bitmap:  code.Bitmap(),
	}
	q.Base = *NewBase(DefaultState())
	q.SetCenter(center)
	return q, nil
}

// Size returns the number of modules per side.
func (q *QRCode) Size() int {
	return len(q.bitmap)
}

// DarkModules counts the modules drawn in the dark color.
func (q *QRCode) DarkModules() int {
	n := 0
	for _, row := range q.bitmap {
		for _, dark := range row {
			if dark {
				n++
			}
		}
	}
	return n
}

func (q *QRCode) Draw(cv *canvas.Canvas, progress float64) {
	if cv == nil || progress <= 0 || len(q.bitmap) == 0 {
		return
	}
	size := float64(len(q.bitmap))
	half := size * q.Module / 2

	cv.FillPolygon(q.square(-half, half, size*q.Module), q.Light, q.opacity)

	visible := int(math.Ceil(float64(q.DarkModules()) * math.Min(progress, 1)))
	polys := make([][]f64.Vec2, 0, visible)
	for row, line := range q.bitmap {
		for col, dark := range line {
			if !dark {
				continue
			}
			if len(polys) == visible {
				break
			}
			x := -half + float64(col)*q.Module
			y := half - float64(row)*q.Module
			polys = append(polys, q.square(x, y, q.Module))
		}
	}
	cv.FillPolygons(polys, q.Dark, q.opacity)
}

// square returns a world-space square whose top-left local corner is (x, y).
func (q *QRCode) square(x, y, side float64) []f64.Vec2 {
	corners := []f64.Vec2{{x, y}, {x + side, y}, {x + side, y - side}, {x, y - side}}
	for i, c := range corners {
		corners[i] = Transform(c, q.center, q.scale, q.rotation)
	}
	return corners
}

func (q *QRCode) Clone() Object {
	cp := *q
	return &cp
}
