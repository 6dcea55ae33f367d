package scenario

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/ivlev/scene2video/internal/animation"
	"github.com/ivlev/scene2video/internal/mobject"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/source"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
)

// ImageLoader renders one page of an image or PDF file.
type ImageLoader func(path string, page, dpi int) (image.Image, error)

// FileLoader loads pictures through the source package, resolving relative
// paths against dir.
func FileLoader(dir string) ImageLoader {
	return func(path string, page, dpi int) (image.Image, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return source.LoadPage(path, page, dpi)
	}
}

// Build turns every scene description into a scene.
func (sc *Scenario) Build(load ImageLoader) ([]*scene.Scene, error) {
	scenes := make([]*scene.Scene, 0, len(sc.Scenes))
	for i := range sc.Scenes {
		s, err := sc.Scenes[i].Build(load)
		if err != nil {
			return nil, fmt.Errorf("scene %d (%s): %w", i+1, sc.Scenes[i].Name, err)
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// Build registers the objects and schedules the timeline. load may be nil
// when the scene has no pictures.
func (s *SceneSpec) Build(load ImageLoader) (*scene.Scene, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	sc := scene.New()
	if s.Background != "" {
		bg, err := parseColor(s.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		sc.SetBackground(bg)
	}
	if s.Camera != nil {
		sc.SetCamera(scene.Camera{Position: s.Camera.Position.Vec(), Zoom: s.Camera.Zoom})
	}

	ids := make(map[string]mobject.ID, len(s.Objects))
	for _, spec := range s.Objects {
		obj, err := spec.build(load)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", spec.Name, err)
		}
		ids[spec.Name] = sc.Register(obj)
	}

	for i, step := range s.Timeline {
		switch {
		case step.Wait != nil:
			sc.Wait(*step.Wait)
		case step.Play != nil:
			a, err := step.Play.build(ids)
			if err != nil {
				return nil, fmt.Errorf("timeline step %d: %w", i+1, err)
			}
			sc.Play(a)
		default:
			group := make([]animation.Animation, 0, len(step.Together))
			for _, spec := range step.Together {
				a, err := spec.build(ids)
				if err != nil {
					return nil, fmt.Errorf("timeline step %d: %w", i+1, err)
				}
				group = append(group, a)
			}
			sc.PlayTogether(group...)
		}
	}
	return sc, nil
}

func (o *ObjectSpec) build(load ImageLoader) (mobject.Object, error) {
	var obj mobject.Object
	var style *mobject.Style

	switch strings.ToLower(o.Kind) {
	case "circle":
		if o.Radius <= 0 {
			return nil, fmt.Errorf("circle needs a positive radius")
		}
		c := mobject.NewCircle(o.At.Vec(), o.Radius)
		obj, style = c, &c.Style
	case "rectangle", "rect":
		if o.Width <= 0 || o.Height <= 0 {
			return nil, fmt.Errorf("rectangle needs positive width and height")
		}
		r := mobject.NewRectangle(o.At.Vec(), o.Width, o.Height)
		obj, style = r, &r.Style
	case "line":
		if o.From == nil || o.To == nil {
			return nil, fmt.Errorf("line needs from and to")
		}
		l := mobject.NewLine(o.From.Vec(), o.To.Vec())
		obj, style = l, &l.Style
	case "polyline", "curve":
		if len(o.Points) < 2 {
			return nil, fmt.Errorf("polyline needs at least 2 points")
		}
		pts := make([]f64.Vec2, len(o.Points))
		for i, p := range o.Points {
			pts[i] = p.Vec()
		}
		p := mobject.NewPolyline(pts, o.Closed)
		obj, style = p, &p.Style
	case "picture", "image":
		if o.Source == "" {
			return nil, fmt.Errorf("picture needs a source")
		}
		if load == nil {
			return nil, fmt.Errorf("no image loader for %s", o.Source)
		}
		img, err := load(o.Source, o.Page, o.DPI)
		if err != nil {
			return nil, err
		}
		width := o.Width
		if width <= 0 {
			width = float64(img.Bounds().Dx())
		}
		obj = mobject.NewPicture(img, o.At.Vec(), width)
	case "qrcode", "qr":
		module := o.Module
		if module <= 0 {
			module = 8
		}
		q, err := mobject.NewQRCode(o.Text, o.At.Vec(), module)
		if err != nil {
			return nil, err
		}
		if o.Stroke != "" {
			if q.Dark, err = parseColor(o.Stroke); err != nil {
				return nil, fmt.Errorf("stroke: %w", err)
			}
		}
		if o.Fill != "" {
			if q.Light, err = parseColor(o.Fill); err != nil {
				return nil, fmt.Errorf("fill: %w", err)
			}
		}
		obj = q
	default:
		return nil, fmt.Errorf("unknown kind %q", o.Kind)
	}

	if style != nil {
		if err := o.applyStyle(style); err != nil {
			return nil, err
		}
	}
	if o.Opacity != nil {
		obj.SetOpacity(*o.Opacity)
	}
	if o.Scale != nil {
		obj.SetScale(*o.Scale)
	}
	obj.SetRotation(o.Rotation * math.Pi / 180)
	return obj, nil
}

func (o *ObjectSpec) applyStyle(style *mobject.Style) error {
	var err error
	if o.Stroke != "" {
		if style.Stroke, err = parseColor(o.Stroke); err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
	}
	if o.Fill != "" {
		if style.Fill, err = parseColor(o.Fill); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		style.FillOpacity = 1
	}
	if o.FillOpacity > 0 {
		style.FillOpacity = o.FillOpacity
	}
	if o.StrokeWidth != nil {
		style.StrokeWidth = *o.StrokeWidth
	}
	return nil
}

func (a *AnimationSpec) build(ids map[string]mobject.ID) (animation.Animation, error) {
	id, ok := ids[a.Target]
	if !ok {
		return nil, fmt.Errorf("%s: unknown target %q", a.Type, a.Target)
	}
	duration := animation.DefaultDuration
	if a.Duration != nil {
		duration = *a.Duration
	}

	switch strings.ToLower(a.Type) {
	case "fade_in":
		return animation.NewFadeIn(id).WithDuration(duration).WithEasing(a.Easing), nil
	case "fade_out":
		return animation.NewFadeOut(id).WithDuration(duration).WithEasing(a.Easing), nil
	case "create":
		return animation.NewCreate(id).WithDuration(duration).WithEasing(a.Easing), nil
	case "uncreate":
		return animation.NewUncreate(id).WithDuration(duration).WithEasing(a.Easing), nil
	case "move_to":
		if a.To == nil {
			return nil, fmt.Errorf("move_to %s: missing to", a.Target)
		}
		return animation.NewMoveTo(id, a.To.Vec()).WithDuration(duration).WithEasing(a.Easing), nil
	case "shift":
		if a.By == nil {
			return nil, fmt.Errorf("shift %s: missing by", a.Target)
		}
		return animation.NewShift(id, a.By.Vec()).WithDuration(duration).WithEasing(a.Easing), nil
	case "scale":
		if a.Factor == nil {
			return nil, fmt.Errorf("scale %s: missing factor", a.Target)
		}
		return animation.NewScale(id, *a.Factor).WithDuration(duration).WithEasing(a.Easing), nil
	case "rotate":
		return animation.NewRotateDegrees(id, a.Angle).WithDuration(duration).WithEasing(a.Easing), nil
	default:
		return nil, fmt.Errorf("unknown animation type %q", a.Type)
	}
}

func parseColor(s string) (colorful.Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	return c, nil
}
