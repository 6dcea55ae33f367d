package scenario

import (
	"fmt"

	"github.com/ivlev/scene2video/internal/easing"
	"golang.org/x/image/math/f64"
	"gopkg.in/yaml.v3"
)

// Scenario is a complete video description: render settings plus a list of
// scenes played one after another.
type Scenario struct {
	Version    string      `yaml:"version"`
	Width      int         `yaml:"width,omitempty"`
	Height     int         `yaml:"height,omitempty"`
	FPS        int         `yaml:"fps,omitempty"`
	Transition string      `yaml:"transition,omitempty"` // xfade transition between scenes, "none" to cut
	Fade       float64     `yaml:"fade,omitempty"`       // transition length in seconds
	Scenes     []SceneSpec `yaml:"scenes"`

	// Dir is the directory relative asset paths are resolved against.
	Dir string `yaml:"-"`
}

// SceneSpec describes one scene.
type SceneSpec struct {
	Name       string       `yaml:"name"`
	Background string       `yaml:"background,omitempty"` // hex color
	Camera     *CameraSpec  `yaml:"camera,omitempty"`
	Hold       float64      `yaml:"hold,omitempty"` // pause after the last animation, seconds
	Objects    []ObjectSpec `yaml:"objects"`
	Timeline   []StepSpec   `yaml:"timeline"`
}

type CameraSpec struct {
	Position Point   `yaml:"position"`
	Zoom     float64 `yaml:"zoom,omitempty"`
}

// ObjectSpec declares a drawable. Which fields apply depends on Kind.
type ObjectSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // circle, rectangle, line, polyline, picture, qrcode
	At   Point  `yaml:"at,omitempty"`

	Radius float64  `yaml:"radius,omitempty"`
	Width  float64  `yaml:"width,omitempty"`
	Height float64  `yaml:"height,omitempty"`
	From   *Point   `yaml:"from,omitempty"`
	To     *Point   `yaml:"to,omitempty"`
	Points []Point  `yaml:"points,omitempty"`
	Closed bool     `yaml:"closed,omitempty"`
	Source string   `yaml:"source,omitempty"` // picture: image or PDF path
	Page   int      `yaml:"page,omitempty"`   // picture: page index, from 0
	DPI    int      `yaml:"dpi,omitempty"`
	Text   string   `yaml:"text,omitempty"`   // qrcode content
	Module float64  `yaml:"module,omitempty"` // qrcode module size

	Stroke      string   `yaml:"stroke,omitempty"`
	Fill        string   `yaml:"fill,omitempty"`
	FillOpacity float64  `yaml:"fill_opacity,omitempty"`
	StrokeWidth *float64 `yaml:"stroke_width,omitempty"`
	Opacity     *float64 `yaml:"opacity,omitempty"`
	Scale       *float64 `yaml:"scale,omitempty"`
	Rotation    float64  `yaml:"rotation,omitempty"` // degrees
}

// StepSpec is one timeline instruction: exactly one of Play, Wait or
// Together is set.
type StepSpec struct {
	Play     *AnimationSpec  `yaml:"play,omitempty"`
	Wait     *float64        `yaml:"wait,omitempty"`
	Together []AnimationSpec `yaml:"together,omitempty"`
}

type AnimationSpec struct {
	Type     string        `yaml:"type"`
	Target   string        `yaml:"target"`
	Duration *float64      `yaml:"duration,omitempty"`
	Easing   easing.Easing `yaml:"easing,omitempty"`
	To       *Point        `yaml:"to,omitempty"`     // move_to
	By       *Point        `yaml:"by,omitempty"`     // shift
	Factor   *float64      `yaml:"factor,omitempty"` // scale
	Angle    float64       `yaml:"angle,omitempty"`  // rotate, degrees
}

// Point is written as a two-element sequence: [x, y].
type Point [2]float64

func (p Point) Vec() f64.Vec2 {
	return f64.Vec2{p[0], p[1]}
}

func (p Point) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range p {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)})
	}
	return node, nil
}

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []float64
	if err := value.Decode(&xy); err != nil {
		return fmt.Errorf("line %d: point must be [x, y]: %w", value.Line, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point must have 2 coordinates, got %d", value.Line, len(xy))
	}
	p[0], p[1] = xy[0], xy[1]
	return nil
}

// IsZero lets omitempty drop the origin.
func (p Point) IsZero() bool {
	return p[0] == 0 && p[1] == 0
}

func (s StepSpec) kinds() int {
	n := 0
	if s.Play != nil {
		n++
	}
	if s.Wait != nil {
		n++
	}
	if len(s.Together) > 0 {
		n++
	}
	return n
}

// Validate checks the structure of the document. Semantic errors such as an
// unknown animation target are reported by Build.
func (sc *Scenario) Validate() error {
	if sc.Width < 0 || sc.Height < 0 || sc.FPS < 0 {
		return fmt.Errorf("width, height and fps must not be negative")
	}
	if sc.Fade < 0 {
		return fmt.Errorf("fade must not be negative")
	}
	if len(sc.Scenes) == 0 {
		return fmt.Errorf("scenario has no scenes")
	}
	for i, s := range sc.Scenes {
		if err := s.validate(); err != nil {
			return fmt.Errorf("scene %d (%s): %w", i+1, s.Name, err)
		}
	}
	return nil
}

func (s *SceneSpec) validate() error {
	if s.Hold < 0 {
		return fmt.Errorf("hold must not be negative")
	}
	names := make(map[string]bool)
	for _, o := range s.Objects {
		if o.Name == "" {
			return fmt.Errorf("object of kind %q has no name", o.Kind)
		}
		if names[o.Name] {
			return fmt.Errorf("duplicate object name %q", o.Name)
		}
		names[o.Name] = true
	}
	for i, step := range s.Timeline {
		if step.kinds() != 1 {
			return fmt.Errorf("timeline step %d: exactly one of play, wait, together is required", i+1)
		}
	}
	return nil
}
