package easing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
	"gopkg.in/yaml.v3"
)

// Easing remaps normalized time in [0,1] to eased progress.
// The zero value is Smooth, the default curve of every animation.
type Easing int

const (
	// Smooth is a Hermite smoothstep, symmetric around 0.5
	Smooth Easing = iota
	Linear
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InSine
	OutSine
	InOutSine
	InExpo
	OutExpo
	InCirc
	OutCirc
	// OutBack overshoots past 1 before settling
	OutBack
	// OutBounce bounces against 1 before settling
	OutBounce
)

var curves = map[Easing]func(float64) float64{
	Smooth:     smoothstep,
	Linear:     ease.Linear,
	InQuad:     ease.InQuad,
	OutQuad:    ease.OutQuad,
	InOutQuad:  ease.InOutQuad,
	InCubic:    ease.InCubic,
	OutCubic:   ease.OutCubic,
	InOutCubic: ease.InOutCubic,
	InQuart:    ease.InQuart,
	OutQuart:   ease.OutQuart,
	InOutQuart: ease.InOutQuart,
	InSine:     ease.InSine,
	OutSine:    ease.OutSine,
	InOutSine:  ease.InOutSine,
	InExpo:     ease.InExpo,
	OutExpo:    ease.OutExpo,
	InCirc:     ease.InCirc,
	OutCirc:    ease.OutCirc,
	OutBack:    ease.OutBack,
	OutBounce:  ease.OutBounce,
}

var names = map[Easing]string{
	Smooth:     "smooth",
	Linear:     "linear",
	InQuad:     "ease_in_quad",
	OutQuad:    "ease_out_quad",
	InOutQuad:  "ease_in_out_quad",
	InCubic:    "ease_in_cubic",
	OutCubic:   "ease_out_cubic",
	InOutCubic: "ease_in_out_cubic",
	InQuart:    "ease_in_quart",
	OutQuart:   "ease_out_quart",
	InOutQuart: "ease_in_out_quart",
	InSine:     "ease_in_sine",
	OutSine:    "ease_out_sine",
	InOutSine:  "ease_in_out_sine",
	InExpo:     "ease_in_expo",
	OutExpo:    "ease_out_expo",
	InCirc:     "ease_in_circ",
	OutCirc:    "ease_out_circ",
	OutBack:    "ease_out_back",
	OutBounce:  "ease_out_bounce",
}

// All returns every variant in declaration order.
func All() []Easing {
	all := make([]Easing, 0, len(curves))
	for e := range curves {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Apply clamps t to [0,1] and evaluates the curve. NaN maps to 0.
// Both endpoints are exact for every variant; only OutBack and OutBounce
// may leave [0,1] in between.
func (e Easing) Apply(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	if t >= 1 {
		return 1
	}
	f, ok := curves[e]
	if !ok {
		f = smoothstep
	}
	return f(t)
}

// Overshoots reports whether the curve may leave [0,1] inside the interval.
func (e Easing) Overshoots() bool {
	return e == OutBack || e == OutBounce
}

func (e Easing) String() string {
	if n, ok := names[e]; ok {
		return n
	}
	return fmt.Sprintf("easing(%d)", int(e))
}

// Parse resolves a curve by name. Names are case-insensitive and accept
// either "ease_in_quad" or "ease-in-quad".
func Parse(name string) (Easing, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if key == "" {
		return Smooth, nil
	}
	for e, n := range names {
		if n == key {
			return e, nil
		}
	}
	return Smooth, fmt.Errorf("unknown easing %q", name)
}

func (e Easing) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

func (e *Easing) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
