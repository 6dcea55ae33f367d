package animation

import (
	"math"
	"testing"

	"github.com/ivlev/scene2video/internal/easing"
	"github.com/ivlev/scene2video/internal/mobject"
	"golang.org/x/image/math/f64"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDefaults(t *testing.T) {
	animations := []Animation{
		NewFadeIn(1), NewFadeOut(1), NewCreate(1), NewUncreate(1),
		NewMoveTo(1, f64.Vec2{}), NewShift(1, f64.Vec2{}), NewScale(1, 2), NewRotate(1, 1),
	}
	for _, a := range animations {
		if a.Duration() != DefaultDuration {
			t.Errorf("%T: expected default duration %f, got %f", a, DefaultDuration, a.Duration())
		}
		if a.Easing() != easing.Smooth {
			t.Errorf("%T: expected smooth easing, got %s", a, a.Easing())
		}
		if a.Target() != 1 {
			t.Errorf("%T: expected target 1, got %d", a, a.Target())
		}
	}
}

func TestNegativeDurationIsInstantaneous(t *testing.T) {
	a := NewFadeIn(1).WithDuration(-3)
	if a.Duration() != 0 {
		t.Errorf("expected negative duration clamped to 0, got %f", a.Duration())
	}
}

func TestFade(t *testing.T) {
	obj := mobject.NewBase(mobject.DefaultState())
	from := mobject.DefaultState()

	in := NewFadeIn(1).WithEasing(easing.Linear)
	in.Apply(obj, from, 0.25)
	if !near(obj.Opacity(), 0.25) {
		t.Errorf("FadeIn at 0.25: opacity %f", obj.Opacity())
	}

	out := NewFadeOut(1).WithEasing(easing.Linear)
	out.Apply(obj, from, 0.25)
	if !near(obj.Opacity(), 0.75) {
		t.Errorf("FadeOut at 0.25: opacity %f", obj.Opacity())
	}

	// progress outside [0,1] is clamped by the easing layer
	in.Apply(obj, from, 7)
	if obj.Opacity() != 1 {
		t.Errorf("FadeIn past the end: opacity %f", obj.Opacity())
	}
}

func TestMoveToAndShift(t *testing.T) {
	from := mobject.DefaultState()
	from.Center = f64.Vec2{10, 0}

	tests := []struct {
		name string
		a    Animation
		t    float64
		want f64.Vec2
	}{
		{"move start", NewMoveTo(1, f64.Vec2{20, 10}).WithEasing(easing.Linear), 0, f64.Vec2{10, 0}},
		{"move half", NewMoveTo(1, f64.Vec2{20, 10}).WithEasing(easing.Linear), 0.5, f64.Vec2{15, 5}},
		{"move end", NewMoveTo(1, f64.Vec2{20, 10}), 1, f64.Vec2{20, 10}},
		{"shift half", NewShift(1, f64.Vec2{0, -4}).WithEasing(easing.Linear), 0.5, f64.Vec2{10, -2}},
		{"shift end", NewShift(1, f64.Vec2{0, -4}), 1, f64.Vec2{10, -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := mobject.NewBase(mobject.DefaultState())
			obj.SetCenter(f64.Vec2{-99, -99}) // current position must not matter
			tt.a.Apply(obj, from, tt.t)
			got := obj.Center()
			if !near(got[0], tt.want[0]) || !near(got[1], tt.want[1]) {
				t.Errorf("center = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	from := mobject.DefaultState()
	shift := NewShift(1, f64.Vec2{5, 0})
	obj := mobject.NewBase(from)

	shift.Apply(obj, from, 0.6)
	first := obj.State()
	shift.Apply(obj, from, 0.6)
	shift.Apply(obj, from, 0.6)
	if obj.State() != first {
		t.Errorf("repeated Apply drifted: %+v vs %+v", obj.State(), first)
	}
}

func TestScaleAndRotate(t *testing.T) {
	from := mobject.DefaultState()
	from.Scale = 2
	from.Rotation = 1

	obj := mobject.NewBase(from)
	NewScale(1, 3).WithEasing(easing.Linear).Apply(obj, from, 0.5)
	if !near(obj.Scale(), 4) {
		t.Errorf("expected scale 4 halfway from 2 to 6, got %f", obj.Scale())
	}

	NewRotate(1, 2).Apply(obj, from, 1)
	if !near(obj.Rotation(), 3) {
		t.Errorf("expected rotation 3, got %f", obj.Rotation())
	}

	r := NewRotateDegrees(1, 180)
	if !near(r.Angle(), math.Pi) {
		t.Errorf("expected pi radians, got %f", r.Angle())
	}
}

func TestCreationLeavesPropertiesAlone(t *testing.T) {
	create := NewCreate(1).WithEasing(easing.Linear)
	uncreate := NewUncreate(1).WithEasing(easing.Linear)

	obj := mobject.NewBase(mobject.DefaultState())
	for _, p := range []float64{0, 0.3, 1} {
		create.Apply(obj, mobject.State{}, p)
		uncreate.Apply(obj, mobject.State{}, p)
	}
	if obj.State() != mobject.DefaultState() {
		t.Errorf("creation animations mutated the target: %+v", obj.State())
	}
}

func TestClone(t *testing.T) {
	orig := NewMoveTo(1, f64.Vec2{1, 2}).WithDuration(2)
	cp := orig.Clone().(*MoveTo)
	cp.WithDuration(5)

	if orig.Duration() != 2 {
		t.Errorf("clone shares state with original: duration %f", orig.Duration())
	}
	if cp.Destination() != orig.Destination() {
		t.Errorf("clone lost destination")
	}
}
