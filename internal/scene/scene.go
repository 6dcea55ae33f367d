package scene

import (
	"github.com/ivlev/scene2video/internal/animation"
	"github.com/ivlev/scene2video/internal/canvas"
	"github.com/ivlev/scene2video/internal/mobject"
	"github.com/ivlev/scene2video/internal/timeline"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
)

// Camera controls the view transformation
type Camera struct {
	Position f64.Vec2
	Zoom     float64
}

// DefaultCamera looks at the origin without zoom.
func DefaultCamera() Camera {
	return Camera{Zoom: 1.0}
}

// Scene owns a registry of drawable objects and the timeline animating them.
// A Scene is not safe for concurrent use; render from several goroutines
// by giving each one its own Clone.
type Scene struct {
	objects    map[mobject.ID]mobject.Object
	bases      map[mobject.ID]mobject.State
	order      []mobject.ID
	nextID     mobject.ID
	timeline   *timeline.Timeline
	background colorful.Color
	camera     Camera
}

func New() *Scene {
	s := &Scene{
		objects: make(map[mobject.ID]mobject.Object),
		bases:   make(map[mobject.ID]mobject.State),
		nextID:  1,
		camera:  DefaultCamera(),
	}
	s.timeline = timeline.New(s)
	return s
}

// Register adds obj and returns its identifier. The object's current
// properties become its base state, shown wherever no animation applies.
func (s *Scene) Register(obj mobject.Object) mobject.ID {
	id := s.nextID
	s.nextID++
	s.objects[id] = obj
	s.bases[id] = mobject.Snapshot(obj)
	s.order = append(s.order, id)
	return id
}

// Unregister removes an object. Scheduled animations targeting it are kept
// and silently skipped.
func (s *Scene) Unregister(id mobject.ID) (mobject.Object, bool) {
	obj, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	delete(s.objects, id)
	delete(s.bases, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return obj, true
}

// Get returns the live object. Direct mutations last until the next DrawAt
// unless committed with Rebase.
func (s *Scene) Get(id mobject.ID) (mobject.Object, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// Rebase makes the object's current properties its new base state.
// Animations already scheduled keep the start states they captured.
func (s *Scene) Rebase(id mobject.ID) bool {
	obj, ok := s.objects[id]
	if !ok {
		return false
	}
	s.bases[id] = mobject.Snapshot(obj)
	return true
}

// Base implements timeline.Bases.
func (s *Scene) Base(id mobject.ID) mobject.State {
	if b, ok := s.bases[id]; ok {
		return b
	}
	return mobject.DefaultState()
}

// IDs lists registered objects in registration (draw) order.
func (s *Scene) IDs() []mobject.ID {
	return append([]mobject.ID(nil), s.order...)
}

// Len returns the number of registered objects.
func (s *Scene) Len() int {
	return len(s.order)
}

func (s *Scene) Play(a animation.Animation) *Scene {
	s.timeline.Play(a)
	return s
}

func (s *Scene) PlayTogether(animations ...animation.Animation) *Scene {
	s.timeline.PlayTogether(animations...)
	return s
}

func (s *Scene) Wait(secs float64) *Scene {
	s.timeline.Wait(secs)
	return s
}

func (s *Scene) Timeline() *timeline.Timeline {
	return s.timeline
}

// Duration is the timeline's total duration.
func (s *Scene) Duration() float64 {
	return s.timeline.TotalDuration()
}

func (s *Scene) Background() colorful.Color {
	return s.background
}

func (s *Scene) SetBackground(c colorful.Color) *Scene {
	s.background = c
	return s
}

func (s *Scene) Camera() Camera {
	return s.camera
}

func (s *Scene) SetCamera(c Camera) *Scene {
	if c.Zoom <= 0 {
		c.Zoom = 1.0
	}
	s.camera = c
	return s
}

// DrawAt composes the scene at time t:
//  1. every object is reset to its base state;
//  2. every entry that has started by t is applied to its target in
//     insertion order, so the latest entry wins on shared properties;
//  3. every object is drawn, in registration order, with its draw progress.
//
// c may be nil to resolve object state without drawing.
func (s *Scene) DrawAt(t float64, c *canvas.Canvas) {
	for _, id := range s.order {
		s.bases[id].Restore(s.objects[id])
	}

	for _, a := range s.timeline.ActiveAt(t) {
		obj, ok := s.objects[a.Entry.Animation.Target()]
		if !ok {
			continue
		}
		a.Entry.Animation.Apply(obj, a.Entry.From, a.Progress)
	}

	for _, id := range s.order {
		s.objects[id].Draw(c, s.DrawProgress(id, t))
	}
}

// DrawProgress is the local progress of the most recent entry targeting id,
// or 1 when id has none.
func (s *Scene) DrawProgress(id mobject.ID, t float64) float64 {
	return s.timeline.DrawProgressFor(id, t)
}

// Clone returns an independent scene with copied objects and timeline.
// Object IDs are preserved.
func (s *Scene) Clone() *Scene {
	cp := &Scene{
		objects:    make(map[mobject.ID]mobject.Object, len(s.objects)),
		bases:      make(map[mobject.ID]mobject.State, len(s.bases)),
		order:      append([]mobject.ID(nil), s.order...),
		nextID:     s.nextID,
		background: s.background,
		camera:     s.camera,
	}
	for id, obj := range s.objects {
		cp.objects[id] = obj.Clone()
	}
	for id, b := range s.bases {
		cp.bases[id] = b
	}
	cp.timeline = s.timeline.Clone(cp)
	return cp
}
