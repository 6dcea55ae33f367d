package animation

import (
	"github.com/ivlev/scene2video/internal/easing"
	"github.com/ivlev/scene2video/internal/mobject"
)

// FadeIn raises opacity from 0 to 1.
type FadeIn struct {
	base
}

func NewFadeIn(target mobject.ID) *FadeIn {
	return &FadeIn{base: newBase(target)}
}

func (a *FadeIn) WithDuration(secs float64) *FadeIn {
	a.setDuration(secs)
	return a
}

func (a *FadeIn) WithEasing(e easing.Easing) *FadeIn {
	a.easing = e
	return a
}

func (a *FadeIn) Apply(obj mobject.Transformable, _ mobject.State, t float64) {
	obj.SetOpacity(a.eased(t))
}

func (a *FadeIn) Clone() Animation {
	cp := *a
	return &cp
}

// FadeOut lowers opacity from 1 to 0.
type FadeOut struct {
	base
}

func NewFadeOut(target mobject.ID) *FadeOut {
	return &FadeOut{base: newBase(target)}
}

func (a *FadeOut) WithDuration(secs float64) *FadeOut {
	a.setDuration(secs)
	return a
}

func (a *FadeOut) WithEasing(e easing.Easing) *FadeOut {
	a.easing = e
	return a
}

func (a *FadeOut) Apply(obj mobject.Transformable, _ mobject.State, t float64) {
	obj.SetOpacity(1.0 - a.eased(t))
}

func (a *FadeOut) Clone() Animation {
	cp := *a
	return &cp
}

// Create mutates nothing. While it is the most recent entry for its
// target, the timeline's draw progress is its local progress.
type Create struct {
	base
}

func NewCreate(target mobject.ID) *Create {
	return &Create{base: newBase(target)}
}

func (a *Create) WithDuration(secs float64) *Create {
	a.setDuration(secs)
	return a
}

func (a *Create) WithEasing(e easing.Easing) *Create {
	a.easing = e
	return a
}

func (a *Create) Apply(mobject.Transformable, mobject.State, float64) {}

func (a *Create) Clone() Animation {
	cp := *a
	return &cp
}

// Uncreate mutates nothing; it only moves the target's draw progress.
type Uncreate struct {
	base
}

func NewUncreate(target mobject.ID) *Uncreate {
	return &Uncreate{base: newBase(target)}
}

func (a *Uncreate) WithDuration(secs float64) *Uncreate {
	a.setDuration(secs)
	return a
}

func (a *Uncreate) WithEasing(e easing.Easing) *Uncreate {
	a.easing = e
	return a
}

func (a *Uncreate) Apply(mobject.Transformable, mobject.State, float64) {}

func (a *Uncreate) Clone() Animation {
	cp := *a
	return &cp
}
