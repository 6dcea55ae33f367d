package timeline

import (
	"github.com/ivlev/scene2video/internal/animation"
	"github.com/ivlev/scene2video/internal/mobject"
)

// Bases supplies the state an object starts from before any animation.
type Bases interface {
	Base(id mobject.ID) mobject.State
}

// Entry is one scheduled animation.
type Entry struct {
	Animation animation.Animation
	Start     float64
	// From is the target's state at Start, captured when the entry was
	// scheduled.
	From mobject.State
}

// End returns Start + duration.
func (e *Entry) End() float64 {
	return e.Start + e.Animation.Duration()
}

// Progress maps an absolute time to the entry's local progress:
// 0 before Start, 1 at or after End, linear in between.
func (e *Entry) Progress(t float64) float64 {
	switch {
	case t < e.Start:
		return 0
	case t >= e.End():
		return 1
	default:
		return (t - e.Start) / e.Animation.Duration()
	}
}

// Active pairs an entry with its local progress at a queried time.
type Active struct {
	Entry    *Entry
	Progress float64
}

// Timeline is an append-only schedule of animations with a cursor marking
// where the next sequential Play starts. It holds no current time: every
// query is a pure function of the queried time.
type Timeline struct {
	entries []*Entry
	cursor  float64
	bases   Bases
}

// New creates an empty timeline. bases may be nil, in which case start
// states are computed from mobject.DefaultState.
func New(bases Bases) *Timeline {
	return &Timeline{bases: bases}
}

// Play schedules a at the cursor and moves the cursor to its end.
func (tl *Timeline) Play(a animation.Animation) {
	e := tl.schedule(a, tl.cursor)
	tl.cursor = e.End()
}

// PlayTogether schedules every animation at the cursor and moves the
// cursor to the latest end among them.
func (tl *Timeline) PlayTogether(animations ...animation.Animation) {
	start := tl.cursor
	maxEnd := tl.cursor
	for _, a := range animations {
		e := tl.schedule(a, start)
		if e.End() > maxEnd {
			maxEnd = e.End()
		}
	}
	tl.cursor = maxEnd
}

// Wait advances the cursor without scheduling anything. Negative
// durations are ignored.
func (tl *Timeline) Wait(secs float64) {
	if secs > 0 {
		tl.cursor += secs
	}
}

// Cursor is where the next sequential Play will start.
func (tl *Timeline) Cursor() float64 {
	return tl.cursor
}

// TotalDuration is the latest end time over all entries, 0 if empty.
// A trailing Wait does not extend it.
func (tl *Timeline) TotalDuration() float64 {
	total := 0.0
	for _, e := range tl.entries {
		if e.End() > total {
			total = e.End()
		}
	}
	return total
}

// Entries returns the schedule in insertion order.
func (tl *Timeline) Entries() []*Entry {
	return tl.entries
}

// Len returns the number of scheduled entries.
func (tl *Timeline) Len() int {
	return len(tl.entries)
}

// ActiveAt returns, in insertion order, every entry that has started by t
// with its local progress. Completed entries stay in the result with
// progress 1, so later entries overwrite earlier ones on shared targets.
func (tl *Timeline) ActiveAt(t float64) []Active {
	var active []Active
	for _, e := range tl.entries {
		if t < e.Start {
			continue
		}
		active = append(active, Active{Entry: e, Progress: e.Progress(t)})
	}
	return active
}

// DrawProgressFor returns the local progress of the most recently
// scheduled entry targeting id, whatever its kind, or 1 when nothing
// targets id.
func (tl *Timeline) DrawProgressFor(id mobject.ID, t float64) float64 {
	if e := tl.LastFor(id); e != nil {
		return e.Progress(t)
	}
	return 1.0
}

// LastFor returns the most recently scheduled entry targeting id.
func (tl *Timeline) LastFor(id mobject.ID) *Entry {
	for i := len(tl.entries) - 1; i >= 0; i-- {
		if tl.entries[i].Animation.Target() == id {
			return tl.entries[i]
		}
	}
	return nil
}

// StateAt evaluates the state of id at time t starting from base, applying
// every entry for id that has started by t in insertion order.
func (tl *Timeline) StateAt(id mobject.ID, base mobject.State, t float64) mobject.State {
	scratch := mobject.NewBase(base)
	for _, e := range tl.entries {
		if e.Animation.Target() != id || t < e.Start {
			continue
		}
		e.Animation.Apply(scratch, e.From, e.Progress(t))
	}
	return scratch.State()
}

// Clone deep-copies the schedule. The copy resolves start states of
// future entries through bases.
func (tl *Timeline) Clone(bases Bases) *Timeline {
	cp := &Timeline{
		entries: make([]*Entry, len(tl.entries)),
		cursor:  tl.cursor,
		bases:   bases,
	}
	for i, e := range tl.entries {
		cp.entries[i] = &Entry{Animation: e.Animation.Clone(), Start: e.Start, From: e.From}
	}
	return cp
}

func (tl *Timeline) schedule(a animation.Animation, start float64) *Entry {
	base := mobject.DefaultState()
	if tl.bases != nil {
		base = tl.bases.Base(a.Target())
	}
	e := &Entry{
		Animation: a,
		Start:     start,
		From:      tl.StateAt(a.Target(), base, start),
	}
	tl.entries = append(tl.entries, e)
	return e
}
