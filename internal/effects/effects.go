package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/system"
)

// Effect produces the ffmpeg -vf chain applied while encoding a segment.
type Effect interface {
	GenerateFilter(params config.SegmentParams) string
}

// DefaultEffect only makes sure the output size suits yuv420p, which needs
// even dimensions.
type DefaultEffect struct{}

func (e *DefaultEffect) GenerateFilter(p config.SegmentParams) string {
	w, h := even(p.Width), even(p.Height)
	if w == p.Width && h == p.Height {
		return ""
	}
	return fmt.Sprintf("scale=%d:%d", w, h)
}

func even(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}

// DebugEffect overlays the scene name and the scene frame number.
type DebugEffect struct {
	Inner     Effect
	hasFilter func(name string) bool
}

func NewDebugEffect(inner Effect) *DebugEffect {
	return &DebugEffect{Inner: inner, hasFilter: system.CheckFilterSupport}
}

func (e *DebugEffect) GenerateFilter(p config.SegmentParams) string {
	base := ""
	if e.Inner != nil {
		base = e.Inner.GenerateFilter(p)
	}
	if !p.Debug || e.hasFilter == nil || !e.hasFilter("drawtext") {
		return base
	}

	// n restarts at 0 in every chunk, FirstFrame makes it scene-relative
	textFilter := fmt.Sprintf(
		"drawtext=text='%s | Frame %%{eif\\:n+%d\\:d}':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5",
		escapeText(p.SceneName), p.FirstFrame,
	)
	if base == "" {
		return textFilter
	}
	return base + "," + textFilter
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `%`, `\%`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
