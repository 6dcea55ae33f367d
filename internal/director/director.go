package director

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ivlev/scene2video/internal/analyzer"
	"github.com/ivlev/scene2video/internal/easing"
	"github.com/ivlev/scene2video/internal/scenario"
)

// Page is one analysed page of a document or one image file.
type Page struct {
	Source string // path stored in the scenario
	Index  int
	DPI    int
	Bounds image.Rectangle // rendered page, pixels
	Blocks []analyzer.Block
}

// Director turns detected blocks into highlight scenes: the page fades in,
// then a frame is drawn around every block in reading order.
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	MinDwell       float64 // Minimum time per block (seconds)
	MaxDwell       float64 // Maximum time per block (seconds)
	MaxBlocks      int     // largest blocks kept per page, 0 keeps all
	Padding        float64 // frame margin around a block, world units
	Stroke         string
	Background     string
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportWidth, viewportHeight int) *Director {
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		MinDwell:       1.0,
		MaxDwell:       3.0,
		MaxBlocks:      8,
		Padding:        6,
		Stroke:         "#ff3b30",
		Background:     "#101014",
	}
}

const (
	introDuration = 0.5
	createTime    = 0.4
	outroHold     = 1.0
)

// Scenario builds a document with one scene per page. pageDuration is the
// time budget each page gets for its highlights.
func (d *Director) Scenario(pages []Page, pageDuration float64) (*scenario.Scenario, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages")
	}
	sc := &scenario.Scenario{
		Version: scenario.CurrentVersion,
		Width:   d.ViewportWidth,
		Height:  d.ViewportHeight,
	}
	for _, p := range pages {
		spec, err := d.PageScene(p, pageDuration)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Index+1, err)
		}
		sc.Scenes = append(sc.Scenes, spec)
	}
	return sc, sc.Validate()
}

// PageScene describes a single page. A page without blocks is simply shown.
func (d *Director) PageScene(p Page, pageDuration float64) (scenario.SceneSpec, error) {
	if p.Bounds.Empty() {
		return scenario.SceneSpec{}, fmt.Errorf("empty page bounds")
	}
	fit := d.fitScale(p.Bounds)

	spec := scenario.SceneSpec{
		Name:       sceneName(p),
		Background: d.Background,
		Hold:       outroHold,
		Objects: []scenario.ObjectSpec{{
			Name:   "page",
			Kind:   "picture",
			Source: p.Source,
			Page:   p.Index,
			DPI:    p.DPI,
			Width:  float64(p.Bounds.Dx()) * fit,
		}},
		Timeline: []scenario.StepSpec{
			{Play: &scenario.AnimationSpec{Type: "fade_in", Target: "page", Duration: ptr(introDuration)}},
		},
	}

	blocks := d.sortBlocks(d.topBlocks(p.Blocks))
	if len(blocks) == 0 {
		return spec, nil
	}
	spec.Timeline = append(spec.Timeline, scenario.StepSpec{Wait: ptr(introDuration)})

	rest := math.Max(d.calculateDwellTime(pageDuration, len(blocks))-createTime, 0)
	width := 4.0
	for i, b := range blocks {
		name := fmt.Sprintf("region_%d", i+1)
		center, w, h := d.frameRect(b.Rect, p.Bounds, fit)
		spec.Objects = append(spec.Objects, scenario.ObjectSpec{
			Name:        name,
			Kind:        "rectangle",
			At:          center,
			Width:       w,
			Height:      h,
			Stroke:      d.Stroke,
			StrokeWidth: &width,
		})
		spec.Timeline = append(spec.Timeline, scenario.StepSpec{Play: &scenario.AnimationSpec{
			Type: "create", Target: name, Duration: ptr(createTime), Easing: easing.InOutCubic,
		}})
		if i < len(blocks)-1 {
			spec.Timeline = append(spec.Timeline, scenario.StepSpec{Wait: ptr(rest)})
		}
	}
	// a trailing wait adds nothing to the scene duration; the last dwell
	// is held instead
	spec.Hold += rest
	return spec, nil
}

// fitScale maps page pixels to world units so the page fits the viewport.
func (d *Director) fitScale(page image.Rectangle) float64 {
	return math.Min(
		float64(d.ViewportWidth)/float64(page.Dx()),
		float64(d.ViewportHeight)/float64(page.Dy()),
	)
}

// frameRect converts a block in page pixels into a world-space frame around
// it. World space is centred on the page with y pointing up.
func (d *Director) frameRect(block, page image.Rectangle, fit float64) (scenario.Point, float64, float64) {
	cx := float64(block.Min.X+block.Max.X)/2 - float64(page.Min.X+page.Max.X)/2
	cy := float64(block.Min.Y+block.Max.Y)/2 - float64(page.Min.Y+page.Max.Y)/2
	return scenario.Point{cx * fit, -cy * fit},
		float64(block.Dx())*fit + 2*d.Padding,
		float64(block.Dy())*fit + 2*d.Padding
}

// topBlocks keeps the MaxBlocks largest blocks.
func (d *Director) topBlocks(blocks []analyzer.Block) []analyzer.Block {
	if d.MaxBlocks <= 0 || len(blocks) <= d.MaxBlocks {
		return blocks
	}
	sorted := make([]analyzer.Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return area(sorted[i].Rect) > area(sorted[j].Rect)
	})
	return sorted[:d.MaxBlocks]
}

// sortBlocks sorts blocks in reading order (Western: top-to-bottom, left-to-right)
func (d *Director) sortBlocks(blocks []analyzer.Block) []analyzer.Block {
	sorted := make([]analyzer.Block, len(blocks))
	copy(sorted, blocks)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Threshold for "same row" (20 pixels)
		threshold := 20

		yDiff := sorted[i].Rect.Min.Y - sorted[j].Rect.Min.Y
		if abs(yDiff) > threshold {
			return sorted[i].Rect.Min.Y < sorted[j].Rect.Min.Y
		}

		// Same row, sort by X
		return sorted[i].Rect.Min.X < sorted[j].Rect.Min.X
	})

	return sorted
}

// calculateDwellTime determines how long to show each block
func (d *Director) calculateDwellTime(totalDuration float64, blockCount int) float64 {
	// Reserve time for the intro and the final hold
	available := totalDuration - 2*introDuration - outroHold
	if available <= 0 {
		available = totalDuration
	}

	dwellTime := available / float64(blockCount)
	if dwellTime < d.MinDwell {
		dwellTime = d.MinDwell
	}
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}
	return dwellTime
}

func sceneName(p Page) string {
	base := strings.TrimSuffix(filepath.Base(p.Source), filepath.Ext(p.Source))
	return fmt.Sprintf("%s_p%d", base, p.Index+1)
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

func ptr(v float64) *float64 {
	return &v
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
