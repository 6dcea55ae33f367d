package engine

import (
	"context"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scenario"
	"github.com/ivlev/scene2video/internal/video"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		frames  []int
		workers int
		want    []Chunk
	}{
		{
			"short scene stays whole",
			[]int{20}, 8,
			[]Chunk{{Scene: 0, Index: 0, From: 0, To: 20}},
		},
		{
			"split by workers",
			[]int{90}, 2,
			[]Chunk{{Scene: 0, Index: 0, From: 0, To: 45}, {Scene: 0, Index: 1, From: 45, To: 90}},
		},
		{
			"split by minimum chunk size",
			[]int{61}, 8,
			[]Chunk{{Scene: 0, Index: 0, From: 0, To: 20}, {Scene: 0, Index: 1, From: 20, To: 40}, {Scene: 0, Index: 2, From: 40, To: 61}},
		},
		{
			"several scenes, empty skipped",
			[]int{10, 0, 5}, 0,
			[]Chunk{{Scene: 0, Index: 0, From: 0, To: 10}, {Scene: 2, Index: 0, From: 0, To: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.frames, tt.workers)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d chunks, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanCoversEveryFrame(t *testing.T) {
	for _, n := range []int{1, 29, 30, 31, 299, 1000} {
		for _, workers := range []int{1, 3, 16} {
			next := 0
			for _, c := range Plan([]int{n}, workers) {
				if c.From != next || c.Frames() <= 0 {
					t.Fatalf("n=%d workers=%d: gap or empty chunk at %+v", n, workers, c)
				}
				next = c.To
			}
			if next != n {
				t.Errorf("n=%d workers=%d: covered %d frames", n, workers, next)
			}
		}
	}
}

func TestClampFade(t *testing.T) {
	tests := []struct {
		fade      float64
		durations []float64
		want      float64
	}{
		{0.5, []float64{3, 2}, 0.5},
		{2, []float64{3, 2}, 1},
		{5, []float64{3}, 5},
	}
	for _, tt := range tests {
		if got := clampFade(tt.fade, tt.durations); got != tt.want {
			t.Errorf("clampFade(%v, %v) = %v, want %v", tt.fade, tt.durations, got, tt.want)
		}
	}
}

const tinyScenario = `
version: "1.0"
scenes:
  - name: one
    hold: 0.5
    objects:
      - {name: dot, kind: circle, radius: 4, fill: "#ff0000", opacity: 0}
    timeline:
      - play: {type: fade_in, target: dot, duration: 1}
  - name: empty scene
`

func TestTimings(t *testing.T) {
	sc, err := scenario.Parse([]byte(tinyScenario))
	if err != nil {
		t.Fatal(err)
	}
	scenes, err := sc.Build(nil)
	if err != nil {
		t.Fatal(err)
	}

	timings := Timings(sc.Scenes, scenes, 10)
	if timings[0].Frames != 15 || math.Abs(timings[0].Length-1.5) > 1e-9 {
		t.Errorf("first scene timing %+v", timings[0])
	}
	if timings[1].Frames != 1 {
		t.Errorf("empty scene should still get one frame, got %d", timings[1].Frames)
	}
}

func TestRunFrames(t *testing.T) {
	sc, err := scenario.Parse([]byte(tinyScenario))
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	cfg := config.Default()
	cfg.Format = config.FormatFrames
	cfg.Output = out
	cfg.Width, cfg.Height, cfg.FPS = 16, 16, 10
	cfg.Workers = 3

	project := NewProject(cfg, sc, nil, nil)
	if err := project.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	first, _ := filepath.Glob(filepath.Join(out, "01_one", "frame_*.png"))
	if len(first) != 15 {
		t.Errorf("expected 15 frames for the first scene, got %d", len(first))
	}
	second, _ := filepath.Glob(filepath.Join(out, "02_empty_scene", "frame_*.png"))
	if len(second) != 1 {
		t.Errorf("expected 1 frame for the empty scene, got %d", len(second))
	}
}

type fakeSegment struct {
	enc    *fakeEncoder
	path   string
	frames int
}

func (s *fakeSegment) WriteFrame(renderer.FrameInfo, *image.RGBA) error {
	s.frames++
	return nil
}

func (s *fakeSegment) Close() error {
	s.enc.mu.Lock()
	defer s.enc.mu.Unlock()
	s.enc.written[s.path] = s.frames
	return os.WriteFile(s.path, nil, 0644)
}

func (s *fakeSegment) Abort() {}

type fakeEncoder struct {
	mu        sync.Mutex
	written   map[string]int
	filters   []string
	joined    map[string][]string
	durations []float64
	final     string
}

func (e *fakeEncoder) OpenSegment(_ context.Context, path string, p config.SegmentParams, filter, _ string, _ int) (video.SegmentWriter, error) {
	e.mu.Lock()
	e.filters = append(e.filters, filter)
	e.mu.Unlock()
	return &fakeSegment{enc: e, path: path}, nil
}

func (e *fakeEncoder) Join(_ context.Context, parts []string, final, _ string) error {
	e.joined[final] = parts
	return nil
}

func (e *fakeEncoder) Concatenate(_ context.Context, parts []string, durations []float64, final, _ string, _ config.Config) error {
	e.durations = durations
	e.final = final
	return nil
}

func TestRunMP4(t *testing.T) {
	sc, err := scenario.Parse([]byte(tinyScenario))
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "out", "video.mp4")
	cfg.Width, cfg.Height, cfg.FPS = 16, 16, 40
	cfg.Workers = 2
	cfg.FadeDuration = 0.5
	cfg.Debug = true

	enc := &fakeEncoder{written: map[string]int{}, joined: map[string][]string{}}
	project := NewProject(cfg, sc, enc, effects.NewDebugEffect(&effects.DefaultEffect{}))
	if err := project.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 60 frames split in two chunks, the empty scene in one
	total := 0
	for _, n := range enc.written {
		total += n
	}
	if len(enc.written) != 3 || total != 61 {
		t.Errorf("segments %v", enc.written)
	}
	if len(enc.joined) != 2 {
		t.Errorf("expected a join per scene, got %d", len(enc.joined))
	}
	if enc.final != cfg.Output {
		t.Errorf("final output %s", enc.final)
	}
	if len(enc.durations) != 2 || enc.durations[0] != 1.5 || enc.durations[1] != 0.025 {
		t.Errorf("scene durations %v", enc.durations)
	}
	if cfg.FadeDuration != 0.0125 {
		t.Errorf("fade should shrink to half the shortest scene, got %f", cfg.FadeDuration)
	}
	for _, f := range enc.filters {
		if strings.Contains(f, "scale=") {
			t.Errorf("even output size needs no scaling: %s", f)
		}
	}
}
