package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/renderer"
	"github.com/ivlev/scene2video/internal/scenario"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/video"
	"golang.org/x/sync/errgroup"
)

type Project struct {
	Config   *config.Config
	Scenario *scenario.Scenario
	Encoder  video.VideoEncoder
	Effect   effects.Effect
	Loader   scenario.ImageLoader
	tempDir  string
}

func NewProject(cfg *config.Config, sc *scenario.Scenario, ve video.VideoEncoder, eff effects.Effect) *Project {
	return &Project{
		Config:   cfg,
		Scenario: sc,
		Encoder:  ve,
		Effect:   eff,
		Loader:   scenario.FileLoader(sc.Dir),
	}
}

// SceneTiming is the rendered length of one scene.
type SceneTiming struct {
	Name      string
	Animation float64 // timeline duration
	Hold      float64
	Frames    int
	Length    float64 // Frames / FPS
}

// Timings computes how many frames every scene needs. A scene always gets
// at least one frame.
func Timings(specs []scenario.SceneSpec, scenes []*scene.Scene, fps int) []SceneTiming {
	timings := make([]SceneTiming, len(scenes))
	for i, sc := range scenes {
		t := SceneTiming{Name: specs[i].Name, Animation: sc.Duration(), Hold: specs[i].Hold}
		t.Frames = renderer.TotalFrames(t.Animation+t.Hold, fps)
		if t.Frames < 1 {
			t.Frames = 1
		}
		t.Length = float64(t.Frames) / float64(fps)
		timings[i] = t
	}
	return timings
}

func lengths(timings []SceneTiming) []float64 {
	out := make([]float64, len(timings))
	for i, t := range timings {
		out[i] = t.Length
	}
	return out
}

// clampFade shortens a transition that would not fit into the shortest
// scene.
func clampFade(fade float64, durations []float64) float64 {
	if len(durations) < 2 {
		return fade
	}
	minDur := durations[0]
	for _, d := range durations {
		if d < minDur {
			minDur = d
		}
	}
	if fade >= minDur {
		return minDur / 2.0
	}
	return fade
}

func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	cfg := p.Config

	if cfg.FPS <= 0 {
		return fmt.Errorf("некорректный FPS: %d", cfg.FPS)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	scenes, err := p.Scenario.Build(p.Loader)
	if err != nil {
		return fmt.Errorf("ошибка сборки сцен: %w", err)
	}
	timings := Timings(p.Scenario.Scenes, scenes, cfg.FPS)

	if cfg.Format == config.FormatMP4 {
		if p.Encoder == nil {
			return fmt.Errorf("не задан видеоэнкодер")
		}
		fade := clampFade(cfg.FadeDuration, lengths(timings))
		if fade != cfg.FadeDuration {
			fmt.Printf("[!] Переход уменьшен до %.2fs из-за короткой сцены\n", fade)
			cfg.FadeDuration = fade
		}
	}

	p.tempDir, err = os.MkdirTemp("", "scene2video_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	totalFrames := 0
	for _, t := range timings {
		totalFrames += t.Frames
	}

	fmt.Println("--- [PROJECT: SCENE ENGINE] ---")
	fmt.Printf("[*] Сценарий: %s | Сцен: %d | Кадров: %d\n", cfg.ScenePath, len(scenes), totalFrames)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Потоки: %d | Формат: %s\n", cfg.Width, cfg.Height, cfg.FPS, workers, cfg.Format)
	fmt.Println("-----------------------------")

	frames := make([]int, len(timings))
	for i, t := range timings {
		frames[i] = t.Frames
	}
	chunks := Plan(frames, workers)

	renderStart := time.Now()
	if err := p.renderChunks(ctx, scenes, timings, chunks, workers); err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	concatStart := time.Now()
	if cfg.Format == config.FormatMP4 {
		fmt.Println("[*] Сборка финального видео (с эффектами переходов)...")
		if err := p.assemble(ctx, chunks, timings); err != nil {
			return err
		}
	}
	concatTime := time.Since(concatStart)

	if cfg.ShowStats {
		p.report(len(scenes), totalFrames, time.Since(startTime), renderTime, concatTime)
	}
	return nil
}

func (p *Project) renderChunks(ctx context.Context, scenes []*scene.Scene, timings []SceneTiming, chunks []Chunk, workers int) error {
	cfg := p.Config
	r := renderer.New(cfg.Width, cfg.Height, cfg.FPS)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var done atomic.Int64
	for i := range chunks {
		c := &chunks[i]
		// у каждого чанка своя копия сцены
		sc := scenes[c.Scene].Clone()
		timing := timings[c.Scene]
		g.Go(func() error {
			sink, err := p.openSink(ctx, c, timing)
			if err != nil {
				return fmt.Errorf("сцена %s, чанк %d: %w", timing.Name, c.Index, err)
			}
			if err := r.RenderRange(ctx, sc, c.From, c.To, timing.Frames, sink); err != nil {
				sink.Abort()
				return fmt.Errorf("сцена %s, чанк %d: %w", timing.Name, c.Index, err)
			}
			if err := sink.Close(); err != nil {
				return fmt.Errorf("сцена %s, чанк %d: %w", timing.Name, c.Index, err)
			}
			fmt.Printf("[>] Ready: %d/%d\n", done.Add(1), len(chunks))
			return nil
		})
	}
	return g.Wait()
}

func (p *Project) openSink(ctx context.Context, c *Chunk, timing SceneTiming) (video.SegmentWriter, error) {
	cfg := p.Config
	if cfg.Format == config.FormatFrames {
		sink, err := video.NewPNGSink(filepath.Join(cfg.Output, sceneDirName(c.Scene, timing.Name)))
		if err != nil {
			return nil, err
		}
		return sink, nil
	}

	c.Path = filepath.Join(p.tempDir, fmt.Sprintf("s%d_c%d.mp4", c.Scene, c.Index))
	params := config.SegmentParams{
		Width:      cfg.Width,
		Height:     cfg.Height,
		FPS:        cfg.FPS,
		Duration:   float64(c.Frames()) / float64(cfg.FPS),
		FirstFrame: c.From,
		FrameCount: c.Frames(),
		SceneIndex: c.Scene,
		SceneName:  timing.Name,
		Debug:      cfg.Debug,
	}
	filter := ""
	if p.Effect != nil {
		filter = p.Effect.GenerateFilter(params)
	}
	return p.Encoder.OpenSegment(ctx, c.Path, params, filter, cfg.VideoEncoder, cfg.Quality)
}

// assemble joins chunks into scenes and scenes into the final video.
func (p *Project) assemble(ctx context.Context, chunks []Chunk, timings []SceneTiming) error {
	perScene := make([][]string, len(timings))
	for _, c := range chunks {
		perScene[c.Scene] = append(perScene[c.Scene], c.Path)
	}

	scenePaths := make([]string, len(timings))
	for i, parts := range perScene {
		scenePaths[i] = filepath.Join(p.tempDir, fmt.Sprintf("scene%d.mp4", i))
		if err := p.Encoder.Join(ctx, parts, scenePaths[i], p.tempDir); err != nil {
			return fmt.Errorf("ошибка сборки сцены %s: %w", timings[i].Name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(p.Config.Output), 0755); err != nil {
		return err
	}
	if err := p.Encoder.Concatenate(ctx, scenePaths, lengths(timings), p.Config.Output, p.tempDir, *p.Config); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	return nil
}

func (p *Project) report(sceneCount, frames int, total, render, concat time.Duration) {
	cfg := p.Config
	fps := float64(frames) / total.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering + Encoding: %.2fs\n"+
			"Concatenation: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		cfg.BuildVersion, total.Seconds(), render.Seconds(), concat.Seconds(), fps,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Scene: %s | Scenes: %d | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		cfg.BuildVersion,
		filepath.Base(cfg.ScenePath),
		sceneCount,
		frames,
		total.Seconds(),
		render.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

func sceneDirName(index int, name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		return fmt.Sprintf("%02d", index+1)
	}
	return fmt.Sprintf("%02d_%s", index+1, clean)
}
