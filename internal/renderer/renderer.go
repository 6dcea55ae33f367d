package renderer

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/ivlev/scene2video/internal/canvas"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/ivlev/scene2video/internal/system"
)

// TotalFrames is the number of frames needed to cover duration seconds.
func TotalFrames(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	// 1e-9 keeps 2.0*30 from rounding up to 61
	return int(math.Ceil(duration*float64(fps) - 1e-9))
}

// FrameInfo describes the frame handed to a sink.
type FrameInfo struct {
	Number   int     // index within the scene, from 0
	Total    int     // frames in the scene
	Time     float64 // scene time the frame was sampled at
	Duration float64 // rendered length of the scene, including the hold
}

// Progress is the fraction of the scene rendered once this frame is done.
func (f FrameInfo) Progress() float64 {
	if f.Total == 0 {
		return 1
	}
	return float64(f.Number+1) / float64(f.Total)
}

// FrameSink consumes rendered frames. The image is only valid during the
// call; sinks must copy or encode it before returning.
type FrameSink interface {
	WriteFrame(info FrameInfo, img *image.RGBA) error
}

type Renderer struct {
	Width, Height int
	FPS           int
	pool          *system.ImagePool
}

func New(width, height, fps int) *Renderer {
	return &Renderer{Width: width, Height: height, FPS: fps, pool: system.NewImagePool()}
}

// FrameTime is the scene time of frame n. Frames past the end of the
// timeline repeat its final state.
func (r *Renderer) FrameTime(n int, duration float64) float64 {
	t := float64(n) / float64(r.FPS)
	if t > duration {
		return duration
	}
	return t
}

// RenderFrame draws sc at time t into img.
func (r *Renderer) RenderFrame(sc *scene.Scene, t float64, img *image.RGBA) {
	c := canvas.New(img)
	cam := sc.Camera()
	c.SetView(cam.Position, cam.Zoom)
	c.Clear(sc.Background())
	sc.DrawAt(t, c)
}

// RenderRange renders frames [from, to) of a scene total frames long.
// sc is mutated while drawing; concurrent callers need their own Clone.
func (r *Renderer) RenderRange(ctx context.Context, sc *scene.Scene, from, to, total int, sink FrameSink) error {
	if r.FPS <= 0 {
		return fmt.Errorf("invalid fps: %d", r.FPS)
	}
	rect := image.Rect(0, 0, r.Width, r.Height)
	duration := sc.Duration()
	length := float64(total) / float64(r.FPS)

	for n := from; n < to; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		img := r.pool.Get(rect)
		t := r.FrameTime(n, duration)
		r.RenderFrame(sc, t, img)

		err := sink.WriteFrame(FrameInfo{Number: n, Total: total, Time: t, Duration: length}, img)
		r.pool.Put(img)
		if err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}
	return nil
}
