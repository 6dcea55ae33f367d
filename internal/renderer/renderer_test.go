package renderer

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/ivlev/scene2video/internal/animation"
	"github.com/ivlev/scene2video/internal/mobject"
	"github.com/ivlev/scene2video/internal/scene"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/math/f64"
)

type recordSink struct {
	infos []FrameInfo
	red   []uint32
	fail  int
}

func (s *recordSink) WriteFrame(info FrameInfo, img *image.RGBA) error {
	if s.fail > 0 && info.Number == s.fail {
		return errors.New("sink full")
	}
	s.infos = append(s.infos, info)
	r, _, _, _ := img.At(img.Rect.Dx()/2, img.Rect.Dy()/2).RGBA()
	s.red = append(s.red, r)
	return nil
}

func TestTotalFrames(t *testing.T) {
	tests := []struct {
		duration float64
		fps      int
		want     int
	}{
		{2.0, 30, 60},
		{1.01, 30, 31},
		{0.5, 24, 12},
		{0, 30, 0},
		{1, 0, 0},
		{-1, 30, 0},
	}
	for _, tt := range tests {
		if got := TotalFrames(tt.duration, tt.fps); got != tt.want {
			t.Errorf("TotalFrames(%v, %d) = %d, want %d", tt.duration, tt.fps, got, tt.want)
		}
	}
}

func TestFrameInfoProgress(t *testing.T) {
	if p := (FrameInfo{Number: 0, Total: 4}).Progress(); p != 0.25 {
		t.Errorf("expected 0.25, got %f", p)
	}
	if p := (FrameInfo{Number: 3, Total: 4}).Progress(); p != 1 {
		t.Errorf("expected 1, got %f", p)
	}
	if p := (FrameInfo{}).Progress(); p != 1 {
		t.Errorf("empty scene should report 1, got %f", p)
	}
}

func TestFrameTimeClampsToDuration(t *testing.T) {
	r := New(8, 8, 10)
	if got := r.FrameTime(5, 1); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := r.FrameTime(25, 1); got != 1 {
		t.Errorf("hold frames should clamp to 1, got %f", got)
	}
}

func fadingSquare() *scene.Scene {
	sc := scene.New()
	sq := mobject.NewRectangle(f64.Vec2{}, 6, 6)
	sq.Style.Fill = colorful.Color{R: 1}
	sq.Style.FillOpacity = 1
	sq.SetOpacity(0)
	id := sc.Register(sq)
	sc.Play(animation.NewFadeIn(id).WithDuration(1))
	return sc
}

func TestRenderRange(t *testing.T) {
	r := New(16, 16, 4)
	sc := fadingSquare()
	sink := &recordSink{}

	if err := r.RenderRange(context.Background(), sc, 0, 6, 6, sink); err != nil {
		t.Fatalf("RenderRange failed: %v", err)
	}
	if len(sink.infos) != 6 {
		t.Fatalf("expected 6 frames, got %d", len(sink.infos))
	}
	if sink.red[0] != 0 {
		t.Errorf("first frame should be empty, red=%d", sink.red[0])
	}
	if sink.red[4] != 0xffff || sink.red[5] != 0xffff {
		t.Errorf("faded-in frames should be red, got %d %d", sink.red[4], sink.red[5])
	}
	if sink.infos[5].Time != 1 || sink.infos[5].Duration != 1.5 {
		t.Errorf("unexpected last frame info %+v", sink.infos[5])
	}
}

func TestRenderRangeMatchesAcrossChunks(t *testing.T) {
	r := New(16, 16, 8)
	whole := &recordSink{}
	if err := r.RenderRange(context.Background(), fadingSquare(), 0, 8, 8, whole); err != nil {
		t.Fatal(err)
	}

	base := fadingSquare()
	split := &recordSink{}
	// second half first, on independent clones
	if err := r.RenderRange(context.Background(), base.Clone(), 4, 8, 8, split); err != nil {
		t.Fatal(err)
	}
	if err := r.RenderRange(context.Background(), base.Clone(), 0, 4, 8, split); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		if split.red[i] != whole.red[i+4] || split.red[i+4] != whole.red[i] {
			t.Errorf("chunked rendering differs at frame %d", i)
		}
	}
}

func TestRenderRangeErrors(t *testing.T) {
	r := New(8, 8, 4)

	sink := &recordSink{fail: 2}
	if err := r.RenderRange(context.Background(), fadingSquare(), 0, 4, 4, sink); err == nil {
		t.Error("expected sink error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.RenderRange(ctx, fadingSquare(), 0, 4, 4, &recordSink{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
