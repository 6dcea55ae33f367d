package video

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/renderer"
)

func TestBuildFFmpegArgs(t *testing.T) {
	params := config.SegmentParams{Width: 640, Height: 360, FPS: 25, FrameCount: 50}
	args := buildFFmpegArgs("out.mp4", params, "scale=640:360", "libx264", 23)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-f rawvideo",
		"-pixel_format rgba",
		"-video_size 640x360",
		"-framerate 25",
		"-i -",
		"-vf scale=640:360",
		"-frames:v 50",
		"-c:v libx264",
		"-crf 23",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output path should come last, got %s", args[len(args)-1])
	}

	noFilter := strings.Join(buildFFmpegArgs("o.mp4", params, "", "libx264", 23), " ")
	if strings.Contains(noFilter, "-vf") {
		t.Errorf("empty filter must not add -vf: %s", noFilter)
	}
}

func TestQualityArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		want    string
	}{
		{"h264_videotoolbox", 75, "-b:v 7500k"},
		{"h264_nvenc", 28, "-cq 28"},
		{"libx264", 23, "-crf 23 -preset medium"},
		{"", 18, "-crf 18 -preset medium"},
	}
	for _, tt := range tests {
		if got := strings.Join(qualityArgs(tt.encoder, tt.quality), " "); got != tt.want {
			t.Errorf("qualityArgs(%q, %d) = %q, want %q", tt.encoder, tt.quality, got, tt.want)
		}
	}
}

func TestBuildXfadeGraph(t *testing.T) {
	graph, last := buildXfadeGraph([]float64{3, 2, 4}, "fade", 0.5)

	want := "[0:v][1:v]xfade=transition=fade:duration=0.500000:offset=2.500000[v1];" +
		"[v1][2:v]xfade=transition=fade:duration=0.500000:offset=4.000000[v2]"
	if graph != want {
		t.Errorf("graph:\n got %s\nwant %s", graph, want)
	}
	if last != "[v2]" {
		t.Errorf("last output %s", last)
	}
}

func TestOutputDuration(t *testing.T) {
	cfg := config.Config{TransitionType: "fade", FadeDuration: 0.5}
	durations := []float64{3, 2, 4}

	if got := OutputDuration(durations, cfg); got != 8 {
		t.Errorf("with transitions: %f", got)
	}
	cfg.TransitionType = "none"
	if got := OutputDuration(durations, cfg); got != 9 {
		t.Errorf("without transitions: %f", got)
	}
	if got := OutputDuration(durations[:1], config.Config{TransitionType: "fade", FadeDuration: 1}); got != 3 {
		t.Errorf("single scene: %f", got)
	}
}

func TestWriteRawRGBA(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	full.Set(2, 2, color.RGBA{R: 9, A: 255})

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, full); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4*4*4 {
		t.Errorf("expected 64 bytes, got %d", buf.Len())
	}

	// a sub-image has a foreign stride and must be repacked
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)
	buf.Reset()
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2*2*4 {
		t.Errorf("expected 16 bytes, got %d", buf.Len())
	}
	if buf.Bytes()[0] != 9 {
		t.Errorf("sub-image origin lost, first byte %d", buf.Bytes()[0])
	}
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.txt")
	if err := writeConcatList(list, []string{"a.mp4", "b.mp4"}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(list)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "file '/") || !strings.HasSuffix(lines[1], "b.mp4'") {
		t.Errorf("unexpected list:\n%s", data)
	}
}

func TestPNGSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "intro")
	sink, err := NewPNGSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	if err := sink.WriteFrame(renderer.FrameInfo{Number: 7, Total: 10}, img); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "frame_00007.png"))
	if err != nil {
		t.Fatalf("frame not written: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, g, _, _ := decoded.At(1, 1).RGBA(); g>>8 != 200 {
		t.Errorf("pixel lost, green=%d", g>>8)
	}
}
