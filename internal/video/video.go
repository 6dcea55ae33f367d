package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/renderer"
)

// SegmentWriter receives the frames of one segment. Close finishes the
// file; Abort discards it.
type SegmentWriter interface {
	renderer.FrameSink
	Close() error
	Abort()
}

type VideoEncoder interface {
	OpenSegment(ctx context.Context, videoPath string, params config.SegmentParams, filter string, encoderName string, quality int) (SegmentWriter, error)
	// Join glues segments encoded with identical settings without re-encoding.
	Join(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string) error
	// Concatenate assembles scenes, with a transition between them when one
	// is configured. durations are the scene lengths in seconds.
	Concatenate(ctx context.Context, segmentPaths []string, durations []float64, finalPath string, tmpDir string, params config.Config) error
}

type FFmpegEncoder struct{}

type ffmpegSegment struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   bytes.Buffer
	path  string
}

func (e *FFmpegEncoder) OpenSegment(
	ctx context.Context,
	videoPath string,
	params config.SegmentParams,
	filter string,
	encoderName string,
	quality int,
) (SegmentWriter, error) {
	args := buildFFmpegArgs(videoPath, params, filter, encoderName, quality)

	seg := &ffmpegSegment{path: videoPath}
	seg.cmd = exec.CommandContext(ctx, "ffmpeg", args...)
	seg.cmd.Stdout = &seg.out
	seg.cmd.Stderr = &seg.out

	stdin, err := seg.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	seg.stdin = stdin

	if err := seg.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return seg, nil
}

// WriteFrame передает кадр в ffmpeg как raw RGBA
func (s *ffmpegSegment) WriteFrame(info renderer.FrameInfo, img *image.RGBA) error {
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

func (s *ffmpegSegment) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, s.out.String())
	}
	return nil
}

func (s *ffmpegSegment) Abort() {
	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	os.Remove(s.path)
}

func buildFFmpegArgs(
	videoPath string,
	params config.SegmentParams,
	filter string,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if filter != "" {
		args = append(args, "-vf", filter)
	}
	args = append(args,
		"-frames:v", fmt.Sprintf("%d", params.FrameCount),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	)
	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, videoPath)
	return args
}

// qualityArgs maps the single quality knob onto each encoder's own setting.
func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую на всех версиях. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	// Проверяем, является ли изображение уже RGBA и имеет ли стандартный шаг (stride)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

func (e *FFmpegEncoder) Join(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to join")
	}
	if len(segmentPaths) == 1 {
		return os.Rename(segmentPaths[0], finalPath)
	}

	listPath := filepath.Join(tmpDir, filepath.Base(finalPath)+".txt")
	if err := writeConcatList(listPath, segmentPaths); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy", finalPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range segmentPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", absPath); err != nil {
			return err
		}
	}
	return nil
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, durations []float64, finalPath string, tmpDir string, params config.Config) error {
	if !useTransition(params, len(segmentPaths)) {
		return e.Join(ctx, segmentPaths, finalPath, tmpDir)
	}

	args := []string{"-y"}
	for _, p := range segmentPaths {
		args = append(args, "-i", p)
	}
	graph, lastOut := buildXfadeGraph(durations, params.TransitionType, params.FadeDuration)
	args = append(args, "-filter_complex", graph, "-map", lastOut)
	args = append(args, "-c:v", params.VideoEncoder, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(params.VideoEncoder, params.Quality)...)
	args = append(args, finalPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg xfade error: %v, output: %s", err, string(out))
	}
	return nil
}

func useTransition(params config.Config, segments int) bool {
	return params.TransitionType != "" && params.TransitionType != "none" && segments > 1 && params.FadeDuration > 0
}

// buildXfadeGraph chains xfade filters over inputs 0..len(durations)-1.
// Each transition starts fade seconds before the end of the output so far.
func buildXfadeGraph(durations []float64, transition string, fade float64) (string, string) {
	var parts []string
	lastOut := "[0:v]"
	offset := 0.0
	for i := 1; i < len(durations); i++ {
		offset += durations[i-1] - fade
		outName := fmt.Sprintf("[v%d]", i)
		parts = append(parts, fmt.Sprintf("%s[%d:v]xfade=transition=%s:duration=%f:offset=%f%s",
			lastOut, i, transition, fade, offset, outName))
		lastOut = outName
	}
	return strings.Join(parts, ";"), lastOut
}

// OutputDuration is the length of the assembled video.
func OutputDuration(durations []float64, params config.Config) float64 {
	total := 0.0
	for _, d := range durations {
		total += d
	}
	if useTransition(params, len(durations)) {
		total -= float64(len(durations)-1) * params.FadeDuration
	}
	return total
}
