package video

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ivlev/scene2video/internal/renderer"
)

// PNGSink writes every frame as Dir/frame_00000.png, numbered by the
// frame's index within its scene.
type PNGSink struct {
	Dir     string
	encoder png.Encoder
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &PNGSink{Dir: dir, encoder: png.Encoder{CompressionLevel: png.BestSpeed}}, nil
}

// FramePath is where frame n ends up.
func (s *PNGSink) FramePath(n int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("frame_%05d.png", n))
}

func (s *PNGSink) WriteFrame(info renderer.FrameInfo, img *image.RGBA) error {
	f, err := os.Create(s.FramePath(info.Number))
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := s.encoder.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *PNGSink) Close() error { return nil }

func (s *PNGSink) Abort() {}
