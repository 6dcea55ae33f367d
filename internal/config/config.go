package config

// Output formats
const (
	FormatMP4    = "mp4"
	FormatFrames = "frames"
)

type Config struct {
	ScenePath      string
	Output         string
	Format         string
	Width          int
	Height         int
	FPS            int
	Workers        int
	FadeDuration   float64
	TransitionType string
	Preset         string
	VideoEncoder   string
	Quality        int
	Debug          bool
	ShowStats      bool
	BuildVersion   string
}

// Default mirrors the CLI defaults.
func Default() *Config {
	return &Config{
		Format:         FormatMP4,
		Width:          1280,
		Height:         720,
		FPS:            30,
		Workers:        1,
		FadeDuration:   0.5,
		TransitionType: "fade",
		VideoEncoder:   "libx264",
		Quality:        23,
	}
}

// ApplyPreset replaces the resolution with a named aspect preset.
// Unknown presets leave the config untouched and return false.
func (c *Config) ApplyPreset(preset string) bool {
	switch preset {
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	default:
		return false
	}
	c.Preset = preset
	return true
}

// DefaultQuality is a sensible quality value for the given encoder.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // битрейт Q*100 кбит/с
	case "h264_nvenc":
		return 28
	default:
		return 23 // CRF x264
	}
}

// SegmentParams describes one encoded chunk of a scene.
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	FirstFrame    int
	FrameCount    int
	SceneIndex    int
	SceneName     string
	Debug         bool
}
