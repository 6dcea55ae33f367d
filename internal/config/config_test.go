package config

import "testing"

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset string
		w, h   int
		ok     bool
	}{
		{"16:9", 1280, 720, true},
		{"9:16", 720, 1280, true},
		{"4:5", 1080, 1350, true},
		{"21:9", 640, 480, false},
		{"", 640, 480, false},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			cfg := Default()
			cfg.Width, cfg.Height = 640, 480
			if ok := cfg.ApplyPreset(tt.preset); ok != tt.ok {
				t.Errorf("ApplyPreset(%q) = %v, want %v", tt.preset, ok, tt.ok)
			}
			if cfg.Width != tt.w || cfg.Height != tt.h {
				t.Errorf("got %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.w, tt.h)
			}
		})
	}
}

func TestDefaultQuality(t *testing.T) {
	if DefaultQuality("h264_videotoolbox") != 75 {
		t.Error("videotoolbox quality")
	}
	if DefaultQuality("h264_nvenc") != 28 {
		t.Error("nvenc quality")
	}
	if DefaultQuality("libx264") != 23 || DefaultQuality("") != 23 {
		t.Error("x264 quality")
	}
}
