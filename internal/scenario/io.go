package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/scene2video/internal/system"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into new scenario files.
const CurrentVersion = "1.0"

// Write writes a scenario to a YAML file
func Write(sc *Scenario, path string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read reads and validates a scenario from a YAML file
func Read(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Dir = filepath.Dir(path)
	return sc, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// GeneratePath creates a timestamped scenario filename in dir
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scene_%s.yaml", timestamp))
}

// FindLatest finds the most recent scenario file in dir
func FindLatest(dir string) (string, error) {
	return system.FindLatest(dir, ".yaml", ".yml")
}

func ptr[T any](v T) *T { return &v }

// Example is a small two-scene scenario exercising most object kinds and
// animations. It is what -init writes.
func Example() *Scenario {
	return &Scenario{
		Version:    CurrentVersion,
		Width:      1280,
		Height:     720,
		FPS:        30,
		Transition: "fade",
		Fade:       0.5,
		Scenes: []SceneSpec{
			{
				Name:       "intro",
				Background: "#101820",
				Hold:       0.5,
				Objects: []ObjectSpec{
					{Name: "dot", Kind: "circle", At: Point{-300, 0}, Radius: 40, Stroke: "#4d99ff", Fill: "#4d99ff", FillOpacity: 0.3, Opacity: ptr(0.0)},
					{Name: "box", Kind: "rectangle", At: Point{300, 0}, Width: 160, Height: 100, Stroke: "#ffcc00"},
					{Name: "axis", Kind: "line", From: &Point{-500, -200}, To: &Point{500, -200}, StrokeWidth: ptr(3.0)},
					{Name: "tile", Kind: "rectangle", At: Point{300, 200}, Width: 60, Height: 60, Stroke: "#ff6666"},
				},
				// each object's entries start together; a later entry would
				// hide it until that entry begins
				Timeline: []StepSpec{
					{Together: []AnimationSpec{
						{Type: "create", Target: "box", Duration: ptr(1.0)},
						{Type: "create", Target: "axis", Duration: ptr(1.5)},
					}},
					{Wait: ptr(0.3)},
					{Together: []AnimationSpec{
						{Type: "fade_in", Target: "dot", Duration: ptr(0.5)},
						{Type: "move_to", Target: "dot", To: &Point{0, 150}, Duration: ptr(1.5)},
						{Type: "scale", Target: "dot", Factor: ptr(2.0), Duration: ptr(1.5)},
						{Type: "rotate", Target: "tile", Angle: 90, Duration: ptr(1.5)},
					}},
				},
			},
			{
				Name:       "outro",
				Background: "#000000",
				Hold:       1.5,
				Objects: []ObjectSpec{
					{Name: "link", Kind: "qrcode", Text: "https://github.com/ivlev/scene2video", Module: 8},
					{Name: "frame", Kind: "rectangle", Width: 300, Height: 300, Stroke: "#ffffff"},
				},
				Timeline: []StepSpec{
					{Together: []AnimationSpec{
						{Type: "create", Target: "link", Duration: ptr(2.0)},
						{Type: "create", Target: "frame", Duration: ptr(1.0)},
					}},
				},
			},
		},
	}
}
