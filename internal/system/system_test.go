package system

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCapWorkers(t *testing.T) {
	frame := uint64(1280 * 720 * 4 * framesPerWorker)

	tests := []struct {
		name      string
		workers   int
		available uint64
		want      int
	}{
		{"plenty of memory", 8, frame * 100, 8},
		{"memory bound", 8, frame * 6, 3},
		{"always at least one", 8, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := capWorkers(tt.workers, tt.available, 1280, 720); got != tt.want {
				t.Errorf("capWorkers = %d, want %d", got, tt.want)
			}
		})
	}

	if got := capWorkers(4, 0, 0, 0); got != 4 {
		t.Errorf("zero-size frames should not cap, got %d", got)
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.yaml", "b.YML", "c.yaml", "notes.txt"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(path, modTime, modTime)
	}

	latest, err := FindLatest(dir, ".yaml", ".yml")
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if filepath.Base(latest) != "c.yaml" {
		t.Errorf("expected c.yaml, got %s", latest)
	}

	if _, err := FindLatest(dir, ".pdf"); err == nil {
		t.Error("expected an error when nothing matches")
	}
}

func TestFilterListed(t *testing.T) {
	list := ` ... drawtext          V->V       Draw text on top of video frames using libfreetype library.
 TSC xfade             VV->V      Cross fade one video with another video.
 T.. scale             V->V       Scale the input video size and/or convert the image format.`

	for _, name := range []string{"drawtext", "xfade", "scale"} {
		if !filterListed(list, name) {
			t.Errorf("%s should be listed", name)
		}
	}
	if filterListed(list, "draw") {
		t.Error("partial names must not match")
	}
}

func TestImagePool(t *testing.T) {
	pool := NewImagePool()
	rect := image.Rect(0, 0, 16, 9)

	img := pool.Get(rect)
	if img.Rect != rect {
		t.Fatalf("got %v, want %v", img.Rect, rect)
	}
	pool.Put(img)

	other := pool.Get(image.Rect(0, 0, 4, 4))
	if other.Rect.Dx() != 4 {
		t.Errorf("pool mixed sizes: %v", other.Rect)
	}

	// unknown sizes are dropped silently
	pool.Put(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	pool.Put(nil)
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte("version: 1"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	// unrelated files in the same directory are ignored
	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644)
	if err := os.WriteFile(path, []byte("version: 2"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		want, _ := filepath.Abs(path)
		if name != want {
			t.Errorf("event for %s, want %s", name, want)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestWatcherReportsBurstOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte("version: 1"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var lastWrite time.Time
	for i := 0; i < 5; i++ {
		lastWrite = time.Now()
		if err := os.WriteFile(path, []byte(fmt.Sprintf("version: %d", i+2)), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-w.Events:
		if since := time.Since(lastWrite); since < debounce {
			t.Errorf("event arrived %v after the last write, before the quiet period", since)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	select {
	case name := <-w.Events:
		t.Errorf("burst reported twice: %s", name)
	case <-time.After(3 * debounce):
	}
}
