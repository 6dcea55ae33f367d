package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// framesPerWorker is how many frame buffers one render worker keeps alive
// (current frame plus what sits in the ffmpeg pipe).
const framesPerWorker = 4

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// DefaultWorkers picks the number of parallel render workers: one per
// logical CPU, capped so that every worker's frame buffers fit into half of
// the available memory.
func DefaultWorkers(width, height int) int {
	workers, err := cpu.Counts(true)
	if err != nil || workers <= 0 {
		workers = runtime.NumCPU()
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return workers
	}
	return capWorkers(workers, vm.Available, width, height)
}

func capWorkers(workers int, available uint64, width, height int) int {
	perWorker := uint64(width) * uint64(height) * 4 * framesPerWorker
	if perWorker == 0 {
		return workers
	}
	limit := int(available / 2 / perWorker)
	if limit < 1 {
		limit = 1
	}
	if workers > limit {
		return limit
	}
	return workers
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts.
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FFmpegAvailable reports whether ffmpeg can be found in PATH.
func FFmpegAvailable() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

var (
	probeOnce sync.Once
	encoders  string
	filters   string
)

func probe() {
	probeOnce.Do(func() {
		if out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput(); err == nil {
			encoders = string(out)
		}
		if out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").CombinedOutput(); err == nil {
			filters = string(out)
		}
	})
}

func GetBestH264Encoder() string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	probe()
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encoders, name) {
			return name
		}
	}
	return "libx264"
}

// CheckFilterSupport reports whether the local ffmpeg build has the filter.
func CheckFilterSupport(name string) bool {
	probe()
	return filterListed(filters, name)
}

func filterListed(list, name string) bool {
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		// " TSC drawtext  V->V  Draw text..."
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
