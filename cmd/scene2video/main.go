package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/scene2video/internal/analyzer"
	"github.com/ivlev/scene2video/internal/config"
	"github.com/ivlev/scene2video/internal/director"
	"github.com/ivlev/scene2video/internal/effects"
	"github.com/ivlev/scene2video/internal/engine"
	"github.com/ivlev/scene2video/internal/scenario"
	"github.com/ivlev/scene2video/internal/source"
	"github.com/ivlev/scene2video/internal/system"
	"github.com/ivlev/scene2video/internal/video"
)

// BuildVersion is set with -ldflags "-X main.BuildVersion=..."
var BuildVersion = "dev"

const scenesDir = "scenes"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	for _, d := range []string{scenesDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	defaults := config.Default()
	scenePtr := flag.String("scene", "", "Путь к YAML-сценарию (по умолчанию: самый свежий файл в scenes/)")
	outputPtr := flag.String("output", "", "Путь к видео или папке кадров (если пусто, генерируется автоматически в output/)")
	formatPtr := flag.String("format", defaults.Format, "Формат результата: mp4, frames (PNG-последовательность)")
	widthPtr := flag.Int("width", defaults.Width, "Ширина")
	heightPtr := flag.Int("height", defaults.Height, "Высота")
	fpsPtr := flag.Int("fps", defaults.FPS, "FPS")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - авто по CPU и памяти)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	transitionPtr := flag.String("transition", defaults.TransitionType, "Тип перехода xfade между сценами: fade, wipeleft, slideup, pixelize, circlecrop, dissolve, none")
	fadePtr := flag.Float64("fade", defaults.FadeDuration, "Длительность перехода (сек)")
	debugPtr := flag.Bool("debug", false, "Наложить имя сцены и номер кадра")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и записать benchmark.log")
	watchPtr := flag.Bool("watch", false, "Перерендеривать при каждом изменении сценария")
	durationPtr := flag.Bool("print-duration", false, "Только вывести длительность сцен и выйти")
	initPtr := flag.Bool("init", false, "Создать пример сценария в scenes/ и выйти")
	initFromPtr := flag.String("init-from", "", "Создать сценарий подсветки блоков из PDF, изображения или папки изображений")
	detectorPtr := flag.String("detector", "contrast", "Алгоритм поиска блоков для -init-from")
	dpiPtr := flag.Int("dpi", source.DefaultDPI, "DPI рендеринга страниц для -init-from")
	pageDurationPtr := flag.Float64("page-duration", 8.0, "Бюджет времени на страницу для -init-from (сек)")

	flag.Parse()

	if *initPtr {
		path := scenario.GeneratePath(scenesDir)
		if err := scenario.Write(scenario.Example(), path); err != nil {
			log.Fatalf("[-] Ошибка записи сценария: %v", err)
		}
		fmt.Printf("[+++] Успех! Сценарий сохранен: %s\n", path)
		return
	}

	if *initFromPtr != "" {
		w, h := *widthPtr, *heightPtr
		if *presetPtr != "" {
			cfg := config.Default()
			if cfg.ApplyPreset(*presetPtr) {
				w, h = cfg.Width, cfg.Height
			}
		}
		path, err := initFrom(*initFromPtr, *detectorPtr, *dpiPtr, w, h, *pageDurationPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка генерации сценария: %v", err)
		}
		fmt.Printf("[+++] Успех! Сценарий сохранен: %s\n", path)
		return
	}

	scenePath := *scenePtr
	if scenePath == "" {
		latest, err := scenario.FindLatest(scenesDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите сценарий в scenes/ или запустите с -init", err)
		}
		scenePath = latest
		fmt.Printf("[*] Выбран сценарий: %s\n", scenePath)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	buildConfig := func(sc *scenario.Scenario) *config.Config {
		cfg := config.Default()
		cfg.ScenePath = scenePath
		cfg.BuildVersion = BuildVersion
		cfg.Format = strings.ToLower(*formatPtr)
		cfg.Debug = *debugPtr
		cfg.ShowStats = *statsPtr

		// значения из сценария, флаги командной строки важнее
		if sc.Width > 0 && sc.Height > 0 {
			cfg.Width, cfg.Height = sc.Width, sc.Height
		}
		if sc.FPS > 0 {
			cfg.FPS = sc.FPS
		}
		if sc.Transition != "" {
			cfg.TransitionType = sc.Transition
		}
		if sc.Fade > 0 {
			cfg.FadeDuration = sc.Fade
		}
		if set["width"] {
			cfg.Width = *widthPtr
		}
		if set["height"] {
			cfg.Height = *heightPtr
		}
		if set["fps"] {
			cfg.FPS = *fpsPtr
		}
		if set["transition"] {
			cfg.TransitionType = *transitionPtr
		}
		if set["fade"] {
			cfg.FadeDuration = *fadePtr
		}
		if *presetPtr != "" && !cfg.ApplyPreset(*presetPtr) {
			log.Printf("[!] Неизвестный пресет %q, используется %dx%d", *presetPtr, cfg.Width, cfg.Height)
		}

		cfg.Workers = *workersPtr
		if cfg.Workers <= 0 {
			cfg.Workers = system.DefaultWorkers(cfg.Width, cfg.Height)
		}

		cfg.Output = *outputPtr
		if cfg.Output == "" {
			cfg.Output = defaultOutput(scenePath, cfg.Format)
		}
		return cfg
	}

	if *durationPtr {
		sc, err := scenario.Read(scenePath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения сценария: %v", err)
		}
		printDurations(sc, buildConfig(sc))
		return
	}

	switch strings.ToLower(*formatPtr) {
	case config.FormatMP4:
		if !system.FFmpegAvailable() {
			log.Fatalf("[-] Ошибка: ffmpeg не найден в PATH. Используйте -format frames или установите ffmpeg")
		}
	case config.FormatFrames:
	default:
		log.Fatalf("[-] Неизвестный формат %q", *formatPtr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	encoderName := ""
	render := func() error {
		sc, err := scenario.Read(scenePath)
		if err != nil {
			return fmt.Errorf("ошибка чтения сценария: %w", err)
		}
		cfg := buildConfig(sc)
		if cfg.Format == config.FormatMP4 {
			if encoderName == "" {
				encoderName = system.GetBestH264Encoder()
				if encoderName != "libx264" {
					fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
				}
			}
			cfg.VideoEncoder = encoderName
			cfg.Quality = *qualityPtr
			if cfg.Quality == 0 {
				cfg.Quality = config.DefaultQuality(encoderName)
			}
		}

		// Инициализируем зависимости
		ve := &video.FFmpegEncoder{}
		eff := effects.NewDebugEffect(&effects.DefaultEffect{})

		project := engine.NewProject(cfg, sc, ve, eff)
		if err := project.Run(ctx); err != nil {
			return fmt.Errorf("ошибка проекта: %w", err)
		}
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.Output)
		return nil
	}

	if !*watchPtr {
		if err := render(); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return
	}

	watch(ctx, scenePath, render)
}

// initFrom analyses a document and writes a highlight scenario for it.
func initFrom(input, variant string, dpi, width, height int, pageDuration float64) (string, error) {
	detector, err := analyzer.NewDetector(variant)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", err
	}
	src, err := source.Open(abs)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия %s: %w", input, err)
	}
	defer src.Close()

	fmt.Printf("[*] Анализ %s (%d стр., детектор: %s)...\n", input, src.PageCount(), variant)
	pages, err := director.Analyze(src, abs, dpi, detector)
	if err != nil {
		return "", err
	}

	sc, err := director.NewDirector(width, height).Scenario(pages, pageDuration)
	if err != nil {
		return "", err
	}
	path := scenario.GeneratePath(scenesDir)
	return path, scenario.Write(sc, path)
}

func watch(ctx context.Context, scenePath string, render func() error) {
	w, err := system.NewWatcher(scenePath)
	if err != nil {
		log.Fatalf("[-] Ошибка наблюдения за файлом: %v", err)
	}
	defer w.Close()

	if err := render(); err != nil {
		log.Printf("[!] %v", err)
	}
	fmt.Printf("[*] Ожидание изменений %s (Ctrl+C для выхода)...\n", scenePath)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.Events:
			if !ok {
				return
			}
			fmt.Printf("[*] Сценарий изменен, перерендер...\n")
			if err := render(); err != nil {
				log.Printf("[!] %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[!] Ошибка наблюдения: %v", err)
		}
	}
}

func printDurations(sc *scenario.Scenario, cfg *config.Config) {
	scenes, err := sc.Build(scenario.FileLoader(sc.Dir))
	if err != nil {
		log.Fatalf("[-] Ошибка сборки сцен: %v", err)
	}
	timings := engine.Timings(sc.Scenes, scenes, cfg.FPS)

	lengths := make([]float64, len(timings))
	for i, t := range timings {
		lengths[i] = t.Length
		fmt.Printf("[*] %-20s анимация %.2fs + пауза %.2fs = %d кадров (%.2fs)\n",
			t.Name, t.Animation, t.Hold, t.Frames, t.Length)
	}
	fmt.Printf("[*] Итого: %.2fs @ %d FPS\n", video.OutputDuration(lengths, *cfg), cfg.FPS)
}

func defaultOutput(scenePath, format string) string {
	baseName := filepath.Base(scenePath)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if format == config.FormatFrames {
		return filepath.Join("output", fmt.Sprintf("%s_%s", cleanName, timestamp))
	}
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
}
