package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"orrery/core"
	"orrery/input"
	"orrery/io"
	"orrery/opengl"
	"orrery/renderer"
	"orrery/scene"
)

func main() {
	scenePath := flag.String("scene", "", "YAML scene description (default: built-in solar system)")
	exportPath := flag.String("export", "", "write the assembled scene to a .glb file")
	dumpPath := flag.String("dump", "", "write the effective scene description to a YAML file")
	workers := flag.Int("workers", 0, "mesh generation workers (0 = scene setting or CPU count)")
	headless := flag.Bool("headless", false, "build (and export) the scene without opening a window")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(logger, options{
		scenePath:  *scenePath,
		exportPath: *exportPath,
		dumpPath:   *dumpPath,
		workers:    *workers,
		headless:   *headless,
	}); err != nil {
		var initErr *core.InitializationError
		if errors.As(err, &initErr) {
			logger.Error("initialization failed", "stage", initErr.Stage, "err", initErr.Err)
		} else {
			logger.Error("orrery failed", "err", err)
		}
		os.Exit(1)
	}
}

type options struct {
	scenePath  string
	exportPath string
	dumpPath   string
	workers    int
	headless   bool
}

func run(logger *slog.Logger, opts options) error {
	file := io.NewDefaultSceneFile("solar system")
	if opts.scenePath != "" {
		loaded, err := io.LoadScene(opts.scenePath)
		if err != nil {
			return err
		}
		file = loaded
		logger.Info("loaded scene", "path", opts.scenePath, "bodies", len(file.Bodies))
	}
	if opts.dumpPath != "" {
		if err := io.SaveScene(opts.dumpPath, file); err != nil {
			return fmt.Errorf("dump scene: %w", err)
		}
		logger.Info("wrote scene description", "path", opts.dumpPath)
	}

	s, err := file.ToScene()
	if err != nil {
		return fmt.Errorf("scene %s: %w", file.Name, err)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = file.Settings.Workers
	}
	if workers <= 0 {
		workers = scene.DefaultWorkers()
	}

	start := time.Now()
	if err := s.Build(context.Background(), workers); err != nil {
		return err
	}
	logger.Info("scene assembled",
		"bodies", len(s.Meshes),
		"vertices", s.Buffers.VertexCount(),
		"workers", workers,
		"elapsed", time.Since(start))

	if opts.exportPath != "" {
		if err := scene.ExportGLB(opts.exportPath, s.Meshes); err != nil {
			return err
		}
		back, err := scene.LoadGLB(opts.exportPath)
		if err != nil {
			return fmt.Errorf("verify export: %w", err)
		}
		logger.Info("exported glTF", "path", opts.exportPath, "meshes", len(back))
	}
	if opts.headless {
		return nil
	}

	return view(logger, s, file.Settings.ClearColor)
}

func view(logger *slog.Logger, s *scene.Scene, clearColor [4]float32) error {
	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		return err
	}
	defer window.Destroy()

	backend, err := opengl.NewRenderer(io.ArrayToVec4(clearColor), logger)
	if err != nil {
		return err
	}

	engine, err := renderer.NewRenderEngine(backend, s, logger)
	if err != nil {
		backend.Destroy()
		return err
	}
	defer engine.Destroy()

	engine.Resize(window.GetFramebufferSize())

	window.SetKeyCallback(func(key int) {
		action, err := engine.HandleKey(input.Key(key))
		if err != nil {
			logger.Error("frame failed", "err", err)
			return
		}
		if action == input.Quit {
			window.Close()
		}
	})
	window.SetFramebufferSizeCallback(engine.Resize)

	frameCount := 0
	lastTime := time.Now()
	for !window.ShouldClose() {
		window.PollEvents()
		if err := engine.Frame(); err != nil {
			return err
		}
		window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(lastTime); elapsed >= time.Second {
			cam := s.Camera
			window.SetTitle(fmt.Sprintf("Orrery | FPS: %d | orbit %.0f° distance %.1f",
				frameCount, cam.Orbit, cam.Distance))
			logger.Debug("fps", "frames", frameCount, "elapsed", elapsed)
			frameCount = 0
			lastTime = time.Now()
		}
	}

	logger.Info("exiting", "frames", engine.Frames())
	return nil
}
