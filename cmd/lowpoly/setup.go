package main

import (
	"fmt"
	"log/slog"

	"lowpoly/internal/camera"
	"lowpoly/internal/config"
	"lowpoly/internal/graphics"
	"lowpoly/internal/graphics/renderer"
	"lowpoly/internal/input"
	"lowpoly/internal/scene"
	"lowpoly/internal/shaderwatch"
	"lowpoly/internal/window"

	"github.com/go-gl/mathgl/mgl32"
)

// App holds all the initialized components
type App struct {
	Window   *window.Window
	Renderer *renderer.Renderer
	Scene    *scene.Scene
	Watcher  *shaderwatch.Watcher

	log *slog.Logger
}

func setupWindow(cfg *config.Config, events *input.Queue) (*window.Window, error) {
	return window.New(window.Options{
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		Title:         cfg.Window.Title,
		Multisampling: cfg.Window.Multisampling,
		Samples:       cfg.Window.Samples,
		VSync:         cfg.Window.VSync,
	}, events)
}

func setupApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	events := input.NewQueue()
	win, err := setupWindow(cfg, events)
	if err != nil {
		return nil, err
	}
	app := &App{Window: win, log: logger}

	dev := graphics.NewGLDevice()
	dev.ClearColor = mgl32.Vec4{0.53, 0.81, 0.92, 1.0}

	app.Scene, err = scene.Build(cfg, dev, logger, scene.GLLoaders())
	if err != nil {
		app.Dispose()
		return nil, fmt.Errorf("build scene: %w", err)
	}

	var reloads <-chan string
	if cfg.HotReload {
		app.Watcher, err = shaderwatch.New(logger, app.Scene.ShaderPaths()...)
		if err != nil {
			logger.Warn("shader hot reload disabled", "err", err)
		} else {
			reloads = app.Watcher.Changes()
		}
	}

	cam := camera.New(win.Width(), win.Height(), scene.CameraOptions(cfg.Camera))
	app.Renderer, err = renderer.New(win, dev, events, logger, renderer.Options{
		Camera:   cam,
		Lights:   scene.Lights(cfg),
		FPSLimit: cfg.FPSLimit,
		Reloads:  reloads,
	})
	if err != nil {
		app.Dispose()
		return nil, err
	}
	app.Renderer.SetEntries(app.Scene.Entries)

	logger.Info("scene ready",
		"drawables", len(app.Scene.Entries),
		"programs", len(app.Scene.Shaders),
		"width", win.Width(),
		"height", win.Height(),
	)
	return app, nil
}

// Dispose tears down in reverse order of creation. GLFW itself is terminated by run.
func (a *App) Dispose() {
	if a.Watcher != nil {
		if err := a.Watcher.Close(); err != nil {
			a.log.Warn("close shader watcher", "err", err)
		}
		a.Watcher = nil
	}
	if a.Renderer != nil {
		a.Renderer.Close()
		a.Renderer = nil
	}
	if a.Scene != nil {
		a.Scene.Dispose()
		a.Scene = nil
	}
	if a.Window != nil {
		a.Window.Destroy()
		a.Window = nil
	}
}
