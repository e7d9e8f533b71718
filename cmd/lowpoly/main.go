package main

import (
	"log/slog"
	"os"
	"runtime"

	"lowpoly/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		slog.Error("load config", "path", config.DefaultPath, "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// closer runs its cleanups off the main thread, so it only requests the close
	sd := newShutdown()
	closer.Bind(sd.Request)

	code := run(cfg, logger, sd)
	sd.Finish()
	if code != 0 {
		os.Exit(code)
	}
}

// run owns every GLFW call and returns the process exit code
func run(cfg *config.Config, logger *slog.Logger, sd *shutdown) int {
	if err := glfw.Init(); err != nil {
		logger.Error("init GLFW", "err", err)
		return 1
	}
	defer glfw.Terminate()

	app, err := setupApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return 1
	}
	defer app.Dispose()

	sd.Attach(app.Window.RequestClose)
	defer sd.Detach()

	app.Renderer.Run()
	if sd.Requested() {
		logger.Info("interrupted, shutting down")
	}
	return 0
}
