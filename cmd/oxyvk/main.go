package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-vk/engine"
	"github.com/Carmen-Shannon/oxy-vk/engine/config"
	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/Carmen-Shannon/oxy-vk/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	"github.com/Carmen-Shannon/oxy-vk/engine/window"
	"github.com/faiface/mainthread"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

func main() {
	code := 0
	mainthread.Run(func() { code = run() })
	os.Exit(code)
}

func newLogger(c *config.Config) *logger.Logger {
	if c.Log.Console {
		return logger.NewConsole(c.Log.Debug, "oxyvk", c.Log.NoColor)
	}
	return logger.New(c.Log.Debug)
}

// run returns the process exit code. Every window and graphics call goes through mainthread.Call.
func run() int {
	flags := config.WithFlags(pflag.CommandLine)
	pflag.Parse()

	conf, err := config.Load(flags.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	flags.Apply(conf)
	log := newLogger(conf)

	objects, err := profiler.NewObjectMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error().Err(err).Msg("metrics registration failed")
		return 1
	}
	prof := profiler.NewProfiler(log)
	if err := prof.Register(prometheus.DefaultRegisterer); err != nil {
		log.Error().Err(err).Msg("metrics registration failed")
		return 1
	}
	if conf.Metrics.Enabled {
		stop := serveMetrics(log, conf.Metrics.Addr)
		defer stop()
	}

	shaders := compileShaders(log, conf)

	presentMode, err := renderer.ParsePresentMode(conf.Renderer.PresentMode)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 2
	}
	ctxOpts := []vulkan.ContextBuilderOption{
		vulkan.WithAppName(conf.Renderer.AppName),
		vulkan.WithDebug(conf.Renderer.Debug),
		vulkan.WithDepthAttachment(conf.Renderer.DepthAttachment),
		vulkan.WithObserver(objects),
	}
	if conf.Renderer.LibraryPath != "" {
		ctxOpts = append(ctxOpts, vulkan.WithLibraryPath(conf.Renderer.LibraryPath))
	}
	rOpts := []renderer.RendererBuilderOption{
		renderer.WithLogger(log),
		renderer.WithPresentMode(presentMode),
		renderer.WithContextOptions(ctxOpts...),
	}

	defer reportLeaks(log, objects)

	if conf.Renderer.Headless {
		return runHeadless(log, rOpts, shaders)
	}
	return runWindowed(log, conf, prof, rOpts, shaders)
}

// compileShaders builds every shader file in the configured directory on the worker pool. A missing
// directory or a broken file is logged and skipped.
func compileShaders(log *logger.Logger, conf *config.Config) map[string]shader.Shader {
	reqs, err := shader.ScanDir(conf.Shaders.Dir)
	if err != nil {
		log.Warn().Str("dir", conf.Shaders.Dir).Err(err).Msg("no shaders loaded")
		return map[string]shader.Shader{}
	}
	start := time.Now()
	shaders, err := shader.CompileAll(conf.Shaders.Workers, reqs)
	if err != nil {
		log.Error().Err(err).Msg("some shaders failed to compile")
	}
	log.Info().Int("shaders", len(shaders)).Dur("took", time.Since(start)).Msg("shaders compiled")
	return shaders
}

// register creates native modules for the shaders and one pipeline per vertex/fragment pair.
func register(r renderer.Renderer, shaders map[string]shader.Shader) error {
	if err := r.RegisterShaders(graphicsShaders(shaders)...); err != nil {
		return err
	}
	return r.RegisterPipelines(pairPipelines(r.DefaultPipelineDescription(), shaders)...)
}

func runHeadless(log *logger.Logger, opts []renderer.RendererBuilderOption, shaders map[string]shader.Shader) int {
	code := 0
	mainthread.Call(func() {
		r, err := renderer.NewRenderer(renderer.BackendTypeVulkan, nil, opts...)
		if err != nil {
			log.Error().Err(err).Msg("renderer initialization failed")
			code = 1
			return
		}
		defer r.Destroy()

		if err := register(r, shaders); err != nil {
			log.Error().Err(err).Msg("pipeline creation failed")
			code = 1
			return
		}
		info := r.DeviceInfo()
		log.Info().Str("device", info.Name).Str("type", info.Type).Int("pipelines", len(r.Pipelines())).Msg("headless run complete")
	})
	return code
}

func runWindowed(log *logger.Logger, conf *config.Config, prof *profiler.Profiler, opts []renderer.RendererBuilderOption, shaders map[string]shader.Shader) int {
	var (
		win window.Window
		r   renderer.Renderer
		err error
	)
	mainthread.Call(func() {
		win, err = window.NewWindow(
			window.WithTitle(conf.Window.Title),
			window.WithSize(conf.Window.Width, conf.Window.Height),
		)
		if err != nil {
			return
		}
		r, err = renderer.NewRenderer(renderer.BackendTypeVulkan, win, opts...)
		if err != nil {
			_ = win.Close()
			return
		}
		if err = register(r, shaders); err != nil {
			r.Destroy()
			_ = win.Close()
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return 1
	}

	eng := engine.NewEngine(
		engine.WithLogger(log),
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithProfiler(prof),
		engine.WithProfiling(conf.Log.Debug),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan shader.Shader, 8)
	if conf.Shaders.Watch {
		w, err := shader.NewWatcher(log, conf.Shaders.Dir)
		if err != nil {
			log.Warn().Err(err).Msg("shader hot reload disabled")
		} else {
			defer func() { _ = w.Close() }()
			go recompile(ctx, log, w, reloads)
		}
	}

	// P toggles the profiler log line, R or F5 recompiles every shader in the directory.
	profiling := conf.Log.Debug
	win.SetKeyDownCallback(func(key uint32) {
		switch key {
		case window.KeyP:
			profiling = !profiling
			if profiling {
				eng.EnableProfiler()
			} else {
				eng.DisableProfiler()
			}
		case window.KeyR, window.KeyF5:
			go recompileAll(ctx, log, conf, reloads)
		}
	})

	// Reloads are applied between frames on the window thread.
	eng.SetRenderCallback(func(float32) {
		for {
			select {
			case s := <-reloads:
				if err := r.ReloadShader(s); err != nil {
					log.Error().Str("shader", s.Key()).Err(err).Msg("shader reload failed")
				}
			default:
				return
			}
		}
	})

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-signals:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			eng.Quit()
		case <-ctx.Done():
		}
	}()

	mainthread.Call(eng.Run)
	return 0
}

// recompile turns file changes into compiled shaders. Compilation stays off the window thread.
func recompile(ctx context.Context, log *logger.Logger, w *shader.Watcher, out chan<- shader.Shader) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.Changes():
			req, ok := shader.RequestFromPath(path)
			if !ok {
				continue
			}
			s, err := shader.NewShader(req.Key, req.Type, req.Options...)
			if err != nil {
				log.Error().Str("path", path).Err(err).Msg("shader recompile failed")
				continue
			}
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
	}
}

// recompileAll recompiles the whole shader directory and queues every shader the renderer already knows.
// Unknown keys are rejected by ReloadShader and logged.
func recompileAll(ctx context.Context, log *logger.Logger, conf *config.Config, out chan<- shader.Shader) {
	for _, s := range graphicsShaders(compileShaders(log, conf)) {
		select {
		case out <- s:
		case <-ctx.Done():
			return
		}
	}
}

// serveMetrics starts the /metrics endpoint and returns a function that stops it.
func serveMetrics(log *logger.Logger, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func reportLeaks(log *logger.Logger, objects *profiler.ObjectMetrics) {
	leaked := objects.Leaked()
	if len(leaked) == 0 {
		return
	}
	ev := log.Warn()
	for kind, n := range leaked {
		ev = ev.Int(string(kind), n)
	}
	ev.Msg("native objects still alive at exit")
}
