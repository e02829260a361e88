package renderer

import (
	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the logger used by the renderer and passed to the backend.
//
// Parameters:
//   - log: the Logger to write to
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(log *logger.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.log = log
	}
}

// WithShaders registers shaders as soon as the backend exists.
//
// Parameters:
//   - shaders: the compiled shaders
//
// Returns:
//   - RendererBuilderOption: a function that applies the shaders option to a renderer
func WithShaders(shaders ...shader.Shader) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingShaders = append(r.pendingShaders, shaders...)
	}
}

// WithPipelines registers pipelines after the shaders passed with WithShaders.
//
// Parameters:
//   - pipelines: the pipelines to build
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipelines option to a renderer
func WithPipelines(pipelines ...pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPipelines = append(r.pendingPipelines, pipelines...)
	}
}

// WithPresentMode sets the preferred present mode. Surfaces that do not support it fall back to VSync.
//
// Parameters:
//   - mode: the PresentMode to use (VSync, Uncapped, or TripleBuffered)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithContextOptions forwards options to vulkan.NewContext, such as debug output or a driver library path.
//
// Parameters:
//   - opts: the context options
//
// Returns:
//   - RendererBuilderOption: a function that applies the context options to a renderer
func WithContextOptions(opts ...vulkan.ContextBuilderOption) RendererBuilderOption {
	return func(r *renderer) {
		r.contextOptions = append(r.contextOptions, opts...)
	}
}

// WithBackend uses b instead of creating a backend for the requested type. The renderer takes ownership.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}
