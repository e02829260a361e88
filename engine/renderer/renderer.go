package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
)

// ErrUnknownShader is returned when a pipeline or reload references a shader key that was never registered.
var ErrUnknownShader = errors.New("renderer: unknown shader")

// SurfaceTarget is a window the renderer presents to. window.Window satisfies it.
type SurfaceTarget interface {
	NativeHandles() vulkan.NativeHandles
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	log *logger.Logger

	shaderCache   map[string]shader.Shader
	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	contextOptions   []vulkan.ContextBuilderOption
	presentMode      PresentMode
	pendingShaders   []shader.Shader
	pendingPipelines []pipeline.Pipeline

	width, height int
	destroyed     bool
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns a cache of shaders and a cache of pipelines, both keyed by name, and keeps their native
// objects in step with the backend: pipelines are rebuilt when the surface's render pass changes and when a
// shader they use is reloaded. Calls must come from the thread that owns the window.
type Renderer interface {
	// DeviceInfo describes the physical device the backend selected.
	//
	// Returns:
	//   - vulkan.DeviceInfo: name, type, versions and score of the device
	DeviceInfo() vulkan.DeviceInfo

	// DefaultPipelineDescription returns a copy of the backend's default fixed-function state,
	// for use with pipeline.WithDescription.
	//
	// Returns:
	//   - pipeline.Description: the default description
	DefaultPipelineDescription() pipeline.Description

	// Shader retrieves the cached Shader associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the shader key
	//
	// Returns:
	//   - shader.Shader: the registered shader, or nil if not found
	Shader(key string) shader.Shader

	// RegisterShaders creates a native module for each shader and caches it by key.
	// Shaders whose keys are already registered are skipped; use ReloadShader to replace one.
	//
	// Parameters:
	//   - shaders: the compiled shaders
	//
	// Returns:
	//   - error: the first module creation error; shaders before it stay registered
	RegisterShaders(shaders ...shader.Shader) error

	// ReloadShader replaces a registered shader. Pipelines using it are destroyed, the module is recreated,
	// and the pipelines are built again.
	//
	// Parameters:
	//   - s: the recompiled shader, with the key of a registered one
	//
	// Returns:
	//   - error: ErrUnknownShader, a module creation error, or the joined pipeline rebuild errors
	ReloadShader(s shader.Shader) error

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines builds the native object of each pipeline and caches it by PipelineKey.
	// Every stage must reference a registered shader. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// DestroyPipeline destroys the native pipeline registered under key and removes it from the cache.
	//
	// Parameters:
	//   - key: the pipeline key
	DestroyPipeline(key string)

	// Resize recreates the swapchain for a new surface size. A zero width or height (a minimized window)
	// is ignored. When the render pass changes every cached pipeline is rebuilt.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the swapchain or a pipeline could not be recreated
	Resize(width, height int) error

	// Destroy releases every pipeline, then every shader module, then the backend.
	// Calling Destroy again does nothing.
	Destroy()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer with the specified backend presenting to target. A nil target creates a
// headless renderer whose pipelines are built against an offscreen render pass.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - target: the window to present to, or nil
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if the backend or a pre-registered shader or pipeline cannot be created
func NewRenderer(backendType RendererBackendType, target SurfaceTarget, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		log:           logger.Nop(),
		shaderCache:   make(map[string]shader.Shader),
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeTripleBuffered,
	}

	// Apply options first so the backend is created with the collected config.
	for _, opt := range options {
		opt(r)
	}

	if target != nil {
		r.width, r.height = target.Width(), target.Height()
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeVulkan:
			opts := append([]vulkan.ContextBuilderOption{vulkan.WithPresentMode(r.presentMode.vkPresentMode())}, r.contextOptions...)
			b, err := newVulkanRendererBackend(r.log, target, opts)
			if err != nil {
				return nil, err
			}
			r.backend = b
		default:
			return nil, fmt.Errorf("renderer: unsupported backend type %d", int(backendType))
		}
	}

	if err := r.RegisterShaders(r.pendingShaders...); err != nil {
		r.Destroy()
		return nil, err
	}
	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		r.Destroy()
		return nil, err
	}
	r.pendingShaders, r.pendingPipelines = nil, nil

	info := r.backend.DeviceInfo()
	r.log.Info().Str("device", info.Name).Int("shaders", len(r.shaderCache)).Int("pipelines", len(r.pipelineCache)).Msg("renderer ready")
	return r, nil
}

func (r *renderer) DeviceInfo() vulkan.DeviceInfo {
	return r.backend.DeviceInfo()
}

func (r *renderer) DefaultPipelineDescription() pipeline.Description {
	return r.backend.DefaultPipelineDescription()
}

func (r *renderer) Shader(key string) shader.Shader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shaderCache[key]
}

func (r *renderer) RegisterShaders(shaders ...shader.Shader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range shaders {
		key := s.Key()
		if _, exists := r.shaderCache[key]; exists {
			continue
		}
		if err := r.backend.CreateShaderModule(s); err != nil {
			return err
		}
		r.shaderCache[key] = s
		r.log.Debug().Str("shader", key).Str("stage", s.ShaderType().String()).Msg("shader registered")
	}
	return nil
}

// usesShader reports whether any stage of p has the given shader key.
func usesShader(p pipeline.Pipeline, key string) bool {
	return slices.ContainsFunc(p.Stages(), func(s shader.Shader) bool { return s.Key() == key })
}

// rebuild recreates p with its stages swapped for the cached shaders of the same keys.
func (r *renderer) rebuild(p pipeline.Pipeline) (pipeline.Pipeline, error) {
	opts := []pipeline.PipelineBuilderOption{pipeline.WithDescription(p.Description())}
	if vs := p.Shader(shader.ShaderTypeVertex); vs != nil {
		opts = append(opts, pipeline.WithVertexShader(r.shaderCache[vs.Key()]))
	}
	if fs := p.Shader(shader.ShaderTypeFragment); fs != nil {
		opts = append(opts, pipeline.WithFragmentShader(r.shaderCache[fs.Key()]))
	}
	next := pipeline.NewPipeline(p.PipelineKey(), opts...)
	if err := r.backend.CreatePipeline(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *renderer) ReloadShader(s shader.Shader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := s.Key()
	if _, exists := r.shaderCache[key]; !exists {
		return fmt.Errorf("%w: %q", ErrUnknownShader, key)
	}

	var affected []string
	for pk, p := range r.pipelineCache {
		if usesShader(p, key) {
			affected = append(affected, pk)
		}
	}
	slices.Sort(affected)

	if err := r.backend.CreateShaderModule(s); err != nil {
		return err
	}
	r.shaderCache[key] = s

	var errs []error
	for _, pk := range affected {
		old := r.pipelineCache[pk]
		r.backend.DestroyPipeline(old)
		next, err := r.rebuild(old)
		if err != nil {
			delete(r.pipelineCache, pk)
			errs = append(errs, err)
			continue
		}
		r.pipelineCache[pk] = next
	}
	r.log.Info().Str("shader", key).Strs("pipelines", affected).Msg("shader reloaded")
	return errors.Join(errs...)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		for _, s := range p.Stages() {
			if _, ok := r.shaderCache[s.Key()]; !ok {
				return fmt.Errorf("pipeline %q: %w: %q", key, ErrUnknownShader, s.Key())
			}
		}
		if err := r.backend.CreatePipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
		r.log.Debug().Str("pipeline", key).Msg("pipeline registered")
	}
	return nil
}

func (r *renderer) DestroyPipeline(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pipelineCache[key]; ok {
		r.backend.DestroyPipeline(p)
		delete(r.pipelineCache, key)
	}
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width && height == r.height {
		return nil
	}
	r.width, r.height = width, height

	passChanged, err := r.backend.ConfigureSurface(width, height)
	if err != nil {
		r.log.Error().Int("width", width).Int("height", height).Err(err).Msg("surface reconfiguration failed")
		return err
	}
	if !passChanged {
		return nil
	}

	keys := make([]string, 0, len(r.pipelineCache))
	for k := range r.pipelineCache {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, k := range keys {
		p := r.pipelineCache[k]
		r.backend.DestroyPipeline(p)
		if err := r.backend.CreatePipeline(p); err != nil {
			delete(r.pipelineCache, k)
			errs = append(errs, err)
		}
	}
	r.log.Debug().Int("pipelines", len(keys)).Msg("pipelines rebuilt for new render pass")
	return errors.Join(errs...)
}

func (r *renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.destroyed = true

	for k, p := range r.pipelineCache {
		r.backend.DestroyPipeline(p)
		delete(r.pipelineCache, k)
	}
	for k := range r.shaderCache {
		r.backend.DestroyShaderModule(k)
		delete(r.shaderCache, k)
	}
	r.backend.Destroy()
	r.log.Debug().Msg("renderer destroyed")
}
