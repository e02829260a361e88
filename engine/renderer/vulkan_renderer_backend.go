package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	vk "github.com/goki/vulkan"
)

// offscreenFormat is the color format of the render pass headless pipelines are built against.
const offscreenFormat = vk.FormatB8g8r8a8Srgb

// vulkanRendererBackend implements RendererBackend on a vulkan.Context. It presents to a single Surface,
// or builds pipelines against an offscreen render pass when created without a target.
type vulkanRendererBackend struct {
	log     *logger.Logger
	ctx     *vulkan.Context
	surface *vulkan.Surface

	offscreenPass vulkan.Handle
	modules       map[string]*vulkan.Shader
}

var _ RendererBackend = &vulkanRendererBackend{}

// newVulkanRendererBackend creates the context and, when target is non-nil, the window surface.
// Any failure destroys what was created.
func newVulkanRendererBackend(log *logger.Logger, target SurfaceTarget, opts []vulkan.ContextBuilderOption) (*vulkanRendererBackend, error) {
	b := &vulkanRendererBackend{
		log:     log,
		modules: make(map[string]*vulkan.Shader),
	}

	ctxOpts := append([]vulkan.ContextBuilderOption{vulkan.WithLogger(log)}, opts...)
	if target != nil {
		ctxOpts = append(ctxOpts, vulkan.WithNativeHandles(target.NativeHandles()))
	} else {
		ctxOpts = append(ctxOpts, vulkan.WithPresentation(true, false))
	}

	ctx, err := vulkan.NewContext(ctxOpts...)
	if err != nil {
		return nil, err
	}
	b.ctx = ctx

	if target == nil {
		rp, err := ctx.CreateRenderPass(offscreenFormat)
		if err != nil {
			ctx.Destroy()
			return nil, err
		}
		b.offscreenPass = rp
		return b, nil
	}

	surface, err := ctx.CreateSurface(target.NativeHandles(), clampDimension(target.Width()), clampDimension(target.Height()))
	if err != nil {
		ctx.Destroy()
		return nil, err
	}
	b.surface = surface
	return b, nil
}

func clampDimension(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

func (b *vulkanRendererBackend) renderPass() vulkan.Handle {
	if b.surface != nil {
		return b.surface.RenderPass()
	}
	return b.offscreenPass
}

func (b *vulkanRendererBackend) DeviceInfo() vulkan.DeviceInfo {
	return b.ctx.DeviceInfo()
}

func (b *vulkanRendererBackend) DefaultPipelineDescription() pipeline.Description {
	return b.ctx.DefaultPipelineDescription()
}

func (b *vulkanRendererBackend) CreateShaderModule(s shader.Shader) error {
	module, err := b.ctx.CreateShader(s.Code())
	if err != nil {
		return fmt.Errorf("shader %q: %w", s.Key(), err)
	}
	if old, ok := b.modules[s.Key()]; ok {
		b.ctx.DestroyShader(old)
	}
	b.modules[s.Key()] = module
	return nil
}

func (b *vulkanRendererBackend) DestroyShaderModule(key string) {
	if module, ok := b.modules[key]; ok {
		b.ctx.DestroyShader(module)
		delete(b.modules, key)
	}
}

func (b *vulkanRendererBackend) CreatePipeline(p pipeline.Pipeline) error {
	if err := p.Validate(); err != nil {
		return err
	}

	shaders := p.Stages()
	stages := make([]vulkan.ShaderStage, 0, len(shaders))
	for _, s := range shaders {
		module, ok := b.modules[s.Key()]
		if !ok {
			return fmt.Errorf("pipeline %q: shader %q has no module", p.PipelineKey(), s.Key())
		}
		stages = append(stages, vulkan.ShaderStage{Shader: module, Type: s.ShaderType(), EntryPoint: s.EntryPoint()})
	}

	native, err := b.ctx.CreatePipeline(p.Description(), stages, b.renderPass())
	if err != nil {
		return fmt.Errorf("pipeline %q: %w", p.PipelineKey(), err)
	}
	p.SetNative(native)
	return nil
}

func (b *vulkanRendererBackend) DestroyPipeline(p pipeline.Pipeline) {
	native, ok := p.Native().(*vulkan.Pipeline)
	if !ok {
		return
	}
	b.ctx.DestroyPipeline(native)
	p.SetNative(nil)
}

func (b *vulkanRendererBackend) ConfigureSurface(width, height int) (bool, error) {
	if b.surface == nil {
		return false, nil
	}
	before := b.surface.RenderPass()
	if err := b.surface.Recreate(clampDimension(width), clampDimension(height)); err != nil {
		return before != b.surface.RenderPass(), err
	}
	return before != b.surface.RenderPass(), nil
}

func (b *vulkanRendererBackend) Destroy() {
	for key := range b.modules {
		b.DestroyShaderModule(key)
	}
	if b.surface != nil {
		b.ctx.DestroySurface(b.surface)
		b.surface = nil
	}
	if b.offscreenPass != vulkan.NullHandle {
		b.ctx.DestroyRenderPass(b.offscreenPass)
		b.offscreenPass = vulkan.NullHandle
	}
	b.ctx.Destroy()
}
