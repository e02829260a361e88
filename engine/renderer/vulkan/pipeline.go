package vulkan

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	vk "github.com/goki/vulkan"
)

// ErrNoStages is returned by CreatePipeline when the stage list is empty or references a destroyed shader.
var ErrNoStages = errors.New("vulkan: pipeline has no usable shader stages")

// ShaderStage binds a created shader module to a pipeline stage and entry point.
type ShaderStage struct {
	Shader     *Shader
	Type       shader.ShaderType
	EntryPoint string
}

// Pipeline owns a graphics pipeline together with its layout and descriptor set layouts.
// All of them are created by one CreatePipeline call and destroyed by one DestroyPipeline call.
type Pipeline struct {
	pipeline   Handle
	layout     Handle
	setLayouts []Handle
}

// Handle returns the native pipeline handle.
func (p *Pipeline) Handle() Handle {
	return p.pipeline
}

// Layout returns the native pipeline layout handle.
func (p *Pipeline) Layout() Handle {
	return p.layout
}

// colorBlendAttachments converts the description's blend states. An empty list yields exactly one
// attachment with every channel written and blending disabled.
func colorBlendAttachments(attachments []pipeline.ColorBlendAttachment) []vk.PipelineColorBlendAttachmentState {
	if len(attachments) == 0 {
		attachments = []pipeline.ColorBlendAttachment{pipeline.DefaultColorBlendAttachment()}
	}
	states := make([]vk.PipelineColorBlendAttachmentState, len(attachments))
	for i, a := range attachments {
		states[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         boolToVk(a.BlendEnable),
			SrcColorBlendFactor: mapBlendFactor(a.SrcColorFactor),
			DstColorBlendFactor: mapBlendFactor(a.DstColorFactor),
			ColorBlendOp:        mapBlendOp(a.ColorOp),
			SrcAlphaBlendFactor: mapBlendFactor(a.SrcAlphaFactor),
			DstAlphaBlendFactor: mapBlendFactor(a.DstAlphaFactor),
			AlphaBlendOp:        mapBlendOp(a.AlphaOp),
			ColorWriteMask:      mapColorWriteMask(a.WriteMask),
		}
	}
	return states
}

// dynamicStates always includes viewport and scissor. The stencil compare mask, write mask and
// reference become dynamic only when the stencil test is enabled.
func dynamicStates(desc pipeline.Description) []vk.DynamicState {
	states := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	if desc.DepthStencil.StencilTest {
		states = append(states,
			vk.DynamicStateStencilCompareMask,
			vk.DynamicStateStencilWriteMask,
			vk.DynamicStateStencilReference,
		)
	}
	return states
}

func stencilState(f pipeline.StencilFace) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      mapStencilOp(f.FailOp),
		PassOp:      mapStencilOp(f.PassOp),
		DepthFailOp: mapStencilOp(f.DepthFailOp),
		CompareOp:   mapCompareOp(f.Compare),
		CompareMask: f.CompareMask,
		WriteMask:   f.WriteMask,
		Reference:   f.Reference,
	}
}

// descriptorSetBindings converts one descriptor set. A zero Count is treated as 1.
func descriptorSetBindings(bindings []pipeline.DescriptorBinding) []vk.DescriptorSetLayoutBinding {
	out := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		out[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  mapDescriptorType(b.Type),
			DescriptorCount: max(b.Count, 1),
			StageFlags:      mapStageVisibility(b.Visibility),
		}
	}
	return out
}

// graphicsPipelineDescriptor translates a description and its stages into native create infos.
//
// Parameters:
//   - desc: the fixed-function description
//   - stages: the shader stages, all with live modules
//   - layout: the pipeline layout
//   - renderPass: the render pass the pipeline is compatible with
//
// Returns:
//   - GraphicsPipelineDescriptor: the native description
func graphicsPipelineDescriptor(desc pipeline.Description, stages []ShaderStage, layout, renderPass Handle) GraphicsPipelineDescriptor {
	out := GraphicsPipelineDescriptor{
		Stages:     make([]PipelineStage, len(stages)),
		Layout:     layout,
		RenderPass: renderPass,
	}
	for i, s := range stages {
		entry := s.EntryPoint
		if entry == "" {
			entry = "main"
		}
		out.Stages[i] = PipelineStage{Stage: mapShaderStage(s.Type), Module: s.Shader.module, EntryPoint: entry}
	}

	for _, b := range desc.VertexBindings {
		rate := vk.VertexInputRateVertex
		if b.PerInstance {
			rate = vk.VertexInputRateInstance
		}
		out.VertexBindings = append(out.VertexBindings, vk.VertexInputBindingDescription{
			Binding:   b.Binding,
			Stride:    b.Stride,
			InputRate: rate,
		})
	}
	for _, a := range desc.VertexAttributes {
		out.VertexAttributes = append(out.VertexAttributes, vk.VertexInputAttributeDescription{
			Location: a.Location,
			Binding:  a.Binding,
			Format:   mapVertexFormat(a.Format),
			Offset:   a.Offset,
		})
	}

	out.InputAssembly = vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               mapTopology(desc.Topology),
		PrimitiveRestartEnable: vk.False,
	}

	r := desc.Rasterization
	out.Rasterization = vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        boolToVk(r.DepthClamp),
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		CullMode:                mapCullMode(r.CullMode),
		FrontFace:               mapFrontFace(r.FrontFace),
		DepthBiasEnable:         boolToVk(r.DepthBias),
		DepthBiasConstantFactor: r.DepthBiasConstant,
		DepthBiasClamp:          r.DepthBiasClamp,
		DepthBiasSlopeFactor:    r.DepthBiasSlope,
		LineWidth:               r.LineWidth,
	}

	m := desc.Multisample
	out.Multisample = vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  mapSampleCount(m.Samples),
		SampleShadingEnable:   boolToVk(m.SampleShading),
		MinSampleShading:      m.MinSampleShading,
		AlphaToCoverageEnable: boolToVk(m.AlphaToCoverage),
		AlphaToOneEnable:      boolToVk(m.AlphaToOne),
	}

	ds := desc.DepthStencil
	out.DepthStencil = vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       boolToVk(ds.DepthTest),
		DepthWriteEnable:      boolToVk(ds.DepthWrite),
		DepthCompareOp:        mapCompareOp(ds.DepthCompare),
		DepthBoundsTestEnable: boolToVk(ds.DepthBoundsTest),
		StencilTestEnable:     boolToVk(ds.StencilTest),
		Front:                 stencilState(ds.Front),
		Back:                  stencilState(ds.Back),
		MinDepthBounds:        ds.MinDepthBounds,
		MaxDepthBounds:        ds.MaxDepthBounds,
	}

	out.ColorBlend = colorBlendAttachments(desc.ColorBlendAttachments)
	out.BlendConstants = desc.BlendConstants
	out.DynamicStates = dynamicStates(desc)
	return out
}

// CreatePipeline creates the descriptor set layouts, the pipeline layout and then the graphics pipeline.
// The pipeline layout has no push constant ranges. On failure everything created by this call is
// destroyed in reverse order.
//
// Parameters:
//   - desc: the fixed-function description
//   - stages: the shader stages; at least one is required
//   - renderPass: the render pass the pipeline will be used with, usually Surface.RenderPass
//
// Returns:
//   - *Pipeline: the pipeline and its layouts
//   - error: ErrNoStages, or ErrResourceCreation including a NullHandle render pass
func (c *Context) CreatePipeline(desc pipeline.Description, stages []ShaderStage, renderPass Handle) (*Pipeline, error) {
	if len(stages) == 0 {
		c.log.Error().Str("op", "vkCreateGraphicsPipelines").Msg("pipeline has no shader stages")
		return nil, ErrNoStages
	}
	for _, s := range stages {
		if s.Shader == nil || s.Shader.module == NullHandle {
			c.log.Error().Str("op", "vkCreateGraphicsPipelines").Str("stage", s.Type.String()).Msg("pipeline stage references no shader module")
			return nil, fmt.Errorf("%w: %s stage", ErrNoStages, s.Type)
		}
	}
	if renderPass == NullHandle {
		c.log.Error().Str("op", "vkCreateGraphicsPipelines").Msg("pipeline has no render pass")
		return nil, fmt.Errorf("%w: graphics pipeline: no render pass", ErrResourceCreation)
	}

	var rb rollback
	p := &Pipeline{}

	for set, bindings := range desc.DescriptorSets {
		layout, err := c.drv.CreateDescriptorSetLayout(c.device, descriptorSetBindings(bindings))
		if err != nil {
			rb.run()
			c.log.Error().Str("op", "vkCreateDescriptorSetLayout").Int("set", set).Err(err).Msg("failed to create descriptor set layout")
			return nil, fmt.Errorf("%w: descriptor set layout %d: %w", ErrResourceCreation, set, err)
		}
		p.setLayouts = append(p.setLayouts, layout)
		rb.push("descriptor set layout", func() { c.drv.DestroyDescriptorSetLayout(c.device, layout) })
	}

	layout, err := c.drv.CreatePipelineLayout(c.device, p.setLayouts)
	if err != nil {
		rb.run()
		c.log.Error().Str("op", "vkCreatePipelineLayout").Err(err).Msg("failed to create pipeline layout")
		return nil, fmt.Errorf("%w: pipeline layout: %w", ErrResourceCreation, err)
	}
	p.layout = layout
	rb.push("pipeline layout", func() { c.drv.DestroyPipelineLayout(c.device, layout) })

	handle, err := c.drv.CreateGraphicsPipeline(c.device, graphicsPipelineDescriptor(desc, stages, layout, renderPass))
	if err != nil {
		rb.run()
		c.log.Error().Str("op", "vkCreateGraphicsPipelines").Str("handle", hexHandle(layout)).Err(err).Msg("failed to create graphics pipeline")
		return nil, fmt.Errorf("%w: graphics pipeline: %w", ErrResourceCreation, err)
	}
	p.pipeline = handle

	rb.release()
	c.log.Debug().Str("handle", hexHandle(handle)).Int("stages", len(stages)).Int("sets", len(p.setLayouts)).Msg("graphics pipeline created")
	return p, nil
}

// DestroyPipeline releases the pipeline, then its layout, then its descriptor set layouts.
// A nil or already destroyed pipeline is ignored.
func (c *Context) DestroyPipeline(p *Pipeline) {
	if p == nil {
		return
	}
	if p.pipeline != NullHandle {
		c.drv.DestroyPipeline(c.device, p.pipeline)
		c.log.Debug().Str("handle", hexHandle(p.pipeline)).Msg("graphics pipeline destroyed")
	}
	if p.layout != NullHandle {
		c.drv.DestroyPipelineLayout(c.device, p.layout)
	}
	for i := len(p.setLayouts) - 1; i >= 0; i-- {
		if p.setLayouts[i] != NullHandle {
			c.drv.DestroyDescriptorSetLayout(c.device, p.setLayouts[i])
		}
	}
	p.pipeline, p.layout, p.setLayouts = NullHandle, NullHandle, nil
}
