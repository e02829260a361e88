package pipeline

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithDescription replaces the whole fixed-function description. Options after it still apply on top.
//
// Parameters:
//   - d: the description to use
//
// Returns:
//   - PipelineBuilderOption: a function that sets the description for this pipeline
func WithDescription(d Description) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description = d.Clone()
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use (e.g. TopologyTriangleList, TopologyLineStrip)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology Topology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.Topology = topology
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use (e.g. CullModeNone, CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.Rasterization.CullMode = mode
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the winding that marks a front face
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.Rasterization.FrontFace = frontFace
	}
}

// WithDepthTest enables depth testing with the given compare op and optional depth writes.
//
// Parameters:
//   - compare: the depth comparison
//   - write: whether passing fragments write depth
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth state for this pipeline
func WithDepthTest(compare CompareOp, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.DepthStencil.DepthTest = true
		p.description.DepthStencil.DepthWrite = write
		p.description.DepthStencil.DepthCompare = compare
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - constant: the constant depth bias to apply
//   - clamp: the maximum bias, 0 for unclamped
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(constant, clamp, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.Rasterization.DepthBias = true
		p.description.Rasterization.DepthBiasConstant = constant
		p.description.Rasterization.DepthBiasClamp = clamp
		p.description.Rasterization.DepthBiasSlope = slopeScale
	}
}

// WithMultisample sets the sample count and optional per-sample shading rate.
//
// Parameters:
//   - samples: the rasterization sample count
//   - minSampleShading: the minimum fraction of samples shaded, 0 disables sample shading
//
// Returns:
//   - PipelineBuilderOption: a function that sets the multisample state for this pipeline
func WithMultisample(samples SampleCount, minSampleShading float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.Multisample.Samples = samples
		p.description.Multisample.SampleShading = minSampleShading > 0
		if minSampleShading > 0 {
			p.description.Multisample.MinSampleShading = minSampleShading
		}
	}
}

// WithColorBlendAttachments sets one blend state per color attachment.
//
// Parameters:
//   - attachments: the per-attachment blend states, in attachment order
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color blend attachments for this pipeline
func WithColorBlendAttachments(attachments ...ColorBlendAttachment) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.ColorBlendAttachments = append([]ColorBlendAttachment(nil), attachments...)
	}
}

// WithBlending is shorthand for a single alpha-blended color attachment when enabled,
// or the default replace attachment when not.
//
// Parameters:
//   - enabled: whether alpha blending is enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlending(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		if enabled {
			p.description.ColorBlendAttachments = []ColorBlendAttachment{AlphaBlendAttachment()}
		} else {
			p.description.ColorBlendAttachments = []ColorBlendAttachment{DefaultColorBlendAttachment()}
		}
	}
}

// WithStencil enables stencil testing with the same state for front and back faces.
//
// Parameters:
//   - face: the stencil state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the stencil state for this pipeline
func WithStencil(face StencilFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.DepthStencil.StencilTest = true
		p.description.DepthStencil.Front = face
		p.description.DepthStencil.Back = face
	}
}

// WithVertexLayout sets the vertex bindings and attributes explicitly.
//
// Parameters:
//   - bindings: the vertex buffer bindings
//   - attributes: the vertex attributes
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayout(bindings []VertexBinding, attributes []VertexAttribute) PipelineBuilderOption {
	return func(p *pipeline) {
		p.description.VertexBindings = append([]VertexBinding(nil), bindings...)
		p.description.VertexAttributes = append([]VertexAttribute(nil), attributes...)
	}
}

// WithVertexLayoutFromShader derives a tightly packed, per-vertex layout on binding 0 from the
// vertex shader's reflected @location inputs. Inputs with a type that has no VertexFormat are skipped.
// Has no effect when the shader carries no reflection data.
//
// Parameters:
//   - s: the vertex shader to reflect
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layout for this pipeline
func WithVertexLayoutFromShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		inputs := s.VertexInputs()
		if len(inputs) == 0 {
			return
		}
		attrs := make([]VertexAttribute, 0, len(inputs))
		var offset uint32
		for _, in := range inputs {
			format, ok := VertexFormatFromWGSL(in.TypeName)
			if !ok {
				continue
			}
			attrs = append(attrs, VertexAttribute{
				Location: in.Location,
				Binding:  0,
				Format:   format,
				Offset:   offset,
			})
			offset += format.Size()
		}
		p.description.VertexBindings = []VertexBinding{{Binding: 0, Stride: offset}}
		p.description.VertexAttributes = attrs
	}
}

// WithDescriptorSet sets the bindings of one descriptor set, growing the set list as needed.
//
// Parameters:
//   - set: the set index
//   - bindings: the bindings in the set
//
// Returns:
//   - PipelineBuilderOption: a function that sets the descriptor set for this pipeline
func WithDescriptorSet(set uint32, bindings ...DescriptorBinding) PipelineBuilderOption {
	return func(p *pipeline) {
		for uint32(len(p.description.DescriptorSets)) <= set {
			p.description.DescriptorSets = append(p.description.DescriptorSets, nil)
		}
		p.description.DescriptorSets[set] = append([]DescriptorBinding(nil), bindings...)
	}
}

// WithDescriptorSetsFromShaders builds descriptor set layouts from the @group/@binding declarations of the
// given shaders. A binding declared by several stages is merged with a combined visibility.
//
// Parameters:
//   - shaders: the shaders to reflect
//
// Returns:
//   - PipelineBuilderOption: a function that sets the descriptor sets for this pipeline
func WithDescriptorSetsFromShaders(shaders ...shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		var sets [][]DescriptorBinding
		for _, s := range shaders {
			if s == nil {
				continue
			}
			vis := visibilityFor(s.ShaderType())
			for _, res := range s.Resources() {
				for uint32(len(sets)) <= res.Group {
					sets = append(sets, nil)
				}
				merged := false
				for i := range sets[res.Group] {
					if sets[res.Group][i].Binding == res.Binding {
						sets[res.Group][i].Visibility |= vis
						merged = true
						break
					}
				}
				if !merged {
					sets[res.Group] = append(sets[res.Group], DescriptorBinding{
						Binding:    res.Binding,
						Type:       descriptorTypeFor(res),
						Count:      1,
						Visibility: vis,
					})
				}
			}
		}
		p.description.DescriptorSets = sets
	}
}

// VertexFormatFromWGSL maps a WGSL scalar or vector type name to a VertexFormat.
//
// Parameters:
//   - typeName: the WGSL type, in either long (vec3<f32>) or short (vec3f) form
//
// Returns:
//   - VertexFormat: the matching format
//   - bool: false when the type has no vertex format
func VertexFormatFromWGSL(typeName string) (VertexFormat, bool) {
	switch strings.ReplaceAll(typeName, " ", "") {
	case "f32":
		return VertexFormatFloat32, true
	case "vec2<f32>", "vec2f":
		return VertexFormatFloat32x2, true
	case "vec3<f32>", "vec3f":
		return VertexFormatFloat32x3, true
	case "vec4<f32>", "vec4f":
		return VertexFormatFloat32x4, true
	case "u32":
		return VertexFormatUint32, true
	case "vec2<u32>", "vec2u":
		return VertexFormatUint32x2, true
	case "vec3<u32>", "vec3u":
		return VertexFormatUint32x3, true
	case "vec4<u32>", "vec4u":
		return VertexFormatUint32x4, true
	case "i32":
		return VertexFormatSint32, true
	case "vec2<i32>", "vec2i":
		return VertexFormatSint32x2, true
	case "vec3<i32>", "vec3i":
		return VertexFormatSint32x3, true
	case "vec4<i32>", "vec4i":
		return VertexFormatSint32x4, true
	}
	return 0, false
}

func visibilityFor(t shader.ShaderType) StageVisibility {
	switch t {
	case shader.ShaderTypeVertex:
		return StageVertex
	case shader.ShaderTypeFragment:
		return StageFragment
	case shader.ShaderTypeCompute:
		return StageCompute
	}
	return 0
}

func descriptorTypeFor(res shader.ResourceBinding) DescriptorType {
	space := res.AddressSpace
	if i := strings.IndexByte(space, ','); i >= 0 {
		space = strings.TrimSpace(space[:i])
	}
	switch {
	case space == "uniform":
		return DescriptorTypeUniformBuffer
	case space == "storage":
		return DescriptorTypeStorageBuffer
	case strings.HasPrefix(res.TypeName, "texture_storage"):
		return DescriptorTypeStorageImage
	case strings.HasPrefix(res.TypeName, "texture"):
		return DescriptorTypeSampledImage
	case strings.HasPrefix(res.TypeName, "sampler"):
		return DescriptorTypeSampler
	}
	return DescriptorTypeUniformBuffer
}
