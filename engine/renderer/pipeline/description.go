package pipeline

// Topology is the primitive assembly mode of a graphics pipeline.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyTriangleFan
	TopologyLineList
	TopologyLineStrip
	TopologyPointList
)

// CullMode selects which triangle faces are discarded by the rasterizer.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
	CullModeFrontAndBack
)

// FrontFace is the winding order that marks a triangle as front facing.
type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

// SampleCount is the number of rasterization samples per pixel.
type SampleCount int

const (
	SampleCount1 SampleCount = iota
	SampleCount2
	SampleCount4
	SampleCount8
	SampleCount16
	SampleCount32
	SampleCount64
)

// BlendFactor is a source or destination multiplier in the blend equation.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
	BlendFactorConstantColor
	BlendFactorOneMinusConstantColor
	BlendFactorConstantAlpha
	BlendFactorOneMinusConstantAlpha
	BlendFactorSrcAlphaSaturate
)

// BlendOp combines the weighted source and destination terms.
type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// CompareOp is the comparison used by depth and stencil tests.
type CompareOp int

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

// StencilOp is the action applied to a stencil value after a test.
type StencilOp int

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrementAndClamp
	StencilOpDecrementAndClamp
	StencilOpInvert
	StencilOpIncrementAndWrap
	StencilOpDecrementAndWrap
)

// VertexFormat is the memory layout of one vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint32
	VertexFormatUint32x2
	VertexFormatUint32x3
	VertexFormatUint32x4
	VertexFormatSint32
	VertexFormatSint32x2
	VertexFormatSint32x3
	VertexFormatSint32x4
	VertexFormatUnorm8x4
	VertexFormatSnorm8x4
	VertexFormatUint8x4
)

// Size returns the byte size of one attribute of this format, or 0 for an unknown value.
func (f VertexFormat) Size() uint32 {
	switch f {
	case VertexFormatFloat32, VertexFormatUint32, VertexFormatSint32,
		VertexFormatUnorm8x4, VertexFormatSnorm8x4, VertexFormatUint8x4:
		return 4
	case VertexFormatFloat32x2, VertexFormatUint32x2, VertexFormatSint32x2:
		return 8
	case VertexFormatFloat32x3, VertexFormatUint32x3, VertexFormatSint32x3:
		return 12
	case VertexFormatFloat32x4, VertexFormatUint32x4, VertexFormatSint32x4:
		return 16
	}
	return 0
}

// ColorWriteMask selects which color channels a blend attachment writes.
type ColorWriteMask uint8

const (
	ColorWriteMaskR ColorWriteMask = 1 << iota
	ColorWriteMaskG
	ColorWriteMaskB
	ColorWriteMaskA

	ColorWriteMaskNone ColorWriteMask = 0
	ColorWriteMaskAll                 = ColorWriteMaskR | ColorWriteMaskG | ColorWriteMaskB | ColorWriteMaskA
)

// DescriptorType is the kind of resource bound at a descriptor slot.
type DescriptorType int

const (
	DescriptorTypeUniformBuffer DescriptorType = iota
	DescriptorTypeStorageBuffer
	DescriptorTypeSampler
	DescriptorTypeSampledImage
	DescriptorTypeCombinedImageSampler
	DescriptorTypeStorageImage
)

// StageVisibility is a bitmask of shader stages that can access a descriptor.
type StageVisibility uint8

const (
	StageVertex StageVisibility = 1 << iota
	StageFragment
	StageCompute

	StageAllGraphics = StageVertex | StageFragment
)

// Rasterization is the fixed-function rasterizer state.
type Rasterization struct {
	CullMode  CullMode
	FrontFace FrontFace

	DepthClamp bool

	DepthBias         bool
	DepthBiasConstant float32
	DepthBiasClamp    float32
	DepthBiasSlope    float32

	LineWidth float32
}

// Multisample is the fixed-function multisample state.
type Multisample struct {
	Samples          SampleCount
	SampleShading    bool
	MinSampleShading float32
	AlphaToCoverage  bool
	AlphaToOne       bool
}

// ColorBlendAttachment is the blend state of one color attachment.
type ColorBlendAttachment struct {
	BlendEnable bool

	SrcColorFactor BlendFactor
	DstColorFactor BlendFactor
	ColorOp        BlendOp

	SrcAlphaFactor BlendFactor
	DstAlphaFactor BlendFactor
	AlphaOp        BlendOp

	WriteMask ColorWriteMask
}

// DefaultColorBlendAttachment is the attachment used when a description lists none:
// every channel written, blending off, source replaces destination.
func DefaultColorBlendAttachment() ColorBlendAttachment {
	return ColorBlendAttachment{
		BlendEnable:    false,
		SrcColorFactor: BlendFactorOne,
		DstColorFactor: BlendFactorZero,
		ColorOp:        BlendOpAdd,
		SrcAlphaFactor: BlendFactorOne,
		DstAlphaFactor: BlendFactorZero,
		AlphaOp:        BlendOpAdd,
		WriteMask:      ColorWriteMaskAll,
	}
}

// AlphaBlendAttachment is straight alpha blending over the destination.
func AlphaBlendAttachment() ColorBlendAttachment {
	return ColorBlendAttachment{
		BlendEnable:    true,
		SrcColorFactor: BlendFactorSrcAlpha,
		DstColorFactor: BlendFactorOneMinusSrcAlpha,
		ColorOp:        BlendOpAdd,
		SrcAlphaFactor: BlendFactorOne,
		DstAlphaFactor: BlendFactorOneMinusSrcAlpha,
		AlphaOp:        BlendOpAdd,
		WriteMask:      ColorWriteMaskAll,
	}
}

// StencilFace is the stencil state for one triangle facing.
type StencilFace struct {
	FailOp      StencilOp
	PassOp      StencilOp
	DepthFailOp StencilOp
	Compare     CompareOp
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

// DepthStencil is the fixed-function depth and stencil state.
type DepthStencil struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCompare CompareOp

	DepthBoundsTest bool
	MinDepthBounds  float32
	MaxDepthBounds  float32

	StencilTest bool
	Front       StencilFace
	Back        StencilFace
}

// VertexBinding is one vertex buffer binding slot.
type VertexBinding struct {
	Binding     uint32
	Stride      uint32
	PerInstance bool
}

// VertexAttribute is one attribute read from a vertex binding.
type VertexAttribute struct {
	Location uint32
	Binding  uint32
	Format   VertexFormat
	Offset   uint32
}

// DescriptorBinding is one slot in a descriptor set layout.
type DescriptorBinding struct {
	Binding    uint32
	Type       DescriptorType
	Count      uint32
	Visibility StageVisibility
}

// Description is the complete fixed-function configuration of a graphics pipeline.
// Shader stages and the target render pass are supplied separately at creation time.
type Description struct {
	Topology      Topology
	Rasterization Rasterization
	Multisample   Multisample

	// ColorBlendAttachments lists one state per color attachment. When empty, a single
	// DefaultColorBlendAttachment is used.
	ColorBlendAttachments []ColorBlendAttachment
	BlendConstants        [4]float32

	DepthStencil DepthStencil

	VertexBindings   []VertexBinding
	VertexAttributes []VertexAttribute

	// DescriptorSets lists the bindings of each set, indexed by set number.
	DescriptorSets [][]DescriptorBinding
}

// DefaultDescription returns the baseline fixed-function state: triangle lists, no culling,
// counter-clockwise front faces, single sampling, depth and stencil disabled.
//
// Returns:
//   - Description: a fresh description the caller may modify freely
func DefaultDescription() Description {
	stencil := StencilFace{
		FailOp:      StencilOpKeep,
		PassOp:      StencilOpKeep,
		DepthFailOp: StencilOpKeep,
		Compare:     CompareOpAlways,
		CompareMask: 0xFF,
		WriteMask:   0xFF,
	}
	return Description{
		Topology: TopologyTriangleList,
		Rasterization: Rasterization{
			CullMode:  CullModeNone,
			FrontFace: FrontFaceCounterClockwise,
			LineWidth: 1,
		},
		Multisample: Multisample{
			Samples:          SampleCount1,
			MinSampleShading: 1,
		},
		DepthStencil: DepthStencil{
			DepthCompare:   CompareOpLess,
			MaxDepthBounds: 1,
			Front:          stencil,
			Back:           stencil,
		},
	}
}

// Clone returns a deep copy of d so slices can be modified without aliasing.
func (d Description) Clone() Description {
	out := d
	out.ColorBlendAttachments = append([]ColorBlendAttachment(nil), d.ColorBlendAttachments...)
	out.VertexBindings = append([]VertexBinding(nil), d.VertexBindings...)
	out.VertexAttributes = append([]VertexAttribute(nil), d.VertexAttributes...)
	if d.DescriptorSets != nil {
		out.DescriptorSets = make([][]DescriptorBinding, len(d.DescriptorSets))
		for i, set := range d.DescriptorSets {
			out.DescriptorSets[i] = append([]DescriptorBinding(nil), set...)
		}
	}
	return out
}
