package vulkan

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	vk "github.com/goki/vulkan"
)

// The map functions translate the closed enumerations of the pipeline package into native values.
// Every value those enumerations define has an entry; anything else is a programming error and panics.

func mapTopology(t pipeline.Topology) vk.PrimitiveTopology {
	switch t {
	case pipeline.TopologyTriangleList:
		return vk.PrimitiveTopologyTriangleList
	case pipeline.TopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	case pipeline.TopologyTriangleFan:
		return vk.PrimitiveTopologyTriangleFan
	case pipeline.TopologyLineList:
		return vk.PrimitiveTopologyLineList
	case pipeline.TopologyLineStrip:
		return vk.PrimitiveTopologyLineStrip
	case pipeline.TopologyPointList:
		return vk.PrimitiveTopologyPointList
	}
	panic(fmt.Sprintf("vulkan: unmapped topology %d", t))
}

func mapCullMode(c pipeline.CullMode) vk.CullModeFlags {
	switch c {
	case pipeline.CullModeNone:
		return vk.CullModeFlags(vk.CullModeNone)
	case pipeline.CullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case pipeline.CullModeBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	case pipeline.CullModeFrontAndBack:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	}
	panic(fmt.Sprintf("vulkan: unmapped cull mode %d", c))
}

func mapFrontFace(f pipeline.FrontFace) vk.FrontFace {
	switch f {
	case pipeline.FrontFaceCounterClockwise:
		return vk.FrontFaceCounterClockwise
	case pipeline.FrontFaceClockwise:
		return vk.FrontFaceClockwise
	}
	panic(fmt.Sprintf("vulkan: unmapped front face %d", f))
}

func mapSampleCount(s pipeline.SampleCount) vk.SampleCountFlagBits {
	switch s {
	case pipeline.SampleCount1:
		return vk.SampleCount1Bit
	case pipeline.SampleCount2:
		return vk.SampleCount2Bit
	case pipeline.SampleCount4:
		return vk.SampleCount4Bit
	case pipeline.SampleCount8:
		return vk.SampleCount8Bit
	case pipeline.SampleCount16:
		return vk.SampleCount16Bit
	case pipeline.SampleCount32:
		return vk.SampleCount32Bit
	case pipeline.SampleCount64:
		return vk.SampleCount64Bit
	}
	panic(fmt.Sprintf("vulkan: unmapped sample count %d", s))
}

func mapBlendFactor(f pipeline.BlendFactor) vk.BlendFactor {
	switch f {
	case pipeline.BlendFactorZero:
		return vk.BlendFactorZero
	case pipeline.BlendFactorOne:
		return vk.BlendFactorOne
	case pipeline.BlendFactorSrcColor:
		return vk.BlendFactorSrcColor
	case pipeline.BlendFactorOneMinusSrcColor:
		return vk.BlendFactorOneMinusSrcColor
	case pipeline.BlendFactorDstColor:
		return vk.BlendFactorDstColor
	case pipeline.BlendFactorOneMinusDstColor:
		return vk.BlendFactorOneMinusDstColor
	case pipeline.BlendFactorSrcAlpha:
		return vk.BlendFactorSrcAlpha
	case pipeline.BlendFactorOneMinusSrcAlpha:
		return vk.BlendFactorOneMinusSrcAlpha
	case pipeline.BlendFactorDstAlpha:
		return vk.BlendFactorDstAlpha
	case pipeline.BlendFactorOneMinusDstAlpha:
		return vk.BlendFactorOneMinusDstAlpha
	case pipeline.BlendFactorConstantColor:
		return vk.BlendFactorConstantColor
	case pipeline.BlendFactorOneMinusConstantColor:
		return vk.BlendFactorOneMinusConstantColor
	case pipeline.BlendFactorConstantAlpha:
		return vk.BlendFactorConstantAlpha
	case pipeline.BlendFactorOneMinusConstantAlpha:
		return vk.BlendFactorOneMinusConstantAlpha
	case pipeline.BlendFactorSrcAlphaSaturate:
		return vk.BlendFactorSrcAlphaSaturate
	}
	panic(fmt.Sprintf("vulkan: unmapped blend factor %d", f))
}

func mapBlendOp(op pipeline.BlendOp) vk.BlendOp {
	switch op {
	case pipeline.BlendOpAdd:
		return vk.BlendOpAdd
	case pipeline.BlendOpSubtract:
		return vk.BlendOpSubtract
	case pipeline.BlendOpReverseSubtract:
		return vk.BlendOpReverseSubtract
	case pipeline.BlendOpMin:
		return vk.BlendOpMin
	case pipeline.BlendOpMax:
		return vk.BlendOpMax
	}
	panic(fmt.Sprintf("vulkan: unmapped blend op %d", op))
}

func mapCompareOp(op pipeline.CompareOp) vk.CompareOp {
	switch op {
	case pipeline.CompareOpNever:
		return vk.CompareOpNever
	case pipeline.CompareOpLess:
		return vk.CompareOpLess
	case pipeline.CompareOpEqual:
		return vk.CompareOpEqual
	case pipeline.CompareOpLessOrEqual:
		return vk.CompareOpLessOrEqual
	case pipeline.CompareOpGreater:
		return vk.CompareOpGreater
	case pipeline.CompareOpNotEqual:
		return vk.CompareOpNotEqual
	case pipeline.CompareOpGreaterOrEqual:
		return vk.CompareOpGreaterOrEqual
	case pipeline.CompareOpAlways:
		return vk.CompareOpAlways
	}
	panic(fmt.Sprintf("vulkan: unmapped compare op %d", op))
}

func mapStencilOp(op pipeline.StencilOp) vk.StencilOp {
	switch op {
	case pipeline.StencilOpKeep:
		return vk.StencilOpKeep
	case pipeline.StencilOpZero:
		return vk.StencilOpZero
	case pipeline.StencilOpReplace:
		return vk.StencilOpReplace
	case pipeline.StencilOpIncrementAndClamp:
		return vk.StencilOpIncrementAndClamp
	case pipeline.StencilOpDecrementAndClamp:
		return vk.StencilOpDecrementAndClamp
	case pipeline.StencilOpInvert:
		return vk.StencilOpInvert
	case pipeline.StencilOpIncrementAndWrap:
		return vk.StencilOpIncrementAndWrap
	case pipeline.StencilOpDecrementAndWrap:
		return vk.StencilOpDecrementAndWrap
	}
	panic(fmt.Sprintf("vulkan: unmapped stencil op %d", op))
}

func mapVertexFormat(f pipeline.VertexFormat) vk.Format {
	switch f {
	case pipeline.VertexFormatFloat32:
		return vk.FormatR32Sfloat
	case pipeline.VertexFormatFloat32x2:
		return vk.FormatR32g32Sfloat
	case pipeline.VertexFormatFloat32x3:
		return vk.FormatR32g32b32Sfloat
	case pipeline.VertexFormatFloat32x4:
		return vk.FormatR32g32b32a32Sfloat
	case pipeline.VertexFormatUint32:
		return vk.FormatR32Uint
	case pipeline.VertexFormatUint32x2:
		return vk.FormatR32g32Uint
	case pipeline.VertexFormatUint32x3:
		return vk.FormatR32g32b32Uint
	case pipeline.VertexFormatUint32x4:
		return vk.FormatR32g32b32a32Uint
	case pipeline.VertexFormatSint32:
		return vk.FormatR32Sint
	case pipeline.VertexFormatSint32x2:
		return vk.FormatR32g32Sint
	case pipeline.VertexFormatSint32x3:
		return vk.FormatR32g32b32Sint
	case pipeline.VertexFormatSint32x4:
		return vk.FormatR32g32b32a32Sint
	case pipeline.VertexFormatUnorm8x4:
		return vk.FormatR8g8b8a8Unorm
	case pipeline.VertexFormatSnorm8x4:
		return vk.FormatR8g8b8a8Snorm
	case pipeline.VertexFormatUint8x4:
		return vk.FormatR8g8b8a8Uint
	}
	panic(fmt.Sprintf("vulkan: unmapped vertex format %d", f))
}

func mapDescriptorType(t pipeline.DescriptorType) vk.DescriptorType {
	switch t {
	case pipeline.DescriptorTypeUniformBuffer:
		return vk.DescriptorTypeUniformBuffer
	case pipeline.DescriptorTypeStorageBuffer:
		return vk.DescriptorTypeStorageBuffer
	case pipeline.DescriptorTypeSampler:
		return vk.DescriptorTypeSampler
	case pipeline.DescriptorTypeSampledImage:
		return vk.DescriptorTypeSampledImage
	case pipeline.DescriptorTypeCombinedImageSampler:
		return vk.DescriptorTypeCombinedImageSampler
	case pipeline.DescriptorTypeStorageImage:
		return vk.DescriptorTypeStorageImage
	}
	panic(fmt.Sprintf("vulkan: unmapped descriptor type %d", t))
}

// mapStageVisibility converts a visibility mask. Bits outside the defined stages panic.
func mapStageVisibility(v pipeline.StageVisibility) vk.ShaderStageFlags {
	if v&^(pipeline.StageVertex|pipeline.StageFragment|pipeline.StageCompute) != 0 {
		panic(fmt.Sprintf("vulkan: unmapped stage visibility %#x", uint8(v)))
	}
	var flags vk.ShaderStageFlagBits
	if v&pipeline.StageVertex != 0 {
		flags |= vk.ShaderStageVertexBit
	}
	if v&pipeline.StageFragment != 0 {
		flags |= vk.ShaderStageFragmentBit
	}
	if v&pipeline.StageCompute != 0 {
		flags |= vk.ShaderStageComputeBit
	}
	return vk.ShaderStageFlags(flags)
}

func mapShaderStage(t shader.ShaderType) vk.ShaderStageFlagBits {
	switch t {
	case shader.ShaderTypeVertex:
		return vk.ShaderStageVertexBit
	case shader.ShaderTypeFragment:
		return vk.ShaderStageFragmentBit
	case shader.ShaderTypeCompute:
		return vk.ShaderStageComputeBit
	}
	panic(fmt.Sprintf("vulkan: unmapped shader stage %d", t))
}

func mapColorWriteMask(m pipeline.ColorWriteMask) vk.ColorComponentFlags {
	var flags vk.ColorComponentFlagBits
	if m&pipeline.ColorWriteMaskR != 0 {
		flags |= vk.ColorComponentRBit
	}
	if m&pipeline.ColorWriteMaskG != 0 {
		flags |= vk.ColorComponentGBit
	}
	if m&pipeline.ColorWriteMaskB != 0 {
		flags |= vk.ColorComponentBBit
	}
	if m&pipeline.ColorWriteMaskA != 0 {
		flags |= vk.ColorComponentABit
	}
	return vk.ColorComponentFlags(flags)
}

func boolToVk(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
