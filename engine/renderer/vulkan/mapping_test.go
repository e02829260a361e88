package vulkan

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	vk "github.com/goki/vulkan"
)

func TestMappingValues(t *testing.T) {
	if got := mapCullMode(pipeline.CullModeBack); got != vk.CullModeFlags(vk.CullModeBackBit) {
		t.Errorf("cull back = %v", got)
	}
	if got := mapFrontFace(pipeline.FrontFaceClockwise); got != vk.FrontFaceClockwise {
		t.Errorf("front face = %v", got)
	}
	if got := mapSampleCount(pipeline.SampleCount4); got != vk.SampleCount4Bit {
		t.Errorf("samples = %v", got)
	}
	if got := mapBlendFactor(pipeline.BlendFactorOneMinusSrcAlpha); got != vk.BlendFactorOneMinusSrcAlpha {
		t.Errorf("blend factor = %v", got)
	}
	if got := mapCompareOp(pipeline.CompareOpLessOrEqual); got != vk.CompareOpLessOrEqual {
		t.Errorf("compare op = %v", got)
	}
	if got := mapDescriptorType(pipeline.DescriptorTypeStorageBuffer); got != vk.DescriptorTypeStorageBuffer {
		t.Errorf("descriptor type = %v", got)
	}
	want := vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit)
	if got := mapStageVisibility(pipeline.StageAllGraphics); got != want {
		t.Errorf("visibility = %v, want %v", got, want)
	}
	if got := mapColorWriteMask(pipeline.ColorWriteMaskR | pipeline.ColorWriteMaskA); got != vk.ColorComponentFlags(vk.ColorComponentRBit|vk.ColorComponentABit) {
		t.Errorf("write mask = %v", got)
	}
	if got := mapColorWriteMask(pipeline.ColorWriteMaskNone); got != 0 {
		t.Errorf("empty write mask = %v", got)
	}
	if boolToVk(true) != vk.True || boolToVk(false) != vk.False {
		t.Error("boolToVk")
	}
}

func TestMappingPanicsOnUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		call func()
	}{
		{"topology", func() { mapTopology(pipeline.Topology(99)) }},
		{"cull mode", func() { mapCullMode(pipeline.CullMode(99)) }},
		{"front face", func() { mapFrontFace(pipeline.FrontFace(99)) }},
		{"sample count", func() { mapSampleCount(pipeline.SampleCount(99)) }},
		{"blend factor", func() { mapBlendFactor(pipeline.BlendFactor(99)) }},
		{"blend op", func() { mapBlendOp(pipeline.BlendOp(99)) }},
		{"compare op", func() { mapCompareOp(pipeline.CompareOp(99)) }},
		{"stencil op", func() { mapStencilOp(pipeline.StencilOp(99)) }},
		{"vertex format", func() { mapVertexFormat(pipeline.VertexFormat(99)) }},
		{"descriptor type", func() { mapDescriptorType(pipeline.DescriptorType(99)) }},
		{"stage visibility", func() { mapStageVisibility(pipeline.StageVisibility(0x80)) }},
		{"shader stage", func() { mapShaderStage(shader.ShaderType(99)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.call()
		})
	}
}
