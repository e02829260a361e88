package main

import (
	"encoding/binary"
	"testing"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
)

func spirv(t *testing.T, key string, stage shader.ShaderType) shader.Shader {
	t.Helper()
	code := make([]byte, 20)
	binary.LittleEndian.PutUint32(code, 0x07230203)
	s, err := shader.NewShader(key, stage, shader.WithSPIRV(code))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPairPipelines(t *testing.T) {
	shaders := map[string]shader.Shader{
		"tri.vert":   spirv(t, "tri.vert", shader.ShaderTypeVertex),
		"tri.frag":   spirv(t, "tri.frag", shader.ShaderTypeFragment),
		"depth.vert": spirv(t, "depth.vert", shader.ShaderTypeVertex),
		"lone.frag":  spirv(t, "lone.frag", shader.ShaderTypeFragment),
		"cull.comp":  spirv(t, "cull.comp", shader.ShaderTypeCompute),
	}
	base := pipeline.DefaultDescription()
	base.CullMode = pipeline.CullModeFront

	got := pairPipelines(base, shaders)
	if len(got) != 2 || got[0].PipelineKey() != "depth" || got[1].PipelineKey() != "tri" {
		t.Fatalf("pipelines = %v", got)
	}
	if got[0].Shader(shader.ShaderTypeFragment) != nil {
		t.Error("depth pipeline picked up a fragment stage")
	}
	if got[1].Shader(shader.ShaderTypeFragment) != shaders["tri.frag"] {
		t.Error("tri pipeline missing its fragment stage")
	}
	if got[1].Description().CullMode != pipeline.CullModeFront {
		t.Error("base description not applied")
	}
	for _, p := range got {
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", p.PipelineKey(), err)
		}
	}

	gs := graphicsShaders(shaders)
	if len(gs) != 4 || gs[0].Key() != "depth.vert" {
		t.Fatalf("graphicsShaders = %v", gs)
	}
}
