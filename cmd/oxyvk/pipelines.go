package main

import (
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
)

// pairPipelines builds one pipeline per "<name>.vert" shader, named <name>, with the "<name>.frag" shader as
// its fragment stage when present. The vertex layout and descriptor sets are reflected from the shaders.
func pairPipelines(base pipeline.Description, shaders map[string]shader.Shader) []pipeline.Pipeline {
	var names []string
	for key, s := range shaders {
		if s.ShaderType() == shader.ShaderTypeVertex && strings.HasSuffix(key, ".vert") {
			names = append(names, strings.TrimSuffix(key, ".vert"))
		}
	}
	slices.Sort(names)

	out := make([]pipeline.Pipeline, 0, len(names))
	for _, name := range names {
		vs := shaders[name+".vert"]
		fs := shaders[name+".frag"]
		opts := []pipeline.PipelineBuilderOption{
			pipeline.WithDescription(base),
			pipeline.WithVertexShader(vs),
			pipeline.WithVertexLayoutFromShader(vs),
		}
		if fs != nil && fs.ShaderType() == shader.ShaderTypeFragment {
			opts = append(opts, pipeline.WithFragmentShader(fs), pipeline.WithDescriptorSetsFromShaders(vs, fs))
		} else {
			opts = append(opts, pipeline.WithDescriptorSetsFromShaders(vs))
		}
		out = append(out, pipeline.NewPipeline(name, opts...))
	}
	return out
}

// graphicsShaders drops compute shaders, which no graphics pipeline can use.
func graphicsShaders(shaders map[string]shader.Shader) []shader.Shader {
	keys := make([]string, 0, len(shaders))
	for k, s := range shaders {
		if s.ShaderType() != shader.ShaderTypeCompute {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := make([]shader.Shader, len(keys))
	for i, k := range keys {
		out[i] = shaders[k]
	}
	return out
}
