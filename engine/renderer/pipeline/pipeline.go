package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
)

// ErrMissingVertexShader is returned by Validate when no vertex stage is attached.
var ErrMissingVertexShader = errors.New("pipeline: vertex shader required")

// pipeline is the implementation of the Pipeline interface.
// It holds the declarative description, the shader stages and, once built, the native pipeline object.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// the following shader references are used for pipeline creation, the vertex shader is required before a pipeline is built.

	vertexShader, fragmentShader shader.Shader

	description Description

	// native is the backend pipeline object, nil until the renderer builds it
	native any
}

// Pipeline defines the interface for a graphics pipeline: a Description of its fixed-function state plus
// the vertex and fragment shader stages. The native object is attached by the renderer after creation.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Description returns a copy of the fixed-function configuration.
	//
	// Returns:
	//   - Description: the pipeline description
	Description() Description

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Stages returns the attached shader stages in pipeline order, vertex first.
	//
	// Returns:
	//   - []shader.Shader: the non-nil stages
	Stages() []shader.Shader

	// Validate checks that the pipeline can be built: a vertex stage is present and every vertex attribute
	// references a declared binding with a unique location.
	//
	// Returns:
	//   - error: the first problem found, or nil
	Validate() error

	// Native returns the backend pipeline object, or nil when the pipeline has not been built.
	// Note: The caller is responsible for type asserting the returned value.
	//
	// Returns:
	//   - any: the backend pipeline object
	Native() any

	// SetNative attaches the backend pipeline object.
	//
	// Parameters:
	//   - p: the backend pipeline object, or nil to detach it
	SetNative(p any)
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline interface. The description starts from
// DefaultDescription and is adjusted by the options in order.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		description: DefaultDescription(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Description() Description {
	return p.description.Clone()
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Stages() []shader.Shader {
	stages := make([]shader.Shader, 0, 2)
	if p.vertexShader != nil {
		stages = append(stages, p.vertexShader)
	}
	if p.fragmentShader != nil {
		stages = append(stages, p.fragmentShader)
	}
	return stages
}

func (p *pipeline) Validate() error {
	if p.vertexShader == nil {
		return fmt.Errorf("%s: %w", p.pipelineKey, ErrMissingVertexShader)
	}

	bindings := make(map[uint32]struct{}, len(p.description.VertexBindings))
	for _, b := range p.description.VertexBindings {
		if _, dup := bindings[b.Binding]; dup {
			return fmt.Errorf("%s: duplicate vertex binding %d", p.pipelineKey, b.Binding)
		}
		bindings[b.Binding] = struct{}{}
	}

	locations := make(map[uint32]struct{}, len(p.description.VertexAttributes))
	for _, a := range p.description.VertexAttributes {
		if _, ok := bindings[a.Binding]; !ok {
			return fmt.Errorf("%s: attribute at location %d references undeclared binding %d", p.pipelineKey, a.Location, a.Binding)
		}
		if _, dup := locations[a.Location]; dup {
			return fmt.Errorf("%s: duplicate vertex attribute location %d", p.pipelineKey, a.Location)
		}
		locations[a.Location] = struct{}{}
	}
	return nil
}

func (p *pipeline) Native() any {
	return p.native
}

func (p *pipeline) SetNative(n any) {
	p.native = n
}
