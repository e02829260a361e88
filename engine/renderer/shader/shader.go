package shader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex is the vertex shader type, used for vertex processing in graphics pipelines.
	ShaderTypeVertex

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeCompute:
		return "compute"
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var (
	// ErrNoSource is returned by NewShader when neither SPIR-V bytecode nor WGSL source was provided.
	ErrNoSource = errors.New("shader: no source provided")

	// ErrInvalidBytecode is returned when the bytecode is empty, not a multiple of four bytes, or lacks the SPIR-V magic number.
	ErrInvalidBytecode = errors.New("shader: invalid SPIR-V bytecode")
)

// shader is the implementation of the Shader interface.
// It holds the compiled bytecode plus the reflection data pipelines need to be described without manual layouts.
type shader struct {
	key        string
	shaderType ShaderType
	source     string
	sourcePath string
	code       []byte
	entryPoint string

	spirvVersion spirv.Version
	debugInfo    bool
	validate     bool

	vertexInputs []VertexInput
	resources    []ResourceBinding
}

// Shader defines the interface for a shader stage ready to be turned into a native shader module.
// The bytecode is an opaque SPIR-V buffer, either supplied directly or compiled from WGSL.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL source code, or an empty string when the shader was built from bytecode.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// SourcePath retrieves the file the shader was read from, if any.
	//
	// Returns:
	//   - string: the source file path, or an empty string
	SourcePath() string

	// Code returns the SPIR-V bytecode for this shader. The buffer is handed to the graphics driver unmodified.
	//
	// Returns:
	//   - []byte: the SPIR-V module bytes
	Code() []byte

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "main")
	EntryPoint() string

	// ShaderType returns the stage this shader runs in.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex, ShaderTypeFragment, or ShaderTypeCompute
	ShaderType() ShaderType

	// VertexInputs returns the @location inputs reflected from a WGSL vertex input struct, ordered by location.
	// Returns nil for non-vertex shaders and shaders built from bytecode.
	//
	// Returns:
	//   - []VertexInput: the reflected vertex inputs
	VertexInputs() []VertexInput

	// Resources returns the @group/@binding declarations reflected from WGSL source, ordered by group then binding.
	//
	// Returns:
	//   - []ResourceBinding: the reflected resource bindings
	Resources() []ResourceBinding
}

var _ Shader = &shader{}

// NewShader creates a new Shader with all specified options applied.
// WGSL sources are compiled to SPIR-V immediately; entry point and reflection data are parsed from the source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the shader runs in
//   - opts: a variadic list of ShaderBuilderOption functions providing the source
//
// Returns:
//   - Shader: the compiled shader
//   - error: ErrNoSource, ErrInvalidBytecode, or a compile or read error
func NewShader(key string, shaderType ShaderType, opts ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:          key,
		shaderType:   shaderType,
		spirvVersion: spirv.Version1_3,
		validate:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.build(); err != nil {
		return nil, fmt.Errorf("shader %q: %w", key, err)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) SourcePath() string {
	return s.sourcePath
}

func (s *shader) Code() []byte {
	return s.code
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) VertexInputs() []VertexInput {
	return s.vertexInputs
}

func (s *shader) Resources() []ResourceBinding {
	return s.resources
}

// build resolves the shader's source into SPIR-V bytecode. A path is read first; files ending in
// .spv are taken as bytecode, anything else as WGSL.
func (s *shader) build() error {
	if s.sourcePath != "" && s.source == "" && s.code == nil {
		data, err := os.ReadFile(s.sourcePath)
		if err != nil {
			return fmt.Errorf("failed to read source file %q: %w", s.sourcePath, err)
		}
		if strings.EqualFold(filepath.Ext(s.sourcePath), ".spv") {
			s.code = data
		} else {
			s.source = string(data)
		}
	}

	if s.source != "" {
		if s.entryPoint == "" {
			s.entryPoint = parseEntryPoint(s.source, s.shaderType)
		}
		if s.shaderType == ShaderTypeVertex {
			s.vertexInputs = parseVertexInputs(s.source)
		}
		s.resources = parseResourceBindings(s.source)
		if s.code == nil {
			code, err := naga.CompileWithOptions(s.source, naga.CompileOptions{
				SPIRVVersion: s.spirvVersion,
				Debug:        s.debugInfo,
				Validate:     s.validate,
			})
			if err != nil {
				return fmt.Errorf("failed to compile WGSL: %w", err)
			}
			s.code = code
		}
	}

	if s.code == nil {
		return ErrNoSource
	}
	if err := ValidateBytecode(s.code); err != nil {
		return err
	}
	if s.entryPoint == "" {
		s.entryPoint = "main"
	}
	return nil
}

// ValidateBytecode checks that code is a plausible SPIR-V module: non-empty, four-byte aligned
// and starting with the SPIR-V magic number.
//
// Parameters:
//   - code: the bytecode to check
//
// Returns:
//   - error: ErrInvalidBytecode wrapped with the reason, or nil
func ValidateBytecode(code []byte) error {
	switch {
	case len(code) == 0:
		return fmt.Errorf("%w: empty", ErrInvalidBytecode)
	case len(code)%4 != 0:
		return fmt.Errorf("%w: size %d is not a multiple of 4", ErrInvalidBytecode, len(code))
	case binary.LittleEndian.Uint32(code) != spirvMagic:
		return fmt.Errorf("%w: bad magic 0x%08x", ErrInvalidBytecode, binary.LittleEndian.Uint32(code))
	}
	return nil
}
