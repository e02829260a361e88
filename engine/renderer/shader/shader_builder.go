package shader

import "github.com/gogpu/naga/spirv"

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*shader)

// WithSPIRV supplies precompiled SPIR-V bytecode. The buffer is kept as-is.
//
// Parameters:
//   - code: the SPIR-V module bytes
//
// Returns:
//   - ShaderBuilderOption: a function that applies the bytecode to a shader
func WithSPIRV(code []byte) ShaderBuilderOption {
	return func(s *shader) {
		s.code = code
	}
}

// WithWGSL supplies WGSL source which NewShader compiles to SPIR-V.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source to a shader
func WithWGSL(source string) ShaderBuilderOption {
	return func(s *shader) {
		s.source = source
	}
}

// WithSourceFromPath reads the shader from disk. Files with a .spv extension are treated as bytecode, anything else as WGSL.
//
// Parameters:
//   - path: the file path to read
//
// Returns:
//   - ShaderBuilderOption: a function that applies the path to a shader
func WithSourceFromPath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithEntryPoint overrides the entry point name. Without it the name is parsed from WGSL, or "main" for bytecode.
//
// Parameters:
//   - name: the entry point function name
//
// Returns:
//   - ShaderBuilderOption: a function that applies the entry point to a shader
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithSPIRVVersion sets the SPIR-V version targeted when compiling WGSL. Defaults to 1.3.
//
// Parameters:
//   - version: the target SPIR-V version
//
// Returns:
//   - ShaderBuilderOption: a function that applies the version to a shader
func WithSPIRVVersion(version spirv.Version) ShaderBuilderOption {
	return func(s *shader) {
		s.spirvVersion = version
	}
}

// WithDebugInfo emits debug names and line information into compiled SPIR-V.
//
// Parameters:
//   - enabled: whether debug info is emitted
//
// Returns:
//   - ShaderBuilderOption: a function that applies the debug flag to a shader
func WithDebugInfo(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.debugInfo = enabled
	}
}

// WithValidation toggles IR validation before SPIR-V emission. Enabled by default.
func WithValidation(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.validate = enabled
	}
}
