package vulkan

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
)

// Shader owns one native shader module. It does not depend on any pipeline and may be destroyed as
// soon as every pipeline using it has been created.
type Shader struct {
	module Handle
	size   int
}

// Module returns the native shader module handle.
func (s *Shader) Module() Handle {
	return s.module
}

// Size returns the byte length of the bytecode the module was created from.
func (s *Shader) Size() int {
	return s.size
}

// CreateShader creates a shader module from SPIR-V bytecode. The buffer is passed to the driver unmodified.
//
// Parameters:
//   - code: the SPIR-V words as little endian bytes
//
// Returns:
//   - *Shader: the shader module
//   - error: ErrResourceCreation when the bytecode is malformed or the driver rejects it
func (c *Context) CreateShader(code []byte) (*Shader, error) {
	if err := shader.ValidateBytecode(code); err != nil {
		c.log.Error().Str("op", "vkCreateShaderModule").Int("size", len(code)).Err(err).Msg("invalid shader bytecode")
		return nil, fmt.Errorf("%w: shader module: %w", ErrResourceCreation, err)
	}

	module, err := c.drv.CreateShaderModule(c.device, code)
	if err != nil {
		c.log.Error().Str("op", "vkCreateShaderModule").Str("handle", hexHandle(c.device)).Err(err).Msg("failed to create shader module")
		return nil, fmt.Errorf("%w: shader module: %w", ErrResourceCreation, err)
	}
	c.log.Trace().Str("handle", hexHandle(module)).Int("size", len(code)).Msg("shader module created")
	return &Shader{module: module, size: len(code)}, nil
}

// DestroyShader releases the shader module. A nil or already destroyed shader is ignored.
func (c *Context) DestroyShader(s *Shader) {
	if s == nil || s.module == NullHandle {
		return
	}
	c.drv.DestroyShaderModule(c.device, s.module)
	c.log.Trace().Str("handle", hexHandle(s.module)).Msg("shader module destroyed")
	s.module = NullHandle
}
