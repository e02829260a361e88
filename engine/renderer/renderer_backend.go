package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	vk "github.com/goki/vulkan"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeVulkan selects the Vulkan backend loaded from the system driver library at runtime.
	BackendTypeVulkan RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Always supported.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped

	// PresentModeTripleBuffered replaces the queued frame with the newest one at each vertical blank.
	// This is the default.
	PresentModeTripleBuffered
)

// ParsePresentMode maps a configuration name to a PresentMode.
//
// Parameters:
//   - name: "vsync", "uncapped" or "triple"
//
// Returns:
//   - PresentMode: the matching mode
//   - error: an error naming the unknown value
func ParsePresentMode(name string) (PresentMode, error) {
	switch name {
	case "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	case "triple", "mailbox", "":
		return PresentModeTripleBuffered, nil
	}
	return 0, fmt.Errorf("renderer: unknown present mode %q", name)
}

func (m PresentMode) vkPresentMode() vk.PresentMode {
	switch m {
	case PresentModeVSync:
		return vk.PresentModeFifo
	case PresentModeUncapped:
		return vk.PresentModeImmediate
	case PresentModeTripleBuffered:
		return vk.PresentModeMailbox
	}
	panic(fmt.Sprintf("renderer: unmapped present mode %d", int(m)))
}

// RendererBackend is the GPU API seam of the Renderer. It owns native shader modules keyed by shader key
// and builds native pipelines from them. Every call is made from the thread that owns the window.
type RendererBackend interface {
	// DeviceInfo describes the selected physical device.
	DeviceInfo() vulkan.DeviceInfo

	// DefaultPipelineDescription returns a copy of the backend's default fixed-function state.
	DefaultPipelineDescription() pipeline.Description

	// CreateShaderModule creates the native module for s. An existing module with the same key is
	// destroyed once the new one exists.
	//
	// Parameters:
	//   - s: the compiled shader
	//
	// Returns:
	//   - error: an error if the module cannot be created, in which case the old module is kept
	CreateShaderModule(s shader.Shader) error

	// DestroyShaderModule destroys the module registered under key. Unknown keys are ignored.
	DestroyShaderModule(key string)

	// CreatePipeline builds the native pipeline for p from the modules of its stages and attaches it
	// with p.SetNative.
	//
	// Parameters:
	//   - p: the pipeline to build
	//
	// Returns:
	//   - error: an error if validation fails, a stage has no module, or creation fails
	CreatePipeline(p pipeline.Pipeline) error

	// DestroyPipeline destroys the native pipeline attached to p and detaches it.
	DestroyPipeline(p pipeline.Pipeline)

	// ConfigureSurface rebuilds the swapchain for a new size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - bool: true when the render pass was replaced and pipelines must be rebuilt
	//   - error: an error if the swapchain could not be recreated
	ConfigureSurface(width, height int) (bool, error)

	// Destroy releases the surface, every remaining module and the context.
	Destroy()
}
