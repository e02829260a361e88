package vulkan

import (
	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	vk "github.com/goki/vulkan"
)

// ContextBuilderOption is a functional option applied to a Context during NewContext.
type ContextBuilderOption func(*Context)

// WithDriver replaces the dynamically loaded driver. The Context takes ownership and calls Release on teardown.
//
// Parameters:
//   - drv: the Driver to use
//
// Returns:
//   - ContextBuilderOption: a function that applies the driver option to a Context
func WithDriver(drv Driver) ContextBuilderOption {
	return func(c *Context) {
		c.drv = drv
	}
}

// WithLogger sets the sink for diagnostics and debug messenger output. The default discards everything.
//
// Parameters:
//   - log: the Logger to write to
//
// Returns:
//   - ContextBuilderOption: a function that applies the logger option to a Context
func WithLogger(log *logger.Logger) ContextBuilderOption {
	return func(c *Context) {
		c.log = log
	}
}

// WithAppName sets the application name reported to the driver.
//
// Parameters:
//   - name: the application name
//
// Returns:
//   - ContextBuilderOption: a function that applies the app name option to a Context
func WithAppName(name string) ContextBuilderOption {
	return func(c *Context) {
		c.appName = name
	}
}

// WithDebug requests the validation layer and a debug messenger. When the layer is not installed the
// Context is still created, with a warning and without the messenger.
//
// Parameters:
//   - enabled: true to request validation output
//
// Returns:
//   - ContextBuilderOption: a function that applies the debug option to a Context
func WithDebug(enabled bool) ContextBuilderOption {
	return func(c *Context) {
		c.debug = enabled
	}
}

// WithPresentation selects the presentation modes. Windowed enables the surface and swapchain extensions and
// is the default; headless adds the headless surface extension when available.
//
// Parameters:
//   - headless: whether headless presentation is requested
//   - windowed: whether window surfaces will be created
//
// Returns:
//   - ContextBuilderOption: a function that applies the presentation option to a Context
func WithPresentation(headless, windowed bool) ContextBuilderOption {
	return func(c *Context) {
		c.headless = headless
		c.windowed = windowed
	}
}

// WithNativeHandles supplies a window to select a device against. A temporary surface is created from the
// handles during NewContext so only devices that can present to it are considered.
//
// Parameters:
//   - native: the display and window handles
//
// Returns:
//   - ContextBuilderOption: a function that applies the native handles option to a Context
func WithNativeHandles(native NativeHandles) ContextBuilderOption {
	return func(c *Context) {
		c.native = &native
	}
}

// WithDepthAttachment enables depth format lookup. The found format is recorded on every SwapchainData;
// render passes stay color only.
//
// Parameters:
//   - enabled: true to look up a depth format
//
// Returns:
//   - ContextBuilderOption: a function that applies the depth option to a Context
func WithDepthAttachment(enabled bool) ContextBuilderOption {
	return func(c *Context) {
		c.depthAttachment = enabled
	}
}

// WithLibraryPath loads the driver from path instead of the platform default names.
//
// Parameters:
//   - path: the shared library path
//
// Returns:
//   - ContextBuilderOption: a function that applies the library path option to a Context
func WithLibraryPath(path string) ContextBuilderOption {
	return func(c *Context) {
		c.libraryPath = path
	}
}

// WithPresentMode sets the preferred present mode. When a surface does not support it FIFO is used.
// The default is mailbox.
//
// Parameters:
//   - mode: the preferred present mode
//
// Returns:
//   - ContextBuilderOption: a function that applies the present mode option to a Context
func WithPresentMode(mode vk.PresentMode) ContextBuilderOption {
	return func(c *Context) {
		c.presentMode = mode
	}
}

// WithObserver reports every native object created or destroyed through the Context to obs.
//
// Parameters:
//   - obs: the Observer to notify
//
// Returns:
//   - ContextBuilderOption: a function that applies the observer option to a Context
func WithObserver(obs Observer) ContextBuilderOption {
	return func(c *Context) {
		c.observer = obs
	}
}

// WithDefaultPipelineDescription replaces the fixed-function defaults returned by DefaultPipelineDescription.
//
// Parameters:
//   - desc: the default description; it is copied
//
// Returns:
//   - ContextBuilderOption: a function that applies the default description option to a Context
func WithDefaultPipelineDescription(desc pipeline.Description) ContextBuilderOption {
	return func(c *Context) {
		c.defaultDesc = desc.Clone()
	}
}
