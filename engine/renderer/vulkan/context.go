package vulkan

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/gofrs/uuid"
	vk "github.com/goki/vulkan"
)

// Context is the initialized backend: the loaded driver module, the instance with its optional debug
// messenger, the selected physical device, the logical device and its queues. Surfaces, shaders and pipelines
// are created from a Context and must be destroyed before it.
//
// A Context is not safe for concurrent creation calls; drive it from the thread that owns the window.
type Context struct {
	id  uuid.UUID
	log *logger.Logger
	drv Driver

	// options
	appName         string
	debug           bool
	headless        bool
	windowed        bool
	native          *NativeHandles
	depthAttachment bool
	libraryPath     string
	presentMode     vk.PresentMode
	observer        Observer
	defaultDesc     pipeline.Description

	instance       Handle
	messenger      Handle
	extensions     []string
	layers         []string
	physicalDevice Handle
	device         Handle
	graphicsQueue  Handle
	presentQueue   Handle
	queues         QueueFamilyIndices
	deviceFamilies []uint32
	info           DeviceInfo
	depthFormat    vk.Format

	destroyed bool
}

// NewContext loads the driver, creates the instance, selects a physical device and creates the logical device.
// When native window handles are supplied, a temporary surface is created from them so the selected device is
// known to present to that kind of window; it is destroyed again before NewContext returns. On failure every
// object created so far is destroyed in reverse order and nil is returned.
//
// Parameters:
//   - opts: ContextBuilderOption values
//
// Returns:
//   - *Context: the initialized context
//   - error: ErrModuleLoad, ErrExtensionUnavailable, ErrInstanceCreation, ErrDeviceSelection or ErrResourceCreation
func NewContext(opts ...ContextBuilderOption) (*Context, error) {
	c := &Context{
		appName:     "oxy-vk",
		windowed:    true,
		presentMode: vk.PresentModeMailbox,
		defaultDesc: pipeline.DefaultDescription(),
		depthFormat: vk.FormatUndefined,
	}
	for _, opt := range opts {
		opt(c)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("vulkan: session id: %w", err)
	}
	c.id = id
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.log = c.log.With("session", id.String())

	var rb rollback
	if c.drv == nil {
		drv, err := newVkDriver(c.log, c.libraryPath, c.windowed)
		if err != nil {
			return nil, err
		}
		c.drv = drv
	}
	base := c.drv
	rb.push("module", base.Release)
	c.drv = observe(base, c.observer)

	inst, err := newInstance(c.drv, c.log, instanceOptions{
		appName:  c.appName,
		debug:    c.debug,
		headless: c.headless,
		windowed: c.windowed,
	})
	if err != nil {
		rb.run()
		return nil, err
	}
	c.instance, c.messenger = inst.instance, inst.messenger
	c.extensions, c.layers = inst.extensions, inst.layers
	rb.push("instance", func() { c.drv.DestroyInstance(inst.instance) })
	if inst.messenger != NullHandle {
		rb.push("debug messenger", func() { c.drv.DestroyDebugMessenger(inst.instance, inst.messenger) })
	}

	initSurface := NullHandle
	releaseInitSurface := func() {
		if initSurface != NullHandle {
			c.drv.DestroySurface(c.instance, initSurface)
			initSurface = NullHandle
		}
	}
	if c.windowed && c.native != nil {
		initSurface, err = c.drv.CreateSurface(c.instance, *c.native)
		if err != nil {
			rb.run()
			c.log.Error().Str("op", platformSurfaceProc).Err(err).Msg("failed to create initialization surface")
			return nil, fmt.Errorf("%w: initialization surface: %w", ErrResourceCreation, err)
		}
		rb.push("initialization surface", releaseInitSurface)
	}

	var required []string
	if c.windowed {
		required = []string{swapchainExtension}
	}
	sel, err := selectPhysicalDevice(c.drv, c.log, c.instance, initSurface, required)
	if err != nil {
		rb.run()
		return nil, err
	}

	device, graphics, present, err := createLogicalDevice(c.drv, c.log, sel, required, c.layers)
	if err != nil {
		rb.run()
		return nil, err
	}
	rb.push("device", func() { c.drv.DestroyDevice(device) })

	c.physicalDevice, c.device = sel.physicalDevice, device
	c.graphicsQueue, c.presentQueue = graphics, present
	c.queues = sel.queues
	c.deviceFamilies = sel.queues.unique()
	c.info = DeviceInfo{
		Name:          sel.properties.Name,
		Type:          deviceTypeName(sel.properties.Type),
		DriverVersion: sel.properties.DriverVersion,
		APIVersion:    sel.properties.APIVersion,
		Score:         sel.score,
	}

	if c.depthAttachment {
		format, err := findDepthFormat(c.drv, c.physicalDevice)
		if err != nil {
			c.log.Warn().Err(err).Msg("depth attachment requested but no depth format is supported")
		} else {
			c.depthFormat = format
		}
	}

	releaseInitSurface()
	rb.release()
	c.log.Info().Str("device", c.info.Name).Str("type", c.info.Type).Int("score", c.info.Score).
		Uint32("api", c.info.APIVersion).Uint32("driver", c.info.DriverVersion).
		Bool("debug", c.messenger != NullHandle).Msg("vulkan context initialized")
	return c, nil
}

// Destroy waits for the device to go idle, then destroys the logical device, the debug messenger, the instance
// and finally unloads the driver module. Every Surface, Shader and Pipeline must already be destroyed.
// Calling Destroy again does nothing.
func (c *Context) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	c.destroyed = true

	if c.device != NullHandle {
		if err := c.drv.DeviceWaitIdle(c.device); err != nil {
			c.log.Warn().Str("op", "vkDeviceWaitIdle").Err(err).Msg("device wait failed before teardown")
		}
		c.drv.DestroyDevice(c.device)
		c.device = NullHandle
	}
	if c.messenger != NullHandle {
		c.drv.DestroyDebugMessenger(c.instance, c.messenger)
		c.messenger = NullHandle
	}
	if c.instance != NullHandle {
		c.drv.DestroyInstance(c.instance)
		c.instance = NullHandle
	}
	c.drv.Release()
	c.log.Debug().Msg("vulkan context destroyed")
}

// ID returns the session id attached to every log line of this context.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// DeviceInfo returns the name, type, versions and selection score of the selected physical device.
func (c *Context) DeviceInfo() DeviceInfo {
	return c.info
}

// DebugEnabled reports whether a debug messenger is forwarding validation output.
func (c *Context) DebugEnabled() bool {
	return c.messenger != NullHandle
}

// Extensions returns the enabled instance extensions.
func (c *Context) Extensions() []string {
	return append([]string(nil), c.extensions...)
}

// Device returns the logical device handle.
func (c *Context) Device() Handle {
	return c.device
}

// Queues returns the graphics queue and the present queue. The present queue is NullHandle when the context
// was created without an initialization surface.
func (c *Context) Queues() (Handle, Handle) {
	return c.graphicsQueue, c.presentQueue
}

// QueueFamilies returns the queue families resolved at device selection.
func (c *Context) QueueFamilies() QueueFamilyIndices {
	return c.queues
}

// DepthFormat returns the depth format found at initialization, or vk.FormatUndefined.
func (c *Context) DepthFormat() vk.Format {
	return c.depthFormat
}

// DefaultPipelineDescription returns a copy of the context's default fixed-function state.
// Callers adjust the copy and pass it to CreatePipeline.
func (c *Context) DefaultPipelineDescription() pipeline.Description {
	return c.defaultDesc.Clone()
}
