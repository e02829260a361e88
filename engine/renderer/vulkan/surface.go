package vulkan

import (
	"fmt"
	"slices"

	vk "github.com/goki/vulkan"
)

// Surface is a window presentation target with its swapchain and the render pass its framebuffers use.
// A Surface must be destroyed before the Context that created it.
type Surface struct {
	ctx *Context

	surface      Handle
	queues       QueueFamilyIndices
	presentQueue Handle
	renderPass   Handle
	passFormat   vk.Format
	swapchain    *SwapchainData

	width  uint32
	height uint32
}

// Handle returns the native surface handle.
func (s *Surface) Handle() Handle {
	return s.surface
}

// RenderPass returns the render pass the swapchain framebuffers were created against.
func (s *Surface) RenderPass() Handle {
	return s.renderPass
}

// Swapchain returns the current swapchain, or nil after a failed Recreate.
func (s *Surface) Swapchain() *SwapchainData {
	return s.swapchain
}

// Extent returns the negotiated swapchain extent, or the zero extent when there is no swapchain.
func (s *Surface) Extent() vk.Extent2D {
	if s.swapchain == nil {
		return vk.Extent2D{}
	}
	return s.swapchain.Extent
}

// PresentQueue returns the queue that presents to this surface.
func (s *Surface) PresentQueue() Handle {
	return s.presentQueue
}

// surfaceQueues resolves the queue families for a new surface by scanning the selected device against it.
// The present family must be one the logical device has a queue for; when the first presenting family has
// none, another family with a queue that also presents is used.
func (c *Context) surfaceQueues(surface Handle) (QueueFamilyIndices, error) {
	queues := findQueueFamilies(c.drv, c.physicalDevice, surface)
	if !queues.PresentFound {
		return QueueFamilyIndices{}, fmt.Errorf("%w: no queue family presents to surface", ErrDeviceSelection)
	}
	queues.Graphics, queues.GraphicsFound = c.queues.Graphics, true
	if slices.Contains(c.deviceFamilies, queues.Present) {
		return queues, nil
	}
	for _, family := range c.deviceFamilies {
		if ok, err := c.drv.SurfaceSupport(c.physicalDevice, family, surface); err == nil && ok {
			queues.Present = family
			return queues, nil
		}
	}
	return QueueFamilyIndices{}, fmt.Errorf("%w: queue family %d presents to surface but has no queue on the logical device",
		ErrDeviceSelection, queues.Present)
}

// CreateSurface creates a presentation surface for a native window, then its render pass and swapchain.
// The requested size is used only when the platform leaves the surface extent to the swapchain.
//
// Parameters:
//   - native: the display and window handles of the window
//   - width: the requested width in pixels
//   - height: the requested height in pixels
//
// Returns:
//   - *Surface: the surface with a complete swapchain
//   - error: ErrExtensionUnavailable when the context was created without windowed presentation,
//     ErrDeviceSelection when the device cannot present to the window, or a negotiation or creation error
func (c *Context) CreateSurface(native NativeHandles, width, height uint32) (*Surface, error) {
	if !c.windowed {
		c.log.Error().Str("op", "CreateSurface").Msg("context was created without windowed presentation")
		return nil, fmt.Errorf("%w: %s", ErrExtensionUnavailable, surfaceExtension)
	}

	var rb rollback
	handle, err := c.drv.CreateSurface(c.instance, native)
	if err != nil {
		c.log.Error().Str("op", platformSurfaceProc).Err(err).Msg("failed to create window surface")
		return nil, fmt.Errorf("%w: surface: %w", ErrResourceCreation, err)
	}
	rb.push("surface", func() { c.drv.DestroySurface(c.instance, handle) })

	queues, err := c.surfaceQueues(handle)
	if err != nil {
		rb.run()
		c.log.Error().Str("op", "vkGetPhysicalDeviceSurfaceSupportKHR").Str("handle", hexHandle(handle)).
			Err(err).Msg("selected device cannot present to surface")
		return nil, err
	}

	s := &Surface{
		ctx:          c,
		surface:      handle,
		queues:       queues,
		presentQueue: c.drv.DeviceQueue(c.device, queues.Present),
		width:        width,
		height:       height,
	}

	cfg, err := negotiateSwapchain(c.drv, c.log, c.physicalDevice, handle, s.queues, width, height, c.presentMode)
	if err != nil {
		rb.run()
		return nil, err
	}

	rp, err := createRenderPass(c.drv, c.log, c.device, cfg.format.Format)
	if err != nil {
		rb.run()
		return nil, err
	}
	rb.push("render pass", func() { c.drv.DestroyRenderPass(c.device, rp) })
	s.renderPass, s.passFormat = rp, cfg.format.Format

	sc, err := createSwapchain(c.drv, c.log, c.device, handle, rp, cfg)
	if err != nil {
		rb.run()
		return nil, err
	}
	sc.DepthFormat = c.depthFormat
	s.swapchain = sc

	rb.release()
	c.log.Debug().Str("handle", hexHandle(handle)).Uint32("width", sc.Extent.Width).Uint32("height", sc.Extent.Height).
		Int("images", len(sc.Images)).Msg("surface created")
	return s, nil
}

// Recreate rebuilds the swapchain for a new window size. Framebuffers, views and the swapchain are destroyed
// first; the render pass is kept unless the negotiated format changed. On failure the surface has no
// swapchain until a later Recreate succeeds.
//
// Parameters:
//   - width: the requested width in pixels
//   - height: the requested height in pixels
//
// Returns:
//   - error: a negotiation or creation error
func (s *Surface) Recreate(width, height uint32) error {
	c := s.ctx
	if s.surface == NullHandle {
		return fmt.Errorf("%w: surface destroyed", ErrSwapchainNegotiation)
	}
	if err := c.drv.DeviceWaitIdle(c.device); err != nil {
		c.log.Warn().Str("op", "vkDeviceWaitIdle").Err(err).Msg("device wait failed before swapchain recreation")
	}

	s.swapchain.destroy(c.drv, c.device)
	s.swapchain = nil
	s.width, s.height = width, height

	cfg, err := negotiateSwapchain(c.drv, c.log, c.physicalDevice, s.surface, s.queues, width, height, c.presentMode)
	if err != nil {
		return err
	}

	if cfg.format.Format != s.passFormat {
		rp, err := createRenderPass(c.drv, c.log, c.device, cfg.format.Format)
		if err != nil {
			return err
		}
		if s.renderPass != NullHandle {
			c.drv.DestroyRenderPass(c.device, s.renderPass)
		}
		s.renderPass, s.passFormat = rp, cfg.format.Format
		c.log.Debug().Str("handle", hexHandle(rp)).Msg("render pass replaced after format change")
	}

	sc, err := createSwapchain(c.drv, c.log, c.device, s.surface, s.renderPass, cfg)
	if err != nil {
		return err
	}
	sc.DepthFormat = c.depthFormat
	s.swapchain = sc
	c.log.Debug().Str("handle", hexHandle(s.surface)).Uint32("width", sc.Extent.Width).Uint32("height", sc.Extent.Height).Msg("swapchain recreated")
	return nil
}

// DestroySurface releases framebuffers, image views, the swapchain, the render pass and finally the
// surface. A nil or already destroyed surface is ignored.
func (c *Context) DestroySurface(s *Surface) {
	if s == nil || s.surface == NullHandle {
		return
	}
	if err := c.drv.DeviceWaitIdle(c.device); err != nil {
		c.log.Warn().Str("op", "vkDeviceWaitIdle").Err(err).Msg("device wait failed before surface teardown")
	}
	s.swapchain.destroy(c.drv, c.device)
	s.swapchain = nil
	if s.renderPass != NullHandle {
		c.drv.DestroyRenderPass(c.device, s.renderPass)
		s.renderPass = NullHandle
	}
	c.drv.DestroySurface(c.instance, s.surface)
	c.log.Debug().Str("handle", hexHandle(s.surface)).Msg("surface destroyed")
	s.surface = NullHandle
}
