package vulkan

import (
	"fmt"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

const (
	// indeterminateExtent is reported as the current extent when the surface size follows the swapchain.
	indeterminateExtent = math.MaxUint32

	// targetImageCount asks for triple buffering.
	targetImageCount = 3
)

// depthFormatCandidates are tried in order by findDepthFormat.
var depthFormatCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// SwapchainData is a swapchain with its images and the per-image views and framebuffers.
// Images, ImageViews and Framebuffers always have the same length.
type SwapchainData struct {
	Swapchain   Handle
	Format      vk.SurfaceFormat
	Extent      vk.Extent2D
	PresentMode vk.PresentMode

	// DepthFormat is the depth format found for this device, vk.FormatUndefined unless depth lookup was requested.
	DepthFormat vk.Format

	Images       []Handle
	ImageViews   []Handle
	Framebuffers []Handle
}

// swapchainConfig is the outcome of negotiating against a surface.
type swapchainConfig struct {
	format        vk.SurfaceFormat
	presentMode   vk.PresentMode
	extent        vk.Extent2D
	imageCount    uint32
	transform     vk.SurfaceTransformFlagBits
	sharingMode   vk.SharingMode
	queueFamilies []uint32
}

// chooseSurfaceFormat prefers 8-bit BGRA sRGB in the non-linear sRGB color space, otherwise the first format.
// The list must not be empty.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// choosePresentMode returns preferred when the surface supports it, otherwise FIFO which is always available.
func choosePresentMode(modes []vk.PresentMode, preferred vk.PresentMode) vk.PresentMode {
	if slices.Contains(modes, preferred) {
		return preferred
	}
	return vk.PresentModeFifo
}

// chooseExtent uses the current extent verbatim unless it is indeterminate, in which case the requested
// width and height are clamped independently into the supported range.
func chooseExtent(caps vk.SurfaceCapabilities, width, height uint32) vk.Extent2D {
	if caps.CurrentExtent.Width != indeterminateExtent {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// chooseImageCount targets three images. A maximum of 0 means unbounded, so only the minimum applies.
func chooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	if caps.MaxImageCount == 0 {
		return max(targetImageCount, caps.MinImageCount)
	}
	return clampUint32(targetImageCount, caps.MinImageCount, caps.MaxImageCount)
}

// chooseSharingMode shares images concurrently between the graphics and present families when they differ.
func chooseSharingMode(queues QueueFamilyIndices) (vk.SharingMode, []uint32) {
	if queues.Graphics != queues.Present {
		return vk.SharingModeConcurrent, []uint32{queues.Graphics, queues.Present}
	}
	return vk.SharingModeExclusive, nil
}

func clampUint32(v, lo, hi uint32) uint32 {
	return max(lo, min(v, hi))
}

// negotiateSwapchain queries the surface and picks format, present mode, extent, image count and sharing.
//
// Parameters:
//   - drv: the driver
//   - log: the diagnostic sink
//   - physicalDevice: the selected device
//   - surface: the target surface
//   - queues: the graphics and present families for this surface
//   - width, height: the requested size, used only when the surface extent is indeterminate
//   - preferredMode: the present mode to use when supported
//
// Returns:
//   - swapchainConfig: the negotiated parameters
//   - error: ErrSwapchainNegotiation when the surface reports nothing usable
func negotiateSwapchain(drv Driver, log *logger.Logger, physicalDevice, surface Handle, queues QueueFamilyIndices, width, height uint32, preferredMode vk.PresentMode) (swapchainConfig, error) {
	caps, err := drv.SurfaceCapabilities(physicalDevice, surface)
	if err != nil {
		log.Error().Str("op", "vkGetPhysicalDeviceSurfaceCapabilitiesKHR").Str("handle", hexHandle(surface)).Err(err).Msg("failed to query surface capabilities")
		return swapchainConfig{}, fmt.Errorf("%w: capabilities: %w", ErrSwapchainNegotiation, err)
	}

	modes, err := drv.PresentModes(physicalDevice, surface)
	if err != nil || len(modes) == 0 {
		log.Error().Str("op", "vkGetPhysicalDeviceSurfacePresentModesKHR").Str("handle", hexHandle(surface)).Err(err).Msg("surface reports no present modes")
		return swapchainConfig{}, fmt.Errorf("%w: no present modes", ErrSwapchainNegotiation)
	}

	formats, err := drv.SurfaceFormats(physicalDevice, surface)
	if err != nil || len(formats) == 0 {
		log.Error().Str("op", "vkGetPhysicalDeviceSurfaceFormatsKHR").Str("handle", hexHandle(surface)).Err(err).Msg("surface reports no formats")
		return swapchainConfig{}, fmt.Errorf("%w: no surface formats", ErrSwapchainNegotiation)
	}

	sharing, families := chooseSharingMode(queues)
	return swapchainConfig{
		format:        chooseSurfaceFormat(formats),
		presentMode:   choosePresentMode(modes, preferredMode),
		extent:        chooseExtent(caps, width, height),
		imageCount:    chooseImageCount(caps),
		transform:     caps.CurrentTransform,
		sharingMode:   sharing,
		queueFamilies: families,
	}, nil
}

// createSwapchain creates the swapchain, one color view per image and one framebuffer per view bound to
// renderPass. On failure everything created by this call is destroyed, framebuffers first, and nil is returned.
//
// Parameters:
//   - drv: the driver
//   - log: the diagnostic sink
//   - device: the logical device
//   - surface: the target surface
//   - renderPass: the render pass the framebuffers are compatible with
//   - cfg: the negotiated parameters
//
// Returns:
//   - *SwapchainData: the complete swapchain
//   - error: ErrResourceCreation on any native failure
func createSwapchain(drv Driver, log *logger.Logger, device, surface, renderPass Handle, cfg swapchainConfig) (*SwapchainData, error) {
	var rb rollback

	swapchain, err := drv.CreateSwapchain(device, SwapchainDescriptor{
		Surface:            surface,
		MinImageCount:      cfg.imageCount,
		Format:             cfg.format,
		Extent:             cfg.extent,
		SharingMode:        cfg.sharingMode,
		QueueFamilyIndices: cfg.queueFamilies,
		PreTransform:       cfg.transform,
		PresentMode:        cfg.presentMode,
	})
	if err != nil {
		log.Error().Str("op", "vkCreateSwapchainKHR").Str("handle", hexHandle(surface)).Err(err).Msg("failed to create swapchain")
		return nil, fmt.Errorf("%w: swapchain: %w", ErrResourceCreation, err)
	}
	rb.push("swapchain", func() { drv.DestroySwapchain(device, swapchain) })

	images, err := drv.SwapchainImages(device, swapchain)
	if err != nil {
		rb.run()
		log.Error().Str("op", "vkGetSwapchainImagesKHR").Str("handle", hexHandle(swapchain)).Err(err).Msg("failed to get swapchain images")
		return nil, fmt.Errorf("%w: swapchain images: %w", ErrResourceCreation, err)
	}

	views := make([]Handle, 0, len(images))
	for i, image := range images {
		view, err := drv.CreateImageView(device, ImageViewDescriptor{
			Image:    image,
			Format:   cfg.format.Format,
			ViewType: vk.ImageViewType2d,
			Aspect:   vk.ImageAspectColorBit,
		})
		if err != nil {
			rb.run()
			log.Error().Str("op", "vkCreateImageView").Int("image", i).Err(err).Msg("failed to create swapchain image view")
			return nil, fmt.Errorf("%w: image view %d: %w", ErrResourceCreation, i, err)
		}
		views = append(views, view)
		rb.push("image view", func() { drv.DestroyImageView(device, view) })
	}

	framebuffers := make([]Handle, 0, len(views))
	for i, view := range views {
		fb, err := drv.CreateFramebuffer(device, FramebufferDescriptor{
			RenderPass:  renderPass,
			Attachments: []Handle{view},
			Width:       cfg.extent.Width,
			Height:      cfg.extent.Height,
		})
		if err != nil {
			rb.run()
			log.Error().Str("op", "vkCreateFramebuffer").Int("image", i).Err(err).Msg("failed to create swapchain framebuffer")
			return nil, fmt.Errorf("%w: framebuffer %d: %w", ErrResourceCreation, i, err)
		}
		framebuffers = append(framebuffers, fb)
		rb.push("framebuffer", func() { drv.DestroyFramebuffer(device, fb) })
	}

	rb.release()
	log.Trace().Str("handle", hexHandle(swapchain)).Int("images", len(images)).
		Uint32("width", cfg.extent.Width).Uint32("height", cfg.extent.Height).Msg("swapchain created")
	return &SwapchainData{
		Swapchain:    swapchain,
		Format:       cfg.format,
		Extent:       cfg.extent,
		PresentMode:  cfg.presentMode,
		DepthFormat:  vk.FormatUndefined,
		Images:       images,
		ImageViews:   views,
		Framebuffers: framebuffers,
	}, nil
}

// destroy releases framebuffers, then image views, then the swapchain. Every handle is checked so a
// partially populated record is safe, and the record is emptied so a second call does nothing.
func (s *SwapchainData) destroy(drv Driver, device Handle) {
	if s == nil {
		return
	}
	for i := len(s.Framebuffers) - 1; i >= 0; i-- {
		if s.Framebuffers[i] != NullHandle {
			drv.DestroyFramebuffer(device, s.Framebuffers[i])
		}
	}
	for i := len(s.ImageViews) - 1; i >= 0; i-- {
		if s.ImageViews[i] != NullHandle {
			drv.DestroyImageView(device, s.ImageViews[i])
		}
	}
	if s.Swapchain != NullHandle {
		drv.DestroySwapchain(device, s.Swapchain)
	}
	s.Framebuffers, s.ImageViews, s.Images = nil, nil, nil
	s.Swapchain = NullHandle
}

// findDepthFormat returns the first candidate depth format usable as an optimally tiled depth attachment.
//
// Parameters:
//   - drv: the driver
//   - physicalDevice: the selected device
//
// Returns:
//   - vk.Format: the depth format
//   - error: ErrSwapchainNegotiation when no candidate is supported
func findDepthFormat(drv Driver, physicalDevice Handle) (vk.Format, error) {
	for _, format := range depthFormatCandidates {
		props := drv.FormatProperties(physicalDevice, format)
		if vk.FormatFeatureFlagBits(props.OptimalTilingFeatures)&vk.FormatFeatureDepthStencilAttachmentBit != 0 {
			return format, nil
		}
	}
	return vk.FormatUndefined, fmt.Errorf("%w: no supported depth format", ErrSwapchainNegotiation)
}
