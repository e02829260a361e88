package vulkan

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

// renderPassDescriptor builds the single-subpass, color-only render pass used for presenting.
// The color attachment is cleared on load and ends in the present layout. The external dependency
// makes the first color write wait for the swapchain image to become available.
func renderPassDescriptor(format vk.Format) RenderPassDescriptor {
	color := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
	return RenderPassDescriptor{
		Attachments:  []vk.AttachmentDescription{color},
		Subpasses:    []vk.SubpassDescription{subpass},
		Dependencies: []vk.SubpassDependency{dependency},
	}
}

// createRenderPass creates the presentation render pass for a swapchain format.
//
// Parameters:
//   - drv: the driver
//   - log: the diagnostic sink
//   - device: the logical device
//   - format: the swapchain color format
//
// Returns:
//   - Handle: the render pass
//   - error: ErrResourceCreation on failure
func createRenderPass(drv Driver, log *logger.Logger, device Handle, format vk.Format) (Handle, error) {
	rp, err := drv.CreateRenderPass(device, renderPassDescriptor(format))
	if err != nil {
		log.Error().Str("op", "vkCreateRenderPass").Str("handle", hexHandle(device)).Err(err).Msg("failed to create render pass")
		return NullHandle, fmt.Errorf("%w: render pass: %w", ErrResourceCreation, err)
	}
	log.Trace().Str("handle", hexHandle(rp)).Msg("render pass created")
	return rp, nil
}

// CreateRenderPass creates a standalone color render pass. Pipelines need a compatible render pass even when
// no surface exists, as in headless mode.
//
// Parameters:
//   - format: the color attachment format
//
// Returns:
//   - Handle: the render pass
//   - error: ErrResourceCreation on failure
func (c *Context) CreateRenderPass(format vk.Format) (Handle, error) {
	return createRenderPass(c.drv, c.log, c.device, format)
}

// DestroyRenderPass releases a render pass created by CreateRenderPass. NullHandle is ignored.
func (c *Context) DestroyRenderPass(renderPass Handle) {
	if renderPass == NullHandle {
		return
	}
	c.drv.DestroyRenderPass(c.device, renderPass)
}
