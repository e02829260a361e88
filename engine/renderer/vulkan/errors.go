package vulkan

import "errors"

var (
	// ErrModuleLoad is returned when the driver library cannot be opened or a mandatory entry point is missing.
	ErrModuleLoad = errors.New("vulkan: module load failed")

	// ErrInstanceCreation is returned when the API instance, or its debug messenger, cannot be created.
	ErrInstanceCreation = errors.New("vulkan: instance creation failed")

	// ErrExtensionUnavailable is returned when a mandatory surface or swapchain extension is not offered.
	ErrExtensionUnavailable = errors.New("vulkan: required extension unavailable")

	// ErrDeviceSelection is returned when no physical device satisfies the queue and extension constraints.
	ErrDeviceSelection = errors.New("vulkan: no suitable physical device")

	// ErrSwapchainNegotiation is returned when a surface reports no formats or present modes.
	ErrSwapchainNegotiation = errors.New("vulkan: swapchain negotiation failed")

	// ErrResourceCreation is returned when a native create call does not succeed.
	ErrResourceCreation = errors.New("vulkan: resource creation failed")
)
