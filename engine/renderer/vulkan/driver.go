package vulkan

import (
	vk "github.com/goki/vulkan"
)

// Handle is an opaque native object reference issued by a Driver. NullHandle never names a live object.
type Handle uintptr

// NullHandle is the zero Handle.
const NullHandle Handle = 0

// NativeHandles is the platform display and window pair a surface is created from.
// For X11 these are the Display* and Window, for Wayland the wl_display* and wl_surface*,
// for Win32 the HINSTANCE (0 for the current module) and HWND, for Metal the CAMetalLayer in Window.
type NativeHandles struct {
	Display uintptr
	Window  uintptr
}

// DeviceProperties is the subset of physical device properties used for selection and reporting.
type DeviceProperties struct {
	Name          string
	Type          vk.PhysicalDeviceType
	DriverVersion uint32
	APIVersion    uint32
}

// QueueFamily describes one queue family of a physical device.
type QueueFamily struct {
	Graphics   bool
	QueueCount uint32
}

// InstanceDescriptor configures CreateInstance. When Debug is set the driver chains a debug messenger
// create info into instance creation, so messages raised by instance creation and destruction reach Debug.
type InstanceDescriptor struct {
	AppName    string
	APIVersion uint32
	Extensions []string
	Layers     []string
	Debug      DebugCallback
}

// DeviceDescriptor configures CreateDevice. One queue is created per entry of QueueFamilies.
type DeviceDescriptor struct {
	QueueFamilies []uint32
	Extensions    []string
	Layers        []string
}

// SwapchainDescriptor configures CreateSwapchain.
type SwapchainDescriptor struct {
	Surface            Handle
	MinImageCount      uint32
	Format             vk.SurfaceFormat
	Extent             vk.Extent2D
	SharingMode        vk.SharingMode
	QueueFamilyIndices []uint32
	PreTransform       vk.SurfaceTransformFlagBits
	PresentMode        vk.PresentMode
}

// ImageViewDescriptor configures CreateImageView.
type ImageViewDescriptor struct {
	Image    Handle
	Format   vk.Format
	ViewType vk.ImageViewType
	Aspect   vk.ImageAspectFlagBits
}

// RenderPassDescriptor configures CreateRenderPass.
type RenderPassDescriptor struct {
	Attachments  []vk.AttachmentDescription
	Subpasses    []vk.SubpassDescription
	Dependencies []vk.SubpassDependency
}

// FramebufferDescriptor configures CreateFramebuffer.
type FramebufferDescriptor struct {
	RenderPass  Handle
	Attachments []Handle
	Width       uint32
	Height      uint32
}

// PipelineStage is one shader stage of a graphics pipeline.
type PipelineStage struct {
	Stage      vk.ShaderStageFlagBits
	Module     Handle
	EntryPoint string
}

// GraphicsPipelineDescriptor configures CreateGraphicsPipeline. The state structs are complete
// native create infos; the driver only wires them together.
type GraphicsPipelineDescriptor struct {
	Stages           []PipelineStage
	VertexBindings   []vk.VertexInputBindingDescription
	VertexAttributes []vk.VertexInputAttributeDescription
	InputAssembly    vk.PipelineInputAssemblyStateCreateInfo
	Rasterization    vk.PipelineRasterizationStateCreateInfo
	Multisample      vk.PipelineMultisampleStateCreateInfo
	DepthStencil     vk.PipelineDepthStencilStateCreateInfo
	ColorBlend       []vk.PipelineColorBlendAttachmentState
	BlendConstants   [4]float32
	DynamicStates    []vk.DynamicState
	Layout           Handle
	RenderPass       Handle
}

// DebugCallback receives driver diagnostics from a debug messenger.
type DebugCallback func(severity DebugSeverity, prefix, message string)

// Driver is the native API surface used by the backend. The Vulkan implementation talks to the
// dynamically loaded driver; tests substitute a scripted fake.
// Create calls return NullHandle together with a non-nil error on failure. Destroy calls accept NullHandle.
type Driver interface {
	InstanceExtensions() ([]string, error)
	InstanceLayers() ([]string, error)
	CreateInstance(desc InstanceDescriptor) (Handle, error)
	DestroyInstance(instance Handle)
	CreateDebugMessenger(instance Handle, cb DebugCallback) (Handle, error)
	DestroyDebugMessenger(instance, messenger Handle)

	CreateSurface(instance Handle, native NativeHandles) (Handle, error)
	DestroySurface(instance, surface Handle)

	PhysicalDevices(instance Handle) ([]Handle, error)
	DeviceProperties(physicalDevice Handle) DeviceProperties
	QueueFamilies(physicalDevice Handle) []QueueFamily
	SurfaceSupport(physicalDevice Handle, family uint32, surface Handle) (bool, error)
	DeviceExtensions(physicalDevice Handle) ([]string, error)
	SurfaceCapabilities(physicalDevice, surface Handle) (vk.SurfaceCapabilities, error)
	SurfaceFormats(physicalDevice, surface Handle) ([]vk.SurfaceFormat, error)
	PresentModes(physicalDevice, surface Handle) ([]vk.PresentMode, error)
	FormatProperties(physicalDevice Handle, format vk.Format) vk.FormatProperties

	CreateDevice(physicalDevice Handle, desc DeviceDescriptor) (Handle, error)
	DestroyDevice(device Handle)
	DeviceQueue(device Handle, family uint32) Handle
	DeviceWaitIdle(device Handle) error

	CreateSwapchain(device Handle, desc SwapchainDescriptor) (Handle, error)
	DestroySwapchain(device, swapchain Handle)
	SwapchainImages(device, swapchain Handle) ([]Handle, error)

	CreateImageView(device Handle, desc ImageViewDescriptor) (Handle, error)
	DestroyImageView(device, view Handle)
	CreateRenderPass(device Handle, desc RenderPassDescriptor) (Handle, error)
	DestroyRenderPass(device, renderPass Handle)
	CreateFramebuffer(device Handle, desc FramebufferDescriptor) (Handle, error)
	DestroyFramebuffer(device, framebuffer Handle)

	CreateShaderModule(device Handle, code []byte) (Handle, error)
	DestroyShaderModule(device, module Handle)
	CreateDescriptorSetLayout(device Handle, bindings []vk.DescriptorSetLayoutBinding) (Handle, error)
	DestroyDescriptorSetLayout(device, layout Handle)
	CreatePipelineLayout(device Handle, setLayouts []Handle) (Handle, error)
	DestroyPipelineLayout(device, layout Handle)
	CreateGraphicsPipeline(device Handle, desc GraphicsPipelineDescriptor) (Handle, error)
	DestroyPipeline(device, pipeline Handle)

	// Release unloads the driver module. No other call is valid afterwards.
	Release()
}
