package vulkan

import (
	"errors"
	"fmt"
	"slices"

	vk "github.com/goki/vulkan"
)

var errInjected = errors.New("injected failure")

type fakeDevice struct {
	props      DeviceProperties
	families   []QueueFamily
	present    map[uint32]bool
	extensions []string
}

type fakeEvent struct {
	op     string // "create" or "destroy"
	kind   ObjectKind
	handle Handle
}

// fakeDriver is a scripted Driver. Every created object gets a fresh handle tracked in live until destroyed.
// failAt injects an error on the Nth call (1-based) of the named method.
type fakeDriver struct {
	extensions []string
	layers     []string
	devices    []fakeDevice

	caps          vk.SurfaceCapabilities
	formats       []vk.SurfaceFormat
	modes         []vk.PresentMode
	imageCount    int
	depthFeatures map[vk.Format]vk.FormatFeatureFlags

	failAt map[string]int
	calls  map[string]int

	next     Handle
	live     map[Handle]ObjectKind
	events   []fakeEvent
	misuse   []string
	released int

	lastInstance  InstanceDescriptor
	lastDevice    DeviceDescriptor
	lastSwapchain SwapchainDescriptor
	lastPipeline  GraphicsPipelineDescriptor
	lastSetLayout [][]vk.DescriptorSetLayoutBinding
	messengerCB   DebugCallback
}

const (
	fakePhysicalBase Handle = 1000
	fakeImageBase    Handle = 5000
	fakeQueueBase    Handle = 9000
)

func discreteDevice(name string) fakeDevice {
	return fakeDevice{
		props:      DeviceProperties{Name: name, Type: vk.PhysicalDeviceTypeDiscreteGpu, APIVersion: vk.MakeVersion(1, 2, 0)},
		families:   []QueueFamily{{Graphics: true, QueueCount: 1}},
		present:    map[uint32]bool{0: true},
		extensions: []string{swapchainExtension},
	}
}

func deviceOfType(name string, t vk.PhysicalDeviceType) fakeDevice {
	d := discreteDevice(name)
	d.props.Type = t
	return d
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		extensions: []string{surfaceExtension, platformSurfaceExtension, debugUtilsExtension, headlessSurfaceExtension},
		layers:     []string{validationLayerName},
		devices:    []fakeDevice{discreteDevice("discrete")},
		caps: vk.SurfaceCapabilities{
			MinImageCount:    2,
			MaxImageCount:    8,
			CurrentExtent:    vk.Extent2D{Width: 800, Height: 600},
			MinImageExtent:   vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:   vk.Extent2D{Width: 4096, Height: 4096},
			CurrentTransform: vk.SurfaceTransformIdentityBit,
		},
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		modes:      []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
		imageCount: 3,
		depthFeatures: map[vk.Format]vk.FormatFeatureFlags{
			vk.FormatD32Sfloat: vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
		},
		failAt: map[string]int{},
		calls:  map[string]int{},
		live:   map[Handle]ObjectKind{},
	}
}

// fail reports whether the current call of op is the one scripted to fail.
func (f *fakeDriver) fail(op string) bool {
	f.calls[op]++
	return f.failAt[op] == f.calls[op]
}

func (f *fakeDriver) create(op string, kind ObjectKind) (Handle, error) {
	if f.fail(op) {
		return NullHandle, fmt.Errorf("%s: %w", op, errInjected)
	}
	f.next++
	h := f.next
	f.live[h] = kind
	f.events = append(f.events, fakeEvent{op: "create", kind: kind, handle: h})
	return h, nil
}

func (f *fakeDriver) destroy(kind ObjectKind, h Handle) {
	if h == NullHandle {
		return
	}
	got, ok := f.live[h]
	switch {
	case !ok:
		f.misuse = append(f.misuse, fmt.Sprintf("destroy of unknown %s %d", kind, h))
	case got != kind:
		f.misuse = append(f.misuse, fmt.Sprintf("destroy of %s %d as %s", got, h, kind))
	}
	delete(f.live, h)
	f.events = append(f.events, fakeEvent{op: "destroy", kind: kind, handle: h})
}

// liveOf counts live objects of a kind.
func (f *fakeDriver) liveOf(kind ObjectKind) int {
	n := 0
	for _, k := range f.live {
		if k == kind {
			n++
		}
	}
	return n
}

// destroyed lists the destroyed kinds in order.
func (f *fakeDriver) destroyed() []ObjectKind {
	var out []ObjectKind
	for _, e := range f.events {
		if e.op == "destroy" {
			out = append(out, e.kind)
		}
	}
	return out
}

func (f *fakeDriver) device(h Handle) *fakeDevice {
	i := int(h - fakePhysicalBase)
	if i < 0 || i >= len(f.devices) {
		return nil
	}
	return &f.devices[i]
}

func (f *fakeDriver) InstanceExtensions() ([]string, error) {
	if f.fail("InstanceExtensions") {
		return nil, errInjected
	}
	return f.extensions, nil
}

func (f *fakeDriver) InstanceLayers() ([]string, error) {
	if f.fail("InstanceLayers") {
		return nil, errInjected
	}
	return f.layers, nil
}

func (f *fakeDriver) CreateInstance(desc InstanceDescriptor) (Handle, error) {
	f.lastInstance = desc
	return f.create("CreateInstance", ObjectInstance)
}

func (f *fakeDriver) DestroyInstance(instance Handle) {
	f.destroy(ObjectInstance, instance)
}

func (f *fakeDriver) CreateDebugMessenger(instance Handle, cb DebugCallback) (Handle, error) {
	f.messengerCB = cb
	return f.create("CreateDebugMessenger", ObjectDebugMessenger)
}

func (f *fakeDriver) DestroyDebugMessenger(instance, messenger Handle) {
	f.destroy(ObjectDebugMessenger, messenger)
}

func (f *fakeDriver) CreateSurface(instance Handle, native NativeHandles) (Handle, error) {
	return f.create("CreateSurface", ObjectSurface)
}

func (f *fakeDriver) DestroySurface(instance, surface Handle) {
	f.destroy(ObjectSurface, surface)
}

func (f *fakeDriver) PhysicalDevices(instance Handle) ([]Handle, error) {
	if f.fail("PhysicalDevices") {
		return nil, errInjected
	}
	out := make([]Handle, len(f.devices))
	for i := range f.devices {
		out[i] = fakePhysicalBase + Handle(i)
	}
	return out, nil
}

func (f *fakeDriver) DeviceProperties(physicalDevice Handle) DeviceProperties {
	return f.device(physicalDevice).props
}

func (f *fakeDriver) QueueFamilies(physicalDevice Handle) []QueueFamily {
	f.calls["QueueFamilies"]++
	return f.device(physicalDevice).families
}

func (f *fakeDriver) SurfaceSupport(physicalDevice Handle, family uint32, surface Handle) (bool, error) {
	return f.device(physicalDevice).present[family], nil
}

func (f *fakeDriver) DeviceExtensions(physicalDevice Handle) ([]string, error) {
	return f.device(physicalDevice).extensions, nil
}

func (f *fakeDriver) SurfaceCapabilities(physicalDevice, surface Handle) (vk.SurfaceCapabilities, error) {
	if f.fail("SurfaceCapabilities") {
		return vk.SurfaceCapabilities{}, errInjected
	}
	return f.caps, nil
}

func (f *fakeDriver) SurfaceFormats(physicalDevice, surface Handle) ([]vk.SurfaceFormat, error) {
	return f.formats, nil
}

func (f *fakeDriver) PresentModes(physicalDevice, surface Handle) ([]vk.PresentMode, error) {
	return f.modes, nil
}

func (f *fakeDriver) FormatProperties(physicalDevice Handle, format vk.Format) vk.FormatProperties {
	return vk.FormatProperties{OptimalTilingFeatures: f.depthFeatures[format]}
}

func (f *fakeDriver) CreateDevice(physicalDevice Handle, desc DeviceDescriptor) (Handle, error) {
	f.lastDevice = desc
	return f.create("CreateDevice", ObjectDevice)
}

func (f *fakeDriver) DestroyDevice(device Handle) {
	f.destroy(ObjectDevice, device)
}

func (f *fakeDriver) DeviceQueue(device Handle, family uint32) Handle {
	return fakeQueueBase + Handle(family)
}

func (f *fakeDriver) DeviceWaitIdle(device Handle) error {
	f.calls["DeviceWaitIdle"]++
	return nil
}

func (f *fakeDriver) CreateSwapchain(device Handle, desc SwapchainDescriptor) (Handle, error) {
	f.lastSwapchain = desc
	return f.create("CreateSwapchain", ObjectSwapchain)
}

func (f *fakeDriver) DestroySwapchain(device, swapchain Handle) {
	f.destroy(ObjectSwapchain, swapchain)
}

func (f *fakeDriver) SwapchainImages(device, swapchain Handle) ([]Handle, error) {
	if f.fail("SwapchainImages") {
		return nil, errInjected
	}
	images := make([]Handle, f.imageCount)
	for i := range images {
		images[i] = fakeImageBase + Handle(i)
	}
	return images, nil
}

func (f *fakeDriver) CreateImageView(device Handle, desc ImageViewDescriptor) (Handle, error) {
	return f.create("CreateImageView", ObjectImageView)
}

func (f *fakeDriver) DestroyImageView(device, view Handle) {
	f.destroy(ObjectImageView, view)
}

func (f *fakeDriver) CreateRenderPass(device Handle, desc RenderPassDescriptor) (Handle, error) {
	return f.create("CreateRenderPass", ObjectRenderPass)
}

func (f *fakeDriver) DestroyRenderPass(device, renderPass Handle) {
	f.destroy(ObjectRenderPass, renderPass)
}

func (f *fakeDriver) CreateFramebuffer(device Handle, desc FramebufferDescriptor) (Handle, error) {
	return f.create("CreateFramebuffer", ObjectFramebuffer)
}

func (f *fakeDriver) DestroyFramebuffer(device, framebuffer Handle) {
	f.destroy(ObjectFramebuffer, framebuffer)
}

func (f *fakeDriver) CreateShaderModule(device Handle, code []byte) (Handle, error) {
	return f.create("CreateShaderModule", ObjectShaderModule)
}

func (f *fakeDriver) DestroyShaderModule(device, module Handle) {
	f.destroy(ObjectShaderModule, module)
}

func (f *fakeDriver) CreateDescriptorSetLayout(device Handle, bindings []vk.DescriptorSetLayoutBinding) (Handle, error) {
	f.lastSetLayout = append(f.lastSetLayout, slices.Clone(bindings))
	return f.create("CreateDescriptorSetLayout", ObjectDescriptorSetLayout)
}

func (f *fakeDriver) DestroyDescriptorSetLayout(device, layout Handle) {
	f.destroy(ObjectDescriptorSetLayout, layout)
}

func (f *fakeDriver) CreatePipelineLayout(device Handle, setLayouts []Handle) (Handle, error) {
	return f.create("CreatePipelineLayout", ObjectPipelineLayout)
}

func (f *fakeDriver) DestroyPipelineLayout(device, layout Handle) {
	f.destroy(ObjectPipelineLayout, layout)
}

func (f *fakeDriver) CreateGraphicsPipeline(device Handle, desc GraphicsPipelineDescriptor) (Handle, error) {
	f.lastPipeline = desc
	return f.create("CreateGraphicsPipeline", ObjectPipeline)
}

func (f *fakeDriver) DestroyPipeline(device, pipeline Handle) {
	f.destroy(ObjectPipeline, pipeline)
}

func (f *fakeDriver) Release() {
	f.released++
	f.events = append(f.events, fakeEvent{op: "release"})
}

var _ Driver = &fakeDriver{}
